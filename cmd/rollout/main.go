package main

import (
	"flag"
	"math/rand"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/falcon-lin-development/GameSolver/internal/checkpoint"
	"github.com/falcon-lin-development/GameSolver/internal/config"
	"github.com/falcon-lin-development/GameSolver/internal/game"
	"github.com/falcon-lin-development/GameSolver/internal/record"
	"github.com/falcon-lin-development/GameSolver/internal/train"
)

func main() {
	// ───── 参数 ─────
	fs := flag.NewFlagSet("rollout", flag.ExitOnError)
	numGames := fs.Int("n", 1000, "目标对局数")
	episode := fs.Int("episode", 0, "checkpoint 局数，0 = 最新")
	outFile := fs.String("out", "rollouts.csv", "CSV 文件")
	workers := fs.Int("workers", runtime.NumCPU(), "并行 worker 数")
	cfg, err := config.Load(fs, os.Args[1:])
	log := cfg.Logger(os.Stderr)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	store := checkpoint.NewStore(cfg.RunDir())
	ep, err := resolveEpisode(store, *episode)
	if err != nil {
		log.Fatal().Err(err).Msg("checkpoint")
	}

	// ───── 修复 CSV ─────
	lines, first, err := record.Repair(*outFile)
	if err != nil {
		log.Fatal().Err(err).Msg("repair csv")
	}
	if first > 0 {
		log.Info().Int("rows", lines).Int("next_game", first).Msg("resuming existing file")
	}

	// ───── 打开文件 + Writer ─────
	f, err := os.OpenFile(*outFile, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatal().Err(err).Msg("open csv")
	}
	defer f.Close()
	w := record.NewWriter(f)
	if lines == 0 {
		if err := w.WriteGame([][]string{record.Header()}); err != nil {
			log.Fatal().Err(err).Msg("header")
		}
	}

	// ───── 并发 worker 池 ─────
	if *workers < 1 {
		*workers = 1
	}
	reward, _ := cfg.RewardFunc()
	jobs := make(chan int, *workers*2)
	var wg sync.WaitGroup
	var wins, played atomic.Int64
	for i := 0; i < *workers; i++ {
		// 每个 worker 独立的 agent（贪心查询会惰性插入表项）和随机源
		r := rand.New(rand.NewSource(cfg.Seed + int64(i)))
		a, _, err := store.Restore(cfg.Agent(), r, ep)
		if err != nil {
			log.Fatal().Err(err).Msg("restore")
		}
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for id := range jobs {
				env := game.NewEnvironment(r, game.WithReward(reward))
				frames, won, err := train.Trace(a.Greedy(), env, cfg.EvalMaxSteps)
				if err != nil {
					log.Error().Err(err).Int("game", id).Msg("rollout")
					continue
				}
				rows, err := record.Rows(id, frames)
				if err != nil {
					log.Error().Err(err).Int("game", id).Msg("rows")
					continue
				}
				if err := w.WriteGame(rows); err != nil {
					log.Error().Err(err).Int("worker", workerID).Msg("write")
					continue
				}
				played.Add(1)
				if won {
					wins.Add(1)
				}
			}
		}(i)
	}

	// ───── 投任务 ─────
	for g := first; g < first+*numGames; g++ {
		jobs <- g
		if (g+1-first)%100 == 0 {
			log.Debug().Msgf("投放进度 %d/%d", g+1-first, *numGames)
		}
	}
	close(jobs)
	wg.Wait()

	n := played.Load()
	rate := 0.0
	if n > 0 {
		rate = float64(wins.Load()) / float64(n)
	}
	log.Info().
		Int("checkpoint", ep).
		Int64("games", n).
		Str("file", *outFile).
		Msgf("Win rate: %.2f%%", rate*100)
}

func resolveEpisode(store *checkpoint.Store, episode int) (int, error) {
	if episode != 0 {
		return episode, nil
	}
	return store.Latest()
}
