// cmd/replay/main.go
package main

import (
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/falcon-lin-development/GameSolver/internal/checkpoint"
	"github.com/falcon-lin-development/GameSolver/internal/config"
	"github.com/falcon-lin-development/GameSolver/internal/game"
	"github.com/falcon-lin-development/GameSolver/internal/train"
	"github.com/falcon-lin-development/GameSolver/internal/ui"
)

// 用 checkpoint 的贪心策略下一局，在窗口里逐步回放
// 空格：播放/暂停；→/←：单步；Esc：退出
func main() {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	episode := fs.Int("episode", 0, "checkpoint 局数，0 = 最新")
	delay := fs.Duration("delay", 500*time.Millisecond, "自动播放间隔")
	cfg, err := config.Load(fs, os.Args[1:])
	log := cfg.Logger(os.Stderr)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	a, ep, err := checkpoint.NewStore(cfg.RunDir()).Restore(cfg.Agent(), rng, *episode)
	if err != nil {
		log.Fatal().Err(err).Msg("restore")
	}
	reward, _ := cfg.RewardFunc()
	frames, won, err := train.Trace(a.Greedy(), game.NewEnvironment(rng, game.WithReward(reward)), cfg.EvalMaxSteps)
	if err != nil {
		log.Fatal().Err(err).Msg("rollout")
	}
	for i := range frames {
		frames[i].Episode = ep
	}
	log.Info().Int("checkpoint", ep).Int("moves", len(frames)-1).Bool("solved", won).Msg("replaying")

	ebiten.SetWindowSize(ui.WindowWidth, ui.WindowHeight)
	ebiten.SetWindowTitle("Puzzle Replay")
	if err := ebiten.RunGame(ui.NewReplay(frames, *delay)); err != nil {
		log.Fatal().Err(err).Msg("window")
	}
}
