package main

import (
	"context"
	"flag"
	"math/rand"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/falcon-lin-development/GameSolver/internal/agent"
	"github.com/falcon-lin-development/GameSolver/internal/checkpoint"
	"github.com/falcon-lin-development/GameSolver/internal/config"
	"github.com/falcon-lin-development/GameSolver/internal/game"
	"github.com/falcon-lin-development/GameSolver/internal/plot"
	"github.com/falcon-lin-development/GameSolver/internal/train"
	"github.com/falcon-lin-development/GameSolver/internal/ui"
)

func main() {
	const ScreenScale = 1

	fs := flag.NewFlagSet("viewer", flag.ExitOnError)
	tps := fs.Int("tps", 60, "每秒逻辑更新次数")
	cfg, err := config.Load(fs, os.Args[1:])
	log := cfg.Logger(os.Stderr)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	reward, _ := cfg.RewardFunc()
	rng := rand.New(rand.NewSource(cfg.Seed))
	env := game.NewEnvironment(rng, game.WithReward(reward))
	a, err := agent.New(cfg.Agent(), rng)
	if err != nil {
		log.Fatal().Err(err).Msg("agent")
	}

	viewer := ui.NewViewer()
	t, err := train.NewTrainer(env, a, cfg.Train(),
		train.WithLogger(log),
		train.WithRenderer(viewer),
		train.WithCheckpointer(checkpoint.NewStore(cfg.RunDir())),
		train.WithPlotter(plot.NewHTML(cfg.RunDir(), "Training progress "+cfg.RunID)),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("trainer")
	}

	// 训练放到后台 goroutine，ebiten 主循环必须在主线程
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		scores, err := t.Run(ctx)
		if ctx.Err() != nil {
			// 窗口已关闭，不再评估
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("training failed")
			return
		}
		rate, err := train.EvaluateContext(ctx, a.Greedy(), func() *game.Environment {
			return game.NewEnvironment(rand.New(rand.NewSource(rng.Int63())), game.WithReward(reward))
		}, cfg.EvalGames, cfg.EvalMaxSteps)
		if err != nil {
			if ctx.Err() == nil {
				log.Error().Err(err).Msg("evaluation")
			}
			return
		}
		log.Info().Int("episodes", len(scores)).Msgf("Win rate: %.2f%%", rate*100)
	}()

	ebiten.SetTPS(*tps)
	ebiten.SetWindowSize(ui.WindowWidth*ScreenScale, ui.WindowHeight*ScreenScale)
	ebiten.SetWindowTitle("Puzzle Trainer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(viewer); err != nil {
		log.Error().Err(err).Msg("window")
	}
	// 关窗口即停止训练
	cancel()
	<-done
}
