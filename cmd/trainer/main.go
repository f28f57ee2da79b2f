package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"github.com/falcon-lin-development/GameSolver/internal/agent"
	"github.com/falcon-lin-development/GameSolver/internal/checkpoint"
	"github.com/falcon-lin-development/GameSolver/internal/config"
	"github.com/falcon-lin-development/GameSolver/internal/game"
	"github.com/falcon-lin-development/GameSolver/internal/plot"
	"github.com/falcon-lin-development/GameSolver/internal/train"
)

func main() {
	// ───── 参数 ─────
	fs := flag.NewFlagSet("trainer", flag.ExitOnError)
	noBar := fs.Bool("no-progress", false, "不显示进度条")
	cfg, err := config.Load(fs, os.Args[1:])
	log := cfg.Logger(os.Stderr)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, scores, err := run(ctx, cfg, log, !*noBar)
	if err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("training failed")
	}
	if a == nil {
		return
	}
	report(cfg, log, a, scores)
}

func run(ctx context.Context, cfg config.Config, log zerolog.Logger, bar bool) (*agent.Agent, []float64, error) {
	reward, err := cfg.RewardFunc()
	if err != nil {
		return nil, nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	env := game.NewEnvironment(rng, game.WithReward(reward))
	a, err := agent.New(cfg.Agent(), rng)
	if err != nil {
		return nil, nil, err
	}

	opts := []train.Option{
		train.WithLogger(log),
		train.WithCheckpointer(checkpoint.NewStore(cfg.RunDir())),
		train.WithPlotter(plot.NewHTML(cfg.RunDir(), "Training progress "+cfg.RunID)),
	}
	if bar {
		pb := progressbar.Default(int64(cfg.Episodes), "training")
		defer pb.Finish()
		opts = append(opts, train.WithEpisodeHook(func(train.EpisodeResult) { _ = pb.Add(1) }))
	}
	t, err := train.NewTrainer(env, a, cfg.Train(), opts...)
	if err != nil {
		return nil, nil, err
	}

	log.Info().
		Int("episodes", cfg.Episodes).
		Int("max_steps", cfg.MaxSteps).
		Str("reward", cfg.Reward).
		Int64("seed", cfg.Seed).
		Str("dir", cfg.RunDir()).
		Msg("training started")
	scores, err := t.Run(ctx)
	return a, scores, err
}

// report 训练结束后评估胜率并画最终曲线
func report(cfg config.Config, log zerolog.Logger, a *agent.Agent, scores []float64) {
	reward, _ := cfg.RewardFunc()
	rng := rand.New(rand.NewSource(cfg.Seed + 1))
	newEnv := func() *game.Environment { return game.NewEnvironment(rng, game.WithReward(reward)) }

	greedyRate, err := train.Evaluate(a.Greedy(), newEnv, cfg.EvalGames, cfg.EvalMaxSteps)
	if err != nil {
		log.Error().Err(err).Msg("greedy evaluation")
	}
	// 带探索的评估：保持训练结束时的 ε
	epsRate, err := train.Evaluate(a, newEnv, cfg.EvalGames, cfg.EvalMaxSteps)
	if err != nil {
		log.Error().Err(err).Msg("epsilon evaluation")
	}

	if len(scores) > 0 {
		p := plot.NewHTML(cfg.RunDir(), "Training progress "+cfg.RunID)
		if err := p.Plot(scores, len(scores)); err != nil {
			log.Error().Err(err).Msg("final plot")
		} else {
			log.Info().Str("file", p.Path(len(scores))).Msg("final plot written")
		}
	}

	log.Info().
		Int("episodes", len(scores)).
		Int("states", a.Table().Len()).
		Float64("exploration", a.ExplorationRate()).
		Float64("win_rate_greedy", greedyRate).
		Float64("win_rate_epsilon", epsRate).
		Msgf("Win rate: %.2f%%", greedyRate*100)
}
