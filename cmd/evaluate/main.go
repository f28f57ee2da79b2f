package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/falcon-lin-development/GameSolver/internal/checkpoint"
	"github.com/falcon-lin-development/GameSolver/internal/config"
	"github.com/falcon-lin-development/GameSolver/internal/console"
	"github.com/falcon-lin-development/GameSolver/internal/game"
	"github.com/falcon-lin-development/GameSolver/internal/train"
)

func main() {
	fs := flag.NewFlagSet("evaluate", flag.ExitOnError)
	episode := fs.Int("episode", 0, "checkpoint 局数，0 = 最新")
	show := fs.Bool("show", true, "打印一局贪心回放")
	cfg, err := config.Load(fs, os.Args[1:])
	log := cfg.Logger(os.Stderr)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	store := checkpoint.NewStore(cfg.RunDir())
	a, ep, err := store.Restore(cfg.Agent(), rand.New(rand.NewSource(cfg.Seed)), *episode)
	if err != nil {
		log.Fatal().Err(err).Msg("restore")
	}
	log.Info().Int("episode", ep).Int("states", a.Table().Len()).Msg("checkpoint loaded")

	reward, _ := cfg.RewardFunc()
	rng := rand.New(rand.NewSource(cfg.Seed))
	newEnv := func() *game.Environment { return game.NewEnvironment(rng, game.WithReward(reward)) }

	rate, err := train.Evaluate(a.Greedy(), newEnv, cfg.EvalGames, cfg.EvalMaxSteps)
	if err != nil {
		log.Fatal().Err(err).Msg("evaluate")
	}
	fmt.Printf("Win rate: %.2f%% over %d games (checkpoint %d)\n", rate*100, cfg.EvalGames, ep)

	if !*show {
		return
	}
	frames, won, err := train.Trace(a.Greedy(), newEnv(), cfg.EvalMaxSteps)
	if err != nil {
		log.Fatal().Err(err).Msg("rollout")
	}
	p := console.NewPrinter(os.Stdout)
	for _, f := range frames {
		f.Episode = ep
		p.Render(f)
	}
	fmt.Printf("solved: %v in %d moves\n", won, len(frames)-1)
}
