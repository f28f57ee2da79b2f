// Package train drives an agent through puzzle episodes and evaluates the
// resulting policy.
package train

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/falcon-lin-development/GameSolver/internal/agent"
	"github.com/falcon-lin-development/GameSolver/internal/game"
)

// BestWindow is how many recent episode scores the best-reward annotation looks at.
const BestWindow = 100

// ErrInvalidConfig is returned by NewTrainer for an unusable Config.
var ErrInvalidConfig = errors.New("invalid training config")

// Learner is the part of the agent the loop needs.
type Learner interface {
	ChooseAction(s game.State) int
	Update(s game.State, action int, reward float64, next game.State, done bool)
	ExplorationRate() float64
	Table() *agent.ValueTable
}

// Config controls the episode loop.
type Config struct {
	Episodes     int
	MaxSteps     int           // per-episode cap, the loop's liveness guarantee
	SaveInterval int           // checkpoint + plot every N episodes; 0 disables
	StepDelay    time.Duration // pause after each rendered step
	// TerminalOnCap marks the last allowed step as terminal for the update.
	TerminalOnCap bool
}

func (c Config) validate() error {
	switch {
	case c.Episodes < 0:
		return errors.Wrapf(ErrInvalidConfig, "episodes %d < 0", c.Episodes)
	case c.MaxSteps <= 0:
		return errors.Wrapf(ErrInvalidConfig, "max steps %d <= 0", c.MaxSteps)
	case c.SaveInterval < 0:
		return errors.Wrapf(ErrInvalidConfig, "save interval %d < 0", c.SaveInterval)
	case c.StepDelay < 0:
		return errors.Wrapf(ErrInvalidConfig, "step delay %v < 0", c.StepDelay)
	}
	return nil
}

// Trainer runs the training loop.
type Trainer struct {
	cfg     Config
	env     *game.Environment
	learner Learner

	checkpoint Checkpointer
	plotter    Plotter
	renderer   Renderer
	onEpisode  func(EpisodeResult)
	log        zerolog.Logger

	recent []float64 // 最近 BestWindow 局的得分
}

// Option configures a Trainer.
type Option func(*Trainer)

func WithCheckpointer(c Checkpointer) Option { return func(t *Trainer) { t.checkpoint = c } }

func WithPlotter(p Plotter) Option { return func(t *Trainer) { t.plotter = p } }

func WithRenderer(r Renderer) Option { return func(t *Trainer) { t.renderer = r } }

func WithLogger(l zerolog.Logger) Option { return func(t *Trainer) { t.log = l } }

// WithEpisodeHook registers fn to be called after every episode.
func WithEpisodeHook(fn func(EpisodeResult)) Option {
	return func(t *Trainer) { t.onEpisode = fn }
}

// NewTrainer wires env and learner together.
func NewTrainer(env *game.Environment, learner Learner, cfg Config, opts ...Option) (*Trainer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	t := &Trainer{
		cfg:     cfg,
		env:     env,
		learner: learner,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Run plays cfg.Episodes episodes and returns the score history.
// ctx is only consulted between episodes. A checkpoint or plot failure stops the
// run and is returned together with the scores gathered so far.
func (t *Trainer) Run(ctx context.Context) ([]float64, error) {
	scores := make([]float64, 0, t.cfg.Episodes)
	t.recent = t.recent[:0]

	for ep := 1; ep <= t.cfg.Episodes; ep++ {
		select {
		case <-ctx.Done():
			t.log.Info().Int("episode", ep-1).Msg("training cancelled")
			return scores, ctx.Err()
		default:
		}

		res, err := t.runEpisode(ep)
		if err != nil {
			return scores, err
		}
		scores = append(scores, res.TotalReward)
		t.remember(res.TotalReward)

		t.log.Debug().
			Int("episode", ep).
			Int("steps", res.Steps).
			Float64("reward", res.TotalReward).
			Bool("won", res.Won).
			Msg("episode finished")
		if t.onEpisode != nil {
			t.onEpisode(res)
		}

		if t.cfg.SaveInterval > 0 && ep%t.cfg.SaveInterval == 0 {
			if err := t.save(scores, ep); err != nil {
				return scores, err
			}
		}
	}
	return scores, nil
}

func (t *Trainer) runEpisode(ep int) (EpisodeResult, error) {
	state := t.env.Reset()
	res := EpisodeResult{Episode: ep}
	best := t.BestReward()

	for step := 0; step < t.cfg.MaxSteps; step++ {
		action := t.learner.ChooseAction(state)
		next, reward, done, err := t.env.Step(action)
		if err != nil {
			return res, errors.Wrapf(err, "episode %d step %d", ep, step)
		}
		if t.cfg.TerminalOnCap && step == t.cfg.MaxSteps-1 {
			done = true
		}
		t.learner.Update(state, action, reward, next, done)
		state = next
		res.TotalReward += reward
		res.Steps = step + 1

		if t.renderer != nil {
			move, index := t.env.LastMove()
			t.renderer.Render(Frame{
				Board:       t.env.Board(),
				Move:        move,
				Index:       index,
				Episode:     ep,
				Step:        step,
				TotalReward: res.TotalReward,
				BestReward:  best,
			})
			if t.cfg.StepDelay > 0 {
				time.Sleep(t.cfg.StepDelay)
			}
		}
		if done {
			break
		}
	}
	res.Won = t.env.IsWon()
	res.Exploration = t.learner.ExplorationRate()
	return res, nil
}

func (t *Trainer) save(scores []float64, ep int) error {
	t.log.Info().
		Int("episode", ep).
		Float64("mean_recent", stat.Mean(t.recent, nil)).
		Float64("exploration", t.learner.ExplorationRate()).
		Int("states", t.learner.Table().Len()).
		Msg("progress")

	if t.checkpoint != nil {
		// 传入拷贝，保存期间不会与训练共享 map
		hist := append([]float64(nil), scores...)
		if err := t.checkpoint.Save(hist, ep, t.learner.Table().Snapshot()); err != nil {
			return errors.Wrapf(err, "checkpoint at episode %d", ep)
		}
	}
	if t.plotter != nil {
		if err := t.plotter.Plot(scores, ep); err != nil {
			return errors.Wrapf(err, "plot at episode %d", ep)
		}
	}
	return nil
}

func (t *Trainer) remember(score float64) {
	if len(t.recent) == BestWindow {
		t.recent = append(t.recent[:0], t.recent[1:]...)
	}
	t.recent = append(t.recent, score)
}

// BestReward is the highest score among the last BestWindow episodes, 0 before
// the first episode finishes.
func (t *Trainer) BestReward() float64 {
	if len(t.recent) == 0 {
		return 0
	}
	return floats.Max(t.recent)
}

// RecentMean is the mean score over the last BestWindow episodes.
func (t *Trainer) RecentMean() float64 {
	if len(t.recent) == 0 {
		return 0
	}
	return stat.Mean(t.recent, nil)
}
