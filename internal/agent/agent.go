// Package agent implements a tabular Q-learning agent for the five-face puzzle.
//
// The agent keeps a lazily grown ValueTable keyed by the packed board encoding,
// selects actions epsilon-greedily and decays its exploration rate after every
// non-terminal transition.
package agent

import (
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/falcon-lin-development/GameSolver/internal/game"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid agent config")

// Config holds the learning hyper-parameters.
type Config struct {
	LearningRate     float64 // α
	DiscountFactor   float64 // γ
	ExplorationRate  float64 // initial ε
	ExplorationDecay float64
	ExplorationMin   float64
}

// DefaultConfig returns the hyper-parameters the solver was tuned with.
func DefaultConfig() Config {
	return Config{
		LearningRate:     0.001,
		DiscountFactor:   0.95,
		ExplorationRate:  1.0,
		ExplorationDecay: 0.999,
		ExplorationMin:   0.1,
	}
}

// Validate checks every field is inside its meaningful range.
func (c Config) Validate() error {
	switch {
	case c.LearningRate <= 0 || c.LearningRate > 1:
		return errors.Wrapf(ErrInvalidConfig, "learning rate %v not in (0,1]", c.LearningRate)
	case c.DiscountFactor < 0 || c.DiscountFactor > 1:
		return errors.Wrapf(ErrInvalidConfig, "discount factor %v not in [0,1]", c.DiscountFactor)
	case c.ExplorationMin < 0 || c.ExplorationMin > 1:
		return errors.Wrapf(ErrInvalidConfig, "exploration min %v not in [0,1]", c.ExplorationMin)
	case c.ExplorationRate < c.ExplorationMin || c.ExplorationRate > 1:
		return errors.Wrapf(ErrInvalidConfig, "exploration rate %v not in [%v,1]", c.ExplorationRate, c.ExplorationMin)
	case c.ExplorationDecay <= 0 || c.ExplorationDecay > 1:
		return errors.Wrapf(ErrInvalidConfig, "exploration decay %v not in (0,1]", c.ExplorationDecay)
	}
	return nil
}

// Policy picks an action for a state.
type Policy interface {
	ChooseAction(s game.State) int
}

// Agent is an epsilon-greedy Q-learner.
type Agent struct {
	cfg   Config
	eps   float64
	table *ValueTable
	rng   *rand.Rand
}

// New creates an agent with an empty table. rng drives exploration.
func New(cfg Config, rng *rand.Rand) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Agent{
		cfg:   cfg,
		eps:   cfg.ExplorationRate,
		table: NewValueTable(),
		rng:   rng,
	}, nil
}

// ChooseAction explores with probability ε, otherwise acts greedily.
func (a *Agent) ChooseAction(s game.State) int {
	row := a.table.Row(s)
	if a.rng.Float64() < a.eps {
		return a.rng.Intn(game.ActionCount)
	}
	return argmax(row)
}

// GreedyAction returns the best known action for s, lowest index on ties.
func (a *Agent) GreedyAction(s game.State) int {
	return argmax(a.table.Row(s))
}

// Update applies one Q-learning step for the transition (s, action, reward, next).
//
//	Q[s][a] += α · (reward + γ · max Q[next] − Q[s][a])
//
// A terminal transition drops the bootstrap term. Exploration decays only
// after non-terminal transitions.
func (a *Agent) Update(s game.State, action int, reward float64, next game.State, done bool) {
	row := a.table.Row(s)
	nextRow := a.table.Row(next)

	target := reward
	if !done {
		target += a.cfg.DiscountFactor * floats.Max(nextRow[:])
	}
	row[action] += a.cfg.LearningRate * (target - row[action])

	if !done {
		a.eps = max(a.cfg.ExplorationMin, a.eps*a.cfg.ExplorationDecay)
	}
}

// ExplorationRate returns the current ε.
func (a *Agent) ExplorationRate() float64 {
	return a.eps
}

// SetExplorationRate overrides ε, clamped to [0,1]. Passing 0 freezes the policy.
func (a *Agent) SetExplorationRate(eps float64) {
	a.eps = min(1, max(0, eps))
}

// Config returns the agent's hyper-parameters.
func (a *Agent) Config() Config {
	return a.cfg
}

// Table exposes the live value table.
func (a *Agent) Table() *ValueTable {
	return a.table
}

// Restore replaces the table with a copy of snap, e.g. from a checkpoint.
func (a *Agent) Restore(snap Snapshot) {
	a.table = TableFromSnapshot(snap)
}

// Greedy returns a Policy view of a that never explores.
func (a *Agent) Greedy() Policy {
	return greedy{a}
}

type greedy struct{ a *Agent }

func (g greedy) ChooseAction(s game.State) int { return g.a.GreedyAction(s) }

// argmax 返回最大值下标，同值取最小下标
func argmax(v *Values) int {
	return floats.MaxIdx(v[:])
}
