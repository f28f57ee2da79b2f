package train

import (
	"github.com/falcon-lin-development/GameSolver/internal/agent"
	"github.com/falcon-lin-development/GameSolver/internal/game"
)

// Checkpointer persists the score history and a copy of the value table.
type Checkpointer interface {
	Save(scores []float64, episode int, table agent.Snapshot) error
}

// Plotter turns the score history into a progress artifact.
type Plotter interface {
	Plot(scores []float64, episode int) error
}

// Frame is what a Renderer gets after every step. Board is a copy.
type Frame struct {
	Board       game.Board
	Move        game.Move
	Index       int
	Episode     int
	Step        int
	TotalReward float64
	BestReward  float64
}

// Renderer displays frames. It must not block for long and must not keep
// references into trainer state.
type Renderer interface {
	Render(f Frame)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(Frame)

func (fn RenderFunc) Render(f Frame) { fn(f) }

// EpisodeResult summarises one finished episode.
type EpisodeResult struct {
	Episode     int
	Steps       int
	TotalReward float64
	Won         bool
	Exploration float64
}
