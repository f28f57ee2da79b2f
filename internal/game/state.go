package game

import (
	"math/rand"
)

// IsWon reports whether every center cell is Marked. Because moves conserve the
// marker count, this also means no outer face holds a marker.
func IsWon(b *Board) bool {
	return b.CountFace(Center) == FaceSize*FaceSize
}

// Environment 包含了整个谜题的状态：棋盘、随机源和奖励策略
type Environment struct {
	board  Board
	rng    *rand.Rand
	reward RewardFunc

	lastMove  Move
	lastIndex int
	moves     int
}

// EnvOption configures an Environment at construction.
type EnvOption func(*Environment)

// WithReward replaces the default reward policy.
func WithReward(fn RewardFunc) EnvOption {
	return func(e *Environment) {
		if fn != nil {
			e.reward = fn
		}
	}
}

// WithBoard starts the environment from b instead of a random placement.
func WithBoard(b Board) EnvOption {
	return func(e *Environment) {
		e.board = b
	}
}

// NewEnvironment creates an environment that draws placements from rng.
// Unless WithBoard is given the board starts freshly randomized.
func NewEnvironment(rng *rand.Rand, opts ...EnvOption) *Environment {
	e := &Environment{
		rng:    rng,
		reward: DefaultReward,
	}
	e.board.Randomize(rng)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reset scatters a fresh set of markers and returns the encoded state.
func (e *Environment) Reset() State {
	e.board.Randomize(e.rng)
	e.moves = 0
	return e.State()
}

// Step decodes action, applies it, and reports the next state, the reward and
// whether the puzzle is solved. An invalid action leaves the board untouched.
func (e *Environment) Step(action int) (State, float64, bool, error) {
	move, index, err := DecodeAction(action)
	if err != nil {
		return e.State(), 0, false, err
	}
	if err := Apply(&e.board, move, index); err != nil {
		return e.State(), 0, false, err
	}
	e.lastMove, e.lastIndex = move, index
	e.moves++

	// 每步从头重新计算奖励，不做增量
	return e.State(), e.reward(&e.board), e.IsWon(), nil
}

// IsWon reports whether the center face is fully Marked.
func (e *Environment) IsWon() bool {
	return IsWon(&e.board)
}

// State returns the encoding of the current board.
func (e *Environment) State() State {
	return EncodeState(&e.board)
}

// Board returns a snapshot of the current board.
func (e *Environment) Board() Board {
	return e.board
}

// Reward evaluates the reward policy on the current board.
func (e *Environment) Reward() float64 {
	return e.reward(&e.board)
}

// LastMove returns the move and index applied by the latest successful Step.
func (e *Environment) LastMove() (Move, int) {
	return e.lastMove, e.lastIndex
}

// Moves returns the number of successful steps since the last Reset.
func (e *Environment) Moves() int {
	return e.moves
}
