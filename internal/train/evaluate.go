package train

import (
	"context"

	"github.com/pkg/errors"

	"github.com/falcon-lin-development/GameSolver/internal/agent"
	"github.com/falcon-lin-development/GameSolver/internal/game"
)

// ErrNoGames is returned by Evaluate when asked to play no games.
var ErrNoGames = errors.New("evaluate: numGames must be positive")

// Evaluate plays numGames games with p, each on a fresh environment from newEnv
// and capped at maxSteps actions, and returns the fraction that were won.
// p is used as is: pass agent.Greedy() to evaluate without exploration.
func Evaluate(p agent.Policy, newEnv func() *game.Environment, numGames, maxSteps int) (float64, error) {
	return EvaluateContext(context.Background(), p, newEnv, numGames, maxSteps)
}

// EvaluateContext is Evaluate that stops between games once ctx is done.
func EvaluateContext(ctx context.Context, p agent.Policy, newEnv func() *game.Environment, numGames, maxSteps int) (float64, error) {
	if numGames <= 0 {
		return 0, ErrNoGames
	}
	wins := 0
	for g := 0; g < numGames; g++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		env := newEnv()
		won, err := playGame(p, env, maxSteps)
		if err != nil {
			return 0, errors.Wrapf(err, "game %d", g)
		}
		if won {
			wins++
		}
	}
	return float64(wins) / float64(numGames), nil
}

func playGame(p agent.Policy, env *game.Environment, maxSteps int) (bool, error) {
	state := env.Reset()
	for step := 0; step < maxSteps; step++ {
		next, _, done, err := env.Step(p.ChooseAction(state))
		if err != nil {
			return false, err
		}
		if done {
			return true, nil
		}
		state = next
	}
	return false, nil
}

// Rollout plays one game with p from env's current board and returns the
// actions taken and whether the puzzle was solved. The environment is not reset.
func Rollout(p agent.Policy, env *game.Environment, maxSteps int) ([]int, bool, error) {
	var actions []int
	state := env.State()
	if env.IsWon() {
		return actions, true, nil
	}
	for step := 0; step < maxSteps; step++ {
		a := p.ChooseAction(state)
		next, _, done, err := env.Step(a)
		if err != nil {
			return actions, false, err
		}
		actions = append(actions, a)
		if done {
			return actions, true, nil
		}
		state = next
	}
	return actions, false, nil
}

// Trace is Rollout that also records every board. The first frame is the
// starting board with Index -1; frame i is the board after the i-th action.
func Trace(p agent.Policy, env *game.Environment, maxSteps int) ([]Frame, bool, error) {
	frames := []Frame{{Board: env.Board(), Index: -1}}
	if env.IsWon() {
		return frames, true, nil
	}
	state := env.State()
	var total float64
	for step := 0; step < maxSteps; step++ {
		next, reward, done, err := env.Step(p.ChooseAction(state))
		if err != nil {
			return frames, false, err
		}
		total += reward
		move, index := env.LastMove()
		frames = append(frames, Frame{
			Board:       env.Board(),
			Move:        move,
			Index:       index,
			Step:        step + 1,
			TotalReward: total,
		})
		if done {
			return frames, true, nil
		}
		state = next
	}
	return frames, false, nil
}
