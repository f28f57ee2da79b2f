package game

import (
	"sort"

	"github.com/pkg/errors"
)

// RewardFunc scores a board after a move. It must only read the board.
type RewardFunc func(b *Board) float64

// ErrUnknownReward is returned by RewardByName for an unregistered name.
var ErrUnknownReward = errors.New("unknown reward policy")

// 可调参数
const (
	centerBonus   = 5
	outerPenalty  = 5
	shapedStep    = -1
	shapedWin     = 100
	shapedCenter  = 5
	shapedOuter   = 2
	weightedInner = 10
	weightedOuter = 3
)

// DefaultReward gives +5 per center marker and -5 per marker on an outer face.
func DefaultReward(b *Board) float64 {
	return float64(centerBonus*b.CountFace(Center) - outerPenalty*b.CountOuter())
}

// ShapedReward charges every move, pays a flat bonus on a win, and otherwise
// rewards center markers more than it penalises outer ones.
func ShapedReward(b *Board) float64 {
	if IsWon(b) {
		return shapedWin
	}
	return float64(shapedStep + shapedCenter*b.CountFace(Center) - shapedOuter*b.CountOuter())
}

// CenterWeightedReward gives +10 per center marker and -3 per outer marker.
func CenterWeightedReward(b *Board) float64 {
	return float64(weightedInner*b.CountFace(Center) - weightedOuter*b.CountOuter())
}

var rewards = map[string]RewardFunc{
	"default":         DefaultReward,
	"shaped":          ShapedReward,
	"center-weighted": CenterWeightedReward,
}

// RewardByName looks up one of the built-in reward policies.
func RewardByName(name string) (RewardFunc, error) {
	if name == "" {
		return DefaultReward, nil
	}
	fn, ok := rewards[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownReward, "%q (known: %v)", name, RewardNames())
	}
	return fn, nil
}

// RewardNames lists the registered reward policies, sorted.
func RewardNames() []string {
	names := make([]string, 0, len(rewards))
	for n := range rewards {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
