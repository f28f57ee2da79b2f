package game

import "github.com/pkg/errors"

// ActionCount is the size of the fixed action space: 4 moves × 3 indices.
const ActionCount = MoveCount * FaceSize

// ErrInvalidAction is returned for an action outside [0, ActionCount).
var ErrInvalidAction = errors.New("invalid action")

// DecodeAction splits an action into its move and row/column index.
func DecodeAction(action int) (Move, int, error) {
	if action < 0 || action >= ActionCount {
		return 0, 0, errors.Wrapf(ErrInvalidAction, "action %d not in [0,%d)", action, ActionCount)
	}
	return Move(action / FaceSize), action % FaceSize, nil
}

// EncodeAction is the inverse of DecodeAction.
func EncodeAction(m Move, index int) (int, error) {
	if !m.Valid() {
		return 0, errors.Wrapf(ErrInvalidMove, "move %d", int(m))
	}
	if index < 0 || index >= FaceSize {
		return 0, errors.Wrapf(ErrInvalidIndex, "index %d", index)
	}
	return int(m)*FaceSize + index, nil
}
