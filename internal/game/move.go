package game

import (
	"github.com/pkg/errors"
)

// Move is one of the four ring shifts. Its numeric value is the action's move code.
type Move int

// 方向按环的位置定义：ShiftUp 把每个标记从环位置 k 移到 k+1，
// 竖直环是 top→center→bottom，所以标记实际朝 bottom 走；
// 连续三次 ShiftUp 把 top 的第 0 行送进 center 的第 0 行。
// ShiftLeft 同理（left→center→right）。
const (
	ShiftUp Move = iota
	ShiftDown
	ShiftLeft
	ShiftRight
)

// MoveCount is the number of distinct move tags.
const MoveCount = 4

// RingLen is the number of cells a single move rotates (3 faces × 3 cells).
const RingLen = 3 * FaceSize

var (
	// ErrInvalidIndex is returned when a row/column index is outside [0,2].
	ErrInvalidIndex = errors.New("invalid row/column index")
	// ErrInvalidMove is returned for a move tag outside the four shifts.
	ErrInvalidMove = errors.New("invalid move")
)

var moveNames = [MoveCount]string{"shift-up", "shift-down", "shift-left", "shift-right"}

func (m Move) String() string {
	if !m.Valid() {
		return "unknown"
	}
	return moveNames[m]
}

// Valid reports whether m is one of the four shifts.
func (m Move) Valid() bool {
	return m >= ShiftUp && m <= ShiftRight
}

// IsVertical 返回这步是否作用在列上
func (m Move) IsVertical() bool {
	return m == ShiftUp || m == ShiftDown
}

// Ring returns the nine cells touched by m at index, in ring order.
//
// Vertical rings read column index of top, center, bottom from top to bottom;
// horizontal rings read row index of left, center, right from left to right.
func Ring(m Move, index int) ([RingLen]Cell, error) {
	var ring [RingLen]Cell
	if !m.Valid() {
		return ring, errors.Wrapf(ErrInvalidMove, "move %d", int(m))
	}
	if index < 0 || index >= FaceSize {
		return ring, errors.Wrapf(ErrInvalidIndex, "index %d", index)
	}
	if m.IsVertical() {
		for i, f := range [3]Face{Top, Center, Bottom} {
			for r := 0; r < FaceSize; r++ {
				ring[i*FaceSize+r] = Cell{Face: f, Row: r, Col: index}
			}
		}
		return ring, nil
	}
	for i, f := range [3]Face{Left, Center, Right} {
		for c := 0; c < FaceSize; c++ {
			ring[i*FaceSize+c] = Cell{Face: f, Row: index, Col: c}
		}
	}
	return ring, nil
}

// Apply rotates the ring selected by m and index one position.
// ShiftUp and ShiftLeft move the marker at ring position k to k+1 (the last wraps
// to the first); ShiftDown and ShiftRight are the inverse rotation.
// On error the board is left untouched.
func Apply(b *Board, m Move, index int) error {
	ring, err := Ring(m, index)
	if err != nil {
		return err
	}

	// 先读出整圈，再整体写回：不存在写了一半的状态
	var vals [RingLen]Marker
	for i, c := range ring {
		vals[i] = b.faces[c.Face][c.Row][c.Col]
	}

	shift := 1
	if m == ShiftDown || m == ShiftRight {
		shift = RingLen - 1
	}
	for i, c := range ring {
		b.faces[c.Face][c.Row][c.Col] = vals[(i-shift+RingLen)%RingLen]
	}
	return nil
}

// Apply is a convenience wrapper around the package-level Apply.
func (b *Board) Apply(m Move, index int) error {
	return Apply(b, m, index)
}
