// internal/game/encode.go
package game

// StateLen is the length of the state encoding: one entry per cell.
const StateLen = CellCount

// State is the 45-entry encoding of a board (1 = Marked), ordered
// top, right, bottom, left, center, each face row-major.
type State [StateLen]uint8

// StateKey packs a State into its low 45 bits. Bit i holds State[i].
type StateKey uint64

// EncodeState 把棋盘即时编码成 [45]uint8
func EncodeState(b *Board) State {
	var s State
	i := 0
	for _, f := range Faces {
		for r := 0; r < FaceSize; r++ {
			for c := 0; c < FaceSize; c++ {
				if b.faces[f][r][c] == Marked {
					s[i] = 1
				}
				i++
			}
		}
	}
	return s
}

// Key returns the packed form of s. Two states share a key iff they are equal.
func (s State) Key() StateKey {
	var k StateKey
	for i, v := range s {
		if v != 0 {
			k |= 1 << uint(i)
		}
	}
	return k
}

// Len is always StateLen.
func (s State) Len() int { return len(s) }

// Board rebuilds the board a state was encoded from.
func (s State) Board() Board {
	var b Board
	for i, v := range s {
		if v != 0 {
			c := cellAt(i)
			b.faces[c.Face][c.Row][c.Col] = Marked
		}
	}
	return b
}

// State unpacks a key back into its state encoding.
func (k StateKey) State() State {
	var s State
	for i := range s {
		if k&(1<<uint(i)) != 0 {
			s[i] = 1
		}
	}
	return s
}
