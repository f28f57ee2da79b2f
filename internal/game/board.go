package game

import (
	"math/rand"

	"github.com/pkg/errors"
)

// Marker represents the state of a single cell.
// It can be Plain or Marked.
type Marker uint8

const (
	Plain Marker = iota
	Marked
)

// Face identifies one of the five 3×3 grids.
type Face int

const (
	Top Face = iota
	Right
	Bottom
	Left
	Center
)

const (
	FaceCount   = 5
	FaceSize    = 3
	CellCount   = FaceCount * FaceSize * FaceSize // 45
	MarkerCount = FaceSize * FaceSize            // reset 时放置的标记数 = 9
)

// Faces lists every face in canonical encoding order.
var Faces = [FaceCount]Face{Top, Right, Bottom, Left, Center}

// OuterFaces are the four faces surrounding Center.
var OuterFaces = [4]Face{Top, Right, Bottom, Left}

var faceNames = [FaceCount]string{"top", "right", "bottom", "left", "center"}

func (f Face) String() string {
	if f < 0 || int(f) >= FaceCount {
		return "unknown"
	}
	return faceNames[f]
}

// Cell addresses a single cell on the board.
type Cell struct {
	Face     Face
	Row, Col int
}

// Board holds the five faces. It is a plain value: assigning it copies it.
type Board struct {
	faces [FaceCount][FaceSize][FaceSize]Marker
}

// NewBoard returns a board with every cell Plain.
func NewBoard() Board {
	return Board{}
}

// RandomBoard places MarkerCount markers on distinct cells chosen uniformly by r.
func RandomBoard(r *rand.Rand) Board {
	var b Board
	b.Randomize(r)
	return b
}

// Randomize clears the board and scatters MarkerCount markers using r.
func (b *Board) Randomize(r *rand.Rand) {
	*b = Board{}
	// 不放回抽样：取随机排列的前 9 个位置
	for _, pos := range r.Perm(CellCount)[:MarkerCount] {
		c := cellAt(pos)
		b.faces[c.Face][c.Row][c.Col] = Marked
	}
}

// InBounds reports whether c addresses a real cell.
func InBounds(c Cell) bool {
	return c.Face >= 0 && int(c.Face) < FaceCount &&
		c.Row >= 0 && c.Row < FaceSize &&
		c.Col >= 0 && c.Col < FaceSize
}

// Get returns the marker at c. Out-of-bounds cells read as Plain.
func (b *Board) Get(c Cell) Marker {
	if !InBounds(c) {
		return Plain
	}
	return b.faces[c.Face][c.Row][c.Col]
}

// Set updates the marker at c. Returns an error if c is out of bounds.
func (b *Board) Set(c Cell, m Marker) error {
	if !InBounds(c) {
		return errors.Errorf("cell %+v out of bounds", c)
	}
	b.faces[c.Face][c.Row][c.Col] = m
	return nil
}

// FaceGrid returns a copy of one face.
func (b *Board) FaceGrid(f Face) [FaceSize][FaceSize]Marker {
	return b.faces[f]
}

// CountFace returns the number of Marked cells on face f.
func (b *Board) CountFace(f Face) int {
	n := 0
	for r := 0; r < FaceSize; r++ {
		for c := 0; c < FaceSize; c++ {
			if b.faces[f][r][c] == Marked {
				n++
			}
		}
	}
	return n
}

// CountMarked returns the number of Marked cells on the whole board.
func (b *Board) CountMarked() int {
	n := 0
	for _, f := range Faces {
		n += b.CountFace(f)
	}
	return n
}

// CountOuter returns the number of Marked cells outside Center.
func (b *Board) CountOuter() int {
	n := 0
	for _, f := range OuterFaces {
		n += b.CountFace(f)
	}
	return n
}

// AllCells returns every cell in canonical encoding order.
func AllCells() []Cell {
	cells := make([]Cell, 0, CellCount)
	for i := 0; i < CellCount; i++ {
		cells = append(cells, cellAt(i))
	}
	return cells
}

// Clone returns a copy of the board.
func (b *Board) Clone() Board {
	return *b
}

// cellAt maps an encoding position 0..44 back to its cell.
func cellAt(pos int) Cell {
	per := FaceSize * FaceSize
	f := pos / per
	rem := pos % per
	return Cell{Face: Faces[f], Row: rem / FaceSize, Col: rem % FaceSize}
}
