package ui

import (
	"image"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/falcon-lin-development/GameSolver/internal/game"
	"github.com/falcon-lin-development/GameSolver/internal/train"
)

func TestCellRectLayout(t *testing.T) {
	cases := []struct {
		c    game.Cell
		want image.Point
	}{
		{game.Cell{Face: game.Top, Row: 0, Col: 0}, image.Pt(200, 50)},
		{game.Cell{Face: game.Left, Row: 2, Col: 1}, image.Pt(100, 300)},
		{game.Cell{Face: game.Center, Row: 1, Col: 1}, image.Pt(250, 250)},
		{game.Cell{Face: game.Right, Row: 0, Col: 2}, image.Pt(450, 200)},
		{game.Cell{Face: game.Bottom, Row: 2, Col: 2}, image.Pt(300, 450)},
	}
	for _, tc := range cases {
		r := CellRect(tc.c)
		if r.Min != tc.want || r.Dx() != CellSize || r.Dy() != CellSize {
			t.Errorf("CellRect(%v) = %v, want origin %v", tc.c, r, tc.want)
		}
	}
}

func TestCellsDoNotOverlap(t *testing.T) {
	cells := game.AllCells()
	canvas := image.Rect(0, 0, WindowWidth, WindowHeight)
	for i, a := range cells {
		ra := CellRect(a)
		if !ra.In(canvas) {
			t.Errorf("%v at %v is off canvas", a, ra)
		}
		for _, b := range cells[i+1:] {
			if ra.Overlaps(CellRect(b)) {
				t.Errorf("%v and %v overlap", a, b)
			}
		}
	}
}

func TestAnnotationLines(t *testing.T) {
	lines := AnnotationLines(train.Frame{Episode: 12, Step: 4, TotalReward: -3, BestReward: 25, Move: game.ShiftDown, Index: 1})
	joined := strings.Join(lines, "\n")
	for _, want := range []string{"Episode: 12", "Step: 4", "Total Reward: -3.0", "Best Reward: 25.0", "Move: shift-down@1"} {
		if !strings.Contains(joined, want) {
			t.Errorf("annotations missing %q:\n%s", want, joined)
		}
	}
	start := AnnotationLines(train.Frame{Index: -1})
	if start[len(start)-1] != "Move: -" {
		t.Errorf("starting frame move line = %q", start[len(start)-1])
	}
}

func TestViewerKeepsLatestFrame(t *testing.T) {
	v := NewViewer()
	if _, ok := v.Latest(); ok {
		t.Fatal("new viewer should have no frame")
	}
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(step int) {
			defer wg.Done()
			v.Render(train.Frame{Step: step})
		}(i)
	}
	wg.Wait()
	v.Render(train.Frame{Episode: 3, Step: 99})
	f, ok := v.Latest()
	if !ok || f.Episode != 3 || f.Step != 99 {
		t.Errorf("latest = %+v, %v", f, ok)
	}
}

func TestReplayStepping(t *testing.T) {
	frames := []train.Frame{{Index: -1}, {Step: 1}, {Step: 2}}
	r := NewReplay(frames, time.Hour)
	r.Rewind()
	if r.Index() != 0 {
		t.Fatalf("rewind at start moved to %d", r.Index())
	}
	r.Advance()
	r.Advance()
	r.Advance()
	if r.Index() != 2 {
		t.Errorf("index = %d, want to stop at last frame 2", r.Index())
	}
	r.Rewind()
	if r.Index() != 1 {
		t.Errorf("index after rewind = %d, want 1", r.Index())
	}
}
