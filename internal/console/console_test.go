package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/falcon-lin-development/GameSolver/internal/game"
	"github.com/falcon-lin-development/GameSolver/internal/train"
)

func TestPrintBoardLayout(t *testing.T) {
	b := game.NewBoard()
	_ = b.Set(game.Cell{Face: game.Top, Row: 0, Col: 0}, game.Marked)
	_ = b.Set(game.Cell{Face: game.Center, Row: 1, Col: 1}, game.Marked)
	_ = b.Set(game.Cell{Face: game.Bottom, Row: 2, Col: 2}, game.Marked)

	var buf bytes.Buffer
	NewPrinterColor(&buf, false).PrintBoard(&b)
	lines := strings.Split(buf.String(), "\n")

	want := []string{
		indent + "R O O",
		indent + "O O O",
		indent + "O O O",
		"",
		"O O O   O O O   O O O",
		"O O O   O R O   O O O",
		"O O O   O O O   O O O",
		"",
		indent + "O O O",
		indent + "O O O",
		indent + "O O R",
		"",
	}
	for i, w := range want {
		got := ""
		if i < len(lines) {
			got = lines[i]
		}
		if got != w {
			t.Fatalf("line %d = %q, want %q\nfull output:\n%s", i, got, w, buf.String())
		}
	}
	if n := strings.Count(buf.String(), "R"); n != 3 {
		t.Errorf("marked cells printed = %d, want 3", n)
	}
}

func TestColorOutputHasEscapes(t *testing.T) {
	b := game.NewBoard()
	_ = b.Set(game.Cell{Face: game.Left, Row: 0, Col: 0}, game.Marked)

	var plain, colored bytes.Buffer
	NewPrinterColor(&plain, false).PrintBoard(&b)
	NewPrinterColor(&colored, true).PrintBoard(&b)

	if strings.Contains(plain.String(), "\x1b[") {
		t.Error("plain output contains escape codes")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Error("coloured output has no escape codes")
	}
}

func TestColorDisabledForBuffer(t *testing.T) {
	var buf bytes.Buffer
	if ColorEnabled(&buf) {
		t.Error("a bytes.Buffer is not a terminal")
	}
}

func TestRenderFrame(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterColor(&buf, false)
	p.Render(train.Frame{
		Board:       game.NewBoard(),
		Move:        game.ShiftLeft,
		Index:       2,
		Episode:     7,
		Step:        3,
		TotalReward: -12,
		BestReward:  40,
	})
	out := buf.String()
	for _, want := range []string{"Episode: 7", "Step: 3", "Total Reward: -12.0", "Best Reward: 40.0", "@2"} {
		if !strings.Contains(out, want) {
			t.Errorf("frame output missing %q:\n%s", want, out)
		}
	}
}
