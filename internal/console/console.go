// Package console dumps boards and training frames as coloured text.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/muesli/termenv"

	"github.com/falcon-lin-development/GameSolver/internal/game"
	"github.com/falcon-lin-development/GameSolver/internal/train"
)

const indent = "        "

// Printer writes boards to w. Colour is enabled only when the terminal
// behind w supports it.
type Printer struct {
	w  io.Writer
	au aurora.Aurora
}

// NewPrinter detects colour support for w.
func NewPrinter(w io.Writer) *Printer {
	return NewPrinterColor(w, ColorEnabled(w))
}

// NewPrinterColor forces colour on or off.
func NewPrinterColor(w io.Writer, color bool) *Printer {
	return &Printer{w: w, au: aurora.NewAurora(color)}
}

// ColorEnabled reports whether w is a terminal with a colour profile.
func ColorEnabled(w io.Writer) bool {
	return termenv.NewOutput(w).EnvColorProfile() != termenv.Ascii
}

func (p *Printer) cell(m game.Marker) string {
	if m == game.Marked {
		return p.au.Red("R").String()
	}
	return p.au.Faint("O").String()
}

func (p *Printer) row(b *game.Board, f game.Face, r int) string {
	parts := make([]string, game.FaceSize)
	for c := 0; c < game.FaceSize; c++ {
		parts[c] = p.cell(b.Get(game.Cell{Face: f, Row: r, Col: c}))
	}
	return strings.Join(parts, " ")
}

// PrintBoard writes the cross layout: top, then left|center|right, then bottom.
func (p *Printer) PrintBoard(b *game.Board) {
	for r := 0; r < game.FaceSize; r++ {
		fmt.Fprintln(p.w, indent+p.row(b, game.Top, r))
	}
	fmt.Fprintln(p.w)
	for r := 0; r < game.FaceSize; r++ {
		fmt.Fprintf(p.w, "%s   %s   %s\n",
			p.row(b, game.Left, r), p.row(b, game.Center, r), p.row(b, game.Right, r))
	}
	fmt.Fprintln(p.w)
	for r := 0; r < game.FaceSize; r++ {
		fmt.Fprintln(p.w, indent+p.row(b, game.Bottom, r))
	}
	fmt.Fprintln(p.w)
}

// Render prints a training frame with its annotations.
func (p *Printer) Render(f train.Frame) {
	fmt.Fprintf(p.w, "%s %d  %s %d  %s %v@%d  %s %.1f  %s %.1f\n",
		p.au.Bold("Episode:"), f.Episode,
		p.au.Bold("Step:"), f.Step,
		p.au.Bold("Move:"), f.Move, f.Index,
		p.au.Bold("Total Reward:"), f.TotalReward,
		p.au.Bold("Best Reward:"), f.BestReward)
	p.PrintBoard(&f.Board)
}
