// File /ui/render.go
package ui

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/falcon-lin-development/GameSolver/internal/game"
	"github.com/falcon-lin-development/GameSolver/internal/train"
)

const (
	// 窗口尺寸
	WindowWidth  = 600
	WindowHeight = 600
	// 每个格子的边长（像素）
	CellSize = 50
	// 注释文字行距
	lineHeight = 30
)

var (
	background color.Color = color.White
	markedCol  color.Color = color.RGBA{0xff, 0x00, 0x00, 0xff}
	plainCol   color.Color = color.Black
	gridCol    color.Color = color.RGBA{0x60, 0x60, 0x60, 0xff}
	ringCol    color.Color = color.RGBA{0xff, 0xd7, 0x00, 0xff}
	textCol    color.Color = color.Black
)

var textFace = text.NewGoXFace(basicfont.Face7x13)

// faceOrigin 是每个面左上角在 600×600 画布上的位置：十字形排布
var faceOrigin = map[game.Face]image.Point{
	game.Top:    {200, 50},
	game.Left:   {50, 200},
	game.Center: {200, 200},
	game.Right:  {350, 200},
	game.Bottom: {200, 350},
}

// CellRect returns the on-canvas rectangle of c.
func CellRect(c game.Cell) image.Rectangle {
	o := faceOrigin[c.Face]
	p := image.Pt(o.X+c.Col*CellSize, o.Y+c.Row*CellSize)
	return image.Rectangle{Min: p, Max: p.Add(image.Pt(CellSize, CellSize))}
}

// DrawBoard fills every cell: red when marked, black otherwise.
func DrawBoard(dst *ebiten.Image, b *game.Board) {
	for _, c := range game.AllCells() {
		r := CellRect(c)
		clr := plainCol
		if b.Get(c) == game.Marked {
			clr = markedCol
		}
		x, y := float32(r.Min.X), float32(r.Min.Y)
		vector.DrawFilledRect(dst, x, y, CellSize, CellSize, clr, false)
		vector.StrokeRect(dst, x, y, CellSize, CellSize, 1, gridCol, false)
	}
}

// DrawRing outlines the cells the last move rotated. index < 0 draws nothing.
func DrawRing(dst *ebiten.Image, m game.Move, index int) {
	if index < 0 {
		return
	}
	cells, err := game.Ring(m, index)
	if err != nil {
		return
	}
	for _, c := range cells {
		r := CellRect(c)
		vector.StrokeRect(dst, float32(r.Min.X)+2, float32(r.Min.Y)+2, CellSize-4, CellSize-4, 3, ringCol, true)
	}
}

// AnnotationLines are the text lines shown in the top-left corner.
func AnnotationLines(f train.Frame) []string {
	move := "-"
	if f.Index >= 0 {
		move = fmt.Sprintf("%v@%d", f.Move, f.Index)
	}
	return []string{
		fmt.Sprintf("Episode: %d", f.Episode),
		fmt.Sprintf("Step: %d", f.Step),
		fmt.Sprintf("Total Reward: %.1f", f.TotalReward),
		fmt.Sprintf("Best Reward: %.1f", f.BestReward),
		fmt.Sprintf("Move: %s", move),
	}
}

// DrawAnnotations writes AnnotationLines at (10, 10) with a fixed line height.
func DrawAnnotations(dst *ebiten.Image, lines []string) {
	for i, l := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(10, float64(10+i*lineHeight))
		op.ColorScale.ScaleWithColor(textCol)
		text.Draw(dst, l, textFace, op)
	}
}

// DrawFrame draws a whole frame onto dst, which should be WindowWidth×WindowHeight.
func DrawFrame(dst *ebiten.Image, f *train.Frame, status string) {
	dst.Fill(background)
	DrawBoard(dst, &f.Board)
	DrawRing(dst, f.Move, f.Index)
	lines := AnnotationLines(*f)
	if status != "" {
		lines = append(lines, status)
	}
	DrawAnnotations(dst, lines)
}
