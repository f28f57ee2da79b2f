// File /ui/screen.go
package ui

import (
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/falcon-lin-development/GameSolver/internal/train"
)

// Viewer 实现 ebiten.Game 和 train.Renderer：
// 训练在另一个 goroutine 里调用 Render，主循环只读取最新一帧
type Viewer struct {
	mu     sync.Mutex
	latest train.Frame
	have   bool

	shown     train.Frame // 当前画面，暂停时不再更新
	paused    bool
	offscreen *ebiten.Image
}

// NewViewer returns a viewer with nothing to show yet.
func NewViewer() *Viewer {
	return &Viewer{}
}

// Render stores f as the frame to show next. Safe for concurrent use.
func (v *Viewer) Render(f train.Frame) {
	v.mu.Lock()
	v.latest = f
	v.have = true
	v.mu.Unlock()
}

// Latest returns the most recent frame passed to Render.
func (v *Viewer) Latest() (train.Frame, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.latest, v.have
}

// Paused reports whether the display is frozen.
func (v *Viewer) Paused() bool { return v.paused }

// Update 每帧更新：处理按键，再取训练线程最新的一帧
func (v *Viewer) Update() error {
	if v.handleInput() {
		return ebiten.Termination
	}
	if v.paused {
		return nil
	}
	if f, ok := v.Latest(); ok {
		v.shown = f
	}
	return nil
}

// Draw 先画到 offscreen，再缩放居中到窗口
func (v *Viewer) Draw(screen *ebiten.Image) {
	if v.offscreen == nil {
		v.offscreen = ebiten.NewImage(WindowWidth, WindowHeight)
	}
	status := ""
	if v.paused {
		status = "[paused]"
	}
	DrawFrame(v.offscreen, &v.shown, status)
	blit(screen, v.offscreen)
}

// Layout 定义逻辑画布尺寸
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowWidth, WindowHeight
}

func blit(screen, offscreen *ebiten.Image) {
	screen.Fill(background)
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	scale := math.Min(float64(w)/float64(WindowWidth), float64(h)/float64(WindowHeight))

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	dx := (float64(w) - float64(WindowWidth)*scale) / 2
	dy := (float64(h) - float64(WindowHeight)*scale) / 2
	op.GeoM.Translate(dx, dy)
	screen.DrawImage(offscreen, op)
}
