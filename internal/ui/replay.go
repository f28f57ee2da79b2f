// File /ui/replay.go
package ui

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/falcon-lin-development/GameSolver/internal/train"
)

// Replay 逐帧回放一局已记录的游戏
type Replay struct {
	frames      []train.Frame
	i           int
	delay       time.Duration
	lastAdvance time.Time
	playing     bool // 是否自动播放
	offscreen   *ebiten.Image
}

// NewReplay plays frames back, one every delay while playing.
func NewReplay(frames []train.Frame, delay time.Duration) *Replay {
	return &Replay{frames: frames, delay: delay, playing: true, lastAdvance: time.Now()}
}

// Index is the frame currently shown.
func (r *Replay) Index() int { return r.i }

// Advance 前进一步，到末尾后停住
func (r *Replay) Advance() {
	r.lastAdvance = time.Now()
	if r.i < len(r.frames)-1 {
		r.i++
	}
}

// Rewind 后退一步
func (r *Replay) Rewind() {
	if r.i > 0 {
		r.i--
	}
}

func (r *Replay) Update() error {
	if r.handleInput() {
		return ebiten.Termination
	}
	if r.playing && time.Since(r.lastAdvance) >= r.delay {
		r.Advance()
	}
	return nil
}

func (r *Replay) Draw(screen *ebiten.Image) {
	if len(r.frames) == 0 {
		screen.Fill(background)
		return
	}
	if r.offscreen == nil {
		r.offscreen = ebiten.NewImage(WindowWidth, WindowHeight)
	}
	status := fmt.Sprintf("frame %d/%d", r.i+1, len(r.frames))
	if !r.playing {
		status += " [paused]"
	}
	DrawFrame(r.offscreen, &r.frames[r.i], status)
	blit(screen, r.offscreen)
}

func (r *Replay) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowWidth, WindowHeight
}
