// File ui/input.go
package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// handleInput 空格：冻结/恢复画面；Esc：关闭窗口（返回 true）
func (v *Viewer) handleInput() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.paused = !v.paused
	}
	return false
}

// handleInput 空格：自动播放开关；→/←：单步前进/后退；Esc：关闭
func (r *Replay) handleInput() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		r.playing = !r.playing
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		r.playing = false
		r.Advance()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		r.playing = false
		r.Rewind()
	}
	return false
}
