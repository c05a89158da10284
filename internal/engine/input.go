package engine

import (
	"Elk3D/internal/renderer"
)

// Key is an engine action, bound to a physical key by the window layer
type Key int

const (
	KeyForward Key = iota
	KeyBackward
	KeyLeft
	KeyRight
	KeyUp
	KeyCtrl
	KeyArrowUp
	KeyArrowDown
	KeyEscape
	KeyCapture
	keyCount
)

// KeyState holds this frame's and last frame's key states so presses can be
// told apart from holds.
type KeyState struct {
	down [keyCount]bool
	prev [keyCount]bool
}

// Set records the state of key for the current frame
func (k *KeyState) Set(key Key, down bool) {
	k.down[key] = down
}

func (k *KeyState) Down(key Key) bool {
	return k.down[key]
}

// Clicked reports a press that started this frame
func (k *KeyState) Clicked(key Key) bool {
	return k.down[key] && !k.prev[key]
}

// Advance ends the frame
func (k *KeyState) Advance() {
	k.prev = k.down
}

// WindowState is the per-window input state passed explicitly to whoever
// needs it each frame.
type WindowState struct {
	Width    int32
	Height   int32
	Distance float32 // view distance the point/spot attenuation is derived from
	Mesh     int     // index of the mesh the demo shows
	Capture  bool    // mouse and keyboard drive the camera
}

func NewWindowState(width, height int32, distance float32) WindowState {
	return WindowState{Width: width, Height: height, Distance: distance}
}

// AspectRatio is width over height, or 1 for a minimised window
func (s WindowState) AspectRatio() float32 {
	if s.Width <= 0 || s.Height <= 0 {
		return 1
	}
	return float32(s.Width) / float32(s.Height)
}

// Controls turns key state into camera motion and window state changes
type Controls struct {
	DistanceStep float32
}

// InputResult tells the loop what processInput changed
type InputResult struct {
	DistanceChanged bool
	Close           bool
}

// processInput applies one frame of input. Escape releases a captured
// cursor, or asks to close when nothing is captured. Ctrl+Up and Ctrl+Down
// move the view distance by DistanceStep, never below zero; plain Up and
// Down cycle the displayed mesh.
func (c Controls) processInput(state *WindowState, keys *KeyState, camera *renderer.Camera, dt float32) InputResult {
	var res InputResult

	if keys.Clicked(KeyEscape) {
		if !state.Capture {
			res.Close = true
		}
		state.Capture = false
	}
	if !state.Capture && keys.Clicked(KeyCapture) {
		state.Capture = true
	}
	if !state.Capture {
		return res
	}

	if keys.Down(KeyForward) {
		camera.ProcessKeyboard(renderer.Forward, dt)
	}
	if keys.Down(KeyBackward) {
		camera.ProcessKeyboard(renderer.Backward, dt)
	}
	if keys.Down(KeyLeft) {
		camera.ProcessKeyboard(renderer.Left, dt)
	}
	if keys.Down(KeyRight) {
		camera.ProcessKeyboard(renderer.Right, dt)
	}
	if keys.Down(KeyUp) {
		camera.ProcessKeyboard(renderer.Up, dt)
	}

	ctrl := keys.Down(KeyCtrl)
	if ctrl && !keys.Down(KeyArrowUp) && !keys.Down(KeyArrowDown) {
		camera.ProcessKeyboard(renderer.Down, dt)
	}

	before := state.Distance
	switch {
	case ctrl && keys.Clicked(KeyArrowUp):
		state.Distance += c.DistanceStep
	case ctrl && keys.Clicked(KeyArrowDown):
		state.Distance -= c.DistanceStep
		if state.Distance < 0 {
			state.Distance = 0
		}
	case keys.Clicked(KeyArrowUp):
		state.Mesh++
	case keys.Clicked(KeyArrowDown):
		state.Mesh--
	}
	res.DistanceChanged = state.Distance != before
	return res
}
