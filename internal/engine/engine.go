package engine

import (
	"fmt"
	"runtime"

	"Elk3D/internal/behaviour"
	"Elk3D/internal/config"
	"Elk3D/internal/logger"
	"Elk3D/internal/renderer"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

var keyBindings = map[Key]glfw.Key{
	KeyForward:   glfw.KeyW,
	KeyBackward:  glfw.KeyS,
	KeyLeft:      glfw.KeyA,
	KeyRight:     glfw.KeyD,
	KeyUp:        glfw.KeySpace,
	KeyCtrl:      glfw.KeyLeftControl,
	KeyArrowUp:   glfw.KeyUp,
	KeyArrowDown: glfw.KeyDown,
	KeyEscape:    glfw.KeyEscape,
}

// Engine owns the window, the frame loop and the per-frame input state.
// Scene code hooks in through SetOnInit, SetOnFrame and SetOnCleanup; all
// hooks run on the thread that owns the GL context.
type Engine struct {
	Title      string
	VSync      bool
	State      WindowState
	Camera     *renderer.Camera
	Lights     *renderer.LightSet
	Behaviours *behaviour.BehaviourManager
	Controls   Controls

	window     *glfw.Window
	watcher    *renderer.ShaderWatcher
	keys       KeyState
	lastX      float64
	lastY      float64
	firstMouse bool

	onInit    func(e *Engine) error
	onFrame   func(e *Engine, frame behaviour.Frame)
	onCleanup func(e *Engine)
}

func NewEngine(window config.WindowConfig, lighting config.LightingConfig) *Engine {
	width, height := int32(window.Width), int32(window.Height)
	return &Engine{
		Title:      window.Title,
		VSync:      window.VSync,
		State:      NewWindowState(width, height, lighting.Distance),
		Camera:     renderer.NewDefaultCamera(width, height),
		Behaviours: behaviour.NewBehaviourManager(),
		Controls:   Controls{DistanceStep: lighting.DistanceStep},
		firstMouse: true,
	}
}

// SetOnInit runs once the GL context is current, before the first frame
func (e *Engine) SetOnInit(fn func(e *Engine) error) {
	e.onInit = fn
}

// SetOnFrame runs every frame after input and behaviours, between clear and swap
func (e *Engine) SetOnFrame(fn func(e *Engine, frame behaviour.Frame)) {
	e.onFrame = fn
}

func (e *Engine) SetOnCleanup(fn func(e *Engine)) {
	e.onCleanup = fn
}

// WatchShaders reloads sp whenever its source files change
func (e *Engine) WatchShaders(sp *renderer.ShaderProgram) error {
	if e.watcher == nil {
		w, err := renderer.NewShaderWatcher()
		if err != nil {
			return err
		}
		e.watcher = w
	}
	return e.watcher.Watch(sp)
}

// Run opens the window and blocks until it is closed
func (e *Engine) Run() error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("initialize glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(e.State.Width), int(e.State.Height), e.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	e.window = window
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("initialize OpenGL: %w", err)
	}
	if e.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	logger.Log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	e.resize(window.GetFramebufferSize())
	window.SetFramebufferSizeCallback(e.framebufferSizeCallback)
	window.SetScrollCallback(e.scrollCallback)
	window.SetCursorPosCallback(e.mouseCallback)

	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(0.0, 0.0, 0.0, 1.0)

	if e.onInit != nil {
		if err := e.onInit(e); err != nil {
			return err
		}
	}

	e.renderLoop()

	if e.onCleanup != nil {
		e.onCleanup(e)
	}
	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			logger.Log.Warn("Closing shader watcher", zap.Error(err))
		}
	}
	return nil
}

func (e *Engine) renderLoop() {
	start := glfw.GetTime()
	lastTime := start

	for !e.window.ShouldClose() {
		currentTime := glfw.GetTime()
		deltaTime := float32(currentTime - lastTime)
		lastTime = currentTime

		e.pollKeys()
		captured := e.State.Capture
		frame, closeRequested := e.update(float32(currentTime-start), deltaTime)
		if closeRequested {
			e.window.SetShouldClose(true)
		}
		if captured != e.State.Capture {
			e.setCursorCaptured(e.State.Capture)
		}

		if e.watcher != nil {
			if n := e.watcher.Poll(); n > 0 {
				logger.Log.Info("Reloaded shaders", zap.Int("count", n))
			}
		}

		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		if e.onFrame != nil {
			e.onFrame(e, frame)
		}

		e.window.SwapBuffers()
		glfw.PollEvents()
	}
}

// update advances one frame without touching GL: input, behaviours, then
// light visibility when the distance changed. It reports whether the user
// asked to close the window.
func (e *Engine) update(now, dt float32) (behaviour.Frame, bool) {
	res := e.Controls.processInput(&e.State, &e.keys, e.Camera, dt)
	e.keys.Advance()

	frame := behaviour.Frame{Time: now, DeltaTime: dt, Distance: e.State.Distance}
	e.Behaviours.UpdateAll(frame)

	if res.DistanceChanged {
		e.applyDistance()
	}
	return frame, res.Close
}

func (e *Engine) applyDistance() {
	if e.Lights == nil {
		return
	}
	if err := e.Lights.SetVisibility(e.State.Distance); err != nil {
		logger.Log.Warn("Keeping previous light visibility",
			zap.Float32("distance", e.State.Distance), zap.Error(err))
		return
	}
	logger.Log.Debug("Light visibility updated", zap.Float32("distance", e.State.Distance))
}

func (e *Engine) pollKeys() {
	for key, glfwKey := range keyBindings {
		e.keys.Set(key, e.window.GetKey(glfwKey) == glfw.Press)
	}
	e.keys.Set(KeyCapture, e.window.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press)
}

func (e *Engine) setCursorCaptured(captured bool) {
	if captured {
		e.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		e.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
	e.firstMouse = true
}

func (e *Engine) resize(width, height int) {
	e.State.Width = int32(width)
	e.State.Height = int32(height)
	gl.Viewport(0, 0, int32(width), int32(height))
	e.Camera.SetAspectRatio(e.State.Width, e.State.Height)
}

func (e *Engine) framebufferSizeCallback(w *glfw.Window, width, height int) {
	e.resize(width, height)
}

func (e *Engine) scrollCallback(w *glfw.Window, xoff, yoff float64) {
	if e.State.Capture {
		e.Camera.ProcessMouseScroll(float32(yoff))
	}
}

func (e *Engine) mouseCallback(w *glfw.Window, xpos, ypos float64) {
	if !e.State.Capture {
		return
	}
	if e.firstMouse {
		e.lastX = xpos
		e.lastY = ypos
		e.firstMouse = false
		return
	}

	xoffset := xpos - e.lastX
	yoffset := e.lastY - ypos // Reversed since y-coordinates go from bottom to top
	e.lastX = xpos
	e.lastY = ypos

	e.Camera.ProcessMouseMovement(float32(xoffset), float32(yoffset), true)
}

// Window returns the GLFW window, nil before Run
func (e *Engine) Window() *glfw.Window {
	return e.window
}
