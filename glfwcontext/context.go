package glfwcontext

import (
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goshadernoise/diag"
	"github.com/richinsley/goshadernoise/inputs"
)

// buttonMap binds the logical buttons to mouse buttons.
var buttonMap = [inputs.NumButtons]glfw.MouseButton{
	inputs.Primary:   glfw.MouseButtonLeft,
	inputs.Secondary: glfw.MouseButtonMiddle,
	inputs.Reset:     glfw.MouseButtonRight,
}

// Context wraps a GLFW window and its OpenGL 4.1 core context.
type Context struct {
	window       *glfw.Window
	swapInterval int
	// A map to store functions to be called on key presses.
	keyCallbacks map[glfw.Key]func()
}

// New creates a window with an OpenGL 4.1 core context. A hidden window is
// used for offline rendering. Vsync is enabled for visible windows.
func New(title string, width, height int, visible bool) (*Context, error) {
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
		glfw.WindowHint(glfw.Visible, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{
		window:       win,
		keyCallbacks: make(map[glfw.Key]func()),
	}
	if visible {
		c.swapInterval = 1
	}

	win.SetKeyCallback(c.glfwKeyCallback)
	return c, nil
}

// RegisterKeyCallback registers f to run when key is pressed.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.keyCallbacks[key] = f
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}
	if action == glfw.Press {
		if callback, ok := c.keyCallbacks[key]; ok {
			callback()
		}
	}
}

// Input samples the cursor in framebuffer pixels and the mapped mouse buttons.
func (c *Context) Input() inputs.State {
	var s inputs.State
	if c.window == nil {
		return s
	}

	fbWidth, fbHeight := c.GetFramebufferSize()
	winWidth, winHeight := c.window.GetSize()
	var scaleX, scaleY float64 = 1.0, 1.0
	if winWidth > 0 && winHeight > 0 {
		scaleX = float64(fbWidth) / float64(winWidth)
		scaleY = float64(fbHeight) / float64(winHeight)
	}

	cursorX, cursorY := c.window.GetCursorPos()
	s.X = cursorX * scaleX
	s.Y = cursorY * scaleY

	for b, mb := range buttonMap {
		s.Buttons[b] = c.window.GetMouseButton(mb) == glfw.Press
	}
	return s
}

// MakeCurrent makes the context current for the calling goroutine and applies
// the swap interval.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
	glfw.SwapInterval(c.swapInterval)
}

// Shutdown destroys the window.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

// EndFrame swaps buffers, blocking on vsync, then polls input events.
func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// InitGraphics initializes GLFW. Must be called from the main thread.
func InitGraphics(sink *diag.Sink) error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	sink.Infof("GLFW initialized")
	return nil
}

// TerminateGraphics shuts down GLFW. Must be called from the main thread.
func TerminateGraphics(sink *diag.Sink) {
	glfw.Terminate()
	sink.Infof("GLFW terminated")
}
