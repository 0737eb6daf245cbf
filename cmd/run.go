package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goshadernoise/diag"
	"github.com/richinsley/goshadernoise/encoder"
	"github.com/richinsley/goshadernoise/gldevice"
	"github.com/richinsley/goshadernoise/glfwcontext"
	"github.com/richinsley/goshadernoise/graphics"
	"github.com/richinsley/goshadernoise/headless"
	"github.com/richinsley/goshadernoise/options"
	"github.com/richinsley/goshadernoise/params"
	"github.com/richinsley/goshadernoise/renderer"
	"github.com/richinsley/goshadernoise/shader"
	"github.com/richinsley/goshadernoise/timing"
)

const windowTitle = "goshadernoise"

// passSpecs turns a preset into the ordered pass list. Built-in passes use the
// embedded shaders; the others are loaded from their fragment files.
func passSpecs(ctx context.Context, preset options.Preset) ([]renderer.PassSpec, error) {
	specs := make([]renderer.PassSpec, 0, len(preset.Passes))
	for _, pass := range preset.Passes {
		src, err := passSource(ctx, pass)
		if err != nil {
			return nil, err
		}
		specs = append(specs, renderer.PassSpec{
			Source: src,
			Width:  preset.SimWidth,
			Height: preset.SimHeight,
		})
	}
	return specs, nil
}

func passSource(ctx context.Context, pass options.PassPreset) (shader.Source, error) {
	if pass.Fragment != "" {
		return shader.Load(ctx, pass.Name, pass.Fragment)
	}
	switch pass.Name {
	case options.PassNoise:
		return shader.Embedded(pass.Name, shader.NoiseFragment), nil
	case options.PassSmear:
		return shader.Embedded(pass.Name, shader.SmearFragment), nil
	}
	return shader.Source{}, fmt.Errorf("%w: pass %s", shader.ErrMissingSource, pass.Name)
}

// openContext creates the presentation context for the mode. The returned
// cleanup terminates GLFW when it was initialized.
func openContext(sink *diag.Sink, opts *options.ShaderOptions) (graphics.Context, func(), error) {
	width, height := *opts.Width, *opts.Height

	if opts.Offline() && *opts.Headless {
		h, err := headless.New(width, height, sink)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create headless context: %w", err)
		}
		return h, func() {}, nil
	}

	if err := glfwcontext.InitGraphics(sink); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	terminate := func() { glfwcontext.TerminateGraphics(sink) }
	c, err := glfwcontext.New(windowTitle, width, height, !opts.Offline())
	if err != nil {
		terminate()
		return nil, nil, fmt.Errorf("failed to create window: %w", err)
	}
	return c, terminate, nil
}

// effect bundles the per-frame state driven by the render loops.
type effect struct {
	sink       *diag.Sink
	ctx        graphics.Context
	pipeline   *renderer.Pipeline
	tracker    *timing.Tracker
	controller *params.Controller
	timing     timing.State
	params     params.Vector
}

// frame advances time and parameters to now, then renders and presents.
func (e *effect) frame(now float64, width, height int) {
	e.timing = e.tracker.Tick(e.timing, now)
	e.params = e.controller.Update(e.params, e.ctx.Input(), width, height)
	e.pipeline.RunFrame(e.timing, e.params, width, height)
}

func run(ctx context.Context, sink *diag.Sink, opts *options.ShaderOptions, preset options.Preset) error {
	specs, err := passSpecs(ctx, preset)
	if err != nil {
		return err
	}

	gctx, terminate, err := openContext(sink, opts)
	if err != nil {
		return err
	}
	defer terminate()
	defer gctx.Shutdown()
	gctx.MakeCurrent()

	device, err := gldevice.New()
	if err != nil {
		return err
	}
	sink.Infof("OpenGL version: %s", device.Version())

	pipeline, err := renderer.New(device, sink, specs)
	if err != nil {
		return err
	}
	defer pipeline.Destroy()

	e := &effect{
		sink:       sink,
		ctx:        gctx,
		pipeline:   pipeline,
		tracker:    timing.NewTracker(sink),
		controller: params.NewController(preset.Defaults()),
		params:     preset.Defaults(),
	}

	switch *opts.Mode {
	case options.ModeSnapshot:
		return e.runSnapshot(*opts.Frames, *opts.FPS, opts.Output())
	case options.ModeRecord:
		return e.runRecord(opts)
	}
	return e.runWindow(ctx, specs, *opts.Watch)
}

// runWindow renders until the window is closed, paced by vsync.
func (e *effect) runWindow(ctx context.Context, specs []renderer.PassSpec, watch bool) error {
	reloader, err := newReloader(specs, watch)
	if err != nil {
		return err
	}
	defer reloader.Close()

	if win, ok := e.ctx.(*glfwcontext.Context); ok {
		win.RegisterKeyCallback(glfw.KeyR, reloader.force)
	}

	e.timing = timing.NewState(e.ctx.Time())
	for !e.ctx.ShouldClose() {
		reloader.poll(ctx, e.sink, e.pipeline)

		width, height := e.ctx.GetFramebufferSize()
		e.frame(e.ctx.Time(), width, height)
		e.ctx.EndFrame()
	}
	return nil
}

// runSnapshot renders frames at a fixed timestep and saves the last one.
func (e *effect) runSnapshot(frames, fps int, output string) error {
	if frames < 1 {
		frames = 1
	}
	if fps < 1 {
		return fmt.Errorf("invalid frame rate %d", fps)
	}

	width, height := e.ctx.GetFramebufferSize()
	e.timing = timing.NewState(0)
	for i := 1; i <= frames; i++ {
		e.frame(float64(i)/float64(fps), width, height)
		if i < frames {
			e.ctx.EndFrame()
		}
	}

	img := e.pipeline.Snapshot(width, height)
	e.ctx.EndFrame()

	if err := imgio.Save(output, img, encoderFor(output)); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	e.sink.Infof("saved %dx%d snapshot to %s", width, height, output)
	return nil
}

func encoderFor(path string) imgio.Encoder {
	switch filepath.Ext(path) {
	case ".jpg", ".jpeg":
		return imgio.JPEGEncoder(95)
	case ".bmp":
		return imgio.BMPEncoder()
	}
	return imgio.PNGEncoder()
}

// runRecord renders duration*fps frames at a fixed timestep into ffmpeg.
func (e *effect) runRecord(opts *options.ShaderOptions) error {
	// the drawable may differ from the requested size on HiDPI displays
	width, height := e.ctx.GetFramebufferSize()
	fps := *opts.FPS
	rec, err := encoder.NewRecorder(opts.Output(), width, height, fps, encoder.Options{
		Codec:      *opts.Codec,
		FFMPEGPath: *opts.FFMPEGPath,
		Sink:       e.sink,
	})
	if err != nil {
		return err
	}

	total := int(*opts.Duration * float64(fps))
	e.timing = timing.NewState(0)
	for i := 0; i < total; i++ {
		e.frame(float64(i+1)/float64(fps), width, height)
		if err := rec.WriteFrame(e.pipeline.Snapshot(width, height)); err != nil {
			rec.Close()
			return err
		}
		e.ctx.EndFrame()
	}
	if err := rec.Close(); err != nil {
		return err
	}
	e.sink.Infof("recorded %d frames to %s", rec.Frames(), opts.Output())
	return nil
}

// reloader rebuilds passes whose fragment files change on disk, or every
// file-backed pass when a reload is requested from the keyboard.
type reloader struct {
	watcher *shader.Watcher
	passes  map[string]int
	paths   []string // file-backed passes in pipeline order
	specs   []renderer.PassSpec
	forced  bool
}

func newReloader(specs []renderer.PassSpec, watch bool) (*reloader, error) {
	r := &reloader{passes: make(map[string]int), specs: specs}
	for i, spec := range specs {
		if spec.Source.Path == "" {
			continue
		}
		abs, err := filepath.Abs(spec.Source.Path)
		if err != nil {
			return nil, err
		}
		r.passes[abs] = i
		r.paths = append(r.paths, abs)
	}
	if !watch || len(r.paths) == 0 {
		return r, nil
	}

	w, err := shader.NewWatcher(r.paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to watch shader files: %w", err)
	}
	r.watcher = w
	return r, nil
}

// force schedules a reload of every file-backed pass on the next poll.
func (r *reloader) force() {
	r.forced = true
}

func (r *reloader) poll(ctx context.Context, sink *diag.Sink, p *renderer.Pipeline) {
	var changed []string
	if r.watcher != nil {
		changed = r.watcher.Changed()
		for _, err := range r.watcher.Errors() {
			sink.Errorf("shader watcher: %v", err)
		}
	}
	if r.forced {
		r.forced = false
		changed = r.paths
		if len(changed) == 0 {
			sink.Infof("no file-backed passes to reload")
		}
	}

	for _, path := range changed {
		i, ok := r.passes[path]
		if !ok {
			continue
		}
		src, err := shader.Load(ctx, r.specs[i].Source.Name, path)
		if err == nil {
			err = p.Reload(i, src)
		}
		if err != nil {
			sink.Errorf("reload of %s failed, keeping previous program: %v", path, err)
		}
	}
}

func (r *reloader) Close() error {
	if r.watcher == nil {
		return nil
	}
	return r.watcher.Close()
}
