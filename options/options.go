package options

import "flag"

// Run modes.
const (
	ModeWindow   = "window"
	ModeSnapshot = "snapshot"
	ModeRecord   = "record"
)

type ShaderOptions struct {
	Preset     *string // TOML preset file; empty uses the built-in effect
	Help       *bool
	Mode       *string
	Width      *int // presentation width
	Height     *int // presentation height
	Frames     *int // frames rendered before a snapshot
	FPS        *int
	Duration   *float64
	OutputFile *string
	Codec      *string
	FFMPEGPath *string
	Watch      *bool // reload preset fragment files when they change
	Headless   *bool // use an EGL pbuffer instead of a hidden window in offline modes
}

// Register binds the options to flags on fs.
func Register(fs *flag.FlagSet) *ShaderOptions {
	return &ShaderOptions{
		Preset:     fs.String("preset", "", "Effect preset (TOML). Built-in noise effect if empty"),
		Help:       fs.Bool("help", false, "Show help message"),
		Mode:       fs.String("mode", ModeWindow, "Run mode: window, snapshot or record"),
		Width:      fs.Int("width", 1280, "Width of the output"),
		Height:     fs.Int("height", 720, "Height of the output"),
		Frames:     fs.Int("frames", 60, "Frames to render before saving a snapshot"),
		FPS:        fs.Int("fps", 60, "Frames per second for offline rendering"),
		Duration:   fs.Float64("duration", 10.0, "Duration to record in seconds"),
		OutputFile: fs.String("output", "", "Output file (default snapshot.png or output.mp4)"),
		Codec:      fs.String("codec", "h264", "Video codec for recording: h264 or hevc"),
		FFMPEGPath: fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		Watch:      fs.Bool("watch", false, "Reload preset shader files on change"),
		Headless:   fs.Bool("headless", false, "Use EGL headless rendering in offline modes (linux)"),
	}
}

// Output returns the output file, defaulting by mode.
func (o *ShaderOptions) Output() string {
	if *o.OutputFile != "" {
		return *o.OutputFile
	}
	if *o.Mode == ModeRecord {
		return "output.mp4"
	}
	return "snapshot.png"
}

// Offline reports whether the mode renders without a visible window.
func (o *ShaderOptions) Offline() bool {
	return *o.Mode == ModeSnapshot || *o.Mode == ModeRecord
}
