package encoder

import (
	"errors"
	"fmt"
	"image"
	"io"
	"runtime"

	"github.com/richinsley/goshadernoise/diag"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Options configures a Recorder.
type Options struct {
	// Codec is "h264" (default) or "hevc".
	Codec string
	// FFMPEGPath overrides the ffmpeg executable found on PATH.
	FFMPEGPath string
	// Sink receives status lines. Defaults to stderr.
	Sink *diag.Sink
}

// Recorder streams raw RGBA frames into an ffmpeg child process that encodes
// them to a video file.
type Recorder struct {
	width  int
	height int
	pw     *io.PipeWriter
	errc   chan error
	frames int64
	closed bool
}

func inputArgs(width, height, fps int) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"format":    "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", width, height),
		"framerate": fps,
	}
}

func outputArgs(codec string) ffmpeg.KwArgs {
	args := ffmpeg.KwArgs{"pix_fmt": "yuv420p"}

	switch runtime.GOOS {
	case "darwin":
		if codec == "hevc" {
			args["c:v"] = "hevc_videotoolbox"
		} else {
			args["c:v"] = "h264_videotoolbox"
		}
	default:
		if codec == "hevc" {
			args["c:v"] = "libx265"
		} else {
			args["c:v"] = "libx264"
		}
	}
	return args
}

// NewRecorder starts ffmpeg writing to path. Frames must be width x height.
func NewRecorder(path string, width, height, fps int, opts Options) (*Recorder, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid recording size %dx%d", width, height)
	}
	if fps <= 0 {
		return nil, fmt.Errorf("invalid frame rate %d", fps)
	}

	pr, pw := io.Pipe()
	cmd := ffmpeg.Input("pipe:", inputArgs(width, height, fps)).
		Output(path, outputArgs(opts.Codec)).
		OverWriteOutput().WithInput(pr).ErrorToStdOut()

	if opts.FFMPEGPath != "" {
		cmd = cmd.SetFfmpegPath(opts.FFMPEGPath)
	}

	r := &Recorder{
		width:  width,
		height: height,
		pw:     pw,
		errc:   make(chan error, 1),
	}
	go func() {
		err := cmd.Run()
		// unblock any writer if ffmpeg exits early
		if err != nil {
			pr.CloseWithError(err)
		} else {
			pr.Close()
		}
		r.errc <- err
	}()

	sink := opts.Sink
	if sink == nil {
		sink = diag.Stderr()
	}
	sink.Infof("recording %dx%d @ %d fps to %s", width, height, fps, path)
	return r, nil
}

// WriteFrame sends one top-down RGBA frame to the encoder.
func (r *Recorder) WriteFrame(img *image.RGBA) error {
	if r.closed {
		return errors.New("recorder is closed")
	}
	b := img.Bounds()
	if b.Dx() != r.width || b.Dy() != r.height {
		return fmt.Errorf("frame is %dx%d, recorder expects %dx%d", b.Dx(), b.Dy(), r.width, r.height)
	}

	rowBytes := r.width * 4
	for y := 0; y < r.height; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		if _, err := r.pw.Write(img.Pix[off : off+rowBytes]); err != nil {
			return fmt.Errorf("error writing frame %d to ffmpeg: %w", r.frames, err)
		}
	}
	r.frames++
	return nil
}

// Frames returns the number of frames written.
func (r *Recorder) Frames() int64 { return r.frames }

// Close signals end of stream and waits for ffmpeg to finish.
func (r *Recorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.pw.Close()
	if err := <-r.errc; err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}
