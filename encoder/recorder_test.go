package encoder

import (
	"bytes"
	"image"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/muesli/termenv"
	"github.com/richinsley/goshadernoise/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputArgs(t *testing.T) {
	args := inputArgs(64, 36, 30)
	assert.Equal(t, "rawvideo", args["format"])
	assert.Equal(t, "rgba", args["pix_fmt"])
	assert.Equal(t, "64x36", args["s"])
	assert.Equal(t, 30, args["framerate"])
}

func TestOutputArgsCodec(t *testing.T) {
	h264 := outputArgs("")
	hevc := outputArgs("hevc")
	assert.Equal(t, "yuv420p", h264["pix_fmt"])
	if runtime.GOOS == "darwin" {
		assert.Equal(t, "h264_videotoolbox", h264["c:v"])
		assert.Equal(t, "hevc_videotoolbox", hevc["c:v"])
	} else {
		assert.Equal(t, "libx264", h264["c:v"])
		assert.Equal(t, "libx265", hevc["c:v"])
	}
}

func TestNewRecorderRejectsBadParameters(t *testing.T) {
	_, err := NewRecorder("out.mp4", 0, 10, 30, Options{})
	assert.Error(t, err)
	_, err = NewRecorder("out.mp4", 10, 10, 0, Options{})
	assert.Error(t, err)
}

func TestRecorderMissingFFmpeg(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.mp4")
	var buf bytes.Buffer
	r, err := NewRecorder(out, 4, 2, 30, Options{
		FFMPEGPath: filepath.Join(t.TempDir(), "no-ffmpeg"),
		Sink:       diag.New(&buf, termenv.WithProfile(termenv.Ascii)),
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "recording 4x2 @ 30 fps to "+out)

	err = r.WriteFrame(image.NewRGBA(image.Rect(0, 0, 3, 2)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects 4x2")
	assert.Equal(t, int64(0), r.Frames(), "rejected frames are not counted")

	assert.Error(t, r.Close())
	assert.Error(t, r.WriteFrame(image.NewRGBA(image.Rect(0, 0, 4, 2))))
	assert.NoError(t, r.Close(), "second close is a no-op")
}
