//go:build gpu && linux

package renderer_test

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/muesli/termenv"
	"github.com/richinsley/goshadernoise/diag"
	"github.com/richinsley/goshadernoise/gldevice"
	"github.com/richinsley/goshadernoise/headless"
	"github.com/richinsley/goshadernoise/params"
	"github.com/richinsley/goshadernoise/renderer"
	"github.com/richinsley/goshadernoise/shader"
	"github.com/richinsley/goshadernoise/timing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const solidRed = `#version 330 core
in vec2 uv;
out vec4 fragColor;
void main() { fragColor = vec4(1.0, 0.0, 0.0, 1.0); }
`

const copyInput = `#version 330 core
in vec2 uv;
out vec4 fragColor;
uniform sampler2D pfb;
void main() { fragColor = texture(pfb, uv); }
`

func TestHeadlessHandoff(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	ctx, err := headless.New(64, 48, diag.New(&bytes.Buffer{}, termenv.WithProfile(termenv.Ascii)))
	if err != nil {
		t.Skipf("no EGL desktop GL context: %v", err)
	}
	defer ctx.Shutdown()
	ctx.MakeCurrent()

	dev, err := gldevice.New()
	require.NoError(t, err)

	var buf bytes.Buffer
	sink := diag.New(&buf, termenv.WithProfile(termenv.Ascii))
	p, err := renderer.New(dev, sink, []renderer.PassSpec{
		{Source: shader.Embedded("solid", solidRed), Width: 16, Height: 12},
		{Source: shader.Embedded("copy", copyInput), Width: 16, Height: 12},
	})
	require.NoError(t, err, buf.String())
	defer p.Destroy()

	p.RunFrame(timing.NewState(0), params.Defaults, 64, 48)
	img := p.Snapshot(64, 48)
	for _, pt := range [][2]int{{0, 0}, {32, 24}, {63, 47}} {
		c := img.RGBAAt(pt[0], pt[1])
		assert.Equal(t, uint8(255), c.R, "pixel %v", pt)
		assert.Equal(t, uint8(0), c.G, "pixel %v", pt)
	}
}

func TestHeadlessNoiseEffectBuilds(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	ctx, err := headless.New(64, 48, diag.New(&bytes.Buffer{}, termenv.WithProfile(termenv.Ascii)))
	if err != nil {
		t.Skipf("no EGL desktop GL context: %v", err)
	}
	defer ctx.Shutdown()
	ctx.MakeCurrent()

	dev, err := gldevice.New()
	require.NoError(t, err)

	sink := diag.New(&bytes.Buffer{}, termenv.WithProfile(termenv.Ascii))
	p, err := renderer.New(dev, sink, []renderer.PassSpec{
		{Source: shader.Embedded("noise", shader.NoiseFragment), Width: 32, Height: 24},
		{Source: shader.Embedded("smear", shader.SmearFragment), Width: 32, Height: 24},
	})
	require.NoError(t, err)
	defer p.Destroy()

	assert.NotEqual(t, shader.NotPresent, p.Pass(0).Program().Location(shader.UniformSlowTime))
	assert.NotEqual(t, shader.NotPresent, p.Pass(1).Program().Location(shader.UniformInput))

	p.RunFrame(timing.NewState(0), params.Defaults, 64, 48)
	img := p.Snapshot(64, 48)
	assert.Equal(t, 64, img.Bounds().Dx())
}
