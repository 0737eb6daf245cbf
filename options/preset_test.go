package options

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/richinsley/goshadernoise/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePreset(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "effect.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultPreset(t *testing.T) {
	p := DefaultPreset()
	assert.Equal(t, 320, p.SimWidth)
	assert.Equal(t, 240, p.SimHeight)
	assert.Equal(t, params.Defaults, p.Defaults())
	require.Len(t, p.Passes, 2)
	assert.Equal(t, PassNoise, p.Passes[0].Name)
	assert.Equal(t, PassSmear, p.Passes[1].Name)
}

func TestLoadPreset(t *testing.T) {
	path := writePreset(t, `
sim_width = 160
sim_height = 120
threshold = 0.5

[[passes]]
name = "noise"

[[passes]]
name = "glow"
fragment = "glow.frag"
`)
	p, err := LoadPreset(path)
	require.NoError(t, err)

	assert.Equal(t, 160, p.SimWidth)
	assert.Equal(t, 120, p.SimHeight)
	assert.Equal(t, float32(0.5), p.Threshold)
	assert.Equal(t, float32(1.0), p.Smear, "unset fields keep built-in values")
	require.Len(t, p.Passes, 2)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "glow.frag"), p.Passes[1].Fragment)
}

func TestLoadPresetErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "sim_width = ="},
		{"size", "sim_width = 0"},
		{"unknown builtin", "[[passes]]\nname = \"blur\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPreset(writePreset(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := LoadPreset(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadPresetNoPassesUsesBuiltins(t *testing.T) {
	p, err := LoadPreset(writePreset(t, "smear = 2.0\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPreset().Passes, p.Passes)
	assert.Equal(t, float32(2.0), p.Defaults()[params.Smear])
}

func TestOptionsOutputDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	o := Register(fs)
	require.NoError(t, fs.Parse([]string{"-mode", "record"}))
	assert.Equal(t, "output.mp4", o.Output())
	assert.True(t, o.Offline())

	fs = flag.NewFlagSet("test", flag.ContinueOnError)
	o = Register(fs)
	require.NoError(t, fs.Parse([]string{"-output", "x.png"}))
	assert.Equal(t, "x.png", o.Output())
	assert.False(t, o.Offline())
}
