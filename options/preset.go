package options

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/richinsley/goshadernoise/params"
)

// Built-in pass names usable in a preset without a fragment file.
const (
	PassNoise = "noise"
	PassSmear = "smear"
)

// PassPreset names one pass. Fragment is a shader file; when empty the pass
// must name a built-in shader.
type PassPreset struct {
	Name     string `toml:"name"`
	Fragment string `toml:"fragment,omitempty"`
}

// Preset describes an effect: its simulation size, parameter defaults and the
// ordered pass chain.
type Preset struct {
	SimWidth  int          `toml:"sim_width"`
	SimHeight int          `toml:"sim_height"`
	Threshold float32      `toml:"threshold"`
	Smear     float32      `toml:"smear"`
	Passes    []PassPreset `toml:"passes"`
}

// DefaultPreset is the built-in two pass effect.
func DefaultPreset() Preset {
	return Preset{
		SimWidth:  320,
		SimHeight: 240,
		Threshold: params.Defaults[params.Threshold],
		Smear:     params.Defaults[params.Smear],
		Passes: []PassPreset{
			{Name: PassNoise},
			{Name: PassSmear},
		},
	}
}

// Defaults returns the parameter vector the preset resets to.
func (p Preset) Defaults() params.Vector {
	var v params.Vector
	v[params.Threshold] = p.Threshold
	v[params.Smear] = p.Smear
	return v
}

// LoadPreset decodes a TOML preset. Missing fields take the built-in values
// and relative fragment paths are resolved against the preset's directory.
func LoadPreset(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, fmt.Errorf("failed to read preset: %w", err)
	}

	p := DefaultPreset()
	p.Passes = nil
	if err := toml.Unmarshal(data, &p); err != nil {
		return Preset{}, fmt.Errorf("failed to parse preset %s: %w", path, err)
	}
	if len(p.Passes) == 0 {
		p.Passes = DefaultPreset().Passes
	}
	if p.SimWidth <= 0 || p.SimHeight <= 0 {
		return Preset{}, fmt.Errorf("preset %s: invalid simulation size %dx%d", path, p.SimWidth, p.SimHeight)
	}

	dir := filepath.Dir(path)
	for i, pass := range p.Passes {
		if pass.Fragment == "" {
			if pass.Name != PassNoise && pass.Name != PassSmear {
				return Preset{}, fmt.Errorf("preset %s: pass %d (%s) has no fragment file and is not built in", path, i+1, pass.Name)
			}
			continue
		}
		if !filepath.IsAbs(pass.Fragment) {
			p.Passes[i].Fragment = filepath.Join(dir, pass.Fragment)
		}
	}
	return p, nil
}
