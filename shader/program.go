package shader

import (
	"errors"
	"fmt"

	"github.com/richinsley/goshadernoise/diag"
	"github.com/richinsley/goshadernoise/graphics"
)

var (
	ErrCompile       = errors.New("shader compile failed")
	ErrLink          = errors.New("program link failed")
	ErrMissingSource = errors.New("shader source unavailable")
)

// BuildError carries the stage that failed and the driver's log for it.
type BuildError struct {
	Stage string
	Log   string
	Err   error
}

func (e *BuildError) Error() string {
	if e.Log == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Stage, e.Err, e.Log)
}

func (e *BuildError) Unwrap() error { return e.Err }

// Uniform is one of the inputs a pass program may declare.
type Uniform int

const (
	UniformResolution Uniform = iota // vec2, pass size in pixels
	UniformTime                      // float, seconds
	UniformSlowTime                  // float, seconds / 1000
	UniformThreshold                 // float
	UniformSmear                     // float
	UniformInput                     // sampler2D, previous pass

	NumUniforms
)

var uniformNames = [NumUniforms]string{
	UniformResolution: "resolution",
	UniformTime:       "time",
	UniformSlowTime:   "curtime",
	UniformThreshold:  "thres",
	UniformSmear:      "smear",
	UniformInput:      "pfb",
}

// Name returns the GLSL identifier of u as written in pass sources.
func (u Uniform) Name() string {
	if u < 0 || u >= NumUniforms {
		return ""
	}
	return uniformNames[u]
}

func (u Uniform) String() string { return u.Name() }

// NotPresent is the location of a uniform the program does not declare (or the
// compiler optimised away). Writes to it are skipped.
const NotPresent int32 = -1

// Program is a linked GPU program and its resolved uniform table.
type Program struct {
	Handle    uint32
	locations [NumUniforms]int32
	mapped    map[string]string
}

// Location returns the resolved location of u, or NotPresent.
func (p *Program) Location(u Uniform) int32 {
	if u < 0 || u >= NumUniforms {
		return NotPresent
	}
	return p.locations[u]
}

// Resolve looks up every uniform role once. Names renamed by translation are
// looked up under their translated name.
func (p *Program) Resolve(device graphics.ShaderDevice) {
	for u := Uniform(0); u < NumUniforms; u++ {
		name := u.Name()
		if m, ok := p.mapped[name]; ok {
			name = m
		}
		loc := device.UniformLocation(p.Handle, name)
		if loc < 0 {
			loc = NotPresent
		}
		p.locations[u] = loc
	}
}

func compileStage(device graphics.ShaderDevice, sink *diag.Sink, stage graphics.Stage, source string) (uint32, error) {
	shader := device.CreateShader(stage)
	device.CompileShader(shader, source)

	infoLog := device.ShaderInfoLog(shader)
	if infoLog != "" {
		sink.ShaderLog(source, infoLog)
	}

	if !device.ShaderCompiled(shader) {
		device.DeleteShader(shader)
		return 0, &BuildError{Stage: stage.String(), Log: infoLog, Err: ErrCompile}
	}
	return shader, nil
}

// Build compiles and links a vertex/fragment pair. Every non-empty compile or
// link log is reported to sink whether or not the step succeeded. On failure no
// shader or program object created here is left alive.
func Build(device graphics.ShaderDevice, sink *diag.Sink, vertexSource, fragmentSource string) (*Program, error) {
	vert, vertErr := compileStage(device, sink, graphics.VertexStage, vertexSource)
	frag, fragErr := compileStage(device, sink, graphics.FragmentStage, fragmentSource)

	if vertErr != nil || fragErr != nil {
		if vert != 0 {
			device.DeleteShader(vert)
		}
		if frag != 0 {
			device.DeleteShader(frag)
		}
		return nil, errors.Join(vertErr, fragErr)
	}

	program := device.CreateProgram()
	device.AttachShader(program, vert)
	device.AttachShader(program, frag)
	device.LinkProgram(program)

	device.DeleteShader(vert)
	device.DeleteShader(frag)

	infoLog := device.ProgramInfoLog(program)
	if infoLog != "" {
		sink.ProgramLog(infoLog)
	}

	if !device.ProgramLinked(program) {
		device.DeleteProgram(program)
		return nil, &BuildError{Stage: "link", Log: infoLog, Err: ErrLink}
	}

	p := &Program{Handle: program}
	for i := range p.locations {
		p.locations[i] = NotPresent
	}
	return p, nil
}

// BuildSource builds src and keeps its uniform rename table for Resolve.
func BuildSource(device graphics.ShaderDevice, sink *diag.Sink, src Source) (*Program, error) {
	p, err := Build(device, sink, src.Vertex, src.Fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", src.Name, err)
	}
	p.mapped = src.Mapped
	return p, nil
}
