package shader

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/richinsley/goshadernoise/translator"
	gst "github.com/richinsley/goshadertranslator"
)

// Source is the text of one pass, ready to be built.
type Source struct {
	Name     string
	Vertex   string
	Fragment string
	// Path is the file the fragment stage was loaded from, empty when embedded.
	Path string
	// Mapped holds the GLSL name a declared uniform was renamed to by translation.
	Mapped map[string]string
}

// Embedded returns a Source using the shared pass vertex stage.
func Embedded(name, fragment string) Source {
	return Source{Name: name, Vertex: PassVertex, Fragment: fragment}
}

// IsES reports whether source declares the WebGL2 dialect.
func IsES(source string) bool {
	sc := bufio.NewScanner(strings.NewReader(source))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		fields := strings.Fields(line)
		return len(fields) >= 3 && fields[0] == "#version" && fields[1] == "300" && fields[2] == "es"
	}
	return false
}

// Load reads a fragment stage from path. GLSL ES sources are translated to
// desktop GLSL 4.10 together with an ES rendition of the pass vertex stage.
func Load(ctx context.Context, name, path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("%w: %s: %w", ErrMissingSource, path, err)
	}
	src := Source{Name: name, Vertex: PassVertex, Fragment: string(data), Path: path}
	if IsES(src.Fragment) {
		return Translate(ctx, src)
	}
	return src, nil
}

// Translate converts a GLSL ES pass to GLSL 4.10. Uniform renames from both
// stages are collected into Mapped.
func Translate(ctx context.Context, src Source) (Source, error) {
	t, err := translator.Get(ctx)
	if err != nil {
		return Source{}, fmt.Errorf("failed to create shader translator: %w", err)
	}

	vs, err := t.TranslateShader(PassVertexES, "vertex", gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return Source{}, &BuildError{Stage: "translate vertex", Log: err.Error(), Err: ErrCompile}
	}
	fs, err := t.TranslateShader(src.Fragment, "fragment", gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return Source{}, &BuildError{Stage: "translate fragment", Log: err.Error(), Err: ErrCompile}
	}

	mapped := make(map[string]string)
	for name, v := range vs.Variables {
		mapped[name] = v.MappedName
	}
	for name, v := range fs.Variables {
		mapped[name] = v.MappedName
	}

	src.Vertex = vs.Code
	src.Fragment = fs.Code
	src.Mapped = mapped
	return src, nil
}
