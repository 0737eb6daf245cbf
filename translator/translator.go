package translator

import (
	"context"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	once       sync.Once
	translator *gst.ShaderTranslator
	initErr    error
)

// Get returns the process-wide translator, creating it on first use. The
// translator compiles a WebAssembly module, so it is only created when a
// GLSL ES source is actually loaded.
func Get(ctx context.Context) (*gst.ShaderTranslator, error) {
	once.Do(func() {
		translator, initErr = gst.NewShaderTranslator(ctx)
	})
	return translator, initErr
}
