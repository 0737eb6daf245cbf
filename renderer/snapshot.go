package renderer

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
	"github.com/richinsley/goshadernoise/graphics"
)

// Snapshot reads back the presentation surface as a top-down RGBA image. It
// must be called after RunFrame and before the buffers are swapped.
func (p *Pipeline) Snapshot(width, height int) *image.RGBA {
	if width <= 0 || height <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	pix := p.device.ReadPixels(graphics.DefaultFramebuffer, width, height)
	bottomUp := &image.RGBA{
		Pix:    pix,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
	return transform.FlipV(bottomUp)
}
