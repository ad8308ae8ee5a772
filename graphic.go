package vantage

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Graphic is an opaque handle to a source image. It is part of the batching
// key, so draws from the same Graphic with otherwise equal state can merge
// into a single batch.
//
// The batched backend draws from the underlying GPU image; the
// immediate-composition backend reads raw pixels on demand via Pixels.
type Graphic struct {
	image    *ebiten.Image
	pixels   *image.RGBA // lazy; premultiplied alpha, as read from the GPU
	width    int
	height   int
	disposed bool
}

// NewGraphic wraps an ebiten image as a camera-drawable resource.
func NewGraphic(img *ebiten.Image) *Graphic {
	b := img.Bounds()
	return &Graphic{
		image:  img,
		width:  b.Dx(),
		height: b.Dy(),
	}
}

// Image returns the underlying GPU image, or nil after Dispose.
func (g *Graphic) Image() *ebiten.Image {
	return g.image
}

// Size returns the graphic's dimensions in pixels.
func (g *Graphic) Size() (w, h int) {
	return g.width, g.height
}

// Pixels returns the graphic's raw pixel data, reading it back from the GPU
// on first use and caching it. Returns nil after Dispose.
//
// The returned buffer is alpha-premultiplied and must not be modified.
func (g *Graphic) Pixels() *image.RGBA {
	if g.disposed {
		return nil
	}
	if g.pixels == nil {
		g.pixels = image.NewRGBA(image.Rect(0, 0, g.width, g.height))
		g.image.ReadPixels(g.pixels.Pix)
	}
	return g.pixels
}

// Dispose releases the graphic's image and cached pixels. Batches already
// keyed on a disposed graphic are skipped at playback.
func (g *Graphic) Dispose() {
	if g.disposed {
		return
	}
	g.disposed = true
	g.image = nil
	g.pixels = nil
}

// IsDisposed reports whether Dispose has been called.
func (g *Graphic) IsDisposed() bool {
	return g.disposed
}

// Frame identifies a rectangular region of a Graphic, with an optional trim
// offset applied in local space before the draw matrix.
type Frame struct {
	X, Y          int // region top-left on the graphic, in pixels
	Width, Height int // region size in pixels
	OffsetX       float64
	OffsetY       float64
}

// FullFrame returns the Frame covering the whole graphic.
func (g *Graphic) FullFrame() Frame {
	return Frame{Width: g.width, Height: g.height}
}
