package vantage

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Backend is the rendering strategy a camera draws through. A camera holds
// exactly one backend, chosen at construction: NewBatchedBackend submits
// draw calls to the GPU, NewImmediateBackend composites pixels on the CPU.
//
// Both strategies consume the same draw stack and must produce visually
// consistent output under the camera's zoom, scale, rotation, and margins.
type Backend interface {
	// resize reallocates the owned buffer for a camera of w×h view pixels at
	// the given total scale.
	resize(w, h int, scaleX, scaleY float64)
	// begin clears the buffer to the camera's background color.
	begin(bg Color)
	// drawQuads plays back one quad batch in stack order.
	drawQuads(b *DrawBatch)
	// drawTriangles plays back one triangle batch. view is the camera's
	// buffer-space rect, used for deferred whole-batch culling.
	drawTriangles(b *DrawBatch, view Rect)
	// fill composites a full-buffer color wash (flash/fade effects).
	fill(c Color, alpha float64)
	// present draws the finished buffer to the screen using the camera's
	// presentation transform.
	present(screen *ebiten.Image, c *Camera)
	// immediateMode reports whether batches should record pixel blit ops
	// instead of GPU vertices.
	immediateMode() bool
	// dispose releases the owned buffer.
	dispose()
}

// colorOffsetShader adds per-vertex color offsets on top of the multiplied
// texel. Offsets ride in the vertex color of a second additive pass, so a
// single batch can carry per-quad offsets without breaking on value changes.
var colorOffsetShader *ebiten.Shader

const colorOffsetShaderSrc = `//kage:unit pixels

package main

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	texel := imageSrc0At(srcPos)
	return vec4(color.rgb*texel.a, 0)
}
`

func ensureColorOffsetShader() *ebiten.Shader {
	if colorOffsetShader == nil {
		s, err := ebiten.NewShader([]byte(colorOffsetShaderSrc))
		if err != nil {
			// The shader source is a compile-time constant; failure here is a
			// build defect, not a runtime condition.
			panic("vantage: color offset shader: " + err.Error())
		}
		colorOffsetShader = s
	}
	return colorOffsetShader
}

// BatchedBackend renders the draw stack as GPU draw calls: one
// DrawTriangles32 per batch, onto an owned offscreen image.
type BatchedBackend struct {
	buffer *ebiten.Image
	bw, bh int
}

// NewBatchedBackend creates the GPU-batched rendering strategy.
func NewBatchedBackend() *BatchedBackend {
	return &BatchedBackend{}
}

func (r *BatchedBackend) immediateMode() bool { return false }

// bufferDims converts view dimensions and total scale into buffer pixels.
// Both backends size through here so their buffers always match.
func bufferDims(w, h int, scaleX, scaleY float64) (bw, bh int) {
	bw = int(math.Ceil(float64(w) * scaleX))
	bh = int(math.Ceil(float64(h) * scaleY))
	if bw < 1 {
		bw = 1
	}
	if bh < 1 {
		bh = 1
	}
	return bw, bh
}

func (r *BatchedBackend) resize(w, h int, scaleX, scaleY float64) {
	bw, bh := bufferDims(w, h, scaleX, scaleY)
	if r.buffer != nil && bw == r.bw && bh == r.bh {
		return
	}
	if r.buffer != nil {
		r.buffer.Deallocate()
	}
	r.buffer = ebiten.NewImage(bw, bh)
	r.bw, r.bh = bw, bh
}

func (r *BatchedBackend) begin(bg Color) {
	if r.buffer == nil {
		return
	}
	r.buffer.Clear()
	if bg.A > 0 {
		r.buffer.Fill(bg.toRGBA())
	}
}

func (r *BatchedBackend) drawQuads(b *DrawBatch) {
	r.submit(b)
}

func (r *BatchedBackend) drawTriangles(b *DrawBatch, view Rect) {
	// Deferred culling: the whole batch is skipped when its accumulated
	// bounds never touched the view.
	if b.hasBounds && !b.bounds.Intersects(view) {
		return
	}
	r.submit(b)
}

// submit issues the batch's vertices as a single draw call, plus an additive
// second pass when the batch carries color offsets.
func (r *BatchedBackend) submit(b *DrawBatch) {
	if r.buffer == nil || len(b.verts) == 0 {
		return
	}
	if !checkLiveGraphic(&b.key, "BatchedBackend") {
		return
	}
	src := b.key.Graphic.Image()

	var op ebiten.DrawTrianglesOptions
	op.Blend = b.key.Blend.EbitenBlend()
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	if b.key.Smoothing {
		op.Filter = ebiten.FilterLinear
	}

	if b.key.Shader != nil {
		var sop ebiten.DrawTrianglesShaderOptions
		sop.Blend = op.Blend
		sop.Images[0] = src
		r.buffer.DrawTrianglesShader32(b.verts, b.inds, b.key.Shader, &sop)
	} else {
		r.buffer.DrawTriangles32(b.verts, b.inds, src, &op)
	}

	if b.key.HasColorOffsets && len(b.offVerts) == len(b.verts) {
		var sop ebiten.DrawTrianglesShaderOptions
		sop.Blend = ebiten.BlendLighter
		sop.Images[0] = src
		r.buffer.DrawTrianglesShader32(b.offVerts, b.inds, ensureColorOffsetShader(), &sop)
	}
}

func (r *BatchedBackend) fill(c Color, alpha float64) {
	if r.buffer == nil {
		return
	}
	a := clamp01(c.A * alpha)
	if a <= 0 {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(r.bw), float64(r.bh))
	op.ColorScale.Scale(float32(c.R*a), float32(c.G*a), float32(c.B*a), float32(a))
	r.buffer.DrawImage(WhitePixel, &op)
}

func (r *BatchedBackend) present(screen *ebiten.Image, c *Camera) {
	if r.buffer == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM = presentGeoM(c, r.bw, r.bh)
	a := clamp01(c.Alpha)
	op.ColorScale.Scale(
		float32(c.Tint.R*a),
		float32(c.Tint.G*a),
		float32(c.Tint.B*a),
		float32(a),
	)
	screen.DrawImage(r.buffer, &op)
}

func (r *BatchedBackend) dispose() {
	if r.buffer != nil {
		r.buffer.Deallocate()
		r.buffer = nil
	}
}

// presentGeoM builds the buffer-to-screen transform shared by both backends:
// rotation about the buffer center, then translation to the camera's
// presentation position plus any effect offset, rounded when pixel-perfect
// rendering is requested.
func presentGeoM(c *Camera, bw, bh int) ebiten.GeoM {
	m := identityTransform
	if c.angle != 0 {
		m = c.rotateMatrix(m)
	}

	x := c.X + c.renderOffset.X
	y := c.Y + c.renderOffset.Y
	if c.PixelPerfectRender {
		x = math.Round(x)
		y = math.Round(y)
	}

	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4]+x)
	g.SetElement(1, 2, m[5]+y)
	return g
}
