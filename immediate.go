package vantage

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// ImmediateBackend composites the draw stack on the CPU onto an owned RGBA
// pixel buffer, presenting it through a staging image once per frame. Quads
// are affine pixel blits; triangles go through a scanline rasterizer.
//
// All buffer math is in premultiplied alpha, matching both image.RGBA and
// ebiten pixel readback.
type ImmediateBackend struct {
	buffer *image.RGBA
	stage  *ebiten.Image
	bw, bh int
}

// NewImmediateBackend creates the CPU pixel-composition rendering strategy.
func NewImmediateBackend() *ImmediateBackend {
	return &ImmediateBackend{}
}

func (r *ImmediateBackend) immediateMode() bool { return true }

func (r *ImmediateBackend) resize(w, h int, scaleX, scaleY float64) {
	bw, bh := bufferDims(w, h, scaleX, scaleY)
	if r.buffer != nil && bw == r.bw && bh == r.bh {
		return
	}
	if r.stage != nil {
		r.stage.Deallocate()
	}
	r.buffer = image.NewRGBA(image.Rect(0, 0, bw, bh))
	r.stage = ebiten.NewImage(bw, bh)
	r.bw, r.bh = bw, bh
}

func (r *ImmediateBackend) begin(bg Color) {
	if r.buffer == nil {
		return
	}
	c := bg.toRGBA()
	pix := r.buffer.Pix
	// Write the first pixel, then double the filled prefix.
	pix[0], pix[1], pix[2], pix[3] = c.R, c.G, c.B, c.A
	for filled := 4; filled < len(pix); filled *= 2 {
		copy(pix[filled:], pix[:filled])
	}
}

func (r *ImmediateBackend) drawQuads(b *DrawBatch) {
	if r.buffer == nil || !checkLiveGraphic(&b.key, "ImmediateBackend") {
		return
	}
	src := b.key.Graphic.Pixels()
	if src == nil {
		return
	}
	for i := range b.blits {
		r.blit(&b.blits[i], src, b.key.Smoothing)
	}
}

// blit composites one quad. The fast path hands the affine transform to
// x/image/draw; a color transform forces the per-pixel path.
func (r *ImmediateBackend) blit(op *blitOp, src *image.RGBA, smoothing bool) {
	f := op.frame
	sr := image.Rect(f.X, f.Y, f.X+f.Width, f.Y+f.Height).Intersect(src.Bounds())
	if sr.Empty() {
		return
	}

	// The draw matrix maps frame-local points offset by the trim offset;
	// x/image/draw transforms points in src's own coordinate space.
	m := multiplyAffine(op.m, [6]float64{1, 0, 0, 1, f.OffsetX - float64(f.X), f.OffsetY - float64(f.Y)})

	if !op.ct.HasMultipliers() && !op.ct.HasOffsets() {
		var interp xdraw.Interpolator = xdraw.NearestNeighbor
		if smoothing {
			interp = xdraw.ApproxBiLinear
		}
		interp.Transform(r.buffer, f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}, src, sr, xdraw.Over, nil)
		return
	}

	r.blitColorTransform(m, src, sr, op.ct)
}

// blitColorTransform inverse-maps destination pixels through the draw matrix,
// samples the source nearest-neighbor, applies the color transform in
// straight-alpha space, and composites source-over.
//
// m maps absolute source coordinates, the same space xdraw.Transform consumes
// on the fast path, so sr's own corners bound the destination and the
// inverse-mapped sample point indexes src directly.
func (r *ImmediateBackend) blitColorTransform(m [6]float64, src *image.RGBA, sr image.Rectangle, ct ColorTransform) {
	x0, y0 := transformPoint(m, float64(sr.Min.X), float64(sr.Min.Y))
	x1, y1 := transformPoint(m, float64(sr.Max.X), float64(sr.Min.Y))
	x2, y2 := transformPoint(m, float64(sr.Min.X), float64(sr.Max.Y))
	x3, y3 := transformPoint(m, float64(sr.Max.X), float64(sr.Max.Y))
	minX := int(min4(x0, x1, x2, x3))
	minY := int(min4(y0, y1, y2, y3))
	maxX := int(max4(x0, x1, x2, x3)) + 1
	maxY := int(max4(y0, y1, y2, y3)) + 1
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > r.bw {
		maxX = r.bw
	}
	if maxY > r.bh {
		maxY = r.bh
	}
	if minX >= maxX || minY >= maxY {
		return
	}

	inv := invertAffine(m)
	for dy := minY; dy < maxY; dy++ {
		for dx := minX; dx < maxX; dx++ {
			sx, sy := transformPoint(inv, float64(dx)+0.5, float64(dy)+0.5)
			ix := int(sx)
			iy := int(sy)
			if ix < sr.Min.X || iy < sr.Min.Y || ix >= sr.Max.X || iy >= sr.Max.Y {
				continue
			}
			o := src.PixOffset(ix, iy)
			pr := float64(src.Pix[o]) / 255
			pg := float64(src.Pix[o+1]) / 255
			pb := float64(src.Pix[o+2]) / 255
			pa := float64(src.Pix[o+3]) / 255

			// Premultiplied → straight, transform, → premultiplied.
			var qr, qg, qb float64
			if pa > 0 {
				qr = pr / pa
				qg = pg / pa
				qb = pb / pa
			}
			qr = clamp01(qr*ct.RMult + ct.ROff)
			qg = clamp01(qg*ct.GMult + ct.GOff)
			qb = clamp01(qb*ct.BMult + ct.BOff)
			qa := clamp01(pa*ct.AMult + ct.AOff)

			r.blendPixel(dx, dy, qr*qa, qg*qa, qb*qa, qa)
		}
	}
}

func (r *ImmediateBackend) drawTriangles(b *DrawBatch, view Rect) {
	if r.buffer == nil || len(b.inds) < 3 {
		return
	}
	if !checkLiveGraphic(&b.key, "ImmediateBackend") {
		return
	}
	src := b.key.Graphic.Pixels()
	if src == nil {
		return
	}
	for i := 0; i+2 < len(b.inds); i += 3 {
		i0, i1, i2 := b.inds[i], b.inds[i+1], b.inds[i+2]
		var off0, off1, off2 *ebiten.Vertex
		if b.key.HasColorOffsets && len(b.offVerts) == len(b.verts) {
			off0, off1, off2 = &b.offVerts[i0], &b.offVerts[i1], &b.offVerts[i2]
		}
		r.rasterTriangle(&b.verts[i0], &b.verts[i1], &b.verts[i2], off0, off1, off2, src)
	}
}

// rasterTriangle fills one textured, vertex-colored triangle using a bounding
// box scan with barycentric coordinates. Sampling is nearest-neighbor;
// optional per-vertex color offsets are added modulated by source alpha, the
// same formula the batched backend's offset pass uses.
func (r *ImmediateBackend) rasterTriangle(v0, v1, v2, off0, off1, off2 *ebiten.Vertex, src *image.RGBA) {
	x0, y0 := float64(v0.DstX), float64(v0.DstY)
	x1, y1 := float64(v1.DstX), float64(v1.DstY)
	x2, y2 := float64(v2.DstX), float64(v2.DstY)

	area := (x1-x0)*(y2-y0) - (y1-y0)*(x2-x0)
	if area == 0 {
		return
	}

	minX := int(min4(x0, x1, x2, x2))
	minY := int(min4(y0, y1, y2, y2))
	maxX := int(max4(x0, x1, x2, x2)) + 1
	maxY := int(max4(y0, y1, y2, y2)) + 1
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > r.bw {
		maxX = r.bw
	}
	if maxY > r.bh {
		maxY = r.bh
	}

	sb := src.Bounds()
	invArea := 1 / area

	for py := minY; py < maxY; py++ {
		for px := minX; px < maxX; px++ {
			cx := float64(px) + 0.5
			cy := float64(py) + 0.5
			w0 := ((x1-cx)*(y2-cy) - (y1-cy)*(x2-cx)) * invArea
			w1 := ((x2-cx)*(y0-cy) - (y2-cy)*(x0-cx)) * invArea
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			su := w0*float64(v0.SrcX) + w1*float64(v1.SrcX) + w2*float64(v2.SrcX)
			sv := w0*float64(v0.SrcY) + w1*float64(v1.SrcY) + w2*float64(v2.SrcY)
			ix := sb.Min.X + int(su)
			iy := sb.Min.Y + int(sv)
			if ix < sb.Min.X {
				ix = sb.Min.X
			} else if ix >= sb.Max.X {
				ix = sb.Max.X - 1
			}
			if iy < sb.Min.Y {
				iy = sb.Min.Y
			} else if iy >= sb.Max.Y {
				iy = sb.Max.Y - 1
			}
			o := src.PixOffset(ix, iy)
			tr := float64(src.Pix[o]) / 255
			tg := float64(src.Pix[o+1]) / 255
			tb := float64(src.Pix[o+2]) / 255
			ta := float64(src.Pix[o+3]) / 255

			// Modulate premultiplied texel by interpolated premultiplied color.
			cr := w0*float64(v0.ColorR) + w1*float64(v1.ColorR) + w2*float64(v2.ColorR)
			cg := w0*float64(v0.ColorG) + w1*float64(v1.ColorG) + w2*float64(v2.ColorG)
			cb := w0*float64(v0.ColorB) + w1*float64(v1.ColorB) + w2*float64(v2.ColorB)
			ca := w0*float64(v0.ColorA) + w1*float64(v1.ColorA) + w2*float64(v2.ColorA)

			sr := tr * cr
			sg := tg * cg
			sbv := tb * cb
			sa := ta * ca

			if off0 != nil {
				or := w0*float64(off0.ColorR) + w1*float64(off1.ColorR) + w2*float64(off2.ColorR)
				og := w0*float64(off0.ColorG) + w1*float64(off1.ColorG) + w2*float64(off2.ColorG)
				ob := w0*float64(off0.ColorB) + w1*float64(off1.ColorB) + w2*float64(off2.ColorB)
				sr = clamp01(sr + or*ta)
				sg = clamp01(sg + og*ta)
				sbv = clamp01(sbv + ob*ta)
			}

			r.blendPixel(px, py, sr, sg, sbv, sa)
		}
	}
}

// blendPixel source-over composites a premultiplied color onto the buffer.
func (r *ImmediateBackend) blendPixel(x, y int, sr, sg, sb, sa float64) {
	o := r.buffer.PixOffset(x, y)
	pix := r.buffer.Pix
	ia := 1 - sa
	pix[o] = uint8(clamp01(sr+float64(pix[o])/255*ia) * 255)
	pix[o+1] = uint8(clamp01(sg+float64(pix[o+1])/255*ia) * 255)
	pix[o+2] = uint8(clamp01(sb+float64(pix[o+2])/255*ia) * 255)
	pix[o+3] = uint8(clamp01(sa+float64(pix[o+3])/255*ia) * 255)
}

func (r *ImmediateBackend) fill(c Color, alpha float64) {
	if r.buffer == nil {
		return
	}
	a := clamp01(c.A * alpha)
	if a <= 0 {
		return
	}
	sr := clamp01(c.R) * a
	sg := clamp01(c.G) * a
	sb := clamp01(c.B) * a
	for y := 0; y < r.bh; y++ {
		for x := 0; x < r.bw; x++ {
			r.blendPixel(x, y, sr, sg, sb, a)
		}
	}
}

func (r *ImmediateBackend) present(screen *ebiten.Image, c *Camera) {
	if r.buffer == nil || r.stage == nil {
		return
	}
	r.stage.WritePixels(r.buffer.Pix)

	var op ebiten.DrawImageOptions
	op.GeoM = presentGeoM(c, r.bw, r.bh)
	a := clamp01(c.Alpha)
	op.ColorScale.Scale(
		float32(c.Tint.R*a),
		float32(c.Tint.G*a),
		float32(c.Tint.B*a),
		float32(a),
	)
	screen.DrawImage(r.stage, &op)
}

func (r *ImmediateBackend) dispose() {
	if r.stage != nil {
		r.stage.Deallocate()
		r.stage = nil
	}
	r.buffer = nil
}

func min4(a, b, c, d float64) float64 {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	if d < a {
		a = d
	}
	return a
}

func max4(a, b, c, d float64) float64 {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	if d > a {
		a = d
	}
	return a
}
