package vantage

import "github.com/hajimehoshi/ebiten/v2"

// AddQuad appends one transformed quad to the batch. The matrix is the full
// draw transform into the camera's buffer; no culling happens here — callers
// clip against the camera's rotated bounds at their discretion.
func (b *DrawBatch) AddQuad(frame Frame, m [6]float64, ct ColorTransform) {
	if b.immediate {
		b.blits = append(b.blits, blitOp{frame: frame, m: m, ct: ct})
		return
	}

	w := float64(frame.Width)
	h := float64(frame.Height)
	ox := frame.OffsetX
	oy := frame.OffsetY

	// 4 local corners: TL, TR, BL, BR.
	lx := [4]float64{ox, ox + w, ox, ox + w}
	ly := [4]float64{oy, oy, oy + h, oy + h}

	// Source UVs in atlas pixel coordinates.
	sx0 := float32(frame.X)
	sy0 := float32(frame.Y)
	sx1 := sx0 + float32(frame.Width)
	sy1 := sy0 + float32(frame.Height)
	sx := [4]float32{sx0, sx1, sx0, sx1}
	sy := [4]float32{sy0, sy0, sy1, sy1}

	// Premultiplied multiplicative color.
	ca := float32(ct.AMult)
	cr := float32(ct.RMult) * ca
	cg := float32(ct.GMult) * ca
	cb := float32(ct.BMult) * ca

	a, bb, cc, d, tx, ty := m[0], m[1], m[2], m[3], m[4], m[5]
	base := uint32(len(b.verts))

	for i := 0; i < 4; i++ {
		dx := float32(a*lx[i] + cc*ly[i] + tx)
		dy := float32(bb*lx[i] + d*ly[i] + ty)
		b.verts = append(b.verts, ebiten.Vertex{
			DstX:   dx,
			DstY:   dy,
			SrcX:   sx[i],
			SrcY:   sy[i],
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		})
		if b.key.HasColorOffsets {
			b.offVerts = append(b.offVerts, ebiten.Vertex{
				DstX:   dx,
				DstY:   dy,
				SrcX:   sx[i],
				SrcY:   sy[i],
				ColorR: float32(ct.ROff),
				ColorG: float32(ct.GOff),
				ColorB: float32(ct.BOff),
				ColorA: float32(ct.AOff),
			})
		}
	}

	// Two triangles: TL-TR-BL, TR-BR-BL.
	b.inds = append(b.inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
}

// AddTriangles appends an arbitrary triangle list to the batch. Vertices are
// translated by offset; uv coordinates are normalized [0, 1] over the batch's
// graphic; colors may be nil for untinted geometry.
//
// An axis-aligned bounding box is grown incrementally over the vertex set.
// On the immediate-composition backend the whole submission is discarded when
// that box does not overlap cameraBounds — a cheap reject before expensive
// pixel work. On the batched backend culling is deferred to playback, where
// the batch's accumulated bounds are tested once.
func (b *DrawBatch) AddTriangles(vertices []Vec2, indices []uint32, uv []Vec2, colors []Color, offset Vec2, cameraBounds Rect, ct ColorTransform) {
	if len(vertices) == 0 || len(indices) == 0 {
		return
	}

	minX := vertices[0].X + offset.X
	minY := vertices[0].Y + offset.Y
	maxX, maxY := minX, minY
	for _, v := range vertices[1:] {
		x := v.X + offset.X
		y := v.Y + offset.Y
		if x < minX {
			minX = x
		} else if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		} else if y > maxY {
			maxY = y
		}
	}
	box := Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}

	if b.immediate && !box.Intersects(cameraBounds) {
		return
	}
	b.growBounds(box)

	var gw, gh float32 = 1, 1
	if b.key.Graphic != nil {
		w, h := b.key.Graphic.Size()
		gw = float32(w)
		gh = float32(h)
	}

	ca := float32(ct.AMult)
	cr := float32(ct.RMult) * ca
	cg := float32(ct.GMult) * ca
	cb := float32(ct.BMult) * ca

	base := uint32(len(b.verts))
	for i, v := range vertices {
		var su, sv float32
		if i < len(uv) {
			su = float32(uv[i].X) * gw
			sv = float32(uv[i].Y) * gh
		}
		vr, vg, vb, va := cr, cg, cb, ca
		if i < len(colors) {
			c := colors[i]
			va = float32(c.A) * ca
			vr = float32(c.R) * float32(ct.RMult) * va
			vg = float32(c.G) * float32(ct.GMult) * va
			vb = float32(c.B) * float32(ct.BMult) * va
		}
		vert := ebiten.Vertex{
			DstX:   float32(v.X + offset.X),
			DstY:   float32(v.Y + offset.Y),
			SrcX:   su,
			SrcY:   sv,
			ColorR: vr,
			ColorG: vg,
			ColorB: vb,
			ColorA: va,
		}
		b.verts = append(b.verts, vert)
		if b.key.HasColorOffsets {
			vert.ColorR = float32(ct.ROff)
			vert.ColorG = float32(ct.GOff)
			vert.ColorB = float32(ct.BOff)
			vert.ColorA = float32(ct.AOff)
			b.offVerts = append(b.offVerts, vert)
		}
	}
	for _, idx := range indices {
		b.inds = append(b.inds, base+idx)
	}
}

// growBounds unions box into the batch's accumulated bounds.
func (b *DrawBatch) growBounds(box Rect) {
	if !b.hasBounds {
		b.bounds = box
		b.hasBounds = true
		return
	}
	right := b.bounds.X + b.bounds.Width
	bottom := b.bounds.Y + b.bounds.Height
	if box.X < b.bounds.X {
		b.bounds.X = box.X
	}
	if box.Y < b.bounds.Y {
		b.bounds.Y = box.Y
	}
	if r := box.X + box.Width; r > right {
		right = r
	}
	if bt := box.Y + box.Height; bt > bottom {
		bottom = bt
	}
	b.bounds.Width = right - b.bounds.X
	b.bounds.Height = bottom - b.bounds.Y
}
