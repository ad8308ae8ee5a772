package vantage

import "math"

// FollowStyle selects how the camera's deadzone is derived when Follow is
// called. Styles do not transition on their own; changing style means calling
// Follow again.
type FollowStyle uint8

const (
	// FollowLockon uses a deadzone the size of the target, lifted by a
	// quarter of its height.
	FollowLockon FollowStyle = iota
	// FollowPlatformer uses a narrow, tall deadzone (width/8 × height/3)
	// lifted by a quarter of its height.
	FollowPlatformer
	// FollowTopdown uses a centered square deadzone of max(width, height)/4.
	FollowTopdown
	// FollowTopdownTight uses a centered square deadzone of max(width, height)/8.
	FollowTopdownTight
	// FollowScreenByScreen keeps the camera still until the target leaves the
	// view, then jumps by exactly one view dimension.
	FollowScreenByScreen
	// FollowNoDeadZone centers the target every frame.
	FollowNoDeadZone
)

// Target is the tracked-object capability the follow controller consumes:
// a world-space top-left position and a size.
type Target interface {
	Position() (x, y float64)
	Size() (w, h float64)
}

// Follow starts tracking a target. The deadzone is computed once, from the
// camera and target sizes at this instant; later size changes do not
// recompute it. lerp is the smoothing factor in (0, 1]; out-of-range values
// snap (lerp = 1).
func (c *Camera) Follow(target Target, style FollowStyle, lerp float64) {
	if lerp <= 0 || lerp > 1 {
		lerp = 1
	}
	c.target = target
	c.style = style
	c.followLerp = lerp
	c.lastTargetPos = nil
	c.deadzone = nil

	w := float64(c.width)
	h := float64(c.height)

	switch style {
	case FollowLockon:
		var tw, th float64
		if target != nil {
			tw, th = target.Size()
		}
		c.deadzone = &Rect{X: (w - tw) / 2, Y: (h-th)/2 - th*0.25, Width: tw, Height: th}
	case FollowPlatformer:
		dw := w / 8
		dh := h / 3
		c.deadzone = &Rect{X: (w - dw) / 2, Y: (h-dh)/2 - dh*0.25, Width: dw, Height: dh}
	case FollowTopdown:
		d := math.Max(w, h) / 4
		c.deadzone = &Rect{X: (w - d) / 2, Y: (h - d) / 2, Width: d, Height: d}
	case FollowTopdownTight:
		d := math.Max(w, h) / 8
		c.deadzone = &Rect{X: (w - d) / 2, Y: (h - d) / 2, Width: d, Height: d}
	case FollowScreenByScreen:
		c.deadzone = &Rect{Width: w, Height: h}
	case FollowNoDeadZone:
		// nil deadzone: target midpoint is centered every frame.
	}
}

// Unfollow stops tracking the current target.
func (c *Camera) Unfollow() {
	c.target = nil
	c.lastTargetPos = nil
}

// Deadzone returns the camera-local rectangle the target may move within
// before the camera scrolls, or nil when following without one.
func (c *Camera) Deadzone() *Rect {
	return c.deadzone
}

// updateFollow recomputes scrollTarget from the target and deadzone, then
// smooths scroll toward it.
func (c *Camera) updateFollow(elapsed float64) {
	tx, ty := c.target.Position()
	tw, th := c.target.Size()
	tx += c.TargetOffset.X
	ty += c.TargetOffset.Y

	if c.deadzone == nil {
		c.scrollTarget = Vec2{
			X: tx + tw/2 - float64(c.width)/2,
			Y: ty + th/2 - float64(c.height)/2,
		}
	} else if c.style == FollowScreenByScreen {
		view := c.ViewRect()
		if tx >= view.X+view.Width {
			c.scrollTarget.X += c.ViewWidth()
		} else if tx+tw <= view.X {
			c.scrollTarget.X -= c.ViewWidth()
		}
		if ty >= view.Y+view.Height {
			c.scrollTarget.Y += c.ViewHeight()
		} else if ty+th <= view.Y {
			c.scrollTarget.Y -= c.ViewHeight()
		}
		// Clamp right away so style switches mid-scroll cannot leave a
		// drifted page target behind.
		c.bindScrollPos(&c.scrollTarget)
	} else {
		dz := *c.deadzone
		// Four one-sided clamps in fixed order. Each pushes scrollTarget only
		// far enough to keep the target's edges inside the deadzone.
		if edge := tx - dz.X; c.scrollTarget.X > edge {
			c.scrollTarget.X = edge
		}
		if edge := tx + tw - dz.X - dz.Width; c.scrollTarget.X < edge {
			c.scrollTarget.X = edge
		}
		if edge := ty - dz.Y; c.scrollTarget.Y > edge {
			c.scrollTarget.Y = edge
		}
		if edge := ty + th - dz.Y - dz.Height; c.scrollTarget.Y < edge {
			c.scrollTarget.Y = edge
		}
	}

	if c.FollowLead.X != 0 || c.FollowLead.Y != 0 {
		if c.lastTargetPos == nil {
			c.lastTargetPos = &Vec2{X: tx, Y: ty}
		}
		c.scrollTarget.X += (tx - c.lastTargetPos.X) * c.FollowLead.X
		c.scrollTarget.Y += (ty - c.lastTargetPos.Y) * c.FollowLead.Y
		c.lastTargetPos.X = tx
		c.lastTargetPos.Y = ty
	}

	if c.followLerp >= 1 {
		c.scroll = c.scrollTarget
		return
	}
	// Framerate-independent smoothing: the same lerp converges identically
	// regardless of tick length.
	factor := 1 - math.Exp(-elapsed*c.followLerp*60)
	c.scroll.X += (c.scrollTarget.X - c.scroll.X) * factor
	c.scroll.Y += (c.scrollTarget.Y - c.scroll.Y) * factor
}

// SnapToTarget moves scroll to the follow target immediately, bypassing
// smoothing. No-op without a target.
func (c *Camera) SnapToTarget() {
	if c.target == nil {
		return
	}
	c.updateFollow(0)
	c.scroll = c.scrollTarget
}

// SetScrollBounds limits how far the camera may scroll on each side
// independently. Pass math.NaN for any side to leave it unbounded.
func (c *Camera) SetScrollBounds(minX, maxX, minY, maxY float64) {
	c.minScrollX = minX
	c.maxScrollX = maxX
	c.minScrollY = minY
	c.maxScrollY = maxY
	c.bindScrollPos(&c.scroll)
}

// SetScrollBoundsRect limits scrolling to the given world-space rectangle.
func (c *Camera) SetScrollBoundsRect(r Rect) {
	c.SetScrollBounds(r.X, r.X+r.Width, r.Y, r.Y+r.Height)
}

// ClearScrollBounds removes all scroll limits.
func (c *Camera) ClearScrollBounds() {
	nan := math.NaN()
	c.SetScrollBounds(nan, nan, nan, nan)
}

// View margin edges, in camera-local coordinates.
func (c *Camera) viewMarginLeft() float64   { return c.viewMarginX }
func (c *Camera) viewMarginRight() float64  { return c.viewMarginX + c.ViewWidth() }
func (c *Camera) viewMarginTop() float64    { return c.viewMarginY }
func (c *Camera) viewMarginBottom() float64 { return c.viewMarginY + c.ViewHeight() }

// bindScrollPos clamps p into the margin-adjusted scroll bounds. Unset (NaN)
// bounds stay NaN through the subtraction and are ignored by boundFloat.
func (c *Camera) bindScrollPos(p *Vec2) {
	p.X = boundFloat(p.X, c.minScrollX-c.viewMarginLeft(), c.maxScrollX-c.viewMarginRight())
	p.Y = boundFloat(p.Y, c.minScrollY-c.viewMarginTop(), c.maxScrollY-c.viewMarginBottom())
}

// boundFloat clamps v into [lo, hi], treating NaN as unbounded. The lower
// bound wins when the range is inverted.
func boundFloat(v, lo, hi float64) float64 {
	if !math.IsNaN(hi) && v > hi {
		v = hi
	}
	if !math.IsNaN(lo) && v < lo {
		v = lo
	}
	return v
}
