package vantage

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// panAnim holds active scroll tweens for camera X and Y.
type panAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera converts world-space scene content into an ordered sequence of draw
// operations against its backend, while tracking a follow target and running
// flash/fade/shake effects.
//
// A camera is created with NewCamera, stepped once per frame with Update,
// drawn into via QuadBatch/TriangleBatch, and flushed with Render. All
// cameras sharing a BatchPool must run on one goroutine.
type Camera struct {
	// X and Y are the camera's presentation position on the screen, in
	// screen pixels. They are independent of zoom and scroll.
	X, Y float64

	// Visible controls whether Render draws anything. The draw stack is
	// cleared either way.
	Visible bool
	// Alpha is the presentation opacity in [0, 1].
	Alpha float64
	// Tint multiplies the presented buffer's colors.
	Tint Color
	// BgColor fills the buffer at the start of every frame.
	BgColor Color
	// PixelPerfectRender rounds the presentation offset to whole pixels.
	PixelPerfectRender bool
	// PixelPerfectShake rounds shake offsets to whole pixels.
	PixelPerfectShake bool

	// TargetOffset shifts the follow focus away from the target's midpoint.
	TargetOffset Vec2
	// FollowLead scales an anticipatory scroll term proportional to the
	// target's per-tick movement.
	FollowLead Vec2

	// OnResize is invoked at the end of every size/scale/zoom change, after
	// derived state has been recomputed.
	OnResize func(*Camera)

	width  int
	height int

	zoom        float64
	initialZoom float64
	scaleX      float64
	scaleY      float64

	displayScaleX float64
	displayScaleY float64
	totalScaleX   float64
	totalScaleY   float64

	angleRaw  float64
	angle     float64 // normalized to [0, 360)
	angleSin  float64
	angleCos  float64
	rotCenter [6]float64 // cached rotation about the buffer center

	viewMarginX float64
	viewMarginY float64

	scroll       Vec2
	scrollTarget Vec2
	// Scroll bounds; NaN means unbounded on that side.
	minScrollX, maxScrollX float64
	minScrollY, maxScrollY float64

	target        Target
	deadzone      *Rect
	style         FollowStyle
	followLerp    float64
	lastTargetPos *Vec2

	pan *panAnim

	// Effect timers; see effects.go.
	flashColor    Color
	flashDuration float64
	flashAlpha    float64
	flashComplete func()

	fadeColor    Color
	fadeDuration float64
	fadeAlpha    float64
	fadeIn       bool
	fadeComplete func()

	shakeIntensity float64
	shakeDuration  float64
	shakeAxes      ShakeAxes
	shakeComplete  func()

	// renderOffset is the presentation-only jitter from shake. It never
	// touches scroll, so world-to-screen mapping used for hit testing is
	// unaffected.
	renderOffset Vec2

	pool    *BatchPool
	backend Backend
	stack   drawStack
}

// NewCamera creates a camera drawing through the given backend, sharing the
// given batch pool. Non-positive width/height fall back to DefaultWidth and
// DefaultHeight; a zoom of 0 resolves to DefaultZoom.
func NewCamera(pool *BatchPool, backend Backend, x, y float64, width, height int, zoom float64) *Camera {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if zoom == 0 {
		zoom = DefaultZoom
	}

	c := &Camera{
		X:             x,
		Y:             y,
		Visible:       true,
		Alpha:         1,
		Tint:          ColorWhite,
		width:         width,
		height:        height,
		zoom:          zoom,
		initialZoom:   zoom,
		scaleX:        zoom,
		scaleY:        zoom,
		displayScaleX: 1,
		displayScaleY: 1,
		angleCos:      1,
		minScrollX:    math.NaN(),
		maxScrollX:    math.NaN(),
		minScrollY:    math.NaN(),
		maxScrollY:    math.NaN(),
		followLerp:    1,
		pool:          pool,
		backend:       backend,
		stack:         emptyStack(),
	}
	c.updateDerived()
	return c
}

// Destroy releases backend resources and returns any outstanding pool nodes.
// The camera must not be used afterwards.
func (c *Camera) Destroy() {
	c.clearStack()
	c.backend.dispose()
	c.target = nil
	c.lastTargetPos = nil
	c.flashComplete = nil
	c.fadeComplete = nil
	c.shakeComplete = nil
	c.pan = nil
}

// Size returns the camera's view dimensions in unscaled pixels.
func (c *Camera) Size() (w, h int) {
	return c.width, c.height
}

// SetSize resizes the camera view. Non-positive dimensions are ignored.
func (c *Camera) SetSize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	if w == c.width && h == c.height {
		return
	}
	c.width = w
	c.height = h
	c.updateDerived()
}

// Zoom returns the camera's effective zoom.
func (c *Camera) Zoom() float64 {
	return c.zoom
}

// SetZoom sets the camera's magnification. A zoom of 0 resolves to
// DefaultZoom; negative values are ignored.
func (c *Camera) SetZoom(zoom float64) {
	if zoom == 0 {
		zoom = DefaultZoom
	}
	if zoom < 0 {
		return
	}
	c.zoom = zoom
	c.SetScale(zoom, zoom)
}

// Scale returns the camera-local scale.
func (c *Camera) Scale() (sx, sy float64) {
	return c.scaleX, c.scaleY
}

// SetScale sets the camera-local scale. Non-positive values are ignored.
func (c *Camera) SetScale(sx, sy float64) {
	if sx <= 0 || sy <= 0 {
		return
	}
	c.scaleX = sx
	c.scaleY = sy
	c.updateDerived()
}

// TotalScale returns the presentation scale: camera scale times the host
// display scale.
func (c *Camera) TotalScale() (sx, sy float64) {
	return c.totalScaleX, c.totalScaleY
}

// SetDisplayScale sets the host display-scale factors, typically pushed by
// the window/resize subsystem. Non-positive values are ignored.
func (c *Camera) SetDisplayScale(sx, sy float64) {
	if sx <= 0 || sy <= 0 {
		return
	}
	c.displayScaleX = sx
	c.displayScaleY = sy
	c.updateDerived()
}

// updateDerived runs the size/scale cascade: view margins, backend buffer,
// the cached rotation helper, then the resize notification.
func (c *Camera) updateDerived() {
	c.totalScaleX = c.scaleX * c.displayScaleX
	c.totalScaleY = c.scaleY * c.displayScaleY

	c.viewMarginX = 0.5 * float64(c.width) * (c.scaleX - c.initialZoom) / c.scaleX
	c.viewMarginY = 0.5 * float64(c.height) * (c.scaleY - c.initialZoom) / c.scaleY

	c.backend.resize(c.width, c.height, c.totalScaleX, c.totalScaleY)
	c.rebuildRotation()

	if c.OnResize != nil {
		c.OnResize(c)
	}
}

// Angle returns the camera rotation in degrees, as last assigned.
func (c *Camera) Angle() float64 {
	return c.angleRaw
}

// SetAngle sets the camera rotation in degrees (clockwise, Y down). The
// cached sine/cosine pair is recomputed only when the angle changes.
func (c *Camera) SetAngle(degrees float64) {
	if degrees == c.angleRaw {
		return
	}
	c.angleRaw = degrees
	c.angle = normalizeDegrees(degrees)
	c.angleSin, c.angleCos = math.Sincos(c.angle * (math.Pi / 180))
	c.rebuildRotation()
}

// rebuildRotation refreshes the cached rotate-about-buffer-center matrix.
func (c *Camera) rebuildRotation() {
	if c.angle == 0 {
		c.rotCenter = identityTransform
		return
	}
	bw, bh := c.bufferSize()
	c.rotCenter = rotationAbout(c.angleSin, c.angleCos, bw/2, bh/2)
}

// rotateMatrix applies the camera rotation about the buffer center to m.
// A no-op when the normalized angle is 0. Both backends route their
// presentation transform through here, so rotation stays visually consistent
// whether pixels are composed directly or geometry is batched.
func (c *Camera) rotateMatrix(m [6]float64) [6]float64 {
	if c.angle == 0 {
		return m
	}
	return multiplyAffine(c.rotCenter, m)
}

// bufferSize returns the owned buffer's dimensions in screen pixels.
func (c *Camera) bufferSize() (w, h float64) {
	return float64(c.width) * c.totalScaleX, float64(c.height) * c.totalScaleY
}

// bufferRect returns the owned buffer's rect at origin, the space draw
// matrices target.
func (c *Camera) bufferRect() Rect {
	w, h := c.bufferSize()
	return Rect{Width: w, Height: h}
}

// ViewMargins returns the symmetric view margins induced by zooming away
// from the construction zoom.
func (c *Camera) ViewMargins() (x, y float64) {
	return c.viewMarginX, c.viewMarginY
}

// ViewWidth returns the width of the world-space area the camera can see.
func (c *Camera) ViewWidth() float64 {
	return float64(c.width) - 2*c.viewMarginX
}

// ViewHeight returns the height of the world-space area the camera can see.
func (c *Camera) ViewHeight() float64 {
	return float64(c.height) - 2*c.viewMarginY
}

// ViewRect returns the world-space rectangle currently visible: the scroll
// position offset by the view margins.
func (c *Camera) ViewRect() Rect {
	return Rect{
		X:      c.scroll.X + c.viewMarginX,
		Y:      c.scroll.Y + c.viewMarginY,
		Width:  c.ViewWidth(),
		Height: c.ViewHeight(),
	}
}

// Scroll returns the world-space coordinate of the view's top-left corner.
func (c *Camera) Scroll() Vec2 {
	return c.scroll
}

// SetScroll places the view's top-left corner, subject to scroll bounds.
func (c *Camera) SetScroll(x, y float64) {
	c.scroll = Vec2{X: x, Y: y}
	c.bindScrollPos(&c.scroll)
}

// FocusOn centers the view on a world-space point, subject to scroll bounds.
func (c *Camera) FocusOn(p Vec2) {
	c.SetScroll(p.X-float64(c.width)/2, p.Y-float64(c.height)/2)
}

// ContainsPoint reports whether a world-space point is visible, accounting
// for camera rotation via the rotated view bounds.
func (c *Camera) ContainsPoint(p Vec2) bool {
	return c.rotatedViewBounds().Contains(p.X, p.Y)
}

// ContainsRect reports whether any part of a world-space rect is visible.
// With rotation this is a conservative test against the rotated view's
// axis-aligned bounds.
func (c *Camera) ContainsRect(r Rect) bool {
	return c.rotatedViewBounds().Intersects(r)
}

func (c *Camera) rotatedViewBounds() Rect {
	view := c.ViewRect()
	if c.angle == 0 {
		return view
	}
	return view.RotatedBounds(c.angle, Vec2{X: view.Width / 2, Y: view.Height / 2})
}

// Update advances the camera one frame: follow/scroll smoothing, pan tweens,
// scroll clamping, and the effect timers. elapsed is in seconds.
func (c *Camera) Update(elapsed float64) {
	if c.target != nil {
		c.updateFollow(elapsed)
	}
	c.updatePan(elapsed)
	c.bindScrollPos(&c.scroll)

	c.updateFlash(elapsed)
	c.updateFade(elapsed)
	c.updateShake(elapsed)
}

// Render plays the draw stack back in submission order, composites effects,
// presents the buffer to screen, and returns all batch nodes to the pool.
// Must be called exactly once per frame, even for invisible cameras, so the
// shared pool sees every node again. screen may be nil to skip presentation.
func (c *Camera) Render(screen *ebiten.Image) {
	if c.Visible && c.Alpha > 0 {
		c.backend.begin(c.BgColor)
		view := c.bufferRect()
		for i := c.stack.head; i != nilBatch; {
			n := c.pool.node(i)
			switch n.kind {
			case kindQuad:
				c.backend.drawQuads(n)
			case kindTriangle:
				c.backend.drawTriangles(n, view)
			}
			i = n.nextInStack
		}
		c.drawFX()
		if screen != nil {
			c.backend.present(screen, c)
		}
	}
	c.clearStack()
}

// PanTo animates the scroll position to (x, y) over duration seconds using
// the given easing function. While a follow target is active the follow
// controller keeps steering scrollTarget, so panning is usually combined
// with Unfollow.
func (c *Camera) PanTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.pan = &panAnim{
		tweenX: gween.New(float32(c.scroll.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.scroll.Y), float32(y), duration, easeFn),
	}
}

func (c *Camera) updatePan(elapsed float64) {
	if c.pan == nil {
		return
	}
	dt := float32(elapsed)
	if !c.pan.doneX {
		val, done := c.pan.tweenX.Update(dt)
		c.scroll.X = float64(val)
		c.pan.doneX = done
	}
	if !c.pan.doneY {
		val, done := c.pan.tweenY.Update(dt)
		c.scroll.Y = float64(val)
		c.pan.doneY = done
	}
	if c.pan.doneX && c.pan.doneY {
		c.pan = nil
	}
}
