package vantage

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestCameraDefaults(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	if !cam.Visible {
		t.Error("Visible = false, want true")
	}
	if cam.Alpha != 1 {
		t.Errorf("Alpha = %f, want 1", cam.Alpha)
	}
	if cam.Tint != ColorWhite {
		t.Errorf("Tint = %+v, want white", cam.Tint)
	}
	if w, h := cam.Size(); w != 800 || h != 600 {
		t.Errorf("Size = %dx%d, want 800x600", w, h)
	}
	if cam.Zoom() != 1 {
		t.Errorf("Zoom = %f, want 1", cam.Zoom())
	}
	if mx, my := cam.ViewMargins(); mx != 0 || my != 0 {
		t.Errorf("margins = (%f,%f), want (0,0)", mx, my)
	}
}

func TestCameraConstructionFallbacks(t *testing.T) {
	cam := NewCamera(NewBatchPool(), &stubBackend{}, 0, 0, 0, -5, 0)
	if w, h := cam.Size(); w != DefaultWidth || h != DefaultHeight {
		t.Errorf("Size = %dx%d, want defaults %dx%d", w, h, DefaultWidth, DefaultHeight)
	}
	if cam.Zoom() != DefaultZoom {
		t.Errorf("Zoom = %f, want DefaultZoom", cam.Zoom())
	}
}

func TestSetSizeIgnoresNonPositive(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	cam.SetSize(0, 100)
	cam.SetSize(100, -1)
	if w, h := cam.Size(); w != 800 || h != 600 {
		t.Errorf("Size = %dx%d, want unchanged 800x600", w, h)
	}
}

func TestSetZoomValidation(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	cam.SetZoom(-2)
	if cam.Zoom() != 1 {
		t.Errorf("negative zoom accepted: %f", cam.Zoom())
	}
	cam.SetZoom(0)
	if cam.Zoom() != DefaultZoom {
		t.Errorf("zoom 0 resolved to %f, want DefaultZoom", cam.Zoom())
	}
}

func TestViewMarginsAtDoubleZoom(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	cam.SetZoom(2)
	mx, my := cam.ViewMargins()
	// 0.5 * 800 * (2-1)/2 = 200
	if !approxEqual(mx, 200, epsilon) || !approxEqual(my, 150, epsilon) {
		t.Errorf("margins = (%f,%f), want (200,150)", mx, my)
	}
	if !approxEqual(cam.ViewWidth(), 400, epsilon) || !approxEqual(cam.ViewHeight(), 300, epsilon) {
		t.Errorf("view size = (%f,%f), want (400,300)", cam.ViewWidth(), cam.ViewHeight())
	}
	view := cam.ViewRect()
	if !approxEqual(view.X, 200, epsilon) || !approxEqual(view.Y, 150, epsilon) {
		t.Errorf("view origin = (%f,%f), want (200,150)", view.X, view.Y)
	}
}

func TestZoomOutMarginsAreNegative(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	cam.SetZoom(0.5)
	mx, _ := cam.ViewMargins()
	// 0.5 * 800 * (0.5-1)/0.5 = -400: the view is wider than the base size.
	if !approxEqual(mx, -400, epsilon) {
		t.Errorf("marginX = %f, want -400", mx)
	}
	if !approxEqual(cam.ViewWidth(), 1600, epsilon) {
		t.Errorf("ViewWidth = %f, want 1600", cam.ViewWidth())
	}
}

func TestTotalScaleCombinesDisplayScale(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	cam.SetZoom(2)
	cam.SetDisplayScale(1.5, 1.5)
	sx, sy := cam.TotalScale()
	if !approxEqual(sx, 3, epsilon) || !approxEqual(sy, 3, epsilon) {
		t.Errorf("TotalScale = (%f,%f), want (3,3)", sx, sy)
	}
}

func TestOnResizeFiresAfterDerivedState(t *testing.T) {
	cam, backend := newTestCamera(800, 600)
	var sawMargin float64
	calls := 0
	cam.OnResize = func(c *Camera) {
		calls++
		sawMargin, _ = c.ViewMargins()
	}

	cam.SetZoom(2)
	if calls != 1 {
		t.Fatalf("OnResize calls = %d, want 1", calls)
	}
	if !approxEqual(sawMargin, 200, epsilon) {
		t.Errorf("OnResize saw marginX %f, want recomputed 200", sawMargin)
	}
	cam.SetSize(400, 300)
	if calls != 2 {
		t.Errorf("OnResize calls = %d, want 2", calls)
	}
	if backend.resizes < 3 {
		t.Errorf("backend resizes = %d, want at least 3 (construction + 2 changes)", backend.resizes)
	}
}

func TestRotateMatrixIdentityAtZero(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	m := [6]float64{2, 0, 0, 2, 5, 5}
	if got := cam.rotateMatrix(m); got != m {
		t.Errorf("rotateMatrix at angle 0 = %v, want input", got)
	}
	// Full turns normalize to 0 and stay a no-op.
	cam.SetAngle(360)
	if got := cam.rotateMatrix(m); got != m {
		t.Errorf("rotateMatrix at 360° = %v, want input", got)
	}
}

func TestRotateMatrixAboutBufferCenter(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	cam.SetAngle(90)

	m := cam.rotateMatrix(identityTransform)
	// Buffer center is the pivot.
	cx, cy := transformPoint(m, 400, 300)
	if !approxEqual(cx, 400, 1e-9) || !approxEqual(cy, 300, 1e-9) {
		t.Errorf("center moved to (%f,%f)", cx, cy)
	}
	// Top-left swings clockwise.
	x, y := transformPoint(m, 0, 0)
	if !approxEqual(x, 700, 1e-9) || !approxEqual(y, -100, 1e-9) {
		t.Errorf("(0,0) rotated = (%f,%f), want (700,-100)", x, y)
	}
}

func TestSetAngleNormalizes(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	cam.SetAngle(-90)
	if cam.Angle() != -90 {
		t.Errorf("Angle = %f, want raw -90", cam.Angle())
	}
	if !approxEqual(cam.angle, 270, epsilon) {
		t.Errorf("normalized angle = %f, want 270", cam.angle)
	}
}

func TestSetScrollAndFocusOn(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	cam.SetScroll(100, 50)
	if s := cam.Scroll(); s.X != 100 || s.Y != 50 {
		t.Errorf("Scroll = %+v, want (100,50)", s)
	}
	cam.FocusOn(Vec2{X: 500, Y: 500})
	if s := cam.Scroll(); s.X != 100 || s.Y != 200 {
		t.Errorf("FocusOn scroll = %+v, want (100,200)", s)
	}
}

func TestContainsPoint(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	cam.SetScroll(100, 100)
	if !cam.ContainsPoint(Vec2{X: 100, Y: 100}) || !cam.ContainsPoint(Vec2{X: 900, Y: 700}) {
		t.Error("view corners should be visible")
	}
	if cam.ContainsPoint(Vec2{X: 99, Y: 100}) {
		t.Error("point left of view reported visible")
	}
}

func TestContainsRectWithRotation(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	cam.SetAngle(45)
	// The rotated view's AABB extends past the unrotated edges; a rect just
	// outside the unrotated view is still conservatively visible.
	if !cam.ContainsRect(Rect{X: -80, Y: 300, Width: 10, Height: 10}) {
		t.Error("rect inside rotated bounds reported invisible")
	}
	if cam.ContainsRect(Rect{X: -2000, Y: 0, Width: 10, Height: 10}) {
		t.Error("far-away rect reported visible")
	}
}

func TestPanTo(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	cam.PanTo(100, 200, 1.0, ease.Linear)

	cam.Update(0.5)
	if !approxEqual(cam.Scroll().X, 50, 1.0) || !approxEqual(cam.Scroll().Y, 100, 1.0) {
		t.Errorf("pan halfway: scroll = %+v, want ~(50,100)", cam.Scroll())
	}

	cam.Update(0.6)
	if !approxEqual(cam.Scroll().X, 100, 1.0) || !approxEqual(cam.Scroll().Y, 200, 1.0) {
		t.Errorf("pan end: scroll = %+v, want ~(100,200)", cam.Scroll())
	}
	if cam.pan != nil {
		t.Error("pan not cleared after completion")
	}
}

func TestPanToRespectsScrollBounds(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	cam.SetScrollBounds(0, 1000, 0, 1000)
	cam.PanTo(5000, 0, 0.1, ease.Linear)
	cam.Update(1)
	// Update clamps after the tween runs.
	if got := cam.Scroll().X; !approxEqual(got, 200, 1.0) {
		t.Errorf("clamped pan: scroll.X = %f, want 200", got)
	}
}

func TestUpdateClampsScroll(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	cam.SetScrollBounds(0, 1000, 0, 1000)
	cam.scroll = Vec2{X: -500, Y: 5000}
	cam.Update(1.0 / 60.0)
	if s := cam.Scroll(); s.X != 0 || s.Y != 400 {
		t.Errorf("scroll = %+v, want (0,400)", s)
	}
}

func TestDestroyDisposesBackend(t *testing.T) {
	cam, backend := newTestCamera(800, 600)
	cam.QuadBatch(BatchKey{}).AddQuad(quadFrame(), identityTransform, IdentityColorTransform)
	cam.Destroy()
	if !backend.disposed {
		t.Error("backend not disposed")
	}
	if cam.stack.head != nilBatch {
		t.Error("stack not cleared on destroy")
	}
}

func TestNaNBoundsLeaveScrollFree(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	nan := math.NaN()
	cam.SetScrollBounds(0, nan, nan, nan)
	cam.SetScroll(-100, -9999)
	if s := cam.Scroll(); s.X != 0 || s.Y != -9999 {
		t.Errorf("scroll = %+v, want (0,-9999)", s)
	}
	cam.SetScroll(1e9, 0)
	if got := cam.Scroll().X; got != 1e9 {
		t.Errorf("unbounded max clamped: %f", got)
	}
}
