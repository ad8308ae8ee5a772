package vantage

import (
	"math"
	"testing"
)

var colorRed = Color{R: 1, A: 1}

func TestFlashFadesOutAndCompletesOnce(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	calls := 0
	cam.Flash(colorRed, 1, func() { calls++ }, false)

	cam.Update(0.5)
	if !approxEqual(cam.flashAlpha, 0.5, epsilon) {
		t.Errorf("flashAlpha = %f, want 0.5", cam.flashAlpha)
	}
	if calls != 0 {
		t.Fatal("callback fired early")
	}

	cam.Update(1.0)
	if cam.flashAlpha != 0 {
		t.Errorf("flashAlpha = %f, want 0", cam.flashAlpha)
	}
	if calls != 1 {
		t.Fatalf("callback calls = %d, want 1", calls)
	}

	// Further updates never re-fire.
	cam.Update(1.0)
	cam.Update(1.0)
	if calls != 1 {
		t.Errorf("callback calls after extra updates = %d, want 1", calls)
	}
}

func TestFlashIgnoredWhileRunningUnlessForced(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	cam.Flash(colorRed, 1, nil, false)
	cam.Update(0.25)

	cam.Flash(Color{B: 1, A: 1}, 1, nil, false)
	if cam.flashColor != colorRed {
		t.Error("running flash was replaced without force")
	}

	cam.Flash(Color{B: 1, A: 1}, 1, nil, true)
	if cam.flashColor.B != 1 || cam.flashAlpha != 1 {
		t.Error("forced flash did not restart")
	}
}

func TestFlashZeroDurationCompletesNextTick(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	calls := 0
	cam.Flash(colorRed, 0, func() { calls++ }, false)
	if cam.flashAlpha != 1 {
		t.Fatal("flash did not start")
	}
	cam.Update(1.0 / 60.0)
	if cam.flashAlpha != 0 || calls != 1 {
		t.Errorf("alpha = %f, calls = %d; want 0, 1", cam.flashAlpha, calls)
	}
}

func TestFadeOutCoversAndHolds(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	calls := 0
	cam.Fade(ColorBlack, 1, false, func() { calls++ }, false)

	cam.Update(0.5)
	if !approxEqual(cam.fadeAlpha, 0.5, 1e-5) {
		t.Errorf("fadeAlpha = %f, want ~0.5", cam.fadeAlpha)
	}

	cam.Update(0.6)
	if cam.fadeAlpha != 1 {
		t.Errorf("fadeAlpha = %f, want 1", cam.fadeAlpha)
	}
	if calls != 1 {
		t.Fatalf("callback calls = %d, want 1", calls)
	}

	// A completed fade-out keeps covering the view.
	cam.Update(1.0)
	if cam.fadeAlpha != 1 || calls != 1 {
		t.Error("completed fade-out did not hold its cover")
	}
}

func TestFadeInRevealsScene(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	calls := 0
	cam.Fade(ColorBlack, 1, true, func() { calls++ }, false)

	if cam.fadeAlpha < 0.99 {
		t.Fatalf("fade-in starts at %f, want ~1", cam.fadeAlpha)
	}
	cam.Update(0.5)
	if !approxEqual(cam.fadeAlpha, 0.5, 1e-5) {
		t.Errorf("fadeAlpha = %f, want ~0.5", cam.fadeAlpha)
	}
	cam.Update(0.6)
	if cam.fadeAlpha != 0 || calls != 1 {
		t.Errorf("alpha = %f, calls = %d; want 0, 1", cam.fadeAlpha, calls)
	}
}

func TestFadeIgnoredWhileRunningUnlessForced(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	cam.Fade(ColorBlack, 1, false, nil, false)
	cam.Update(0.25)

	cam.Fade(colorRed, 1, false, nil, false)
	if cam.fadeColor != ColorBlack {
		t.Error("running fade was replaced without force")
	}

	// After completion a new fade starts without force.
	cam.Update(1.0)
	cam.Fade(colorRed, 1, true, nil, false)
	if cam.fadeColor != colorRed {
		t.Error("fade after completion was ignored")
	}
}

func TestShakeOffsetsAndCompletes(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	calls := 0
	cam.Shake(0.05, 0.5, func() { calls++ }, true, AxesXY)

	cam.Update(0.25)
	if math.Abs(cam.renderOffset.X) > 0.05*800 || math.Abs(cam.renderOffset.Y) > 0.05*600 {
		t.Errorf("offset %+v exceeds intensity bounds", cam.renderOffset)
	}
	if cam.Scroll() != (Vec2{}) {
		t.Error("shake moved scroll")
	}

	// Cumulative updates summing to exactly the duration complete the shake.
	cam.Update(0.25)
	if calls != 1 {
		t.Fatalf("callback calls = %d, want 1", calls)
	}
	if cam.renderOffset != (Vec2{}) {
		t.Errorf("offset after completion = %+v, want zero", cam.renderOffset)
	}
	cam.Update(0.25)
	if calls != 1 {
		t.Error("callback re-fired")
	}
}

func TestShakeSingleAxis(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	cam.Shake(0.5, 10, nil, true, AxesX)
	sawX := false
	for i := 0; i < 20; i++ {
		cam.Update(1.0 / 60.0)
		if cam.renderOffset.Y != 0 {
			t.Fatal("X-only shake produced a Y offset")
		}
		if cam.renderOffset.X != 0 {
			sawX = true
		}
	}
	if !sawX {
		t.Error("X-only shake never produced an X offset")
	}
}

func TestShakePixelPerfectRounds(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	cam.PixelPerfectShake = true
	cam.Shake(0.5, 10, nil, true, AxesXY)
	for i := 0; i < 20; i++ {
		cam.Update(1.0 / 60.0)
		if cam.renderOffset.X != math.Trunc(cam.renderOffset.X) {
			t.Fatalf("offset.X = %f not whole", cam.renderOffset.X)
		}
		if cam.renderOffset.Y != math.Trunc(cam.renderOffset.Y) {
			t.Fatalf("offset.Y = %f not whole", cam.renderOffset.Y)
		}
	}
}

func TestStopEffectsSkipCallbacks(t *testing.T) {
	cam, _ := newTestCamera(800, 600)
	calls := 0
	cb := func() { calls++ }
	cam.Flash(colorRed, 1, cb, false)
	cam.Fade(ColorBlack, 1, false, cb, false)
	cam.Shake(0.1, 1, cb, true, AxesXY)
	cam.Update(0.1)

	cam.StopFX()
	if cam.flashAlpha != 0 || cam.fadeAlpha != 0 || cam.shakeDuration != 0 {
		t.Error("StopFX left effect state behind")
	}
	if cam.renderOffset != (Vec2{}) {
		t.Error("StopFX left a render offset")
	}

	cam.Update(5)
	if calls != 0 {
		t.Errorf("callbacks fired after StopFX: %d", calls)
	}
}

func TestRenderCompositesFlashThenFade(t *testing.T) {
	cam, backend := newTestCamera(800, 600)
	cam.Flash(colorRed, 1, nil, false)
	cam.Fade(ColorBlack, 1, false, nil, false)
	cam.Update(0.5)

	cam.Render(nil)

	if len(backend.fills) != 2 {
		t.Fatalf("fills = %d, want 2", len(backend.fills))
	}
	if backend.fills[0] != colorRed || backend.fills[1] != ColorBlack {
		t.Errorf("fill order = %v, want flash then fade", backend.fills)
	}
	if !approxEqual(backend.fillAlpha[0], 0.5, epsilon) {
		t.Errorf("flash fill alpha = %f, want 0.5", backend.fillAlpha[0])
	}
}
