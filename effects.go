package vantage

import (
	"math"
	"math/rand/v2"
)

// minEffectDuration replaces non-positive effect durations: the effect still
// runs, but completes on the very next tick.
const minEffectDuration = 1e-6

// ShakeAxes selects which axes a shake jitters. The zero value shakes both.
type ShakeAxes uint8

const (
	AxesX  ShakeAxes = 1 << iota // horizontal only
	AxesY                        // vertical only
	AxesXY = AxesX | AxesY
)

func (a ShakeAxes) x() bool { return a == 0 || a&AxesX != 0 }
func (a ShakeAxes) y() bool { return a == 0 || a&AxesY != 0 }

// Flash covers the view with color, fading out over duration seconds.
// Ignored while a flash is already running unless force is set. onComplete,
// when non-nil, fires exactly once when the flash finishes.
func (c *Camera) Flash(color Color, duration float64, onComplete func(), force bool) {
	if !force && c.flashAlpha > 0 {
		return
	}
	if duration <= 0 {
		duration = minEffectDuration
	}
	c.flashColor = color
	c.flashDuration = duration
	c.flashComplete = onComplete
	c.flashAlpha = 1
}

func (c *Camera) updateFlash(elapsed float64) {
	if c.flashAlpha <= 0 {
		return
	}
	c.flashAlpha -= elapsed / c.flashDuration
	if c.flashAlpha <= 0 {
		c.flashAlpha = 0
		if cb := c.flashComplete; cb != nil {
			c.flashComplete = nil
			cb()
		}
	}
}

// Fade transitions the view to (fadeIn = false, cover) or from
// (fadeIn = true, reveal) the given color over duration seconds. Ignored
// while a fade is running unless force is set.
func (c *Camera) Fade(color Color, duration float64, fadeIn bool, onComplete func(), force bool) {
	if !force && c.fadeDuration > 0 {
		return
	}
	if duration <= 0 {
		duration = minEffectDuration
	}
	c.fadeColor = color
	c.fadeDuration = duration
	c.fadeIn = fadeIn
	c.fadeComplete = onComplete
	if fadeIn {
		c.fadeAlpha = 0.999999
	} else {
		c.fadeAlpha = 0.000001
	}
}

func (c *Camera) updateFade(elapsed float64) {
	if c.fadeDuration == 0 {
		return
	}
	if c.fadeIn {
		c.fadeAlpha -= elapsed / c.fadeDuration
		if c.fadeAlpha <= 0 {
			c.fadeAlpha = 0
			c.completeFade()
		}
	} else {
		c.fadeAlpha += elapsed / c.fadeDuration
		if c.fadeAlpha >= 1 {
			c.fadeAlpha = 1
			c.completeFade()
		}
	}
}

// completeFade marks the fade inactive (duration 0) and fires the callback
// once. A completed fade-out keeps covering the view at full alpha.
func (c *Camera) completeFade() {
	c.fadeDuration = 0
	if cb := c.fadeComplete; cb != nil {
		c.fadeComplete = nil
		cb()
	}
}

// Shake jitters the camera's presentation position for duration seconds.
// Each tick draws a random offset in [-1, 1]·intensity·dimension per enabled
// axis. Unlike Flash and Fade, callers conventionally pass force = true: a
// new shake restarts a running one.
//
// The offset applies to presentation only, never to scroll, so hit testing
// and world-to-screen mapping are unaffected.
func (c *Camera) Shake(intensity, duration float64, onComplete func(), force bool, axes ShakeAxes) {
	if !force && c.shakeDuration > 0 {
		return
	}
	if duration <= 0 {
		duration = minEffectDuration
	}
	c.shakeIntensity = intensity
	c.shakeDuration = duration
	c.shakeComplete = onComplete
	c.shakeAxes = axes
}

func (c *Camera) updateShake(elapsed float64) {
	c.renderOffset = Vec2{}
	if c.shakeDuration <= 0 {
		return
	}
	c.shakeDuration -= elapsed
	if c.shakeDuration <= 0 {
		c.shakeDuration = 0
		if cb := c.shakeComplete; cb != nil {
			c.shakeComplete = nil
			cb()
		}
		return
	}
	if c.shakeAxes.x() {
		off := (rand.Float64()*2 - 1) * c.shakeIntensity * float64(c.width)
		if c.PixelPerfectShake {
			off = math.Round(off)
		}
		c.renderOffset.X = off
	}
	if c.shakeAxes.y() {
		off := (rand.Float64()*2 - 1) * c.shakeIntensity * float64(c.height)
		if c.PixelPerfectShake {
			off = math.Round(off)
		}
		c.renderOffset.Y = off
	}
}

// drawFX composites the flash and then the fade over the frame's scene
// content, each at effect alpha × color alpha. Runs once per frame from
// Render, after stack playback.
func (c *Camera) drawFX() {
	if c.flashAlpha > 0 {
		c.backend.fill(c.flashColor, c.flashAlpha)
	}
	if c.fadeAlpha > 0 {
		c.backend.fill(c.fadeColor, c.fadeAlpha)
	}
}

// StopFlash ends a running flash immediately without firing its callback.
func (c *Camera) StopFlash() {
	c.flashAlpha = 0
	c.flashComplete = nil
}

// StopFade ends a running fade immediately without firing its callback.
func (c *Camera) StopFade() {
	c.fadeAlpha = 0
	c.fadeDuration = 0
	c.fadeComplete = nil
}

// StopShake ends a running shake immediately without firing its callback.
func (c *Camera) StopShake() {
	c.shakeDuration = 0
	c.shakeComplete = nil
	c.renderOffset = Vec2{}
}

// StopFX stops all running effects without firing any callbacks.
func (c *Camera) StopFX() {
	c.StopFlash()
	c.StopFade()
	c.StopShake()
}
