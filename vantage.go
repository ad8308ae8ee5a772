package vantage

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}
	ColorTransparent = Color{}
)

// DefaultZoom is the process-wide zoom a camera resolves to when constructed
// with (or assigned) a zoom of 0.
var DefaultZoom = 1.0

// DefaultWidth and DefaultHeight are the camera dimensions used when a camera
// is constructed with non-positive size. Hosts typically set these once to
// the game's logical resolution.
var (
	DefaultWidth  = 640
	DefaultHeight = 480
)

// Vec2 is a 2D vector used for positions, offsets, sizes, and directions
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// WhitePixel is a 1x1 white image used for solid color fills on the batched
// backend.
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite.toRGBA())
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// ContainsRect reports whether other lies entirely inside r.
func (r Rect) ContainsRect(other Rect) bool {
	return other.X >= r.X && other.X+other.Width <= r.X+r.Width &&
		other.Y >= r.Y && other.Y+other.Height <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// RotatedBounds returns the axis-aligned bounding rect of r rotated by the
// given angle (degrees, clockwise with Y down) about origin, where origin is
// relative to r's top-left corner.
//
// The angle is normalized to [0, 360) and the bounds are computed in closed
// form per quadrant. Boundary angles select the upper quadrant: exactly 90
// uses the [90, 180) formulas, and so on.
func (r Rect) RotatedBounds(degrees float64, origin Vec2) Rect {
	degrees = math.Mod(degrees, 360)
	if degrees < 0 {
		degrees += 360
	}
	if degrees == 0 {
		return r
	}

	radians := degrees * (math.Pi / 180)
	sin, cos := math.Sincos(radians)

	left := -origin.X
	top := -origin.Y
	right := -origin.X + r.Width
	bottom := -origin.Y + r.Height

	// Each quadrant picks the corner pair that minimizes the rotated X and Y.
	var newX, newY float64
	switch {
	case degrees < 90:
		newX = cos*left - sin*bottom
		newY = sin*left + cos*top
	case degrees < 180:
		newX = cos*right - sin*bottom
		newY = sin*left + cos*bottom
	case degrees < 270:
		newX = cos*right - sin*top
		newY = sin*right + cos*bottom
	default:
		newX = cos*left - sin*top
		newY = sin*right + cos*top
	}

	absCos := math.Abs(cos)
	absSin := math.Abs(sin)
	return Rect{
		X:      r.X + origin.X + newX,
		Y:      r.Y + origin.Y + newY,
		Width:  r.Width*absCos + r.Height*absSin,
		Height: r.Width*absSin + r.Height*absCos,
	}
}

// ColorTransform carries the per-draw color adjustment: a multiplicative tint
// and additive channel offsets, both in [0, 1] color units.
type ColorTransform struct {
	RMult, GMult, BMult, AMult float64
	ROff, GOff, BOff, AOff     float64
}

// IdentityColorTransform leaves source colors unchanged.
var IdentityColorTransform = ColorTransform{RMult: 1, GMult: 1, BMult: 1, AMult: 1}

// HasMultipliers reports whether any multiplicative component differs from 1.
func (ct ColorTransform) HasMultipliers() bool {
	return ct.RMult != 1 || ct.GMult != 1 || ct.BMult != 1 || ct.AMult != 1
}

// HasOffsets reports whether any additive component is non-zero.
func (ct ColorTransform) HasOffsets() bool {
	return ct.ROff != 0 || ct.GOff != 0 || ct.BOff != 0 || ct.AOff != 0
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                       // additive / lighter
	BlendMultiply                  // multiply (source * destination; only darkens)
	BlendScreen                    // screen (1 - (1-src)*(1-dst); only brightens)
	BlendErase                     // destination-out (punch transparent holes)
	BlendBelow                     // destination-over (draw behind existing content)
	BlendNone                      // opaque copy (skip blending)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendNormal:
		return ebiten.BlendSourceOver
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendErase:
		return ebiten.BlendDestinationOut
	case BlendBelow:
		return ebiten.BlendDestinationOver
	case BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// toRGBA converts a Color to a premultiplied 8-bit color for image fills.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA implements the color.Color interface for image fills.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
