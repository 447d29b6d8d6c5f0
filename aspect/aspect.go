// Keeps a target size proportional to the intrinsic size
// of an image while one of its components is edited.
package aspect

import (
	"math"

	"github.com/benoitkugler/svgpng/svgdim"
)

// Axis identifies the component the user just edited.
type Axis uint8

const (
	Width Axis = iota
	Height
)

func (a Axis) String() string {
	switch a {
	case Width:
		return "width"
	case Height:
		return "height"
	default:
		return "<unknown Axis>"
	}
}

// Other returns the companion axis.
func (a Axis) Other() Axis {
	if a == Width {
		return Height
	}
	return Width
}

// Link returns the companion value of an edit of `edited` to `value`.
// When `locked` is false, or when the intrinsic ratio is not usable,
// `previous` is returned unchanged. So is it when the computed value
// is not finite.
//
// Link never triggers another derivation: callers must write the
// returned value on the companion axis directly.
func Link(intrinsic svgdim.Dimensions, edited Axis, value, previous float64, locked bool) float64 {
	if !locked {
		return previous
	}
	iw, ih := intrinsic.Width, intrinsic.Height
	if iw == 0 || ih == 0 || !finite(iw) || !finite(ih) {
		return previous
	}
	var companion float64
	switch edited {
	case Width:
		companion = math.Round(value * ih / iw)
	case Height:
		companion = math.Round(value * iw / ih)
	default:
		return previous
	}
	if !finite(companion) {
		return previous
	}
	return companion
}

// Fit returns the largest size with the intrinsic ratio contained
// in `bounds`, rounded to integer pixels (at least 1).
// Invalid inputs return `bounds` unchanged.
func Fit(intrinsic, bounds svgdim.Dimensions) svgdim.Dimensions {
	if !intrinsic.Valid() || !bounds.Valid() {
		return bounds
	}
	scale := math.Min(bounds.Width/intrinsic.Width, bounds.Height/intrinsic.Height)
	return svgdim.Dimensions{
		Width:  math.Max(1, math.Round(intrinsic.Width*scale)),
		Height: math.Max(1, math.Round(intrinsic.Height*scale)),
	}
}

func finite(f float64) bool { return !math.IsInf(f, 0) && !math.IsNaN(f) }
