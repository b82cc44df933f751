// Package scene plans the world-space viewport and the equal-aspect figure
// size shared by every rendered frame.
package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/wormvis/internal/obstacle"
	"github.com/banshee-data/wormvis/internal/trajectory"
)

// ErrNoBounds is returned when neither explicit ranges, obstacles nor finite
// trajectory samples can frame the scene.
var ErrNoBounds = errors.New("no bounds available for viewport")

// ErrDegenerate is returned for a viewport with a non-positive or
// non-finite span.
var ErrDegenerate = errors.New("degenerate viewport")

// Range is a closed interval of world coordinates.
type Range struct {
	Min, Max float64
}

// Span returns Max - Min.
func (r Range) Span() float64 { return r.Max - r.Min }

func (r Range) String() string { return fmt.Sprintf("(%g, %g)", r.Min, r.Max) }

// Viewport is the world rectangle shown in every frame.
type Viewport struct {
	X, Y Range
}

// Validate checks that both spans are finite and positive.
func (v Viewport) Validate() error {
	for _, r := range []Range{v.X, v.Y} {
		s := r.Span()
		if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
			return fmt.Errorf("%w: x=%v y=%v", ErrDegenerate, v.X, v.Y)
		}
	}
	return nil
}

// FigureSize scales (width, height) uniformly so the larger side equals
// scalar. The returned ratio always equals the world aspect ratio, so one
// world unit covers the same distance on both axes.
func (v Viewport) FigureSize(scalar float64) (w, h float64) {
	w, h = v.X.Span(), v.Y.Span()
	k := scalar / math.Max(w, h)
	return w * k, h * k
}

// Plan builds the viewport. Explicit ranges are used verbatim; a missing
// range is taken from the min/max of the obstacle box corners.
func Plan(field *obstacle.Field, xr, yr *Range) (Viewport, error) {
	return PlanWithFallback(field, nil, 0, xr, yr)
}

// PlanWithFallback is Plan, except that when the obstacle field is empty a
// missing range comes from the finite extent of traj padded by padFrac of
// its span on each side. A flat fallback axis borrows the other axis's span.
func PlanWithFallback(field *obstacle.Field, traj *trajectory.Trajectory, padFrac float64, xr, yr *Range) (Viewport, error) {
	var vp Viewport
	if xr != nil && yr != nil {
		vp = Viewport{X: *xr, Y: *yr}
		return vp, vp.Validate()
	}

	ox, oy, ok := field.Extent()
	if ok {
		vp = Viewport{X: Range{ox[0], ox[1]}, Y: Range{oy[0], oy[1]}}
	} else {
		if traj == nil {
			return vp, ErrNoBounds
		}
		tx, ty, ok := traj.Extent()
		if !ok {
			return vp, ErrNoBounds
		}
		vp = Viewport{X: pad(Range{tx[0], tx[1]}, padFrac), Y: pad(Range{ty[0], ty[1]}, padFrac)}
		vp = widenFlat(vp)
	}

	if xr != nil {
		vp.X = *xr
	}
	if yr != nil {
		vp.Y = *yr
	}
	return vp, vp.Validate()
}

func pad(r Range, frac float64) Range {
	d := r.Span() * frac
	return Range{r.Min - d, r.Max + d}
}

func widenFlat(vp Viewport) Viewport {
	switch {
	case vp.X.Span() == 0 && vp.Y.Span() > 0:
		vp.X = centred(vp.X, vp.Y.Span())
	case vp.Y.Span() == 0 && vp.X.Span() > 0:
		vp.Y = centred(vp.Y, vp.X.Span())
	}
	return vp
}

func centred(r Range, span float64) Range {
	mid := (r.Min + r.Max) / 2
	return Range{mid - span/2, mid + span/2}
}
