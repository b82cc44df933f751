// Package trajectory holds the per-segment centerline poses of a simulated
// worm over time.
package trajectory

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/wormvis/internal/vizerr"
)

// Pose is the position and heading (radians) of one body segment. Missing
// samples are NaN and are carried through unchanged.
type Pose struct {
	X, Y, Phi float64
}

// Point is a 2D world coordinate.
type Point struct {
	X, Y float64
}

// Frame is the centerline at one timestep, one Pose per segment, head first.
type Frame []Pose

// Trajectory is an ordered sequence of frames. Frames[i] is timestep i and
// every frame has the same segment count.
type Trajectory struct {
	Source string
	Frames []Frame
}

// New validates frames and wraps them in a Trajectory.
func New(source string, frames []Frame) (*Trajectory, error) {
	if len(frames) == 0 {
		return nil, vizerr.Empty(source, "timesteps")
	}
	n := len(frames[0])
	if n == 0 {
		return nil, vizerr.Empty(source, "segments")
	}
	for i, f := range frames {
		if len(f) != n {
			return nil, vizerr.Malformed(source, 0, "timestep %d has %d segments, expected %d", i, len(f), n)
		}
	}
	return &Trajectory{Source: source, Frames: frames}, nil
}

// Timesteps returns the number of frames.
func (t *Trajectory) Timesteps() int { return len(t.Frames) }

// Segments returns the per-frame segment count.
func (t *Trajectory) Segments() int {
	if len(t.Frames) == 0 {
		return 0
	}
	return len(t.Frames[0])
}

// Prefix returns the first n frames as a new Trajectory sharing the pose
// storage. n larger than Timesteps returns every frame; n < 1 is an empty
// input error.
func (t *Trajectory) Prefix(n int) (*Trajectory, error) {
	if n < 1 {
		return nil, fmt.Errorf("frame limit %d: %w", n, vizerr.ErrEmptyInput)
	}
	if n >= len(t.Frames) {
		return t, nil
	}
	return &Trajectory{Source: t.Source, Frames: t.Frames[:n:n]}, nil
}

// HeadPositions returns the position of segment 0 at every timestep in order.
func (t *Trajectory) HeadPositions() []Point {
	pts := make([]Point, len(t.Frames))
	for i, f := range t.Frames {
		pts[i] = Point{X: f[0].X, Y: f[0].Y}
	}
	return pts
}

// Extent returns the min/max of every finite x and y across all poses. ok is
// false when no finite coordinate exists.
func (t *Trajectory) Extent() (xr, yr [2]float64, ok bool) {
	xs := make([]float64, 0, t.Timesteps()*t.Segments())
	ys := make([]float64, 0, cap(xs))
	for _, f := range t.Frames {
		for _, p := range f {
			if isFinite(p.X) {
				xs = append(xs, p.X)
			}
			if isFinite(p.Y) {
				ys = append(ys, p.Y)
			}
		}
	}
	if len(xs) == 0 || len(ys) == 0 {
		return xr, yr, false
	}
	xr = [2]float64{floats.Min(xs), floats.Max(xs)}
	yr = [2]float64{floats.Min(ys), floats.Max(ys)}
	return xr, yr, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
