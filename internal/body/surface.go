package body

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/wormvis/internal/trajectory"
)

// ErrTableMismatch is returned when a thickness table does not cover the
// trajectory's segment count.
var ErrTableMismatch = errors.New("thickness table length does not match segment count")

// Curve is one boundary edge at one timestep, one point per segment.
type Curve []trajectory.Point

// Surface holds the projected dorsal and ventral curves of every timestep.
// Dorsal[i] and Ventral[i] belong to frame i.
type Surface struct {
	Dorsal  []Curve
	Ventral []Curve
}

// Len returns the number of projected frames.
func (s *Surface) Len() int { return len(s.Dorsal) }

// ProjectFrame offsets every pose of f by its segment radius along the
// heading vector (cos phi, sin phi):
//
//	dorsal  = (x + r cos phi, y + r sin phi)
//	ventral = (x - r cos phi, y - r sin phi)
//
// The offset runs along the heading itself, not its normal. NaN poses give
// NaN points.
func ProjectFrame(f trajectory.Frame, table ThicknessTable) (dorsal, ventral Curve, err error) {
	if len(f) != table.Len() {
		return nil, nil, fmt.Errorf("%w: table %d, frame %d", ErrTableMismatch, table.Len(), len(f))
	}
	dorsal = make(Curve, len(f))
	ventral = make(Curve, len(f))
	for s, p := range f {
		r := table.At(s)
		dx := r * math.Cos(p.Phi)
		dy := r * math.Sin(p.Phi)
		dorsal[s] = trajectory.Point{X: p.X + dx, Y: p.Y + dy}
		ventral[s] = trajectory.Point{X: p.X - dx, Y: p.Y - dy}
	}
	return dorsal, ventral, nil
}

// Project runs ProjectFrame over every timestep of traj.
func Project(traj *trajectory.Trajectory, table ThicknessTable) (*Surface, error) {
	n := traj.Timesteps()
	s := &Surface{Dorsal: make([]Curve, n), Ventral: make([]Curve, n)}
	for t, f := range traj.Frames {
		d, v, err := ProjectFrame(f, table)
		if err != nil {
			return nil, fmt.Errorf("timestep %d: %w", t, err)
		}
		s.Dorsal[t], s.Ventral[t] = d, v
	}
	return s, nil
}
