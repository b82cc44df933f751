package trajectory

import (
	"fmt"
	"io"

	"github.com/banshee-data/wormvis/internal/fsutil"
	"github.com/banshee-data/wormvis/internal/textgrid"
	"github.com/banshee-data/wormvis/internal/vizerr"
)

// Load reads a trajectory file from fsys. See Parse for the format.
func Load(fsys fsutil.FileSystem, path string) (*Trajectory, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trajectory: %w", err)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads whitespace-delimited rows of the form
//
//	<ignored> x0 y0 phi0 x1 y1 phi1 ...
//
// one row per timestep. Column 0 (a timestamp or id) is dropped. Every row
// must carry the same whole number of (x, y, phi) triples.
func Parse(r io.Reader, name string) (*Trajectory, error) {
	var frames []Frame
	segments := -1

	err := textgrid.Scan(r, name, func(line int, vals []float64) error {
		data := vals[1:]
		if len(data)%3 != 0 {
			return vizerr.Malformed(name, line, "%d pose columns is not a whole number of (x, y, phi) triples", len(data))
		}
		n := len(data) / 3
		if segments < 0 {
			if n == 0 {
				return vizerr.Empty(name, "segments")
			}
			segments = n
		} else if n != segments {
			return vizerr.Malformed(name, line, "row has %d segments, expected %d", n, segments)
		}

		frame := make(Frame, n)
		for s := range frame {
			frame[s] = Pose{X: data[3*s], Y: data[3*s+1], Phi: data[3*s+2]}
		}
		frames = append(frames, frame)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return New(name, frames)
}
