// Package activity reads per-channel activation traces recorded alongside a
// simulation run.
package activity

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/wormvis/internal/fsutil"
	"github.com/banshee-data/wormvis/internal/textgrid"
	"github.com/banshee-data/wormvis/internal/vizerr"
)

// Traces holds one time column and any number of value channels sampled at
// the same instants. Channels[c][i] is channel c at Time[i].
type Traces struct {
	Source   string
	Time     []float64
	Channels [][]float64
}

// Len returns the number of samples.
func (t *Traces) Len() int { return len(t.Time) }

// NumChannels returns the number of value channels.
func (t *Traces) NumChannels() int { return len(t.Channels) }

// TimeRange returns the first and last sample time.
func (t *Traces) TimeRange() (lo, hi float64) {
	return floats.Min(t.Time), floats.Max(t.Time)
}

// Load reads an activity file from fsys. See Parse for the format.
func Load(fsys fsutil.FileSystem, path string) (*Traces, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open activity: %w", err)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads rows of "t v1 v2 ... vk". Every row must have the same number
// of columns, with at least one channel.
func Parse(r io.Reader, name string) (*Traces, error) {
	tr := &Traces{Source: name}
	cols := -1

	err := textgrid.Scan(r, name, func(line int, vals []float64) error {
		if cols < 0 {
			if len(vals) < 2 {
				return vizerr.Malformed(name, line, "need a time column and at least one channel, got %d columns", len(vals))
			}
			cols = len(vals)
			tr.Channels = make([][]float64, cols-1)
		} else if len(vals) != cols {
			return vizerr.Malformed(name, line, "row has %d columns, expected %d", len(vals), cols)
		}

		tr.Time = append(tr.Time, vals[0])
		for c, v := range vals[1:] {
			tr.Channels[c] = append(tr.Channels[c], v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if tr.Len() == 0 {
		return nil, vizerr.Empty(name, "samples")
	}
	return tr, nil
}
