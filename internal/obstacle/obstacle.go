// Package obstacle holds the static collision geometry drawn under the worm.
package obstacle

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/wormvis/internal/fsutil"
	"github.com/banshee-data/wormvis/internal/textgrid"
	"github.com/banshee-data/wormvis/internal/trajectory"
	"github.com/banshee-data/wormvis/internal/vizerr"
)

// Box is an axis-aligned rectangle given by two corners.
type Box struct {
	Min, Max trajectory.Point
}

// Width returns Max.X - Min.X.
func (b Box) Width() float64 { return b.Max.X - b.Min.X }

// Height returns Max.Y - Min.Y.
func (b Box) Height() float64 { return b.Max.Y - b.Min.Y }

// Vector is the auxiliary tuple stored with each box. Its meaning belongs to
// the simulator; it is only passed through.
type Vector []float64

// Field is the set of obstacles. Boxes[i] and Vectors[i] describe the same
// obstacle.
type Field struct {
	Boxes   []Box
	Vectors []Vector
}

// Len returns the number of obstacles. A nil Field is empty.
func (f *Field) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Boxes)
}

// Add appends one obstacle.
func (f *Field) Add(b Box, v Vector) {
	f.Boxes = append(f.Boxes, b)
	f.Vectors = append(f.Vectors, v)
}

// Extent returns the min/max over all box corners in x and y. ok is false for
// an empty field.
func (f *Field) Extent() (xr, yr [2]float64, ok bool) {
	if f == nil || len(f.Boxes) == 0 {
		return xr, yr, false
	}
	xs := make([]float64, 0, 2*len(f.Boxes))
	ys := make([]float64, 0, 2*len(f.Boxes))
	for _, b := range f.Boxes {
		xs = append(xs, b.Min.X, b.Max.X)
		ys = append(ys, b.Min.Y, b.Max.Y)
	}
	return [2]float64{floats.Min(xs), floats.Max(xs)}, [2]float64{floats.Min(ys), floats.Max(ys)}, true
}

// Load reads an obstacle file from fsys. See Parse for the format.
func Load(fsys fsutil.FileSystem, path string) (*Field, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obstacles: %w", err)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads rows of the form
//
//	x_min y_min x_max y_max v0 v1 ...
//
// Columns after the fourth form the obstacle's vector. An empty file yields
// an empty Field.
func Parse(r io.Reader, name string) (*Field, error) {
	field := &Field{}
	err := textgrid.Scan(r, name, func(line int, vals []float64) error {
		if len(vals) < 4 {
			return vizerr.Malformed(name, line, "need 4 corner columns, got %d", len(vals))
		}
		box := Box{
			Min: trajectory.Point{X: vals[0], Y: vals[1]},
			Max: trajectory.Point{X: vals[2], Y: vals[3]},
		}
		field.Add(box, append(Vector{}, vals[4:]...))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return field, nil
}
