// Package body turns a centerline trajectory into the dorsal and ventral
// outline of the worm body.
package body

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// DefaultWormRadius is the body radius in metres.
const DefaultWormRadius = 80e-6

// edgeWidening keeps the normalized offset of the end segments strictly
// inside (-1, 1) so arccos stays defined.
const edgeWidening = 0.2

// Radius returns the local body radius of segment i out of n using
// DefaultWormRadius.
func Radius(i, n int) float64 {
	return RadiusFor(i, n, DefaultWormRadius)
}

// RadiusFor returns the local body radius of segment i out of n for a worm
// of the given radius. The profile is widest mid-body and tapers toward the
// head and tail:
//
//	r(i) = wormRadius/2 * |sin(arccos(u))|,  u = (p_i - n/2) / (n/2 + 0.2)
//
// where p_i are n points spread evenly over [0, n].
func RadiusFor(i, n int, wormRadius float64) float64 {
	var p float64
	if n > 1 {
		p = float64(n) / float64(n-1) * float64(i)
	}
	return profile(p, n, wormRadius)
}

func profile(p float64, n int, wormRadius float64) float64 {
	half := float64(n) / 2
	u := (p - half) / (half + edgeWidening)
	return wormRadius / 2 * math.Abs(math.Sin(math.Acos(u)))
}

// ThicknessTable holds the per-segment radii for one segment count. It is
// immutable once built and safe to share across frames.
type ThicknessTable struct {
	radii []float64
}

// NewThicknessTable evaluates the profile for every segment of an n-segment
// worm.
func NewThicknessTable(n int, wormRadius float64) ThicknessTable {
	if n <= 0 {
		return ThicknessTable{}
	}
	pos := make([]float64, n)
	if n > 1 {
		floats.Span(pos, 0, float64(n))
	}
	radii := make([]float64, n)
	for i, p := range pos {
		radii[i] = profile(p, n, wormRadius)
	}
	return ThicknessTable{radii: radii}
}

// Len returns the number of segments covered.
func (t ThicknessTable) Len() int { return len(t.radii) }

// At returns the radius of segment i.
func (t ThicknessTable) At(i int) float64 { return t.radii[i] }

// Values returns a copy of the radii.
func (t ThicknessTable) Values() []float64 {
	return append([]float64(nil), t.radii...)
}

// ThicknessCache builds each segment count's table once.
type ThicknessCache struct {
	mu         sync.Mutex
	wormRadius float64
	tables     map[int]ThicknessTable
}

// NewThicknessCache returns a cache for worms of the given radius.
func NewThicknessCache(wormRadius float64) *ThicknessCache {
	return &ThicknessCache{wormRadius: wormRadius, tables: make(map[int]ThicknessTable)}
}

// Table returns the table for n segments, computing it on first use.
func (c *ThicknessCache) Table(n int) ThicknessTable {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.tables[n]; ok {
		return t
	}
	t := NewThicknessTable(n, c.wormRadius)
	c.tables[n] = t
	return t
}
