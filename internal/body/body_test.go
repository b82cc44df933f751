package body

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/wormvis/internal/trajectory"
)

const tol = 1e-15

func TestThicknessTable_LengthAndSymmetry(t *testing.T) {
	for _, n := range []int{1, 2, 3, 10, 49, 50, 100} {
		table := NewThicknessTable(n, DefaultWormRadius)
		require.Equal(t, n, table.Len(), "n=%d", n)
		for i := 0; i < n; i++ {
			assert.InDelta(t, table.At(i), table.At(n-1-i), 1e-12, "n=%d i=%d", n, i)
			assert.False(t, math.IsNaN(table.At(i)), "n=%d i=%d is NaN", n, i)
		}
	}
}

func TestThicknessTable_MatchesRadius(t *testing.T) {
	n := 25
	table := NewThicknessTable(n, DefaultWormRadius)
	for i := 0; i < n; i++ {
		assert.InDelta(t, Radius(i, n), table.At(i), 1e-12, "segment %d", i)
	}
}

func TestRadius_ThickestMidBody(t *testing.T) {
	n := 3
	assert.InDelta(t, DefaultWormRadius/2, Radius(1, n), tol)

	u := 1.5 / 1.7
	wantEnd := DefaultWormRadius / 2 * math.Sqrt(1-u*u)
	assert.InDelta(t, wantEnd, Radius(0, n), 1e-12)
	assert.InDelta(t, wantEnd, Radius(2, n), 1e-12)

	assert.Greater(t, Radius(50, 101), Radius(0, 101))
	assert.Greater(t, Radius(50, 101), Radius(100, 101))
}

func TestRadiusFor_ScalesLinearly(t *testing.T) {
	assert.InDelta(t, 2*RadiusFor(3, 10, 1.0), RadiusFor(3, 10, 2.0), 1e-12)
}

func TestThicknessTable_Values_IsCopy(t *testing.T) {
	table := NewThicknessTable(4, 1)
	v := table.Values()
	v[0] = 99
	assert.NotEqual(t, 99.0, table.At(0))
}

func TestThicknessCache(t *testing.T) {
	c := NewThicknessCache(DefaultWormRadius)
	a := c.Table(12)
	b := c.Table(12)
	require.Equal(t, 12, a.Len())
	assert.Same(t, &a.radii[0], &b.radii[0], "second lookup should reuse the table")
	assert.Equal(t, 5, c.Table(5).Len())
}

func TestProjectFrame_StraightWorm(t *testing.T) {
	traj, err := trajectory.Parse(strings.NewReader("0 0 0 0 1 0 0 2 0 0\n1 0 0 0 1 0 0 2 0 0\n"), "body.dat")
	require.NoError(t, err)

	table := NewThicknessTable(traj.Segments(), DefaultWormRadius)
	surf, err := Project(traj, table)
	require.NoError(t, err)
	require.Equal(t, 2, surf.Len())

	for s, x := range []float64{0, 1, 2} {
		r := table.At(s)
		assert.InDelta(t, x+r, surf.Dorsal[0][s].X, tol)
		assert.InDelta(t, x-r, surf.Ventral[0][s].X, tol)
		assert.Equal(t, 0.0, surf.Dorsal[0][s].Y)
		assert.Equal(t, 0.0, surf.Ventral[0][s].Y)
	}
}

func TestProjectFrame_OffsetAlongHeading(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	n := 20
	table := NewThicknessTable(n, DefaultWormRadius)

	for trial := 0; trial < 50; trial++ {
		frame := make(trajectory.Frame, n)
		for s := range frame {
			frame[s] = trajectory.Pose{
				X:   rng.Float64() * 1e-3,
				Y:   rng.Float64() * 1e-3,
				Phi: (rng.Float64() - 0.5) * 4 * math.Pi,
			}
		}
		d, v, err := ProjectFrame(frame, table)
		require.NoError(t, err)

		for s, p := range frame {
			r := table.At(s)
			assert.InDelta(t, 2*r*math.Cos(p.Phi), d[s].X-v[s].X, 1e-17)
			assert.InDelta(t, 2*r*math.Sin(p.Phi), d[s].Y-v[s].Y, 1e-17)
			assert.InDelta(t, p.X, (d[s].X+v[s].X)/2, 1e-17)
			assert.InDelta(t, p.Y, (d[s].Y+v[s].Y)/2, 1e-17)
		}
	}
}

func TestProjectFrame_NaNPropagates(t *testing.T) {
	frame := trajectory.Frame{
		{X: math.NaN(), Y: 0, Phi: 0},
		{X: 1, Y: 1, Phi: math.NaN()},
	}
	d, v, err := ProjectFrame(frame, NewThicknessTable(2, DefaultWormRadius))
	require.NoError(t, err)

	assert.True(t, math.IsNaN(d[0].X))
	assert.True(t, math.IsNaN(v[0].X))
	assert.False(t, math.IsNaN(d[0].Y))

	assert.True(t, math.IsNaN(d[1].X))
	assert.True(t, math.IsNaN(d[1].Y))
	assert.True(t, math.IsNaN(v[1].X))
	assert.True(t, math.IsNaN(v[1].Y))
}

func TestProjectFrame_TableMismatch(t *testing.T) {
	_, _, err := ProjectFrame(make(trajectory.Frame, 3), NewThicknessTable(4, 1))
	assert.ErrorIs(t, err, ErrTableMismatch)

	traj, err := trajectory.New("mem", []trajectory.Frame{make(trajectory.Frame, 3)})
	require.NoError(t, err)
	_, err = Project(traj, NewThicknessTable(2, 1))
	assert.ErrorIs(t, err, ErrTableMismatch)
}

func TestProjectFrame_CurvesNotAliased(t *testing.T) {
	frame := trajectory.Frame{{X: 1, Y: 2, Phi: 0}}
	table := NewThicknessTable(1, 1)
	d1, _, err := ProjectFrame(frame, table)
	require.NoError(t, err)
	d2, _, err := ProjectFrame(frame, table)
	require.NoError(t, err)

	d1[0].X = 42
	assert.NotEqual(t, 42.0, d2[0].X)
}
