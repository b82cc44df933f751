package anim

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/wormvis/internal/body"
	"github.com/banshee-data/wormvis/internal/obstacle"
	"github.com/banshee-data/wormvis/internal/scene"
	"github.com/banshee-data/wormvis/internal/testutil"
	"github.com/banshee-data/wormvis/internal/trajectory"
	"github.com/banshee-data/wormvis/internal/vizerr"
)

// recorder is a Renderer that records every call.
type recorder struct {
	calls     []string
	frames    []FrameUpdate
	setups    int
	closes    int
	path      string
	fps       int
	failFrame int
	failFinal error
}

func newRecorder() *recorder { return &recorder{failFrame: -1} }

func (r *recorder) Setup(vp scene.Viewport, field *obstacle.Field) error {
	r.calls = append(r.calls, "setup")
	r.setups++
	return nil
}

func (r *recorder) DrawFrame(u FrameUpdate) error {
	r.calls = append(r.calls, "frame")
	if u.Index == r.failFrame {
		return vizerr.Sink("encode frame", errors.New("disk full"))
	}
	r.frames = append(r.frames, u)
	return nil
}

func (r *recorder) Finalize(path string, fps int) error {
	r.calls = append(r.calls, "finalize")
	r.path, r.fps = path, fps
	return r.failFinal
}

func (r *recorder) Close() error {
	r.calls = append(r.calls, "close")
	r.closes++
	return nil
}

func straight(t *testing.T, timesteps, segments int) *trajectory.Trajectory {
	t.Helper()
	traj, err := trajectory.Parse(strings.NewReader(testutil.StraightWorm(timesteps, segments)), "body.dat")
	require.NoError(t, err)
	return traj
}

func testOptions() Options {
	return Options{
		Viewport:   scene.Viewport{X: scene.Range{Min: 0, Max: 10}, Y: scene.Range{Min: 0, Max: 10}},
		Obstacles:  &obstacle.Field{},
		OutputPath: "out.mp4",
		FPS:        30,
	}
}

func intPtr(v int) *int { return &v }

func TestFrames_OrderAndLabels(t *testing.T) {
	traj := straight(t, 4, 3)
	surf, err := body.Project(traj, body.NewThicknessTable(3, body.DefaultWormRadius))
	require.NoError(t, err)

	var got []int
	for u := range Frames(surf) {
		got = append(got, u.Index)
		assert.Equal(t, 4, u.Total)
		assert.Equal(t, Label(u.Index), u.Label)
		assert.Len(t, u.Dorsal, 3)
		assert.Len(t, u.Ventral, 3)
	}
	assert.Equal(t, []int{0, 1, 2, 3}, got)
	assert.Equal(t, "frame   12", Label(12))

	// Early break stops the sequence.
	count := 0
	for range Frames(surf) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestDriver_Run_StrictOrder(t *testing.T) {
	rec := newRecorder()
	d := NewDriver(rec, testOptions())

	require.NoError(t, d.Run(straight(t, 5, 4), body.NewThicknessCache(body.DefaultWormRadius)))

	assert.Equal(t, StateFinalized, d.State())
	assert.Equal(t, 5, d.Rendered())
	assert.Equal(t, 1, rec.setups)
	assert.Equal(t, 1, rec.closes)
	assert.Equal(t, []string{"setup", "frame", "frame", "frame", "frame", "frame", "finalize", "close"}, rec.calls)
	for i, u := range rec.frames {
		assert.Equal(t, i, u.Index)
	}
	assert.Equal(t, "out.mp4", rec.path)
	assert.Equal(t, 30, rec.fps)
}

func TestDriver_Run_FrameLimit(t *testing.T) {
	cases := []struct {
		limit int
		want  int
	}{
		{1, 1},
		{3, 3},
		{10, 10},
		{50, 10},
	}
	for _, tc := range cases {
		rec := newRecorder()
		opts := testOptions()
		opts.FrameLimit = intPtr(tc.limit)
		d := NewDriver(rec, opts)

		require.NoError(t, d.Run(straight(t, 10, 2), body.NewThicknessCache(body.DefaultWormRadius)))
		assert.Len(t, rec.frames, tc.want, "limit %d", tc.limit)
		assert.Equal(t, tc.want-1, rec.frames[len(rec.frames)-1].Index)
	}
}

func TestDriver_Run_ZeroFrameLimit(t *testing.T) {
	rec := newRecorder()
	opts := testOptions()
	opts.FrameLimit = intPtr(0)
	d := NewDriver(rec, opts)

	err := d.Run(straight(t, 3, 2), body.NewThicknessCache(body.DefaultWormRadius))
	assert.ErrorIs(t, err, vizerr.ErrEmptyInput)
	assert.Equal(t, StateFailed, d.State())
	assert.Zero(t, rec.setups)
	assert.Equal(t, 1, rec.closes)
}

func TestDriver_Run_SinkFailureStops(t *testing.T) {
	rec := newRecorder()
	rec.failFrame = 2
	d := NewDriver(rec, testOptions())

	err := d.Run(straight(t, 6, 2), body.NewThicknessCache(body.DefaultWormRadius))
	require.Error(t, err)
	assert.ErrorIs(t, err, vizerr.ErrRenderSink)
	assert.Contains(t, err.Error(), "frame 2")
	assert.Equal(t, StateFailed, d.State())
	assert.Equal(t, 2, d.Rendered())
	assert.NotContains(t, rec.calls, "finalize")
	assert.Equal(t, 1, rec.closes)
}

func TestDriver_Run_FinalizeFailure(t *testing.T) {
	rec := newRecorder()
	rec.failFinal = vizerr.Sink("ffmpeg", errors.New("exit status 1"))
	d := NewDriver(rec, testOptions())

	err := d.Run(straight(t, 2, 2), body.NewThicknessCache(body.DefaultWormRadius))
	assert.ErrorIs(t, err, vizerr.ErrRenderSink)
	assert.Equal(t, StateFailed, d.State())
	assert.Equal(t, 1, rec.closes)
}

func TestDriver_InvalidViewport(t *testing.T) {
	rec := newRecorder()
	opts := testOptions()
	opts.Viewport.X = scene.Range{Min: 1, Max: 1}
	d := NewDriver(rec, opts)

	err := d.Run(straight(t, 2, 2), body.NewThicknessCache(body.DefaultWormRadius))
	assert.ErrorIs(t, err, scene.ErrDegenerate)
	assert.Zero(t, rec.setups)
}

func TestDriver_OutOfOrder(t *testing.T) {
	traj := straight(t, 2, 2)
	surf, err := body.Project(traj, body.NewThicknessTable(2, body.DefaultWormRadius))
	require.NoError(t, err)

	d := NewDriver(newRecorder(), testOptions())
	assert.ErrorIs(t, d.Render(surf), ErrState)
	assert.ErrorIs(t, d.Finalize(), ErrState)

	require.NoError(t, d.Setup())
	assert.ErrorIs(t, d.Setup(), ErrState)
	require.NoError(t, d.Render(surf))
	assert.ErrorIs(t, d.Render(surf), ErrState)
	require.NoError(t, d.Finalize())
	assert.ErrorIs(t, d.Finalize(), ErrState)
	assert.Equal(t, "finalized", d.State().String())
}
