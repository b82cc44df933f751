package anim

import (
	"errors"
	"fmt"

	"github.com/banshee-data/wormvis/internal/body"
	"github.com/banshee-data/wormvis/internal/monitoring"
	"github.com/banshee-data/wormvis/internal/obstacle"
	"github.com/banshee-data/wormvis/internal/scene"
	"github.com/banshee-data/wormvis/internal/trajectory"
)

var logf = monitoring.Component("anim")

// Renderer is the rendering sink. Setup is called once before the first
// frame and draws everything static. DrawFrame receives frames strictly in
// index order. Finalize writes the finished animation to path; Close
// releases resources and is always called, after Finalize or on failure.
type Renderer interface {
	Setup(vp scene.Viewport, field *obstacle.Field) error
	DrawFrame(u FrameUpdate) error
	Finalize(path string, fps int) error
	Close() error
}

// State is the lifecycle position of a Driver.
type State int

const (
	StateSetup State = iota
	StateRendering
	StateFinalized
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StateRendering:
		return "rendering"
	case StateFinalized:
		return "finalized"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrState is returned when a Driver method is called out of order.
var ErrState = errors.New("animation driver used out of order")

// Options parameterise one rendering session.
type Options struct {
	Viewport   scene.Viewport
	Obstacles  *obstacle.Field
	OutputPath string
	FPS        int

	// FrameLimit, when set, keeps only the first *FrameLimit timesteps.
	FrameLimit *int

	// ProgressEvery logs progress every N frames; 0 logs only the last.
	ProgressEvery int
}

// Driver renders one animation. It is single use.
type Driver struct {
	r        Renderer
	opts     Options
	state    State
	setup    bool
	rendered int
}

// NewDriver returns a Driver in StateSetup.
func NewDriver(r Renderer, opts Options) *Driver {
	return &Driver{r: r, opts: opts, state: StateSetup}
}

// State returns the current lifecycle state.
func (d *Driver) State() State { return d.state }

// Rendered returns the number of frames handed to the renderer.
func (d *Driver) Rendered() int { return d.rendered }

// Setup validates the viewport and draws the static obstacle overlay once.
func (d *Driver) Setup() error {
	if d.state != StateSetup || d.setup {
		return fmt.Errorf("%w: setup in state %s", ErrState, d.state)
	}
	if err := d.opts.Viewport.Validate(); err != nil {
		return d.fail(err)
	}
	logf("positional bounds:\tx=%v y=%v", d.opts.Viewport.X, d.opts.Viewport.Y)
	if err := d.r.Setup(d.opts.Viewport, d.opts.Obstacles); err != nil {
		return d.fail(fmt.Errorf("renderer setup: %w", err))
	}
	d.setup = true
	logf("finished setup")
	return nil
}

// Render hands every frame of s to the renderer in timestep order.
func (d *Driver) Render(s *body.Surface) error {
	if d.state != StateSetup || !d.setup {
		return fmt.Errorf("%w: render in state %s", ErrState, d.state)
	}
	d.state = StateRendering

	progress := monitoring.NewProgress("[anim] frame", s.Len(), d.opts.ProgressEvery)
	for u := range Frames(s) {
		if err := d.r.DrawFrame(u); err != nil {
			return d.fail(fmt.Errorf("frame %d: %w", u.Index, err))
		}
		d.rendered++
		progress.Step(u.Index)
	}
	return nil
}

// Finalize flushes the frames to OutputPath and releases the renderer.
func (d *Driver) Finalize() error {
	if d.state != StateRendering {
		return fmt.Errorf("%w: finalize in state %s", ErrState, d.state)
	}
	logf("saving %d frames to `%s`", d.rendered, d.opts.OutputPath)
	if err := d.r.Finalize(d.opts.OutputPath, d.opts.FPS); err != nil {
		return d.fail(err)
	}
	d.state = StateFinalized
	if err := d.r.Close(); err != nil {
		return fmt.Errorf("renderer close: %w", err)
	}
	logf("done saving")
	return nil
}

// Run truncates traj to the frame limit, projects it with the cached
// thickness table and drives Setup, Render and Finalize.
func (d *Driver) Run(traj *trajectory.Trajectory, cache *body.ThicknessCache) error {
	if d.opts.FrameLimit != nil {
		var err error
		if traj, err = traj.Prefix(*d.opts.FrameLimit); err != nil {
			return d.fail(err)
		}
	}
	surf, err := body.Project(traj, cache.Table(traj.Segments()))
	if err != nil {
		return d.fail(err)
	}
	if err := d.Setup(); err != nil {
		return err
	}
	if err := d.Render(surf); err != nil {
		return err
	}
	return d.Finalize()
}

func (d *Driver) fail(err error) error {
	d.state = StateFailed
	if cerr := d.r.Close(); cerr != nil {
		logf("renderer close after failure: %v", cerr)
	}
	return err
}
