// Command wormvis renders worm simulation output: animations of the body
// outline over the obstacle field, the head track and activity traces.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/banshee-data/wormvis/internal/activity"
	"github.com/banshee-data/wormvis/internal/anim"
	"github.com/banshee-data/wormvis/internal/body"
	"github.com/banshee-data/wormvis/internal/config"
	"github.com/banshee-data/wormvis/internal/db"
	"github.com/banshee-data/wormvis/internal/fsutil"
	"github.com/banshee-data/wormvis/internal/monitoring"
	"github.com/banshee-data/wormvis/internal/obstacle"
	"github.com/banshee-data/wormvis/internal/render"
	"github.com/banshee-data/wormvis/internal/scene"
	"github.com/banshee-data/wormvis/internal/timeutil"
	"github.com/banshee-data/wormvis/internal/trajectory"
	"github.com/banshee-data/wormvis/internal/version"
)

var errUsage = errors.New("usage")

var clock timeutil.Clock = timeutil.RealClock{}

func main() {
	log.SetFlags(log.Ltime)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
			log.Printf("wormvis: %v", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		printUsage(stderr)
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "anim":
		return runAnim(ctx, rest, stderr)
	case "head-pos":
		return runHeadPos(rest, stderr)
	case "act":
		return runAct(rest, stderr)
	case "runs":
		return runRuns(rest, stdout, stderr)
	case "config":
		return runConfig(rest, stdout, stderr)
	case "version":
		fmt.Fprintln(stdout, version.String())
		return nil
	case "help", "-h", "-help", "--help":
		printUsage(stdout)
		return nil
	default:
		printUsage(stderr)
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wormvis <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  anim       render the body outline over the obstacles to a video or GIF")
	fmt.Fprintln(w, "  head-pos   plot the head track over the obstacles (PNG or HTML)")
	fmt.Fprintln(w, "  act        plot activity traces against time")
	fmt.Fprintln(w, "  runs       list recorded render runs")
	fmt.Fprintln(w, "  config     print the effective render config as JSON")
	fmt.Fprintln(w, "  version    print the build version")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'wormvis <command> -h' for command flags.")
}

// rangeFlag parses "min,max" into a scene.Range. It stays nil when unset.
type rangeFlag struct {
	r *scene.Range
}

func (f *rangeFlag) String() string {
	if f == nil || f.r == nil {
		return ""
	}
	return fmt.Sprintf("%g,%g", f.r.Min, f.r.Max)
}

func (f *rangeFlag) Set(s string) error {
	r, err := parseRange(s)
	if err != nil {
		return err
	}
	f.r = &r
	return nil
}

// parseRange parses a comma-separated "min,max" pair.
func parseRange(s string) (scene.Range, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return scene.Range{}, fmt.Errorf("range %q must be min,max", s)
	}
	var vals [2]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return scene.Range{}, fmt.Errorf("invalid float '%s': %w", p, err)
		}
		vals[i] = v
	}
	return scene.Range{Min: vals[0], Max: vals[1]}, nil
}

// intFlag is an optional int. It stays nil when the flag is absent.
type intFlag struct {
	v *int
}

func (f *intFlag) String() string {
	if f == nil || f.v == nil {
		return ""
	}
	return strconv.Itoa(*f.v)
}

func (f *intFlag) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid int '%s': %w", s, err)
	}
	f.v = &v
	return nil
}

// commonFlags are shared by the rendering commands.
type commonFlags struct {
	configPath  string
	dbPath      string
	figureScale float64
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "render config JSON (defaults built in)")
	fs.StringVar(&c.dbPath, "db", "", "record the run in this SQLite ledger")
	fs.Float64Var(&c.figureScale, "figure-scale", 0, "longer figure side in inches (overrides config)")
}

// renderConfig loads the config file, if any, and applies flag overrides.
func (c *commonFlags) renderConfig() (*config.RenderConfig, error) {
	cfg := config.EmptyRenderConfig()
	if c.configPath != "" {
		var err error
		if cfg, err = config.LoadRenderConfig(c.configPath); err != nil {
			return nil, err
		}
	}
	if c.figureScale < 0 {
		return nil, fmt.Errorf("figure-scale must be positive, got %g", c.figureScale)
	}
	if c.figureScale > 0 {
		v := c.figureScale
		cfg.FigureScale = &v
	}
	return cfg, nil
}

// track opens the ledger when -db is set and starts timing the run. The
// returned func records the outcome and closes the ledger.
func (c *commonFlags) track(command string) (*db.RunTracker, func(error) error, error) {
	var ledger *db.DB
	if c.dbPath != "" {
		var err error
		if ledger, err = db.NewDB(c.dbPath); err != nil {
			return nil, nil, fmt.Errorf("open run ledger: %w", err)
		}
	}
	t := db.StartRun(ledger, clock, command)
	finish := func(runErr error) error {
		if err := t.Finish(runErr); err != nil {
			monitoring.Logf("failed to record run %s: %v", t.Run.RunID, err)
		}
		if ledger != nil {
			ledger.Close()
		}
		return runErr
	}
	return t, finish, nil
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func loadObstacles(fsys fsutil.FileSystem, path string) (*obstacle.Field, error) {
	if path == "" {
		return &obstacle.Field{}, nil
	}
	return obstacle.Load(fsys, path)
}

func runAnim(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("anim", stderr)
	var common commonFlags
	common.register(fs)
	input := fs.String("input", "data/run/body.dat", "trajectory file")
	obstacles := fs.String("obstacles", "data/collision_objs.tsv", "obstacle file (empty for none)")
	output := fs.String("output", "data/worm.mp4", "output animation (.mp4, .mkv, .mov, .avi, .webm or .gif)")
	var xr, yr rangeFlag
	fs.Var(&xr, "x-range", "x bounds as min,max (default: obstacle extent)")
	fs.Var(&yr, "y-range", "y bounds as min,max (default: obstacle extent)")
	var frames intFlag
	fs.Var(&frames, "frames", "render only the first N timesteps")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := common.renderConfig()
	if err != nil {
		return err
	}
	tracker, finish, err := common.track("anim")
	if err != nil {
		return err
	}
	tracker.Run.TrajectoryPath = *input
	tracker.Run.ObstaclesPath = *obstacles
	tracker.Run.OutputPath = *output

	fsys := fsutil.OSFileSystem{}
	return finish(func() error {
		traj, err := trajectory.Load(fsys, *input)
		if err != nil {
			return err
		}
		field, err := loadObstacles(fsys, *obstacles)
		if err != nil {
			return err
		}
		vp, err := scene.PlanWithFallback(field, traj, cfg.GetBoundsPadFrac(), xr.r, yr.r)
		if err != nil {
			return err
		}
		enc, err := render.EncoderFor(ctx, *output, cfg, fsys)
		if err != nil {
			return err
		}

		d := anim.NewDriver(render.NewPlotRenderer(enc, render.StyleFromConfig(cfg)), anim.Options{
			Viewport:      vp,
			Obstacles:     field,
			OutputPath:    *output,
			FPS:           cfg.GetFPS(),
			FrameLimit:    frames.v,
			ProgressEvery: cfg.GetProgressEvery(),
		})
		err = d.Run(traj, body.NewThicknessCache(cfg.GetWormRadius()))
		tracker.Run.Frames = d.Rendered()
		return err
	}())
}

func runHeadPos(args []string, stderr io.Writer) error {
	fs := newFlagSet("head-pos", stderr)
	var common commonFlags
	common.register(fs)
	input := fs.String("input", "data/run/body.dat", "trajectory file")
	obstacles := fs.String("obstacles", "data/collision_objs.tsv", "obstacle file (empty for none)")
	output := fs.String("output", "data/head_pos.png", "output plot (.png or .html)")
	var xr, yr rangeFlag
	fs.Var(&xr, "x-range", "x bounds as min,max")
	fs.Var(&yr, "y-range", "y bounds as min,max")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := common.renderConfig()
	if err != nil {
		return err
	}
	tracker, finish, err := common.track("head-pos")
	if err != nil {
		return err
	}
	tracker.Run.TrajectoryPath = *input
	tracker.Run.ObstaclesPath = *obstacles
	tracker.Run.OutputPath = *output

	fsys := fsutil.OSFileSystem{}
	return finish(func() error {
		traj, err := trajectory.Load(fsys, *input)
		if err != nil {
			return err
		}
		field, err := loadObstacles(fsys, *obstacles)
		if err != nil {
			return err
		}
		vp, err := scene.PlanWithFallback(field, traj, cfg.GetBoundsPadFrac(), xr.r, yr.r)
		if err != nil {
			return err
		}

		head := traj.HeadPositions()
		tracker.Run.Frames = len(head)
		style := render.StyleFromConfig(cfg)
		switch ext := strings.ToLower(filepath.Ext(*output)); ext {
		case ".html", ".htm":
			return render.WriteTrackHTML(fsys, *output, "head position: "+filepath.Base(*input), head, field, vp, style)
		case ".png":
			return render.WriteTrackPNG(fsys, *output, head, field, vp, style)
		default:
			return fmt.Errorf("unsupported output extension %q (want .png or .html)", ext)
		}
	}())
}

func runAct(args []string, stderr io.Writer) error {
	fs := newFlagSet("act", stderr)
	var common commonFlags
	common.register(fs)
	input := fs.String("input", "data/run/act.dat", "activity file")
	output := fs.String("output", "data/act.png", "output plot (.png)")
	yLimit := fs.Float64("y-limit", 0, "clamp the y axis to [-L, L] (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := common.renderConfig()
	if err != nil {
		return err
	}
	if *yLimit < 0 {
		return fmt.Errorf("y-limit must be positive, got %g", *yLimit)
	}
	limit := cfg.GetActivityYLimit()
	if *yLimit > 0 {
		limit = *yLimit
	}
	tracker, finish, err := common.track("act")
	if err != nil {
		return err
	}
	tracker.Run.TrajectoryPath = *input
	tracker.Run.OutputPath = *output

	fsys := fsutil.OSFileSystem{}
	return finish(func() error {
		tr, err := activity.Load(fsys, *input)
		if err != nil {
			return err
		}
		tracker.Run.Frames = tr.Len()
		return render.WriteActivityPNG(fsys, *output, tr, limit, render.StyleFromConfig(cfg))
	}())
}

func runRuns(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("runs", stderr)
	dbPath := fs.String("db", "", "run ledger to read")
	limit := fs.Int("limit", 20, "show at most N runs (0 for all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbPath == "" {
		fs.Usage()
		return fmt.Errorf("%w: -db is required", errUsage)
	}

	ledger, err := db.NewDB(*dbPath)
	if err != nil {
		return fmt.Errorf("open run ledger: %w", err)
	}
	defer ledger.Close()

	runs, err := ledger.ListRuns(*limit)
	if err != nil {
		return err
	}
	for i := range runs {
		fmt.Fprintln(stdout, runs[i].String())
	}
	return nil
}

func runConfig(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("config", stderr)
	configPath := fs.String("config", "", "render config JSON to merge over the defaults")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.DefaultRenderConfig()
	if *configPath != "" {
		loaded, err := config.LoadRenderConfig(*configPath)
		if err != nil {
			return err
		}
		data, err := json.Marshal(loaded)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}
