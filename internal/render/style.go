// Package render rasterizes worm bodies, head tracks and activity traces with
// gonum/plot and encodes animation frames to video or GIF.
package render

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/wormvis/internal/config"
	"github.com/banshee-data/wormvis/internal/monitoring"
	"github.com/banshee-data/wormvis/internal/obstacle"
	"github.com/banshee-data/wormvis/internal/scene"
	"github.com/banshee-data/wormvis/internal/trajectory"
	"github.com/banshee-data/wormvis/internal/units"
)

var logf = monitoring.Component("render")

// Style is the visual configuration shared by every plot.
type Style struct {
	Dorsal   color.Color
	Ventral  color.Color
	Head     color.Color
	Obstacle color.Color

	LineWidth   vg.Length
	Units       string  // length units on the axes
	FigureScale float64 // inches on the longer side
	DPI         float64
}

// StyleFromConfig builds a Style from a render config.
func StyleFromConfig(cfg *config.RenderConfig) Style {
	return Style{
		Dorsal:      cfg.GetDorsalColor(),
		Ventral:     cfg.GetVentralColor(),
		Head:        cfg.GetVentralColor(),
		Obstacle:    cfg.GetObstacleColor(),
		LineWidth:   vg.Points(cfg.GetLineWidthPt()),
		Units:       cfg.GetLengthUnits(),
		FigureScale: cfg.GetFigureScale(),
		DPI:         cfg.GetDPI(),
	}
}

// DefaultStyle is StyleFromConfig of an empty config.
func DefaultStyle() Style {
	return StyleFromConfig(config.EmptyRenderConfig())
}

func (s Style) scale() float64 { return units.LengthScale(s.Units) }

func (s Style) dpi() int { return int(math.Round(s.DPI)) }

func (s Style) line(c color.Color) draw.LineStyle {
	return draw.LineStyle{Color: c, Width: s.LineWidth}
}

// figure returns the canvas size for vp: the longer side is FigureScale
// inches and the aspect ratio follows the viewport.
func (s Style) figure(vp scene.Viewport) (w, h vg.Length) {
	wIn, hIn := vp.FigureSize(s.FigureScale)
	return vg.Length(wIn) * vg.Inch, vg.Length(hIn) * vg.Inch
}

// newAxes returns an untitled plot with length-labelled axes.
func newAxes(s Style) *plot.Plot {
	p := plot.New()
	label := units.LengthLabel(s.Units)
	p.X.Label.Text = fmt.Sprintf("x (%s)", label)
	p.Y.Label.Text = fmt.Sprintf("y (%s)", label)
	return p
}

// addObstacles draws every box of field as a filled rectangle.
func addObstacles(p *plot.Plot, field *obstacle.Field, s Style) error {
	if field == nil {
		return nil
	}
	k := s.scale()
	for i, b := range field.Boxes {
		poly, err := plotter.NewPolygon(plotter.XYs{
			{X: b.Min.X * k, Y: b.Min.Y * k},
			{X: b.Max.X * k, Y: b.Min.Y * k},
			{X: b.Max.X * k, Y: b.Max.Y * k},
			{X: b.Min.X * k, Y: b.Max.Y * k},
		})
		if err != nil {
			return fmt.Errorf("obstacle %d: %w", i, err)
		}
		poly.Color = s.Obstacle
		poly.LineStyle = s.line(s.Obstacle)
		p.Add(poly)
	}
	return nil
}

// setViewport fixes the axis ranges to vp. It must run after every Add,
// which would otherwise widen the ranges to the data.
func setViewport(p *plot.Plot, vp scene.Viewport, k float64) {
	p.X.Min, p.X.Max = vp.X.Min*k, vp.X.Max*k
	p.Y.Min, p.Y.Max = vp.Y.Min*k, vp.Y.Max*k
}

// equalAspect widens one axis range so a unit of x and a unit of y span the
// same length on the data area of c.
func equalAspect(p *plot.Plot, c draw.Canvas) {
	da := p.DataCanvas(c)
	w := float64(da.Max.X - da.Min.X)
	h := float64(da.Max.Y - da.Min.Y)
	sx := p.X.Max - p.X.Min
	sy := p.Y.Max - p.Y.Min
	if w <= 0 || h <= 0 || sx <= 0 || sy <= 0 {
		return
	}
	if sx/sy > w/h {
		ny := sx * h / w
		mid := (p.Y.Min + p.Y.Max) / 2
		p.Y.Min, p.Y.Max = mid-ny/2, mid+ny/2
	} else {
		nx := sy * w / h
		mid := (p.X.Min + p.X.Max) / 2
		p.X.Min, p.X.Max = mid-nx/2, mid+nx/2
	}
}

// finiteRuns splits pts into maximal runs of finite points, scaled by k.
// A NaN or infinite coordinate ends the current run, which leaves a gap in
// the drawn polyline.
func finiteRuns(pts []trajectory.Point, k float64) []plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		xys[i] = plotter.XY{X: pt.X * k, Y: pt.Y * k}
	}
	return splitFinite(xys)
}

// splitFinite returns the maximal runs of xys whose coordinates are finite.
// The runs share storage with xys.
func splitFinite(xys plotter.XYs) []plotter.XYs {
	var runs []plotter.XYs
	start := -1
	for i, xy := range xys {
		if isFinite(xy.X) && isFinite(xy.Y) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, xys[start:i:i])
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, xys[start:])
	}
	return runs
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// polyline draws pts onto the data canvas da of p, one stroke per finite run.
func polyline(da draw.Canvas, p *plot.Plot, pts []trajectory.Point, k float64, ls draw.LineStyle) {
	for _, run := range finiteRuns(pts, k) {
		l := &plotter.Line{XYs: run, LineStyle: ls}
		l.Plot(da, p)
	}
}
