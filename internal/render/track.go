package render

import (
	"fmt"
	"image/color"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/banshee-data/wormvis/internal/fsutil"
	"github.com/banshee-data/wormvis/internal/obstacle"
	"github.com/banshee-data/wormvis/internal/scene"
	"github.com/banshee-data/wormvis/internal/trajectory"
	"github.com/banshee-data/wormvis/internal/units"
)

// TrackPNG draws the head track over the obstacles at equal aspect and
// returns a PNG writer.
func TrackPNG(head []trajectory.Point, field *obstacle.Field, vp scene.Viewport, s Style) (io.WriterTo, error) {
	if err := vp.Validate(); err != nil {
		return nil, err
	}
	p := newAxes(s)
	p.Title.Text = "head position"
	if err := addObstacles(p, field, s); err != nil {
		return nil, err
	}
	setViewport(p, vp, s.scale())

	w, h := s.figure(vp)
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(s.dpi()))
	dc := draw.New(c)
	equalAspect(p, dc)
	p.Draw(dc)
	polyline(p.DataCanvas(dc), p, head, s.scale(), s.line(s.Head))

	return vgimg.PngCanvas{Canvas: c}, nil
}

// WriteTrackPNG writes TrackPNG to path atomically.
func WriteTrackPNG(fsys fsutil.FileSystem, path string, head []trajectory.Point, field *obstacle.Field, vp scene.Viewport, s Style) error {
	wt, err := TrackPNG(head, field, vp, s)
	if err != nil {
		return err
	}
	logf("head track: %d points to `%s`", len(head), path)
	return fsutil.WriteAtomic(fsys, path, func(w io.Writer) error {
		_, err := wt.WriteTo(w)
		return err
	})
}

// TrackHTML renders an interactive go-echarts page with the head track as a
// scatter series and each obstacle as a closed outline.
func TrackHTML(w io.Writer, title string, head []trajectory.Point, field *obstacle.Field, vp scene.Viewport, s Style) error {
	k := s.scale()
	label := units.LengthLabel(s.Units)

	track := make([]opts.ScatterData, 0, len(head))
	for i, pt := range head {
		if !isFinite(pt.X) || !isFinite(pt.Y) {
			continue
		}
		track = append(track, opts.ScatterData{Value: []interface{}{pt.X * k, pt.Y * k, i}})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("timesteps=%d obstacles=%d", len(head), field.Len())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Min: vp.X.Min * k, Max: vp.X.Max * k, Name: fmt.Sprintf("x (%s)", label), NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Min: vp.Y.Min * k, Max: vp.Y.Max * k, Name: fmt.Sprintf("y (%s)", label), NameLocation: "middle", NameGap: 30}),
	)
	scatter.AddSeries("head", track,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColor(s.Head)}),
	)

	if field.Len() > 0 {
		outlines := charts.NewLine()
		for _, b := range field.Boxes {
			corners := []opts.LineData{
				{Value: []interface{}{b.Min.X * k, b.Min.Y * k}},
				{Value: []interface{}{b.Max.X * k, b.Min.Y * k}},
				{Value: []interface{}{b.Max.X * k, b.Max.Y * k}},
				{Value: []interface{}{b.Min.X * k, b.Max.Y * k}},
				{Value: []interface{}{b.Min.X * k, b.Min.Y * k}},
			}
			outlines.AddSeries("obstacles", corners,
				charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
				charts.WithLineStyleOpts(opts.LineStyle{Color: hexColor(s.Obstacle)}),
			)
		}
		scatter.Overlap(outlines)
	}

	return scatter.Render(w)
}

// WriteTrackHTML writes TrackHTML to path atomically.
func WriteTrackHTML(fsys fsutil.FileSystem, path, title string, head []trajectory.Point, field *obstacle.Field, vp scene.Viewport, s Style) error {
	logf("head track: %d points to `%s`", len(head), path)
	return fsutil.WriteAtomic(fsys, path, func(w io.Writer) error {
		return TrackHTML(w, title, head, field, vp, s)
	})
}

func hexColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%.3f)", n.R, n.G, n.B, float64(n.A)/255)
}
