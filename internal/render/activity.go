package render

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/wormvis/internal/activity"
	"github.com/banshee-data/wormvis/internal/fsutil"
)

// maxLegendChannels is the most channels that get a legend entry.
const maxLegendChannels = 12

// ActivityPlot draws one line per channel against time with the y axis
// clamped to [-yLimit, yLimit].
func ActivityPlot(tr *activity.Traces, yLimit float64, s Style) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "activity"
	p.X.Label.Text = "t"
	p.Y.Label.Text = "activation"

	colors := generateColors(tr.NumChannels())
	for c, vals := range tr.Channels {
		xys := make(plotter.XYs, tr.Len())
		for i := range xys {
			xys[i] = plotter.XY{X: tr.Time[i], Y: vals[i]}
		}
		for j, run := range splitFinite(xys) {
			line, err := plotter.NewLine(run)
			if err != nil {
				return nil, fmt.Errorf("channel %d: %w", c, err)
			}
			line.Color = colors[c]
			line.Width = s.LineWidth
			p.Add(line)
			if j == 0 && tr.NumChannels() <= maxLegendChannels {
				p.Legend.Add(fmt.Sprintf("ch %d", c), line)
			}
		}
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	p.Y.Min, p.Y.Max = -yLimit, yLimit
	if lo, hi := tr.TimeRange(); hi > lo {
		p.X.Min, p.X.Max = lo, hi
	}
	return p, nil
}

// WriteActivityPNG saves ActivityPlot as a PNG FigureScale inches wide.
func WriteActivityPNG(fsys fsutil.FileSystem, path string, tr *activity.Traces, yLimit float64, s Style) error {
	p, err := ActivityPlot(tr, yLimit, s)
	if err != nil {
		return err
	}
	w := vg.Length(s.FigureScale) * vg.Inch
	wt, err := p.WriterTo(w, w*0.6, "png")
	if err != nil {
		return fmt.Errorf("save activity plot: %w", err)
	}
	logf("activity: %d channels x %d samples to `%s`", tr.NumChannels(), tr.Len(), path)
	return fsutil.WriteAtomic(fsys, path, func(w io.Writer) error {
		_, err := wt.WriteTo(w)
		return err
	})
}

// generateColors creates a palette of n distinct colors spread around the
// hue wheel.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
