package render

import (
	"errors"
	"fmt"
	"image"
	imgdraw "image/draw"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/banshee-data/wormvis/internal/anim"
	"github.com/banshee-data/wormvis/internal/obstacle"
	"github.com/banshee-data/wormvis/internal/scene"
)

var errNotSetup = errors.New("render: frame drawn before setup")

// labelInset is the distance of the frame label from the top-left corner of
// the data area.
const labelInset = 6

// PlotRenderer implements anim.Renderer on gonum/plot. Setup rasterizes the
// axes and obstacles once; every frame starts from a copy of that background
// and strokes only the two body outlines and the label.
type PlotRenderer struct {
	style Style
	enc   Encoder

	plot   *plot.Plot
	w, h   vg.Length
	bg     *image.RGBA
	label  text.Style
	frames int
}

var _ anim.Renderer = (*PlotRenderer)(nil)

// NewPlotRenderer returns a renderer feeding frames to enc.
func NewPlotRenderer(enc Encoder, style Style) *PlotRenderer {
	return &PlotRenderer{style: style, enc: enc}
}

// Setup draws the static background for vp and field.
func (r *PlotRenderer) Setup(vp scene.Viewport, field *obstacle.Field) error {
	if err := vp.Validate(); err != nil {
		return err
	}
	w, h := r.style.figure(vp)
	logf("figure size: %.2fin x %.2fin at %d dpi", w/vg.Inch, h/vg.Inch, r.style.dpi())

	p := newAxes(r.style)
	if err := addObstacles(p, field, r.style); err != nil {
		return err
	}
	setViewport(p, vp, r.style.scale())

	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(r.style.dpi()))
	dc := draw.New(c)
	equalAspect(p, dc)
	p.Draw(dc)

	r.plot = p
	r.w, r.h = w, h
	r.bg = cloneRGBA(c.Image())
	r.label = p.Title.TextStyle
	r.label.XAlign = text.XLeft
	r.label.YAlign = text.YTop
	return nil
}

// DrawFrame rasterizes one frame and hands it to the encoder.
func (r *PlotRenderer) DrawFrame(u anim.FrameUpdate) error {
	if r.plot == nil {
		return errNotSetup
	}
	if u.Index != r.frames {
		return fmt.Errorf("frame %d out of order, expected %d", u.Index, r.frames)
	}

	img := r.Rasterize(u)
	if err := r.enc.Encode(u.Index, img); err != nil {
		return err
	}
	r.frames++
	return nil
}

// Rasterize draws u over the cached background and returns the image.
func (r *PlotRenderer) Rasterize(u anim.FrameUpdate) image.Image {
	c := vgimg.NewWith(vgimg.UseWH(r.w, r.h), vgimg.UseDPI(r.style.dpi()))
	imgdraw.Draw(c.Image(), r.bg.Bounds(), r.bg, image.Point{}, imgdraw.Src)
	da := r.plot.DataCanvas(draw.New(c))

	k := r.style.scale()
	polyline(da, r.plot, u.Dorsal, k, r.style.line(r.style.Dorsal))
	polyline(da, r.plot, u.Ventral, k, r.style.line(r.style.Ventral))

	pt := vg.Point{X: da.Min.X + labelInset, Y: da.Max.Y - labelInset}
	da.FillText(r.label, pt, u.Label)
	return c.Image()
}

// Background returns the cached static layer, nil before Setup.
func (r *PlotRenderer) Background() image.Image {
	if r.bg == nil {
		return nil
	}
	return r.bg
}

// Finalize hands the collected frames to the encoder.
func (r *PlotRenderer) Finalize(path string, fps int) error {
	return r.enc.Finalize(path, fps)
}

// Close releases the encoder.
func (r *PlotRenderer) Close() error {
	return r.enc.Close()
}
