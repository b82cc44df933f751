package render

import (
	"fmt"
	"image"
	"image/color/palette"
	imgdraw "image/draw"
	"image/gif"
	"io"
	"math"

	"github.com/banshee-data/wormvis/internal/fsutil"
	"github.com/banshee-data/wormvis/internal/vizerr"
)

// GIFEncoder quantizes frames to the Plan9 palette in memory and writes an
// animated GIF on Finalize.
type GIFEncoder struct {
	fsys   fsutil.FileSystem
	frames []*image.Paletted
}

// NewGIFEncoder returns a GIF encoder writing through fsys.
func NewGIFEncoder(fsys fsutil.FileSystem) *GIFEncoder {
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	return &GIFEncoder{fsys: fsys}
}

// Encode quantizes img and keeps it for Finalize.
func (e *GIFEncoder) Encode(index int, img image.Image) error {
	if index != len(e.frames) {
		return fmt.Errorf("frame %d out of order, expected %d", index, len(e.frames))
	}
	b := img.Bounds()
	p := image.NewPaletted(b, palette.Plan9)
	imgdraw.Draw(p, b, img, b.Min, imgdraw.Src)
	e.frames = append(e.frames, p)
	return nil
}

// Delay returns the per-frame delay in hundredths of a second for fps.
func Delay(fps int) int {
	if fps <= 0 {
		return 10
	}
	return max(1, int(math.Round(100/float64(fps))))
}

// Finalize writes the animation to path atomically.
func (e *GIFEncoder) Finalize(path string, fps int) error {
	if len(e.frames) == 0 {
		return fmt.Errorf("%s: no frames: %w", path, vizerr.ErrEmptyInput)
	}
	delays := make([]int, len(e.frames))
	for i := range delays {
		delays[i] = Delay(fps)
	}
	anim := &gif.GIF{Image: e.frames, Delay: delays}

	err := fsutil.WriteAtomic(e.fsys, path, func(w io.Writer) error {
		return gif.EncodeAll(w, anim)
	})
	if err != nil {
		return vizerr.Sink("write gif", err)
	}
	return nil
}

// Close drops the buffered frames.
func (e *GIFEncoder) Close() error {
	e.frames = nil
	return nil
}
