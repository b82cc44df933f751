package render

import (
	"context"
	"fmt"
	"image"
	imgdraw "image/draw"
	"path/filepath"
	"strings"

	"github.com/banshee-data/wormvis/internal/config"
	"github.com/banshee-data/wormvis/internal/fsutil"
)

// Encoder turns a sequence of rasterized frames into an animation file.
// Encode is called with index 0, 1, 2, ... in order. Nothing is written to
// the output path before Finalize, and a failed Finalize leaves no file
// there.
type Encoder interface {
	Encode(index int, img image.Image) error
	Finalize(path string, fps int) error
	Close() error
}

// EncoderFor picks an encoder from the extension of path: .gif encodes in
// process, the video extensions go through ffmpeg.
func EncoderFor(ctx context.Context, path string, cfg *config.RenderConfig, fsys fsutil.FileSystem) (Encoder, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gif":
		return NewGIFEncoder(fsys), nil
	case ".mp4", ".mkv", ".mov", ".avi", ".webm":
		codec := cfg.GetCodec()
		if ext == ".webm" && cfg.Codec == nil {
			codec = "libvpx-vp9"
		}
		return NewFFmpegEncoder(ctx, FFmpegOptions{
			Binary:      cfg.GetFFmpegPath(),
			Codec:       codec,
			BitrateKbps: cfg.GetBitrateKbps(),
			FS:          fsys,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported output extension %q (want .mp4, .mkv, .mov, .avi, .webm or .gif)", ext)
	}
}

// partialPath returns the temporary name an output is written under before
// being renamed into place. The extension is kept so ffmpeg can pick the
// container from it.
func partialPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".partial" + ext
}

func cloneRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	imgdraw.Draw(dst, b, src, b.Min, imgdraw.Src)
	return dst
}
