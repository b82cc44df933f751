package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/banshee-data/wormvis/internal/fsutil"
	"github.com/banshee-data/wormvis/internal/vizerr"
)

const framePattern = "frame_%06d.png"

// CommandRunner runs an external program and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// FFmpegOptions configure an FFmpegEncoder. Zero values fall back to
// ffmpeg, libx264, 1800 kbps, the OS temp dir and the real filesystem.
type FFmpegOptions struct {
	Binary      string
	Codec       string
	BitrateKbps int
	StageRoot   string
	FS          fsutil.FileSystem
	Run         CommandRunner
}

// FFmpegEncoder stages frames as numbered PNGs in a private directory and
// runs ffmpeg over them on Finalize.
type FFmpegEncoder struct {
	ctx    context.Context
	opts   FFmpegOptions
	stage  string
	frames int
}

// NewFFmpegEncoder returns an encoder that shells out to ffmpeg.
func NewFFmpegEncoder(ctx context.Context, opts FFmpegOptions) *FFmpegEncoder {
	if opts.Binary == "" {
		opts.Binary = "ffmpeg"
	}
	if opts.Codec == "" {
		opts.Codec = "libx264"
	}
	if opts.BitrateKbps <= 0 {
		opts.BitrateKbps = 1800
	}
	if opts.StageRoot == "" {
		opts.StageRoot = os.TempDir()
	}
	if opts.FS == nil {
		opts.FS = fsutil.OSFileSystem{}
	}
	if opts.Run == nil {
		opts.Run = execRunner
	}
	return &FFmpegEncoder{ctx: ctx, opts: opts}
}

// StageDir returns the frame staging directory, empty before the first frame.
func (e *FFmpegEncoder) StageDir() string { return e.stage }

// Encode writes frame index as a PNG into the staging directory.
func (e *FFmpegEncoder) Encode(index int, img image.Image) error {
	if index != e.frames {
		return fmt.Errorf("frame %d out of order, expected %d", index, e.frames)
	}
	if e.stage == "" {
		dir := filepath.Join(e.opts.StageRoot, "wormvis-"+uuid.NewString())
		if err := e.opts.FS.MkdirAll(dir, 0o755); err != nil {
			return vizerr.Sink("create frame staging dir", err)
		}
		e.stage = dir
	}

	name := filepath.Join(e.stage, fmt.Sprintf(framePattern, index))
	w, err := e.opts.FS.Create(name)
	if err != nil {
		return vizerr.Sink("stage frame", err)
	}
	if err := png.Encode(w, img); err != nil {
		w.Close()
		return vizerr.Sink("stage frame", err)
	}
	if err := w.Close(); err != nil {
		return vizerr.Sink("stage frame", err)
	}
	e.frames++
	return nil
}

// Args returns the ffmpeg command line that encodes the staged frames to out.
func (e *FFmpegEncoder) Args(out string, fps int) []string {
	return []string{
		"-y",
		"-loglevel", "error",
		"-framerate", strconv.Itoa(fps),
		"-i", filepath.Join(e.stage, framePattern),
		"-c:v", e.opts.Codec,
		"-b:v", strconv.Itoa(e.opts.BitrateKbps) + "k",
		"-pix_fmt", "yuv420p",
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		out,
	}
}

// Finalize runs ffmpeg into a partial file next to path and renames it into
// place once ffmpeg succeeds.
func (e *FFmpegEncoder) Finalize(path string, fps int) error {
	if e.frames == 0 {
		return fmt.Errorf("%s: no frames: %w", path, vizerr.ErrEmptyInput)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := e.opts.FS.MkdirAll(dir, 0o755); err != nil {
			return vizerr.Sink("create output dir", err)
		}
	}

	partial := partialPath(path)
	logf("encoding %d frames with %s at %d fps", e.frames, e.opts.Binary, fps)
	out, err := e.opts.Run(e.ctx, e.opts.Binary, e.Args(partial, fps)...)
	if err != nil {
		_ = e.opts.FS.Remove(partial)
		if msg := bytes.TrimSpace(out); len(msg) > 0 {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		if errors.Is(err, exec.ErrNotFound) {
			return vizerr.Sink("ffmpeg not available", err)
		}
		return vizerr.Sink("ffmpeg", err)
	}
	if err := e.opts.FS.Rename(partial, path); err != nil {
		_ = e.opts.FS.Remove(partial)
		return vizerr.Sink("move output into place", err)
	}
	return nil
}

// Close removes the staging directory.
func (e *FFmpegEncoder) Close() error {
	if e.stage == "" {
		return nil
	}
	err := e.opts.FS.RemoveAll(e.stage)
	e.stage = ""
	return err
}
