package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/banshee-data/wormvis/internal/units"
)

// DefaultConfigPath is the path to the canonical render defaults file.
const DefaultConfigPath = "config/render.defaults.json"

// RenderConfig holds the tuning knobs for plots and animations. Every field
// is optional; the Get* methods supply the default for a nil field, so a
// partial file only overrides what it names.
type RenderConfig struct {
	// Animation encoding
	FPS         *int    `json:"fps,omitempty"`
	BitrateKbps *int    `json:"bitrate_kbps,omitempty"`
	Codec       *string `json:"codec,omitempty"`
	FFmpegPath  *string `json:"ffmpeg_path,omitempty"`

	// Figure geometry
	FigureScale   *float64 `json:"figure_scale,omitempty"` // inches on the longer side
	DPI           *float64 `json:"dpi,omitempty"`
	LengthUnits   *string  `json:"length_units,omitempty"` // m, mm, um
	BoundsPadFrac *float64 `json:"bounds_pad_frac,omitempty"`

	// Body model
	WormRadius *float64 `json:"worm_radius,omitempty"` // metres

	// Styling
	DorsalColor   *string  `json:"dorsal_color,omitempty"` // #rrggbb or #rrggbbaa
	VentralColor  *string  `json:"ventral_color,omitempty"`
	ObstacleColor *string  `json:"obstacle_color,omitempty"`
	LineWidthPt   *float64 `json:"line_width_pt,omitempty"`

	// Activity plot
	ActivityYLimit *float64 `json:"activity_y_limit,omitempty"`

	// Logging
	ProgressEvery *int `json:"progress_every,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyRenderConfig returns a RenderConfig with all fields set to nil, which
// renders with the built-in defaults.
func EmptyRenderConfig() *RenderConfig {
	return &RenderConfig{}
}

// DefaultRenderConfig returns a RenderConfig with every field populated with
// its default. It matches DefaultConfigPath and is what -print-config emits.
func DefaultRenderConfig() *RenderConfig {
	return &RenderConfig{
		FPS:            ptrInt(30),
		BitrateKbps:    ptrInt(1800),
		Codec:          ptrString("libx264"),
		FFmpegPath:     ptrString("ffmpeg"),
		FigureScale:    ptrFloat64(10.0),
		DPI:            ptrFloat64(100),
		LengthUnits:    ptrString(units.Metre),
		BoundsPadFrac:  ptrFloat64(0.05),
		WormRadius:     ptrFloat64(80e-6),
		DorsalColor:    ptrString("#ff0000"),
		VentralColor:   ptrString("#0000ff"),
		ObstacleColor:  ptrString("#ff000080"),
		LineWidthPt:    ptrFloat64(1.0),
		ActivityYLimit: ptrFloat64(50.0),
		ProgressEvery:  ptrInt(50),
	}
}

// LoadRenderConfig loads a RenderConfig from a JSON file.
// The file must have a .json extension and be at most 1MB.
func LoadRenderConfig(path string) (*RenderConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyRenderConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *RenderConfig) Validate() error {
	if c.FPS != nil && (*c.FPS < 1 || *c.FPS > 240) {
		return fmt.Errorf("fps must be between 1 and 240, got %d", *c.FPS)
	}
	if c.BitrateKbps != nil && *c.BitrateKbps < 1 {
		return fmt.Errorf("bitrate_kbps must be positive, got %d", *c.BitrateKbps)
	}
	if c.FigureScale != nil && *c.FigureScale <= 0 {
		return fmt.Errorf("figure_scale must be positive, got %f", *c.FigureScale)
	}
	if c.DPI != nil && (*c.DPI < 10 || *c.DPI > 1200) {
		return fmt.Errorf("dpi must be between 10 and 1200, got %f", *c.DPI)
	}
	if c.WormRadius != nil && *c.WormRadius <= 0 {
		return fmt.Errorf("worm_radius must be positive, got %g", *c.WormRadius)
	}
	if c.LineWidthPt != nil && *c.LineWidthPt <= 0 {
		return fmt.Errorf("line_width_pt must be positive, got %f", *c.LineWidthPt)
	}
	if c.BoundsPadFrac != nil && (*c.BoundsPadFrac < 0 || *c.BoundsPadFrac > 1) {
		return fmt.Errorf("bounds_pad_frac must be between 0 and 1, got %f", *c.BoundsPadFrac)
	}
	if c.ActivityYLimit != nil && *c.ActivityYLimit <= 0 {
		return fmt.Errorf("activity_y_limit must be positive, got %f", *c.ActivityYLimit)
	}
	if c.ProgressEvery != nil && *c.ProgressEvery < 0 {
		return fmt.Errorf("progress_every must be non-negative, got %d", *c.ProgressEvery)
	}
	if c.LengthUnits != nil && !units.IsValidLength(*c.LengthUnits) {
		return fmt.Errorf("invalid length_units '%s': must be one of %s", *c.LengthUnits, units.GetValidLengthUnitsString())
	}
	for name, v := range map[string]*string{
		"dorsal_color":   c.DorsalColor,
		"ventral_color":  c.VentralColor,
		"obstacle_color": c.ObstacleColor,
	} {
		if v == nil {
			continue
		}
		if _, err := ParseHexColor(*v); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	return nil
}

// GetFPS returns the fps value or the default.
func (c *RenderConfig) GetFPS() int {
	if c.FPS == nil {
		return 30
	}
	return *c.FPS
}

// GetBitrateKbps returns the bitrate_kbps value or the default.
func (c *RenderConfig) GetBitrateKbps() int {
	if c.BitrateKbps == nil {
		return 1800
	}
	return *c.BitrateKbps
}

// GetCodec returns the codec value or the default.
func (c *RenderConfig) GetCodec() string {
	if c.Codec == nil || *c.Codec == "" {
		return "libx264"
	}
	return *c.Codec
}

// GetFFmpegPath returns the ffmpeg_path value or the default.
func (c *RenderConfig) GetFFmpegPath() string {
	if c.FFmpegPath == nil || *c.FFmpegPath == "" {
		return "ffmpeg"
	}
	return *c.FFmpegPath
}

// GetFigureScale returns the figure_scale value or the default.
func (c *RenderConfig) GetFigureScale() float64 {
	if c.FigureScale == nil {
		return 10.0
	}
	return *c.FigureScale
}

// GetDPI returns the dpi value or the default.
func (c *RenderConfig) GetDPI() float64 {
	if c.DPI == nil {
		return 100
	}
	return *c.DPI
}

// GetLengthUnits returns the length_units value or the default.
func (c *RenderConfig) GetLengthUnits() string {
	if c.LengthUnits == nil || *c.LengthUnits == "" {
		return units.Metre
	}
	return *c.LengthUnits
}

// GetBoundsPadFrac returns the bounds_pad_frac value or the default.
func (c *RenderConfig) GetBoundsPadFrac() float64 {
	if c.BoundsPadFrac == nil {
		return 0.05
	}
	return *c.BoundsPadFrac
}

// GetWormRadius returns the worm_radius value or the default.
func (c *RenderConfig) GetWormRadius() float64 {
	if c.WormRadius == nil {
		return 80e-6
	}
	return *c.WormRadius
}

// GetDorsalColor returns the parsed dorsal_color or red.
func (c *RenderConfig) GetDorsalColor() color.NRGBA {
	return colorOr(c.DorsalColor, color.NRGBA{R: 255, A: 255})
}

// GetVentralColor returns the parsed ventral_color or blue.
func (c *RenderConfig) GetVentralColor() color.NRGBA {
	return colorOr(c.VentralColor, color.NRGBA{B: 255, A: 255})
}

// GetObstacleColor returns the parsed obstacle_color or half-transparent red.
func (c *RenderConfig) GetObstacleColor() color.NRGBA {
	return colorOr(c.ObstacleColor, color.NRGBA{R: 255, A: 128})
}

// GetLineWidthPt returns the line_width_pt value or the default.
func (c *RenderConfig) GetLineWidthPt() float64 {
	if c.LineWidthPt == nil {
		return 1.0
	}
	return *c.LineWidthPt
}

// GetActivityYLimit returns the activity_y_limit value or the default.
func (c *RenderConfig) GetActivityYLimit() float64 {
	if c.ActivityYLimit == nil {
		return 50.0
	}
	return *c.ActivityYLimit
}

// GetProgressEvery returns the progress_every value or the default.
func (c *RenderConfig) GetProgressEvery() int {
	if c.ProgressEvery == nil {
		return 50
	}
	return *c.ProgressEvery
}

func colorOr(v *string, def color.NRGBA) color.NRGBA {
	if v == nil {
		return def
	}
	c, err := ParseHexColor(*v)
	if err != nil {
		return def
	}
	return c
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa".
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("color %q must be #rrggbb or #rrggbbaa", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
