// Package config loads tracker settings from YAML, environment variables
// and defaults, and turns them into validated pipeline parameters.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides: BALLTRACK_LOCATE_RADIUS_MIN
// overrides locate.radius_min.
const EnvPrefix = "BALLTRACK"

// Config is the raw tracker configuration as read from YAML and the
// environment. Resolve turns it into validated pipeline Settings.
type Config struct {
	Source   SourceConfig   `mapstructure:"source"`
	Segment  SegmentConfig  `mapstructure:"segment"`
	Refine   RefineConfig   `mapstructure:"refine"`
	Locate   LocateConfig   `mapstructure:"locate"`
	Display  DisplayConfig  `mapstructure:"display"`
	Annotate AnnotateConfig `mapstructure:"annotate"`
	Log      LogConfig      `mapstructure:"log"`
}

// SourceConfig selects where frames come from.
type SourceConfig struct {
	// Camera is the capture device number, used when Files is empty.
	Camera int `mapstructure:"camera"`
	// Files is a directory or glob of still frames to replay instead.
	Files string `mapstructure:"files"`
	// Scale resizes frames before detection; 0 and 1 leave them alone.
	Scale float64 `mapstructure:"scale"`
}

// BandConfig is one HSV range; Lower and Upper are [H, S, V].
type BandConfig struct {
	Lower []int `json:"lower" mapstructure:"lower"`
	Upper []int `json:"upper" mapstructure:"upper"`
}

// SegmentConfig lists the HSV bands whose union marks ball pixels.
type SegmentConfig struct {
	Bands []BandConfig `mapstructure:"bands"`
}

// RefineConfig sizes the blur and the dilate/erode kernels. Both must be odd.
type RefineConfig struct {
	BlurKernel  int `mapstructure:"blur_kernel"`
	MorphKernel int `mapstructure:"morph_kernel"`
}

// LocateConfig holds the circle locator parameters.
type LocateConfig struct {
	Backend    string  `mapstructure:"backend"`
	Resolution float64 `mapstructure:"resolution"`
	// MinDistance is the minimum center distance in pixels. Nil means
	// MinDistanceFraction of the frame height; an explicit value must be
	// positive.
	MinDistance         *float64 `mapstructure:"min_distance"`
	MinDistanceFraction float64  `mapstructure:"min_distance_fraction"`
	EdgeHigh            float64  `mapstructure:"edge_high"`
	EdgeLow             float64  `mapstructure:"edge_low"`
	VoteThreshold       int      `mapstructure:"vote_threshold"`
	RadiusMin           int      `mapstructure:"radius_min"`
	RadiusMax           int      `mapstructure:"radius_max"`
}

// DisplayConfig controls the preview windows and the frame dump directory.
type DisplayConfig struct {
	Window    bool   `mapstructure:"window"`
	OutputDir string `mapstructure:"output_dir"`
	// Every writes every Nth frame to OutputDir.
	Every int `mapstructure:"every"`
}

// AnnotateConfig styles the markers drawn on annotated frames. Colors are
// hex strings such as "#00FF00".
type AnnotateConfig struct {
	MarkerColor  string  `mapstructure:"marker_color"`
	OutlineColor string  `mapstructure:"outline_color"`
	MarkerRadius float64 `mapstructure:"marker_radius"`
	OutlineWidth float64 `mapstructure:"outline_width"`
	Label        bool    `mapstructure:"label"`
}

// LogConfig selects the zap level and encoder ("development" or "production").
type LogConfig struct {
	Level string `mapstructure:"level"`
	Mode  string `mapstructure:"mode"`
}

// Load reads configPath (YAML) on top of the defaults and applies
// BALLTRACK_* environment overrides. An empty configPath loads defaults and
// environment only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// min_distance has no default, so AutomaticEnv alone would not see it.
	if err := v.BindEnv("locate.min_distance"); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("source.camera", d.Source.Camera)
	v.SetDefault("source.files", d.Source.Files)
	v.SetDefault("source.scale", d.Source.Scale)

	bands := make([]map[string]any, len(d.Segment.Bands))
	for i, b := range d.Segment.Bands {
		bands[i] = map[string]any{"lower": b.Lower, "upper": b.Upper}
	}
	v.SetDefault("segment.bands", bands)

	v.SetDefault("refine.blur_kernel", d.Refine.BlurKernel)
	v.SetDefault("refine.morph_kernel", d.Refine.MorphKernel)

	v.SetDefault("locate.backend", d.Locate.Backend)
	v.SetDefault("locate.resolution", d.Locate.Resolution)
	v.SetDefault("locate.min_distance_fraction", d.Locate.MinDistanceFraction)
	v.SetDefault("locate.edge_high", d.Locate.EdgeHigh)
	v.SetDefault("locate.edge_low", d.Locate.EdgeLow)
	v.SetDefault("locate.vote_threshold", d.Locate.VoteThreshold)
	v.SetDefault("locate.radius_min", d.Locate.RadiusMin)
	v.SetDefault("locate.radius_max", d.Locate.RadiusMax)

	v.SetDefault("display.window", d.Display.Window)
	v.SetDefault("display.output_dir", d.Display.OutputDir)
	v.SetDefault("display.every", d.Display.Every)

	v.SetDefault("annotate.marker_color", d.Annotate.MarkerColor)
	v.SetDefault("annotate.outline_color", d.Annotate.OutlineColor)
	v.SetDefault("annotate.marker_radius", d.Annotate.MarkerRadius)
	v.SetDefault("annotate.outline_width", d.Annotate.OutlineWidth)
	v.SetDefault("annotate.label", d.Annotate.Label)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.mode", d.Log.Mode)
}

// Default returns the classic red ball setup: second webcam, two red hue
// bands around the wraparound, 3x3 refinement and a half-resolution
// accumulator looking for radii between 10 and 400 pixels.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Camera: 1,
			Scale:  1,
		},
		Segment: SegmentConfig{
			Bands: []BandConfig{
				{Lower: []int{0, 155, 155}, Upper: []int{18, 255, 255}},
				{Lower: []int{165, 155, 155}, Upper: []int{179, 255, 255}},
			},
		},
		Refine: RefineConfig{
			BlurKernel:  3,
			MorphKernel: 3,
		},
		Locate: LocateConfig{
			Backend:             "hough",
			Resolution:          2,
			MinDistanceFraction: 0.25,
			EdgeHigh:            100,
			EdgeLow:             50,
			VoteThreshold:       50,
			RadiusMin:           10,
			RadiusMax:           400,
		},
		Display: DisplayConfig{
			Window: true,
			Every:  1,
		},
		Annotate: AnnotateConfig{
			MarkerColor:  "#00FF00",
			OutlineColor: "#FF0000",
			MarkerRadius: 3,
			OutlineWidth: 3,
		},
		Log: LogConfig{
			Level: "info",
			Mode:  "development",
		},
	}
}
