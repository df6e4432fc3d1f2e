package config

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/ironsheep/ball-tracker/internal/annotate"
	"github.com/ironsheep/ball-tracker/internal/detection"
	"github.com/ironsheep/ball-tracker/internal/errdefs"
	"github.com/ironsheep/ball-tracker/internal/imaging"
)

// Settings are the validated pipeline parameters derived from a Config.
type Settings struct {
	Bands   []imaging.ColorBand
	Refine  imaging.RefineParams
	Locate  detection.Params
	Backend string
	Style   annotate.Style
}

// Resolve validates c and converts it to pipeline parameters. Every problem
// is reported; the error matches errdefs.ErrInvalidConfiguration.
func (c *Config) Resolve() (*Settings, error) {
	var err error
	s := &Settings{Backend: strings.ToLower(c.Locate.Backend)}

	if c.Source.Files == "" && c.Source.Camera < 0 {
		err = multierr.Append(err, errdefs.Invalid("source.camera", "must not be negative, got %d", c.Source.Camera))
	}
	if c.Source.Scale < 0 {
		err = multierr.Append(err, errdefs.Invalid("source.scale", "must not be negative, got %g", c.Source.Scale))
	}

	if len(c.Segment.Bands) == 0 {
		err = multierr.Append(err, errdefs.Invalid("segment.bands", "at least one band is required"))
	}
	for i, b := range c.Segment.Bands {
		band, bandErr := b.ColorBand(i)
		if bandErr != nil {
			err = multierr.Append(err, bandErr)
			continue
		}
		s.Bands = append(s.Bands, band)
	}

	s.Refine = imaging.RefineParams{BlurKernel: c.Refine.BlurKernel, MorphKernel: c.Refine.MorphKernel}
	err = multierr.Append(err, s.Refine.Validate())

	s.Locate = detection.Params{
		MinDistanceFraction: c.Locate.MinDistanceFraction,
		RadiusMin:           c.Locate.RadiusMin,
		RadiusMax:           c.Locate.RadiusMax,
		EdgeHighThreshold:   c.Locate.EdgeHigh,
		EdgeLowThreshold:    c.Locate.EdgeLow,
		Resolution:          c.Locate.Resolution,
		VoteThreshold:       c.Locate.VoteThreshold,
	}
	if d := c.Locate.MinDistance; d != nil {
		if *d <= 0 {
			err = multierr.Append(err, errdefs.Invalid("locate.min_distance", "must be positive when set, got %g", *d))
		} else {
			s.Locate.MinDistance = *d
		}
	}
	err = multierr.Append(err, s.Locate.Validate())

	switch s.Backend {
	case "", detection.BackendHough, detection.BackendOpenCV:
	default:
		err = multierr.Append(err, errdefs.Invalid("locate.backend", "unknown backend %q", c.Locate.Backend))
	}

	if c.Display.Every < 0 {
		err = multierr.Append(err, errdefs.Invalid("display.every", "must not be negative, got %d", c.Display.Every))
	}

	style, styleErr := annotate.StyleFromHex(c.Annotate.MarkerColor, c.Annotate.OutlineColor,
		c.Annotate.MarkerRadius, c.Annotate.OutlineWidth, c.Annotate.Label)
	err = multierr.Append(err, styleErr)
	s.Style = style

	if _, lvlErr := zapcore.ParseLevel(c.Log.Level); lvlErr != nil {
		err = multierr.Append(err, errdefs.Invalid("log.level", "%v", lvlErr))
	}

	if err != nil {
		return nil, err
	}
	return s, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	_, err := c.Resolve()
	return err
}

// ColorBand converts the i-th configured band, validating its bounds.
func (b BandConfig) ColorBand(i int) (imaging.ColorBand, error) {
	lower, err := hsvTriple(fmt.Sprintf("segment.bands[%d].lower", i), b.Lower)
	if err != nil {
		return imaging.ColorBand{}, err
	}
	upper, err := hsvTriple(fmt.Sprintf("segment.bands[%d].upper", i), b.Upper)
	if err != nil {
		return imaging.ColorBand{}, err
	}

	band := imaging.ColorBand{Lower: lower, Upper: upper}
	if err := band.Validate(); err != nil {
		return imaging.ColorBand{}, fmt.Errorf("segment.bands[%d]: %w", i, err)
	}
	return band, nil
}

func hsvTriple(field string, v []int) (imaging.HSV, error) {
	if len(v) != 3 {
		return imaging.HSV{}, errdefs.Invalid(field, "want [h, s, v], got %d values", len(v))
	}
	limits := [3]int{imaging.MaxHue, imaging.MaxSaturation, imaging.MaxValue}
	for i, x := range v {
		if x < 0 || x > limits[i] {
			return imaging.HSV{}, errdefs.Invalid(field, "component %d out of range [0,%d]: %d", i, limits[i], x)
		}
	}
	return imaging.HSV{H: uint8(v[0]), S: uint8(v[1]), V: uint8(v[2])}, nil
}
