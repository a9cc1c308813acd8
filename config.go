package slidefx

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default thresholds. They are empirical values kept as the defaults of
// Config rather than hard-coded in the components.
const (
	DefaultDoubleTapWindow  = 500 * time.Millisecond
	DefaultLongPressDelay   = 800 * time.Millisecond
	DefaultPreemptWindow    = 100 * time.Millisecond
	DefaultDragDeadZone     = 4.0 // pixels
	DefaultMinScale         = 0.5
	DefaultMaxScale         = 4.0
	DefaultZoomStep         = 1.25
	DefaultPanPadding       = 50.0 // pixels
	DefaultSnapBackDuration = 300 * time.Millisecond
	DefaultSnapBackEpsilon  = 0.01
	DefaultAutoAdvanceGap   = 1 * time.Second
	DefaultReferenceWidth   = 1200.0
	DefaultReferenceHeight  = 800.0
	DefaultCanvasPadding    = 0.0
)

// Config holds every tunable threshold of the engine.
type Config struct {
	// Gesture disambiguation.
	DoubleTapWindow time.Duration `yaml:"double_tap_window"`
	LongPressDelay  time.Duration `yaml:"long_press_delay"`
	PreemptWindow   time.Duration `yaml:"preempt_window"`
	DragDeadZone    float64       `yaml:"drag_dead_zone"`

	// Transform limits.
	MinScale         float64       `yaml:"min_scale"`
	MaxScale         float64       `yaml:"max_scale"`
	ZoomStep         float64       `yaml:"zoom_step"`
	PanPadding       float64       `yaml:"pan_padding"`
	SnapBackDuration time.Duration `yaml:"snap_back_duration"`
	SnapBackEpsilon  float64       `yaml:"snap_back_epsilon"`

	// Timeline playback.
	AutoAdvanceGap time.Duration `yaml:"auto_advance_gap"`

	// Canvas layout. Element rectangles are authored against the reference size.
	ReferenceWidth  float64 `yaml:"reference_width"`
	ReferenceHeight float64 `yaml:"reference_height"`
	CanvasPadding   float64 `yaml:"canvas_padding"`
}

// DefaultConfig returns a Config populated with the default thresholds.
func DefaultConfig() Config {
	return Config{
		DoubleTapWindow:  DefaultDoubleTapWindow,
		LongPressDelay:   DefaultLongPressDelay,
		PreemptWindow:    DefaultPreemptWindow,
		DragDeadZone:     DefaultDragDeadZone,
		MinScale:         DefaultMinScale,
		MaxScale:         DefaultMaxScale,
		ZoomStep:         DefaultZoomStep,
		PanPadding:       DefaultPanPadding,
		SnapBackDuration: DefaultSnapBackDuration,
		SnapBackEpsilon:  DefaultSnapBackEpsilon,
		AutoAdvanceGap:   DefaultAutoAdvanceGap,
		ReferenceWidth:   DefaultReferenceWidth,
		ReferenceHeight:  DefaultReferenceHeight,
		CanvasPadding:    DefaultCanvasPadding,
	}
}

// Validate reports the first threshold that cannot work.
func (c Config) Validate() error {
	switch {
	case c.DoubleTapWindow < 0:
		return errors.New("double_tap_window must not be negative")
	case c.LongPressDelay <= 0:
		return errors.New("long_press_delay must be positive")
	case c.PreemptWindow < 0:
		return errors.New("preempt_window must not be negative")
	case c.DragDeadZone < 0:
		return errors.New("drag_dead_zone must not be negative")
	case c.MinScale <= 0:
		return errors.New("min_scale must be positive")
	case c.MaxScale < c.MinScale:
		return fmt.Errorf("max_scale %v is below min_scale %v", c.MaxScale, c.MinScale)
	case c.ZoomStep <= 1:
		return errors.New("zoom_step must be greater than 1")
	case c.PanPadding < 0:
		return errors.New("pan_padding must not be negative")
	case c.SnapBackDuration < 0:
		return errors.New("snap_back_duration must not be negative")
	case c.AutoAdvanceGap < 0:
		return errors.New("auto_advance_gap must not be negative")
	case c.ReferenceWidth <= 0 || c.ReferenceHeight <= 0:
		return errors.New("reference size must be positive")
	case c.CanvasPadding < 0:
		return errors.New("canvas_padding must not be negative")
	}
	return nil
}

// DecodeConfig parses YAML over the defaults. Unknown keys are rejected so
// typos surface instead of silently keeping a default.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("slidefx: decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("slidefx: invalid config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("slidefx: load config %s: %w", path, err)
	}
	return DecodeConfig(bytes.NewReader(data))
}
