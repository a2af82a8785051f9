package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/gesture"
	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated
// [Config] with defaults applied for unset values. A missing file is not
// an error: the defaults are returned.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies defaults and
// environment fallbacks, and validates the result. Useful in tests where
// configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	cfg.applyEnv()
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv fills empty Spotify credentials from the environment.
func (c *Config) applyEnv() {
	if c.Spotify.ClientID == "" {
		c.Spotify.ClientID = os.Getenv("SPOTIFY_CLIENT_ID")
	}
	if c.Spotify.ClientSecret == "" {
		c.Spotify.ClientSecret = os.Getenv("SPOTIFY_CLIENT_SECRET")
	}
	if c.Spotify.RefreshToken == "" {
		c.Spotify.RefreshToken = os.Getenv("SPOTIFY_REFRESH_TOKEN")
	}
}

// Validate checks that cfg contains a coherent set of values. It returns a
// joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Recognition.PersistenceFrames < 0 {
		errs = append(errs, fmt.Errorf("recognition.persistence_frames must not be negative"))
	}
	if ct := cfg.Recognition.ConfidenceThreshold; ct < 0 || ct > 1 {
		errs = append(errs, fmt.Errorf("recognition.confidence_threshold must be in [0,1], got %v", ct))
	}
	if cfg.Recognition.ConfirmationWindowMs < 0 {
		errs = append(errs, fmt.Errorf("recognition.confirmation_window_ms must not be negative"))
	}
	if cfg.Dispatch.MinIntervalMs < 0 {
		errs = append(errs, fmt.Errorf("dispatch.min_interval_ms must not be negative"))
	}
	for kind, ms := range cfg.Dispatch.PerKindMs {
		if !action.Kind(kind).IsValid() {
			errs = append(errs, fmt.Errorf("dispatch.per_kind_ms: unknown action kind %q", kind))
		}
		if ms < 0 {
			errs = append(errs, fmt.Errorf("dispatch.per_kind_ms[%q] must not be negative", kind))
		}
	}
	if cfg.Camera.MotionThreshold < 0 {
		errs = append(errs, fmt.Errorf("camera.motion_threshold must not be negative"))
	}

	for _, m := range cfg.Mappings {
		label := gesture.Label(m.Gesture)
		if !label.IsValid() || label == gesture.LabelNone {
			errs = append(errs, fmt.Errorf("mappings: unknown gesture %q", m.Gesture))
		}
		if m.Action != "" && !action.Kind(m.Action).IsValid() {
			errs = append(errs, fmt.Errorf("mappings: unknown action %q", m.Action))
		}
	}

	return errors.Join(errs...)
}
