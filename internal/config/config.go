// Package config provides the YAML configuration schema and loader for the
// mudra gesture control application.
package config

import (
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/gesture"
)

// Config is the root configuration structure, typically loaded from
// ~/.mudra/config.yaml using [Load].
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Camera      CameraConfig      `yaml:"camera"`
	Recognition RecognitionConfig `yaml:"recognition"`
	Dispatch    DispatchConfig    `yaml:"dispatch"`
	Spotify     SpotifyConfig     `yaml:"spotify"`
	Mappings    []MappingConfig   `yaml:"mappings"`
}

// ServerConfig holds the settings HTTP server address.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`
}

// CameraConfig selects the capture device and motion gating.
type CameraConfig struct {
	// ID is the capture device index (0 is usually the built-in webcam).
	ID int `yaml:"id"`

	// MotionThreshold is the percentage of changed pixels that counts as
	// motion, waking the pipeline from idle mode.
	MotionThreshold float64 `yaml:"motion_threshold"`
}

// RecognitionConfig tunes the debounce and confirmation timing.
type RecognitionConfig struct {
	// PersistenceFrames is how many consecutive frames a gesture must hold
	// before it counts as deliberate.
	PersistenceFrames int `yaml:"persistence_frames"`

	// ConfidenceThreshold is the minimum classifier confidence per frame.
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`

	// ConfirmationWindowMs is how long a confirmation-requiring action
	// waits for the closed-fist gesture.
	ConfirmationWindowMs int `yaml:"confirmation_window_ms"`
}

// ConfirmationWindow returns the confirmation window as a duration.
func (r RecognitionConfig) ConfirmationWindow() time.Duration {
	return time.Duration(r.ConfirmationWindowMs) * time.Millisecond
}

// DispatchConfig tunes the rate limiter.
type DispatchConfig struct {
	// MinIntervalMs is the minimum time between two dispatches of the same
	// action kind.
	MinIntervalMs int `yaml:"min_interval_ms"`

	// PerKindMs overrides MinIntervalMs for individual action kinds.
	PerKindMs map[string]int `yaml:"per_kind_ms"`
}

// MinInterval returns the global minimum interval as a duration.
func (d DispatchConfig) MinInterval() time.Duration {
	return time.Duration(d.MinIntervalMs) * time.Millisecond
}

// PerKind returns the per-kind interval overrides keyed by action kind.
func (d DispatchConfig) PerKind() map[action.Kind]time.Duration {
	if len(d.PerKindMs) == 0 {
		return nil
	}
	out := make(map[action.Kind]time.Duration, len(d.PerKindMs))
	for k, ms := range d.PerKindMs {
		out[action.Kind(k)] = time.Duration(ms) * time.Millisecond
	}
	return out
}

// SpotifyConfig carries the OAuth credentials. Any field left empty falls
// back to the matching environment variable (SPOTIFY_CLIENT_ID,
// SPOTIFY_CLIENT_SECRET, SPOTIFY_REFRESH_TOKEN).
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RefreshToken string `yaml:"refresh_token"`
}

// MappingConfig overrides one gesture->action binding.
type MappingConfig struct {
	Gesture string `yaml:"gesture"`
	Action  string `yaml:"action"`

	// Percent is the volume delta for volume-delta actions.
	Percent int `yaml:"percent"`

	// RequireConfirmation makes the action wait for the confirmation
	// gesture before firing.
	RequireConfirmation bool `yaml:"require_confirmation"`

	// Disabled removes the default binding for this gesture.
	Disabled bool `yaml:"disabled"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{ListenAddr: ":8080"},
		Camera: CameraConfig{ID: 0, MotionThreshold: 1.0},
		Recognition: RecognitionConfig{
			PersistenceFrames:    gesture.DefaultPersistenceFrames,
			ConfidenceThreshold:  gesture.DefaultConfidenceThreshold,
			ConfirmationWindowMs: 3000,
		},
		Dispatch: DispatchConfig{
			MinIntervalMs: int(dispatch.DefaultMinInterval / time.Millisecond),
		},
	}
}

// Table builds the action mapping table: the defaults with the configured
// overrides applied.
func (c *Config) Table() (*action.Table, error) {
	table := action.DefaultTable()
	for _, m := range c.Mappings {
		label := gesture.Label(m.Gesture)

		if m.Disabled {
			table.Unbind(label)
			continue
		}

		desc := &action.Descriptor{
			Kind:                 action.Kind(m.Action),
			RequiresConfirmation: m.RequireConfirmation,
		}
		if desc.Kind == action.KindVolumeDelta {
			percent := m.Percent
			if percent == 0 {
				percent = 10
			}
			desc.Params = map[string]int{action.ParamPercent: percent}
		}

		if m.Action == "" {
			// Override only the confirmation flag of an existing binding.
			if !table.SetConfirmation(label, m.RequireConfirmation) {
				return nil, &MappingError{Gesture: m.Gesture, Reason: "no binding to modify"}
			}
			continue
		}

		if err := table.Bind(label, desc); err != nil {
			return nil, &MappingError{Gesture: m.Gesture, Reason: err.Error()}
		}
	}
	return table, nil
}

// MappingError reports an invalid mapping override.
type MappingError struct {
	Gesture string
	Reason  string
}

func (e *MappingError) Error() string {
	return "mapping for gesture " + e.Gesture + ": " + e.Reason
}
