package config

import (
	"strings"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/gesture"
)

func TestLoadFromReader_Defaults(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("empty config should load defaults: %v", err)
	}

	if cfg.Recognition.PersistenceFrames != 5 {
		t.Errorf("expected default persistence 5, got %d", cfg.Recognition.PersistenceFrames)
	}
	if cfg.Recognition.ConfidenceThreshold != 0.6 {
		t.Errorf("expected default confidence 0.6, got %f", cfg.Recognition.ConfidenceThreshold)
	}
	if cfg.Recognition.ConfirmationWindow() != 3*time.Second {
		t.Errorf("expected 3s confirmation window, got %v", cfg.Recognition.ConfirmationWindow())
	}
	if cfg.Dispatch.MinInterval() != 500*time.Millisecond {
		t.Errorf("expected 500ms min interval, got %v", cfg.Dispatch.MinInterval())
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("expected default listen addr :8080, got %q", cfg.Server.ListenAddr)
	}
}

func TestLoadFromReader_FullConfig(t *testing.T) {
	yaml := `
server:
  listen_addr: ":9090"
camera:
  id: 1
  motion_threshold: 2.5
recognition:
  persistence_frames: 8
  confidence_threshold: 0.75
  confirmation_window_ms: 5000
dispatch:
  min_interval_ms: 750
  per_kind_ms:
    volume-delta: 200
spotify:
  client_id: id
  client_secret: secret
  refresh_token: refresh
mappings:
  - gesture: Pointing_Up
    require_confirmation: true
`
	cfg, err := LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Camera.ID != 1 || cfg.Camera.MotionThreshold != 2.5 {
		t.Errorf("camera config not applied: %+v", cfg.Camera)
	}
	if cfg.Recognition.PersistenceFrames != 8 {
		t.Errorf("expected persistence 8, got %d", cfg.Recognition.PersistenceFrames)
	}

	perKind := cfg.Dispatch.PerKind()
	if perKind[action.KindVolumeDelta] != 200*time.Millisecond {
		t.Errorf("expected 200ms volume-delta override, got %v", perKind[action.KindVolumeDelta])
	}

	table, err := cfg.Table()
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	desc := table.Resolve(gesture.LabelPointingUp)
	if desc == nil || !desc.RequiresConfirmation {
		t.Error("mapping override should mark pointing up as confirmation-required")
	}
}

func TestLoadFromReader_UnknownFieldRejected(t *testing.T) {
	if _, err := LoadFromReader(strings.NewReader("bogus: true\n")); err == nil {
		t.Error("expected error for unknown top-level field")
	}
}

func TestValidate_Failures(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"bad confidence", "recognition:\n  confidence_threshold: 1.5\n"},
		{"negative interval", "dispatch:\n  min_interval_ms: -1\n"},
		{"unknown per-kind", "dispatch:\n  per_kind_ms:\n    dance: 100\n"},
		{"unknown gesture", "mappings:\n  - gesture: Wave\n    action: stop\n"},
		{"unknown action", "mappings:\n  - gesture: Victory\n    action: dance\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadFromReader(strings.NewReader(tc.yaml)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfig_TableRebindAndDisable(t *testing.T) {
	yaml := `
mappings:
  - gesture: Victory
    action: volume-delta
    percent: -10
  - gesture: ILoveYou
    disabled: true
`
	cfg, err := LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	table, err := cfg.Table()
	if err != nil {
		t.Fatalf("table: %v", err)
	}

	desc := table.Resolve(gesture.LabelVictory)
	if desc == nil || desc.Kind != action.KindVolumeDelta || desc.Percent() != -10 {
		t.Errorf("expected victory rebound to volume-delta(-10), got %+v", desc)
	}
	if table.Resolve(gesture.LabelILoveYou) != nil {
		t.Error("disabled mapping should be unbound")
	}
}

func TestSpotifyEnvFallback(t *testing.T) {
	t.Setenv("SPOTIFY_CLIENT_ID", "env-id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "env-secret")
	t.Setenv("SPOTIFY_REFRESH_TOKEN", "env-refresh")

	cfg, err := LoadFromReader(strings.NewReader("spotify:\n  client_id: yaml-id\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Spotify.ClientID != "yaml-id" {
		t.Errorf("yaml value must win over env, got %q", cfg.Spotify.ClientID)
	}
	if cfg.Spotify.ClientSecret != "env-secret" || cfg.Spotify.RefreshToken != "env-refresh" {
		t.Errorf("empty fields should fall back to env, got %+v", cfg.Spotify)
	}
}
