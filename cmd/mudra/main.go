package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/spotify"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	fmt.Println("Mudra - Gesture Control for Spotify")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	cfg, err := config.Load(filepath.Join(dataDir, "config.yaml"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "mudra.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	table, err := cfg.Table()
	if err != nil {
		log.Fatalf("Invalid gesture mappings: %v", err)
	}
	if err := applyStoredMappings(table, st); err != nil {
		log.Printf("Failed to apply saved mappings: %v", err)
	}

	client := spotify.NewClient(spotify.Credentials{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		RefreshToken: cfg.Spotify.RefreshToken,
	})

	dispatcher := dispatch.NewDispatcher(client, cfg.Dispatch.MinInterval(), cfg.Dispatch.PerKind())

	eng := engine.New(engine.Config{
		PersistenceFrames:   cfg.Recognition.PersistenceFrames,
		ConfidenceThreshold: cfg.Recognition.ConfidenceThreshold,
		ConfirmationWindow:  cfg.Recognition.ConfirmationWindow(),
	}, table, dispatcher)

	a := app.New(app.Config{
		Store:        st,
		Engine:       eng,
		CameraID:     cfg.Camera.ID,
		MotionThresh: cfg.Camera.MotionThreshold,
	})

	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Table:     table,
		Camera:    a.Camera(),
		Engine:    eng,
	})

	// The enable toggle survives restarts.
	if v, err := st.Settings().Get("enabled"); err == nil && v == "false" {
		a.SetEnabled(false)
	}

	tr := tray.New()
	eng.Subscribe(tr.HandleEvent)
	tr.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
		if err := st.Settings().Set("enabled", strconv.FormatBool(enabled)); err != nil {
			log.Printf("Failed to save enabled state: %v", err)
		}
	})
	tr.OnSettings(func() {
		openBrowser("http://localhost" + cfg.Server.ListenAddr)
	})
	tr.OnQuit(a.Stop)

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Server.ListenAddr)
		if err := srv.ListenAndServe(cfg.Server.ListenAddr); err != nil {
			log.Printf("Server failed: %v", err)
		}
	}()

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start gesture pipeline: %v", err)
	}

	// Blocks until Quit is chosen from the tray menu.
	tr.Run()
}

// applyStoredMappings layers the overrides saved through the settings API
// on top of the configured table.
func applyStoredMappings(table *action.Table, st *store.Store) error {
	mappings, err := st.Mappings().List()
	if err != nil {
		return err
	}

	var errs []error
	for _, m := range mappings {
		label := gesture.Label(m.Gesture)
		if !m.Enabled {
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

		if err := table.Bind(label, desc); err != nil {
			errs = append(errs, fmt.Errorf("mapping %q: %w", m.Gesture, err))
		}
	}
	return errors.Join(errs...)
}

// openBrowser opens url in the default browser.
func openBrowser(url string) {
	if err := exec.Command("open", url).Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
