// Package app provides the main application logic for the Mudra gesture control system.
package app

import (
	"log"
	"sync"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/classifier"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active detection.
	ActiveFPS = 15
	// IdleTimeoutMs is the time in milliseconds to wait before switching back to idle mode.
	IdleTimeoutMs = 2000
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	Engine       *engine.Engine
	CameraID     int
	MotionThresh float64
	IdleFPS      int
	ActiveFPS    int
}

// App owns the capture pipeline and feeds classified gesture samples into
// the control engine.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	detector   detector.Detector
	classifier classifier.Classifier
	engine     *engine.Engine
	enabled    bool
	mu         sync.RWMutex
	stopCh     chan struct{}
}

// New creates a new App instance with the given configuration. The engine
// is required; everything else has working defaults.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}
	if config.IdleFPS <= 0 {
		config.IdleFPS = IdleFPS
	}
	if config.ActiveFPS <= 0 {
		config.ActiveFPS = ActiveFPS
	}

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID),
		motion:     capture.NewMotionDetector(motionThreshold),
		classifier: classifier.NewPoseClassifier(),
		engine:     config.Engine,
		enabled:    true,
		stopCh:     nil,
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	if config.Store != nil && a.engine != nil {
		a.engine.Subscribe(a.recordHistory)
	}

	return a
}

// recordHistory logs dispatch attempts to the store.
func (a *App) recordHistory(ev engine.Event) {
	if ev.Type != engine.EventDispatched {
		return
	}
	err := a.config.Store.History().Insert(&store.HistoryEntry{
		Gesture:   string(ev.Gesture),
		Action:    string(ev.Action),
		Outcome:   string(ev.Outcome),
		Detail:    ev.Detail,
		CreatedAt: ev.At,
	})
	if err != nil {
		log.Printf("Failed to record dispatch history: %v", err)
	}
}

// SetEnabled enables or disables gesture control. Disabling resets the
// engine so a half-confirmed intent cannot fire after re-enable.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
	if !enabled && a.engine != nil {
		a.engine.Reset()
	}
}

// IsEnabled returns whether gesture control is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetClassifier sets the gesture classifier implementation to use.
func (a *App) SetClassifier(c classifier.Classifier) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.classifier = c
}

// SetCamera replaces the camera. Only valid before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Start begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.camera.SetFPS(a.config.IdleFPS)

	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Gesture pipeline started")
	return nil
}

// Stop halts the detection pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Gesture pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Engine returns the control engine.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
