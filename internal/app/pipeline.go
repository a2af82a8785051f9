package app

import (
	"context"
	"log"
	"time"

	"gocv.io/x/gocv"
)

// runPipeline is the main loop that processes frames from the camera.
// It manages the state transitions between idle and active modes based on
// motion detection.
//
// Pipeline logic:
// 1. Start in idle mode (idle FPS)
// 2. On motion detected, switch to active mode (active FPS)
// 3. Run hand detection and pose classification
// 4. Feed samples into the control engine
// 5. After 2s no motion, switch back to idle mode and reset the debounce
func (a *App) runPipeline(stopCh chan struct{}) {
	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(a.config.IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			// Let an abandoned confirmation window expire even during
			// gesture silence.
			if a.engine != nil {
				a.engine.Tick(time.Now())
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					a.camera.SetFPS(a.config.ActiveFPS)
					frameInterval = time.Second / time.Duration(a.config.ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.camera.SetFPS(a.config.IdleFPS)
					frameInterval = time.Second / time.Duration(a.config.IdleFPS)
					ticker.Reset(frameInterval)
					// A stable run cannot straddle an idle gap.
					if a.engine != nil {
						a.engine.Reset()
					}
					log.Println("Switched to idle mode")
				}
			}

			if !activeMode {
				frame.Close()
				continue
			}

			a.processFrame(frame, time.Now())
			frame.Close()
		}
	}
}

// processFrame runs detection and classification on one frame and feeds the
// resulting sample into the engine.
func (a *App) processFrame(frame *gocv.Mat, at time.Time) {
	a.mu.RLock()
	det := a.detector
	cls := a.classifier
	a.mu.RUnlock()

	if det == nil || cls == nil || a.engine == nil {
		return
	}

	hands, err := det.Detect(frame)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		return
	}

	sample := cls.Classify(hands, at)
	a.engine.ProcessSample(context.Background(), sample)
}
