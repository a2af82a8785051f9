package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// mediapipeIdleShutdown is how long the Python process may sit unused
// before it is stopped to free memory.
const mediapipeIdleShutdown = 30 * time.Second

const mediapipeScript = "mediapipe_service.py"

// MediaPipeDetector implements Detector using a Python MediaPipe subprocess.
// Frames go out as length-prefixed JPEG; landmarks come back as one JSON
// line per frame.
type MediaPipeDetector struct {
	config Config

	mu        sync.Mutex
	proc      *exec.Cmd
	frameIn   io.WriteCloser
	handsOut  *bufio.Reader
	idleTimer *time.Timer
}

// NewMediaPipeDetector creates a new MediaPipe detector.
// The Python process is started lazily on first detection.
func NewMediaPipeDetector(config Config) (*MediaPipeDetector, error) {
	if probeNear(mediapipeScript, "scripts") == "" {
		return nil, fmt.Errorf("%s not found", mediapipeScript)
	}
	return &MediaPipeDetector{config: config}, nil
}

// Detect analyzes a frame and returns detected hand landmarks.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	jpeg := buf.GetBytes()

	err = d.writeFrame(jpeg)
	buf.Close()
	if err != nil {
		// A dead subprocess stays down until the next Detect restarts it.
		d.shutdown()
		return nil, err
	}

	hands, err := d.readHands()
	if err != nil {
		d.shutdown()
		return nil, err
	}

	d.resetIdleTimer()
	return hands, nil
}

// writeFrame sends one JPEG frame: 4-byte big-endian length, then the bytes.
func (d *MediaPipeDetector) writeFrame(jpeg []byte) error {
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(jpeg)))

	if _, err := d.frameIn.Write(length[:]); err != nil {
		return fmt.Errorf("write frame length: %w", err)
	}
	if _, err := d.frameIn.Write(jpeg); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// readHands reads one JSON response line and converts it.
func (d *MediaPipeDetector) readHands() ([]HandLandmarks, error) {
	line, err := d.handsOut.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var response struct {
		Hands []jsonHand `json:"hands"`
	}
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	hands := make([]HandLandmarks, len(response.Hands))
	for i, h := range response.Hands {
		hands[i] = h.toHandLandmarks()
	}
	return hands, nil
}

// Close shuts down the Python process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *MediaPipeDetector) ensureStarted() error {
	if d.proc != nil {
		return nil
	}

	scriptPath := probeNear(mediapipeScript, "scripts")
	if scriptPath == "" {
		return fmt.Errorf("%s not found", mediapipeScript)
	}

	// Use virtual environment Python if available
	pythonPath := probeNear("python", "venv/bin")
	if pythonPath == "" {
		pythonPath = "python3"
	}

	cmd := exec.Command(pythonPath, scriptPath,
		"--max-hands", strconv.Itoa(d.config.MaxHands),
		"--min-detection-confidence", strconv.FormatFloat(d.config.MinConfidence, 'f', -1, 64),
		"--min-tracking-confidence", strconv.FormatFloat(d.config.MinTrackingConf, 'f', -1, 64),
	)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start mediapipe service: %w", err)
	}

	d.proc = cmd
	d.frameIn = stdin
	d.handsOut = bufio.NewReader(stdout)

	return nil
}

func (d *MediaPipeDetector) shutdown() error {
	if d.proc == nil {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	if d.frameIn != nil {
		d.frameIn.Close()
	}

	err := d.proc.Wait()
	d.proc = nil
	d.frameIn = nil
	d.handsOut = nil

	return err
}

func (d *MediaPipeDetector) resetIdleTimer() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(mediapipeIdleShutdown, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.shutdown()
	})
}

// probeNear looks for dir/name relative to the working directory, its
// parent, the binary's directory, and ~/.mudra. Returns an absolute path
// or "".
func probeNear(name, dir string) string {
	rel := filepath.Join(dir, name)

	candidates := []string{
		rel,
		filepath.Join("..", rel),
	}
	if execPath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(execPath), rel))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".mudra", rel))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
			return path
		}
	}
	return ""
}

// jsonHand represents the JSON structure from the Python service.
type jsonHand struct {
	Points     []jsonPoint `json:"points"`
	Handedness string      `json:"handedness"`
	Score      float64     `json:"score"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (h jsonHand) toHandLandmarks() HandLandmarks {
	lm := HandLandmarks{
		Handedness: h.Handedness,
		Score:      h.Score,
	}

	for i := 0; i < NumLandmarks && i < len(h.Points); i++ {
		lm.Points[i] = Point3D{
			X: h.Points[i].X,
			Y: h.Points[i].Y,
			Z: h.Points[i].Z,
		}
	}

	return lm
}
