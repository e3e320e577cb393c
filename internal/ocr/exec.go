package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ExecRecognizer shells out to an external OCR engine (tesseract by
// default), feeding it the frame as a temporary PNG and splitting its stdout
// into lines. Completion is delivered through the Recognizer callbacks on a
// background goroutine.
type ExecRecognizer struct {
	Command string
	Args    []string // appended after the image path
	Timeout time.Duration
}

const (
	execCommandDefault = "tesseract"
	execTimeoutDefault = 30 * time.Second
)

// NewExecRecognizer builds a recognizer for the given command. Empty command
// selects tesseract with stdout output.
func NewExecRecognizer(command string, args []string) *ExecRecognizer {
	if command == "" {
		command = execCommandDefault
		args = []string{"stdout", "-l", "kor+eng"}
	}
	return &ExecRecognizer{Command: command, Args: args, Timeout: execTimeoutDefault}
}

// Process implements Recognizer.
func (r *ExecRecognizer) Process(img image.Image, onResult func([]string), onErr func(error)) {
	go func() {
		lines, err := r.run(img)
		if err != nil {
			onErr(err)
			return
		}
		onResult(lines)
	}()
}

func (r *ExecRecognizer) run(img image.Image) ([]string, error) {
	dir, err := os.MkdirTemp("", "screenguard-ocr-")
	if err != nil {
		return nil, fmt.Errorf("ocr temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	framePath := filepath.Join(dir, "frame.png")
	f, err := os.Create(framePath)
	if err != nil {
		return nil, fmt.Errorf("ocr frame file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close frame file: %w", err)
	}

	args := append([]string{framePath}, r.Args...)
	cmd := exec.Command(r.Command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = execTimeoutDefault
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", r.Command, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("%s: %w (%s)", r.Command, err, strings.TrimSpace(stderr.String()))
		}
	case <-time.After(timeout):
		_ = cmd.Process.Kill()
		<-done
		return nil, fmt.Errorf("%s: timed out after %s", r.Command, timeout)
	}

	return strings.Split(stdout.String(), "\n"), nil
}
