package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/screenguard/internal/scan"
)

// Runner executes one scan for a request ID. *scan.Orchestrator is the
// production implementation.
type Runner interface {
	Run(ctx context.Context, scanID string) (scan.Outcome, error)
}

// ProcessorConfig holds runtime configuration for request processing.
type ProcessorConfig struct {
	Dirs DirConfig
}

// Processor handles request lifecycle transitions.
type Processor struct {
	cfg    ProcessorConfig
	runner Runner
}

// NewProcessor creates a processor bound to a scan runner.
func NewProcessor(cfg ProcessorConfig, runner Runner) *Processor {
	return &Processor{cfg: cfg, runner: runner}
}

// Process handles a single request file through its full lifecycle:
// read → validate → move to processing → scan → write result to outbox.
func (p *Processor) Process(ctx context.Context, reqPath string) error {
	// Structural symlink defense: reject symlinks before reading. Without
	// this, a symlink to a valid JSON file elsewhere on the filesystem
	// would be processed as a legitimate request.
	fi, err := os.Lstat(reqPath)
	if err != nil {
		return fmt.Errorf("stat request file: %w", err)
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("rejected symlink: %s", filepath.Base(reqPath))
	}

	data, err := os.ReadFile(reqPath)
	if err != nil {
		return fmt.Errorf("read request file: %w", err)
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		_ = os.Remove(reqPath)
		return p.writeFailedResult(filepath.Base(reqPath), fmt.Sprintf("invalid JSON: %v", err))
	}

	if err := ValidateRequest(&req); err != nil {
		_ = os.Remove(reqPath)
		return p.writeFailedResult(req.ID, fmt.Sprintf("validation failed: %v", err))
	}

	// Move to processing state. Uses moveFile to handle systemd bind
	// mounts (EXDEV).
	processingPath := filepath.Join(p.cfg.Dirs.ProcessingDir(), req.ID+".json")
	if err := moveFile(reqPath, processingPath); err != nil {
		return fmt.Errorf("move to processing: %w", err)
	}

	result := p.execute(ctx, &req)

	if err := p.writeResult(result); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	_ = os.Remove(processingPath)
	return nil
}

// execute runs the scan and maps its terminal condition to a result status:
// admission rejections are "rejected", pipeline failures "failed".
func (p *Processor) execute(ctx context.Context, req *Request) *Result {
	outcome, err := p.runner.Run(ctx, req.ID)
	if err != nil {
		status := ResultFailed
		if errors.Is(err, scan.ErrBusy) || errors.Is(err, scan.ErrRateLimited) {
			status = ResultRejected
		}
		return &Result{
			ID:          req.ID,
			Status:      status,
			Error:       err.Error(),
			CompletedAt: time.Now().UTC(),
		}
	}
	return resultFrom(req.ID, outcome)
}

// writeResult writes a result to the outbox directory atomically.
func (p *Processor) writeResult(r *Result) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	filename := r.ID + ".json"
	tmpPath := filepath.Join(p.cfg.Dirs.Outbox, filename+".tmp")
	finalPath := filepath.Join(p.cfg.Dirs.Outbox, filename)

	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	return os.Rename(tmpPath, finalPath)
}

// writeFailedResult writes a minimal failed result when the request can't
// be parsed.
func (p *Processor) writeFailedResult(id string, errMsg string) error {
	// The ID may have failed validation; never let it shape a path.
	id = filepath.Base(id)
	if id == "" || id == "." || id == string(filepath.Separator) {
		id = fmt.Sprintf("unknown-%d", time.Now().UnixNano())
	}
	r := &Result{
		ID:          id,
		Status:      ResultFailed,
		Error:       errMsg,
		CompletedAt: time.Now().UTC(),
	}
	return p.writeResult(r)
}
