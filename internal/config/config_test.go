package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scan.PerMinute != 12 {
		t.Errorf("default per_minute = %d, want 12", cfg.Scan.PerMinute)
	}
	if cfg.Assess.Provider != "none" {
		t.Errorf("default provider = %q, want none", cfg.Assess.Provider)
	}
	if cfg.OCR.Command != "tesseract" {
		t.Errorf("default ocr command = %q", cfg.OCR.Command)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
dirs:
  inbox: /tmp/sg/inbox
  outbox: /tmp/sg/outbox
  state: /tmp/sg/state
capture:
  width: 720
  height: 1280
  acquire_timeout: 3s
assess:
  provider: bedrock
  region: ap-northeast-2
  model_id: anthropic.claude-3-haiku-20240307-v1:0
scan:
  per_minute: 30
alerts:
  - url: https://hooks.example.com/scan
    format: slack
    events: [ai_finding]
`
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dirs.Inbox != "/tmp/sg/inbox" {
		t.Errorf("inbox = %q", cfg.Dirs.Inbox)
	}
	if cfg.Capture.Width != 720 || cfg.Capture.Height != 1280 {
		t.Errorf("capture geometry = %dx%d", cfg.Capture.Width, cfg.Capture.Height)
	}
	if cfg.Capture.AcquireTimeout != 3*time.Second {
		t.Errorf("acquire_timeout = %v", cfg.Capture.AcquireTimeout)
	}
	if cfg.Assess.Provider != "bedrock" || cfg.Assess.Region != "ap-northeast-2" {
		t.Errorf("assess = %+v", cfg.Assess)
	}
	if cfg.Scan.PerMinute != 30 {
		t.Errorf("per_minute = %d", cfg.Scan.PerMinute)
	}
	if len(cfg.Alerts) != 1 || cfg.Alerts[0].Format != "slack" {
		t.Errorf("alerts = %+v", cfg.Alerts)
	}
	// Unset sections keep their defaults.
	if cfg.OCR.Command != "tesseract" {
		t.Errorf("ocr command = %q, want default", cfg.OCR.Command)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("dirs: [not a map"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
