// Package config loads the screenguard YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/screenguard/internal/alert"
)

// Config is the full daemon configuration.
type Config struct {
	Dirs     DirsConfig          `yaml:"dirs"`
	Capture  CaptureConfig       `yaml:"capture"`
	OCR      OCRConfig           `yaml:"ocr"`
	Assess   AssessConfig        `yaml:"assess"`
	Keywords KeywordsConfig      `yaml:"keywords"`
	Scan     ScanConfig          `yaml:"scan"`
	Alerts   []alert.AlertConfig `yaml:"alerts"`

	PollMode     bool          `yaml:"poll_mode"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// DirsConfig holds the inbox/outbox/state layout.
type DirsConfig struct {
	Inbox  string `yaml:"inbox"`
	Outbox string `yaml:"outbox"`
	State  string `yaml:"state"`
}

// CaptureConfig holds capture geometry and the frame spool location.
type CaptureConfig struct {
	SpoolDir       string        `yaml:"spool_dir"`
	Width          int           `yaml:"width"`
	Height         int           `yaml:"height"`
	Density        int           `yaml:"density"`
	AcquireTimeout time.Duration `yaml:"acquire_timeout"`
}

// OCRConfig selects the external text recognizer.
type OCRConfig struct {
	Command string        `yaml:"command"`
	Args    []string      `yaml:"args"`
	Timeout time.Duration `yaml:"timeout"`
}

// AssessConfig selects and configures the AI risk assessor.
// Provider is "bedrock", "http", or "none".
type AssessConfig struct {
	Provider  string        `yaml:"provider"`
	Region    string        `yaml:"region"`
	ModelID   string        `yaml:"model_id"`
	AccessKey string        `yaml:"access_key"`
	SecretKey string        `yaml:"secret_key"`
	APIURL    string        `yaml:"api_url"`
	APIKey    string        `yaml:"api_key"`
	Model     string        `yaml:"model"`
	MaxTokens int           `yaml:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout"`
}

// KeywordsConfig locates the keyword database.
type KeywordsConfig struct {
	Path string `yaml:"path"`
}

// ScanConfig bounds scan admission.
type ScanConfig struct {
	PerMinute int `yaml:"per_minute"`
}

// Default returns the built-in configuration.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/var/lib/screenguard"
	}
	base := filepath.Join(home, ".screenguard")
	return &Config{
		Dirs: DirsConfig{
			Inbox:  filepath.Join(base, "inbox"),
			Outbox: filepath.Join(base, "outbox"),
			State:  filepath.Join(base, "state"),
		},
		Capture: CaptureConfig{
			SpoolDir: filepath.Join(base, "frames"),
			Width:    1080,
			Height:   2400,
			Density:  420,
		},
		OCR: OCRConfig{
			Command: "tesseract",
		},
		Assess: AssessConfig{
			Provider: "none",
		},
		Keywords: KeywordsConfig{
			Path: filepath.Join(base, "keywords.db"),
		},
		Scan: ScanConfig{
			PerMinute: 12,
		},
	}
}

// Load reads config from the given path. If path is empty, tries the
// SCREENGUARD_CONFIG env var, then ~/.screenguard/config.yaml. A missing
// file yields the defaults, not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("SCREENGUARD_CONFIG")
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Default(), nil
		}
		path = filepath.Join(home, ".screenguard", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
