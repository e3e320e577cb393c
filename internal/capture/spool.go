package capture

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/screenguard/internal/permission"
)

// SpoolBackend mirrors the display through a spool directory: a host-side
// capture agent drops PNG frames there, and AcquireLatest picks up the
// newest one. Frames compete only on recency: the most recent rendered
// content wins.
type SpoolBackend struct {
	Dir string

	// PollInterval controls how often AcquireLatest re-checks the spool.
	PollInterval time.Duration
}

const spoolPollDefault = 50 * time.Millisecond

// NewSpoolBackend creates a backend over the given spool directory.
func NewSpoolBackend(dir string) *SpoolBackend {
	return &SpoolBackend{Dir: dir, PollInterval: spoolPollDefault}
}

// CreateSurface validates the spool directory and returns a surface over it.
func (b *SpoolBackend) CreateSurface(g *permission.Grant, width, height, density int) (Surface, error) {
	if g == nil || !g.Valid() {
		return nil, ErrNoPermission
	}
	fi, err := os.Stat(b.Dir)
	if err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("spool directory %s unavailable", b.Dir)
	}
	interval := b.PollInterval
	if interval <= 0 {
		interval = spoolPollDefault
	}
	return &spoolSurface{dir: b.Dir, interval: interval}, nil
}

type spoolSurface struct {
	dir      string
	interval time.Duration
	released bool
}

func (s *spoolSurface) Queryable() bool {
	if s.released {
		return false
	}
	fi, err := os.Stat(s.dir)
	return err == nil && fi.IsDir()
}

// AcquireLatest waits for the newest frame file and decodes it into a
// RawFrame. The consumed file is removed on release so a stale frame is
// never served twice.
func (s *spoolSurface) AcquireLatest(ctx context.Context) (*RawFrame, error) {
	for {
		path, ok := s.newestFrame()
		if ok {
			frame, err := s.decodeFrame(path)
			if err != nil {
				// Partial write or junk file; drop it and keep waiting.
				_ = os.Remove(path)
			} else {
				return frame, nil
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.interval):
		}
	}
}

func (s *spoolSurface) Release() error {
	s.released = true
	return nil
}

// newestFrame returns the most recently modified .png in the spool.
func (s *spoolSurface) newestFrame() (string, bool) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", false
	}
	var newest string
	var newestMod time.Time
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".png") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = filepath.Join(s.dir, e.Name())
			newestMod = info.ModTime()
		}
	}
	return newest, newest != ""
}

func (s *spoolSurface) decodeFrame(path string) (*RawFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	src, err := png.Decode(f)
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)

	return NewRawFrame(rgba.Pix, bounds.Dx(), bounds.Dy(), 4, rgba.Stride, func() {
		_ = os.Remove(path)
	}), nil
}
