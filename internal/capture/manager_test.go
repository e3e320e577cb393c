package capture

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ppiankov/screenguard/internal/permission"
)

// fakeBackend counts surface creations and serves frames from memory.
type fakeBackend struct {
	created  int
	frame    *RawFrame
	frameErr error

	// queryable controls whether issued surfaces still look valid.
	queryable bool
	releases  int
}

func (b *fakeBackend) CreateSurface(g *permission.Grant, w, h, d int) (Surface, error) {
	b.created++
	return &fakeSurface{backend: b}, nil
}

type fakeSurface struct {
	backend *fakeBackend
}

func (s *fakeSurface) Queryable() bool { return s.backend.queryable }

func (s *fakeSurface) AcquireLatest(ctx context.Context) (*RawFrame, error) {
	if s.backend.frameErr != nil {
		return nil, s.backend.frameErr
	}
	if s.backend.frame == nil {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.backend.frame, nil
}

func (s *fakeSurface) Release() error {
	s.backend.releases++
	return nil
}

func setupManager(t *testing.T, backend *fakeBackend) (*Manager, *permission.Holder, *int) {
	t.Helper()
	stops := 0
	holder := permission.NewHolder()
	holder.Set(permission.NewGrant(func() error { stops++; return nil }))
	m := NewManager(backend, holder, Config{
		Width: 4, Height: 2, Density: 160,
		AcquireTimeout: 100 * time.Millisecond,
	})
	return m, holder, &stops
}

func paddedFrame(released *bool) *RawFrame {
	// 4x2 RGBA with 8 bytes of row padding.
	const w, h, ps, rs = 4, 2, 4, 24
	pix := make([]byte, rs*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w*ps; x++ {
			pix[y*rs+x] = byte(y*16 + x)
		}
	}
	return NewRawFrame(pix, w, h, ps, rs, func() { *released = true })
}

func TestEnsureInitializedIdempotent(t *testing.T) {
	backend := &fakeBackend{queryable: true}
	m, _, _ := setupManager(t, backend)

	if err := m.EnsureInitialized(); err != nil {
		t.Fatalf("EnsureInitialized: %v", err)
	}
	if err := m.EnsureInitialized(); err != nil {
		t.Fatalf("EnsureInitialized (second): %v", err)
	}
	if backend.created != 1 {
		t.Errorf("surfaces created = %d, want 1 (session must be reused)", backend.created)
	}
}

func TestEnsureInitializedRebuildsStaleSurface(t *testing.T) {
	backend := &fakeBackend{queryable: true}
	m, _, _ := setupManager(t, backend)

	if err := m.EnsureInitialized(); err != nil {
		t.Fatalf("EnsureInitialized: %v", err)
	}

	// Platform silently invalidates the display.
	backend.queryable = false
	if err := m.EnsureInitialized(); err != nil {
		t.Fatalf("EnsureInitialized after stale: %v", err)
	}
	if backend.created != 2 {
		t.Errorf("surfaces created = %d, want 2 (stale surface must be rebuilt)", backend.created)
	}
	if backend.releases != 1 {
		t.Errorf("releases = %d, want 1 (stale surface torn down)", backend.releases)
	}
}

func TestEnsureInitializedNoPermission(t *testing.T) {
	backend := &fakeBackend{queryable: true}
	m := NewManager(backend, permission.NewHolder(), Config{Width: 1, Height: 1})

	if err := m.EnsureInitialized(); !errors.Is(err, ErrNoPermission) {
		t.Errorf("err = %v, want ErrNoPermission", err)
	}
	if backend.created != 0 {
		t.Error("no surface should be created without a grant")
	}
}

func TestCaptureFrameStripsRowPadding(t *testing.T) {
	released := false
	backend := &fakeBackend{queryable: true, frame: paddedFrame(&released)}
	m, _, _ := setupManager(t, backend)

	if err := m.EnsureInitialized(); err != nil {
		t.Fatalf("EnsureInitialized: %v", err)
	}
	img, err := m.CaptureFrame(context.Background())
	if err != nil {
		t.Fatalf("CaptureFrame: %v", err)
	}
	if !released {
		t.Error("frame buffer slot must be released after copy")
	}
	if img.Stride != 16 {
		t.Errorf("dense stride = %d, want 16", img.Stride)
	}
	// Second row starts at the padded offset in the source.
	if img.Pix[16] != 16 {
		t.Errorf("row 1 pixel 0 = %d, want 16 (row padding not stripped)", img.Pix[16])
	}
}

func TestCaptureFrameReleasesOnDecodeFailure(t *testing.T) {
	released := false
	bad := NewRawFrame([]byte{1, 2, 3}, 4, 2, 4, 24, func() { released = true })
	backend := &fakeBackend{queryable: true, frame: bad}
	m, _, _ := setupManager(t, backend)

	if err := m.EnsureInitialized(); err != nil {
		t.Fatalf("EnsureInitialized: %v", err)
	}
	_, err := m.CaptureFrame(context.Background())
	if !errors.Is(err, ErrDecodeFailed) {
		t.Fatalf("err = %v, want ErrDecodeFailed", err)
	}
	if !released {
		t.Error("frame must be released on the decode-failure path too")
	}
}

func TestCaptureFrameAcquireTimeout(t *testing.T) {
	backend := &fakeBackend{queryable: true} // no frame → surface blocks
	m, _, _ := setupManager(t, backend)

	if err := m.EnsureInitialized(); err != nil {
		t.Fatalf("EnsureInitialized: %v", err)
	}
	_, err := m.CaptureFrame(context.Background())
	if !errors.Is(err, ErrAcquireFailed) {
		t.Errorf("err = %v, want ErrAcquireFailed", err)
	}
}

func TestRevocationTearsDownWithoutSecondStop(t *testing.T) {
	backend := &fakeBackend{queryable: true}
	m, holder, stops := setupManager(t, backend)

	if err := m.EnsureInitialized(); err != nil {
		t.Fatalf("EnsureInitialized: %v", err)
	}

	holder.Current().Revoked()

	if backend.releases != 1 {
		t.Errorf("releases = %d, want 1", backend.releases)
	}
	if holder.Current() != nil {
		t.Error("holder must be cleared after revocation")
	}
	if *stops != 0 {
		t.Errorf("stop calls = %d, want 0 (platform already stopped the grant)", *stops)
	}
	if m.Session() != nil {
		t.Error("session must be gone after revocation")
	}
	// Shutdown after revocation must be a no-op, not a double release.
	m.Shutdown()
	if backend.releases != 1 {
		t.Errorf("releases after Shutdown = %d, want 1", backend.releases)
	}
}

func TestShutdownThenRevokeReleasesOnce(t *testing.T) {
	backend := &fakeBackend{queryable: true}
	m, holder, _ := setupManager(t, backend)

	if err := m.EnsureInitialized(); err != nil {
		t.Fatalf("EnsureInitialized: %v", err)
	}
	m.Shutdown()
	holder.Current().Revoked()

	if backend.releases != 1 {
		t.Errorf("releases = %d, want 1 (teardown paths must not stack)", backend.releases)
	}
}
