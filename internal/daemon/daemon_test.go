package daemon

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/screenguard/internal/scan"
)

func TestNewRequiresDirs(t *testing.T) {
	_, err := New(Config{}, &stubRunner{outcome: scan.NoFinding{}})
	if err == nil {
		t.Error("expected error for missing directories")
	}
}

func TestNewRequiresRunner(t *testing.T) {
	_, err := New(Config{Dirs: DefaultDirConfig()}, nil)
	if err == nil {
		t.Error("expected error for nil runner")
	}
}

func TestDaemonProcessesExistingInboxFiles(t *testing.T) {
	dirs := setupProcessorDirs(t)
	runner := &stubRunner{outcome: scan.NoFinding{}}
	d, err := New(Config{Dirs: dirs, PollMode: true, PollInterval: 50 * time.Millisecond}, runner)
	if err != nil {
		t.Fatal(err)
	}

	// Request present before the daemon starts.
	writeRequestFile(t, dirs.Inbox, &Request{ID: "pre-001", Source: "cli"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	waitForFile(t, filepath.Join(dirs.Outbox, "pre-001.json"))
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if runner.calls != 1 {
		t.Errorf("runner calls = %d, want 1", runner.calls)
	}
}

func TestDaemonRecoversOrphans(t *testing.T) {
	dirs := setupProcessorDirs(t)
	runner := &stubRunner{outcome: scan.NoFinding{}}
	d, err := New(Config{Dirs: dirs, PollMode: true, PollInterval: 50 * time.Millisecond}, runner)
	if err != nil {
		t.Fatal(err)
	}

	// Simulate a crash mid-scan.
	orphan := filepath.Join(dirs.ProcessingDir(), "orphan-001.json")
	if err := os.WriteFile(orphan, []byte(`{"id":"orphan-001"}`), 0600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	resultPath := filepath.Join(dirs.Outbox, "orphan-001.json")
	waitForFile(t, resultPath)
	cancel()
	<-done

	data, err := os.ReadFile(resultPath)
	if err != nil {
		t.Fatal(err)
	}
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatal(err)
	}
	if result.Status != ResultFailed {
		t.Errorf("orphan status = %q, want failed", result.Status)
	}
	if _, err := os.Stat(orphan); !os.IsNotExist(err) {
		t.Error("orphaned processing file should be removed")
	}
}

func TestDaemonPIDLockBlocksSecondInstance(t *testing.T) {
	dirs := setupProcessorDirs(t)
	pidPath := filepath.Join(dirs.State, "daemon.pid")
	if err := acquirePIDLock(pidPath); err != nil {
		t.Fatalf("first lock: %v", err)
	}
	if err := acquirePIDLock(pidPath); err == nil {
		t.Error("second lock against a live PID should fail")
	}
}

func TestPIDLockReclaimsStaleFile(t *testing.T) {
	dirs := setupProcessorDirs(t)
	pidPath := filepath.Join(dirs.State, "daemon.pid")
	// A PID that cannot be running.
	if err := os.WriteFile(pidPath, []byte("999999999"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := acquirePIDLock(pidPath); err != nil {
		t.Errorf("stale PID file should be reclaimed: %v", err)
	}
}

func waitForFile(t *testing.T, path string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("file %s never appeared", path)
}
