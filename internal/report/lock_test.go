//go:build !windows

package report

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestAcquireAndReleaseLock(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	lock, err := AcquireLock(dir)
	if err != nil {
		t.Fatalf("AcquireLock() error = %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dir, LockFile))
	if err != nil {
		t.Fatalf("read lock file: %v", err)
	}
	if pid, err := strconv.Atoi(string(content)); err != nil || pid != os.Getpid() {
		t.Errorf("lock file holds %q, want PID %d", content, os.Getpid())
	}

	lock.Release()
	if _, err := os.Stat(filepath.Join(dir, LockFile)); !os.IsNotExist(err) {
		t.Error("lock file should be removed after release")
	}
	// A second release is harmless.
	lock.Release()
}

func TestAcquireLockHeld(t *testing.T) {
	dir := t.TempDir()

	first, err := AcquireLock(dir)
	if err != nil {
		t.Fatalf("first AcquireLock() error = %v", err)
	}
	defer first.Release()

	second, err := AcquireLock(dir)
	if err == nil {
		second.Release()
		t.Fatal("second AcquireLock() should fail while the first is held")
	}
	if !strings.Contains(err.Error(), strconv.Itoa(os.Getpid())) {
		t.Errorf("error should name the holder's PID: %v", err)
	}
}

func TestReleaseNil(t *testing.T) {
	var l *Lock
	l.Release()
}
