//go:build windows

package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// LockFile is created in the report directory while a run writes to it.
const LockFile = ".catchminer.lock"

// Lock is a claim on a report directory. On Windows it only records the
// owner's PID and does not exclude other runs.
type Lock struct {
	path string
	file *os.File
}

// AcquireLock claims dir for one run.
func AcquireLock(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, LockFile)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if _, err := file.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("write PID to lock file: %w", err)
	}
	return &Lock{path: path, file: file}, nil
}

// Release gives up the claim and removes the lock file.
func (l *Lock) Release() {
	if l == nil || l.file == nil {
		return
	}
	_ = l.file.Close()
	_ = os.Remove(l.path)
	l.file = nil
}
