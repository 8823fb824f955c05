//go:build !windows

package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// LockFile is created in the report directory while a run writes to it.
const LockFile = ".catchminer.lock"

// Lock is an exclusive claim on a report directory.
type Lock struct {
	path string
	file *os.File
}

// AcquireLock claims dir for one run. It fails without waiting when another
// process holds the claim.
func AcquireLock(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, LockFile)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = file.Close()
		if content, readErr := os.ReadFile(path); readErr == nil && len(content) > 0 {
			return nil, fmt.Errorf("%s is in use by another catchminer run (PID %s)", dir, strings.TrimSpace(string(content)))
		}
		return nil, fmt.Errorf("%s is in use by another catchminer run", dir)
	}

	if err := writePID(file); err != nil {
		_ = syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
		_ = file.Close()
		return nil, err
	}
	return &Lock{path: path, file: file}, nil
}

func writePID(file *os.File) error {
	if err := file.Truncate(0); err != nil {
		return fmt.Errorf("truncate lock file: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		return fmt.Errorf("seek lock file: %w", err)
	}
	if _, err := file.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		return fmt.Errorf("write PID to lock file: %w", err)
	}
	return nil
}

// Release gives up the claim and removes the lock file.
func (l *Lock) Release() {
	if l == nil || l.file == nil {
		return
	}
	_ = syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	_ = l.file.Close()
	_ = os.Remove(l.path)
	l.file = nil
}
