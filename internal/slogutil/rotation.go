package slogutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// RotatingFile is an io.WriteCloser that rotates path to path.1, path.2, ...
// once a write would take it past maxSize bytes. At most maxBackups rotated
// files are kept.
type RotatingFile struct {
	path       string
	maxSize    int64
	maxBackups int

	mu   sync.Mutex
	file *os.File
	size int64
}

// OpenRotatingFile opens path for appending. A maxSize of 0 disables
// rotation; a maxBackups of 0 discards the old file on rotation.
func OpenRotatingFile(path string, maxSize int64, maxBackups int) (*RotatingFile, error) {
	rf := &RotatingFile{path: path, maxSize: maxSize, maxBackups: maxBackups}
	if err := rf.open(); err != nil {
		return nil, err
	}
	return rf, nil
}

func (r *RotatingFile) open() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}
	r.file = f
	r.size = info.Size()
	return nil
}

// Write rotates first when p would overflow the current file.
func (r *RotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxSize > 0 && r.size > 0 && r.size+int64(len(p)) > r.maxSize {
		// A failed rotation keeps writing to whatever file is open.
		_ = r.rotate()
	}
	if r.file == nil {
		return 0, os.ErrClosed
	}
	n, err := r.file.Write(p)
	r.size += int64(n)
	return n, err
}

// Close closes the current file.
func (r *RotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

func (r *RotatingFile) rotate() error {
	if err := r.file.Close(); err != nil {
		return err
	}
	r.file = nil

	if r.maxBackups > 0 {
		_ = os.Remove(r.backup(r.maxBackups))
		for i := r.maxBackups - 1; i >= 1; i-- {
			if _, err := os.Stat(r.backup(i)); err == nil {
				_ = os.Rename(r.backup(i), r.backup(i+1))
			}
		}
		_ = os.Rename(r.path, r.backup(1))
	} else {
		_ = os.Remove(r.path)
	}
	return r.open()
}

func (r *RotatingFile) backup(n int) string {
	return fmt.Sprintf("%s.%d", r.path, n)
}
