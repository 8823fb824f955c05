package slogutil

import (
	"io"
	"log/slog"
	"os"
)

// Options configures the process logger.
type Options struct {
	// Level applies to the console.
	Level slog.Level
	// Console defaults to os.Stderr.
	Console io.Writer
	// File, when set, also receives every record at FileLevel.
	File       string
	FileLevel  slog.Level
	MaxSizeMB  int
	MaxBackups int
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup builds the console logger, teed into a rotating log file when
// opts.File is set. The returned closer releases the file.
func Setup(opts Options) (*slog.Logger, io.Closer, error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	ch := NewLineHandler(console, &slog.HandlerOptions{Level: opts.Level})
	if opts.File == "" {
		return slog.New(ch), nopCloser{}, nil
	}

	rf, err := OpenRotatingFile(opts.File, int64(opts.MaxSizeMB)*1024*1024, opts.MaxBackups)
	if err != nil {
		return nil, nil, err
	}
	fh := NewLineHandler(rf, &slog.HandlerOptions{Level: opts.FileLevel})
	return slog.New(NewTeeHandler(ch, fh)), rf, nil
}
