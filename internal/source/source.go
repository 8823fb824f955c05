// Package source finds and reads the files an analysis run covers, either
// by walking a folder or from a single concatenated blob file.
package source

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	cmerrors "catchminer/internal/errors"
)

// File is one source file with its path relative to the analysis root,
// slash separated.
type File struct {
	Path   string
	Source []byte
}

// Options selects the files of a folder walk.
type Options struct {
	// Extensions are matched case-insensitively, with the leading dot.
	Extensions []string
	// Exclude holds doublestar patterns matched against relative paths.
	Exclude []string
}

// ValidatePatterns reports the first malformed exclude pattern.
func (o Options) ValidatePatterns() error {
	for _, p := range o.Exclude {
		if !doublestar.ValidatePattern(p) {
			return cmerrors.New(cmerrors.ConfigInvalid, fmt.Sprintf("malformed exclude pattern %q", p))
		}
	}
	return nil
}

// Discover walks root and returns the relative paths of matching files in
// lexical order. Hidden directories are skipped; unreadable ones are
// ignored.
func Discover(root string, opts Options) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, cmerrors.Wrap(cmerrors.InputNotFound, "cannot open analysis root", err)
	}
	if !info.IsDir() {
		return nil, cmerrors.New(cmerrors.InputNotFound, root+" is not a directory")
	}
	if err := opts.ValidatePatterns(); err != nil {
		return nil, err
	}

	exts := make(map[string]bool, len(opts.Extensions))
	for _, e := range opts.Extensions {
		exts[strings.ToLower(e)] = true
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // skip unreadable directories
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil //nolint:nilerr // nothing to match
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || excluded(opts.Exclude, rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !exts[strings.ToLower(filepath.Ext(rel))] || excluded(opts.Exclude, rel) {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// excluded reports whether rel matches any pattern. Directories are passed
// with a trailing slash so that "**/obj/**" prunes obj itself.
func excluded(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Read loads one discovered file.
func Read(root, rel string) (File, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return File{}, err
	}
	return File{Path: rel, Source: data}, nil
}

// ReadBlob loads a blob file as a single source file named after the blob.
func ReadBlob(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, cmerrors.Wrap(cmerrors.InputNotFound, "cannot read blob file", err)
	}
	return File{Path: filepath.ToSlash(filepath.Base(path)), Source: data}, nil
}

// SaveBlob concatenates files, in order, into one blob at path. Every file
// ends with a newline so that no two files share a line.
func SaveBlob(path string, files []File) error {
	var buf bytes.Buffer
	for _, f := range files {
		buf.Write(f.Source)
		if len(f.Source) > 0 && f.Source[len(f.Source)-1] != '\n' {
			buf.WriteByte('\n')
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return cmerrors.Wrap(cmerrors.OutputFailed, "cannot create blob directory", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return cmerrors.Wrap(cmerrors.OutputFailed, "cannot write blob file", err)
	}
	return nil
}
