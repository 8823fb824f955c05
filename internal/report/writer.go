package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"catchminer/internal/aggregate"
	"catchminer/internal/finding"
)

// File base names, prefixed with Writer.Prefix.
const (
	CatchFile     = "CatchBlock.txt"
	CatchMetaFile = "CatchBlock_Meta.txt"
	CallFile      = "APICall.txt"
	CallMetaFile  = "APICall_Meta.txt"
)

const rule = "--------------------------------------------------------"

// Writer writes report files into Dir.
type Writer struct {
	Dir    string
	Prefix string
	// Compress gzips every file and appends .gz to its name.
	Compress bool
}

// WriteTables writes the feature and metadata files of both tables and
// returns the paths written.
func (w *Writer) WriteTables(res *aggregate.Result) ([]string, error) {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	var paths []string
	for _, t := range []struct {
		table          *aggregate.Table
		features, meta string
	}{
		{res.Catches, CatchFile, CatchMetaFile},
		{res.Calls, CallFile, CallMetaFile},
	} {
		p, err := w.write(t.features, func(out io.Writer) error { return writeFeatures(out, t.table) })
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
		p, err = w.write(t.meta, func(out io.Writer) error { return writeMeta(out, t.table) })
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// WriteFile writes data to a prefixed file in Dir.
func (w *Writer) WriteFile(name string, data []byte) (string, error) {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	return w.write(name, func(out io.Writer) error {
		_, err := out.Write(data)
		return err
	})
}

// Path returns where a report file is written.
func (w *Writer) Path(name string) string {
	p := filepath.Join(w.Dir, w.Prefix+name)
	if w.Compress {
		p += ".gz"
	}
	return p
}

func (w *Writer) write(name string, fill func(io.Writer) error) (path string, err error) {
	path = w.Path(name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	var sink io.Writer = f
	var zw *gzip.Writer
	if w.Compress {
		zw = gzip.NewWriter(f)
		zw.Name = w.Prefix + name
		sink = zw
	}
	bw := bufio.NewWriter(sink)
	if err := fill(bw); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return "", fmt.Errorf("compress %s: %w", path, err)
		}
	}
	return path, nil
}

func writeFeatures(w io.Writer, t *aggregate.Table) error {
	for _, f := range t.Findings() {
		if _, err := fmt.Fprintln(w, featureLine(f)); err != nil {
			return err
		}
	}
	return nil
}

func writeMeta(w io.Writer, t *aggregate.Table) error {
	keyLabel := "Exception Type"
	if t.Kind == finding.KindGuardedCall {
		keyLabel = "Call Type"
	}

	var b strings.Builder
	b.WriteString(metaHeader(t.Kind) + "\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "NumKeys: %d, %s\n\n", t.Len(), countsLine("Total", t.Totals))
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	for _, bucket := range t.Buckets() {
		b.Reset()
		b.WriteString(rule + "\n")
		b.WriteString(countsLine(fmt.Sprintf("%s [%s]", keyLabel, bucket.Key), bucket.Counts) + "\n")
		for _, f := range bucket.Findings {
			b.WriteString(metaLine(f) + "\n")
		}
		b.WriteString("\n\n")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}

	b.Reset()
	b.WriteString("------------------------ Summary -------------------------\n")
	b.WriteString(strings.Join([]string{keyLabel, "NumFindings", "NumLogged", "NumThrown", "NumLoggedAndThrown", "NumLoggedNotThrown"}, sep) + "\n")
	for _, bucket := range t.Buckets() {
		b.WriteString(summaryRow(bucket.Key, bucket.Counts) + "\n")
	}
	b.WriteString(summaryRow("Total", t.Totals) + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func summaryRow(label string, c aggregate.Counts) string {
	return fmt.Sprintf("%s\t%d\t%d\t%d\t%d\t%d", label, c.Findings, c.Logged, c.Thrown, c.LoggedAndThrown, c.LoggedNotThrown)
}
