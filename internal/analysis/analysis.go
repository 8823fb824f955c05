// Package analysis runs the mining pipeline over one source tree: load and
// parse the files, build the corpus-wide resolution context and method
// index, classify every file in parallel and merge the per-file results.
package analysis

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/iter"

	"catchminer/internal/aggregate"
	"catchminer/internal/callctx"
	"catchminer/internal/classify"
	"catchminer/internal/config"
	cmerrors "catchminer/internal/errors"
	"catchminer/internal/frontend"
	"catchminer/internal/predicate"
	"catchminer/internal/report"
	"catchminer/internal/scipindex"
	"catchminer/internal/semantic"
	"catchminer/internal/source"
	"catchminer/internal/syntax"
)

// Run is the outcome of analysing one tree.
type Run struct {
	Info    report.RunInfo
	Result  *aggregate.Result
	Summary *report.Summary
	// BlobPath is set when the folder walk was saved as a blob.
	BlobPath string
}

// Analyzer runs the pipeline under one configuration.
type Analyzer struct {
	cfg    *config.Config
	parser *frontend.Parser
	logger *slog.Logger
	now    func() time.Time
}

// New creates an analyzer. The configuration is validated here so that a
// bad configuration aborts before any file is touched.
func New(cfg *config.Config, logger *slog.Logger) (*Analyzer, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, cmerrors.Wrap(cmerrors.ConfigInvalid, "invalid configuration", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{cfg: cfg, parser: frontend.NewParser(), logger: logger, now: time.Now}, nil
}

// Analyze mines root.
func (a *Analyzer) Analyze(ctx context.Context, root string) (*Run, error) {
	start := a.now()
	if !frontend.Available() {
		return nil, cmerrors.Wrap(cmerrors.ParseFailed, "C# parsing unavailable", frontend.ErrNoCGO)
	}

	// 1. Load sources
	sources, blobPath, err := a.load(root)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Sources loaded", "root", root, "files", len(sources), "mode", a.cfg.Input.Mode)

	// 2. Parse
	files, failed := a.parse(ctx, sources)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 3. Resolution context, optionally overlaid with a SCIP index
	var opts []semantic.Option
	if idx := a.loadSCIP(root); idx != nil {
		opts = append(opts, semantic.WithSCIP(idx))
	}
	prog := semantic.NewProgram(files, opts...)
	lib := predicate.New(a.cfg.Predicates(), prog)

	// 4. Whole-corpus method index; read-only from here on
	idx := callctx.BuildIndex(files, prog, a.cfg.Workers)
	a.logger.Info("Method index built", "methods", idx.Len(), "types", prog.Types())

	exp := callctx.NewExpander(idx, lib, a.cfg.ContextOptions(), a.logger)
	cls := classify.New(lib, exp, a.logger)

	// 5. Classify every file
	results := a.classify(cls, lib, files)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 6. Merge in file order
	res := aggregate.Merge(results)

	info := report.RunInfo{
		ID:         uuid.NewString(),
		Root:       root,
		StartedAt:  start.UTC(),
		DurationMs: a.now().Sub(start).Milliseconds(),
		Failed:     failed,
		Methods:    idx.Len(),
	}
	summary := report.NewSummary(info, res)

	a.logger.Info("Analysis complete",
		"run", info.ID,
		"files", res.Files,
		"failed", failed,
		"catchBlocks", res.Catches.Totals.Findings,
		"guardedCalls", res.Calls.Totals.Findings,
		"duration", time.Duration(info.DurationMs)*time.Millisecond,
	)
	return &Run{Info: summary.Run, Result: res, Summary: summary, BlobPath: blobPath}, nil
}

// load reads the sources of root in the configured input mode. In folder
// mode with save_blob set, the concatenation is also written out.
func (a *Analyzer) load(root string) ([]source.File, string, error) {
	in := a.cfg.Input
	if in.Mode == config.InputBlob {
		f, err := source.ReadBlob(a.resolve(root, in.BlobFile))
		if err != nil {
			return nil, "", err
		}
		return []source.File{f}, "", nil
	}

	paths, err := source.Discover(root, source.Options{Extensions: in.Extensions, Exclude: in.Exclude})
	if err != nil {
		return nil, "", err
	}
	files := make([]source.File, 0, len(paths))
	for _, p := range paths {
		f, err := source.Read(root, p)
		if err != nil {
			a.logger.Warn("Skipping unreadable file", "path", p, "error", err.Error())
			continue
		}
		files = append(files, f)
	}

	var blobPath string
	if in.SaveBlob {
		blobPath = filepath.Join(a.cfg.Output.Dir, in.BlobFile)
		if err := source.SaveBlob(blobPath, files); err != nil {
			return nil, "", err
		}
		a.logger.Info("Blob saved", "path", blobPath, "files", len(files))
	}
	return files, blobPath, nil
}

// parse parses sources in parallel, keeping their order. Files that fail
// to parse are logged and dropped.
func (a *Analyzer) parse(ctx context.Context, sources []source.File) ([]*syntax.File, int) {
	mapper := iter.Mapper[source.File, *syntax.File]{MaxGoroutines: a.cfg.Workers}
	parsed := mapper.Map(sources, func(s *source.File) *syntax.File {
		f, err := a.parser.Parse(ctx, s.Path, s.Source)
		if err != nil {
			a.logger.Warn("Skipping file that failed to parse", "path", s.Path, "error", err.Error())
			return nil
		}
		return f
	})

	files := make([]*syntax.File, 0, len(parsed))
	for _, f := range parsed {
		if f != nil {
			files = append(files, f)
		}
	}
	return files, len(sources) - len(files)
}

// loadSCIP loads the configured SCIP index. An index that cannot be read
// only costs resolution precision, so the run continues without it.
func (a *Analyzer) loadSCIP(root string) *scipindex.Index {
	if a.cfg.Scip.Index == "" {
		return nil
	}
	path := a.resolve(root, a.cfg.Scip.Index)
	idx, err := scipindex.Load(path)
	if err != nil {
		a.logger.Warn("Continuing without SCIP index", "path", path, "error", err.Error())
		return nil
	}
	a.logger.Info("SCIP index loaded", "path", path, "documents", idx.Documents(), "symbols", idx.Symbols())
	return idx
}

func (a *Analyzer) classify(cls *classify.Classifier, lib *predicate.Library, files []*syntax.File) []aggregate.FileResult {
	mapper := iter.Mapper[*syntax.File, aggregate.FileResult]{MaxGoroutines: a.cfg.Workers}
	return mapper.Map(files, func(fp **syntax.File) aggregate.FileResult {
		f := *fp
		fr := aggregate.FileResult{
			Path:    f.Path,
			Stats:   aggregate.FileStats(f, lib),
			Catches: cls.CatchBlocks(f),
			Calls:   cls.GuardedCalls(f),
		}
		fr.Stats.GuardedCalls = len(fr.Calls)
		a.logger.Debug("File classified",
			"path", f.Path,
			"loc", fr.Stats.LOC,
			"catchBlocks", len(fr.Catches),
			"guardedCalls", len(fr.Calls),
		)
		return fr
	})
}

// resolve makes a configured path relative to the analysis root.
func (a *Analyzer) resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

