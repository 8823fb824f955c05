package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"catchminer/internal/analysis"
	"catchminer/internal/config"
	cmerrors "catchminer/internal/errors"
	"catchminer/internal/predicate"
	"catchminer/internal/report"
	"catchminer/internal/storage"
)

var (
	analyzeMode         string
	analyzeBlob         string
	analyzeSaveBlob     bool
	analyzeFormat       string
	analyzeOut          string
	analyzePrefix       string
	analyzeCompress     bool
	analyzeDB           string
	analyzeLegacyConfig string
	analyzeSCIP         string
	analyzeWorkers      int
	analyzeFirst        bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [dir]",
	Short: "Classify the catch blocks and guarded calls of a C# tree",
	Long: `Parse every C# file below dir, classify each catch clause and each call
whose result is checked, and write the feature, metadata and summary files.

Examples:
  catchminer analyze ./src
  catchminer analyze --format=json --out=reports ./src
  catchminer analyze --mode=blob --blob=AllSource.txt .
  catchminer analyze --legacy-config=Config.txt --first ./src
  catchminer analyze --scip=index.scip --db=runs.db ./src`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeMode, "mode", "", "Input mode: folder or blob")
	f.StringVar(&analyzeBlob, "blob", "", "Blob file read in blob mode (relative to dir)")
	f.BoolVar(&analyzeSaveBlob, "save-blob", false, "Also write the concatenated sources as a blob")
	f.StringVar(&analyzeFormat, "format", "", "Summary format: human, json or yaml")
	f.StringVar(&analyzeOut, "out", "", "Report directory")
	f.StringVar(&analyzePrefix, "prefix", "", "Prefix for report file names")
	f.BoolVar(&analyzeCompress, "compress", false, "Gzip the feature and metadata files")
	f.StringVar(&analyzeDB, "db", "", "Store the run in this SQLite database")
	f.StringVar(&analyzeLegacyConfig, "legacy-config", "", "Read the logging vocabulary from a positional Config.txt")
	f.StringVar(&analyzeSCIP, "scip", "", "SCIP index overlaying call resolution")
	f.IntVar(&analyzeWorkers, "workers", 0, "Parallel workers (0: one per CPU)")
	f.BoolVar(&analyzeFirst, "first", false, "Keep only the highest-priority operation per finding")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return cmerrors.Wrap(cmerrors.InputNotFound, "cannot resolve "+dir, err)
	}

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if err := applyAnalyzeFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return cmerrors.Wrap(cmerrors.ConfigInvalid, "invalid configuration", err)
	}

	logger, closer, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	lock, err := report.AcquireLock(cfg.Output.Dir)
	if err != nil {
		return cmerrors.Wrap(cmerrors.OutputFailed, "cannot claim report directory", err)
	}
	defer lock.Release()

	a, err := analysis.New(cfg, logger)
	if err != nil {
		return err
	}
	run, err := a.Analyze(context.Background(), root)
	if err != nil {
		return err
	}

	w := &report.Writer{Dir: cfg.Output.Dir, Prefix: cfg.Output.Prefix, Compress: cfg.Output.Compress}
	paths, err := w.WriteTables(run.Result)
	if err != nil {
		return cmerrors.Wrap(cmerrors.OutputFailed, "cannot write reports", err)
	}
	summary, err := run.Summary.Encode(cfg.Output.Format)
	if err != nil {
		return cmerrors.Wrap(cmerrors.OutputFailed, "cannot encode summary", err)
	}
	// The summary file stays uncompressed so it can be read directly.
	plain := &report.Writer{Dir: w.Dir, Prefix: w.Prefix}
	summaryPath, err := plain.WriteFile(report.FileName(cfg.Output.Format), summary)
	if err != nil {
		return cmerrors.Wrap(cmerrors.OutputFailed, "cannot write summary", err)
	}
	paths = append(paths, summaryPath)
	for _, p := range paths {
		logger.Info("Report written", "path", p)
	}

	if cfg.Output.Database != "" {
		if err := storeRun(cfg.Output.Database, run, logger); err != nil {
			return err
		}
	}

	_, err = os.Stdout.Write(summary)
	return err
}

// applyAnalyzeFlags overlays the flags the user set on the loaded
// configuration.
func applyAnalyzeFlags(cmd *cobra.Command, cfg *config.Config) error {
	if analyzeLegacyConfig != "" {
		legacy, err := config.LoadLegacy(analyzeLegacyConfig)
		if err != nil {
			return cmerrors.Wrap(cmerrors.ConfigInvalid, "cannot load legacy configuration", err)
		}
		cfg.Patterns = legacy.Patterns
	}

	f := cmd.Flags()
	if f.Changed("mode") {
		cfg.Input.Mode = analyzeMode
	}
	if f.Changed("blob") {
		cfg.Input.BlobFile = analyzeBlob
		if !f.Changed("mode") {
			cfg.Input.Mode = config.InputBlob
		}
	}
	if f.Changed("save-blob") {
		cfg.Input.SaveBlob = analyzeSaveBlob
	}
	if f.Changed("format") {
		cfg.Output.Format = analyzeFormat
	}
	if f.Changed("out") {
		cfg.Output.Dir = analyzeOut
	}
	if f.Changed("prefix") {
		cfg.Output.Prefix = analyzePrefix
	}
	if f.Changed("compress") {
		cfg.Output.Compress = analyzeCompress
	}
	if f.Changed("db") {
		cfg.Output.Database = analyzeDB
	}
	if f.Changed("scip") {
		cfg.Scip.Index = analyzeSCIP
	}
	if f.Changed("workers") {
		cfg.Workers = analyzeWorkers
	}
	if analyzeFirst {
		cfg.Patterns.Mode = string(predicate.ModeFirst)
	}
	return nil
}

func storeRun(path string, run *analysis.Run, logger *slog.Logger) error {
	db, err := storage.Open(path, logger)
	if err != nil {
		return cmerrors.Wrap(cmerrors.OutputFailed, "cannot open run database", err)
	}
	defer db.Close()

	if err := storage.NewRunRepository(db).Save(run.Info, run.Result); err != nil {
		return cmerrors.Wrap(cmerrors.OutputFailed, "cannot store run", err)
	}
	return nil
}
