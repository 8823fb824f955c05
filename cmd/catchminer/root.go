package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"catchminer/internal/config"
	cmerrors "catchminer/internal/errors"
	"catchminer/internal/slogutil"
	"catchminer/internal/version"
)

var (
	verbosity  int
	quiet      bool
	configPath string
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:   "catchminer",
	Short: "catchminer - exception handling idiom miner for C#",
	Long: `catchminer classifies how a C# code base handles failures.

Every catch clause and every call whose result is checked is classified by
what its handling body does (log, rethrow, set a flag, return, recover,
something else or nothing), grouped by exception type or call signature and
written out as feature and summary tables.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("catchminer version {{.Version}}\n")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Silence console logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (default: <dir>/.catchminer.{toml,yaml,json})")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this size-rotated file")
}

// loadConfig loads and validates the configuration for an analysis of dir.
func loadConfig(dir string) (*config.Config, error) {
	cfg, err := config.LoadConfig(dir, configPath)
	if err != nil {
		return nil, cmerrors.Wrap(cmerrors.ConfigInvalid, "cannot load configuration", err)
	}
	return cfg, nil
}

// newLogger builds the process logger. The console level follows -v and
// --quiet, falling back to the configured level; the log file records
// everything at the configured level or more detailed.
func newLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	fileLevel := slogutil.LevelFromString(cfg.Logging.Level)
	level := fileLevel
	if verbosity > 0 || quiet {
		level = slogutil.LevelFromVerbosity(verbosity, quiet)
	}
	if level < fileLevel {
		fileLevel = level
	}

	path := cfg.Logging.File
	if logFile != "" {
		path = logFile
	}
	logger, closer, err := slogutil.Setup(slogutil.Options{
		Level:      level,
		File:       path,
		FileLevel:  fileLevel,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		return nil, nil, cmerrors.Wrap(cmerrors.OutputFailed, "cannot open log file", err)
	}
	return logger, closer, nil
}
