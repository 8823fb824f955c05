package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"catchminer/internal/config"
	cmerrors "catchminer/internal/errors"
	"catchminer/internal/output"
)

var (
	configFormat string
	configForce  bool
	configLegacy string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage catchminer configuration",
	Long:  "Create and inspect the .catchminer.toml configuration of an analysis root",
}

var configInitCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write the default configuration",
	Long: `Write .catchminer.toml with the default settings into dir.

Examples:
  catchminer config init
  catchminer config init --from-legacy=Config.txt ./src`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show [dir]",
	Short: "Show the effective configuration",
	Long: `Display the configuration an analysis of dir would use: defaults, then
the configuration file, then CATCHMINER_* environment overrides.

Examples:
  catchminer config show
  catchminer config show --format=json ./src`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigShow,
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing configuration file")
	configInitCmd.Flags().StringVar(&configLegacy, "from-legacy", "", "Take the logging vocabulary from a positional Config.txt")
	configShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format (toml, json)")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	dir := argOrCwd(args)
	target := filepath.Join(dir, config.FileName+".toml")
	if _, err := os.Stat(target); err == nil && !configForce {
		return cmerrors.New(cmerrors.ConfigInvalid, target+" already exists (use --force to overwrite)")
	}

	cfg := config.DefaultConfig()
	if configLegacy != "" {
		legacy, err := config.LoadLegacy(configLegacy)
		if err != nil {
			return cmerrors.Wrap(cmerrors.ConfigInvalid, "cannot load legacy configuration", err)
		}
		cfg = legacy
	}

	path, err := cfg.Save(dir)
	if err != nil {
		return cmerrors.Wrap(cmerrors.OutputFailed, "cannot write configuration", err)
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(argOrCwd(args))
	if err != nil {
		return err
	}

	var data []byte
	switch configFormat {
	case "json":
		data, err = output.DeterministicEncodeIndented(cfg, "  ")
		data = append(data, '\n')
	case "toml":
		data, err = cfg.Encode()
	default:
		return cmerrors.New(cmerrors.ConfigInvalid, "unsupported format: "+configFormat)
	}
	if err != nil {
		return cmerrors.Wrap(cmerrors.InternalError, "cannot encode configuration", err)
	}
	_, err = os.Stdout.Write(data)
	return err
}

func argOrCwd(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
