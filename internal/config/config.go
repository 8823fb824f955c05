package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"catchminer/internal/callctx"
	"catchminer/internal/predicate"
)

// FileName is the base name of the configuration file searched for in the
// analysis root, with a .toml, .yaml or .json extension.
const FileName = ".catchminer"

// EnvPrefix prefixes environment overrides, e.g. CATCHMINER_CONTEXT_MAX_DEPTH.
const EnvPrefix = "CATCHMINER"

// Config represents the complete catchminer configuration
type Config struct {
	Patterns PatternsConfig `json:"patterns" toml:"patterns" mapstructure:"patterns"`
	Context  ContextConfig  `json:"context" toml:"context" mapstructure:"context"`
	Input    InputConfig    `json:"input" toml:"input" mapstructure:"input"`
	Output   OutputConfig   `json:"output" toml:"output" mapstructure:"output"`
	Logging  LoggingConfig  `json:"logging" toml:"logging" mapstructure:"logging"`
	Scip     ScipConfig     `json:"scip" toml:"scip" mapstructure:"scip"`
	// Workers bounds parallel file processing; 0 uses GOMAXPROCS.
	Workers int `json:"workers" toml:"workers" mapstructure:"workers"`
}

// PatternsConfig contains the logging vocabulary
type PatternsConfig struct {
	LogMethods           []string `json:"log_methods" toml:"log_methods" mapstructure:"log_methods"`
	NotLogMethods        []string `json:"not_log_methods" toml:"not_log_methods" mapstructure:"not_log_methods"`
	LogLevelIndex        int      `json:"log_level_index" toml:"log_level_index" mapstructure:"log_level_index"`
	AssertConditionIndex int      `json:"assert_condition_index" toml:"assert_condition_index" mapstructure:"assert_condition_index"`
	Mode                 string   `json:"mode" toml:"mode" mapstructure:"mode"`
}

// ContextConfig bounds the call-graph context expansion
type ContextConfig struct {
	MaxDepth        int      `json:"max_depth" toml:"max_depth" mapstructure:"max_depth"`
	MaxNames        int      `json:"max_names" toml:"max_names" mapstructure:"max_names"`
	LibraryPrefixes []string `json:"library_prefixes" toml:"library_prefixes" mapstructure:"library_prefixes"`
}

// InputConfig selects how sources are read
type InputConfig struct {
	Mode       string   `json:"mode" toml:"mode" mapstructure:"mode"`
	Extensions []string `json:"extensions" toml:"extensions" mapstructure:"extensions"`
	Exclude    []string `json:"exclude" toml:"exclude" mapstructure:"exclude"`
	BlobFile   string   `json:"blob_file" toml:"blob_file" mapstructure:"blob_file"`
	SaveBlob   bool     `json:"save_blob" toml:"save_blob" mapstructure:"save_blob"`
}

// OutputConfig contains report settings
type OutputConfig struct {
	Dir      string `json:"dir" toml:"dir" mapstructure:"dir"`
	Prefix   string `json:"prefix" toml:"prefix" mapstructure:"prefix"`
	Format   string `json:"format" toml:"format" mapstructure:"format"`
	Compress bool   `json:"compress" toml:"compress" mapstructure:"compress"`
	Database string `json:"database" toml:"database" mapstructure:"database"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `json:"level" toml:"level" mapstructure:"level"`
	File       string `json:"file" toml:"file" mapstructure:"file"`
	MaxSizeMB  int    `json:"max_size_mb" toml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `json:"max_backups" toml:"max_backups" mapstructure:"max_backups"`
}

// ScipConfig points at an optional SCIP index
type ScipConfig struct {
	Index string `json:"index" toml:"index" mapstructure:"index"`
}

// Input modes and output formats.
const (
	InputFolder = "folder"
	InputBlob   = "blob"

	FormatHuman = "human"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	p := predicate.DefaultConfig()
	ctx := callctx.DefaultOptions()
	return &Config{
		Patterns: PatternsConfig{
			LogMethods:           p.LogMethods,
			NotLogMethods:        p.NotLogMethods,
			LogLevelIndex:        p.LogLevelIndex,
			AssertConditionIndex: p.AssertConditionIndex,
			Mode:                 string(p.Mode),
		},
		Context: ContextConfig{
			MaxDepth:        ctx.MaxDepth,
			MaxNames:        ctx.MaxNames,
			LibraryPrefixes: ctx.LibraryPrefixes,
		},
		Input: InputConfig{
			Mode:       InputFolder,
			Extensions: []string{".cs"},
			Exclude:    []string{"**/bin/**", "**/obj/**", "**/*.Designer.cs"},
			BlobFile:   "AllSource.txt",
		},
		Output: OutputConfig{
			Dir:    "out",
			Format: FormatHuman,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads .catchminer.{toml,yaml,json} from dir, or the file at
// path when path is not empty, over the defaults. Environment variables
// prefixed with CATCHMINER_ override both.
func LoadConfig(dir, path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("patterns.log_methods", d.Patterns.LogMethods)
	v.SetDefault("patterns.not_log_methods", d.Patterns.NotLogMethods)
	v.SetDefault("patterns.log_level_index", d.Patterns.LogLevelIndex)
	v.SetDefault("patterns.assert_condition_index", d.Patterns.AssertConditionIndex)
	v.SetDefault("patterns.mode", d.Patterns.Mode)

	v.SetDefault("context.max_depth", d.Context.MaxDepth)
	v.SetDefault("context.max_names", d.Context.MaxNames)
	v.SetDefault("context.library_prefixes", d.Context.LibraryPrefixes)

	v.SetDefault("input.mode", d.Input.Mode)
	v.SetDefault("input.extensions", d.Input.Extensions)
	v.SetDefault("input.exclude", d.Input.Exclude)
	v.SetDefault("input.blob_file", d.Input.BlobFile)
	v.SetDefault("input.save_blob", d.Input.SaveBlob)

	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.prefix", d.Output.Prefix)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.compress", d.Output.Compress)
	v.SetDefault("output.database", d.Output.Database)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)

	v.SetDefault("scip.index", d.Scip.Index)
	v.SetDefault("workers", d.Workers)
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the configuration to dir/.catchminer.toml
func (c *Config) Save(dir string) (string, error) {
	data, err := c.Encode()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName+".toml")
	return path, os.WriteFile(path, data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Predicates().Validate(); err != nil {
		return &ConfigError{Field: "patterns", Message: err.Error()}
	}
	if c.Context.MaxDepth < 0 {
		return &ConfigError{Field: "context.max_depth", Message: "must not be negative"}
	}
	if c.Context.MaxNames < 0 {
		return &ConfigError{Field: "context.max_names", Message: "must not be negative"}
	}
	switch c.Input.Mode {
	case InputFolder:
		if len(c.Input.Extensions) == 0 {
			return &ConfigError{Field: "input.extensions", Message: "at least one extension is required"}
		}
	case InputBlob:
		if c.Input.BlobFile == "" {
			return &ConfigError{Field: "input.blob_file", Message: "required in blob mode"}
		}
	default:
		return &ConfigError{Field: "input.mode", Message: fmt.Sprintf("unknown mode %q", c.Input.Mode)}
	}
	switch c.Output.Format {
	case FormatHuman, FormatJSON, FormatYAML:
	default:
		return &ConfigError{Field: "output.format", Message: fmt.Sprintf("unknown format %q", c.Output.Format)}
	}
	if c.Workers < 0 {
		return &ConfigError{Field: "workers", Message: "must not be negative"}
	}
	return nil
}

// Predicates returns the predicate configuration.
func (c *Config) Predicates() predicate.Config {
	return predicate.Config{
		LogMethods:           c.Patterns.LogMethods,
		NotLogMethods:        c.Patterns.NotLogMethods,
		LogLevelIndex:        c.Patterns.LogLevelIndex,
		AssertConditionIndex: c.Patterns.AssertConditionIndex,
		Mode:                 predicate.Mode(c.Patterns.Mode),
	}.Normalize()
}

// ContextOptions returns the call-graph expansion bounds.
func (c *Config) ContextOptions() callctx.Options {
	return callctx.Options{
		MaxDepth:        c.Context.MaxDepth,
		MaxNames:        c.Context.MaxNames,
		LibraryPrefixes: c.Context.LibraryPrefixes,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
