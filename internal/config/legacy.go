package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"catchminer/internal/predicate"
)

// LoadLegacy reads the positional Config.txt format over the defaults:
//
//	line 1  logging methods, comma separated
//	line 2  methods that are not logging, comma separated
//	line 3  argument index of a log call's level
//	line 4  O to try all patterns, N to stop at the first
//	line 5  argument index of an assert's condition
//
// Text after % is a comment and blank lines are skipped. Missing trailing
// lines keep their defaults.
func LoadLegacy(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open legacy config: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '%'); i >= 0 {
			line = line[:i]
		}
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read legacy config: %w", err)
	}
	return parseLegacy(lines)
}

func parseLegacy(lines []string) (*Config, error) {
	cfg := DefaultConfig()
	p := &cfg.Patterns
	for i, line := range lines {
		switch i {
		case 0:
			p.LogMethods = splitList(line)
		case 1:
			p.NotLogMethods = splitList(line)
		case 2:
			n, err := strconv.Atoi(line)
			if err != nil {
				return nil, &ConfigError{Field: "patterns.log_level_index", Message: fmt.Sprintf("line 3: %q is not a number", line)}
			}
			p.LogLevelIndex = n
		case 3:
			switch strings.ToUpper(line) {
			case "O":
				p.Mode = string(predicate.ModeAll)
			case "N":
				p.Mode = string(predicate.ModeFirst)
			default:
				return nil, &ConfigError{Field: "patterns.mode", Message: fmt.Sprintf("line 4: want O or N, got %q", line)}
			}
		case 4:
			n, err := strconv.Atoi(line)
			if err != nil {
				return nil, &ConfigError{Field: "patterns.assert_condition_index", Message: fmt.Sprintf("line 5: %q is not a number", line)}
			}
			p.AssertConditionIndex = n
		}
	}
	return cfg, nil
}

func splitList(line string) []string {
	var out []string
	for _, s := range strings.Split(line, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
