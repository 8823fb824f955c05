package predicate

import "testing"

func TestConfigNormalize(t *testing.T) {
	cfg := Config{
		LogMethods:    []string{" Log ", "", "  "},
		NotLogMethods: []string{"Login", ""},
	}.Normalize()

	if len(cfg.LogMethods) != 1 || cfg.LogMethods[0] != "Log" {
		t.Errorf("LogMethods = %q, want [Log]", cfg.LogMethods)
	}
	if len(cfg.NotLogMethods) != 2 {
		t.Errorf("NotLogMethods = %q, want the empty terminator kept", cfg.NotLogMethods)
	}
	if cfg.Mode != ModeAll {
		t.Errorf("Mode = %q, want %q", cfg.Mode, ModeAll)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"no log methods", func(c *Config) { c.LogMethods = nil }, true},
		{"negative assert index", func(c *Config) { c.AssertConditionIndex = -1 }, true},
		{"unknown mode", func(c *Config) { c.Mode = "some" }, true},
		{"first mode", func(c *Config) { c.Mode = ModeFirst }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
