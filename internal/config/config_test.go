package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != Version {
		t.Errorf("expected version %d, got %d", Version, cfg.Version)
	}
	if !cfg.Context.SpotTracking {
		t.Error("spot tracking should be on by default")
	}
	if cfg.Probe.TickMs <= 0 {
		t.Errorf("expected positive tick, got %d", cfg.Probe.TickMs)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XIMCTX_CONFIG_DIR", "/tmp/ximctx-test")

	if got := ConfigPath(); got != "/tmp/ximctx-test/config.toml" {
		t.Errorf("unexpected config path %s", got)
	}
}

func TestLoadNonexistent(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Probe.Width != DefaultConfig().Probe.Width {
		t.Error("expected defaults for missing file")
	}
}

func TestLoadTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")

	content := `
version = 1

[display]
name = ":1"

[input_method]
modifiers = "@im=ibus"
detect = false

[context]
spot_tracking = true
spot_x = 5
spot_y = 7

[probe]
tick_ms = 100
step_x = 3
max_ticks = 20

[logging]
level = "debug"
format = "json"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Display.Name != ":1" {
		t.Errorf("expected display :1, got %q", cfg.Display.Name)
	}
	if cfg.InputMethod.Modifiers != "@im=ibus" || cfg.InputMethod.Detect {
		t.Errorf("unexpected input method section %+v", cfg.InputMethod)
	}
	if cfg.Context.SpotX != 5 || cfg.Context.SpotY != 7 {
		t.Errorf("unexpected spot %d,%d", cfg.Context.SpotX, cfg.Context.SpotY)
	}
	if cfg.Tick() != 100*time.Millisecond {
		t.Errorf("expected 100ms tick, got %v", cfg.Tick())
	}
	if cfg.Probe.MaxTicks != 20 {
		t.Errorf("expected 20 max ticks, got %d", cfg.Probe.MaxTicks)
	}
	// Unset fields keep their defaults.
	if cfg.Probe.Width != 480 {
		t.Errorf("expected default width, got %d", cfg.Probe.Width)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected json format, got %s", cfg.Logging.Format)
	}
}

func TestLoadYAMLAndJSON(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"config.yaml": "probe:\n  tick_ms: 40\ncontext:\n  spot_x: 11\n",
		"config.json": `{"probe": {"tick_ms": 40}, "context": {"spot_x": 11}}`,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if cfg.Probe.TickMs != 40 || cfg.Context.SpotX != 11 {
				t.Errorf("unexpected values tick=%d spot_x=%d", cfg.Probe.TickMs, cfg.Context.SpotX)
			}
			if cfg.Context.SpotY != 20 {
				t.Errorf("expected default spot_y, got %d", cfg.Context.SpotY)
			}
		})
	}
}

func TestLoadAutoDetect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ximctx.conf")
	if err := os.WriteFile(path, []byte(`{"probe": {"step_y": 4}}`), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Probe.StepY != 4 {
		t.Errorf("expected step_y 4, got %d", cfg.Probe.StepY)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")

	if err := os.WriteFile(configPath, []byte("this is not valid toml {{{\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("XIMCTX_DISPLAY", ":9")
	t.Setenv("XIMCTX_MODIFIERS", "@im=fcitx")
	t.Setenv("XIMCTX_LOG_LEVEL", "warn")

	cfg := DefaultConfig()
	cfg.ApplyEnvOverrides()

	if cfg.Display.Name != ":9" {
		t.Errorf("expected display :9, got %q", cfg.Display.Name)
	}
	if cfg.InputMethod.Modifiers != "@im=fcitx" {
		t.Errorf("expected fcitx modifiers, got %q", cfg.InputMethod.Modifiers)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected warn level, got %q", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad version", func(c *Config) { c.Version = 99 }, "version"},
		{"spot overflow", func(c *Config) { c.Context.SpotX = 40000 }, "context.spot_x"},
		{"spot underflow", func(c *Config) { c.Context.SpotY = -40000 }, "context.spot_y"},
		{"zero width", func(c *Config) { c.Probe.Width = 0 }, "probe.width"},
		{"fast tick", func(c *Config) { c.Probe.TickMs = 1 }, "probe.tick_ms"},
		{"negative ticks", func(c *Config) { c.Probe.MaxTicks = -1 }, "probe.max_ticks"},
		{"bad modifiers", func(c *Config) { c.InputMethod.Modifiers = "im=ibus" }, "input_method.modifiers"},
		{"no detect timeout", func(c *Config) { c.InputMethod.DetectTimeoutMs = 0 }, "input_method.detect_timeout_ms"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad output", func(c *Config) { c.Logging.Output = "syslog" }, "logging.output"},
		{"file without path", func(c *Config) { c.Logging.Output = "file"; c.Logging.FilePath = "" }, "logging.file_path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			var errs ValidationErrors
			if !errors.As(err, &errs) {
				t.Fatalf("expected ValidationErrors, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("expected error for %s, got %v", tt.field, err)
			}
		})
	}
}

func TestLoggingConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"
	cfg.Logging.Output = "file"
	cfg.Logging.FilePath = "/tmp/probe.log"

	lc := cfg.LoggingConfig()
	if lc.Level.String() != "DEBUG" {
		t.Errorf("expected debug level, got %v", lc.Level)
	}
	if lc.Output != "file" || lc.FilePath != "/tmp/probe.log" {
		t.Errorf("unexpected output %s %s", lc.Output, lc.FilePath)
	}
	if lc.Component != "xim-probe" {
		t.Errorf("unexpected component %s", lc.Component)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := DefaultConfig()
	cfg.Probe.StepY = 6
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Probe.StepY != 6 {
		t.Errorf("expected step_y 6, got %d", loaded.Probe.StepY)
	}
}
