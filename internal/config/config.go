// Package config handles configuration loading, validation, and management for ximctx.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"ximctx/internal/logging"
)

// Version is the current configuration schema version.
const Version = 1

// Config holds the complete probe configuration.
type Config struct {
	// Version is the configuration schema version.
	Version int `toml:"version" json:"version" yaml:"version"`

	// Display selects the X server connection.
	Display DisplayConfig `toml:"display" json:"display" yaml:"display"`

	// InputMethod controls how the XIM server is selected.
	InputMethod InputMethodConfig `toml:"input_method" json:"input_method" yaml:"input_method"`

	// Context controls input context creation.
	Context ContextConfig `toml:"context" json:"context" yaml:"context"`

	// Probe controls the diagnostic window and synthetic caret.
	Probe ProbeConfig `toml:"probe" json:"probe" yaml:"probe"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`
}

// DisplayConfig holds X display settings.
type DisplayConfig struct {
	// Name is the display to connect to. Empty means $DISPLAY.
	Name string `toml:"name" json:"name" yaml:"name"`
}

// InputMethodConfig holds input method selection settings.
type InputMethodConfig struct {
	// Modifiers is passed to XSetLocaleModifiers, e.g. "@im=ibus".
	// When empty the server is discovered over D-Bus if Detect is set,
	// then $XMODIFIERS is used.
	Modifiers string `toml:"modifiers" json:"modifiers" yaml:"modifiers"`

	// Detect enables session-bus discovery of a running IBus or Fcitx.
	Detect bool `toml:"detect" json:"detect" yaml:"detect"`

	// DetectTimeoutMs bounds the D-Bus discovery call.
	DetectTimeoutMs int `toml:"detect_timeout_ms" json:"detect_timeout_ms" yaml:"detect_timeout_ms"`
}

// ContextConfig holds input context settings.
type ContextConfig struct {
	// SpotTracking creates the context with a pre-edit spot and keeps it
	// updated as the caret moves.
	SpotTracking bool `toml:"spot_tracking" json:"spot_tracking" yaml:"spot_tracking"`

	// SpotX and SpotY are the initial spot in window pixels.
	SpotX int `toml:"spot_x" json:"spot_x" yaml:"spot_x"`
	SpotY int `toml:"spot_y" json:"spot_y" yaml:"spot_y"`
}

// ProbeConfig holds settings for the diagnostic window.
type ProbeConfig struct {
	// Width and Height of the probe window in pixels.
	Width  int `toml:"width" json:"width" yaml:"width"`
	Height int `toml:"height" json:"height" yaml:"height"`

	// TickMs is how often the synthetic caret advances.
	TickMs int `toml:"tick_ms" json:"tick_ms" yaml:"tick_ms"`

	// StepX and StepY are the caret advance per tick. The caret wraps
	// at the window edges.
	StepX int `toml:"step_x" json:"step_x" yaml:"step_x"`
	StepY int `toml:"step_y" json:"step_y" yaml:"step_y"`

	// MaxTicks stops the probe after this many ticks. Zero runs until
	// interrupted or the window is closed.
	MaxTicks int `toml:"max_ticks" json:"max_ticks" yaml:"max_ticks"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `toml:"level" json:"level" yaml:"level"`

	// Format is the output format (text, json).
	Format string `toml:"format" json:"format" yaml:"format"`

	// Output is where logs go (stdout, stderr, file, both).
	Output string `toml:"output" json:"output" yaml:"output"`

	// FilePath is the log file path when Output includes a file.
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: Version,
		InputMethod: InputMethodConfig{
			Detect:          true,
			DetectTimeoutMs: 2000,
		},
		Context: ContextConfig{
			SpotTracking: true,
			SpotX:        10,
			SpotY:        20,
		},
		Probe: ProbeConfig{
			Width:  480,
			Height: 240,
			TickMs: 250,
			StepX:  8,
			StepY:  0,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "text",
			Output:   "stderr",
			FilePath: filepath.Join(StateDir(), "xim-probe.log"),
		},
	}
}

// ConfigDir returns the ximctx configuration directory.
func ConfigDir() string {
	if envDir := os.Getenv("XIMCTX_CONFIG_DIR"); envDir != "" {
		return envDir
	}
	if runtime.GOOS == "darwin" {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "ximctx")
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ximctx")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ximctx")
}

// StateDir returns the directory for logs and other runtime state.
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "ximctx")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "ximctx")
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads configuration from the specified path.
// If the file doesn't exist, returns default configuration.
// Supports TOML, JSON, and YAML formats based on file extension.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg, err := loadConfigFromFile(path)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	return ValidateConfig(c)
}

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables are prefixed with XIMCTX_.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("XIMCTX_DISPLAY"); v != "" {
		c.Display.Name = v
	}
	if v := os.Getenv("XIMCTX_MODIFIERS"); v != "" {
		c.InputMethod.Modifiers = v
	}
	if v := os.Getenv("XIMCTX_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("XIMCTX_LOG_PATH"); v != "" {
		c.Logging.FilePath = v
	}
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Tick returns the probe tick interval.
func (c *Config) Tick() time.Duration {
	return time.Duration(c.Probe.TickMs) * time.Millisecond
}

// DetectTimeout returns the D-Bus discovery timeout.
func (c *Config) DetectTimeout() time.Duration {
	return time.Duration(c.InputMethod.DetectTimeoutMs) * time.Millisecond
}

// LoggingConfig converts the logging section to a logging.Config.
// It assumes the section has been validated.
func (c *Config) LoggingConfig() *logging.Config {
	lc := logging.DefaultConfig()
	lc.Component = "xim-probe"
	if level, err := logging.ParseLevel(c.Logging.Level); err == nil {
		lc.Level = level
	}
	if format, err := logging.ParseFormat(c.Logging.Format); err == nil {
		lc.Format = format
	}
	if c.Logging.Output != "" {
		lc.Output = c.Logging.Output
	}
	if c.Logging.FilePath != "" {
		lc.FilePath = c.Logging.FilePath
	}
	return lc
}
