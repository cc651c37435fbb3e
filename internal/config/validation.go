// Package config handles configuration loading and validation for ximctx.
package config

import (
	"fmt"
	"math"
	"strings"

	"ximctx/internal/logging"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// ValidateConfig performs comprehensive validation of the configuration.
func ValidateConfig(c *Config) error {
	var errs ValidationErrors

	if c.Version < 1 || c.Version > Version {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (current: %d)", c.Version, Version),
		})
	}

	errs = append(errs, validateInputMethod(&c.InputMethod)...)
	errs = append(errs, validateContext(&c.Context)...)
	errs = append(errs, validateProbe(&c.Probe)...)
	errs = append(errs, validateLogging(&c.Logging)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateInputMethod(im *InputMethodConfig) ValidationErrors {
	var errs ValidationErrors

	if im.Modifiers != "" && !strings.HasPrefix(strings.TrimSpace(im.Modifiers), "@") {
		errs = append(errs, ValidationError{
			Field:   "input_method.modifiers",
			Message: fmt.Sprintf("modifiers must start with '@', got %q", im.Modifiers),
		})
	}
	if im.Detect && im.DetectTimeoutMs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "input_method.detect_timeout_ms",
			Message: "must be positive when detect is enabled",
		})
	}
	return errs
}

func validateContext(ctx *ContextConfig) ValidationErrors {
	var errs ValidationErrors

	if !fitsInt16(ctx.SpotX) {
		errs = append(errs, ValidationError{
			Field:   "context.spot_x",
			Message: fmt.Sprintf("%d does not fit a 16-bit coordinate", ctx.SpotX),
		})
	}
	if !fitsInt16(ctx.SpotY) {
		errs = append(errs, ValidationError{
			Field:   "context.spot_y",
			Message: fmt.Sprintf("%d does not fit a 16-bit coordinate", ctx.SpotY),
		})
	}
	return errs
}

func validateProbe(p *ProbeConfig) ValidationErrors {
	var errs ValidationErrors

	if p.Width <= 0 || p.Width > math.MaxInt16 {
		errs = append(errs, ValidationError{
			Field:   "probe.width",
			Message: fmt.Sprintf("must be between 1 and %d", math.MaxInt16),
		})
	}
	if p.Height <= 0 || p.Height > math.MaxInt16 {
		errs = append(errs, ValidationError{
			Field:   "probe.height",
			Message: fmt.Sprintf("must be between 1 and %d", math.MaxInt16),
		})
	}
	if p.TickMs < 10 || p.TickMs > 60000 {
		errs = append(errs, ValidationError{
			Field:   "probe.tick_ms",
			Message: "must be between 10 and 60000",
		})
	}
	if !fitsInt16(p.StepX) || !fitsInt16(p.StepY) {
		errs = append(errs, ValidationError{
			Field:   "probe.step",
			Message: "caret step does not fit a 16-bit coordinate",
		})
	}
	if p.MaxTicks < 0 {
		errs = append(errs, ValidationError{
			Field:   "probe.max_ticks",
			Message: "cannot be negative",
		})
	}
	return errs
}

func validateLogging(l *LoggingConfig) ValidationErrors {
	var errs ValidationErrors

	if _, err := logging.ParseLevel(l.Level); err != nil {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level %q (valid: debug, info, warn, error)", l.Level),
		})
	}
	if _, err := logging.ParseFormat(l.Format); err != nil {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid format %q (valid: text, json)", l.Format),
		})
	}

	switch strings.ToLower(l.Output) {
	case "", "stdout", "stderr":
	case "file", "both":
		if l.FilePath == "" {
			errs = append(errs, ValidationError{
				Field:   "logging.file_path",
				Message: "required when output includes file",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.output",
			Message: fmt.Sprintf("invalid output %q (valid: stdout, stderr, file, both)", l.Output),
		})
	}
	return errs
}

func fitsInt16(v int) bool {
	return v >= math.MinInt16 && v <= math.MaxInt16
}
