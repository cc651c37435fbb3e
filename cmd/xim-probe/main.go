//go:build linux && cgo

// xim-probe exercises an X input method context against a live X server.
//
// It opens the input method selected by the configured (or discovered)
// locale modifiers, creates a window with a PreeditNothing|StatusNothing
// input context, routes window focus changes into the context, and walks a
// synthetic caret across the window so the input method repositions its
// composition overlay.
//
// Usage:
//
//	xim-probe [-config path] [-display :0] [-modifiers @im=ibus] [-no-spot] [-max-ticks N]
//
// Configuration changes to the log level and caret settings are applied
// while running.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"ximctx/internal/config"
	"ximctx/internal/ime"
	"ximctx/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: "+config.ConfigPath()+")")
	display := flag.String("display", "", "X display to connect to (overrides config)")
	modifiers := flag.String("modifiers", "", "Locale modifiers, e.g. @im=ibus (overrides config)")
	noSpot := flag.Bool("no-spot", false, "Create the context without pre-edit spot tracking")
	maxTicks := flag.Int("max-ticks", -1, "Stop after N caret ticks (overrides config)")
	flag.Parse()

	if err := run(*configPath, *display, *modifiers, *noSpot, *maxTicks); err != nil {
		fmt.Fprintf(os.Stderr, "xim-probe: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, display, modifiers string, noSpot bool, maxTicks int) error {
	loader := config.NewLoader(configPath)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config %s: %w", loader.Path(), err)
	}
	defer loader.Close()

	if display != "" {
		cfg.Display.Name = display
	}
	if modifiers != "" {
		cfg.InputMethod.Modifiers = modifiers
	}
	if noSpot {
		cfg.Context.SpotTracking = false
	}
	if maxTicks >= 0 {
		cfg.Probe.MaxTicks = maxTicks
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LoggingConfig())
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logger.Close()
	logging.SetDefault(logger)

	reloads := make(chan *config.Config, 1)
	loader.OnChange(func(c *config.Config) {
		select {
		case <-reloads:
		default:
		}
		reloads <- c
	})
	if err := loader.Watch(); err != nil {
		logger.Warn("config hot reload disabled", "error", err)
	}

	mods := resolveModifiers(cfg, logger.WithComponent("discovery"))
	sess, err := openSession(cfg, mods, logger.WithComponent("session"))
	if err != nil {
		return err
	}
	defer sess.close()

	p := &probe{
		sess:    sess,
		cfg:     cfg,
		logger:  logger,
		reloads: reloads,
		errs:    loader.Errors(),
		caret: newCaret(ime.Point{X: int16(cfg.Context.SpotX), Y: int16(cfg.Context.SpotY)},
			cfg.Probe.Width, cfg.Probe.Height),
	}
	return p.loop()
}

// resolveModifiers picks locale modifiers from config, D-Bus discovery, or
// the environment.
func resolveModifiers(cfg *config.Config, logger *slog.Logger) string {
	detected := ime.ServerUnknown
	if cfg.InputMethod.Modifiers == "" && cfg.InputMethod.Detect {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.DetectTimeout())
		defer cancel()

		server, err := ime.DetectServer(ctx)
		if err != nil {
			logger.Warn("input method discovery failed", "error", err)
		} else {
			logger.Info("input method discovered", "server", string(server))
		}
		detected = server
	}

	mods := ime.ResolveModifiers(cfg.InputMethod.Modifiers, detected)
	logger.Debug("locale modifiers", "modifiers", mods)
	return mods
}

type probe struct {
	sess    *session
	cfg     *config.Config
	logger  *logging.Logger
	caret   *caret
	reloads <-chan *config.Config
	errs    <-chan error
	ticks   int
}

func (p *probe) loop() error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	fds := []unix.PollFd{{Fd: int32(p.sess.disp.Fd()), Events: unix.POLLIN}}
	next := time.Now().Add(p.cfg.Tick())

	for {
		for p.sess.disp.Pending() > 0 {
			if p.sess.handle(p.sess.disp.NextEvent()) {
				return nil
			}
		}

		timeout := time.Until(next)
		if timeout < 0 {
			timeout = 0
		}
		if _, err := unix.Poll(fds, int(timeout/time.Millisecond)); err != nil && !errors.Is(err, unix.EINTR) {
			return fmt.Errorf("poll display: %w", err)
		}

		select {
		case sig := <-signals:
			p.logger.Info("stopping", "signal", sig.String())
			return nil
		case c := <-p.reloads:
			p.apply(c)
		case err := <-p.errs:
			p.logger.Warn("config reload rejected", "error", err)
		default:
		}

		if !time.Now().Before(next) {
			next = time.Now().Add(p.cfg.Tick())
			if p.tick() {
				return nil
			}
		}
	}
}

// tick advances the caret. It reports whether MaxTicks was reached.
func (p *probe) tick() bool {
	pos := p.caret.advance(p.cfg.Probe.StepX, p.cfg.Probe.StepY)
	p.sess.moveCaret(pos)
	p.ticks++
	p.logger.Debug("caret moved", "x", pos.X, "y", pos.Y, "tick", p.ticks)

	if p.cfg.Probe.MaxTicks > 0 && p.ticks >= p.cfg.Probe.MaxTicks {
		p.logger.Info("tick limit reached", "ticks", p.ticks)
		return true
	}
	return false
}

// apply takes the live-adjustable settings from a reloaded config.
// Display, input method and window geometry need a restart.
func (p *probe) apply(c *config.Config) {
	if level, err := logging.ParseLevel(c.Logging.Level); err == nil {
		p.logger.SetLevel(level)
	}
	p.cfg.Probe.TickMs = c.Probe.TickMs
	p.cfg.Probe.StepX = c.Probe.StepX
	p.cfg.Probe.StepY = c.Probe.StepY
	p.cfg.Probe.MaxTicks = c.Probe.MaxTicks
	p.logger.Info("config reloaded", "level", logging.LevelString(p.logger.Level()),
		"tick", p.cfg.Tick(), "step_x", c.Probe.StepX, "step_y", c.Probe.StepY)
}
