//go:build linux && cgo

package main

import (
	"errors"
	"fmt"
	"log/slog"

	"ximctx/internal/config"
	"ximctx/internal/ime"
	"ximctx/internal/xlib"
)

// session owns the display, input method, window and input context for one
// probe window. It is the only place an XIC is destroyed, and it does so
// only while the input method is still valid on the server.
type session struct {
	disp   *xlib.Display
	im     *xlib.InputMethod
	window ime.Window
	ic     *ime.InputContext
	spot   bool
	logger *slog.Logger
}

func openSession(cfg *config.Config, modifiers string, logger *slog.Logger) (_ *session, err error) {
	if err := xlib.SetLocaleModifiers(modifiers); err != nil {
		return nil, err
	}

	disp, err := xlib.OpenDisplay(cfg.Display.Name)
	if err != nil {
		return nil, err
	}
	s := &session{disp: disp, spot: cfg.Context.SpotTracking, logger: logger}
	defer func() {
		if err != nil {
			s.close()
		}
	}()

	s.im, err = disp.OpenIM()
	if err != nil {
		return nil, fmt.Errorf("open input method (modifiers %q): %w", modifiers, err)
	}
	if !s.im.SupportsStyle(ime.ContextStyle) {
		return nil, errors.New("input method does not offer PreeditNothing|StatusNothing")
	}

	s.window, err = disp.CreateWindow(uint32(cfg.Probe.Width), uint32(cfg.Probe.Height), "xim-probe")
	if err != nil {
		return nil, err
	}

	var spot *ime.Point
	if s.spot {
		spot = &ime.Point{X: int16(cfg.Context.SpotX), Y: int16(cfg.Context.SpotY)}
	}
	s.ic, err = ime.NewInputContext(disp, xlib.Native{}, s.im.Handle(), s.window, spot,
		ime.WithLogger(logger.With("component", "ime")))
	if err != nil {
		return nil, err
	}

	logger.Info("input context ready", "window", fmt.Sprintf("0x%x", uint64(s.window)),
		"spot_tracking", s.spot, "spot", s.ic.Spot())
	return s, nil
}

// contextValid drops the context once the server has destroyed the input
// method. The handle is forgotten, never destroyed.
func (s *session) contextValid() bool {
	if s.ic == nil {
		return false
	}
	if !s.im.Valid() {
		s.logger.Warn("input method destroyed by server; dropping input context")
		s.ic = nil
		return false
	}
	return true
}

// handle routes one event. It reports whether the probe should stop.
func (s *session) handle(ev xlib.Event) bool {
	if ev.Filtered {
		s.logger.Debug("event consumed by input method")
		return false
	}
	if ev.Window != s.window {
		return false
	}

	switch ev.Kind {
	case xlib.EventFocusIn:
		if s.contextValid() {
			if err := s.ic.Focus(s.disp); err != nil {
				s.logger.Error("focus input context", "error", err)
			}
		}
	case xlib.EventFocusOut:
		if s.contextValid() {
			if err := s.ic.Unfocus(s.disp); err != nil {
				s.logger.Error("unfocus input context", "error", err)
			}
		}
	case xlib.EventKeyPress:
		s.logger.Debug("key press passed through")
	case xlib.EventClose:
		s.logger.Info("window closed")
		return true
	case xlib.EventDestroyed:
		// The window is gone, and with it any use for the context.
		s.window = 0
		return true
	}
	return false
}

// moveCaret forwards a caret move to the context.
func (s *session) moveCaret(p ime.Point) {
	if !s.spot || !s.contextValid() {
		return
	}
	s.ic.SetSpot(p.X, p.Y)
	s.disp.Flush()
}

func (s *session) close() {
	if s.ic != nil {
		if s.im.DestroyIC(s.ic.Handle()) {
			s.logger.Debug("input context destroyed")
		}
		s.ic = nil
	}
	if s.im != nil {
		if err := s.im.Close(); err != nil {
			s.logger.Warn("close input method", "error", err)
		}
		s.im = nil
	}
	if s.window != 0 {
		s.disp.DestroyWindow(s.window)
		s.window = 0
	}
	if s.disp != nil {
		s.disp.Close()
		s.disp = nil
	}
}
