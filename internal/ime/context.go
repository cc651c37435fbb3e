package ime

import (
	"fmt"
	"log/slog"
)

// InputContext wraps one native input context for one window.
//
// It does not destroy its handle. Whether the context still exists on the
// server depends on the input method's lifetime, which only the owner of the
// IM knows; the owner calls XDestroyIC through Handle and must not use the
// InputContext afterwards.
//
// An InputContext is not safe for concurrent use. Confine it to the
// goroutine that runs the X event loop.
type InputContext struct {
	native Native
	handle IC
	spot   Point
	logger *slog.Logger
}

// Option configures an InputContext.
type Option func(*InputContext)

// WithLogger sets the logger used for best-effort failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *InputContext) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewInputContext creates a context on im for window with the
// PreeditNothing|StatusNothing style. When spot is non-nil it is sent as the
// initial pre-edit spot location and recorded; otherwise the recorded spot
// is (0, 0).
//
// It returns ErrNullHandle if the server refused the context, or the
// connection's error (typically *ProtocolError) if one was queued by the
// creation request.
func NewInputContext(conn Conn, native Native, im IM, window Window, spot *Point, opts ...Option) (*InputContext, error) {
	c := &InputContext{
		native: native,
		logger: slog.Default().With("component", "ime"),
	}
	for _, opt := range opts {
		opt(c)
	}

	var ic IC
	if spot != nil {
		ic = c.createWithSpot(im, window, *spot)
		c.spot = *spot
	} else {
		ic = native.CreateIC(im, window, ContextStyle, nil)
	}
	if ic == nil {
		return nil, ErrNullHandle
	}
	if err := conn.CheckErrors(); err != nil {
		return nil, fmt.Errorf("ime: create input context for window 0x%x: %w", window, err)
	}

	c.handle = ic
	c.logger.Debug("input context created", "window", window, "spot_x", c.spot.X, "spot_y", c.spot.Y)
	return c, nil
}

func (c *InputContext) createWithSpot(im IM, window Window, spot Point) IC {
	attrs := newSpotAttrs(c.native, spot)
	defer attrs.release()
	return c.native.CreateIC(im, window, ContextStyle, attrs.list)
}

// Handle returns the native context. Destroying it is the caller's job.
func (c *InputContext) Handle() IC {
	return c.handle
}

// Spot returns the last spot submitted to the input method.
func (c *InputContext) Spot() Point {
	return c.spot
}

// Focus routes key events for the window through this context.
func (c *InputContext) Focus(conn Conn) error {
	c.native.SetICFocus(c.handle)
	if err := conn.CheckErrors(); err != nil {
		return fmt.Errorf("ime: focus: %w", err)
	}
	return nil
}

// Unfocus withdraws focus. Calling it on a context that was never focused
// is left to the server.
func (c *InputContext) Unfocus(conn Conn) error {
	c.native.UnsetICFocus(c.handle)
	if err := conn.CheckErrors(); err != nil {
		return fmt.Errorf("ime: unfocus: %w", err)
	}
	return nil
}

// SetSpot moves the pre-edit anchor to (x, y). It does nothing when the
// spot is unchanged. The new spot is recorded before the request is sent
// and kept even if the server rejects it; errors are not polled.
func (c *InputContext) SetSpot(x, y int16) {
	if c.spot.X == x && c.spot.Y == y {
		return
	}
	c.spot = Point{X: x, Y: y}

	attrs := newSpotAttrs(c.native, c.spot)
	defer attrs.release()
	if err := c.native.SetICPreedit(c.handle, attrs.list); err != nil {
		c.logger.Debug("spot update rejected", "x", x, "y", y, "error", err)
	}
}
