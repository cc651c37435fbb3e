//go:build linux && cgo

package main

import "ximctx/internal/ime"

// caret is a synthetic text cursor that walks across the probe window.
type caret struct {
	pos           ime.Point
	width, height int
}

func newCaret(start ime.Point, width, height int) *caret {
	c := &caret{width: width, height: height}
	c.pos = ime.Point{X: wrap(int(start.X), width), Y: wrap(int(start.Y), height)}
	return c
}

// advance moves the caret by (dx, dy), wrapping at the window edges.
func (c *caret) advance(dx, dy int) ime.Point {
	c.pos = ime.Point{
		X: wrap(int(c.pos.X)+dx, c.width),
		Y: wrap(int(c.pos.Y)+dy, c.height),
	}
	return c.pos
}

func wrap(v, size int) int16 {
	if size <= 0 {
		return 0
	}
	v %= size
	if v < 0 {
		v += size
	}
	return int16(v)
}
