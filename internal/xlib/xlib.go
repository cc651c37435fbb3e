//go:build linux && cgo

// Package xlib is the Xlib backend for internal/ime: the display
// connection with protocol error capture, input method open/close, and the
// raw XIC calls. Variadic Xlib entry points are reached through small C
// shims because cgo cannot call variadic functions.
package xlib

/*
#cgo LDFLAGS: -lX11
#include <stdlib.h>
#include <locale.h>
#include <X11/Xlib.h>
#include <X11/Xutil.h>

typedef struct {
	int set;
	unsigned char error_code;
	unsigned char request_code;
	unsigned char minor_code;
	unsigned long serial;
	unsigned long resource_id;
	char text[256];
} ximctx_error;

static ximctx_error ximctx_last_error;

static int ximctx_error_handler(Display *dpy, XErrorEvent *ev) {
	ximctx_last_error.set = 1;
	ximctx_last_error.error_code = ev->error_code;
	ximctx_last_error.request_code = ev->request_code;
	ximctx_last_error.minor_code = ev->minor_code;
	ximctx_last_error.serial = ev->serial;
	ximctx_last_error.resource_id = ev->resourceid;
	XGetErrorText(dpy, ev->error_code, ximctx_last_error.text, sizeof ximctx_last_error.text);
	return 0;
}

static void ximctx_install_error_handler(void) {
	XSetErrorHandler(ximctx_error_handler);
}

static int ximctx_take_error(ximctx_error *out) {
	if (!ximctx_last_error.set) {
		return 0;
	}
	*out = ximctx_last_error;
	ximctx_last_error.set = 0;
	return 1;
}

static int ximctx_event_type(XEvent *ev) {
	return ev->type;
}

static Window ximctx_event_window(XEvent *ev) {
	return ev->xany.window;
}

static Atom ximctx_client_message_atom(XEvent *ev) {
	return (Atom)ev->xclient.data.l[0];
}
*/
import "C"

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"ximctx/internal/ime"
)

// ErrOpenDisplay is returned when XOpenDisplay fails.
var ErrOpenDisplay = errors.New("xlib: cannot open display")

// Display is an Xlib connection. It implements ime.Conn.
//
// Xlib is not thread safe here (XInitThreads is not called), so a Display
// and everything created from it must stay on one locked OS thread.
type Display struct {
	dpy          *C.Display
	wmDeleteAtom C.Atom
}

var _ ime.Conn = (*Display)(nil)

// SetLocaleModifiers sets the C locale from the environment and applies
// modifiers (for example "@im=ibus") before an input method is opened.
func SetLocaleModifiers(modifiers string) error {
	empty := C.CString("")
	defer C.free(unsafe.Pointer(empty))
	C.setlocale(C.LC_ALL, empty)
	if C.XSupportsLocale() == 0 {
		return errors.New("xlib: locale not supported by Xlib")
	}

	mods := C.CString(modifiers)
	defer C.free(unsafe.Pointer(mods))
	if C.XSetLocaleModifiers(mods) == nil {
		return fmt.Errorf("xlib: cannot set locale modifiers %q", modifiers)
	}
	return nil
}

// OpenDisplay connects to name, or to $DISPLAY when name is empty, and
// installs the error handler that backs CheckErrors.
func OpenDisplay(name string) (*Display, error) {
	runtime.LockOSThread()

	var cname *C.char
	if name != "" {
		cname = C.CString(name)
		defer C.free(unsafe.Pointer(cname))
	}
	dpy := C.XOpenDisplay(cname)
	if dpy == nil {
		runtime.UnlockOSThread()
		if name == "" {
			return nil, ErrOpenDisplay
		}
		return nil, fmt.Errorf("%w %q", ErrOpenDisplay, name)
	}
	C.ximctx_install_error_handler()

	atom := C.CString("WM_DELETE_WINDOW")
	defer C.free(unsafe.Pointer(atom))
	return &Display{
		dpy:          dpy,
		wmDeleteAtom: C.XInternAtom(dpy, atom, C.False),
	}, nil
}

// Close closes the connection.
func (d *Display) Close() error {
	if d.dpy == nil {
		return nil
	}
	C.XCloseDisplay(d.dpy)
	d.dpy = nil
	runtime.UnlockOSThread()
	return nil
}

// Fd returns the connection's file descriptor for polling.
func (d *Display) Fd() int {
	return int(C.XConnectionNumber(d.dpy))
}

// Flush sends buffered requests without waiting for replies.
func (d *Display) Flush() {
	C.XFlush(d.dpy)
}

// CheckErrors round-trips to the server and returns the most recent
// protocol error captured since the previous call, as *ime.ProtocolError.
func (d *Display) CheckErrors() error {
	C.XSync(d.dpy, C.False)

	var e C.ximctx_error
	if C.ximctx_take_error(&e) == 0 {
		return nil
	}
	return &ime.ProtocolError{
		Description: C.GoString(&e.text[0]),
		ErrorCode:   uint8(e.error_code),
		RequestCode: uint8(e.request_code),
		MinorCode:   uint8(e.minor_code),
		Serial:      uint64(e.serial),
		ResourceID:  uint64(e.resource_id),
	}
}

// CreateWindow creates and maps a top-level window selecting key, focus
// and structure events, with WM_DELETE_WINDOW registered.
func (d *Display) CreateWindow(width, height uint32, title string) (ime.Window, error) {
	screen := C.XDefaultScreen(d.dpy)
	root := C.XRootWindow(d.dpy, screen)
	win := C.XCreateSimpleWindow(d.dpy, root, 0, 0, C.uint(width), C.uint(height), 0,
		C.XBlackPixel(d.dpy, screen), C.XWhitePixel(d.dpy, screen))

	C.XSelectInput(d.dpy, win, C.KeyPressMask|C.KeyReleaseMask|C.FocusChangeMask|
		C.StructureNotifyMask|C.ExposureMask)

	ctitle := C.CString(title)
	defer C.free(unsafe.Pointer(ctitle))
	C.XStoreName(d.dpy, win, ctitle)
	C.XSetWMProtocols(d.dpy, win, &d.wmDeleteAtom, 1)
	C.XMapWindow(d.dpy, win)

	if err := d.CheckErrors(); err != nil {
		return 0, fmt.Errorf("xlib: create window: %w", err)
	}
	return ime.Window(win), nil
}

// DestroyWindow destroys win.
func (d *Display) DestroyWindow(win ime.Window) {
	C.XDestroyWindow(d.dpy, C.Window(win))
	C.XFlush(d.dpy)
}

// EventKind classifies events the probe cares about.
type EventKind int

const (
	EventOther EventKind = iota
	EventFocusIn
	EventFocusOut
	EventKeyPress
	EventClose
	EventDestroyed
)

// Event is a decoded X event.
type Event struct {
	Kind   EventKind
	Window ime.Window
	// Filtered is set when the input method consumed the event.
	Filtered bool
}

// Pending returns the number of events queued or readable without blocking.
func (d *Display) Pending() int {
	return int(C.XPending(d.dpy))
}

// NextEvent dequeues one event, blocking if none is queued, and passes it
// through XFilterEvent first.
func (d *Display) NextEvent() Event {
	var ev C.XEvent
	C.XNextEvent(d.dpy, &ev)

	out := Event{Window: ime.Window(C.ximctx_event_window(&ev))}
	if C.XFilterEvent(&ev, C.None) != 0 {
		out.Filtered = true
		return out
	}

	switch C.ximctx_event_type(&ev) {
	case C.FocusIn:
		out.Kind = EventFocusIn
	case C.FocusOut:
		out.Kind = EventFocusOut
	case C.KeyPress:
		out.Kind = EventKeyPress
	case C.DestroyNotify:
		out.Kind = EventDestroyed
	case C.ClientMessage:
		if C.ximctx_client_message_atom(&ev) == d.wmDeleteAtom {
			out.Kind = EventClose
		}
	}
	return out
}
