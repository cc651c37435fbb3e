//go:build linux && cgo

package xlib

/*
#include <stdlib.h>
#include <X11/Xlib.h>

typedef struct {
	XVaNestedList list;
	XPoint spot;
} ximctx_nested;

static ximctx_nested *ximctx_spot_list(short x, short y) {
	ximctx_nested *n = calloc(1, sizeof *n);
	if (n == NULL) {
		return NULL;
	}
	n->spot.x = x;
	n->spot.y = y;
	n->list = XVaCreateNestedList(0, XNSpotLocation, &n->spot, NULL);
	if (n->list == NULL) {
		free(n);
		return NULL;
	}
	return n;
}

static void ximctx_free_list(ximctx_nested *n) {
	XFree(n->list);
	free(n);
}

static XIC ximctx_create_ic(XIM im, XIMStyle style, Window win) {
	return XCreateIC(im,
		XNInputStyle, style,
		XNClientWindow, win,
		NULL);
}

static XIC ximctx_create_ic_preedit(XIM im, XIMStyle style, Window win, ximctx_nested *n) {
	return XCreateIC(im,
		XNInputStyle, style,
		XNClientWindow, win,
		XNPreeditAttributes, n->list,
		NULL);
}

static char *ximctx_set_preedit(XIC ic, ximctx_nested *n) {
	return XSetICValues(ic, XNPreeditAttributes, n->list, NULL);
}

static int ximctx_supports_style(XIM im, XIMStyle style) {
	XIMStyles *styles = NULL;
	int found = 0;
	unsigned short i;

	if (XGetIMValues(im, XNQueryInputStyle, &styles, NULL) != NULL || styles == NULL) {
		return 0;
	}
	for (i = 0; i < styles->count_styles; i++) {
		if (styles->supported_styles[i] == style) {
			found = 1;
			break;
		}
	}
	XFree(styles);
	return found;
}

static void ximctx_im_destroyed(XIM im, XPointer client_data, XPointer call_data) {
	*(int *)client_data = 1;
}

static int *ximctx_watch_destroy(XIM im) {
	XIMCallback cb;
	int *flag = calloc(1, sizeof *flag);

	if (flag == NULL) {
		return NULL;
	}
	cb.client_data = (XPointer)flag;
	cb.callback = (XIMProc)ximctx_im_destroyed;
	if (XSetIMValues(im, XNDestroyCallback, &cb, NULL) != NULL) {
		free(flag);
		return NULL;
	}
	return flag;
}
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"

	"ximctx/internal/ime"
)

// ErrOpenIM is returned when no input method matches the locale modifiers.
var ErrOpenIM = errors.New("xlib: XOpenIM failed")

// InputMethod is an open XIM together with its server-side validity.
// The server may destroy the IM at any time (for example when the input
// method daemon exits); after that neither the IM nor any context created
// on it may be used or destroyed.
type InputMethod struct {
	xim       C.XIM
	destroyed *C.int
}

// OpenIM opens the input method selected by the current locale modifiers
// and registers a destroy callback.
func (d *Display) OpenIM() (*InputMethod, error) {
	xim := C.XOpenIM(d.dpy, nil, nil, nil)
	if xim == nil {
		return nil, ErrOpenIM
	}
	flag := C.ximctx_watch_destroy(xim)
	if flag == nil {
		C.XCloseIM(xim)
		return nil, errors.New("xlib: cannot register XNDestroyCallback")
	}
	return &InputMethod{xim: xim, destroyed: flag}, nil
}

// Handle returns the IM as the opaque value ime.NewInputContext expects.
func (m *InputMethod) Handle() ime.IM {
	return ime.IM(unsafe.Pointer(m.xim))
}

// Valid reports whether the server still considers the IM alive.
func (m *InputMethod) Valid() bool {
	return m.xim != nil && *m.destroyed == 0
}

// SupportsStyle reports whether the server offers style exactly.
func (m *InputMethod) SupportsStyle(style ime.Style) bool {
	if !m.Valid() {
		return false
	}
	return C.ximctx_supports_style(m.xim, C.XIMStyle(style)) != 0
}

// DestroyIC destroys a context created on this IM. It returns false, and
// does nothing, when the IM has already been destroyed by the server.
func (m *InputMethod) DestroyIC(ic ime.IC) bool {
	if ic == nil || !m.Valid() {
		return false
	}
	C.XDestroyIC(C.XIC(unsafe.Pointer(ic)))
	return true
}

// Close closes the IM unless the server already destroyed it.
func (m *InputMethod) Close() error {
	if m.xim == nil {
		return nil
	}
	if *m.destroyed == 0 {
		C.XCloseIM(m.xim)
	}
	C.free(unsafe.Pointer(m.destroyed))
	m.xim = nil
	return nil
}

// Native issues the raw XIC calls used by ime.InputContext.
type Native struct{}

var _ ime.Native = Native{}

func (Native) CreateIC(im ime.IM, window ime.Window, style ime.Style, preedit ime.NestedList) ime.IC {
	xim := C.XIM(unsafe.Pointer(im))
	var ic C.XIC
	if preedit == nil {
		ic = C.ximctx_create_ic(xim, C.XIMStyle(style), C.Window(window))
	} else {
		ic = C.ximctx_create_ic_preedit(xim, C.XIMStyle(style), C.Window(window), nested(preedit))
	}
	return ime.IC(unsafe.Pointer(ic))
}

func (Native) SetICFocus(ic ime.IC) {
	C.XSetICFocus(C.XIC(unsafe.Pointer(ic)))
}

func (Native) UnsetICFocus(ic ime.IC) {
	C.XUnsetICFocus(C.XIC(unsafe.Pointer(ic)))
}

func (Native) SetICPreedit(ic ime.IC, preedit ime.NestedList) error {
	if failed := C.ximctx_set_preedit(C.XIC(unsafe.Pointer(ic)), nested(preedit)); failed != nil {
		return fmt.Errorf("xlib: XSetICValues rejected %s", C.GoString(failed))
	}
	return nil
}

func (Native) SpotList(spot ime.Point) ime.NestedList {
	return ime.NestedList(unsafe.Pointer(C.ximctx_spot_list(C.short(spot.X), C.short(spot.Y))))
}

func (Native) FreeList(list ime.NestedList) {
	C.ximctx_free_list(nested(list))
}

func nested(list ime.NestedList) *C.ximctx_nested {
	return (*C.ximctx_nested)(unsafe.Pointer(list))
}
