package ime

import "unsafe"

// IM is an opaque native input method (XIM). It is passed through to the
// native layer unmodified; this package never inspects or closes it.
type IM unsafe.Pointer

// IC is an opaque native input context (XIC).
type IC unsafe.Pointer

// NestedList is an opaque native nested attribute list (XVaNestedList).
type NestedList unsafe.Pointer

// Window is an X window identifier.
type Window uint64

// Point is a window-local pixel coordinate, matching XPoint.
type Point struct {
	X int16
	Y int16
}

// Style is an XIMStyle bit set.
type Style uint64

// Input style bits, as defined by Xlib.
const (
	StylePreeditArea      Style = 0x0001
	StylePreeditCallbacks Style = 0x0002
	StylePreeditPosition  Style = 0x0004
	StylePreeditNothing   Style = 0x0008
	StylePreeditNone      Style = 0x0010
	StyleStatusArea       Style = 0x0100
	StyleStatusCallbacks  Style = 0x0200
	StyleStatusNothing    Style = 0x0400
	StyleStatusNone       Style = 0x0800
)

// ContextStyle is the style every context is created with: the toolkit
// draws its own composition UI, so the server renders neither pre-edit nor
// status.
const ContextStyle = StylePreeditNothing | StyleStatusNothing

// Native is the set of raw input-method calls an InputContext issues.
// The Xlib implementation lives in internal/xlib.
type Native interface {
	// CreateIC requests a new context on im for window. preedit may be nil,
	// in which case no XNPreeditAttributes entry is passed.
	CreateIC(im IM, window Window, style Style, preedit NestedList) IC

	// SetICFocus and UnsetICFocus map to XSetICFocus and XUnsetICFocus.
	SetICFocus(ic IC)
	UnsetICFocus(ic IC)

	// SetICPreedit maps to XSetICValues(ic, XNPreeditAttributes, preedit, NULL).
	// It returns an error when the server rejected the value.
	SetICPreedit(ic IC, preedit NestedList) error

	// SpotList maps to XVaCreateNestedList(0, XNSpotLocation, &spot, NULL).
	// The returned list owns whatever storage backs spot.
	SpotList(spot Point) NestedList

	// FreeList releases a list returned by SpotList.
	FreeList(list NestedList)
}

// Conn is the windowing connection, used only to surface asynchronous
// protocol errors after requests that must be verified.
type Conn interface {
	// CheckErrors flushes outstanding requests and returns, then clears, any
	// protocol error reported since the previous call.
	CheckErrors() error
}
