// Package ime manages a native X input method context (XIC) for one window.
//
// # Architecture Overview
//
// Composed text input (CJK and other multi-keystroke input methods) reaches
// an X client through XIM. The client opens an input method (XIM) once per
// display and creates an input context (XIC) per window. This package owns
// the XIC side for a single window:
//
//	┌──────────────────┐  NewInputContext   ┌──────────────┐
//	│ owner (manager)  │──────────────────→ │ InputContext │
//	│                  │  Focus / Unfocus   │              │
//	│ • opens the XIM  │──────────────────→ │ • handle     │
//	│ • tracks XIM     │  SetSpot           │ • spot       │
//	│   validity       │──────────────────→ │              │
//	│ • XDestroyIC     │                    └──────┬───────┘
//	└──────────────────┘                           │ Native
//	                                               ↓
//	                                      ┌──────────────────┐
//	                                      │ Xlib (cgo shims) │
//	                                      └──────────────────┘
//
// # Ownership
//
// An InputContext never destroys its handle. The input method server can go
// away at any moment, and Xlib then invalidates every XIC created on it;
// calling XDestroyIC on such a handle is undefined. Only the owner of the
// XIM knows whether that happened, so the owner destroys the XIC (through
// Handle) while the XIM is still valid, and simply forgets it otherwise.
//
// # Checked and Unchecked Calls
//
//	┌─────────────────┬───────────────┬──────────────────────────────┐
//	│ Operation       │ Error poll    │ Frequency                    │
//	├─────────────────┼───────────────┼──────────────────────────────┤
//	│ NewInputContext │ yes           │ once per window              │
//	│ Focus / Unfocus │ yes           │ on window focus transitions  │
//	│ SetSpot         │ no            │ on every caret move          │
//	└─────────────────┴───────────────┴──────────────────────────────┘
//
// SetSpot skips the request entirely when the spot has not moved, and never
// round-trips to the server: a missed overlay reposition degrades the
// composition UI but does not break text input.
//
// # Input Style
//
// Contexts are always created with XIMPreeditNothing | XIMStatusNothing:
// the toolkit draws its own pre-edit text, and the spot location only tells
// the server where to place its candidate window.
package ime
