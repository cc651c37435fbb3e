package ime

import (
	"os"
	"strings"
)

// Server identifies the input method server behind XIM.
type Server string

const (
	ServerUnknown Server = ""
	ServerIBus    Server = "ibus"
	ServerFcitx   Server = "fcitx"
	ServerFcitx5  Server = "fcitx5"
)

// busNames maps session-bus names to the server that owns them.
// Order matters: Fcitx5 also claims the legacy Fcitx name.
var busNames = []struct {
	name   string
	server Server
}{
	{"org.fcitx.Fcitx5", ServerFcitx5},
	{"org.fcitx.Fcitx", ServerFcitx},
	{"org.freedesktop.portal.Fcitx", ServerFcitx5},
	{"org.freedesktop.IBus", ServerIBus},
	{"org.freedesktop.portal.IBus", ServerIBus},
}

// serverFromBusNames picks the first known server present in names.
func serverFromBusNames(names []string) Server {
	owned := make(map[string]bool, len(names))
	for _, n := range names {
		owned[n] = true
	}
	for _, b := range busNames {
		if owned[b.name] {
			return b.server
		}
	}
	return ServerUnknown
}

// Modifiers returns the XSetLocaleModifiers string selecting s.
// Both Fcitx generations register their XIM server as "fcitx".
func (s Server) Modifiers() string {
	switch s {
	case ServerIBus:
		return "@im=ibus"
	case ServerFcitx, ServerFcitx5:
		return "@im=fcitx"
	default:
		return ""
	}
}

// ResolveModifiers chooses the locale modifiers for opening an input method:
// an explicit value wins, then a detected server, then $XMODIFIERS.
// An empty result lets Xlib apply its own defaults.
func ResolveModifiers(explicit string, detected Server) string {
	if m := strings.TrimSpace(explicit); m != "" {
		return m
	}
	if m := detected.Modifiers(); m != "" {
		return m
	}
	return os.Getenv("XMODIFIERS")
}
