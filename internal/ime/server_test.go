package ime

import "testing"

func TestServerFromBusNames(t *testing.T) {
	tests := []struct {
		name     string
		names    []string
		expected Server
	}{
		{"empty", nil, ServerUnknown},
		{"unrelated", []string{"org.freedesktop.DBus", ":1.42"}, ServerUnknown},
		{"ibus", []string{":1.3", "org.freedesktop.IBus"}, ServerIBus},
		{"ibus portal", []string{"org.freedesktop.portal.IBus"}, ServerIBus},
		{"fcitx4", []string{"org.fcitx.Fcitx"}, ServerFcitx},
		{"fcitx5 with legacy name", []string{"org.fcitx.Fcitx", "org.fcitx.Fcitx5"}, ServerFcitx5},
		{"fcitx5 preferred over ibus", []string{"org.freedesktop.IBus", "org.fcitx.Fcitx5"}, ServerFcitx5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := serverFromBusNames(tt.names); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestResolveModifiers(t *testing.T) {
	t.Setenv("XMODIFIERS", "@im=kinput2")

	tests := []struct {
		name     string
		explicit string
		detected Server
		expected string
	}{
		{"explicit wins", "@im=none", ServerIBus, "@im=none"},
		{"explicit trimmed", "  @im=uim ", ServerUnknown, "@im=uim"},
		{"detected ibus", "", ServerIBus, "@im=ibus"},
		{"detected fcitx5", "", ServerFcitx5, "@im=fcitx"},
		{"environment fallback", "", ServerUnknown, "@im=kinput2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveModifiers(tt.explicit, tt.detected); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
