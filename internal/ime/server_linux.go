//go:build linux

package ime

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// DetectServer asks the session bus which input method server is running.
// It returns ServerUnknown with a nil error when the bus is reachable but no
// known server owns a name.
func DetectServer(ctx context.Context) (Server, error) {
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return ServerUnknown, fmt.Errorf("ime: connect session bus: %w", err)
	}
	defer conn.Close()

	var names []string
	err = conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.ListNames", 0).Store(&names)
	if err != nil {
		return ServerUnknown, fmt.Errorf("ime: list bus names: %w", err)
	}
	return serverFromBusNames(names), nil
}
