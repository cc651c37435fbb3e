package ime

import (
	"errors"
	"fmt"
)

// ErrNullHandle is returned when the native creation call yields no context.
var ErrNullHandle = errors.New("ime: XCreateIC returned NULL")

// ProtocolError describes an asynchronous X protocol error reported by the
// windowing connection after an otherwise successful request.
type ProtocolError struct {
	// Description is the server's text for ErrorCode, when available.
	Description string

	ErrorCode   uint8
	RequestCode uint8
	MinorCode   uint8
	Serial      uint64
	ResourceID  uint64
}

func (e *ProtocolError) Error() string {
	desc := e.Description
	if desc == "" {
		desc = fmt.Sprintf("error code %d", e.ErrorCode)
	}
	return fmt.Sprintf("X protocol error: %s (request %d.%d, serial %d, resource 0x%x)",
		desc, e.RequestCode, e.MinorCode, e.Serial, e.ResourceID)
}
