//go:build !linux

package ime

import "context"

// DetectServer reports ServerUnknown; XIM servers are only discovered over
// the Linux session bus.
func DetectServer(ctx context.Context) (Server, error) {
	return ServerUnknown, nil
}
