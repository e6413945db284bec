// Package probe provides reachability probe adapters (ICMP echo and DNS).
package probe

import (
	"context"
	"fmt"
	"time"

	"orangebox-setup/internal/port"

	probing "github.com/prometheus-community/pro-bing"
)

// PingerAdapter is an adapter that implements the Pinger port using the
// pro-bing library. The provisioner runs as root, so privileged raw
// sockets are used rather than UDP ping.
type PingerAdapter struct {
	timeout time.Duration
}

// Ensure PingerAdapter implements the Pinger port
var _ port.Pinger = (*PingerAdapter)(nil)

// NewPingerAdapter creates a new ICMP probe adapter.
func NewPingerAdapter(timeout time.Duration) *PingerAdapter {
	return &PingerAdapter{timeout: timeout}
}

// Ping sends a single echo request and waits for a reply.
func (p *PingerAdapter) Ping(ctx context.Context, address string) error {
	pinger, err := probing.NewPinger(address)
	if err != nil {
		return fmt.Errorf("failed to create pinger for %s: %w", address, err)
	}

	pinger.Count = 1
	pinger.Timeout = p.timeout
	pinger.SetPrivileged(true)

	if err := pinger.RunWithContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", address, err)
	}

	if pinger.Statistics().PacketsRecv == 0 {
		return fmt.Errorf("ping %s: no reply within %s", address, p.timeout)
	}
	return nil
}
