// Package dhcp provides a foreign-DHCP-server detection adapter.
package dhcp

import (
	"context"
	"net"
	"time"

	"orangebox-setup/internal/pkg/logging"
	"orangebox-setup/internal/port"

	"github.com/insomniacslk/dhcp/dhcpv4/nclient4"
)

// DetectorAdapter is an adapter that implements the DHCPDetector port
// using the nclient4 library. The box runs its own DHCP service on the
// internal segments once provisioned, so a foreign server answering
// DISCOVER there means a cabling or neighbour misconfiguration.
type DetectorAdapter struct {
	timeout time.Duration
}

// Ensure DetectorAdapter implements the DHCPDetector port
var _ port.DHCPDetector = (*DetectorAdapter)(nil)

// NewDetectorAdapter creates a new DHCP detector adapter.
func NewDetectorAdapter(timeout time.Duration) *DetectorAdapter {
	return &DetectorAdapter{timeout: timeout}
}

// Detect broadcasts a DISCOVER on the interface and returns the
// responding server's identifier, or nil if nothing answered before the
// timeout. A silent segment is the expected outcome.
func (d *DetectorAdapter) Detect(ctx context.Context, interfaceName string) (net.IP, error) {
	logger := logging.WithComponentAndStep("dhcp-detect", interfaceName)

	client, err := nclient4.New(interfaceName, nclient4.WithTimeout(d.timeout), nclient4.WithRetry(1))
	if err != nil {
		return nil, err
	}
	defer client.Close()

	offer, err := client.DiscoverOffer(ctx)
	if err != nil {
		// No offer before the timeout: the segment is quiet.
		logger.WithError(err).Debug("No DHCP offer received")
		return nil, nil
	}

	server := offer.ServerIdentifier()
	logger.WithField("server", server.String()).Warn("Received DHCP offer on internal segment")
	return server, nil
}
