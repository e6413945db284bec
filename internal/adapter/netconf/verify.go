package netconf

import (
	"context"

	"orangebox-setup/internal/provision"

	"github.com/sirupsen/logrus"
)

// verifyNetwork probes raw IPv4 reachability. A fixed number of attempts,
// no backoff; one reply is enough.
func (a *Applier) verifyNetwork(ctx context.Context, logger *logrus.Entry) error {
	logger.WithField("target", a.probeAddress).Info("Waiting for network to come up")

	for attempt := 1; attempt <= a.probeAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.pinger.Ping(ctx, a.probeAddress); err != nil {
			logger.WithError(err).WithField("attempt", attempt).Info("Still waiting for network")
			continue
		}
		logger.Info("Network is reachable")
		return nil
	}

	return &provision.NetworkUnreachableError{Target: a.probeAddress, Attempts: a.probeAttempts}
}

// verifyDNS probes name resolution against the freshly configured
// resolver path.
func (a *Applier) verifyDNS(ctx context.Context, logger *logrus.Entry) error {
	logger.WithField("hostname", a.probeHostname).Info("Waiting for DNS to come up")

	for attempt := 1; attempt <= a.probeAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		ips, err := a.resolver.Resolve(ctx, a.probeHostname)
		if err != nil {
			logger.WithError(err).WithField("attempt", attempt).Info("Still waiting for DNS")
			continue
		}
		logger.WithField("addresses", len(ips)).Info("DNS is resolving")
		return nil
	}

	return &provision.DNSUnreachableError{Hostname: a.probeHostname, Attempts: a.probeAttempts}
}
