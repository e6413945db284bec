package probe

import (
	"context"
	"fmt"
	"net"
	"time"

	"orangebox-setup/internal/port"

	"github.com/miekg/dns"
)

const resolvConf = "/etc/resolv.conf"

// ResolverAdapter is an adapter that implements the Resolver port using
// the miekg/dns client. Queries go straight to the configured server so
// the probe exercises the resolver path the nodes will use, not any
// local cache.
type ResolverAdapter struct {
	server  string // host:port; empty means read /etc/resolv.conf
	timeout time.Duration
}

// Ensure ResolverAdapter implements the Resolver port
var _ port.Resolver = (*ResolverAdapter)(nil)

// NewResolverAdapter creates a new DNS probe adapter. An empty server
// falls back to the first nameserver in /etc/resolv.conf at query time.
func NewResolverAdapter(server string, timeout time.Duration) *ResolverAdapter {
	return &ResolverAdapter{server: server, timeout: timeout}
}

// Resolve looks up A records for the given hostname.
func (r *ResolverAdapter) Resolve(ctx context.Context, hostname string) ([]net.IP, error) {
	server := r.server
	if server == "" {
		conf, err := dns.ClientConfigFromFile(resolvConf)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", resolvConf, err)
		}
		if len(conf.Servers) == 0 {
			return nil, fmt.Errorf("no nameservers configured in %s", resolvConf)
		}
		server = net.JoinHostPort(conf.Servers[0], conf.Port)
	}

	client := &dns.Client{Timeout: r.timeout}
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(hostname), dns.TypeA)
	msg.RecursionDesired = true

	reply, _, err := client.ExchangeContext(ctx, msg, server)
	if err != nil {
		return nil, fmt.Errorf("query %s at %s: %w", hostname, server, err)
	}
	if reply.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("query %s at %s: rcode %s", hostname, server, dns.RcodeToString[reply.Rcode])
	}

	var ips []net.IP
	for _, rr := range reply.Answer {
		if a, ok := rr.(*dns.A); ok {
			ips = append(ips, a.A)
		}
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("query %s at %s: no A records", hostname, server)
	}
	return ips, nil
}
