// Package topology derives the address plan and interface roles for a box
// from its number. Everything here is pure: interface discovery and host
// state live behind ports so the planning logic tests without hardware.
package topology

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"orangebox-setup/internal/pkg/logging"
	"orangebox-setup/internal/provision"
)

const (
	// maxBoxNumber keeps n+3 inside the third octet. The historical
	// tooling had no guard here; exceeding it produced impossible
	// addresses, so it is rejected outright now.
	maxBoxNumber = 252

	// boxConfKey is the fixed key in /etc/orange-box.conf.
	boxConfKey = "orangebox_number"
)

var hostnameSuffix = regexp.MustCompile(`(\d+)$`)

// ValidateBoxNumber checks that a box number can produce a valid plan.
//
// Box numbers are documented as multiples of 4, but the check the fleet
// has always run is n/4 < 1, which only rejects numbers below 4. That
// looser boundary is kept for compatibility with boxes numbered off the
// documented grid; a non-multiple of 4 logs a warning instead of failing.
func ValidateBoxNumber(n int) error {
	if n/4 < 1 {
		return &provision.InvalidTopologyError{Number: n, Reason: "must be at least 4"}
	}
	if n > maxBoxNumber {
		return &provision.InvalidTopologyError{Number: n, Reason: fmt.Sprintf("must be at most %d to fit the 172.27.0.0/16 space", maxBoxNumber)}
	}
	if n%4 != 0 {
		logging.WithComponent("topology").WithField("number", n).Warn("Box number is not a multiple of 4; proceeding anyway")
	}
	return nil
}

// NumberFromHostname extracts the box number from a hostname of the form
// OrangeBoxNN.
func NumberFromHostname(hostname string) (int, error) {
	matches := hostnameSuffix.FindStringSubmatch(hostname)
	if matches == nil {
		return 0, &provision.InvalidTopologyError{Reason: fmt.Sprintf("hostname %q has no trailing number", hostname)}
	}
	n, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, &provision.InvalidTopologyError{Reason: fmt.Sprintf("hostname %q: %v", hostname, err)}
	}
	return n, nil
}

// ParseBoxConf reads the box number from /etc/orange-box.conf contents.
// The format is a fixed contract: one orangebox_number=<int> line.
func ParseBoxConf(data []byte) (int, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found || strings.TrimSpace(key) != boxConfKey {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, &provision.InvalidTopologyError{Reason: fmt.Sprintf("bad %s value %q", boxConfKey, value)}
		}
		return n, nil
	}
	return 0, &provision.InvalidTopologyError{Reason: fmt.Sprintf("no %s key found", boxConfKey)}
}

// FormatBoxConf renders the box config file contents for a number.
func FormatBoxConf(n int) []byte {
	return []byte(fmt.Sprintf("%s=%d\n", boxConfKey, n))
}
