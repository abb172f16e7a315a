package netcheck

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Custom errors returned by the port scanner.
var (
	ErrNoPorts = errors.New("no valid ports given")
	ErrBadPort = errors.New("port out of range")
)

// Scanner probes TCP ports with plain connect attempts. No SYN
// trickery; a port is open when a full handshake succeeds.
type Scanner struct {
	Timeout time.Duration // per-port connect timeout; default one second.
	Workers int           // concurrent probes; default DefaultWorkers.
	// Dial is mockable. Leave nil for a net.Dialer with Timeout applied.
	Dial func(ctx context.Context, network, address string) (net.Conn, error)
}

// ParsePorts expands a list like "22,80,1000-1010" into sorted,
// deduplicated port numbers. A reversed range is swapped.
func ParsePorts(list string) ([]int, error) {
	seen := map[int]struct{}{}

	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		first, last := part, part
		if before, after, found := strings.Cut(part, "-"); found {
			first, last = before, after
		}

		start, err := strconv.Atoi(first)
		if err != nil {
			return nil, fmt.Errorf("parsing port %q: %w", part, err)
		}

		end, err := strconv.Atoi(last)
		if err != nil {
			return nil, fmt.Errorf("parsing port %q: %w", part, err)
		}

		if start > end {
			start, end = end, start
		}

		for port := start; port <= end; port++ {
			if port < 1 || port > 65535 {
				return nil, fmt.Errorf("%w: %d", ErrBadPort, port)
			}

			seen[port] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return nil, ErrNoPorts
	}

	ports := make([]int, 0, len(seen))
	for port := range seen {
		ports = append(ports, port)
	}

	sort.Ints(ports)

	return ports, nil
}

// Scan resolves host once and connect-probes every port. Returns the
// open ports in ascending order.
func (s *Scanner) Scan(ctx context.Context, host string, ports []int) ([]int, error) {
	addrs, err := net.DefaultResolver.LookupHost(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", host, err)
	}

	target := addrs[0]

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	dial := s.Dial
	if dial == nil {
		dial = (&net.Dialer{Timeout: timeout}).DialContext
	}

	open := make([]bool, len(ports))
	runPool(s.Workers, len(ports), func(i int) {
		conn, err := dial(ctx, "tcp", net.JoinHostPort(target, strconv.Itoa(ports[i])))
		if err == nil {
			conn.Close()

			open[i] = true
		}
	})

	var result []int

	for i, port := range ports {
		if open[i] {
			result = append(result, port)
		}
	}

	return result, nil
}
