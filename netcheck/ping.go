package netcheck

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// ErrBadNetwork is returned when a base network lacks its trailing dot.
var ErrBadNetwork = errors.New("base network must end with a dot, e.g. 192.168.1.")

// Sweeper finds live hosts by pinging an address range.
type Sweeper struct {
	Timeout time.Duration // per-host ping timeout; default one second.
	Workers int           // concurrent pings; default DefaultWorkers.
	// Ping reports whether one host answered. Leave nil to shell out to
	// the system ping, which needs no raw-socket privilege.
	Ping func(ctx context.Context, host string, timeout time.Duration) bool
}

// SweepCIDR pings every usable host address in a CIDR block and returns
// the ones that answered, in address order.
func (s *Sweeper) SweepCIDR(ctx context.Context, cidr string) ([]string, error) {
	hosts, err := hostAddrs(cidr)
	if err != nil {
		return nil, err
	}

	return s.sweep(ctx, hosts), nil
}

// SweepRange pings base+start through base+end, e.g. 192.168.1.1-50.
// A reversed range is swapped rather than rejected.
func (s *Sweeper) SweepRange(ctx context.Context, base string, start, end int) ([]string, error) {
	if !strings.HasSuffix(base, ".") {
		return nil, fmt.Errorf("%w: %s", ErrBadNetwork, base)
	}

	if start > end {
		start, end = end, start
	}

	hosts := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		hosts = append(hosts, base+strconv.Itoa(i))
	}

	return s.sweep(ctx, hosts), nil
}

func (s *Sweeper) sweep(ctx context.Context, hosts []string) []string {
	ping := s.Ping
	if ping == nil {
		ping = systemPing
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	up := make([]bool, len(hosts))
	runPool(s.Workers, len(hosts), func(i int) {
		up[i] = ping(ctx, hosts[i], timeout)
	})

	var live []string

	for i, host := range hosts {
		if up[i] {
			live = append(live, host)
		}
	}

	return live
}

// hostAddrs expands a CIDR block into its usable host addresses. The
// network and broadcast addresses are excluded on IPv4 blocks wider
// than /31; a /31 or /32 yields every address it covers.
func hostAddrs(cidr string) ([]string, error) {
	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return nil, fmt.Errorf("parsing CIDR: %w", err)
	}

	prefix = prefix.Masked()

	var hosts []string

	for addr := prefix.Addr(); prefix.Contains(addr); addr = addr.Next() {
		hosts = append(hosts, addr.String())
	}

	if prefix.Addr().Is4() && prefix.Bits() < 31 && len(hosts) > 2 {
		hosts = hosts[1 : len(hosts)-1]
	}

	return hosts, nil
}

// systemPing sends one echo request through the ping binary.
func systemPing(ctx context.Context, host string, timeout time.Duration) bool {
	secs := int(timeout / time.Second)
	if secs < 1 {
		secs = 1
	}

	args := []string{"-c", "1", "-W", strconv.Itoa(secs), host}
	if runtime.GOOS == "windows" {
		args = []string{"-n", "1", "-w", strconv.Itoa(int(timeout.Milliseconds())), host}
	}

	return exec.CommandContext(ctx, "ping", args...).Run() == nil
}
