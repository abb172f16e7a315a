package netcheck_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golift.io/janitorr/netcheck"
)

func TestParsePorts(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	ports, err := netcheck.ParsePorts("22,80,1000-1002")
	assert.Nil(err)
	assert.Equal([]int{22, 80, 1000, 1001, 1002}, ports)

	// Reversed ranges are swapped, duplicates collapse, spacing is fine.
	ports, err = netcheck.ParsePorts(" 8080, 22-20 ,22")
	assert.Nil(err)
	assert.Equal([]int{20, 21, 22, 8080}, ports)

	_, err = netcheck.ParsePorts("")
	assert.ErrorIs(err, netcheck.ErrNoPorts)

	_, err = netcheck.ParsePorts("80,70000")
	assert.ErrorIs(err, netcheck.ErrBadPort)

	_, err = netcheck.ParsePorts("ssh")
	assert.NotNil(err)
}

func TestSweepRange(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	sweeper := &netcheck.Sweeper{
		Workers: 4,
		Ping: func(_ context.Context, host string, _ time.Duration) bool {
			return host == "10.0.0.2" || host == "10.0.0.4"
		},
	}

	live, err := sweeper.SweepRange(context.Background(), "10.0.0.", 1, 5)
	assert.Nil(err)
	assert.Equal([]string{"10.0.0.2", "10.0.0.4"}, live, "live hosts come back in address order")

	_, err = sweeper.SweepRange(context.Background(), "10.0.0", 1, 5)
	assert.ErrorIs(err, netcheck.ErrBadNetwork)
}

func TestSweepCIDR(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var pinged []string

	sweeper := &netcheck.Sweeper{
		Workers: 1,
		Ping: func(_ context.Context, host string, _ time.Duration) bool {
			pinged = append(pinged, host)

			return host == "192.168.5.1"
		},
	}

	// A /30 has two usable hosts; network and broadcast are skipped.
	live, err := sweeper.SweepCIDR(context.Background(), "192.168.5.0/30")
	assert.Nil(err)
	assert.Equal([]string{"192.168.5.1", "192.168.5.2"}, pinged)
	assert.Equal([]string{"192.168.5.1"}, live)

	// A /32 is the single address itself.
	sweeper.Ping = func(context.Context, string, time.Duration) bool { return true }
	live, err = sweeper.SweepCIDR(context.Background(), "127.0.0.1/32")
	assert.Nil(err)
	assert.Equal([]string{"127.0.0.1"}, live)

	_, err = sweeper.SweepCIDR(context.Background(), "not-a-cidr")
	assert.NotNil(err)
}

func TestScan(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	assert.Nil(err)
	defer listener.Close()

	openPort := listener.Addr().(*net.TCPAddr).Port

	// Grab a second port and release it so the probe finds it closed.
	closer, err := net.Listen("tcp", "127.0.0.1:0")
	assert.Nil(err)

	closedPort := closer.Addr().(*net.TCPAddr).Port
	assert.Nil(closer.Close())

	scanner := &netcheck.Scanner{Timeout: time.Second, Workers: 2}

	open, err := scanner.Scan(context.Background(), "127.0.0.1", []int{openPort, closedPort})
	assert.Nil(err)
	assert.Equal([]int{openPort}, open)
}

func TestScanBadHost(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	scanner := &netcheck.Scanner{Timeout: time.Second}

	_, err := scanner.Scan(context.Background(), "host.invalid", []int{80})
	assert.NotNil(err)
	assert.Contains(err.Error(), "resolving host.invalid")
}

func TestHTTPCheck(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	// A server that is already gone produces a transport error.
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	checker := &netcheck.HTTPChecker{Timeout: 2 * time.Second, Workers: 3}

	statuses := checker.Check(context.Background(),
		[]string{server.URL + "/ok", server.URL + "/bad", deadURL})
	assert.Len(statuses, 3)

	assert.True(statuses[0].Accessible)
	assert.Equal(http.StatusOK, statuses[0].StatusCode)
	assert.Nil(statuses[0].Err)

	assert.False(statuses[1].Accessible)
	assert.Equal(http.StatusInternalServerError, statuses[1].StatusCode)
	assert.Nil(statuses[1].Err, "an HTTP error status is still a completed request")

	assert.False(statuses[2].Accessible)
	assert.Zero(statuses[2].StatusCode)
	assert.NotNil(statuses[2].Err)
}
