package deploy

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-systemd/v22/dbus"
)

// ErrReloadFailed is returned when systemd reports anything but "done".
var ErrReloadFailed = errors.New("service reload failed")

// Reloader triggers a graceful reload of a service unit after a
// release switch. Implementations must not restart-with-downtime;
// deploys rely on the reload being zero-downtime.
type Reloader interface {
	Reload(ctx context.Context, unit string) error
}

// SystemdReloader reloads units over the systemd D-Bus API.
type SystemdReloader struct{}

// Reload issues ReloadUnit and waits for the queued job to finish.
func (SystemdReloader) Reload(ctx context.Context, unit string) error {
	conn, err := dbus.NewWithContext(ctx)
	if err != nil {
		return fmt.Errorf("connecting to systemd: %w", err)
	}
	defer conn.Close()

	done := make(chan string, 1)

	if _, err := conn.ReloadUnitContext(ctx, unit, "replace", done); err != nil {
		return fmt.Errorf("queueing reload of %s: %w", unit, err)
	}

	select {
	case result := <-done:
		if result != "done" {
			return fmt.Errorf("%w: %s returned %q", ErrReloadFailed, unit, result)
		}
	case <-ctx.Done():
		return fmt.Errorf("waiting for reload of %s: %w", unit, ctx.Err())
	}

	return nil
}

// NopReloader skips the reload. Useful for dry runs and tests.
type NopReloader struct{}

// Reload does nothing.
func (NopReloader) Reload(context.Context, string) error { return nil }

// Both implementations must satisfy the Reloader interface.
var (
	_ Reloader = (*SystemdReloader)(nil)
	_ Reloader = (*NopReloader)(nil)
)
