// Package deploy manages timestamped application releases on a single
// host. Each deploy copies a source tree into releases/<stamp> under the
// app root, repoints the current and previous symlinks, prunes releases
// past the retention count, and asks the service manager for a graceful
// reload. Rollback swaps current and previous.
package deploy

//go:generate mockgen -destination=../mocks/reloader.go -package=mocks golift.io/janitorr/deploy Reloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Names under the app root. The layout is:
//
//	<root>/releases/<2006-01-02_150405>/...
//	<root>/current  -> releases/<newest>
//	<root>/previous -> releases/<the one before>
const (
	ReleasesDir  = "releases"
	CurrentLink  = "current"
	PreviousLink = "previous"
	StampFormat  = "2006-01-02_150405"
)

// DirMode is the POSIX mode for created release directories.
const DirMode os.FileMode = 0o755

// Custom errors returned by this package.
var (
	ErrNoAppRoot  = errors.New("no app root provided")
	ErrNoSource   = errors.New("source directory not found")
	ErrNoPrevious = errors.New("no previous release to roll back to")
)

// skipNames are never copied into a release.
var skipNames = map[string]struct{}{ //nolint:gochecknoglobals
	".git":        {},
	"__pycache__": {},
	".venv":       {},
}

// Deployer installs and activates releases under one app root.
type Deployer struct {
	AppRoot      string           // REQUIRED: e.g. /opt/myapp.
	KeepReleases int              // Releases to retain; zero keeps everything.
	Service      string           // Unit to reload after a switch; empty skips the reload.
	Reloader     Reloader         // How reloads happen; nil skips the reload.
	Now          func() time.Time // stamp clock; defaults to time.Now.
}

// Deploy copies srcDir into a fresh timestamped release, makes it
// current, prunes old releases, and reloads the service. Returns the
// release path.
func (d *Deployer) Deploy(ctx context.Context, srcDir string) (string, error) {
	if d.AppRoot == "" {
		return "", ErrNoAppRoot
	}

	if info, err := os.Stat(srcDir); err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNoSource, srcDir)
	}

	releases := filepath.Join(d.AppRoot, ReleasesDir)
	if err := os.MkdirAll(releases, DirMode); err != nil {
		return "", fmt.Errorf("making releases directory: %w", err)
	}

	now := time.Now
	if d.Now != nil {
		now = d.Now
	}

	release := filepath.Join(releases, now().Format(StampFormat))
	if err := os.Mkdir(release, DirMode); err != nil {
		return "", fmt.Errorf("making release directory: %w", err)
	}

	if err := copyTree(srcDir, release); err != nil {
		return "", err
	}

	if err := d.switchover(release); err != nil {
		return "", err
	}

	if err := d.prune(); err != nil {
		return "", err
	}

	return release, d.reload(ctx)
}

// Rollback makes the previous release current again and reloads the
// service. The old current becomes previous, so a second rollback swaps
// back.
func (d *Deployer) Rollback(ctx context.Context) error {
	if d.AppRoot == "" {
		return ErrNoAppRoot
	}

	previous := filepath.Join(d.AppRoot, PreviousLink)

	target, err := os.Readlink(previous)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNoPrevious, previous)
	}

	if info, err := os.Stat(target); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: target missing: %s", ErrNoPrevious, target)
	}

	if err := d.switchover(target); err != nil {
		return err
	}

	return d.reload(ctx)
}

// Current returns the path of the active release, or "" when nothing has
// been deployed yet.
func (d *Deployer) Current() string {
	target, err := os.Readlink(filepath.Join(d.AppRoot, CurrentLink))
	if err != nil {
		return ""
	}

	return target
}

// switchover points current at the release, saving the old current as
// previous. The current link is replaced last so a crash mid-switch
// leaves a working (if stale) current.
func (d *Deployer) switchover(release string) error {
	var (
		current  = filepath.Join(d.AppRoot, CurrentLink)
		previous = filepath.Join(d.AppRoot, PreviousLink)
	)

	if target, err := os.Readlink(current); err == nil {
		if err := os.Remove(previous); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("clearing previous link: %w", err)
		}

		if err := os.Symlink(target, previous); err != nil {
			return fmt.Errorf("saving previous link: %w", err)
		}

		if err := os.Remove(current); err != nil {
			return fmt.Errorf("clearing current link: %w", err)
		}
	}

	if err := os.Symlink(release, current); err != nil {
		return fmt.Errorf("linking current release: %w", err)
	}

	return nil
}

// prune deletes the oldest releases past KeepReleases. The stamp format
// sorts lexically, so directory order is chronological. Releases still
// referenced by current or previous are never deleted, whatever the
// retention count says.
func (d *Deployer) prune() error {
	if d.KeepReleases < 1 {
		return nil
	}

	releases := filepath.Join(d.AppRoot, ReleasesDir)

	entries, err := os.ReadDir(releases)
	if err != nil {
		return fmt.Errorf("listing releases: %w", err)
	}

	keep := map[string]struct{}{}

	for _, link := range []string{CurrentLink, PreviousLink} {
		if target, err := os.Readlink(filepath.Join(d.AppRoot, link)); err == nil {
			keep[filepath.Base(target)] = struct{}{}
		}
	}

	var names []string

	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)

	for excess := len(names) - d.KeepReleases; excess > 0; excess-- {
		name := names[0]
		names = names[1:]

		if _, ok := keep[name]; ok {
			continue
		}

		if err := os.RemoveAll(filepath.Join(releases, name)); err != nil {
			return fmt.Errorf("pruning release %s: %w", name, err)
		}
	}

	return nil
}

// reload asks the service manager for a graceful reload, when configured.
func (d *Deployer) reload(ctx context.Context) error {
	if d.Reloader == nil || d.Service == "" {
		return nil
	}

	if err := d.Reloader.Reload(ctx, d.Service); err != nil {
		return fmt.Errorf("reloading %s: %w", d.Service, err)
	}

	return nil
}

// copyTree copies a directory tree, skipping VCS and cache directories.
// Symlinks inside the source are recreated, not followed.
func copyTree(srcDir, dstDir string) error {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return fmt.Errorf("listing source: %w", err)
	}

	for _, entry := range entries {
		if _, ok := skipNames[entry.Name()]; ok {
			continue
		}

		var (
			src = filepath.Join(srcDir, entry.Name())
			dst = filepath.Join(dstDir, entry.Name())
		)

		switch {
		case entry.Type()&os.ModeSymlink != 0:
			target, err := os.Readlink(src)
			if err != nil {
				return fmt.Errorf("reading symlink %s: %w", src, err)
			}

			if err := os.Symlink(target, dst); err != nil {
				return fmt.Errorf("copying symlink %s: %w", src, err)
			}
		case entry.IsDir():
			if err := os.MkdirAll(dst, DirMode); err != nil {
				return fmt.Errorf("making directory %s: %w", dst, err)
			}

			if err := copyTree(src, dst); err != nil {
				return err
			}
		default:
			if err := copyFile(src, dst, entry); err != nil {
				return err
			}
		}
	}

	return nil
}

// copyFile copies one regular file, preserving its mode.
func copyFile(src, dst string, entry os.DirEntry) error {
	info, err := entry.Info()
	if err != nil {
		return fmt.Errorf("stating %s: %w", src, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()

		return fmt.Errorf("copying %s: %w", src, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dst, err)
	}

	return nil
}
