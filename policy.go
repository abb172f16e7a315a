package janitorr

import (
	"errors"
	"os"
)

// These are the default directory and archive file POSIX modes.
const (
	FileMode os.FileMode = 0o600
	DirMode  os.FileMode = 0o750
)

// Defaults used when Policy members are omitted.
const (
	DefaultMaxSize   = 10 * 1024 * 1024 // rotate at 10 megabytes.
	DefaultRotations = 5
)

// Some constants this package uses for archive names.
const (
	LogExt = ".log" // suffix that marks a live log.
	GZext  = ".gz"  // kept through aging on compressed archives.
	Joiner = "."    // joins base name with generation number.
)

// Custom errors returned by this package.
var (
	ErrNoArchiveDir = errors.New("no archive directory provided")
	ErrBadMaxSize   = errors.New("max file size must be larger than zero")
	ErrBadRotations = errors.New("max rotations must be zero or more")
)

// Policy is the immutable rotation configuration. Read it in once at
// process start and hand it to New; the engine never mutates it.
type Policy struct {
	MaxSizeBytes int64 // Rotate a live log once its size exceeds this.
	MaxRotations int   // Generations to retain. Zero discards rolled-over content.
}

// Validate returns an error when the policy cannot be acted on.
func (p Policy) Validate() error {
	if p.MaxSizeBytes <= 0 {
		return ErrBadMaxSize
	}

	if p.MaxRotations < 0 {
		return ErrBadRotations
	}

	return nil
}
