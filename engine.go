package janitorr

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golift.io/janitorr/filer"
)

// Config is the data needed to create a new rotation Engine.
type Config struct {
	Policy     Policy      // Size threshold and chain depth.
	ArchiveDir string      // REQUIRED: where rotated generations are kept.
	FileMode   os.FileMode // POSIX mode for new archive files.
	DirMode    os.FileMode // POSIX mode for new folders.
	// PostRotate is called after a live log lands in generation 1.
	// Use it to dispatch compression or notifications. It blocks the sweep.
	PostRotate func(livePath, archivePath string)
	Filer      filer.Filer // overridable file system procedures.
}

// Engine rotates live logs into a generational archive chain. Obtain one
// by calling New. The engine exclusively owns the <base>.<N> names inside
// its archive directory and never touches anything else there.
type Engine struct {
	config *Config
	filer.Filer
}

// New validates the configuration, creates the archive directory, and
// returns an Engine. A failure here is a startup problem the caller
// should treat as fatal.
func New(config *Config) (*Engine, error) {
	if config.ArchiveDir == "" {
		return nil, ErrNoArchiveDir
	}

	if config.Policy.MaxSizeBytes == 0 {
		config.Policy.MaxSizeBytes = DefaultMaxSize
	}

	if err := config.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("validating policy: %w", err)
	}

	if config.DirMode == 0 {
		config.DirMode = DirMode
	}

	if config.FileMode == 0 {
		config.FileMode = FileMode
	}

	engine := &Engine{config: config, Filer: config.Filer}
	if engine.Filer == nil {
		engine.Filer = filer.Default()
	}

	if err := engine.MkdirAll(config.ArchiveDir, config.DirMode); err != nil {
		return nil, fmt.Errorf("making archive directory: %w", err)
	}

	return engine, nil
}

// Rotate evaluates one live log against the policy and rotates it when
// it has grown past the size threshold. A missing file and a file below
// the threshold are both benign skips, not errors.
//
// Rotation is not synchronized against concurrent appenders; bytes
// written between the copy and the truncate are lost. Best-effort
// single-writer, same as the copytruncate scheme it mirrors.
func (e *Engine) Rotate(livePath string) (*Outcome, error) {
	info, err := e.Stat(livePath)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &Outcome{LivePath: livePath, SkipReason: SkipNotFound}, nil
	case err != nil:
		return nil, fmt.Errorf("checking live log: %w", err)
	case info.Size() <= e.config.Policy.MaxSizeBytes:
		return &Outcome{LivePath: livePath, SkipReason: SkipBelowThreshold}, nil
	}

	archivePath, err := e.ageGenerations(filepath.Base(livePath))
	if err != nil {
		return nil, err
	}

	if archivePath != "" {
		if err := e.copyContent(livePath, archivePath); err != nil {
			return nil, err
		}
	}

	// Truncate in place so a writer holding an open descriptor keeps
	// writing to the same inode. Never rename or recreate the live file.
	if err := e.Truncate(livePath, 0); err != nil {
		return nil, fmt.Errorf("truncating live log: %w", err)
	}

	if e.config.PostRotate != nil && archivePath != "" {
		e.config.PostRotate(livePath, archivePath)
	}

	return &Outcome{
		LivePath:     livePath,
		Rotated:      true,
		PreviousSize: info.Size(),
		ArchivePath:  archivePath,
	}, nil
}

// ageGenerations shifts the archive chain down one slot. Processing must
// run from the highest generation to the lowest so no slot is
// overwritten before it has been moved. Returns the generation-1 path
// the caller should fill, or "" when the policy keeps no generations.
func (e *Engine) ageGenerations(base string) (string, error) {
	oldest := e.config.Policy.MaxRotations
	if oldest == 0 {
		return "", nil
	}

	for gen := oldest; gen >= 1; gen-- {
		name, ok, err := e.findSlot(base, gen)
		if err != nil {
			return "", err
		}

		if !ok {
			continue
		}

		if gen == oldest {
			// The oldest generation falls off the end of the chain.
			if err := e.Remove(name); err != nil {
				return "", fmt.Errorf("evicting generation %d: %w", gen, err)
			}

			continue
		}

		ext := ""
		if strings.HasSuffix(name, GZext) {
			ext = GZext
		}

		next := e.slotPath(base, gen+1) + ext
		if err := e.Rename(name, next); err != nil {
			return "", fmt.Errorf("aging generation %d: %w", gen, err)
		}
	}

	return e.slotPath(base, 1), nil
}

// slotPath returns the file name for a (base, generation) archive slot.
func (e *Engine) slotPath(base string, gen int) string {
	return filepath.Join(e.config.ArchiveDir, base+Joiner+strconv.Itoa(gen))
}

// findSlot locates the file occupying a generation slot. Compressed
// archives keep their .gz suffix through aging, so both names are probed.
// A stat failure other than not-exist aborts the rotation; treating it
// as an empty slot would let the copy overwrite an unshifted generation.
func (e *Engine) findSlot(base string, gen int) (string, bool, error) {
	path := e.slotPath(base, gen)
	for _, name := range []string{path, path + GZext} {
		_, err := e.Stat(name)

		switch {
		case err == nil:
			return name, true, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf("checking generation %d: %w", gen, err)
		}
	}

	return "", false, nil
}

// copyContent copies the live log into its archive slot. Copy, not
// rename: the live inode must survive for processes already writing it.
func (e *Engine) copyContent(livePath, archivePath string) error {
	src, err := e.OpenFile(livePath, os.O_RDONLY, 0)
	if err != nil {
		return fmt.Errorf("opening live log: %w", err)
	}
	defer src.Close()

	dst, err := e.OpenFile(archivePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, e.config.FileMode)
	if err != nil {
		return fmt.Errorf("creating archive file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()

		return fmt.Errorf("copying %s -> %s: %w", livePath, archivePath, err)
	}

	if err := dst.Close(); err != nil {
		return fmt.Errorf("closing archive file: %w", err)
	}

	return nil
}

// Sweep applies Rotate to every live log in logDir, in directory order.
// One file's failure never aborts the batch; every candidate gets a
// Result the caller can report on.
func (e *Engine) Sweep(logDir string) []Result {
	entries, err := e.ReadDir(logDir)
	if err != nil {
		return []Result{{Path: logDir, Err: fmt.Errorf("listing log directory: %w", err)}}
	}

	var results []Result

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), LogExt) {
			continue // not our file.
		}

		path := filepath.Join(logDir, entry.Name())
		outcome, err := e.Rotate(path)
		results = append(results, Result{Path: path, Outcome: outcome, Err: err})
	}

	return results
}
