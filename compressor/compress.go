// Package compressor gzips rotated archive generations. Wire one of the
// PostRotate procedures into an engine Config to compress each archive
// slot as it is created; the engine's chain aging preserves the .gz
// suffix on later rotations.
package compressor

import (
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"golift.io/janitorr/filer"
)

// SuffixGZ is appended to a fileName to make the new compressed file name.
const SuffixGZ = ".gz"

// CompressLevel sets the global compression level.
var CompressLevel = gzip.DefaultCompression //nolint:gochecknoglobals

// Filer allows overriding os-file procedures.
var Filer = filer.Default() //nolint:gochecknoglobals

// Report describes one compression operation.
// Always check Error before trusting the New* members.
type Report struct {
	OldFile string
	NewFile string
	OldSize int64
	NewSize int64
	Elapsed time.Duration
	Error   error
}

// Compress gzips a file, removes the original, and returns a report.
// Blocks until finished.
func Compress(fileName string) (*Report, error) {
	report := &Report{OldFile: fileName, NewFile: fileName + SuffixGZ}

	level := CompressLevel
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}

	info, err := Filer.Stat(report.OldFile)
	if report.Error = err; report.Error != nil {
		return report, fmt.Errorf("stating old file: %w", report.Error)
	}

	report.OldSize = info.Size()
	start := time.Now()
	report.NewSize, report.Error = compress(report.OldFile, report.NewFile, info.Mode(), level)
	report.Elapsed = time.Since(start)

	if report.Error != nil {
		return report, fmt.Errorf("compressor error: %w", report.Error)
	}

	return report, nil
}

// PostRotate satisfies the post-rotate hook in the janitorr engine.
// It blocks the sweep until compression finishes, so the next rotation
// never races the compressor. Results go to the global logger.
func PostRotate(_, archivePath string) {
	report, _ := Compress(archivePath)
	Log(report, nil)
}

// PostRotateBackground is the non-blocking variant of PostRotate.
// Avoid it when the next sweep could start before compression ends.
func PostRotateBackground(_, archivePath string) {
	go PostRotate("", archivePath)
}

// CompressBackground runs a file compression in the background.
// A report is sent to the provided callback when compression finishes.
func CompressBackground(fileName string, callback func(report *Report)) {
	go func() {
		report, _ := Compress(fileName)

		if callback != nil {
			callback(report)
		}
	}()
}

// Log sends a report to a custom printf procedure, or log.Printf when nil.
func Log(report *Report, printf func(msg string, fmt ...any)) {
	if printf == nil {
		printf = log.Printf
	}

	const kilobyte = 1024

	if report.Error != nil {
		printf("Compression Error after %v: %v", report.Elapsed.Round(time.Second), report.Error)
	} else {
		printf("Compressed in %v: %s/%dkB -> %s/%dkB", report.Elapsed.Round(time.Second),
			report.OldFile, report.OldSize/kilobyte, report.NewFile, report.NewSize/kilobyte)
	}
}

// compress does the real work: open both files, stream through a gzip
// writer, and remove whichever file ends up unwanted.
func compress(oldFile, newFile string, mode os.FileMode, level int) (size int64, err error) {
	var src, dst *os.File

	defer func() { // First, so it executes last.
		if err != nil {
			_ = Filer.Remove(newFile)
		} else {
			_ = Filer.Remove(oldFile)
		}
	}()

	src, err = Filer.OpenFile(oldFile, os.O_RDONLY, 0)
	if err != nil {
		return 0, fmt.Errorf("opening source file: %w", err)
	}
	defer src.Close()

	dst, err = Filer.OpenFile(newFile, os.O_CREATE|os.O_WRONLY, mode)
	if err != nil {
		return 0, fmt.Errorf("opening gz file: %w", err)
	}

	defer func() {
		dst.Close()
		// Report the size of the new file.
		if info, serr := Filer.Stat(newFile); serr == nil {
			size = info.Size()
		}
	}()

	gzw, _ := gzip.NewWriterLevel(dst, level)
	defer gzw.Close()

	size, err = io.Copy(gzw, src)
	if err != nil {
		return size, fmt.Errorf("%s -> %s: %w", oldFile, newFile, err)
	}

	return size, nil
}
