package janitorr_test

import (
	"log"

	"golift.io/janitorr"
	"golift.io/janitorr/compressor"
)

// Rotate every oversized log in /var/log/app into a five-deep archive
// chain. This is the whole loop a cron-driven sweep needs.
func ExampleNew() {
	engine, err := janitorr.New(&janitorr.Config{
		Policy:     janitorr.Policy{MaxSizeBytes: 10 * 1024 * 1024, MaxRotations: 5},
		ArchiveDir: "/var/log/app/archive",
	})
	if err != nil {
		panic(err)
	}

	for _, result := range engine.Sweep("/var/log/app") {
		if result.Err != nil {
			log.Printf("rotation failed for %s: %v", result.Path, result.Err)
		}
	}
}

// Compress each generation as it lands in the archive. The chain keeps
// the .gz suffix as files age, so nothing special is needed later.
func Example_compressor() {
	engine, err := janitorr.New(&janitorr.Config{
		Policy:     janitorr.Policy{MaxSizeBytes: 10 * 1024 * 1024, MaxRotations: 5},
		ArchiveDir: "/var/log/app/archive",
		PostRotate: compressor.PostRotate,
	})
	if err != nil {
		panic(err)
	}

	engine.Sweep("/var/log/app")
}
