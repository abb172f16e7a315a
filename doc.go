// Package janitorr keeps a host's growing log files in check. It scans a
// directory of live logs, and any log that crosses a size threshold is
// rotated into a fixed-depth generational archive: service.log is copied
// to service.log.1, the previous service.log.1 becomes service.log.2,
// and so on until the oldest generation falls off the end of the chain.
//
// The live file is truncated in place rather than renamed, so a process
// holding an open descriptor keeps writing without reopening anything.
// This is the same copy-then-truncate trade-off logrotate makes: bytes
// appended during the copy window can be lost. Run the sweep from a
// scheduler that guarantees non-overlapping invocations.
//
// Sibling packages round out the toolkit: diskmon reports filesystems
// that run past a used-space threshold, deploy manages timestamped
// release directories with current/previous symlinks, and netcheck runs
// ping sweeps, port scans, and HTTP reachability checks.
//
//	https://pkg.go.dev/golift.io/janitorr/diskmon
//	https://pkg.go.dev/golift.io/janitorr/deploy
//	https://pkg.go.dev/golift.io/janitorr/netcheck
package janitorr
