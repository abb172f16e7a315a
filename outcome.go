package janitorr

// SkipReason says why a live log was left alone.
type SkipReason uint8

// A rotated log carries SkipNone. The two skip reasons are benign
// steady state, not errors: a log that has not been created yet, and a
// log that has not grown past the threshold.
const (
	SkipNone SkipReason = iota
	SkipNotFound
	SkipBelowThreshold
)

// String returns the string representation of the skip reason.
func (r SkipReason) String() string {
	switch r {
	case SkipNotFound:
		return "not found"
	case SkipBelowThreshold:
		return "below threshold"
	default:
		return "none"
	}
}

// Outcome reports what Rotate did with one live log.
type Outcome struct {
	LivePath     string     // the file that was evaluated.
	Rotated      bool       // true when content moved into the archive chain.
	SkipReason   SkipReason // set when Rotated is false.
	PreviousSize int64      // live size before rotation; set when Rotated.
	ArchivePath  string     // generation-1 path; empty when MaxRotations is zero.
}

// Result pairs one swept file with its outcome or error.
type Result struct {
	Path    string
	Outcome *Outcome
	Err     error
}
