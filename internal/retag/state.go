package retag

// State is where a file ended up in the pipeline. Results carry the last
// state reached.
type State int

const (
	StateDiscovered  State = iota // Found in the folder
	StateMatched                  // Candidates resolved
	StateSelected                 // A catalogue entry was chosen
	StateSkipped                  // Operator skipped the file
	StateNoCandidate              // Nothing in the catalogue matched
	StateRenamed                  // File moved to its canonical name
	StateTagWritten               // Tags written
	StateLogged                   // Done and recorded in the report
	StateUnsupported              // Extension has no tag writer
	StateFailed                   // Read, rename or tag write failed
)

func (s State) String() string {
	switch s {
	case StateDiscovered:
		return "discovered"
	case StateMatched:
		return "matched"
	case StateSelected:
		return "selected"
	case StateSkipped:
		return "skipped"
	case StateNoCandidate:
		return "no candidate"
	case StateRenamed:
		return "renamed"
	case StateTagWritten:
		return "tag written"
	case StateLogged:
		return "tagged"
	case StateUnsupported:
		return "unsupported"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
