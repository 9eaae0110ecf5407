package types

// NoteStatus describes whether an issue carries a detailed release note.
type NoteStatus int

const (
	// NoteNone means the issue needs no detailed release note.
	NoteNone NoteStatus = iota
	// NoteAttached means a release note document is attached to the issue.
	NoteAttached
	// NoteMissing means a note was requested for the issue but never attached.
	NoteMissing
)

// Issue is one entry from the fixed-bugs list. Immutable once loaded.
type Issue struct {
	Key         string
	Title       string
	FixVersions []string
	Status      NoteStatus

	// TrackerURL points at the issue in the tracker web UI.
	TrackerURL string
	// NoteURL points at the attached release note document. Empty unless
	// Status is NoteAttached.
	NoteURL string
}

// HasReleaseNote reports whether a release note document is attached.
func (i Issue) HasReleaseNote() bool {
	return i.Status == NoteAttached
}

// HasMissingReleaseNote reports whether a note was requested but never attached.
func (i Issue) HasMissingReleaseNote() bool {
	return i.Status == NoteMissing
}
