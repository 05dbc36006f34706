package git

import (
	"fmt"
	"strings"
	"time"
)

// AuthorInfo represents commit author information.
type AuthorInfo struct {
	Name        string // first token of the display name
	DisplayName string
	Email       string
}

// ContributorKey returns a normalized identifier for grouping contributors.
func (a AuthorInfo) ContributorKey() string {
	if a.Email == "" {
		return strings.ToLower(a.Name)
	}
	return strings.ToLower(a.Email)
}

// ChangeKind represents the type of change.
type ChangeKind int

const (
	ChangeKindAdded ChangeKind = iota
	ChangeKindModified
	ChangeKindDeleted
)

// String returns a string representation of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeKindAdded:
		return "added"
	case ChangeKindModified:
		return "modified"
	case ChangeKindDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// BlobSide is one side of a file transition. An empty BlobID means the side is absent.
type BlobSide struct {
	Path   string
	BlobID string
}

// Absent reports whether the side carries no blob.
func (s BlobSide) Absent() bool {
	return s.BlobID == ""
}

// ChangeEvent is a file-level change surfaced by the repository layer.
// It is implemented by SingleChange and CompositeChange only.
type ChangeEvent interface {
	changeEvent()
}

// SingleChange is one old/new pair. Either side may be absent, never both.
type SingleChange struct {
	Old BlobSide
	New BlobSide
}

// CompositeChange groups sub-events that belong to one compound operation,
// e.g. one path of a merge commit compared against each parent.
type CompositeChange struct {
	Parts []SingleChange
}

func (SingleChange) changeEvent()    {}
func (CompositeChange) changeEvent() {}

// Kind infers the change category from which blob ids are present.
func (c SingleChange) Kind() ChangeKind {
	switch {
	case c.Old.Absent():
		return ChangeKindAdded
	case c.New.Absent():
		return ChangeKindDeleted
	default:
		return ChangeKindModified
	}
}

// RelPath returns the repository-relative path the change is reported under.
func (c SingleChange) RelPath() string {
	if c.New.Absent() {
		return c.Old.Path
	}
	return c.New.Path
}

// CommitEntry is a commit as seen by the walker.
type CommitEntry struct {
	ID           string
	AuthorString string // "Name <email>"
	When         time.Time
	Changes      []ChangeEvent
}

// ChangeRecord is one file touched by one commit.
// Optional fields are absent when empty (Path, BlobID) or nil (Added, Deleted).
type ChangeRecord struct {
	Author   string
	Email    string
	CommitID string
	Kind     ChangeKind
	Path     string
	BlobID   string
	Added    *int
	Deleted  *int
}

// AddedLines returns the added count, or 0 when absent.
func (r ChangeRecord) AddedLines() int {
	if r.Added == nil {
		return 0
	}
	return *r.Added
}

// DeletedLines returns the deleted count, or 0 when absent.
func (r ChangeRecord) DeletedLines() int {
	if r.Deleted == nil {
		return 0
	}
	return *r.Deleted
}

// Churn returns total lines changed (added + deleted).
func (r ChangeRecord) Churn() int {
	return r.AddedLines() + r.DeletedLines()
}

// Complete reports whether every field the change kind defines was populated.
func (r ChangeRecord) Complete() bool {
	if r.Path == "" || r.BlobID == "" {
		return false
	}
	switch r.Kind {
	case ChangeKindAdded:
		return r.Added != nil
	case ChangeKindDeleted:
		return r.Deleted != nil
	default:
		return r.Added != nil && r.Deleted != nil
	}
}

// RenameDetectMode controls how file renames are detected.
type RenameDetectMode int

const (
	RenameDetectOff RenameDetectMode = iota
	RenameDetectSimple
	RenameDetectAggressive
)

// String returns the flag spelling of the mode.
func (m RenameDetectMode) String() string {
	switch m {
	case RenameDetectSimple:
		return "simple"
	case RenameDetectAggressive:
		return "aggressive"
	default:
		return "off"
	}
}

// ParseRenameDetectMode parses a flag spelling of the mode.
func ParseRenameDetectMode(s string) (RenameDetectMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off":
		return RenameDetectOff, nil
	case "simple":
		return RenameDetectSimple, nil
	case "aggressive":
		return RenameDetectAggressive, nil
	default:
		return RenameDetectOff, fmt.Errorf("unknown rename detection mode %q", s)
	}
}

// WalkOptions configures the commit walker.
type WalkOptions struct {
	RootLabel  string   // prefix for record paths; defaults to the repository root
	Include    []string // Glob patterns to include
	Exclude    []string // Glob patterns to exclude
	Size       SizeMetric
	OnProgress func(commits int)
}

// WalkStats summarizes one walk.
type WalkStats struct {
	Commits          int
	Records          int
	Filtered         int
	DecodeFailures   int
	MissingBlobs     int
	OtherFailures    int
	MalformedAuthors int
}

// Partial returns the number of records that were kept incomplete.
func (s WalkStats) Partial() int {
	return s.DecodeFailures + s.MissingBlobs + s.OtherFailures
}
