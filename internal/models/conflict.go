// Package models defines the core data structures used throughout kymerge
// including documents, conflicts, merge results, and file types.
package models

// ConflictKind identifies the type of merge conflict
type ConflictKind string

const (
	// ConflictScalarField means both branches changed the same field to
	// different values.
	ConflictScalarField ConflictKind = "scalar-field"
	// ConflictDeleteModify means one branch deleted an entity the other
	// branch modified.
	ConflictDeleteModify ConflictKind = "delete-modify"
)

// Resolution selects how a single conflict is resolved
type Resolution string

const (
	ResolutionOurs   Resolution = "ours"   // Keep our version (the default)
	ResolutionTheirs Resolution = "theirs" // Take their version
	ResolutionSkip   Resolution = "skip"   // Leave the default, keep the conflict recorded
)

// Conflict records one irreconcilable field or entity.
// Conflicts are collected, never thrown: a merge with conflicts still
// produces a usable document with every conflicting field defaulted to ours.
type Conflict struct {
	Kind          ConflictKind // scalar-field or delete-modify
	Path          string       // dotted/bracketed locator, e.g. "tasks[2].title"
	ULID          string       // entity identifier, empty outside identity-keyed records
	Ours          interface{}  // our value (nil when OursDeleted)
	Theirs        interface{}  // their value (nil when TheirsDeleted)
	OursDeleted   bool         // delete-modify: we deleted the entity
	TheirsDeleted bool         // delete-modify: they deleted the entity
	Description   string       // human-readable one-liner
}

// MergeResult is the single output shape of every document merge
type MergeResult struct {
	Merged    map[string]interface{} // best-effort merged document (ours-defaulted)
	Conflicts []Conflict             // unresolved conflicts in discovery order
	FileType  FileType               // classified document kind
	Resolved  int                    // conflicts resolved interactively
}

// HasConflicts reports whether any conflicts remain unresolved
func (r *MergeResult) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// MergeRecord is one journaled merge invocation
type MergeRecord struct {
	ID        int64
	Timestamp string
	Path      string
	FileType  FileType
	Conflicts int
	Resolved  int
	Declined  bool
}
