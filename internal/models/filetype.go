package models

import "strings"

// FileType identifies the kind of kynetic document a path refers to.
// The merge driver only understands these kinds; anything else is
// declined so the host VCS can fall back to its builtin merge.
type FileType string

const (
	FileTypeTasks       FileType = "tasks"
	FileTypeInbox       FileType = "inbox"
	FileTypeSpecModules FileType = "spec-modules"
	FileTypeManifest    FileType = "manifest"
	FileTypeMeta        FileType = "meta"
	FileTypeUnknown     FileType = "unknown"
)

// Well-known file names and suffixes of the kynetic document family.
const (
	ManifestFileName = "kynetic.yaml"
	MetaFileName     = "kynetic.meta.yaml"
	TasksSuffix      = ".tasks.yaml"
	InboxSuffix      = ".inbox.yaml"
	ModulesSegment   = "modules"
)

// DetectFileType classifies a pathname into a document kind.
// Pure function: unrecognized input yields FileTypeUnknown, never an error.
func DetectFileType(path string) FileType {
	ft, _ := ClassifyPath(path)
	return ft
}

// ClassifyPath classifies a pathname and reports which rule matched.
// Exact-basename rules take precedence over suffix rules, which take
// precedence over the modules directory-segment rule.
func ClassifyPath(path string) (FileType, string) {
	normalized := strings.ReplaceAll(path, "\\", "/")
	segments := strings.Split(normalized, "/")
	base := segments[len(segments)-1]

	// Meta before Manifest: both are exact basenames, but meta must never
	// be subsumed by a looser manifest match.
	if base == MetaFileName {
		return FileTypeMeta, "basename is " + MetaFileName
	}
	if base == ManifestFileName {
		return FileTypeManifest, "basename is " + ManifestFileName
	}

	// Suffix rules require a non-empty stem: "tasks.yaml" alone is not a
	// tasks file.
	if strings.HasSuffix(base, TasksSuffix) && len(base) > len(TasksSuffix) {
		return FileTypeTasks, "basename ends with " + TasksSuffix
	}
	if strings.HasSuffix(base, InboxSuffix) && len(base) > len(InboxSuffix) {
		return FileTypeInbox, "basename ends with " + InboxSuffix
	}

	// A literal "modules" path segment (not substring) somewhere above a
	// .yaml basename marks a spec-module file.
	if strings.HasSuffix(base, ".yaml") {
		for _, seg := range segments[:len(segments)-1] {
			if seg == ModulesSegment {
				return FileTypeSpecModules, "path contains a modules/ segment"
			}
		}
	}

	return FileTypeUnknown, "no rule matched"
}
