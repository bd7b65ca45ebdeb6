package merge

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kynetic-dev/kymerge/internal/models"
)

// DeletedMarker is the rendering of a side that deleted the entity
const DeletedMarker = "<deleted>"

// inlineThreshold is the largest array shown element-by-element; larger
// arrays render as an element count. Objects inline only when they have a
// single field.
const inlineThreshold = 3

// FormatValue renders a document value compactly for conflict output:
// strings quoted, booleans and numbers literal, nil as null, small arrays
// literal, larger arrays and objects as counts.
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(val)
	case []interface{}:
		if len(val) > inlineThreshold {
			return fmt.Sprintf("[%d items]", len(val))
		}
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = FormatValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]interface{}:
		switch len(val) {
		case 0:
			return "{}"
		case 1:
			return soleKey(val)
		default:
			return fmt.Sprintf("{%d fields}", len(val))
		}
	default:
		return fmt.Sprintf("%v", val)
	}
}

// formatSide renders one side of a conflict, honoring deletion
func formatSide(v interface{}, deleted bool) string {
	if deleted {
		return DeletedMarker
	}
	return FormatValue(v)
}

// ConflictComment renders one conflict as the comment block embedded in
// non-interactive merge output. Lines carry no "# " prefix; the YAML
// serializer adds it when the block is attached as a head comment.
func ConflictComment(c models.Conflict) []string {
	lines := []string{
		"CONFLICT: " + c.Description,
		"Path: " + c.Path,
	}
	if c.ULID != "" {
		lines = append(lines, "ULID: "+c.ULID)
	}
	lines = append(lines,
		"Ours:   "+formatSide(c.Ours, c.OursDeleted),
		"Theirs: "+formatSide(c.Theirs, c.TheirsDeleted),
	)
	// Delete-modify blocks already state which side survived; the reminder
	// line belongs to scalar-field conflicts only.
	if c.Kind == models.ConflictScalarField {
		lines = append(lines, "Resolution: Using ours (run merge interactively to resolve)")
	}
	return lines
}

// ConflictCommentText renders the block as plain "# "-prefixed lines, the
// form a human greps for with "# CONFLICT:".
func ConflictCommentText(c models.Conflict) string {
	lines := ConflictComment(c)
	for i := range lines {
		lines[i] = "# " + lines[i]
	}
	return strings.Join(lines, "\n")
}

func soleKey(m map[string]interface{}) string {
	keys := make([]string, 0, 1)
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}
