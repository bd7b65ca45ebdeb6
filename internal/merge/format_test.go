package merge

import (
	"strings"
	"testing"

	"github.com/kynetic-dev/kymerge/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestFormatValue_Scalars(t *testing.T) {
	assert.Equal(t, `"hello"`, FormatValue("hello"))
	assert.Equal(t, "42", FormatValue(42))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "3.5", FormatValue(3.5))
	assert.Equal(t, "null", FormatValue(nil))
}

func TestFormatValue_SmallArrayShownLiterally(t *testing.T) {
	v := []interface{}{"a", "b", "c"}
	assert.Equal(t, `["a", "b", "c"]`, FormatValue(v))
}

func TestFormatValue_LargeArrayShownAsCount(t *testing.T) {
	v := []interface{}{"a", "b", "c", "d"}
	assert.Equal(t, "[4 items]", FormatValue(v))
}

func TestFormatValue_Objects(t *testing.T) {
	assert.Equal(t, "{}", FormatValue(map[string]interface{}{}))
	assert.Equal(t, "title", FormatValue(map[string]interface{}{"title": "x"}))
	assert.Equal(t, "{3 fields}", FormatValue(map[string]interface{}{"a": 1, "b": 2, "c": 3}))
}

func TestConflictCommentText_ScalarFieldBlock(t *testing.T) {
	c := models.Conflict{
		Kind:        models.ConflictScalarField,
		Path:        "tags",
		Ours:        []interface{}{"a", "b", "c"},
		Theirs:      []interface{}{"a", "c"},
		Description: `Both branches changed "tags"`,
	}

	text := ConflictCommentText(c)
	lines := strings.Split(text, "\n")

	assert.Equal(t, `# CONFLICT: Both branches changed "tags"`, lines[0])
	assert.Equal(t, "# Path: tags", lines[1])
	assert.Contains(t, lines, `# Ours:   ["a", "b", "c"]`)
	assert.Contains(t, lines, `# Theirs: ["a", "c"]`)
	assert.Contains(t, lines, "# Resolution: Using ours (run merge interactively to resolve)")
	// No ULID line outside an identity-keyed record.
	assert.NotContains(t, text, "# ULID:")
}

func TestConflictCommentText_DeleteModifyBlock(t *testing.T) {
	c := models.Conflict{
		Kind:        models.ConflictDeleteModify,
		Path:        "tasks",
		ULID:        "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Theirs:      map[string]interface{}{"a": 1, "b": 2, "c": 3, "d": 4, "e": 5},
		OursDeleted: true,
		Description: "Entity deleted in ours but modified in theirs",
	}

	text := ConflictCommentText(c)

	assert.Contains(t, text, "# ULID: 01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.Contains(t, text, "# Ours:   <deleted>")
	assert.Contains(t, text, "# Theirs: {5 fields}")
	// The interactive-resolution reminder belongs to scalar-field blocks only.
	assert.NotContains(t, text, "# Resolution:")
}
