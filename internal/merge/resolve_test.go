package merge

import (
	"testing"

	"github.com/kynetic-dev/kymerge/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyResolution_OursAndSkipChangeNothing(t *testing.T) {
	doc := models.Document{"a": 1}
	c := models.Conflict{Kind: models.ConflictScalarField, Path: "a", Ours: 1, Theirs: 2}

	require.NoError(t, ApplyResolution(doc, c, models.ResolutionOurs))
	require.NoError(t, ApplyResolution(doc, c, models.ResolutionSkip))

	assert.Equal(t, 1, doc["a"])
}

func TestApplyResolution_TheirsScalarField(t *testing.T) {
	doc := models.Document{
		"tasks": []interface{}{
			map[string]interface{}{models.ULIDField: "t1", "title": "Ours"},
		},
	}
	c := models.Conflict{
		Kind:   models.ConflictScalarField,
		Path:   "tasks[0].title",
		ULID:   "t1",
		Ours:   "Ours",
		Theirs: "Theirs",
	}

	require.NoError(t, ApplyResolution(doc, c, models.ResolutionTheirs))

	task := doc["tasks"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Theirs", task["title"])
}

func TestApplyResolution_KeepTheirsDeletion(t *testing.T) {
	// They deleted t1, we modified it; the default kept our version.
	// Choosing theirs means honoring the deletion.
	doc := models.Document{
		"tasks": []interface{}{
			map[string]interface{}{models.ULIDField: "t1", "title": "Edited"},
			map[string]interface{}{models.ULIDField: "t2", "title": "Other"},
		},
	}
	c := models.Conflict{
		Kind:          models.ConflictDeleteModify,
		Path:          "tasks",
		ULID:          "t1",
		Ours:          map[string]interface{}{models.ULIDField: "t1", "title": "Edited"},
		TheirsDeleted: true,
	}

	require.NoError(t, ApplyResolution(doc, c, models.ResolutionTheirs))

	tasks := doc["tasks"].([]interface{})
	require.Len(t, tasks, 1)
	assert.Equal(t, "t2", models.EntityID(tasks[0].(map[string]interface{})))
}

func TestApplyResolution_RestoreTheirsModifiedEntity(t *testing.T) {
	// We deleted t1, they modified it; the default kept the deletion.
	// Choosing theirs restores their version at the end of the collection.
	doc := models.Document{
		"tasks": []interface{}{
			map[string]interface{}{models.ULIDField: "t2", "title": "Other"},
		},
	}
	c := models.Conflict{
		Kind:        models.ConflictDeleteModify,
		Path:        "tasks",
		ULID:        "t1",
		Theirs:      map[string]interface{}{models.ULIDField: "t1", "title": "Edited"},
		OursDeleted: true,
	}

	require.NoError(t, ApplyResolution(doc, c, models.ResolutionTheirs))

	tasks := doc["tasks"].([]interface{})
	require.Len(t, tasks, 2)
	assert.Equal(t, "t1", models.EntityID(tasks[1].(map[string]interface{})))
}

func TestApplyResolutions_DeletionDoesNotShiftScalarTargets(t *testing.T) {
	// They deleted "a" and both sides edited "c"'s title. Honoring the
	// deletion first would shift "c" down one slot and land the title write
	// on "d"; the batch applier must keep indexed writes ahead of removals.
	doc := models.Document{
		"tasks": []interface{}{
			map[string]interface{}{models.ULIDField: "a", "title": "a-edited"},
			map[string]interface{}{models.ULIDField: "b", "title": "b"},
			map[string]interface{}{models.ULIDField: "c", "title": "c-ours"},
			map[string]interface{}{models.ULIDField: "d", "title": "d"},
		},
	}
	conflicts := []models.Conflict{
		{
			Kind:          models.ConflictDeleteModify,
			Path:          "tasks",
			ULID:          "a",
			Ours:          map[string]interface{}{models.ULIDField: "a", "title": "a-edited"},
			TheirsDeleted: true,
		},
		{
			Kind:   models.ConflictScalarField,
			Path:   "tasks[2].title",
			ULID:   "c",
			Ours:   "c-ours",
			Theirs: "c-theirs",
		},
	}
	resolutions := []models.Resolution{models.ResolutionTheirs, models.ResolutionTheirs}

	errs := ApplyResolutions(doc, conflicts, resolutions)
	for _, err := range errs {
		require.NoError(t, err)
	}

	tasks := doc["tasks"].([]interface{})
	require.Len(t, tasks, 3)

	byID := map[string]string{}
	for _, item := range tasks {
		e := item.(map[string]interface{})
		byID[models.EntityID(e)] = e["title"].(string)
	}
	assert.NotContains(t, byID, "a")
	assert.Equal(t, "c-theirs", byID["c"])
	assert.Equal(t, "d", byID["d"])
}

func TestApplyResolution_MissingPathErrors(t *testing.T) {
	doc := models.Document{"a": 1}
	c := models.Conflict{Kind: models.ConflictScalarField, Path: "b.c", Theirs: 2}

	assert.Error(t, ApplyResolution(doc, c, models.ResolutionTheirs))
}
