package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityID(t *testing.T) {
	assert.Equal(t, "abc", EntityID(Entity{ULIDField: "abc"}))
	assert.Equal(t, "", EntityID(Entity{"title": "no id"}))
	assert.Equal(t, "", EntityID(Entity{ULIDField: 42}))
	assert.Equal(t, "", EntityID(nil))
}

func TestNewULID_IsValid(t *testing.T) {
	id := NewULID()
	assert.True(t, IsULID(id), "generated id %q should validate", id)

	other := NewULID()
	assert.NotEqual(t, id, other)
}

func TestIsULID(t *testing.T) {
	assert.True(t, IsULID("01ARZ3NDEKTSV4RRFFQ69G5FAV"))
	assert.False(t, IsULID("not-a-ulid"))
	assert.False(t, IsULID(""))
	assert.False(t, IsULID("01ARZ3NDEKTSV4RRFFQ69G5FA"))
}

func TestDeepCopy_DoesNotAlias(t *testing.T) {
	src := map[string]interface{}{
		"nested": map[string]interface{}{"k": "v"},
		"list":   []interface{}{1, 2},
	}

	cp := DeepCopy(src).(map[string]interface{})
	cp["nested"].(map[string]interface{})["k"] = "changed"
	cp["list"].([]interface{})[0] = 99

	assert.Equal(t, "v", src["nested"].(map[string]interface{})["k"])
	assert.Equal(t, 1, src["list"].([]interface{})[0])
}

func TestDeepEqual(t *testing.T) {
	a := map[string]interface{}{"x": []interface{}{1, "two"}}
	b := map[string]interface{}{"x": []interface{}{1, "two"}}
	c := map[string]interface{}{"x": []interface{}{1, "three"}}

	assert.True(t, DeepEqual(a, b))
	assert.False(t, DeepEqual(a, c))
}
