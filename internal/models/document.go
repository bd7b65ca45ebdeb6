package models

import (
	"crypto/rand"
	"reflect"

	"github.com/oklog/ulid/v2"
)

// ULIDField is the identifier field carried by every entity in an
// identity-keyed collection. Identity is the only correlation mechanism
// across snapshots; there is no positional correlation.
const ULIDField = "_ulid"

// Document is the parsed content of one file at one VCS stage
// (ancestor, ours, or theirs). Documents are never mutated in place.
type Document = map[string]interface{}

// Entity is one record of an identity-keyed collection
type Entity = map[string]interface{}

// EntityID returns the entity's identifier, or "" when absent
func EntityID(e Entity) string {
	if e == nil {
		return ""
	}
	if id, ok := e[ULIDField].(string); ok {
		return id
	}
	return ""
}

// NewULID generates a fresh entity identifier
func NewULID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// IsULID reports whether s is a well-formed entity identifier
func IsULID(s string) bool {
	if len(s) != ulid.EncodedSize {
		return false
	}
	_, err := ulid.ParseStrict(s)
	return err == nil
}

// DeepEqual compares two document values structurally. Both sides come out
// of the same YAML decoder, so reflect equality is exact.
func DeepEqual(a, b interface{}) bool {
	return reflect.DeepEqual(a, b)
}

// DeepCopy copies a document value so merge output never aliases input
func DeepCopy(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = DeepCopy(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = DeepCopy(item)
		}
		return out
	default:
		return v
	}
}

// CopyEntity copies one entity
func CopyEntity(e Entity) Entity {
	if e == nil {
		return nil
	}
	return DeepCopy(map[string]interface{}(e)).(map[string]interface{})
}
