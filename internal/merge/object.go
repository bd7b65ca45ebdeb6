// Package merge implements the structural three-way merge engine for
// kynetic YAML documents: recursive object merging, identity-keyed and
// set-union array reconciliation, and conflict collection.
//
// Every function takes three snapshots (ancestor/base, ours, theirs) and is
// pure: conflicts are returned as data, never raised, and a merge with
// conflicts still produces a usable document with conflicting values
// defaulted to ours.
package merge

import (
	"fmt"
	"sort"

	"github.com/kynetic-dev/kymerge/internal/models"
)

// MergeObjects performs a recursive three-way merge of plain key/value
// records. Nil inputs are treated as empty objects. Conflict paths are
// relative to the merged object; callers prefix them.
//
// Arrays appearing as ordinary field values are opaque scalars here: they
// are compared for deep equality and conflict as a whole. Element-wise
// merging only happens when a merge plan routes a field to an array merger.
func MergeObjects(base, ours, theirs map[string]interface{}) (map[string]interface{}, []models.Conflict) {
	merged := make(map[string]interface{})
	var conflicts []models.Conflict

	for _, key := range unionKeys(ours, theirs) {
		oursVal, inOurs := valueOf(ours, key)
		theirsVal, inTheirs := valueOf(theirs, key)

		switch {
		case inOurs && inTheirs:
			value, sub := mergeValue(key, base[key], oursVal, theirsVal)
			merged[key] = value
			conflicts = append(conflicts, sub...)
		case inOurs:
			// Theirs dropped or never had the key; a surviving value
			// always wins over absence.
			merged[key] = models.DeepCopy(oursVal)
		case inTheirs:
			merged[key] = models.DeepCopy(theirsVal)
		}
		// Absent from both: dropped, tombstone-free.
	}

	return merged, conflicts
}

// mergeValue reconciles a single key present on both sides. A side that
// still holds the base value is unchanged, so the other side's edit wins
// without conflict; only divergent double edits conflict.
func mergeValue(key string, baseVal, oursVal, theirsVal interface{}) (interface{}, []models.Conflict) {
	if models.DeepEqual(oursVal, theirsVal) {
		return models.DeepCopy(oursVal), nil
	}
	if models.DeepEqual(oursVal, baseVal) {
		return models.DeepCopy(theirsVal), nil
	}
	if models.DeepEqual(theirsVal, baseVal) {
		return models.DeepCopy(oursVal), nil
	}

	oursMap, oursIsMap := oursVal.(map[string]interface{})
	theirsMap, theirsIsMap := theirsVal.(map[string]interface{})
	if oursIsMap && theirsIsMap {
		baseMap, _ := baseVal.(map[string]interface{})
		sub, subConflicts := MergeObjects(baseMap, oursMap, theirsMap)
		return sub, prefixConflicts(subConflicts, key)
	}

	// Scalars, arrays, or a type mismatch: whole-value conflict,
	// default to ours.
	conflict := models.Conflict{
		Kind:        models.ConflictScalarField,
		Path:        key,
		Ours:        models.DeepCopy(oursVal),
		Theirs:      models.DeepCopy(theirsVal),
		Description: fmt.Sprintf("Both branches changed %q", key),
	}
	return models.DeepCopy(oursVal), []models.Conflict{conflict}
}

// unionKeys returns the union of keys across ours and theirs in a
// deterministic order: ours keys first in sorted order, then theirs-only
// keys in sorted order.
func unionKeys(ours, theirs map[string]interface{}) []string {
	keys := make([]string, 0, len(ours)+len(theirs))
	seen := make(map[string]bool, len(ours)+len(theirs))

	oursKeys := make([]string, 0, len(ours))
	for k := range ours {
		oursKeys = append(oursKeys, k)
	}
	sort.Strings(oursKeys)
	for _, k := range oursKeys {
		keys = append(keys, k)
		seen[k] = true
	}

	theirsKeys := make([]string, 0, len(theirs))
	for k := range theirs {
		if !seen[k] {
			theirsKeys = append(theirsKeys, k)
		}
	}
	sort.Strings(theirsKeys)
	keys = append(keys, theirsKeys...)

	return keys
}

func valueOf(m map[string]interface{}, key string) (interface{}, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m[key]
	return v, ok
}

// prefixConflicts prepends a path prefix to every conflict in the slice
func prefixConflicts(conflicts []models.Conflict, prefix string) []models.Conflict {
	for i := range conflicts {
		conflicts[i].Path = prefixPath(prefix, conflicts[i].Path)
	}
	return conflicts
}

func prefixPath(prefix, path string) string {
	if prefix == "" {
		return path
	}
	if path == "" {
		return prefix
	}
	return prefix + "." + path
}
