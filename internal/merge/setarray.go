package merge

import "fmt"

// MergeSetArray merges an array of comparable primitive values (tags,
// textual references) as a deduplicated union, ordered by first occurrence
// with ours first.
//
// The union is monotonic: a value kept by either branch survives, so a
// shared value can only be removed when both branches omit it. There is no
// unilateral delete for set fields. This is a deliberate simplicity/safety
// trade-off for low-cardinality sets, which is also why base never has to
// be consulted.
func MergeSetArray(base, ours, theirs []interface{}) []interface{} {
	merged := make([]interface{}, 0, len(ours)+len(theirs))
	seen := make(map[string]bool, len(ours)+len(theirs))

	add := func(v interface{}) {
		key := setKey(v)
		if !seen[key] {
			seen[key] = true
			merged = append(merged, v)
		}
	}

	for _, v := range ours {
		add(v)
	}
	for _, v := range theirs {
		add(v)
	}

	return merged
}

// setKey renders a primitive value to a deduplication key. Type is part of
// the key so "1" and 1 stay distinct.
func setKey(v interface{}) string {
	return fmt.Sprintf("%T:%v", v, v)
}
