package merge

import "github.com/kynetic-dev/kymerge/internal/models"

// Strategy selects how a planned field is merged
type Strategy string

const (
	// StrategyObject delegates to the recursive object merger
	StrategyObject Strategy = "object"
	// StrategyIdentityArray reconciles a collection by entity identifier
	StrategyIdentityArray Strategy = "identity-array"
	// StrategySetArray merges a primitive collection by unordered union
	StrategySetArray Strategy = "set-array"
)

// PlanField maps one field name to its merge strategy. For identity arrays,
// Children describes the planned fields of each entity, allowing nested
// identity-keyed collections (a hierarchical specification tree) to recurse.
type PlanField struct {
	Name     string
	Strategy Strategy
	Children []PlanField
}

// Merge plans are static external knowledge about document shape, not
// derived from the data. Fields not listed in a plan merge as object-merger
// leaves.

var setFieldTags = PlanField{Name: "tags", Strategy: StrategySetArray}

var taskFields = []PlanField{
	setFieldTags,
	{Name: "depends_on", Strategy: StrategySetArray},
	{Name: "blocked_by", Strategy: StrategySetArray},
	{Name: "notes", Strategy: StrategyIdentityArray},
	{Name: "todos", Strategy: StrategyIdentityArray},
}

var specEntitySets = []PlanField{
	setFieldTags,
	{Name: "depends_on", Strategy: StrategySetArray},
	{Name: "implements", Strategy: StrategySetArray},
	{Name: "relates_to", Strategy: StrategySetArray},
	{Name: "tests", Strategy: StrategySetArray},
	{Name: "traits", Strategy: StrategySetArray},
}

var tasksPlan = []PlanField{
	{Name: "tasks", Strategy: StrategyIdentityArray, Children: taskFields},
}

var inboxPlan = []PlanField{
	{Name: "entries", Strategy: StrategyIdentityArray, Children: []PlanField{setFieldTags}},
}

var specModulesPlan = []PlanField{
	{Name: "modules", Strategy: StrategyIdentityArray, Children: append([]PlanField{
		{Name: "features", Strategy: StrategyIdentityArray, Children: append([]PlanField{
			{Name: "requirements", Strategy: StrategyIdentityArray, Children: specEntitySets},
		}, specEntitySets...)},
	}, specEntitySets...)},
}

var manifestPlan = []PlanField{
	{Name: "includes", Strategy: StrategySetArray},
}

// metaPlan is empty: meta documents are scalar-dominated and merge entirely
// through the object merger.
var metaPlan = []PlanField{}

// PlanFor returns the merge plan for a document kind. The second return is
// false for FileTypeUnknown, which the driver must decline to merge.
func PlanFor(ft models.FileType) ([]PlanField, bool) {
	switch ft {
	case models.FileTypeTasks:
		return tasksPlan, true
	case models.FileTypeInbox:
		return inboxPlan, true
	case models.FileTypeSpecModules:
		return specModulesPlan, true
	case models.FileTypeManifest:
		return manifestPlan, true
	case models.FileTypeMeta:
		return metaPlan, true
	default:
		return nil, false
	}
}

// mergeWithPlan merges three records field-by-field: planned fields dispatch
// to their strategy, everything else falls through to the object merger.
// Conflict paths are relative to the record.
func mergeWithPlan(base, ours, theirs map[string]interface{}, fields []PlanField) (map[string]interface{}, []models.Conflict) {
	planned := make(map[string]bool, len(fields))
	for _, f := range fields {
		planned[f.Name] = true
	}

	// Unplanned fields first, through the plain object merger.
	merged, conflicts := MergeObjects(
		withoutKeys(base, planned),
		withoutKeys(ours, planned),
		withoutKeys(theirs, planned),
	)

	for _, f := range fields {
		baseVal := base[f.Name]
		oursVal, inOurs := valueOf(ours, f.Name)
		theirsVal, inTheirs := valueOf(theirs, f.Name)
		if !inOurs && !inTheirs {
			continue
		}

		switch f.Strategy {
		case StrategyIdentityArray:
			entities, sub := MergeULIDArrays(
				entityList(baseVal), entityList(oursVal), entityList(theirsVal),
				f.Name, f.Children,
			)
			merged[f.Name] = entitiesToValue(entities)
			conflicts = append(conflicts, sub...)

		case StrategySetArray:
			merged[f.Name] = MergeSetArray(
				anyList(baseVal), anyList(oursVal), anyList(theirsVal),
			)

		default:
			// StrategyObject, or a field whose shape does not match its
			// plan: same leaf semantics as an unplanned field.
			if inOurs && inTheirs {
				value, sub := mergeValue(f.Name, baseVal, oursVal, theirsVal)
				merged[f.Name] = value
				conflicts = append(conflicts, sub...)
			} else if inOurs {
				merged[f.Name] = models.DeepCopy(oursVal)
			} else {
				merged[f.Name] = models.DeepCopy(theirsVal)
			}
		}
	}

	return merged, conflicts
}

// withoutKeys returns m minus the excluded keys (nil-safe, never mutates)
func withoutKeys(m map[string]interface{}, exclude map[string]bool) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if !exclude[k] {
			out[k] = v
		}
	}
	return out
}

// entityList coerces a document value into an entity slice. Non-list values
// and non-map elements are dropped; the plan told us the shape, malformed
// input merges as best-effort.
func entityList(v interface{}) []models.Entity {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]models.Entity, 0, len(items))
	for _, item := range items {
		if e, ok := item.(map[string]interface{}); ok {
			out = append(out, e)
		}
	}
	return out
}

func anyList(v interface{}) []interface{} {
	items, _ := v.([]interface{})
	return items
}

func entitiesToValue(entities []models.Entity) []interface{} {
	out := make([]interface{}, len(entities))
	for i, e := range entities {
		out[i] = map[string]interface{}(e)
	}
	return out
}
