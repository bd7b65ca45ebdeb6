package merge

import (
	"fmt"

	"github.com/kynetic-dev/kymerge/internal/models"
)

// DeletionInfo classifies what each branch did to one identifier relative
// to the ancestor.
type DeletionInfo struct {
	DeletedInOurs    bool
	DeletedInTheirs  bool
	ModifiedInOurs   bool
	ModifiedInTheirs bool
}

// DetectDeletion inspects the three snapshots for one identifier. An
// identifier present in base but absent from a branch was deleted there;
// present in both with differing content was modified there. An identifier
// absent from base is a pure addition and reports all false.
func DetectDeletion(id string, base, ours, theirs map[string]models.Entity) DeletionInfo {
	baseEnt, inBase := base[id]
	if !inBase {
		return DeletionInfo{}
	}

	info := DeletionInfo{}
	if oursEnt, ok := ours[id]; !ok {
		info.DeletedInOurs = true
	} else if !models.DeepEqual(map[string]interface{}(baseEnt), map[string]interface{}(oursEnt)) {
		info.ModifiedInOurs = true
	}
	if theirsEnt, ok := theirs[id]; !ok {
		info.DeletedInTheirs = true
	} else if !models.DeepEqual(map[string]interface{}(baseEnt), map[string]interface{}(theirsEnt)) {
		info.ModifiedInTheirs = true
	}
	return info
}

// MergeULIDArrays reconciles an identity-keyed collection. The merged
// identifier set is the union of ours and theirs minus clean single-sided
// deletions; a deletion only wins when the other branch left the entity
// untouched (no tombstones). Ordering is append-friendly: ours entities
// first in ours order, then theirs-only entities in theirs order, so new
// items from theirs are never interleaved ahead of existing ones.
//
// path names the collection for conflict locators; children is the per-entity
// merge plan, letting nested identity arrays recurse.
func MergeULIDArrays(base, ours, theirs []models.Entity, path string, children []PlanField) ([]models.Entity, []models.Conflict) {
	baseByID := indexByID(base)
	oursByID := indexByID(ours)
	theirsByID := indexByID(theirs)

	var merged []models.Entity
	var conflicts []models.Conflict

	for _, oursEnt := range ours {
		id := models.EntityID(oursEnt)
		theirsEnt, inTheirs := theirsByID[id]

		if inTheirs {
			if models.DeepEqual(map[string]interface{}(oursEnt), map[string]interface{}(theirsEnt)) {
				merged = append(merged, models.CopyEntity(oursEnt))
				continue
			}
			entity, sub := mergeWithPlan(baseByID[id], oursEnt, theirsEnt, children)
			sub = prefixConflicts(sub, fmt.Sprintf("%s[%d]", path, len(merged)))
			for i := range sub {
				if sub[i].ULID == "" {
					sub[i].ULID = id
				}
			}
			merged = append(merged, entity)
			conflicts = append(conflicts, sub...)
			continue
		}

		info := DetectDeletion(id, baseByID, oursByID, theirsByID)
		switch {
		case !info.DeletedInTheirs:
			// New in ours: keep.
			merged = append(merged, models.CopyEntity(oursEnt))
		case info.ModifiedInOurs:
			// They deleted what we modified. Keep our edit (ours default)
			// and record the conflict.
			conflicts = append(conflicts, models.Conflict{
				Kind:          models.ConflictDeleteModify,
				Path:          path,
				ULID:          id,
				Ours:          models.CopyEntity(oursEnt),
				TheirsDeleted: true,
				Description:   "Entity modified in ours but deleted in theirs",
			})
			merged = append(merged, models.CopyEntity(oursEnt))
		default:
			// They deleted, we didn't touch it: the deletion wins.
		}
	}

	for _, theirsEnt := range theirs {
		id := models.EntityID(theirsEnt)
		if _, inOurs := oursByID[id]; inOurs {
			continue
		}

		info := DetectDeletion(id, baseByID, oursByID, theirsByID)
		switch {
		case !info.DeletedInOurs:
			// New in theirs: append after all ours entities.
			merged = append(merged, models.CopyEntity(theirsEnt))
		case info.ModifiedInTheirs:
			// We deleted what they modified. The ours default keeps the
			// deletion; the conflict records their surviving version.
			conflicts = append(conflicts, models.Conflict{
				Kind:        models.ConflictDeleteModify,
				Path:        path,
				ULID:        id,
				Theirs:      models.CopyEntity(theirsEnt),
				OursDeleted: true,
				Description: "Entity deleted in ours but modified in theirs",
			})
		default:
			// We deleted, they didn't touch it: the deletion wins.
		}
	}

	return merged, conflicts
}

// indexByID maps identifier to entity. First occurrence wins; duplicate
// identifiers within one snapshot are an upstream data-integrity fault and
// the merge only promises determinism, not repair.
func indexByID(entities []models.Entity) map[string]models.Entity {
	byID := make(map[string]models.Entity, len(entities))
	for _, e := range entities {
		id := models.EntityID(e)
		if _, exists := byID[id]; !exists {
			byID[id] = e
		}
	}
	return byID
}
