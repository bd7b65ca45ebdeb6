package merge

import (
	"fmt"

	"github.com/kynetic-dev/kymerge/internal/models"
)

// ApplyResolution folds one chosen resolution into the merged document.
// The ours default is already in place, so ResolutionOurs and ResolutionSkip
// change nothing; ResolutionTheirs takes the theirs side — their value for a
// scalar-field conflict, and for a delete-modify conflict whichever of
// deletion or modified version theirs holds.
func ApplyResolution(merged models.Document, c models.Conflict, res models.Resolution) error {
	if res != models.ResolutionTheirs {
		return nil
	}

	switch c.Kind {
	case models.ConflictScalarField:
		return setAtPath(merged, c.Path, models.DeepCopy(c.Theirs))

	case models.ConflictDeleteModify:
		if c.TheirsDeleted {
			return removeEntity(merged, c.Path, c.ULID)
		}
		entity, ok := c.Theirs.(map[string]interface{})
		if !ok {
			return fmt.Errorf("conflict at %s carries no entity to restore", c.Path)
		}
		return appendEntity(merged, c.Path, models.CopyEntity(entity))

	default:
		return fmt.Errorf("unhandled conflict kind %q", c.Kind)
	}
}

// ApplyResolutions folds a batch of chosen resolutions into the merged
// document, one per conflict, and returns the per-conflict outcomes.
// Scalar-field resolutions are applied first: their paths carry element
// indices recorded at merge time, and a delete-modify resolution that keeps
// a deletion shifts every later element of its collection, so removals and
// restorations must wait until all indexed writes have landed.
func ApplyResolutions(merged models.Document, conflicts []models.Conflict, resolutions []models.Resolution) []error {
	errs := make([]error, len(conflicts))
	for i, c := range conflicts {
		if i >= len(resolutions) {
			break
		}
		if c.Kind == models.ConflictScalarField {
			errs[i] = ApplyResolution(merged, c, resolutions[i])
		}
	}
	for i, c := range conflicts {
		if i >= len(resolutions) {
			break
		}
		if c.Kind != models.ConflictScalarField {
			errs[i] = ApplyResolution(merged, c, resolutions[i])
		}
	}
	return errs
}

// setAtPath replaces the value at a dotted/bracketed locator
func setAtPath(doc models.Document, path string, value interface{}) error {
	steps := parsePath(path)
	if len(steps) == 0 {
		return fmt.Errorf("empty conflict path")
	}

	var cur interface{} = map[string]interface{}(doc)
	for _, step := range steps[:len(steps)-1] {
		next, err := stepInto(cur, step, path)
		if err != nil {
			return err
		}
		cur = next
	}

	last := steps[len(steps)-1]
	if last.isIndex {
		seq, ok := cur.([]interface{})
		if !ok || last.index >= len(seq) {
			return fmt.Errorf("path %s does not resolve to a sequence element", path)
		}
		seq[last.index] = value
		return nil
	}
	m, ok := cur.(map[string]interface{})
	if !ok {
		return fmt.Errorf("path %s does not resolve to a mapping field", path)
	}
	m[last.key] = value
	return nil
}

func stepInto(cur interface{}, step pathStep, path string) (interface{}, error) {
	if step.isIndex {
		seq, ok := cur.([]interface{})
		if !ok || step.index >= len(seq) {
			return nil, fmt.Errorf("path %s walks past a missing element", path)
		}
		return seq[step.index], nil
	}
	m, ok := cur.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("path %s walks past a missing field", path)
	}
	next, ok := m[step.key]
	if !ok {
		return nil, fmt.Errorf("path %s walks past a missing field", path)
	}
	return next, nil
}

// collectionAt resolves the identity-keyed collection a delete-modify
// conflict points at.
func collectionAt(doc models.Document, path string) ([]interface{}, error) {
	var cur interface{} = map[string]interface{}(doc)
	for _, step := range parsePath(path) {
		next, err := stepInto(cur, step, path)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	seq, ok := cur.([]interface{})
	if !ok {
		return nil, fmt.Errorf("path %s is not a collection", path)
	}
	return seq, nil
}

func removeEntity(doc models.Document, path, ulid string) error {
	seq, err := collectionAt(doc, path)
	if err != nil {
		return err
	}
	kept := make([]interface{}, 0, len(seq))
	for _, item := range seq {
		if e, ok := item.(map[string]interface{}); ok && models.EntityID(e) == ulid {
			continue
		}
		kept = append(kept, item)
	}
	return setAtPath(doc, path, kept)
}

func appendEntity(doc models.Document, path string, entity models.Entity) error {
	seq, err := collectionAt(doc, path)
	if err != nil {
		// A mutually emptied collection may be gone; recreate it.
		return setAtPath(doc, path, []interface{}{map[string]interface{}(entity)})
	}
	return setAtPath(doc, path, append(seq, map[string]interface{}(entity)))
}
