package merge

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kynetic-dev/kymerge/internal/models"
)

// ErrUnknownFileType signals that the pathname does not match any known
// document kind. The driver must decline so the host VCS falls back to its
// builtin merge strategy; this is not a failure.
var ErrUnknownFileType = errors.New("unknown document kind")

// MergeDocuments merges three snapshots of one document. The pathname picks
// the document kind and therefore the merge plan; an unrecognized pathname
// returns ErrUnknownFileType. Nil snapshots merge as empty documents.
func MergeDocuments(base, ours, theirs models.Document, path string) (*models.MergeResult, error) {
	ft := models.DetectFileType(path)
	plan, ok := PlanFor(ft)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFileType, path)
	}

	merged, conflicts := mergeWithPlan(base, ours, theirs, plan)
	return &models.MergeResult{
		Merged:    merged,
		Conflicts: conflicts,
		FileType:  ft,
	}, nil
}

// MergeFiles reads the three snapshot files handed over by the host VCS and
// merges them. A missing or empty snapshot file is an empty document; a
// snapshot that fails to parse is a hard error naming the offending path.
func MergeFiles(basePath, oursPath, theirsPath, origPath string) (*models.MergeResult, error) {
	base, err := loadDocument(basePath)
	if err != nil {
		return nil, err
	}
	ours, err := loadDocument(oursPath)
	if err != nil {
		return nil, err
	}
	theirs, err := loadDocument(theirsPath)
	if err != nil {
		return nil, err
	}
	return MergeDocuments(base, ours, theirs, origPath)
}

// loadDocument parses one snapshot file into a document
func loadDocument(path string) (models.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var doc models.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// WriteMerged serializes the merged document to path. With comments enabled,
// every remaining conflict is rendered as a comment block at the conflicting
// location; the underlying value is already resolved (ours-defaulted), so
// the output always parses.
func WriteMerged(path string, result *models.MergeResult, withComments bool) error {
	data, err := RenderMerged(result, withComments)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write merged document: %w", err)
	}
	return nil
}

// RenderMerged serializes the merged document, optionally embedding conflict
// comment blocks.
func RenderMerged(result *models.MergeResult, withComments bool) ([]byte, error) {
	var root yaml.Node
	if err := root.Encode(result.Merged); err != nil {
		return nil, fmt.Errorf("failed to encode merged document: %w", err)
	}

	if withComments {
		for _, c := range result.Conflicts {
			annotateConflict(&root, c)
		}
	}

	out, err := yaml.Marshal(&root)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize merged document: %w", err)
	}
	return out, nil
}

// annotateConflict attaches the conflict's comment block to the node at the
// conflict path, or to the closest resolvable ancestor (a delete-modify
// conflict has no node of its own inside the collection).
func annotateConflict(root *yaml.Node, c models.Conflict) {
	cur := root
	if cur.Kind == yaml.DocumentNode && len(cur.Content) > 0 {
		cur = cur.Content[0]
	}
	target := cur

	for _, step := range parsePath(c.Path) {
		if step.isIndex {
			if cur.Kind != yaml.SequenceNode || step.index >= len(cur.Content) {
				break
			}
			cur = cur.Content[step.index]
			target = cur
			continue
		}
		if cur.Kind != yaml.MappingNode {
			break
		}
		found := false
		for i := 0; i+1 < len(cur.Content); i += 2 {
			if cur.Content[i].Value == step.key {
				// Comment on the key node lands above "key: value".
				target = cur.Content[i]
				cur = cur.Content[i+1]
				found = true
				break
			}
		}
		if !found {
			break
		}
	}

	block := strings.Join(ConflictComment(c), "\n")
	if target.HeadComment != "" {
		target.HeadComment += "\n" + block
	} else {
		target.HeadComment = block
	}
}

// pathStep is one segment of a dotted/bracketed locator
type pathStep struct {
	key     string
	index   int
	isIndex bool
}

// parsePath splits a locator like "tasks[2].title" into steps
func parsePath(path string) []pathStep {
	var steps []pathStep
	for _, part := range strings.Split(path, ".") {
		for {
			open := strings.IndexByte(part, '[')
			if open < 0 {
				if part != "" {
					steps = append(steps, pathStep{key: part})
				}
				break
			}
			if open > 0 {
				steps = append(steps, pathStep{key: part[:open]})
			}
			closing := strings.IndexByte(part, ']')
			if closing < open {
				break
			}
			if idx, err := strconv.Atoi(part[open+1 : closing]); err == nil {
				steps = append(steps, pathStep{index: idx, isIndex: true})
			}
			part = part[closing+1:]
		}
	}
	return steps
}
