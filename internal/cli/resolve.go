package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/kynetic-dev/kymerge/internal/merge"
	"github.com/kynetic-dev/kymerge/internal/models"
)

// resolveInteractively prompts for each conflict in discovery order, then
// folds the chosen resolutions into the merged document in one batch.
// Prompting and applying are separate phases: scalar conflict paths carry
// indices recorded at merge time, and applying a deletion mid-stream would
// shift the elements later paths point at. result.Conflicts is trimmed to
// the skipped ones; the returned slice holds one resolution per original
// conflict, in order.
func resolveInteractively(result *models.MergeResult) []models.Resolution {
	conflicts := result.Conflicts
	resolutions := make([]models.Resolution, 0, len(conflicts))

	for i, conf := range conflicts {
		choice, err := promptResolution(i+1, len(conflicts), conf)
		if err != nil {
			// Aborted prompt (ctrl-c / closed terminal): skip everything
			// left, keeping the ours defaults.
			fmt.Fprintf(os.Stderr, "kymerge: resolution aborted, keeping ours for remaining conflicts\n")
			for len(resolutions) < len(conflicts) {
				resolutions = append(resolutions, models.ResolutionSkip)
			}
			break
		}
		resolutions = append(resolutions, choice)
	}

	errs := merge.ApplyResolutions(result.Merged, conflicts, resolutions)

	var remaining []models.Conflict
	for i, conf := range conflicts {
		if resolutions[i] == models.ResolutionSkip {
			remaining = append(remaining, conf)
			continue
		}
		if errs[i] != nil {
			fmt.Fprintf(os.Stderr, "warning: could not apply resolution at %s: %v\n", conf.Path, errs[i])
			remaining = append(remaining, conf)
			continue
		}
		result.Resolved++
	}

	result.Conflicts = remaining
	return resolutions
}

// promptResolution shows one numbered select for a conflict
func promptResolution(n, total int, c models.Conflict) (models.Resolution, error) {
	title := fmt.Sprintf("Conflict %d of %d: %s", n, total, c.Description)
	description := "Path: " + c.Path
	if c.ULID != "" {
		description += "\nULID: " + c.ULID
	}

	var choice models.Resolution
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[models.Resolution]().
			Title(title).
			Description(description).
			Options(resolutionOptions(c)...).
			Value(&choice),
	))
	if err := form.Run(); err != nil {
		return models.ResolutionSkip, err
	}
	return choice, nil
}

func resolutionOptions(c models.Conflict) []huh.Option[models.Resolution] {
	if c.Kind == models.ConflictDeleteModify {
		deletion, modified := models.ResolutionOurs, models.ResolutionTheirs
		survivor := merge.FormatValue(c.Theirs)
		if c.TheirsDeleted {
			deletion, modified = models.ResolutionTheirs, models.ResolutionOurs
			survivor = merge.FormatValue(c.Ours)
		}
		return []huh.Option[models.Resolution]{
			huh.NewOption("1. Keep the deletion", deletion),
			huh.NewOption("2. Keep the modified version: "+survivor, modified),
			huh.NewOption("3. Skip (leave unresolved)", models.ResolutionSkip),
		}
	}

	return []huh.Option[models.Resolution]{
		huh.NewOption("1. Take ours:   "+merge.FormatValue(c.Ours), models.ResolutionOurs),
		huh.NewOption("2. Take theirs: "+merge.FormatValue(c.Theirs), models.ResolutionTheirs),
		huh.NewOption("3. Skip (leave unresolved)", models.ResolutionSkip),
	}
}
