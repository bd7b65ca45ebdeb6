package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/kynetic-dev/kymerge/internal/merge"
	"github.com/kynetic-dev/kymerge/internal/models"
	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <ancestor> <current> <other> <pathname>",
	Short: "Three-way merge of one kynetic document",
	Long: `Merge two divergent snapshots of a kynetic document against their
common ancestor. This is the git merge-driver entry point: git hands over
three temporary files (%O %A %B) plus the original pathname (%P), and the
merged result is written back to the current file.

Exit codes:
  0  merged cleanly (or all conflicts resolved interactively)
  1  merged with unresolved conflicts; the current file holds a usable
     document with each conflict defaulted to ours and annotated with a
     "# CONFLICT:" comment block
  2  pathname is not a kynetic document; git falls back to its builtin merge
  3  hard failure (a snapshot failed to parse)

Examples:
  kymerge merge base.yaml ours.yaml theirs.yaml core.tasks.yaml
  kymerge merge -i %O %A %B %P   # resolve conflicts at a prompt`,
	Args: cobra.ExactArgs(4),
	Run:  runMerge,
}

var (
	mergeInteractive bool
	mergeQuiet       bool
)

func init() {
	mergeCmd.Flags().BoolVarP(&mergeInteractive, "interactive", "i", false, "Resolve conflicts at an interactive prompt")
	mergeCmd.Flags().BoolVar(&mergeQuiet, "quiet", false, "Suppress the merge summary")
}

func runMerge(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	basePath, oursPath, theirsPath, origPath := args[0], args[1], args[2], args[3]

	result, err := merge.MergeFiles(basePath, oursPath, theirsPath, origPath)
	if errors.Is(err, merge.ErrUnknownFileType) {
		journalDecline(c, origPath)
		if !mergeQuiet {
			fmt.Fprintf(os.Stderr, "kymerge: declining %s (not a kynetic document)\n", origPath)
		}
		os.Exit(2)
	}
	if err != nil {
		exitWithCode(3, "%v", err)
	}

	// Keep the full conflict list for the journal; interactive resolution
	// trims result.Conflicts down to the skipped ones.
	discovered := result.Conflicts
	var resolutions []models.Resolution
	if c.Config.Interactive || mergeInteractive {
		resolutions = resolveInteractively(result)
	}

	// Remaining conflicts keep their ours default and get annotated.
	if err := merge.WriteMerged(oursPath, result, result.HasConflicts()); err != nil {
		exitWithCode(3, "%v", err)
	}

	journalMerge(c, origPath, result, discovered, resolutions)

	if !mergeQuiet {
		printMergeSummary(origPath, result)
	}
	if result.HasConflicts() {
		os.Exit(1)
	}
}

func printMergeSummary(path string, result *models.MergeResult) {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed, color.Bold)

	if result.Resolved > 0 {
		yellow.Fprintf(os.Stderr, "kymerge: resolved %d conflict(s) interactively in %s\n", result.Resolved, path)
	}

	if !result.HasConflicts() {
		green.Fprintf(os.Stderr, "kymerge: merged %s cleanly\n", path)
		return
	}

	red.Fprintf(os.Stderr, "kymerge: %d conflict(s) in %s (defaulted to ours):\n", len(result.Conflicts), path)
	for _, conf := range result.Conflicts {
		if conf.ULID != "" {
			fmt.Fprintf(os.Stderr, "  %s: %s (ulid %s)\n", conf.Kind, conf.Path, conf.ULID)
		} else {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", conf.Kind, conf.Path)
		}
	}
}

// journalMerge records the merge outcome. Journaling is best-effort: a
// broken journal must never fail a merge the host VCS already accepted.
// discovered holds every conflict found, resolutions the interactive choice
// for each (empty when non-interactive).
func journalMerge(c *cmdContext, path string, result *models.MergeResult, discovered []models.Conflict, resolutions []models.Resolution) {
	if c.Store == nil {
		return
	}

	mergeID, err := c.Store.RecordMerge(&models.MergeRecord{
		Path:      path,
		FileType:  result.FileType,
		Conflicts: len(result.Conflicts),
		Resolved:  result.Resolved,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to journal merge: %v\n", err)
		return
	}

	for i, conf := range discovered {
		resolution := models.Resolution("")
		if i < len(resolutions) {
			resolution = resolutions[i]
		}
		ours := merge.FormatValue(conf.Ours)
		theirs := merge.FormatValue(conf.Theirs)
		if conf.OursDeleted {
			ours = merge.DeletedMarker
		}
		if conf.TheirsDeleted {
			theirs = merge.DeletedMarker
		}
		if err := c.Store.RecordConflict(mergeID, conf, ours, theirs, resolution); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to journal conflict: %v\n", err)
			return
		}
	}
}

func journalDecline(c *cmdContext, path string) {
	if c.Store == nil {
		return
	}
	_, err := c.Store.RecordMerge(&models.MergeRecord{
		Path:     path,
		FileType: models.FileTypeUnknown,
		Declined: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to journal merge: %v\n", err)
	}
}
