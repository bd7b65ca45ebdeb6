package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/kynetic-dev/kymerge/internal/models"
	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect <path>...",
	Short: "Show which document kind a path classifies as",
	Long: `Classify one or more pathnames into kynetic document kinds.
Paths that match no kind print "unknown"; the merge driver declines those
so git's builtin merge handles them.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runDetect,
}

var detectExplain bool

func init() {
	detectCmd.Flags().BoolVar(&detectExplain, "explain", false, "Show the classification rule that matched")
}

func runDetect(cmd *cobra.Command, args []string) {
	cyan := color.New(color.FgCyan)
	dim := color.New(color.Faint)

	anyUnknown := false
	for _, path := range args {
		ft, rule := models.ClassifyPath(path)
		if ft == models.FileTypeUnknown {
			anyUnknown = true
		}

		fmt.Printf("%s: ", path)
		cyan.Printf("%s", ft)
		if detectExplain {
			dim.Printf("  (%s)", rule)
		}
		fmt.Println()
	}

	if anyUnknown {
		os.Exit(1)
	}
}
