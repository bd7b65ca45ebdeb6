package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show journaled merges",
	Long:  `Display the merge journal: every merge this driver performed, with conflict counts and declined paths.`,
	Run:   runLog,
}

var logLimit int

func init() {
	logCmd.Flags().IntVarP(&logLimit, "n", "n", 0, "Limit the number of merges to show")
}

func runLog(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	if c.Store == nil {
		exitError("no merge journal (run 'kymerge init' to enable journaling)")
	}

	records, err := c.Store.ListMerges(logLimit)
	if err != nil {
		exitError("failed to read journal: %v", err)
	}

	if len(records) == 0 {
		fmt.Println("No merges recorded yet")
		return
	}

	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)
	dim := color.New(color.Faint)

	for _, rec := range records {
		yellow.Printf("%s ", rec.Timestamp)
		fmt.Printf("%s ", rec.Path)
		dim.Printf("[%s] ", rec.FileType)

		switch {
		case rec.Declined:
			dim.Println("declined")
		case rec.Conflicts > 0:
			red.Printf("%d conflict(s)", rec.Conflicts)
			if rec.Resolved > 0 {
				fmt.Printf(", %d resolved", rec.Resolved)
			}
			fmt.Println()
		default:
			fmt.Println("clean")
		}
	}
}
