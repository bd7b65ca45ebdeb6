package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/kynetic-dev/kymerge/internal/config"
	"github.com/kynetic-dev/kymerge/internal/store"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .kynetic workspace directory",
	Long: `Create a .kynetic directory in the current directory with default
configuration and an empty merge journal. The merge driver also works
without a workspace; init enables journaling and persistent options.`,
	Run: runInit,
}

func runInit(cmd *cobra.Command, args []string) {
	cfg, err := config.Initialize()
	if err != nil {
		exitError("%v", err)
	}

	st, err := store.New(cfg.DatabasePath())
	if err != nil {
		exitError("failed to create journal: %v", err)
	}
	defer st.Close()
	if err := st.Initialize(); err != nil {
		exitError("failed to initialize journal: %v", err)
	}

	green := color.New(color.FgGreen)
	green.Println("Initialized kynetic workspace")
	fmt.Printf("  %s\n", cfg.KyneticPath())
}
