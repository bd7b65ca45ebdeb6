// Package cli implements the command-line interface for kymerge.
package cli

import (
	"fmt"
	"os"

	"github.com/kynetic-dev/kymerge/internal/config"
	"github.com/kynetic-dev/kymerge/internal/store"
	"github.com/spf13/cobra"
)

// cmdContext holds common resources for CLI commands
type cmdContext struct {
	Config *config.Config
	Store  *store.Store // nil when journaling is off
}

// Close releases resources held by cmdContext
func (c *cmdContext) Close() {
	if c.Store != nil {
		c.Store.Close()
	}
}

// initContext loads configuration (defaults when no workspace exists) and
// opens the journal store if enabled
func initContext() *cmdContext {
	cfg := config.LoadOrDefault()

	ctx := &cmdContext{Config: cfg}
	if cfg.Journal && cfg.DatabasePath() != "" {
		st, err := store.New(cfg.DatabasePath())
		if err != nil {
			exitError("failed to open journal: %v", err)
		}
		if err := st.Initialize(); err != nil {
			st.Close()
			exitError("failed to initialize journal: %v", err)
		}
		ctx.Store = st
	}

	return ctx
}

var rootCmd = &cobra.Command{
	Use:   "kymerge",
	Short: "Structured merge driver for kynetic YAML documents",
	Long: `kymerge is a git merge driver for kynetic specification and task
documents. It replaces line-based merging with an identity-aware structural
three-way merge that understands identity-keyed collections, set-valued
fields, and nested records.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(initCmd)
}

// exitError prints an error and exits
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

// exitWithCode prints an error and exits with a specific code. The merge
// driver protocol gives exit codes meaning: 1 leaves conflicts for review,
// 2 declines the merge, 3 is a hard failure.
func exitWithCode(code int, format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(code)
}
