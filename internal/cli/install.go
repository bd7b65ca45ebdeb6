package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/kynetic-dev/kymerge/internal/models"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Register kymerge as a git merge driver",
	Long: `Register kymerge as a merge driver in the enclosing git repository
and map the kynetic document patterns to it in .gitattributes.

With --global the driver is registered in ~/.gitconfig instead; the
.gitattributes patterns are still written to the enclosing repository.`,
	Run: runInstall,
}

var installGlobal bool

func init() {
	installCmd.Flags().BoolVar(&installGlobal, "global", false, "Register the driver in the global git config")
}

const (
	driverName    = "kymerge"
	driverCommand = "kymerge merge %O %A %B %P"
	driverLabel   = "kynetic structured merge driver"
)

// attributePatterns maps each kynetic document kind to a path pattern
var attributePatterns = []string{
	"*" + models.TasksSuffix + " merge=" + driverName,
	"*" + models.InboxSuffix + " merge=" + driverName,
	models.ManifestFileName + " merge=" + driverName,
	models.MetaFileName + " merge=" + driverName,
	models.ModulesSegment + "/**/*.yaml merge=" + driverName,
}

func runInstall(cmd *cobra.Command, args []string) {
	repo, err := gogit.PlainOpenWithOptions(".", &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		exitError("not inside a git repository: %v", err)
	}

	if installGlobal {
		if err := registerDriverGlobal(); err != nil {
			exitError("failed to update global git config: %v", err)
		}
	} else {
		if err := registerDriver(repo); err != nil {
			exitError("failed to update git config: %v", err)
		}
	}

	wt, err := repo.Worktree()
	if err != nil {
		exitError("repository has no worktree: %v", err)
	}
	added, err := writeAttributes(wt.Filesystem.Root())
	if err != nil {
		exitError("failed to update .gitattributes: %v", err)
	}

	green := color.New(color.FgGreen)
	green.Println("Registered merge driver 'kymerge'")
	if added > 0 {
		fmt.Printf("  added %d pattern(s) to .gitattributes\n", added)
	} else {
		fmt.Println("  .gitattributes already up to date")
	}
}

// registerDriver writes the merge.kymerge section into the repository config
func registerDriver(repo *gogit.Repository) error {
	cfg, err := repo.Config()
	if err != nil {
		return err
	}
	setDriverOptions(cfg)
	return repo.SetConfig(cfg)
}

// registerDriverGlobal writes the merge.kymerge section into ~/.gitconfig
func registerDriverGlobal() error {
	cfg, err := gitconfig.LoadConfig(gitconfig.GlobalScope)
	if err != nil {
		return err
	}
	setDriverOptions(cfg)

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(home, ".gitconfig"), data, 0644)
}

func setDriverOptions(cfg *gitconfig.Config) {
	section := cfg.Raw.Section("merge").Subsection(driverName)
	section.SetOption("name", driverLabel)
	section.SetOption("driver", driverCommand)
}

// writeAttributes appends any missing driver patterns to .gitattributes at
// the worktree root, preserving existing content
func writeAttributes(root string) (int, error) {
	path := filepath.Join(root, ".gitattributes")

	existing := map[string]bool{}
	content := ""
	if data, err := os.ReadFile(path); err == nil {
		content = string(data)
		for _, line := range strings.Split(content, "\n") {
			existing[strings.TrimSpace(line)] = true
		}
	} else if !os.IsNotExist(err) {
		return 0, err
	}

	var missing []string
	for _, pattern := range attributePatterns {
		if !existing[pattern] {
			missing = append(missing, pattern)
		}
	}
	if len(missing) == 0 {
		return 0, nil
	}

	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += strings.Join(missing, "\n") + "\n"

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return 0, err
	}
	return len(missing), nil
}
