package cmd

import (
	"fmt"

	"claudecfg/internal/cli"
	"claudecfg/internal/config"

	"github.com/spf13/cobra"
)

var removeYes bool

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Remove a project from the configuration",
	Long: `Remove one tracked project entry from the configuration file.

Removal is keyed on the entry, not the directory: an entry whose directory
no longer exists removes cleanly. The directory itself is never touched.

Examples:
  claudecfg remove /home/user/work/old-api
  claudecfg remove /home/user/work/old-api --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)

	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runRemove(cmd *cobra.Command, args []string) error {
	path := args[0]

	store, err := loadStore()
	if err != nil {
		return err
	}
	if _, ok := store.Project(path); !ok {
		return &config.NotFoundError{Path: path, What: "project"}
	}

	if !removeYes {
		confirmed, err := cli.Confirm(fmt.Sprintf("Remove project %s from the configuration?", path))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
			return nil
		}
	}

	store.RemoveProject(path)
	if err := saveStore(store); err != nil {
		return err
	}

	if !rootQuiet {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Removed project %s", path)))
	}
	return nil
}
