package cmd

import (
	"fmt"
	"strconv"

	"claudecfg/internal/cli"
	"claudecfg/internal/config"
	"claudecfg/internal/project"

	"github.com/spf13/cobra"
)

var (
	historyOutputFormat string
	historyNoHeaders    bool
	historyLimit        int
	historyYes          bool
)

// historyCmd represents the history command group
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and trim a project's history",
	Long: `Inspect and trim the prompt history of one tracked project.

History entries accumulate with every session and dominate the size of the
configuration file over time. The show subcommand lists the most recent
entries, clear drops them all, and keep trims to the n most recent.

Examples:
  claudecfg history show /home/user/work/api
  claudecfg history show /home/user/work/api --limit 25
  claudecfg history clear /home/user/work/api
  claudecfg history keep /home/user/work/api 20`,
}

// historyShowCmd represents the history show command
var historyShowCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Show a project's most recent prompts",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

// historyClearCmd represents the history clear command
var historyClearCmd = &cobra.Command{
	Use:   "clear <path>",
	Short: "Delete all history entries of a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryClear,
}

// historyKeepCmd represents the history keep command
var historyKeepCmd = &cobra.Command{
	Use:   "keep <path> <n>",
	Short: "Keep only the n most recent history entries",
	Args:  cobra.ExactArgs(2),
	RunE:  runHistoryKeep,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyKeepCmd)

	historyShowCmd.Flags().StringVarP(&historyOutputFormat, "output", "o", "table", "Output format (table, wide, json, yaml)")
	historyShowCmd.Flags().BoolVar(&historyNoHeaders, "no-headers", false, "Omit the header and summary lines (for scripting)")
	historyShowCmd.Flags().IntVar(&historyLimit, "limit", 10, "Maximum number of entries to show (0 shows all)")
	historyClearCmd.Flags().BoolVarP(&historyYes, "yes", "y", false, "Skip the confirmation prompt")
}

// lookupProject loads the store and resolves one tracked project.
func lookupProject(path string) (*config.Store, project.Project, error) {
	store, err := loadStore()
	if err != nil {
		return nil, project.Project{}, err
	}
	p, ok := store.Project(path)
	if !ok {
		return nil, project.Project{}, &config.NotFoundError{Path: path, What: "project"}
	}
	return store, p, nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	format := cli.OutputFormat(historyOutputFormat)
	if err := cli.ValidateOutputFormat(format); err != nil {
		return err
	}

	_, p, err := lookupProject(args[0])
	if err != nil {
		return err
	}

	return cli.FormatHistory(cmd.OutOrStdout(), p, historyLimit, format, historyNoHeaders)
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	store, p, err := lookupProject(args[0])
	if err != nil {
		return err
	}

	if p.HistoryCount() == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No history entries found")
		return nil
	}

	if !historyYes {
		confirmed, err := cli.Confirm(fmt.Sprintf("Clear the history of %s?", p.Path))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
			return nil
		}
	}

	removed := p.HistoryCount()
	p.History = []project.HistoryEntry{}
	store.UpdateProject(p)
	if err := saveStore(store); err != nil {
		return err
	}

	if !rootQuiet {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Cleared %d history entry(s) for %s", removed, p.Path)))
	}
	return nil
}

func runHistoryKeep(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 0 {
		return fmt.Errorf("invalid count %q: must be a non-negative integer", args[1])
	}

	store, p, err := lookupProject(args[0])
	if err != nil {
		return err
	}

	if p.HistoryCount() <= n {
		fmt.Fprintf(cmd.OutOrStdout(), "History already within %d entries, nothing to trim\n", n)
		return nil
	}

	removed := p.HistoryCount() - n
	p.History = p.History[p.HistoryCount()-n:]
	store.UpdateProject(p)
	if err := saveStore(store); err != nil {
		return err
	}

	if !rootQuiet {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Removed %d history entry(s) for %s, %d kept", removed, p.Path, n)))
	}
	return nil
}
