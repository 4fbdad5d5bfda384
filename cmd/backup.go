package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"claudecfg/internal/cli"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var (
	backupOutputFormat string
	backupNoHeaders    bool
	restoreYes         bool
	deleteYes          bool
	pruneKeep          int
)

// backupCmd represents the backup command group
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage configuration backups",
	Long: `Manage timestamped snapshots of the configuration file.

Snapshots are plain copies named claude_<timestamp>.json in the per-user
backup directory (~/.claude_backups). Creating a snapshot rotates old ones
so at most the retention count remains.

Examples:
  claudecfg backup create
  claudecfg backup list
  claudecfg backup restore claude_20250601_123045_123456.json
  claudecfg backup prune --keep 5
  claudecfg backup delete claude_20250601_123045_123456.json`,
}

// backupCreateCmd represents the backup create command
var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Snapshot the configuration file now",
	Long: `Snapshot the configuration file into the backup directory.

With --quiet only the snapshot path is printed, for capturing in scripts.`,
	Args: cobra.NoArgs,
	RunE: runBackupCreate,
}

// backupListCmd represents the backup list command
var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runBackupList,
}

// backupRestoreCmd represents the backup restore command
var backupRestoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Restore a snapshot over the configuration file",
	Long: `Copy a snapshot back over the live configuration file.

A bare filename resolves against the backup directory; a path is used as
given. The current file state is overwritten without being snapshotted
first, so a corrupt file cannot block its own recovery.

Examples:
  claudecfg backup restore claude_20250601_123045_123456.json
  claudecfg backup restore /tmp/claude-copy.json --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupRestore,
}

// backupPruneCmd represents the backup prune command
var backupPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the most recent snapshots",
	Args:  cobra.NoArgs,
	RunE:  runBackupPrune,
}

// backupDeleteCmd represents the backup delete command
var backupDeleteCmd = &cobra.Command{
	Use:   "delete <file>",
	Short: "Delete one snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupDelete,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupPruneCmd)
	backupCmd.AddCommand(backupDeleteCmd)

	backupListCmd.Flags().StringVarP(&backupOutputFormat, "output", "o", "table", "Output format (table, wide, json, yaml)")
	backupListCmd.Flags().BoolVar(&backupNoHeaders, "no-headers", false, "Omit the header and summary lines (for scripting)")
	backupRestoreCmd.Flags().BoolVarP(&restoreYes, "yes", "y", false, "Skip the confirmation prompt")
	backupDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
	backupPruneCmd.Flags().IntVar(&pruneKeep, "keep", 0, "Number of snapshots to keep (0 selects the default retention of 10)")
}

// resolveBackupPath turns a bare snapshot filename into a path inside the
// backup directory. Anything with a directory component passes through.
func resolveBackupPath(dir, name string) string {
	if filepath.Base(name) == name {
		return filepath.Join(dir, name)
	}
	return name
}

func runBackupCreate(cmd *cobra.Command, args []string) error {
	store, err := newStore()
	if err != nil {
		return err
	}

	path, err := store.CreateBackup()
	if err != nil {
		return err
	}

	if rootQuiet {
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created backup %s", path)))
	return nil
}

func runBackupList(cmd *cobra.Command, args []string) error {
	format := cli.OutputFormat(backupOutputFormat)
	if err := cli.ValidateOutputFormat(format); err != nil {
		return err
	}

	store, err := newStore()
	if err != nil {
		return err
	}
	backups, err := store.Backups()
	if err != nil {
		return err
	}

	return cli.FormatBackups(cmd.OutOrStdout(), backups, format, backupNoHeaders)
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	store, err := newStore()
	if err != nil {
		return err
	}
	target := resolveBackupPath(store.BackupDir(), args[0])

	if !restoreYes {
		confirmed, err := cli.Confirm(fmt.Sprintf("Overwrite %s with %s?", store.ConfigPath(), target))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
			return nil
		}
	}

	var s *spinner.Spinner
	if !rootQuiet {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Suffix = " Restoring backup..."
		s.Start()
	}
	err = store.RestoreFromBackup(target)
	if s != nil {
		s.Stop()
	}
	if err != nil {
		return err
	}

	if !rootQuiet {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Restored %s from %s", store.ConfigPath(), target)))
	}
	return nil
}

func runBackupPrune(cmd *cobra.Command, args []string) error {
	store, err := newStore()
	if err != nil {
		return err
	}

	before, err := store.Backups()
	if err != nil {
		return err
	}
	if err := store.PruneBackups(pruneKeep); err != nil {
		return err
	}
	after, err := store.Backups()
	if err != nil {
		return err
	}

	if !rootQuiet {
		removed := len(before) - len(after)
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Removed %d backup(s), %d kept", removed, len(after))))
	}
	return nil
}

func runBackupDelete(cmd *cobra.Command, args []string) error {
	store, err := newStore()
	if err != nil {
		return err
	}
	target := resolveBackupPath(store.BackupDir(), args[0])

	if !deleteYes {
		confirmed, err := cli.Confirm(fmt.Sprintf("Delete backup %s?", target))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
			return nil
		}
	}

	if err := store.DeleteBackup(target); err != nil {
		return err
	}

	if !rootQuiet {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted backup %s", target)))
	}
	return nil
}
