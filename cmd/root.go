package cmd

import (
	"errors"
	"os"

	"claudecfg/internal/config"
	"claudecfg/pkg/logging"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
// These let scripts tell failure classes apart without parsing messages.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeNotFound indicates a missing file, backup, or project entry.
	ExitCodeNotFound = 2
	// ExitCodeParse indicates the configuration file could not be parsed or
	// is not a JSON object.
	ExitCodeParse = 3
	// ExitCodeWrite indicates a failed write, copy, or other filesystem
	// operation.
	ExitCodeWrite = 4
)

// Persistent flags shared by every subcommand.
var (
	rootConfigPath    string
	rootNoBackup      bool
	rootRequireBackup bool
	rootQuiet         bool
	rootDebug         bool
)

// rootCmd represents the base command for the claudecfg application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "claudecfg",
	Short: "Manage Claude Code projects and configuration",
	Long: `claudecfg manages the projects, history, and MCP server definitions
stored in the Claude Code configuration file (~/.claude.json by default).
Every change is saved atomically, and a timestamped backup of the previous
state is taken first unless --no-backup is given.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	// This is useful for providing cleaner error output to the user.
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logging.LevelWarn
		if rootDebug {
			level = logging.LevelDebug
		}
		logging.Init(level, cmd.ErrOrStderr())
	},
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
// This can be used by other commands to access the build version.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It initializes and executes the root command, which in turn handles subcommands and flags.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "claudecfg version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	var notFound *config.NotFoundError
	if errors.As(err, &notFound) {
		return ExitCodeNotFound
	}

	var parseErr *config.ParseError
	if errors.As(err, &parseErr) {
		return ExitCodeParse
	}
	var shapeErr *config.ShapeError
	if errors.As(err, &shapeErr) {
		return ExitCodeParse
	}

	var writeErr *config.WriteError
	if errors.As(err, &writeErr) {
		return ExitCodeWrite
	}
	var ioErr *config.IOError
	if errors.As(err, &ioErr) {
		return ExitCodeWrite
	}

	// Default to general error
	return ExitCodeError
}

// newStore builds a store for the resolved configuration location without
// reading it. Commands that only touch backups use this directly.
func newStore() (*config.Store, error) {
	path, err := config.ResolveConfigPath(rootConfigPath)
	if err != nil {
		return nil, err
	}
	backupDir, err := config.DefaultBackupDir()
	if err != nil {
		return nil, err
	}
	return config.NewStore(path, backupDir), nil
}

// loadStore builds the store and loads the configuration file.
func loadStore() (*config.Store, error) {
	store, err := newStore()
	if err != nil {
		return nil, err
	}
	if err := store.Load(); err != nil {
		return nil, err
	}
	return store, nil
}

// saveStore persists pending changes, honoring the backup flags:
// --require-backup makes the save fail when the snapshot cannot be taken,
// --no-backup skips the snapshot entirely.
func saveStore(store *config.Store) error {
	if rootRequireBackup {
		return store.SaveStrict()
	}
	return store.Save(!rootNoBackup)
}

// init is a special Go function that is executed when the package is initialized.
// It is used here to add subcommands to the root command.
func init() {
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().StringVarP(&rootConfigPath, "config", "c", "", "Path to the configuration file (default: ~/.claude.json, env: CLAUDECFG_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&rootNoBackup, "no-backup", false, "Disable the automatic backup before saving changes")
	rootCmd.PersistentFlags().BoolVar(&rootRequireBackup, "require-backup", false, "Fail instead of saving when the pre-save backup cannot be created")
	rootCmd.PersistentFlags().BoolVarP(&rootQuiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Enable debug logging")
}
