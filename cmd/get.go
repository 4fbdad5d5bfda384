package cmd

import (
	"claudecfg/internal/cli"
	"claudecfg/internal/config"

	"github.com/spf13/cobra"
)

var getOutputFormat string

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Show one tracked project",
	Long: `Show the details of one tracked project.

JSON and YAML output emit the project's raw storage object, exactly as it
sits in the configuration file.

Examples:
  claudecfg get /home/user/work/api
  claudecfg get /home/user/work/api -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVarP(&getOutputFormat, "output", "o", "table", "Output format (table, wide, json, yaml)")
}

func runGet(cmd *cobra.Command, args []string) error {
	format := cli.OutputFormat(getOutputFormat)
	if err := cli.ValidateOutputFormat(format); err != nil {
		return err
	}

	store, err := loadStore()
	if err != nil {
		return err
	}
	p, ok := store.Project(args[0])
	if !ok {
		return &config.NotFoundError{Path: args[0], What: "project"}
	}

	return cli.FormatProjectDetail(cmd.OutOrStdout(), p, format)
}
