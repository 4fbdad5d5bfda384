package cmd

import (
	"claudecfg/internal/cli"

	"github.com/spf13/cobra"
)

var statsOutputFormat string

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show configuration statistics",
	Long: `Show aggregate statistics over the whole configuration file:
project, history, and MCP server counts, the file size, and the account
metadata the file carries.

Examples:
  claudecfg stats
  claudecfg stats -o json`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVarP(&statsOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
}

func runStats(cmd *cobra.Command, args []string) error {
	format := cli.OutputFormat(statsOutputFormat)
	if err := cli.ValidateOutputFormat(format); err != nil {
		return err
	}

	store, err := loadStore()
	if err != nil {
		return err
	}

	return cli.FormatStats(cmd.OutOrStdout(), store.Stats(), format)
}
