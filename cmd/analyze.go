package cmd

import (
	"claudecfg/internal/cli"
	"claudecfg/internal/project"

	"github.com/spf13/cobra"
)

var analyzeOutputFormat string

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Report project health findings",
	Long: `Scan every tracked project and group the findings:

  - directories that no longer exist
  - projects without any history
  - histories larger than 50 entries
  - projects whose trust dialog was never accepted

Examples:
  claudecfg analyze
  claudecfg analyze -o json`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format := cli.OutputFormat(analyzeOutputFormat)
	if err := cli.ValidateOutputFormat(format); err != nil {
		return err
	}

	store, err := loadStore()
	if err != nil {
		return err
	}

	return cli.FormatAnalysis(cmd.OutOrStdout(), project.Analyze(store.Projects()), format)
}
