package cmd

import (
	"claudecfg/internal/cli"

	"github.com/spf13/cobra"
)

var (
	listOutputFormat string
	listNoHeaders    bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked projects",
	Long: `List every project tracked in the configuration file.

The table shows each project's path, history length, most recent prompt,
MCP server count, and whether the directory still exists. Wide output adds
the size estimate, trust state, and allowed tool count.

Examples:
  claudecfg list
  claudecfg list -o wide
  claudecfg list -o json
  claudecfg list --no-headers`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listOutputFormat, "output", "o", "table", "Output format (table, wide, json, yaml)")
	listCmd.Flags().BoolVar(&listNoHeaders, "no-headers", false, "Omit the header and summary lines (for scripting)")
}

func runList(cmd *cobra.Command, args []string) error {
	format := cli.OutputFormat(listOutputFormat)
	if err := cli.ValidateOutputFormat(format); err != nil {
		return err
	}

	store, err := loadStore()
	if err != nil {
		return err
	}

	return cli.FormatProjects(cmd.OutOrStdout(), store.Projects(), format, listNoHeaders)
}
