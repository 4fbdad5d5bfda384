package cmd

import (
	"encoding/json"
	"fmt"

	"claudecfg/internal/cli"
	"claudecfg/internal/config"

	"github.com/spf13/cobra"
)

var (
	mcpOutputFormat string
	mcpNoHeaders    bool
	mcpSetJSON      string
	mcpYes          bool
)

// mcpCmd represents the mcp command group
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Manage a project's MCP servers",
	Long: `Manage the MCP server definitions of one tracked project.

Server configurations are opaque JSON objects; this tool stores and removes
them without interpreting their contents.

Examples:
  claudecfg mcp list /home/user/work/api
  claudecfg mcp get /home/user/work/api github
  claudecfg mcp set /home/user/work/api github --json '{"command": "gh-mcp"}'
  claudecfg mcp remove /home/user/work/api github
  claudecfg mcp toggle-all /home/user/work/api`,
}

// mcpListCmd represents the mcp list command
var mcpListCmd = &cobra.Command{
	Use:   "list <path>",
	Short: "List a project's MCP servers",
	Args:  cobra.ExactArgs(1),
	RunE:  runMCPList,
}

// mcpGetCmd represents the mcp get command
var mcpGetCmd = &cobra.Command{
	Use:   "get <path> <name>",
	Short: "Print one server's configuration as JSON",
	Args:  cobra.ExactArgs(2),
	RunE:  runMCPGet,
}

// mcpSetCmd represents the mcp set command
var mcpSetCmd = &cobra.Command{
	Use:   "set <path> <name>",
	Short: "Insert or replace a server definition",
	Long: `Insert or replace one MCP server definition.

The configuration is passed with --json and must be a JSON object.

Examples:
  claudecfg mcp set /home/user/work/api github --json '{"command": "gh-mcp", "args": ["--stdio"]}'`,
	Args: cobra.ExactArgs(2),
	RunE: runMCPSet,
}

// mcpRemoveCmd represents the mcp remove command
var mcpRemoveCmd = &cobra.Command{
	Use:   "remove <path> <name>",
	Short: "Delete a server definition",
	Args:  cobra.ExactArgs(2),
	RunE:  runMCPRemove,
}

// mcpToggleAllCmd represents the mcp toggle-all command
var mcpToggleAllCmd = &cobra.Command{
	Use:   "toggle-all <path>",
	Short: "Flip the enable-all-project-servers setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runMCPToggleAll,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.AddCommand(mcpListCmd)
	mcpCmd.AddCommand(mcpGetCmd)
	mcpCmd.AddCommand(mcpSetCmd)
	mcpCmd.AddCommand(mcpRemoveCmd)
	mcpCmd.AddCommand(mcpToggleAllCmd)

	mcpListCmd.Flags().StringVarP(&mcpOutputFormat, "output", "o", "table", "Output format (table, wide, json, yaml)")
	mcpListCmd.Flags().BoolVar(&mcpNoHeaders, "no-headers", false, "Omit the header and summary lines (for scripting)")
	mcpSetCmd.Flags().StringVar(&mcpSetJSON, "json", "", "Server configuration as a JSON object (required)")
	mcpRemoveCmd.Flags().BoolVarP(&mcpYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runMCPList(cmd *cobra.Command, args []string) error {
	format := cli.OutputFormat(mcpOutputFormat)
	if err := cli.ValidateOutputFormat(format); err != nil {
		return err
	}

	_, p, err := lookupProject(args[0])
	if err != nil {
		return err
	}

	return cli.FormatMCPServers(cmd.OutOrStdout(), p, format, mcpNoHeaders)
}

func runMCPGet(cmd *cobra.Command, args []string) error {
	_, p, err := lookupProject(args[0])
	if err != nil {
		return err
	}

	name := args[1]
	cfg, ok := p.MCPServers[name]
	if !ok {
		return &config.NotFoundError{Path: name, What: "MCP server"}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func runMCPSet(cmd *cobra.Command, args []string) error {
	if mcpSetJSON == "" {
		return fmt.Errorf("--json is required")
	}
	var cfg any
	if err := json.Unmarshal([]byte(mcpSetJSON), &cfg); err != nil {
		return fmt.Errorf("invalid --json value: %w", err)
	}
	if _, ok := cfg.(map[string]any); !ok {
		return fmt.Errorf("server configuration must be a JSON object")
	}

	store, p, err := lookupProject(args[0])
	if err != nil {
		return err
	}

	name := args[1]
	p.MCPServers[name] = cfg
	store.UpdateProject(p)
	if err := saveStore(store); err != nil {
		return err
	}

	if !rootQuiet {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Saved server '%s'", name)))
	}
	return nil
}

func runMCPRemove(cmd *cobra.Command, args []string) error {
	store, p, err := lookupProject(args[0])
	if err != nil {
		return err
	}

	name := args[1]
	if _, ok := p.MCPServers[name]; !ok {
		return &config.NotFoundError{Path: name, What: "MCP server"}
	}

	if !mcpYes {
		confirmed, err := cli.Confirm(fmt.Sprintf("Delete MCP server '%s'?", name))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
			return nil
		}
	}

	delete(p.MCPServers, name)
	store.UpdateProject(p)
	if err := saveStore(store); err != nil {
		return err
	}

	if !rootQuiet {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted server '%s'", name)))
	}
	return nil
}

func runMCPToggleAll(cmd *cobra.Command, args []string) error {
	store, p, err := lookupProject(args[0])
	if err != nil {
		return err
	}

	p.EnableAllProjectMCPServers = !p.EnableAllProjectMCPServers
	store.UpdateProject(p)
	if err := saveStore(store); err != nil {
		return err
	}

	state := "disabled"
	if p.EnableAllProjectMCPServers {
		state = "enabled"
	}
	if !rootQuiet {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("All project MCP servers %s for %s", state, p.Path)))
	}
	return nil
}
