package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutputFormat represents the supported output formats for CLI commands.
type OutputFormat string

const (
	// OutputFormatTable formats output as a kubectl-style plain table
	OutputFormatTable OutputFormat = "table"
	// OutputFormatWide formats output as a table with additional columns
	OutputFormatWide OutputFormat = "wide"
	// OutputFormatJSON formats output as raw JSON data
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML formats output as YAML data
	OutputFormatYAML OutputFormat = "yaml"
)

// ValidateOutputFormat validates that the given format is a supported
// output format.
func ValidateOutputFormat(format OutputFormat) error {
	switch format {
	case OutputFormatTable, OutputFormatWide, OutputFormatJSON, OutputFormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %q (valid: table, wide, json, yaml)", format)
	}
}

// outputJSON marshals data to indented JSON and writes it to w.
func outputJSON(w io.Writer, data interface{}) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format as JSON: %w", err)
	}
	fmt.Fprintln(w, string(jsonData))
	return nil
}

// outputYAML marshals data to YAML and writes it to w.
func outputYAML(w io.Writer, data interface{}) error {
	yamlData, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to format as YAML: %w", err)
	}
	fmt.Fprint(w, string(yamlData))
	return nil
}

// pluralize returns a formatted string with count and properly pluralized
// word. Example: pluralize(1, "project") -> "1 project",
// pluralize(3, "entry") -> "3 entries".
func pluralize(count int, singular string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	plural := singular + "s"
	if strings.HasSuffix(singular, "y") {
		plural = singular[:len(singular)-1] + "ies"
	}
	return fmt.Sprintf("%d %s", count, plural)
}
