package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"claudecfg/internal/backup"
	"claudecfg/internal/config"
	"claudecfg/internal/project"
	pkgstrings "claudecfg/pkg/strings"
)

// Truncation lengths for table cells. Normal tables use the shared display
// length; wide tables get more room before cutting off.
const (
	displayLenNormal = pkgstrings.DefaultDisplayMaxLen
	displayLenWide   = 80
)

// sectionCap limits how many entries an analysis section prints before
// collapsing the rest into a count.
const sectionCap = 10

// projectListItem represents a project in list output format.
// Uses both json and yaml tags to avoid duplication across format cases.
type projectListItem struct {
	Path         string `json:"path" yaml:"path"`
	HistoryCount int    `json:"historyCount" yaml:"historyCount"`
	LastAccessed string `json:"lastAccessed,omitempty" yaml:"lastAccessed,omitempty"`
	MCPServers   int    `json:"mcpServers" yaml:"mcpServers"`
	Exists       bool   `json:"exists" yaml:"exists"`
	SizeEstimate int    `json:"sizeEstimate" yaml:"sizeEstimate"`
	Trusted      bool   `json:"trusted" yaml:"trusted"`
	AllowedTools int    `json:"allowedTools" yaml:"allowedTools"`
}

// backupListItem represents a snapshot in list output format.
type backupListItem struct {
	Name      string `json:"name" yaml:"name"`
	Path      string `json:"path" yaml:"path"`
	CreatedAt string `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	Size      int64  `json:"size" yaml:"size"`
}

// historyListItem represents one history entry in show output.
type historyListItem struct {
	Index   int    `json:"index" yaml:"index"`
	Display string `json:"display" yaml:"display"`
}

// FormatProjects renders the project listing sorted by path.
func FormatProjects(w io.Writer, projects map[string]project.Project, format OutputFormat, noHeaders bool) error {
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects found")
		return nil
	}

	paths := make([]string, 0, len(projects))
	for path := range projects {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	if format == OutputFormatJSON || format == OutputFormatYAML {
		items := make([]projectListItem, 0, len(paths))
		for _, path := range paths {
			p := projects[path]
			last, _ := p.LastAccessed()
			items = append(items, projectListItem{
				Path:         p.Path,
				HistoryCount: p.HistoryCount(),
				LastAccessed: last,
				MCPServers:   len(p.MCPServers),
				Exists:       p.DirectoryExists(),
				SizeEstimate: p.SizeEstimate(),
				Trusted:      p.TrustDialogAccepted,
				AllowedTools: len(p.AllowedTools),
			})
		}
		if format == OutputFormatJSON {
			return outputJSON(w, items)
		}
		return outputYAML(w, items)
	}

	tw := NewPlainTableWriter(w)
	isWide := format == OutputFormatWide
	if isWide {
		tw.SetHeaders("PATH", "HISTORY", "LAST ACCESSED", "MCP", "EXISTS", "SIZE", "TRUSTED", "TOOLS")
	} else {
		tw.SetHeaders("PATH", "HISTORY", "LAST ACCESSED", "MCP", "EXISTS")
	}
	tw.SetNoHeaders(noHeaders)

	for _, path := range paths {
		p := projects[path]
		last, ok := p.LastAccessed()
		if !ok {
			last = "-"
		}
		if isWide {
			tw.AppendRow(
				p.Path,
				fmt.Sprintf("%d", p.HistoryCount()),
				pkgstrings.Truncate(last, displayLenWide),
				fmt.Sprintf("%d", len(p.MCPServers)),
				yesNo(p.DirectoryExists()),
				humanizeBytes(int64(p.SizeEstimate())),
				yesNo(p.TrustDialogAccepted),
				fmt.Sprintf("%d", len(p.AllowedTools)),
			)
		} else {
			tw.AppendRow(
				p.Path,
				fmt.Sprintf("%d", p.HistoryCount()),
				pkgstrings.Truncate(last, displayLenNormal),
				fmt.Sprintf("%d", len(p.MCPServers)),
				yesNo(p.DirectoryExists()),
			)
		}
	}

	tw.Render()

	if !noHeaders {
		fmt.Fprintf(w, "\n%s\n", pluralize(len(projects), "project"))
	}
	return nil
}

// FormatProjectDetail renders one project. Table output is a
// kubectl-describe-like view; JSON and YAML emit the project's raw storage
// object, exactly as it sits in the configuration file.
func FormatProjectDetail(w io.Writer, p project.Project, format OutputFormat) error {
	if format == OutputFormatJSON {
		return outputJSON(w, p.ToRaw())
	}
	if format == OutputFormatYAML {
		return outputYAML(w, p.ToRaw())
	}

	fmt.Fprintf(w, "Path:             %s\n", p.Path)
	fmt.Fprintf(w, "Directory:        %s\n", existsWord(p.DirectoryExists()))
	fmt.Fprintf(w, "History Entries:  %d\n", p.HistoryCount())
	if last, ok := p.LastAccessed(); ok {
		fmt.Fprintf(w, "Last Accessed:    %s\n", pkgstrings.Truncate(last, displayLenWide))
	}
	fmt.Fprintf(w, "Size Estimate:    %s\n", humanizeBytes(int64(p.SizeEstimate())))
	fmt.Fprintf(w, "Trust Accepted:   %s\n", yesNo(p.TrustDialogAccepted))

	if len(p.MCPServers) > 0 {
		fmt.Fprintf(w, "MCP Servers:      %s\n", joinSortedKeys(p.MCPServers))
	} else {
		fmt.Fprintf(w, "MCP Servers:      -\n")
	}
	if p.EnableAllProjectMCPServers {
		fmt.Fprintf(w, "All MCP Enabled:  yes\n")
	}
	if len(p.EnabledMCPJSONServers) > 0 {
		fmt.Fprintf(w, "Enabled Servers:  %s\n", strings.Join(p.EnabledMCPJSONServers, ", "))
	}
	if len(p.DisabledMCPJSONServers) > 0 {
		fmt.Fprintf(w, "Disabled Servers: %s\n", strings.Join(p.DisabledMCPJSONServers, ", "))
	}
	if len(p.AllowedTools) > 0 {
		fmt.Fprintf(w, "Allowed Tools:    %s\n", strings.Join(p.AllowedTools, ", "))
	}
	if len(p.IgnorePatterns) > 0 {
		fmt.Fprintf(w, "Ignore Patterns:  %d\n", len(p.IgnorePatterns))
	}
	if len(p.MCPContextURIs) > 0 {
		fmt.Fprintf(w, "Context URIs:     %s\n", strings.Join(p.MCPContextURIs, ", "))
	}
	if p.OnboardingSeenCount > 0 {
		fmt.Fprintf(w, "Onboarding Seen:  %d\n", p.OnboardingSeenCount)
	}
	if p.DontCrawlDirectory {
		fmt.Fprintf(w, "Crawling:         disabled\n")
	}
	return nil
}

// FormatBackups renders the snapshot listing, most recent first. The input
// order from the backup manager is preserved.
func FormatBackups(w io.Writer, backups []backup.Backup, format OutputFormat, noHeaders bool) error {
	if len(backups) == 0 {
		fmt.Fprintln(w, "No backups found")
		return nil
	}

	if format == OutputFormatJSON || format == OutputFormatYAML {
		items := make([]backupListItem, 0, len(backups))
		for _, b := range backups {
			item := backupListItem{Name: b.Name, Path: b.Path, Size: b.Size}
			if !b.CreatedAt.IsZero() {
				item.CreatedAt = formatTimestamp(b.CreatedAt)
			}
			items = append(items, item)
		}
		if format == OutputFormatJSON {
			return outputJSON(w, items)
		}
		return outputYAML(w, items)
	}

	tw := NewPlainTableWriter(w)
	isWide := format == OutputFormatWide
	if isWide {
		tw.SetHeaders("NAME", "CREATED", "SIZE", "PATH")
	} else {
		tw.SetHeaders("NAME", "CREATED", "SIZE")
	}
	tw.SetNoHeaders(noHeaders)

	for _, b := range backups {
		created := "-"
		if !b.CreatedAt.IsZero() {
			created = formatTimestamp(b.CreatedAt)
		}
		if isWide {
			tw.AppendRow(b.Name, created, humanizeBytes(b.Size), b.Path)
		} else {
			tw.AppendRow(b.Name, created, humanizeBytes(b.Size))
		}
	}

	tw.Render()

	if !noHeaders {
		fmt.Fprintf(w, "\n%s\n", pluralize(len(backups), "backup"))
	}
	return nil
}

// FormatStats renders the aggregate view in a kubectl-describe-like plain
// text format, or as JSON/YAML.
func FormatStats(w io.Writer, stats config.Stats, format OutputFormat) error {
	if format == OutputFormatJSON {
		return outputJSON(w, stats)
	}
	if format == OutputFormatYAML {
		return outputYAML(w, stats)
	}

	fmt.Fprintf(w, "Projects:         %d\n", stats.TotalProjects)
	fmt.Fprintf(w, "History Entries:  %d\n", stats.TotalHistoryEntries)
	fmt.Fprintf(w, "MCP Servers:      %d\n", stats.TotalMCPServers)
	fmt.Fprintf(w, "Config Size:      %s (%d bytes)\n", humanizeBytes(stats.ConfigSizeBytes), stats.ConfigSizeBytes)
	fmt.Fprintf(w, "Startups:         %d\n", stats.NumStartups)
	fmt.Fprintf(w, "First Start:      %s\n", stats.FirstStartTime)
	fmt.Fprintf(w, "Email:            %s\n", stats.UserEmail)
	fmt.Fprintf(w, "Organization:     %s\n", stats.Organization)
	return nil
}

// FormatHistory renders a project's most recent history entries, newest
// first. The index column is the entry's 1-based position in the full
// history, so indexes stay stable while the listing is trimmed by limit.
func FormatHistory(w io.Writer, p project.Project, limit int, format OutputFormat, noHeaders bool) error {
	total := p.HistoryCount()
	if total == 0 {
		fmt.Fprintln(w, "No history entries found")
		return nil
	}
	if limit <= 0 || limit > total {
		limit = total
	}

	items := make([]historyListItem, 0, limit)
	for i := total - 1; i >= total-limit; i-- {
		items = append(items, historyListItem{
			Index:   i + 1,
			Display: p.History[i].Display(),
		})
	}

	if format == OutputFormatJSON {
		return outputJSON(w, items)
	}
	if format == OutputFormatYAML {
		return outputYAML(w, items)
	}

	tw := NewPlainTableWriter(w)
	isWide := format == OutputFormatWide
	tw.SetHeaders("#", "PROMPT")
	tw.SetNoHeaders(noHeaders)

	maxLen := displayLenNormal
	if isWide {
		maxLen = displayLenWide
	}
	for _, item := range items {
		tw.AppendRow(fmt.Sprintf("%d", item.Index), pkgstrings.Truncate(item.Display, maxLen))
	}

	tw.Render()

	if !noHeaders {
		fmt.Fprintf(w, "\nshowing %d of %s\n", len(items), pluralize(total, "entry"))
	}
	return nil
}

// FormatMCPServers renders a project's MCP server definitions sorted by
// name. The configuration column is the server's JSON blob on one line.
func FormatMCPServers(w io.Writer, p project.Project, format OutputFormat, noHeaders bool) error {
	if len(p.MCPServers) == 0 {
		fmt.Fprintln(w, "No MCP servers found")
		return nil
	}

	if format == OutputFormatJSON {
		return outputJSON(w, p.MCPServers)
	}
	if format == OutputFormatYAML {
		return outputYAML(w, p.MCPServers)
	}

	names := make([]string, 0, len(p.MCPServers))
	for name := range p.MCPServers {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := NewPlainTableWriter(w)
	isWide := format == OutputFormatWide
	tw.SetHeaders("NAME", "CONFIGURATION")
	tw.SetNoHeaders(noHeaders)

	maxLen := displayLenNormal
	if isWide {
		maxLen = displayLenWide
	}
	for _, name := range names {
		tw.AppendRow(name, pkgstrings.Truncate(compactJSON(p.MCPServers[name]), maxLen))
	}

	tw.Render()

	if !noHeaders {
		fmt.Fprintf(w, "\n%s\n", pluralize(len(names), "server"))
	}
	return nil
}

// FormatAnalysis renders the health report grouped by finding, then a
// one-line summary.
func FormatAnalysis(w io.Writer, a project.Analysis, format OutputFormat) error {
	if format == OutputFormatJSON {
		return outputJSON(w, a)
	}
	if format == OutputFormatYAML {
		return outputYAML(w, a)
	}

	if a.Issues() == 0 {
		fmt.Fprintln(w, "No issues found")
	}

	writeSection(w, "Projects with missing directories", a.MissingDirectory)
	writeSection(w, "Projects with no history", a.NoHistory)

	if len(a.LargeHistory) > 0 {
		entries := make([]string, 0, len(a.LargeHistory))
		for _, ref := range a.LargeHistory {
			entries = append(entries, fmt.Sprintf("%s (%s)", ref.Path, pluralize(ref.Count, "entry")))
		}
		writeSection(w, fmt.Sprintf("Projects with more than %d history entries", project.LargeHistoryThreshold), entries)
	}

	writeSection(w, "Projects not yet trusted", a.NotTrusted)

	fmt.Fprintf(w, "%s, %s, ~%s estimated\n",
		pluralize(a.TotalProjects, "project"),
		pluralize(a.TotalHistoryEntries, "history entry"),
		humanizeBytes(int64(a.TotalSizeEstimate)))
	return nil
}

// writeSection prints one analysis group capped at sectionCap entries.
func writeSection(w io.Writer, title string, entries []string) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(w, "%s (%d):\n", title, len(entries))
	for i, entry := range entries {
		if i == sectionCap {
			fmt.Fprintf(w, "  ... and %d more\n", len(entries)-sectionCap)
			break
		}
		fmt.Fprintf(w, "  %s\n", entry)
	}
	fmt.Fprintln(w)
}

// compactJSON renders any JSON-decoded value as a single line.
func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// joinSortedKeys lists map keys in sorted order for stable display.
func joinSortedKeys(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("%d (%s)", len(keys), strings.Join(keys, ", "))
}

// humanizeBytes renders a byte count with a binary unit suffix.
func humanizeBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// formatTimestamp renders a local timestamp for table cells.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func existsWord(b bool) string {
	if b {
		return "exists"
	}
	return "missing"
}
