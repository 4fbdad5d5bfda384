package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claudecfg/internal/backup"
	"claudecfg/internal/config"
	"claudecfg/internal/project"
)

func testProjects(t *testing.T) map[string]project.Project {
	t.Helper()
	existing := t.TempDir()
	ghost := filepath.Join(t.TempDir(), "gone")

	return map[string]project.Project{
		existing: {
			Path: existing,
			History: []project.HistoryEntry{
				{"display": "fix the flaky test"},
				{"display": "add retry logic to the fetcher"},
			},
			MCPServers:          map[string]any{"filesystem": map[string]any{"command": "mcp-fs"}},
			TrustDialogAccepted: true,
			AllowedTools:        []string{"Bash", "Edit"},
		},
		ghost: {
			Path: ghost,
		},
	}
}

func TestFormatProjects_Table(t *testing.T) {
	projects := testProjects(t)

	var buf bytes.Buffer
	require.NoError(t, FormatProjects(&buf, projects, OutputFormatTable, false))
	out := buf.String()

	assert.Contains(t, out, "PATH")
	assert.Contains(t, out, "HISTORY")
	assert.Contains(t, out, "EXISTS")
	for path := range projects {
		assert.Contains(t, out, path)
	}
	assert.Contains(t, out, "2 projects")
	// One project exists, one does not.
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "no")
}

func TestFormatProjects_NoHeaders(t *testing.T) {
	projects := testProjects(t)

	var buf bytes.Buffer
	require.NoError(t, FormatProjects(&buf, projects, OutputFormatTable, true))
	out := buf.String()

	assert.NotContains(t, out, "PATH")
	assert.NotContains(t, out, "2 projects")
	assert.Len(t, strings.Split(strings.TrimRight(out, "\n"), "\n"), 2)
}

func TestFormatProjects_Wide(t *testing.T) {
	projects := testProjects(t)

	var buf bytes.Buffer
	require.NoError(t, FormatProjects(&buf, projects, OutputFormatWide, false))
	out := buf.String()

	assert.Contains(t, out, "SIZE")
	assert.Contains(t, out, "TRUSTED")
	assert.Contains(t, out, "TOOLS")
}

func TestFormatProjects_JSON(t *testing.T) {
	projects := testProjects(t)

	var buf bytes.Buffer
	require.NoError(t, FormatProjects(&buf, projects, OutputFormatJSON, false))

	var items []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 2)

	// Sorted by path.
	paths := []string{items[0]["path"].(string), items[1]["path"].(string)}
	assert.True(t, paths[0] < paths[1])

	for _, item := range items {
		if item["historyCount"].(float64) == 2 {
			assert.Equal(t, "add retry logic to the fetcher", item["lastAccessed"])
			assert.Equal(t, true, item["trusted"])
			assert.Equal(t, float64(1), item["mcpServers"])
		}
	}
}

func TestFormatProjects_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatProjects(&buf, nil, OutputFormatTable, false))
	assert.Equal(t, "No projects found\n", buf.String())
}

func TestFormatProjectDetail_Table(t *testing.T) {
	dir := t.TempDir()
	p := project.Project{
		Path:                dir,
		History:             []project.HistoryEntry{{"display": "refactor the config loader"}},
		MCPServers:          map[string]any{"github": map[string]any{}, "filesystem": map[string]any{}},
		AllowedTools:        []string{"Bash"},
		TrustDialogAccepted: true,
		DontCrawlDirectory:  true,
	}

	var buf bytes.Buffer
	require.NoError(t, FormatProjectDetail(&buf, p, OutputFormatTable))
	out := buf.String()

	assert.Contains(t, out, "Path:             "+dir)
	assert.Contains(t, out, "Directory:        exists")
	assert.Contains(t, out, "History Entries:  1")
	assert.Contains(t, out, "Last Accessed:    refactor the config loader")
	assert.Contains(t, out, "Trust Accepted:   yes")
	assert.Contains(t, out, "MCP Servers:      2 (filesystem, github)")
	assert.Contains(t, out, "Allowed Tools:    Bash")
	assert.Contains(t, out, "Crawling:         disabled")
	// Empty optional fields stay silent.
	assert.NotContains(t, out, "Ignore Patterns")
	assert.NotContains(t, out, "Onboarding Seen")
}

func TestFormatProjectDetail_JSONEmitsRawForm(t *testing.T) {
	p := project.Project{
		Path:         "/home/dev/alpha",
		AllowedTools: []string{"Bash"},
	}

	var buf bytes.Buffer
	require.NoError(t, FormatProjectDetail(&buf, p, OutputFormatJSON))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.Equal(t, []any{"Bash"}, raw["allowedTools"])
	assert.Contains(t, raw, "history")
	assert.Contains(t, raw, "mcpServers")
	// The path is the lookup key, not part of the stored object.
	assert.NotContains(t, raw, "path")
}

func TestFormatBackups_Table(t *testing.T) {
	backups := []backup.Backup{
		{
			Name:      "claude_20250102_090000_000000.json",
			Path:      "/backups/claude_20250102_090000_000000.json",
			Size:      2048,
			CreatedAt: time.Date(2025, 1, 2, 9, 0, 0, 0, time.Local),
		},
		{
			Name: "claude_manual-copy.json",
			Path: "/backups/claude_manual-copy.json",
			Size: 100,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, FormatBackups(&buf, backups, OutputFormatTable, false))
	out := buf.String()

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "claude_20250102_090000_000000.json")
	assert.Contains(t, out, "2025-01-02 09:00:00")
	assert.Contains(t, out, "2.0 KiB")
	assert.Contains(t, out, "2 backups")

	// Unknown creation time renders as a dash.
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "claude_manual-copy.json") {
			assert.Equal(t, []string{"claude_manual-copy.json", "-", "100", "B"}, strings.Fields(line))
			return
		}
	}
	t.Fatal("manual copy row not found")
}

func TestFormatBackups_JSON(t *testing.T) {
	backups := []backup.Backup{
		{Name: "claude_manual-copy.json", Path: "/b/claude_manual-copy.json", Size: 10},
	}

	var buf bytes.Buffer
	require.NoError(t, FormatBackups(&buf, backups, OutputFormatJSON, false))

	var items []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 1)
	assert.NotContains(t, items[0], "createdAt")
	assert.Equal(t, float64(10), items[0]["size"])
}

func TestFormatBackups_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatBackups(&buf, nil, OutputFormatTable, false))
	assert.Equal(t, "No backups found\n", buf.String())
}

func TestFormatStats(t *testing.T) {
	stats := config.Stats{
		TotalProjects:       3,
		TotalHistoryEntries: 120,
		TotalMCPServers:     4,
		ConfigSizeBytes:     12800,
		NumStartups:         42,
		FirstStartTime:      "2024-01-15T10:30:00Z",
		UserEmail:           "dev@example.com",
		Organization:        "Example Org",
	}

	var buf bytes.Buffer
	require.NoError(t, FormatStats(&buf, stats, OutputFormatTable))
	out := buf.String()

	assert.Contains(t, out, "Projects:         3")
	assert.Contains(t, out, "History Entries:  120")
	assert.Contains(t, out, "Config Size:      12.5 KiB (12800 bytes)")
	assert.Contains(t, out, "Email:            dev@example.com")
}

func TestFormatStats_JSON(t *testing.T) {
	stats := config.Stats{TotalProjects: 1, FirstStartTime: "N/A", UserEmail: "N/A", Organization: "N/A"}

	var buf bytes.Buffer
	require.NoError(t, FormatStats(&buf, stats, OutputFormatJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, float64(1), decoded["totalProjects"])
	assert.Equal(t, "N/A", decoded["userEmail"])
}

func TestFormatHistory(t *testing.T) {
	p := project.Project{
		Path: "/home/dev/alpha",
		History: []project.HistoryEntry{
			{"display": "first"},
			{"display": "second"},
			{"display": "third"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, FormatHistory(&buf, p, 2, OutputFormatTable, false))
	out := buf.String()

	// Newest first, keeping the 1-based position in the full history.
	thirdIdx := strings.Index(out, "third")
	secondIdx := strings.Index(out, "second")
	require.NotEqual(t, -1, thirdIdx)
	require.NotEqual(t, -1, secondIdx)
	assert.Less(t, thirdIdx, secondIdx)
	assert.NotContains(t, out, "first")
	assert.Contains(t, out, "showing 2 of 3 entries")
}

func TestFormatHistory_JSON(t *testing.T) {
	p := project.Project{
		Path:    "/home/dev/alpha",
		History: []project.HistoryEntry{{"display": "one"}, {"display": "two"}},
	}

	var buf bytes.Buffer
	require.NoError(t, FormatHistory(&buf, p, 0, OutputFormatJSON, false))

	var items []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, float64(2), items[0]["index"])
	assert.Equal(t, "two", items[0]["display"])
}

func TestFormatHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatHistory(&buf, project.Project{Path: "/p"}, 10, OutputFormatTable, false))
	assert.Equal(t, "No history entries found\n", buf.String())
}

func TestFormatMCPServers(t *testing.T) {
	p := project.Project{
		Path: "/home/dev/alpha",
		MCPServers: map[string]any{
			"zeta":  map[string]any{"command": "z"},
			"alpha": map[string]any{"command": "a"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, FormatMCPServers(&buf, p, OutputFormatTable, false))
	out := buf.String()

	// Sorted by name.
	assert.Less(t, strings.Index(out, "alpha"), strings.Index(out, "zeta"))
	assert.Contains(t, out, `{"command":"a"}`)
	assert.Contains(t, out, "2 servers")
}

func TestFormatMCPServers_JSON(t *testing.T) {
	p := project.Project{
		Path:       "/home/dev/alpha",
		MCPServers: map[string]any{"fs": map[string]any{"command": "mcp-fs"}},
	}

	var buf bytes.Buffer
	require.NoError(t, FormatMCPServers(&buf, p, OutputFormatJSON, false))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "fs")
}

func TestFormatAnalysis(t *testing.T) {
	missing := make([]string, 12)
	for i := range missing {
		missing[i] = fmt.Sprintf("/gone/%02d", i)
	}
	a := project.Analysis{
		TotalProjects:       14,
		TotalHistoryEntries: 80,
		TotalSizeEstimate:   4096,
		MissingDirectory:    missing,
		NoHistory:           []string{"/fresh"},
		LargeHistory:        []project.HistoryRef{{Path: "/busy", Count: 75}},
	}

	var buf bytes.Buffer
	require.NoError(t, FormatAnalysis(&buf, a, OutputFormatTable))
	out := buf.String()

	assert.Contains(t, out, "Projects with missing directories (12):")
	assert.Contains(t, out, "... and 2 more")
	assert.Contains(t, out, "Projects with no history (1):")
	assert.Contains(t, out, "/busy (75 entries)")
	assert.Contains(t, out, "14 projects, 80 history entries, ~4.0 KiB estimated")
	assert.NotContains(t, out, "No issues found")
}

func TestFormatAnalysis_Clean(t *testing.T) {
	a := project.Analysis{TotalProjects: 2, TotalHistoryEntries: 5, TotalSizeEstimate: 100}

	var buf bytes.Buffer
	require.NoError(t, FormatAnalysis(&buf, a, OutputFormatTable))
	out := buf.String()

	assert.Contains(t, out, "No issues found")
	assert.Contains(t, out, "2 projects, 5 history entries, ~100 B estimated")
}

func TestHumanizeBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{5 * 1024 * 1024 * 1024, "5.0 GiB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, humanizeBytes(tt.n))
	}
}
