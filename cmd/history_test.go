package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"claudecfg/internal/config"
)

// projectHistory pulls one project's history array out of the config file.
func projectHistory(t *testing.T, configPath, projectPath string) []any {
	t.Helper()
	decoded := readConfigFile(t, configPath)
	projects, ok := decoded["projects"].(map[string]any)
	if !ok {
		t.Fatalf("Config file has no projects object: %v", decoded)
	}
	entry, ok := projects[projectPath].(map[string]any)
	if !ok {
		t.Fatalf("Project %s missing from config file", projectPath)
	}
	history, ok := entry["history"].([]any)
	if !ok {
		t.Fatalf("Project %s has no history array", projectPath)
	}
	return history
}

func TestHistoryShowCommand(t *testing.T) {
	setupHome(t, twoProjectConfig)

	out, err := executeCommand(t, "history", "show", "/home/dev/alpha")
	if err != nil {
		t.Fatalf("history show failed: %v", err)
	}

	if !strings.Contains(out, "third prompt") || !strings.Contains(out, "first prompt") {
		t.Errorf("Expected all prompts in output, got: %q", out)
	}
	// Newest first.
	if strings.Index(out, "third prompt") > strings.Index(out, "first prompt") {
		t.Errorf("Expected the newest entry first, got: %q", out)
	}
	if !strings.Contains(out, "showing 3 of 3 entries") {
		t.Errorf("Expected the summary line, got: %q", out)
	}
}

func TestHistoryShowCommand_Limit(t *testing.T) {
	setupHome(t, twoProjectConfig)

	out, err := executeCommand(t, "history", "show", "/home/dev/alpha", "--limit", "2")
	if err != nil {
		t.Fatalf("history show failed: %v", err)
	}

	if strings.Contains(out, "first prompt") {
		t.Errorf("Expected the oldest entry to be trimmed, got: %q", out)
	}
	if !strings.Contains(out, "showing 2 of 3 entries") {
		t.Errorf("Expected the summary line, got: %q", out)
	}
}

func TestHistoryShowCommand_JSON(t *testing.T) {
	setupHome(t, twoProjectConfig)

	out, err := executeCommand(t, "history", "show", "/home/dev/alpha", "-o", "json")
	if err != nil {
		t.Fatalf("history show failed: %v", err)
	}

	var items []map[string]any
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(items))
	}
	if items[0]["display"] != "third prompt" {
		t.Errorf("Expected the newest entry first, got %v", items[0]["display"])
	}
	if items[0]["index"] != float64(3) {
		t.Errorf("Expected index 3 for the newest entry, got %v", items[0]["index"])
	}
}

func TestHistoryShowCommand_NotFound(t *testing.T) {
	setupHome(t, twoProjectConfig)

	_, err := executeCommand(t, "history", "show", "/no/such/project")
	if err == nil {
		t.Fatal("Expected an error for an untracked project")
	}

	var notFound *config.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected NotFoundError, got %T: %v", err, err)
	}
	if notFound.What != "project" {
		t.Errorf("Expected What to be 'project', got %q", notFound.What)
	}
}

func TestHistoryClearCommand(t *testing.T) {
	path := setupHome(t, twoProjectConfig)

	out, err := executeCommand(t, "history", "clear", "/home/dev/alpha", "--yes")
	if err != nil {
		t.Fatalf("history clear failed: %v", err)
	}
	if !strings.Contains(out, "Cleared 3 history entry(s) for /home/dev/alpha") {
		t.Errorf("Expected success message, got: %q", out)
	}

	if got := projectHistory(t, path, "/home/dev/alpha"); len(got) != 0 {
		t.Errorf("Expected an empty history, got %v", got)
	}
	// Untouched keys survive the rewrite.
	decoded := readConfigFile(t, path)
	projects := decoded["projects"].(map[string]any)
	alpha := projects["/home/dev/alpha"].(map[string]any)
	if tools, ok := alpha["allowedTools"].([]any); !ok || len(tools) != 1 || tools[0] != "Bash" {
		t.Errorf("Expected allowedTools to survive, got %v", alpha["allowedTools"])
	}
	if got := projectHistory(t, path, "/home/dev/beta"); len(got) != 1 {
		t.Errorf("Expected the other project untouched, got %v", got)
	}
	if got := countBackups(t); got != 1 {
		t.Errorf("Expected a pre-save backup, got %d", got)
	}
}

func TestHistoryClearCommand_Empty(t *testing.T) {
	setupHome(t, `{"projects": {"/home/dev/bare": {}}}`)

	out, err := executeCommand(t, "history", "clear", "/home/dev/bare", "--yes")
	if err != nil {
		t.Fatalf("history clear failed: %v", err)
	}
	if !strings.Contains(out, "No history entries found") {
		t.Errorf("Expected the empty message, got: %q", out)
	}
	if got := countBackups(t); got != 0 {
		t.Errorf("Expected no save without entries, got %d backup(s)", got)
	}
}

func TestHistoryKeepCommand(t *testing.T) {
	path := setupHome(t, twoProjectConfig)

	out, err := executeCommand(t, "history", "keep", "/home/dev/alpha", "1")
	if err != nil {
		t.Fatalf("history keep failed: %v", err)
	}
	if !strings.Contains(out, "Removed 2 history entry(s) for /home/dev/alpha, 1 kept") {
		t.Errorf("Expected success message, got: %q", out)
	}

	history := projectHistory(t, path, "/home/dev/alpha")
	if len(history) != 1 {
		t.Fatalf("Expected 1 entry left, got %d", len(history))
	}
	entry := history[0].(map[string]any)
	if entry["display"] != "third prompt" {
		t.Errorf("Expected the most recent entry to survive, got %v", entry["display"])
	}
}

func TestHistoryKeepCommand_NothingToTrim(t *testing.T) {
	setupHome(t, twoProjectConfig)

	out, err := executeCommand(t, "history", "keep", "/home/dev/alpha", "5")
	if err != nil {
		t.Fatalf("history keep failed: %v", err)
	}
	if !strings.Contains(out, "History already within 5 entries, nothing to trim") {
		t.Errorf("Expected the no-op message, got: %q", out)
	}
	if got := countBackups(t); got != 0 {
		t.Errorf("Expected no save on a no-op, got %d backup(s)", got)
	}
}

func TestHistoryKeepCommand_InvalidCount(t *testing.T) {
	setupHome(t, twoProjectConfig)

	_, err := executeCommand(t, "history", "keep", "/home/dev/alpha", "abc")
	if err == nil {
		t.Fatal("Expected an error for a non-numeric count")
	}
	if !strings.Contains(err.Error(), "invalid count") {
		t.Errorf("Expected the invalid count message, got: %v", err)
	}
}
