package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"claudecfg/internal/config"
)

func TestGetCommand_Table(t *testing.T) {
	setupHome(t, twoProjectConfig)

	out, err := executeCommand(t, "get", "/home/dev/alpha")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	for _, want := range []string{
		"Path:             /home/dev/alpha",
		"History Entries:  3",
		"Last Accessed:    third prompt",
		"Trust Accepted:   yes",
		"MCP Servers:      1 (github)",
		"Allowed Tools:    Bash",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestGetCommand_JSONEmitsStorageObject(t *testing.T) {
	setupHome(t, twoProjectConfig)

	out, err := executeCommand(t, "get", "/home/dev/alpha", "-o", "json")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(out), &raw); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if _, ok := raw["history"]; !ok {
		t.Error("Expected the raw storage key 'history'")
	}
	if _, ok := raw["hasTrustDialogAccepted"]; !ok {
		t.Error("Expected the raw storage key 'hasTrustDialogAccepted'")
	}
}

func TestGetCommand_NotFound(t *testing.T) {
	setupHome(t, twoProjectConfig)

	_, err := executeCommand(t, "get", "/home/dev/ghost")
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
	if getExitCode(err) != ExitCodeNotFound {
		t.Errorf("Expected exit code %d, got %d", ExitCodeNotFound, getExitCode(err))
	}
}

func TestGetCommand_RequiresArg(t *testing.T) {
	setupHome(t, twoProjectConfig)

	_, err := executeCommand(t, "get")
	if err == nil {
		t.Error("Expected an error when no path is given")
	}
}
