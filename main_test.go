package main

import (
	"os"
	"testing"

	"claudecfg/cmd"
)

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

func TestVersionDefault(t *testing.T) {
	if version != "dev" {
		t.Errorf("Expected default version to be 'dev', got %s", version)
	}
}

func TestSetVersion(t *testing.T) {
	originalVersion := version
	defer func() { version = originalVersion }()

	tests := []struct {
		name     string
		setValue string
	}{
		{
			name:     "custom version",
			setValue: "v1.0.0",
		},
		{
			name:     "semantic version",
			setValue: "2.3.4-beta.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version = tt.setValue
			// SetVersion must accept any version string without panicking.
			cmd.SetVersion(version)
			if got := cmd.GetVersion(); got != tt.setValue {
				t.Errorf("Expected version %s, got %s", tt.setValue, got)
			}
		})
	}
}
