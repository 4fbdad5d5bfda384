package config

import (
	"os"
	"path/filepath"
)

const (
	// defaultConfigFileName is the per-user configuration file in $HOME.
	defaultConfigFileName = ".claude.json"
	// defaultBackupDirName is the per-user backup directory in $HOME.
	defaultBackupDirName = ".claude_backups"

	// EnvConfigPath overrides the default configuration file location.
	// An explicit --config flag takes precedence over the environment.
	EnvConfigPath = "CLAUDECFG_CONFIG"
)

// osUserHomeDir is a variable for testing purposes
var osUserHomeDir = os.UserHomeDir

// DefaultConfigPath returns the per-user configuration file path,
// ~/.claude.json.
func DefaultConfigPath() (string, error) {
	home, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, defaultConfigFileName), nil
}

// DefaultBackupDir returns the per-user backup directory, ~/.claude_backups.
func DefaultBackupDir() (string, error) {
	home, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, defaultBackupDirName), nil
}

// ResolveConfigPath picks the configuration file location from, in order
// of precedence: the explicit override, the CLAUDECFG_CONFIG environment
// variable, and the per-user default.
func ResolveConfigPath(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env, nil
	}
	return DefaultConfigPath()
}
