// Package logging provides a structured logging system for claudecfg with
// unified log handling and level filtering.
//
// The package is a thin layer over Go's standard slog package. Every log
// entry carries a subsystem identifier so output can be filtered by the
// component that produced it:
//
//	import "claudecfg/pkg/logging"
//
//	// Initialize with Info level logging to stderr
//	logging.Init(logging.LevelInfo, os.Stderr)
//
//	// Log messages
//	logging.Info("Store", "Loaded configuration from %s", configPath)
//	logging.Debug("Backup", "Deleted old backup %s", path)
//	logging.Warn("Store", "Backup before save failed, saving anyway")
//	logging.Error("Watcher", err, "Filesystem watcher error")
//
// Subsystems used throughout claudecfg:
//
//   - **Store**: configuration loading, saving, and mutation
//   - **Backup**: snapshot creation, rotation, and restore
//   - **Watcher**: filesystem change detection
//
// Level filtering happens at the handler, so messages below the configured
// minimum cost no allocations. The logger is safe for concurrent use from
// multiple goroutines.
package logging
