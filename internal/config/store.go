package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"claudecfg/internal/backup"
	"claudecfg/internal/project"
	"claudecfg/pkg/logging"
)

// Top-level keys of the configuration object that the store interprets.
// Everything else is carried through load and save untouched.
const (
	keyProjects       = "projects"
	keyNumStartups    = "numStartups"
	keyFirstStartTime = "firstStartTime"
	keyOAuthAccount   = "oauthAccount"
	keyEmailAddress   = "emailAddress"
	keyOrganization   = "organizationName"
)

// statFallback is reported for metadata string fields the file does not
// carry.
const statFallback = "N/A"

// Hooks for the save pipeline, swapped in tests to inject failures.
var (
	marshalConfig = func(v any) ([]byte, error) {
		return json.MarshalIndent(v, "", "  ")
	}
	validateConfig = func(data []byte) error {
		var v any
		return json.Unmarshal(data, &v)
	}
)

// Stats is the read-only aggregate view over the configuration.
type Stats struct {
	TotalProjects       int    `json:"totalProjects" yaml:"totalProjects"`
	TotalHistoryEntries int    `json:"totalHistoryEntries" yaml:"totalHistoryEntries"`
	TotalMCPServers     int    `json:"totalMcpServers" yaml:"totalMcpServers"`
	ConfigSizeBytes     int64  `json:"configSizeBytes" yaml:"configSizeBytes"`
	NumStartups         int    `json:"numStartups" yaml:"numStartups"`
	FirstStartTime      string `json:"firstStartTime" yaml:"firstStartTime"`
	UserEmail           string `json:"userEmail" yaml:"userEmail"`
	Organization        string `json:"organization" yaml:"organization"`
}

// Store owns the configuration file: loading it, interpreting its projects
// object, and writing it back atomically. The raw top-level object is kept
// as parsed, so keys the store does not interpret survive a load and save
// cycle byte-meaning intact.
//
// A Store serializes its own operations with an internal lock, but it does
// not lock the file against other processes. External modification is the
// Watcher's concern.
type Store struct {
	mu      sync.RWMutex
	path    string
	data    map[string]any
	backups *backup.Manager
}

// NewStore returns a Store for the configuration file at path, with
// snapshots going to backupDir under the default retention policy.
func NewStore(path, backupDir string) *Store {
	return &Store{
		path:    path,
		data:    map[string]any{},
		backups: backup.NewManager(path, backupDir, backup.DefaultKeep),
	}
}

// NewDefaultStore resolves the per-user default locations, honoring the
// CLAUDECFG_CONFIG environment override for the configuration file.
func NewDefaultStore() (*Store, error) {
	path, err := ResolveConfigPath("")
	if err != nil {
		return nil, err
	}
	backupDir, err := DefaultBackupDir()
	if err != nil {
		return nil, err
	}
	return NewStore(path, backupDir), nil
}

// ConfigPath returns the configuration file location.
func (s *Store) ConfigPath() string { return s.path }

// BackupDir returns the backup directory location.
func (s *Store) BackupDir() string { return s.backups.Dir() }

// Load reads and parses the configuration file, replacing all in-memory
// state. On any failure the in-memory state is reset to empty and the
// failure is reported as a NotFoundError, ParseError, ShapeError, or
// IOError.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = map[string]any{}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &NotFoundError{Path: s.path, What: "configuration file"}
		}
		return &IOError{Op: "read", Path: s.path, Err: err}
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ParseError{Path: s.path, Err: err}
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		return &ShapeError{Path: s.path, Kind: jsonKind(parsed)}
	}

	s.data = obj
	logging.Info("Store", "Loaded configuration from %s", s.path)
	return nil
}

// Save persists the in-memory configuration. When createBackup is true a
// snapshot of the current on-disk file is taken first; a failed snapshot
// is logged and the save still proceeds. Use SaveStrict when the save must
// not happen without one.
func (s *Store) Save(createBackup bool) error {
	if createBackup {
		if _, err := s.CreateBackup(); err != nil {
			logging.Warn("Store", "Backup before save failed: %v; saving anyway", err)
		}
	}
	return s.persist()
}

// SaveStrict persists the in-memory configuration only after a snapshot of
// the current on-disk file succeeds.
func (s *Store) SaveStrict() error {
	if _, err := s.CreateBackup(); err != nil {
		return err
	}
	return s.persist()
}

// persist writes the configuration through a temporary file in the target
// directory. The temporary file is re-read and parsed before it replaces
// the live file, so a failure at any step leaves the previous contents
// untouched and no temporary file behind.
func (s *Store) persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := marshalConfig(s.data)
	if err != nil {
		return &WriteError{Path: s.path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".claude-*.tmp")
	if err != nil {
		return &WriteError{Path: s.path, Err: err}
	}
	tmpName := tmp.Name()
	success := false
	defer func() {
		if !success {
			if err := os.Remove(tmpName); err != nil && !errors.Is(err, os.ErrNotExist) {
				logging.Warn("Store", "Failed to remove temporary file %s: %v", tmpName, err)
			}
		}
	}()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return &WriteError{Path: s.path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &WriteError{Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &WriteError{Path: s.path, Err: err}
	}

	written, err := os.ReadFile(tmpName)
	if err != nil {
		return &WriteError{Path: s.path, Err: err}
	}
	if err := validateConfig(written); err != nil {
		return &WriteError{Path: s.path, Err: fmt.Errorf("temporary file failed validation: %w", err)}
	}

	if err := os.Chmod(tmpName, 0644); err != nil {
		return &WriteError{Path: s.path, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return &WriteError{Path: s.path, Err: err}
	}
	success = true
	logging.Info("Store", "Saved configuration to %s", s.path)
	return nil
}

// Projects returns every tracked project keyed by path. Entries whose
// value is not an object decode as all-defaults projects rather than
// failing the whole listing.
func (s *Store) Projects() map[string]project.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, _ := s.data[keyProjects].(map[string]any)
	out := make(map[string]project.Project, len(raw))
	for path, entry := range raw {
		m, _ := entry.(map[string]any)
		out[path] = project.FromRaw(path, m)
	}
	return out
}

// Project returns one tracked project and whether it exists.
func (s *Store) Project(path string) (project.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, _ := s.data[keyProjects].(map[string]any)
	entry, ok := raw[path]
	if !ok {
		return project.Project{}, false
	}
	m, _ := entry.(map[string]any)
	return project.FromRaw(path, m), true
}

// UpdateProject inserts or replaces the entry for p.Path. The change is
// in-memory only until Save.
func (s *Store) UpdateProject(p project.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.data[keyProjects].(map[string]any)
	if !ok {
		raw = map[string]any{}
		s.data[keyProjects] = raw
	}
	raw[p.Path] = p.ToRaw()
}

// RemoveProject deletes the entry for path and reports whether it existed.
// Removal is keyed on the entry, not the directory: an entry whose
// directory is long gone still removes cleanly. The change is in-memory
// only until Save.
func (s *Store) RemoveProject(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.data[keyProjects].(map[string]any)
	if !ok {
		return false
	}
	if _, ok := raw[path]; !ok {
		return false
	}
	delete(raw, path)
	logging.Info("Store", "Removed project %s", path)
	return true
}

// Stats aggregates counts across all projects plus the metadata fields the
// file carries at top level. Missing string metadata reports "N/A" and
// missing numeric metadata reports zero.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		FirstStartTime: statFallback,
		UserEmail:      statFallback,
		Organization:   statFallback,
	}

	raw, _ := s.data[keyProjects].(map[string]any)
	for path, entry := range raw {
		m, _ := entry.(map[string]any)
		p := project.FromRaw(path, m)
		stats.TotalProjects++
		stats.TotalHistoryEntries += p.HistoryCount()
		stats.TotalMCPServers += len(p.MCPServers)
	}

	stats.NumStartups = asInt(s.data[keyNumStartups])
	if v := asString(s.data[keyFirstStartTime]); v != "" {
		stats.FirstStartTime = v
	}
	if account, ok := s.data[keyOAuthAccount].(map[string]any); ok {
		if v := asString(account[keyEmailAddress]); v != "" {
			stats.UserEmail = v
		}
		if v := asString(account[keyOrganization]); v != "" {
			stats.Organization = v
		}
	}

	if info, err := os.Stat(s.path); err == nil {
		stats.ConfigSizeBytes = info.Size()
	}
	return stats
}

// CreateBackup snapshots the current on-disk configuration file and
// returns the snapshot path.
func (s *Store) CreateBackup() (string, error) {
	path, err := s.backups.Create()
	if err != nil {
		if errors.Is(err, backup.ErrNoSource) {
			return "", &NotFoundError{Path: s.path, What: "configuration file"}
		}
		return "", &IOError{Op: "backup", Path: s.path, Err: err}
	}
	return path, nil
}

// Backups lists known snapshots, most recent first.
func (s *Store) Backups() ([]backup.Backup, error) {
	list, err := s.backups.List()
	if err != nil {
		return nil, &IOError{Op: "list backups in", Path: s.backups.Dir(), Err: err}
	}
	return list, nil
}

// PruneBackups applies the retention policy, keeping the keep most recent
// snapshots. A keep of zero or less selects the default retention.
func (s *Store) PruneBackups(keep int) error {
	if err := s.backups.Rotate(keep); err != nil {
		return &IOError{Op: "prune backups in", Path: s.backups.Dir(), Err: err}
	}
	return nil
}

// DeleteBackup removes one snapshot by path.
func (s *Store) DeleteBackup(path string) error {
	if err := s.backups.Delete(path); err != nil {
		if errors.Is(err, backup.ErrNotFound) {
			return &NotFoundError{Path: path, What: "backup"}
		}
		return &IOError{Op: "delete backup", Path: path, Err: err}
	}
	return nil
}

// RestoreFromBackup copies the snapshot at backupPath over the live
// configuration file and reloads the store from it. The overwritten state
// is not snapshotted first; see Manager.Restore.
func (s *Store) RestoreFromBackup(backupPath string) error {
	if err := s.backups.Restore(backupPath); err != nil {
		if errors.Is(err, backup.ErrNotFound) {
			return &NotFoundError{Path: backupPath, What: "backup"}
		}
		return &IOError{Op: "restore", Path: backupPath, Err: err}
	}
	return s.Load()
}

// jsonKind names the JSON value class of a decoded value for messages.
func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "bool"
	case float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asInt accepts the numeric types a decoded JSON document or test fixture
// can carry.
func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	default:
		return 0
	}
}
