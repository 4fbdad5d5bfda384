package backup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"claudecfg/pkg/logging"
)

// DefaultKeep is the number of snapshots the retention policy keeps.
const DefaultKeep = 10

// filePrefix and fileExt frame every snapshot filename. The timestamp
// between them is what makes lexicographic order match creation order.
const (
	filePrefix = "claude_"
	fileExt    = ".json"
)

// timestampLayout is the filename timestamp at second resolution. Current
// snapshots append an underscore and six microsecond digits; names without
// the microsecond field (an older format) are still recognized.
const timestampLayout = "20060102_150405"

// ErrNoSource reports that there is no configuration file to snapshot.
var ErrNoSource = errors.New("configuration file does not exist")

// ErrNotFound reports that the requested backup file does not exist.
var ErrNotFound = errors.New("backup file does not exist")

// Backup describes one snapshot in the backup directory.
type Backup struct {
	// Path is the location of the snapshot file.
	Path string `json:"path" yaml:"path"`
	// Name is the snapshot filename.
	Name string `json:"name" yaml:"name"`
	// Size is the snapshot size in bytes.
	Size int64 `json:"size" yaml:"size"`
	// CreatedAt is parsed from the filename. It is the zero time when the
	// name does not carry a recognized timestamp.
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// Manager owns the backup directory for one configuration file. It creates
// timestamped snapshots, applies the retention policy, and copies a
// snapshot back over the live file on restore.
//
// Snapshot names embed the creation instant with microsecond resolution.
// Two snapshots requested within the same microsecond produce the same
// name and the second overwrites the first; rotation makes that collision
// harmless, so it is accepted rather than guarded.
type Manager struct {
	sourcePath string
	dir        string
	keep       int

	// now is a variable so tests can pin snapshot timestamps.
	now func() time.Time

	// createGroup deduplicates concurrent snapshot requests; callers that
	// overlap share one snapshot instead of racing on the same filename.
	createGroup singleflight.Group
}

// NewManager returns a Manager that snapshots sourcePath into dir and
// retains keep snapshots on rotation. A keep of zero or less selects
// DefaultKeep. The directory is created lazily on the first snapshot.
func NewManager(sourcePath, dir string, keep int) *Manager {
	if keep <= 0 {
		keep = DefaultKeep
	}
	return &Manager{
		sourcePath: sourcePath,
		dir:        dir,
		keep:       keep,
		now:        time.Now,
	}
}

// Dir returns the backup directory.
func (m *Manager) Dir() string { return m.dir }

// Source returns the configuration file the manager snapshots.
func (m *Manager) Source() string { return m.sourcePath }

// Create snapshots the configuration file and returns the path of the new
// snapshot. It fails with ErrNoSource when the configuration file does not
// exist. Every successful snapshot triggers rotation; a rotation failure
// is logged and does not void the snapshot that was just written.
// Concurrent calls are deduplicated and return the same snapshot path.
func (m *Manager) Create() (string, error) {
	result, err, _ := m.createGroup.Do(m.sourcePath, func() (interface{}, error) {
		return m.create()
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// create performs the actual snapshot.
func (m *Manager) create() (string, error) {
	if _, err := os.Stat(m.sourcePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoSource
		}
		return "", fmt.Errorf("stat %s: %w", m.sourcePath, err)
	}

	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return "", fmt.Errorf("create backup directory %s: %w", m.dir, err)
	}

	target := filepath.Join(m.dir, m.filename(m.now()))
	if err := copyFile(m.sourcePath, target); err != nil {
		return "", err
	}
	logging.Info("Backup", "Created backup: %s", target)

	if err := m.Rotate(m.keep); err != nil {
		logging.Warn("Backup", "Rotation after backup failed: %v", err)
	}
	return target, nil
}

// filename builds the snapshot name for the given instant.
func (m *Manager) filename(t time.Time) string {
	return fmt.Sprintf("%s%s_%06d%s", filePrefix, t.Format(timestampLayout), t.Nanosecond()/1000, fileExt)
}

// List returns all snapshots in the backup directory, most recent first.
// A missing directory yields an empty list.
func (m *Manager) List() ([]Backup, error) {
	names, err := m.names()
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	backups := make([]Backup, 0, len(names))
	for _, name := range names {
		path := filepath.Join(m.dir, name)
		b := Backup{Path: path, Name: name}
		if t, ok := ParseTimestamp(name); ok {
			b.CreatedAt = t
		}
		if info, err := os.Stat(path); err == nil {
			b.Size = info.Size()
		}
		backups = append(backups, b)
	}
	return backups, nil
}

// Rotate deletes all but the keep most recent snapshots. Snapshots order
// by filename, which orders by creation time. A keep of zero or less
// selects the manager's configured retention. Individual deletions that
// fail are logged and skipped so one stuck file cannot block the rest.
func (m *Manager) Rotate(keep int) error {
	if keep <= 0 {
		keep = m.keep
	}
	names, err := m.names()
	if err != nil {
		return err
	}
	if len(names) <= keep {
		return nil
	}
	sort.Strings(names)

	for _, name := range names[:len(names)-keep] {
		path := filepath.Join(m.dir, name)
		if err := os.Remove(path); err != nil {
			logging.Warn("Backup", "Failed to remove old backup %s: %v", path, err)
			continue
		}
		logging.Debug("Backup", "Removed old backup: %s", path)
	}
	return nil
}

// Restore copies the snapshot at path over the live configuration file.
// The state about to be overwritten is deliberately not snapshotted first:
// restoring from a known-good backup must not be blocked by a failure to
// preserve a possibly corrupt current file.
func (m *Manager) Restore(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := copyFile(path, m.sourcePath); err != nil {
		return err
	}
	logging.Info("Backup", "Restored %s over %s", path, m.sourcePath)
	return nil
}

// Delete removes a single snapshot by path.
func (m *Manager) Delete(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("delete backup %s: %w", path, err)
	}
	logging.Info("Backup", "Deleted backup: %s", path)
	return nil
}

// names returns raw snapshot filenames in directory order.
func (m *Manager) names() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(m.dir, filePrefix+"*"+fileExt))
	if err != nil {
		return nil, fmt.Errorf("list backups in %s: %w", m.dir, err)
	}
	names := make([]string, 0, len(matches))
	for _, match := range matches {
		names = append(names, filepath.Base(match))
	}
	return names, nil
}

// ParseTimestamp extracts the creation instant encoded in a snapshot
// filename. Both the current microsecond format
// (claude_20060102_150405_000000.json) and the older second-resolution
// format (claude_20060102_150405.json) parse; anything else reports false.
func ParseTimestamp(name string) (time.Time, bool) {
	core, ok := strings.CutPrefix(name, filePrefix)
	if !ok {
		return time.Time{}, false
	}
	core, ok = strings.CutSuffix(core, fileExt)
	if !ok {
		return time.Time{}, false
	}

	stamp := core
	micros := 0
	if len(core) > len(timestampLayout) {
		if core[len(timestampLayout)] != '_' {
			return time.Time{}, false
		}
		frac := core[len(timestampLayout)+1:]
		if len(frac) != 6 {
			return time.Time{}, false
		}
		n, err := strconv.Atoi(frac)
		if err != nil || n < 0 {
			return time.Time{}, false
		}
		micros = n
		stamp = core[:len(timestampLayout)]
	}

	t, err := time.ParseInLocation(timestampLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t.Add(time.Duration(micros) * time.Microsecond), true
}

// copyFile copies src to dst byte for byte, carrying over the file mode
// and modification time where the platform allows.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, err)
	}

	if err := os.Chtimes(dst, time.Now(), info.ModTime()); err != nil {
		logging.Debug("Backup", "Could not preserve modification time on %s: %v", dst, err)
	}
	return nil
}
