package project

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manyEntries(n int) []HistoryEntry {
	entries := make([]HistoryEntry, n)
	for i := range entries {
		entries[i] = HistoryEntry{"display": "entry"}
	}
	return entries
}

func TestAnalyze_GroupsFindings(t *testing.T) {
	healthy := t.TempDir()
	busy := t.TempDir()
	ghost := filepath.Join(t.TempDir(), "gone")

	projects := map[string]Project{
		healthy: {
			Path:                healthy,
			History:             []HistoryEntry{{"display": "one"}, {"display": "two"}},
			TrustDialogAccepted: true,
		},
		busy: {
			Path:                busy,
			History:             manyEntries(LargeHistoryThreshold + 1),
			TrustDialogAccepted: true,
		},
		ghost: {
			Path: ghost,
		},
	}

	a := Analyze(projects)

	assert.Equal(t, 3, a.TotalProjects)
	assert.Equal(t, 53, a.TotalHistoryEntries)
	assert.Positive(t, a.TotalSizeEstimate)

	assert.Equal(t, []string{ghost}, a.MissingDirectory)
	assert.Equal(t, []string{ghost}, a.NoHistory)
	assert.Equal(t, []string{ghost}, a.NotTrusted)
	require.Len(t, a.LargeHistory, 1)
	assert.Equal(t, busy, a.LargeHistory[0].Path)
	assert.Equal(t, 51, a.LargeHistory[0].Count)

	assert.Equal(t, 4, a.Issues())
}

func TestAnalyze_ThresholdIsExclusive(t *testing.T) {
	dir := t.TempDir()
	projects := map[string]Project{
		dir: {
			Path:                dir,
			History:             manyEntries(LargeHistoryThreshold),
			TrustDialogAccepted: true,
		},
	}

	a := Analyze(projects)

	assert.Empty(t, a.LargeHistory)
	assert.Equal(t, 0, a.Issues())
}

func TestAnalyze_LargeHistoryOrdering(t *testing.T) {
	base := t.TempDir()
	projects := map[string]Project{
		filepath.Join(base, "b"): {Path: base, History: manyEntries(60), TrustDialogAccepted: true},
		filepath.Join(base, "a"): {Path: base, History: manyEntries(60), TrustDialogAccepted: true},
		filepath.Join(base, "c"): {Path: base, History: manyEntries(90), TrustDialogAccepted: true},
	}

	a := Analyze(projects)

	require.Len(t, a.LargeHistory, 3)
	// Largest history first, ties broken by path.
	assert.Equal(t, filepath.Join(base, "c"), a.LargeHistory[0].Path)
	assert.Equal(t, filepath.Join(base, "a"), a.LargeHistory[1].Path)
	assert.Equal(t, filepath.Join(base, "b"), a.LargeHistory[2].Path)
}

func TestAnalyze_SortsFindingPaths(t *testing.T) {
	base := t.TempDir()
	ghosts := []string{
		filepath.Join(base, "zeta"),
		filepath.Join(base, "alpha"),
		filepath.Join(base, "mid"),
	}
	projects := make(map[string]Project, len(ghosts))
	for _, path := range ghosts {
		projects[path] = Project{Path: path}
	}

	a := Analyze(projects)

	assert.Equal(t, []string{
		filepath.Join(base, "alpha"),
		filepath.Join(base, "mid"),
		filepath.Join(base, "zeta"),
	}, a.MissingDirectory)
}

func TestAnalyze_Empty(t *testing.T) {
	a := Analyze(nil)

	assert.Equal(t, 0, a.TotalProjects)
	assert.Equal(t, 0, a.Issues())
	assert.Empty(t, a.MissingDirectory)
	assert.Empty(t, a.LargeHistory)
}
