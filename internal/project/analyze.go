package project

import "sort"

// LargeHistoryThreshold is the history length past which a project is
// flagged in analysis reports. Entries beyond this point are usually stale
// prompts nobody will scroll back to, and they dominate the file size.
const LargeHistoryThreshold = 50

// HistoryRef pairs a project path with its history size in report entries
// that rank projects by history length.
type HistoryRef struct {
	Path  string `json:"path" yaml:"path"`
	Count int    `json:"count" yaml:"count"`
}

// Analysis is a read-only health report over all tracked projects.
type Analysis struct {
	TotalProjects       int `json:"totalProjects" yaml:"totalProjects"`
	TotalHistoryEntries int `json:"totalHistoryEntries" yaml:"totalHistoryEntries"`
	TotalSizeEstimate   int `json:"totalSizeEstimate" yaml:"totalSizeEstimate"`

	// MissingDirectory lists projects whose directory no longer exists.
	MissingDirectory []string `json:"missingDirectory" yaml:"missingDirectory"`
	// NoHistory lists projects that were tracked but never used.
	NoHistory []string `json:"noHistory" yaml:"noHistory"`
	// LargeHistory lists projects past LargeHistoryThreshold, largest
	// first.
	LargeHistory []HistoryRef `json:"largeHistory" yaml:"largeHistory"`
	// NotTrusted lists projects that never had the trust dialog accepted.
	NotTrusted []string `json:"notTrusted" yaml:"notTrusted"`
}

// Issues reports how many findings the analysis holds across all groups.
func (a Analysis) Issues() int {
	return len(a.MissingDirectory) + len(a.NoHistory) + len(a.LargeHistory) + len(a.NotTrusted)
}

// Analyze inspects every tracked project and groups the findings. The
// directory check hits the filesystem once per project.
func Analyze(projects map[string]Project) Analysis {
	var a Analysis
	for path, p := range projects {
		a.TotalProjects++
		count := p.HistoryCount()
		a.TotalHistoryEntries += count
		a.TotalSizeEstimate += p.SizeEstimate()

		if !p.DirectoryExists() {
			a.MissingDirectory = append(a.MissingDirectory, path)
		}
		if count == 0 {
			a.NoHistory = append(a.NoHistory, path)
		} else if count > LargeHistoryThreshold {
			a.LargeHistory = append(a.LargeHistory, HistoryRef{Path: path, Count: count})
		}
		if !p.TrustDialogAccepted {
			a.NotTrusted = append(a.NotTrusted, path)
		}
	}

	sort.Strings(a.MissingDirectory)
	sort.Strings(a.NoHistory)
	sort.Strings(a.NotTrusted)
	sort.Slice(a.LargeHistory, func(i, j int) bool {
		if a.LargeHistory[i].Count != a.LargeHistory[j].Count {
			return a.LargeHistory[i].Count > a.LargeHistory[j].Count
		}
		return a.LargeHistory[i].Path < a.LargeHistory[j].Path
	})
	return a
}
