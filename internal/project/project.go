// Package project defines the in-memory model of one tracked project entry
// and its lossless conversion to and from the generic JSON storage form.
//
// The storage keys emitted by ToRaw are a fixed contract shared with every
// other reader and writer of the configuration file; they must not change.
package project

import (
	"encoding/json"
	"os"
)

// Storage keys for the per-project object inside the configuration file.
const (
	keyAllowedTools           = "allowedTools"
	keyHistory                = "history"
	keyMCPServers             = "mcpServers"
	keyEnabledMCPJSONServers  = "enabledMcpjsonServers"
	keyDisabledMCPJSONServers = "disabledMcpjsonServers"
	keyEnableAllMCPServers    = "enableAllProjectMcpServers"
	keyTrustDialogAccepted    = "hasTrustDialogAccepted"
	keyIgnorePatterns         = "ignorePatterns"
	keyOnboardingSeenCount    = "projectOnboardingSeenCount"
	keyExternalApproved       = "hasClaudeMdExternalIncludesApproved"
	keyExternalWarningShown   = "hasClaudeMdExternalIncludesWarningShown"
	keyDontCrawlDirectory     = "dontCrawlDirectory"
	keyMCPContextURIs         = "mcpContextUris"
)

// historyDisplayKey is the one field of a history entry the manager
// interprets; everything else is carried through untouched.
const historyDisplayKey = "display"

// HistoryEntry is one usage record in a project's history. Entries are
// free-form mappings; display is the only key with defined meaning, other
// keys (pasted contents, session metadata) are preserved as-is.
type HistoryEntry map[string]any

// Display returns the entry's display string, or "" when absent or not a
// string.
func (e HistoryEntry) Display() string {
	s, _ := e[historyDisplayKey].(string)
	return s
}

// Project is the in-memory form of one tracked project entry.
//
// A Project is identified by its Path, which is the key of the entry inside
// the configuration's projects object. Paths are opaque strings: they are
// not validated against the filesystem when an entry is created, and they
// never change once created (a rename is a delete plus an insert).
type Project struct {
	// Path is the project's identity within the configuration.
	Path string

	// AllowedTools lists tool permissions granted to this project.
	AllowedTools []string

	// History holds usage records in chronological order, most recent last.
	History []HistoryEntry

	// MCPServers maps server names to their configuration. The values are
	// opaque JSON blobs; their internal schema is not interpreted here.
	MCPServers map[string]any

	// EnabledMCPJSONServers and DisabledMCPJSONServers carry per-project
	// overrides for servers defined in .mcp.json files.
	EnabledMCPJSONServers  []string
	DisabledMCPJSONServers []string

	// EnableAllProjectMCPServers approves every .mcp.json server at once.
	EnableAllProjectMCPServers bool

	// TrustDialogAccepted records whether the trust dialog was accepted.
	TrustDialogAccepted bool

	// IgnorePatterns lists glob-like patterns excluded from crawling.
	IgnorePatterns []string

	// OnboardingSeenCount counts how often project onboarding was shown.
	OnboardingSeenCount int

	// ExternalIncludesApproved and ExternalIncludesWarningShown track the
	// CLAUDE.md external-includes consent state.
	ExternalIncludesApproved     bool
	ExternalIncludesWarningShown bool

	// DontCrawlDirectory disables directory crawling for this project.
	DontCrawlDirectory bool

	// MCPContextURIs lists context URIs attached to this project.
	MCPContextURIs []string
}

// FromRaw builds a Project from the generic storage form. Absent or
// wrong-shaped fields fall back to their documented defaults (empty, false,
// zero); FromRaw never fails.
func FromRaw(path string, raw map[string]any) Project {
	return Project{
		Path:                         path,
		AllowedTools:                 stringSlice(raw[keyAllowedTools]),
		History:                      historySlice(raw[keyHistory]),
		MCPServers:                   anyMap(raw[keyMCPServers]),
		EnabledMCPJSONServers:        stringSlice(raw[keyEnabledMCPJSONServers]),
		DisabledMCPJSONServers:       stringSlice(raw[keyDisabledMCPJSONServers]),
		EnableAllProjectMCPServers:   boolValue(raw[keyEnableAllMCPServers]),
		TrustDialogAccepted:          boolValue(raw[keyTrustDialogAccepted]),
		IgnorePatterns:               stringSlice(raw[keyIgnorePatterns]),
		OnboardingSeenCount:          intValue(raw[keyOnboardingSeenCount]),
		ExternalIncludesApproved:     boolValue(raw[keyExternalApproved]),
		ExternalIncludesWarningShown: boolValue(raw[keyExternalWarningShown]),
		DontCrawlDirectory:           boolValue(raw[keyDontCrawlDirectory]),
		MCPContextURIs:               stringSlice(raw[keyMCPContextURIs]),
	}
}

// ToRaw produces the generic storage form of the project. Every storage key
// is emitted on every call, matching what other writers of the file produce.
// The Path is not part of the result; it is the key the caller stores the
// result under.
func (p Project) ToRaw() map[string]any {
	history := make([]any, len(p.History))
	for i, entry := range p.History {
		history[i] = map[string]any(entry)
	}

	servers := p.MCPServers
	if servers == nil {
		servers = map[string]any{}
	}

	return map[string]any{
		keyAllowedTools:           toAnySlice(p.AllowedTools),
		keyHistory:                history,
		keyMCPServers:             servers,
		keyEnabledMCPJSONServers:  toAnySlice(p.EnabledMCPJSONServers),
		keyDisabledMCPJSONServers: toAnySlice(p.DisabledMCPJSONServers),
		keyEnableAllMCPServers:    p.EnableAllProjectMCPServers,
		keyTrustDialogAccepted:    p.TrustDialogAccepted,
		keyIgnorePatterns:         toAnySlice(p.IgnorePatterns),
		keyOnboardingSeenCount:    p.OnboardingSeenCount,
		keyExternalApproved:       p.ExternalIncludesApproved,
		keyExternalWarningShown:   p.ExternalIncludesWarningShown,
		keyDontCrawlDirectory:     p.DontCrawlDirectory,
		keyMCPContextURIs:         toAnySlice(p.MCPContextURIs),
	}
}

// HistoryCount returns the number of history entries.
func (p Project) HistoryCount() int {
	return len(p.History)
}

// LastAccessed returns the display string of the most recent history entry.
// The second return value is false when the project has no history.
func (p Project) LastAccessed() (string, bool) {
	if len(p.History) == 0 {
		return "", false
	}
	return p.History[len(p.History)-1].Display(), true
}

// DirectoryExists reports whether the path named by Path currently exists.
// The filesystem is checked on every call, never cached: project
// directories come and go between refreshes.
func (p Project) DirectoryExists() bool {
	_, err := os.Stat(p.Path)
	return err == nil
}

// SizeEstimate returns the byte length of the serialized raw form. It is a
// display heuristic only and is never persisted.
func (p Project) SizeEstimate() int {
	data, err := json.Marshal(p.ToRaw())
	if err != nil {
		return 0
	}
	return len(data)
}

// stringSlice extracts a slice of strings, skipping non-string elements.
func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// historySlice extracts history entries, skipping non-mapping elements.
func historySlice(v any) []HistoryEntry {
	items, ok := v.([]any)
	if !ok {
		return []HistoryEntry{}
	}
	out := make([]HistoryEntry, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, HistoryEntry(m))
		}
	}
	return out
}

func anyMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func boolValue(v any) bool {
	b, _ := v.(bool)
	return b
}

// intValue accepts both float64 (what encoding/json produces) and int
// (what in-process callers produce).
func intValue(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	}
	return 0
}

func toAnySlice(items []string) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
