// Package backup creates and manages timestamped snapshots of the Claude
// configuration file.
//
// Every snapshot is a plain copy of the configuration file named
// claude_<date>_<time>_<microseconds>.json, so the directory listing reads
// chronologically and any snapshot can be inspected or diffed with
// standard tools. The Manager applies a count-based retention policy after
// each snapshot: only the most recent DefaultKeep files survive unless the
// caller chooses a different limit.
//
// Restoring copies a snapshot back over the live configuration file.
// Nothing here parses or interprets the configuration; the manager treats
// files as opaque bytes and leaves validation to the config package.
package backup
