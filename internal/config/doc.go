// Package config owns the Claude configuration file: locating it, loading
// and saving it safely, and watching it for external modification.
//
// # Configuration File
//
// The configuration lives in a single JSON file whose top-level value is an
// object. The default location is ~/.claude.json; the CLAUDECFG_CONFIG
// environment variable or an explicit path override selects a different
// file.
//
// The Store interprets only the keys it needs (the projects object and a
// handful of metadata fields). Every other top-level key is carried through
// a load and save cycle untouched, so the tool can safely edit files whose
// full schema it does not know.
//
// # Saving
//
// Saves are atomic with respect to the live file. The new contents are
// written to a temporary file in the same directory, synced, re-read, and
// parsed; only then does a rename replace the live file. A failure at any
// step discards the temporary file and leaves the previous contents in
// place. The failed state is reported as a WriteError.
//
// Before a save the Store can snapshot the current on-disk file through the
// backup manager. By default a failed snapshot is logged and the save
// proceeds; SaveStrict makes the snapshot a precondition.
//
// # Failure Taxonomy
//
// All failures surface as one of five types: NotFoundError, ParseError,
// ShapeError, WriteError, or IOError. Callers match them with errors.As;
// the CLI maps them to distinct exit codes.
//
// # Watching
//
// The Watcher reports external changes to the configuration file. It
// watches the parent directory so the rename step of an atomic save by
// another process is still seen, and it debounces the raw event bursts
// editors produce into one ChangeEvent per logical change. Watching is
// detection only; nothing here locks the file against concurrent writers.
//
// # Usage Example
//
//	store, err := config.NewDefaultStore()
//	if err != nil {
//	    return err
//	}
//	if err := store.Load(); err != nil {
//	    return err
//	}
//	for path, p := range store.Projects() {
//	    fmt.Printf("%s: %d history entries\n", path, p.HistoryCount())
//	}
package config
