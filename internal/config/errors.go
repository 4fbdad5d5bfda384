package config

import "fmt"

// The store and the backup manager never let filesystem or decode failures
// escape as untyped errors. Every failure is converted into one of the
// types below so callers can match on the condition with errors.As and
// decide how to react. A missing configuration file is an expected state
// for a fresh installation, not corruption, which is why it gets its own
// type instead of being folded into IOError.

// NotFoundError reports that a file or a tracked project does not exist.
type NotFoundError struct {
	// Path is what was looked for: a file path or a project path.
	Path string
	// What names the missing thing for messages, for example
	// "configuration file", "backup", or "project". Empty means "file".
	What string
}

func (e *NotFoundError) Error() string {
	what := e.What
	if what == "" {
		what = "file"
	}
	return fmt.Sprintf("%s not found: %s", what, e.Path)
}

// ParseError reports that a file exists but does not contain valid JSON.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ShapeError reports that a file contains valid JSON whose top-level value
// is not an object. Kind names what was found instead: array, string,
// number, bool, or null.
type ShapeError struct {
	Path string
	Kind string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("configuration in %s must be a JSON object, found %s", e.Path, e.Kind)
}

// WriteError reports a failed save. The previous file contents are intact:
// the write went to a temporary file that was discarded before it could
// replace the live one.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// IOError reports a filesystem failure not covered by the more specific
// types, such as a failed copy during backup or restore.
type IOError struct {
	// Op is the operation that failed, for example "read" or "backup".
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
