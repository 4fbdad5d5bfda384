package config

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "not found with default noun",
			err:  &NotFoundError{Path: "/home/dev/.claude.json"},
			want: "file not found: /home/dev/.claude.json",
		},
		{
			name: "not found with explicit noun",
			err:  &NotFoundError{Path: "/home/dev/alpha", What: "project"},
			want: "project not found: /home/dev/alpha",
		},
		{
			name: "parse",
			err:  &ParseError{Path: "/tmp/c.json", Err: errors.New("unexpected end of JSON input")},
			want: "invalid JSON in /tmp/c.json: unexpected end of JSON input",
		},
		{
			name: "shape",
			err:  &ShapeError{Path: "/tmp/c.json", Kind: "array"},
			want: "configuration in /tmp/c.json must be a JSON object, found array",
		},
		{
			name: "write",
			err:  &WriteError{Path: "/tmp/c.json", Err: errors.New("disk full")},
			want: "failed to write /tmp/c.json: disk full",
		},
		{
			name: "io",
			err:  &IOError{Op: "read", Path: "/tmp/c.json", Err: errors.New("permission denied")},
			want: "read /tmp/c.json: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorsMatchThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading configuration: %w", &ParseError{Path: "/tmp/c.json", Err: errors.New("bad token")})

	var parseErr *ParseError
	if !errors.As(wrapped, &parseErr) {
		t.Fatal("expected errors.As to find ParseError through wrapping")
	}
	if parseErr.Path != "/tmp/c.json" {
		t.Errorf("Path = %q, want /tmp/c.json", parseErr.Path)
	}

	var notFound *NotFoundError
	if errors.As(wrapped, &notFound) {
		t.Error("ParseError must not match NotFoundError")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")

	for _, err := range []error{
		&ParseError{Path: "p", Err: cause},
		&WriteError{Path: "p", Err: cause},
		&IOError{Op: "read", Path: "p", Err: cause},
	} {
		if !errors.Is(err, cause) {
			t.Errorf("%T should unwrap to its cause", err)
		}
	}
}
