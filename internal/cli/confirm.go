package cli

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Confirm asks a yes/no question on the terminal and reports whether the
// user answered yes. Ctrl+C and Ctrl+D count as no, not as errors, so
// callers treat an interrupted prompt as a declined action.
func Confirm(question string) (bool, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          question + " [y/N]: ",
		InterruptPrompt: "^C",
	})
	if err != nil {
		return false, err
	}
	defer rl.Close()

	line, err := rl.Readline()
	if err == readline.ErrInterrupt || err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
