// Package cli provides the small terminal helpers the command-line
// tools share: coloured messages, a one-key dialog and ANSI codes.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// ANSI escape codes for terminal styling.
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"

	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
)

// Swapped out by tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	osExit           = os.Exit
)

// Dialog prints text, waits for a line of input and returns its first
// character. An empty answer (just enter) yields 0.
func Dialog(text string) (rune, error) {
	fmt.Fprint(stdout, text+" ")

	r := bufio.NewReader(stdin)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return 0, fmt.Errorf("cli: read answer: %w", err)
	}
	for _, c := range line {
		if c == '\n' || c == '\r' {
			break
		}
		return c, nil
	}
	return 0, nil
}

// Warn prints a warning to stderr and carries on.
func Warn(msg string) {
	fmt.Fprintln(stderr, Bold+Yellow+"Warning: "+msg+Reset)
}

// Error prints an error to stderr and exits with status 1. Library
// code returns errors instead; this is for the top of a script.
func Error(msg string) {
	fmt.Fprintln(stderr, Bold+Red+"Error: "+msg+Reset)
	osExit(1)
}
