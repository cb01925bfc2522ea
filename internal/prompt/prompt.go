// Package prompt abstracts the yes/no/choice capability the batch processor
// uses in interactive runs, so decision flows are testable with a scripted
// prompter.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Prompter is the interactive decision surface. Implementations block until
// the user answers.
type Prompter interface {
	// Confirm asks a yes/no question. Empty input means yes.
	Confirm(question string) (bool, error)
	// Choose presents numbered options and returns the selected index.
	Choose(question string, options []string) (int, error)
	// Input asks for a free-text value; the trimmed line is returned.
	Input(question string) (string, error)
}

// Terminal prompts on an io.Writer and reads answers line by line.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

var _ Prompter = (*Terminal)(nil)

// NewTerminal creates a Terminal prompter reading from in and writing to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int on all supported platforms
}

// Confirm implements Prompter.
func (t *Terminal) Confirm(question string) (bool, error) {
	for {
		if _, err := fmt.Fprintf(t.out, "%s [Y/n] ", question); err != nil {
			return false, err
		}
		line, err := t.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "", "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

// Choose implements Prompter.
func (t *Terminal) Choose(question string, options []string) (int, error) {
	if _, err := fmt.Fprintln(t.out, question); err != nil {
		return 0, err
	}
	for i, opt := range options {
		if _, err := fmt.Fprintf(t.out, "  %d) %s\n", i+1, opt); err != nil {
			return 0, err
		}
	}
	for {
		if _, err := fmt.Fprintf(t.out, "Select [1-%d]: ", len(options)); err != nil {
			return 0, err
		}
		line, err := t.readLine()
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
	}
}

// Input implements Prompter.
func (t *Terminal) Input(question string) (string, error) {
	if _, err := fmt.Fprintf(t.out, "%s: ", question); err != nil {
		return "", err
	}
	return t.readLine()
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
