package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("aborted")

// Prompter collects input from the user.
type Prompter interface {
	// Select returns the index of the chosen option.
	Select(title string, options []string) (int, error)
	Input(prompt string) (string, error)
	Password(prompt string) (string, error)
}

// LinePrompter reads answers line by line. Menus accept either the option
// number or its exact text.
type LinePrompter struct {
	in  *bufio.Reader
	fd  int
	out io.Writer
}

// NewLinePrompter creates a line prompter. Passwords are read without echo
// when in is a terminal.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	return &LinePrompter{in: bufio.NewReader(in), fd: fd, out: out}
}

func (p *LinePrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", ErrAborted
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Select prints a numbered menu and reads a choice.
func (p *LinePrompter) Select(title string, options []string) (int, error) {
	for {
		fmt.Fprintln(p.out, title)
		for i, o := range options {
			fmt.Fprintf(p.out, "  %d) %s\n", i+1, o)
		}
		fmt.Fprint(p.out, "> ")
		line, err := p.readLine()
		if err != nil {
			return 0, err
		}
		line = strings.TrimSpace(line)
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		for i, o := range options {
			if strings.EqualFold(o, line) {
				return i, nil
			}
		}
		fmt.Fprintf(p.out, "Invalid choice %q\n", line)
	}
}

// Input prints prompt and reads one line.
func (p *LinePrompter) Input(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt+" ")
	return p.readLine()
}

// Password reads a line without echo on terminals.
func (p *LinePrompter) Password(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt+" ")
	if p.fd < 0 {
		return p.readLine()
	}
	pw, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out) // newline after hidden input
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// PromptData asks for input until parse accepts it. Parse errors are shown
// and the prompt repeats; prompter errors end the loop.
func PromptData[T any](u *UI, prompt string, parse func(string) (T, error)) (T, error) {
	for {
		raw, err := u.Prompter.Input(prompt)
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(strings.TrimSpace(raw))
		if err == nil {
			return v, nil
		}
		u.Error(err)
	}
}

// Confirm asks a yes/no question. Anything but y/yes is no.
func Confirm(u *UI, question string) (bool, error) {
	raw, err := u.Prompter.Input(question + " [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
