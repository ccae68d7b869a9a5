package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
)

// UI writes styled output and owns the prompter.
type UI struct {
	Out      io.Writer
	Styles   Styles
	Prompter Prompter
	// Animated enables bubbletea spinners. Off for pipes and tests.
	Animated bool
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// New creates a UI on the given streams. Colors and spinners need a
// terminal on out; the bubbletea prompter needs terminals on both.
func New(in, out *os.File) *UI {
	outTTY := IsTerminal(out)
	u := &UI{
		Out:      out,
		Styles:   NewStyles(outTTY),
		Animated: outTTY,
	}
	if outTTY && IsTerminal(in) {
		u.Prompter = NewTeaPrompter(in, out, u.Styles)
	} else {
		u.Prompter = NewLinePrompter(in, out)
	}
	return u
}

// NewScripted creates a plain UI that answers prompts from lines. Used by
// tests and for piped input.
func NewScripted(out io.Writer, lines ...string) *UI {
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	return &UI{
		Out:      out,
		Styles:   NewStyles(false),
		Prompter: NewLinePrompter(in, out),
	}
}

func (u *UI) styled(s lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(u.Out, s.Render(fmt.Sprintf(format, args...)))
}

// Success prints a bold green line.
func (u *UI) Success(format string, args ...any) { u.styled(u.Styles.Success, format, args...) }

// Warn prints a yellow line.
func (u *UI) Warn(format string, args ...any) { u.styled(u.Styles.Warning, format, args...) }

// Info prints a cyan line.
func (u *UI) Info(format string, args ...any) { u.styled(u.Styles.Info, format, args...) }

// Error prints a red "Error:" line.
func (u *UI) Error(err error) { u.styled(u.Styles.Error, "Error: %v", err) }

// Heading prints a section heading preceded by a blank line.
func (u *UI) Heading(title string) {
	fmt.Fprintln(u.Out)
	u.styled(u.Styles.Heading, "%s", title)
}

// Println prints an unstyled line.
func (u *UI) Println(args ...any) { fmt.Fprintln(u.Out, args...) }

// Table prints a rounded table with a bold header row.
func (u *UI) Table(headers []string, rows [][]string) {
	fmt.Fprintln(u.Out, RenderTable(u.Styles, headers, rows))
}

// Fields prints a two-column Field | Value table.
func (u *UI) Fields(rows [][2]string) {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r[0], r[1]}
	}
	u.Table([]string{"Field", "Value"}, out)
}

// RenderTable renders headers and rows with lipgloss/table.
func RenderTable(st Styles, headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(st.Border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.Header
			}
			return st.Cell
		})
	return t.String()
}
