package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// TeaPrompter implements Prompter with bubbletea models.
type TeaPrompter struct {
	in     io.Reader
	out    io.Writer
	styles Styles
}

// NewTeaPrompter creates a bubbletea prompter on a terminal.
func NewTeaPrompter(in io.Reader, out io.Writer, st Styles) *TeaPrompter {
	return &TeaPrompter{in: in, out: out, styles: st}
}

func (p *TeaPrompter) run(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m, tea.WithInput(p.in), tea.WithOutput(p.out)).Run()
}

// Select shows an arrow-key menu.
func (p *TeaPrompter) Select(title string, options []string) (int, error) {
	final, err := p.run(newSelectModel(p.styles, title, options))
	if err != nil {
		return 0, err
	}
	m := final.(selectModel)
	if m.aborted {
		return 0, ErrAborted
	}
	return m.cursor, nil
}

// Input reads a line of text.
func (p *TeaPrompter) Input(prompt string) (string, error) {
	return p.text(prompt, false)
}

// Password reads a line of masked text.
func (p *TeaPrompter) Password(prompt string) (string, error) {
	return p.text(prompt, true)
}

func (p *TeaPrompter) text(prompt string, masked bool) (string, error) {
	final, err := p.run(newInputModel(p.styles, prompt, masked))
	if err != nil {
		return "", err
	}
	m := final.(inputModel)
	if m.aborted {
		return "", ErrAborted
	}
	return m.input.Value(), nil
}

type selectModel struct {
	styles  Styles
	title   string
	options []string
	cursor  int
	done    bool
	aborted bool
}

func newSelectModel(st Styles, title string, options []string) selectModel {
	return selectModel{styles: st, title: title, options: options}
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "home":
		m.cursor = 0
	case "end":
		m.cursor = len(m.options) - 1
	case "enter":
		m.done = true
		return m, tea.Quit
	case "ctrl+c", "esc", "q":
		m.aborted = true
		return m, tea.Quit
	}
	return m, nil
}

func (m selectModel) View() string {
	if m.aborted {
		return ""
	}
	if m.done {
		return fmt.Sprintf("%s %s\n", m.title, m.styles.Selected.Render(m.options[m.cursor]))
	}
	var b strings.Builder
	b.WriteString(m.styles.Heading.Render(m.title))
	b.WriteString("\n")
	for i, o := range m.options {
		if i == m.cursor {
			b.WriteString(m.styles.Selected.Render("> " + o))
		} else {
			b.WriteString("  " + o)
		}
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Muted.Render("↑/↓ move • enter select • esc back"))
	b.WriteString("\n")
	return b.String()
}

type inputModel struct {
	input   textinput.Model
	done    bool
	aborted bool
}

func newInputModel(st Styles, prompt string, masked bool) inputModel {
	ti := textinput.New()
	ti.Prompt = prompt + " "
	ti.PromptStyle = st.Info
	ti.CharLimit = 512
	ti.Width = 80
	if masked {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	ti.Focus()
	return inputModel{input: ti}
}

func (m inputModel) Init() tea.Cmd { return textinput.Blink }

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.aborted {
		return ""
	}
	if m.done {
		// Leave the answered prompt on screen without the cursor.
		m.input.Blur()
	}
	return m.input.View() + "\n"
}
