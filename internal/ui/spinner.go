package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type spinDoneMsg struct{}

type spinnerModel struct {
	spinner spinner.Model
	msg     string
	done    bool
}

func newSpinnerModel(st Styles, msg string) spinnerModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = st.Selected
	return spinnerModel{spinner: sp, msg: msg}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinDoneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.msg + "\n"
}

// Spin runs fn while showing msg next to a spinner and returns fn's result.
// Without animation msg is printed once.
func Spin[T any](ctx context.Context, u *UI, msg string, fn func(context.Context) (T, error)) (T, error) {
	if !u.Animated {
		fmt.Fprintln(u.Out, u.Styles.Muted.Render(msg))
		return fn(ctx)
	}

	var (
		res T
		err error
	)
	finished := make(chan struct{})
	p := tea.NewProgram(newSpinnerModel(u.Styles, msg),
		tea.WithOutput(u.Out),
		tea.WithInput(nil),
		tea.WithContext(ctx),
	)
	go func() {
		defer close(finished)
		res, err = fn(ctx)
		p.Send(spinDoneMsg{})
	}()
	if _, runErr := p.Run(); runErr != nil {
		// The spinner is cosmetic; fall through and wait for fn.
		fmt.Fprintln(u.Out, u.Styles.Muted.Render(msg))
	}
	<-finished
	return res, err
}
