package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tailored-agentic-units/redux/binding"
	"github.com/tailored-agentic-units/redux/state"
	"github.com/tailored-agentic-units/redux/store"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	stateStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Padding(0, 2)
)

// snapshot is written by the store subscriber and read by View. Both run on
// the bubbletea update goroutine.
type snapshot struct {
	state   state.State
	updates int
}

type model struct {
	ctx   context.Context
	store *store.Store
	view  *snapshot
	last  string
	err   error
}

func newModel(ctx context.Context, s *store.Store) (model, error) {
	view := &snapshot{state: s.GetState()}
	err := s.Subscribe(binding.Subscriber("interactive", func(st state.State) {
		view.state = st
		view.updates++
	}))
	if err != nil {
		return model{}, err
	}
	return model{ctx: ctx, store: s, view: view}, nil
}

func runInteractive(ctx context.Context, s *store.Store) error {
	m, err := newModel(ctx, s)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
	return err
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	action, ok := keyAction(key.String())
	if !ok {
		switch key.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		return m, nil
	}

	m.err = m.store.Dispatch(m.ctx, action)
	m.last = fmt.Sprintf("dispatched %d", action)
	return m, nil
}

// keyAction maps a key to the action it dispatches.
func keyAction(key string) (store.Action, bool) {
	switch key {
	case "+", "up", "k":
		return 1, true
	case "-", "down", "j":
		return -1, true
	}
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		return store.Action(key[0] - '0'), true
	}
	return 0, false
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("redux · " + m.store.Name()))
	b.WriteString("\n\n")
	b.WriteString(stateStyle.Render(m.view.state.String()))
	b.WriteString("\n")

	status := fmt.Sprintf("%d updates", m.view.updates)
	if m.last != "" {
		status = m.last + " · " + status
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("+/↑ dispatch 1  -/↓ dispatch -1  0-9 dispatch n  q quit"))
	return b.String()
}
