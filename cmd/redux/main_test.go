package main

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/tailored-agentic-units/redux/binding"
	"github.com/tailored-agentic-units/redux/config"
	"github.com/tailored-agentic-units/redux/state"
	"github.com/tailored-agentic-units/redux/store"
)

func TestParseActions(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []store.Action
		wantErr bool
	}{
		{name: "empty", input: "", want: nil},
		{name: "blank", input: "  ", want: nil},
		{name: "single", input: "5", want: []store.Action{5}},
		{name: "list with spaces", input: "5, 3 ,-1", want: []store.Action{5, 3, -1}},
		{name: "leading zeros are decimal", input: "08,010", want: []store.Action{8, 10}},
		{name: "not a number", input: "5,x", wantErr: true},
		{name: "hex", input: "0x10", wantErr: true},
		{name: "trailing comma", input: "5,", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseActions(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseActions(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseActions(%q) (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestKeyAction(t *testing.T) {
	tests := []struct {
		key    string
		want   store.Action
		wantOK bool
	}{
		{key: "+", want: 1, wantOK: true},
		{key: "up", want: 1, wantOK: true},
		{key: "-", want: -1, wantOK: true},
		{key: "down", want: -1, wantOK: true},
		{key: "0", want: 0, wantOK: true},
		{key: "7", want: 7, wantOK: true},
		{key: "q", wantOK: false},
		{key: "ctrl+a", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := keyAction(tt.key)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("keyAction(%q) = %d, %v; want %d, %v", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func newCounterStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(config.DefaultStoreConfig("counter"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	err = s.SetStateAndReducer(state.New().Set("count", 0), binding.Reducer("add", func(st state.State, action int64) state.State {
		n, _ := st.Int("count")
		return st.Set("count", n+action)
	}))
	if err != nil {
		t.Fatalf("SetStateAndReducer() error = %v", err)
	}
	return s
}

func TestModel_Update(t *testing.T) {
	s := newCounterStore(t)
	m, err := newModel(context.Background(), s)
	if err != nil {
		t.Fatalf("newModel() error = %v", err)
	}

	var tm tea.Model = m
	tm, _ = tm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'5'}})
	tm, _ = tm.Update(tea.KeyMsg{Type: tea.KeyUp})
	tm, _ = tm.Update(tea.KeyMsg{Type: tea.KeyDown})
	tm, _ = tm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})

	n, _ := s.GetState().Int("count")
	if n != 6 {
		t.Errorf("count = %d, want 6", n)
	}

	view := tm.View()
	if !strings.Contains(view, `{"count":6}`) {
		t.Errorf("View() does not show state:\n%s", view)
	}
	if !strings.Contains(view, "4 updates") {
		t.Errorf("View() does not show update count:\n%s", view)
	}
}

func TestModel_Quit(t *testing.T) {
	m, err := newModel(context.Background(), newCounterStore(t))
	if err != nil {
		t.Fatalf("newModel() error = %v", err)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("Update(q) returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("Update(q) command = %T, want tea.QuitMsg", cmd())
	}
}

func TestModel_ShowsDispatchError(t *testing.T) {
	s := newCounterStore(t)
	s.AddMiddleware(binding.Func("broken", func(context.Context, []any) (any, error) {
		return nil, binding.ErrArgumentMismatch
	}))

	m, err := newModel(context.Background(), s)
	if err != nil {
		t.Fatalf("newModel() error = %v", err)
	}

	tm, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	if !strings.Contains(tm.View(), "argument mismatch") {
		t.Errorf("View() does not show error:\n%s", tm.View())
	}
}
