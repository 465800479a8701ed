// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mtreilly/arc-bookvault/internal/library"
	"github.com/mtreilly/arc-bookvault/internal/search"
	"github.com/mtreilly/arc-bookvault/internal/storage"
)

func newTestModel(t *testing.T) (Model, *search.Engine) {
	t.Helper()
	lib, err := library.Open(library.NewKVPersistence(storage.NewMemoryStore()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	day0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	err = lib.ImportAll([]*library.Book{
		{ID: "1", Title: "Dune", Author: "Frank Herbert", Status: library.StatusRead,
			Tags: []string{"sf"}, Rating: 5, ISBN: "0441013597", CreatedAt: day0},
		{ID: "2", Title: "The Dispossessed", Author: "Ursula K. Le Guin", Status: library.StatusReading,
			Tags: []string{"sf"}, CreatedAt: day0},
		{ID: "3", Title: "Middlemarch", Author: "George Eliot", Status: library.StatusToRead,
			Tags: []string{}, CreatedAt: day0},
	})
	if err != nil {
		t.Fatalf("ImportAll: %v", err)
	}
	engine, err := search.NewEngine(lib)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return NewModel(engine, search.Options{CaseInsensitive: true}), engine
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func press(t *testing.T, m Model, k tea.KeyType) Model {
	t.Helper()
	m, _ = send(t, m, tea.KeyMsg{Type: k})
	return m
}

func titles(m Model) string {
	var out []string
	for _, b := range m.session.Results() {
		out = append(out, b.Title)
	}
	return strings.Join(out, ",")
}

func TestLiveSearchDoesNotRecordHistory(t *testing.T) {
	m, engine := newTestModel(t)
	if got := titles(m); got != "Dune,The Dispossessed,Middlemarch" {
		t.Fatalf("initial results = %s", got)
	}

	m = typeText(t, m, "dune")
	if got := titles(m); got != "Dune" {
		t.Fatalf("results = %s", got)
	}
	if m.session.State() != search.StateFiltered {
		t.Fatalf("state = %s", m.session.State())
	}
	if h := engine.History(); len(h) != 0 {
		t.Fatalf("typing recorded history: %v", h)
	}

	m = press(t, m, tea.KeyEnter)
	if h := engine.History(); len(h) != 1 || h[0] != "dune" {
		t.Fatalf("history after enter = %v", h)
	}
	if !strings.Contains(m.View(), `Saved "dune" to history`) {
		t.Fatalf("notice missing:\n%s", m.View())
	}

	for range "dune" {
		m = press(t, m, tea.KeyBackspace)
	}
	if m.session.State() != search.StateIdle || len(m.session.Results()) != 3 {
		t.Fatalf("cleared query: state %s, %d results", m.session.State(), len(m.session.Results()))
	}
}

func TestFilterCycle(t *testing.T) {
	m, engine := newTestModel(t)
	m = typeText(t, m, "sf")

	m = press(t, m, tea.KeyTab)
	if engine.ActiveFilter() != library.FilterToRead || titles(m) != "" {
		t.Fatalf("to-read: filter %s, results %q", engine.ActiveFilter(), titles(m))
	}
	m = press(t, m, tea.KeyTab)
	if titles(m) != "The Dispossessed" {
		t.Fatalf("reading results = %q", titles(m))
	}
	if !strings.Contains(m.View(), "Filter: Reading") {
		t.Fatalf("filter label missing:\n%s", m.View())
	}
	m = press(t, m, tea.KeyTab)
	m = press(t, m, tea.KeyTab)
	if engine.ActiveFilter() != library.FilterAll || titles(m) != "Dune,The Dispossessed" {
		t.Fatalf("back to all: filter %s, results %q", engine.ActiveFilter(), titles(m))
	}
}

func TestRegexAndCaseToggles(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, tea.KeyCtrlR)
	if !m.session.Options().UseRegex {
		t.Fatal("ctrl+r did not enable regex")
	}
	m = typeText(t, m, "^(dune|middle)")
	if got := titles(m); got != "Dune,Middlemarch" {
		t.Fatalf("regex results = %s", got)
	}

	m = press(t, m, tea.KeyCtrlT)
	if m.session.Options().CaseInsensitive || titles(m) != "" {
		t.Fatalf("case-sensitive results = %q", titles(m))
	}

	m = typeText(t, m, "[")
	if !strings.Contains(m.err, "Invalid regex pattern") {
		t.Fatalf("err = %q", m.err)
	}
	if !strings.Contains(m.View(), "Invalid regex pattern") {
		t.Fatal("regex error not rendered")
	}
}

func TestCursorAndDetail(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, tea.KeyUp)
	if m.cursor != 0 {
		t.Fatalf("cursor = %d", m.cursor)
	}
	for i := 0; i < 5; i++ {
		m = press(t, m, tea.KeyDown)
	}
	if m.cursor != 2 || m.Selected().Title != "Middlemarch" {
		t.Fatalf("cursor = %d", m.cursor)
	}

	m = typeText(t, m, "dune")
	if m.cursor != 0 || m.Selected().Title != "Dune" {
		t.Fatalf("cursor not clamped: %d", m.cursor)
	}

	m = press(t, m, tea.KeyCtrlO)
	view := m.View()
	if !m.detail || !strings.Contains(view, "ISBN:    0441013597") {
		t.Fatalf("detail view:\n%s", view)
	}
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.detail || cmd != nil {
		t.Fatal("esc should close the detail view first")
	}
}

func TestDidYouMeanAndQuit(t *testing.T) {
	m, _ := newTestModel(t)
	m = typeText(t, m, "dspssd")
	if !strings.Contains(m.View(), "Did you mean: The Dispossessed") {
		t.Fatalf("view:\n%s", m.View())
	}

	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("esc did not quit")
	}
}
