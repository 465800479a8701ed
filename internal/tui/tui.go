// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package tui provides a Bubble Tea live-search browser for the catalog.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/mtreilly/arc-bookvault/internal/library"
	"github.com/mtreilly/arc-bookvault/internal/search"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))

	matchStyle = lipgloss.NewStyle().
			Reverse(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

func renderMatch(s string) string { return matchStyle.Render(s) }

// filters is the tab cycle order.
var filters = []library.Filter{library.FilterAll, library.FilterToRead, library.FilterReading, library.FilterRead}

const defaultRows = 15

// Model is the Bubble Tea model for the browser.
type Model struct {
	engine  *search.Engine
	session *search.Session
	input   textinput.Model

	filter int
	cursor int
	detail bool
	notice string
	err    string

	width  int
	height int
}

// NewModel creates a browser over engine, starting from the engine's active
// filter with the given matching mode.
func NewModel(engine *search.Engine, opts search.Options) Model {
	ti := textinput.New()
	ti.Placeholder = "title, author, isbn, notes or tag"
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 50

	m := Model{
		engine:  engine,
		session: search.NewSession(engine, opts),
		input:   ti,
	}
	for i, f := range filters {
		if f == engine.ActiveFilter() {
			m.filter = i
		}
	}
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(20, min(msg.Width-20, 80))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.detail {
				m.detail = false
				return m, nil
			}
			return m, tea.Quit

		case "enter":
			if m.detail {
				m.detail = false
				return m, nil
			}
			m.session.Search(m.input.Value())
			m.afterSearch()
			if m.err == "" && m.session.Query() != "" {
				m.notice = fmt.Sprintf("Saved %q to history", m.session.Query())
			}
			return m, nil

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.session.Results())-1 {
				m.cursor++
			}
			return m, nil

		case "tab":
			m.filter = (m.filter + 1) % len(filters)
			if _, err := m.session.SetFilter(string(filters[m.filter])); err != nil {
				m.err = err.Error()
			}
			m.afterSearch()
			return m, nil

		case "ctrl+r":
			opts := m.session.Options()
			opts.UseRegex = !opts.UseRegex
			m.session.SetOptions(opts)
			m.afterSearch()
			return m, nil

		case "ctrl+t":
			opts := m.session.Options()
			opts.CaseInsensitive = !opts.CaseInsensitive
			m.session.SetOptions(opts)
			m.afterSearch()
			return m, nil

		case "ctrl+o":
			if len(m.session.Results()) > 0 {
				m.detail = !m.detail
			}
			return m, nil
		}
	}

	if m.detail {
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.session.Preview(m.input.Value())
		m.notice = ""
		m.afterSearch()
	}
	return m, cmd
}

// afterSearch validates the current query and keeps the cursor on a result.
func (m *Model) afterSearch() {
	m.err = ""
	q := m.session.Query()
	if res := library.ValidateSearchQuery(m.input.Value()); !res.Valid {
		m.err = res.Error
	} else if opts := m.session.Options(); opts.UseRegex && q != "" {
		if p := library.ValidateRegexPattern(q, opts.CaseInsensitive); !p.Valid {
			m.err = p.Error
		}
	}
	if n := len(m.session.Results()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

// Selected returns the book under the cursor, or nil.
func (m Model) Selected() *library.Book {
	results := m.session.Results()
	if m.cursor < len(results) {
		return results[m.cursor]
	}
	return nil
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Arc Bookvault"))
	b.WriteString("\n")

	if m.detail {
		if book := m.Selected(); book != nil {
			b.WriteString(m.viewDetail(book))
			b.WriteString("\n")
			b.WriteString(dimStyle.Render("esc/enter: back"))
			return b.String()
		}
	}

	b.WriteString(subtitleStyle.Render("Search:"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.viewOptions())
	b.WriteString("\n\n")

	if m.err != "" {
		b.WriteString(errorStyle.Render("✗ " + m.err))
		b.WriteString("\n\n")
	}

	b.WriteString(m.viewResults())
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(infoStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("enter: save search • ↑/↓: move • tab: filter • ctrl+r: regex • ctrl+t: case • ctrl+o: details • esc: quit"))
	return b.String()
}

func (m Model) viewOptions() string {
	opts := m.session.Options()
	check := func(on bool) string {
		if on {
			return "[×]"
		}
		return "[ ]"
	}
	filter := filters[m.filter]
	label := "All"
	if filter != library.FilterAll {
		label = library.Status(filter).Label()
	}
	return fmt.Sprintf("%s Regex   %s Ignore case   Filter: %s",
		check(opts.UseRegex), check(opts.CaseInsensitive), infoStyle.Render(label))
}

func (m Model) viewResults() string {
	var b strings.Builder

	results := m.session.Results()
	if len(results) == 0 {
		b.WriteString(dimStyle.Render("No books found."))
		b.WriteString("\n")
		if q := m.session.Query(); q != "" && m.err == "" {
			if alt := m.engine.DidYouMean(q, 3); len(alt) > 0 {
				b.WriteString(infoStyle.Render("Did you mean: " + strings.Join(alt, ", ") + "?"))
				b.WriteString("\n")
			}
		}
		return b.String()
	}

	rows := defaultRows
	if m.height > 0 {
		rows = max(3, m.height-14)
	}
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(len(results), start+rows)

	q, opts := m.session.Query(), m.session.Options()
	mark := func(s string) string { return m.engine.Highlight(s, q, opts, renderMatch) }

	for i := start; i < end; i++ {
		book := results[i]
		prefix := "  "
		line := fmt.Sprintf("%s · %s", mark(book.Title), mark(book.Author))
		if i == m.cursor {
			prefix = selectedStyle.Render("> ")
		}
		b.WriteString(prefix + line + dimStyle.Render(" ("+book.Status.Label()+")"))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render(fmt.Sprintf("\n%d of %d book(s) • %s", len(results), len(m.engine.FilteredBooks()), m.session.State())))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewDetail(book *library.Book) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nby %s\n\n", book.Title, book.Author)
	fmt.Fprintf(&b, "Status:  %s\n", book.Status.Label())
	if book.ISBN != "" {
		fmt.Fprintf(&b, "ISBN:    %s\n", book.ISBN)
	}
	if book.Pages > 0 {
		fmt.Fprintf(&b, "Pages:   %s\n", humanize.Ftoa(book.Pages))
	}
	if book.Rating > 0 {
		fmt.Fprintf(&b, "Rating:  %s\n", strings.Repeat("★", book.Rating))
	}
	if len(book.Tags) > 0 {
		fmt.Fprintf(&b, "Tags:    %s\n", strings.Join(book.Tags, ", "))
	}
	fmt.Fprintf(&b, "Added:   %s", humanize.Time(book.CreatedAt))
	if strings.TrimSpace(book.Notes) != "" {
		fmt.Fprintf(&b, "\n\n%s", book.Notes)
	}
	return boxStyle.Render(b.String())
}

// Run starts the browser in the alternate screen.
func Run(engine *search.Engine, opts search.Options) error {
	p := tea.NewProgram(NewModel(engine, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
