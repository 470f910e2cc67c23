// Package picker is a filterable single-choice list used by `cmdr help -i`.
package picker

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/footprint-tools/cmdr/internal/ui/style"
)

// ErrNotInteractive is returned when stdin or stdout is not a terminal.
var ErrNotInteractive = errors.New("picker requires an interactive terminal")

// Item is one pickable entry.
type Item struct {
	Name    string
	Summary string
}

func (i Item) Title() string       { return i.Name }
func (i Item) Description() string { return i.Summary }
func (i Item) FilterValue() string { return i.Name }

type keyMap struct {
	Choose key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Choose: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "show help")),
	Quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
}

type model struct {
	list      list.Model
	chosen    string
	cancelled bool
}

func newModel(title string, items []Item) model {
	listItems := make([]list.Item, len(items))
	for i, it := range items {
		listItems[i] = it
	}

	delegate := list.NewDefaultDelegate()
	l := list.New(listItems, delegate, 60, 20)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(style.Current().Info))
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{keys.Choose} }

	return model{list: l}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-1)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, keys.Quit):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, keys.Choose):
			if it, ok := m.list.SelectedItem().(Item); ok {
				m.chosen = it.Name
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.chosen != "" || m.cancelled {
		return ""
	}
	return m.list.View()
}

// Pick shows items and returns the chosen name, or "" when cancelled.
func Pick(title string, items []Item) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return "", ErrNotInteractive
	}
	return run(title, items, os.Stdin, os.Stdout)
}

func run(title string, items []Item, in io.Reader, out io.Writer) (string, error) {
	if len(items) == 0 {
		return "", nil
	}

	p := tea.NewProgram(newModel(title, items), tea.WithInput(in), tea.WithOutput(out), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	fm := final.(model)
	if fm.cancelled {
		return "", nil
	}
	return fm.chosen, nil
}
