package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// RedrawMsg asks the event loop to repaint. HTTP handlers send it
// through the program after mutating the Manager; the mutation itself
// happens under the Manager mutex, so the message carries no data.
type RedrawMsg struct{}

// keyMap defines the dashboard key bindings.
type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is the Bubbletea model for the dashboard screen. It owns no
// widget state itself; everything lives in the Manager.
type Model struct {
	manager *Manager
	width   int
	height  int
	ready   bool
}

// NewModel returns a model rendering the given manager.
func NewModel(manager *Manager) Model {
	return Model{manager: manager}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case RedrawMsg:
		// Nothing to do: View pulls fresh state from the Manager.
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.manager.Render(m.width, m.height)
}
