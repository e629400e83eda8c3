package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cosduck/chanpilot/internal/scripts"
)

// scriptItem adapts a Script to the list component.
type scriptItem struct {
	script *scripts.Script
}

func (i scriptItem) Title() string { return i.script.Name }

func (i scriptItem) Description() string {
	desc := i.script.Description
	if i.script.BuiltIn {
		desc = "built-in · " + desc
	}
	return desc
}

func (i scriptItem) FilterValue() string { return i.script.Name }

// pickerModel is the interactive script chooser.
type pickerModel struct {
	list     list.Model
	selected *scripts.Script
	quit     bool
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quit = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(scriptItem); ok {
				m.selected = item.script
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	return "\n" + m.list.View()
}

// PickScript shows an interactive chooser over the available scripts and
// returns the selected one. Returns an error when the user cancels.
func PickScript(available []*scripts.Script) (*scripts.Script, error) {
	if len(available) == 0 {
		return nil, fmt.Errorf("no scripts available")
	}

	items := make([]list.Item, 0, len(available))
	for _, s := range available {
		items = append(items, scriptItem{script: s})
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("205")).
		BorderLeftForeground(lipgloss.Color("205"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("240")).
		BorderLeftForeground(lipgloss.Color("205"))

	l := list.New(items, delegate, 60, 14)
	l.Title = "Choose a script to run"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	model := pickerModel{list: l}
	p := tea.NewProgram(model)

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("script picker failed: %w", err)
	}

	m, ok := final.(pickerModel)
	if !ok || m.selected == nil {
		return nil, fmt.Errorf("no script selected")
	}
	return m.selected, nil
}
