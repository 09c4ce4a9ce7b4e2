package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	IncomeUp   key.Binding
	IncomeDown key.Binding
	Reset      key.Binding
	Projection key.Binding
	NextPanel  key.Binding
	Up         key.Binding
	Down       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		IncomeUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "income +5%"),
		),
		IncomeDown: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "income -5%"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset income"),
		),
		Projection: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "toggle projection"),
		),
		NextPanel: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next panel"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.IncomeUp, k.IncomeDown, k.Projection, k.NextPanel, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.IncomeUp, k.IncomeDown, k.Reset},
		{k.Projection, k.NextPanel, k.Up, k.Down},
		{k.Help, k.Quit},
	}
}
