package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit        key.Binding
	QuitQ       key.Binding
	NextSection key.Binding
	PrevSection key.Binding
	Prev        key.Binding
	Next        key.Binding
	Select      key.Binding
	Back        key.Binding
	Help        key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	QuitQ: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	NextSection: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next section"),
	),
	PrevSection: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev section"),
	),
	Prev: key.NewBinding(
		key.WithKeys("left", "up", "h", "k"),
		key.WithHelp("←/↑", "previous"),
	),
	Next: key.NewBinding(
		key.WithKeys("right", "down", "l", "j"),
		key.WithHelp("→/↓", "next"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "open"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextSection, k.Select, k.Back, k.Help, k.QuitQ}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextSection, k.PrevSection},
		{k.Prev, k.Next, k.Select, k.Back},
		{k.Help, k.QuitQ, k.Quit},
	}
}
