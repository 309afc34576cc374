package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap is the set of UI key bindings.
type KeyMap struct {
	ClockIn  key.Binding
	ClockOut key.Binding
	Export   key.Binding
	Clear    key.Binding
	Confirm  key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		ClockIn:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "clock in")),
		ClockOut: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "clock out")),
		Export:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Clear:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Confirm:  key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp lists the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ClockIn, k.ClockOut, k.Export, k.Clear, k.Quit}
}
