package keyboard

import "github.com/charmbracelet/bubbles/key"

// DefaultHotKey toggles the cascade open and closed.
const DefaultHotKey = "ctrl+o"

// KeyMap holds the bindings the navigator reacts to. Letters are left alone
// so they can go to the filter.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Home     key.Binding
	End      key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Open     key.Binding
	Activate key.Binding
	Back     key.Binding
	Close    key.Binding
	HotKey   key.Binding
	Quit     key.Binding
}

// DefaultKeyMap builds the standard bindings with hotkey as the toggle key.
func DefaultKeyMap(hotkey string) KeyMap {
	if hotkey == "" {
		hotkey = DefaultHotKey
	}
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "previous row"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "next row"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "first row"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "last row"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Open: key.NewBinding(
			key.WithKeys("right", "tab"),
			key.WithHelp("→", "enter folder"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("left", "shift+tab"),
			key.WithHelp("←", "parent folder"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		HotKey: key.NewBinding(
			key.WithKeys(hotkey),
			key.WithHelp(hotkey, "toggle"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
