package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the preview
type KeyMap struct {
	// Navigation
	Next key.Binding
	Prev key.Binding

	// Actions
	Play      key.Binding
	Download  key.Binding
	CopyLink  key.Binding
	Customise key.Binding
	Retry     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("n", "right", "l"),
			key.WithHelp("n/→", "next file"),
		),
		Prev: key.NewBinding(
			key.WithKeys("p", "left", "h"),
			key.WithHelp("p/←", "previous file"),
		),
		Play: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "play"),
		),
		Download: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "download"),
		),
		CopyLink: key.NewBinding(
			key.WithKeys("c", "y"),
			key.WithHelp("c", "copy direct link"),
		),
		Customise: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "customise link"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
			key.WithDisabled(),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Download, k.CopyLink, k.Customise, k.Retry, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Play, k.Download, k.CopyLink, k.Customise},
		{k.Next, k.Prev, k.Retry},
		{k.Help, k.Quit},
	}
}
