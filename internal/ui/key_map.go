package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the confirmation and progress views.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	accept key.Binding
	reject key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		accept: key.NewBinding(key.WithKeys("y", "Y", "enter"), key.WithHelp("y/enter", "accept best")),
		reject: key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "reject")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "abort run")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.accept, k.reject, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down},
		{k.accept, k.reject, k.quit},
	}
}
