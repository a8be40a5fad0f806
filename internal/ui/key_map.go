package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	left     key.Binding
	right    key.Binding
	focus    key.Binding
	toggle   key.Binding
	clear    key.Binding
	generate key.Binding
	download key.Binding
	retry    key.Binding
	dismiss  key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "decrease")),
		right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "increase")),
		focus:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch panel")),
		toggle:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle chord")),
		clear:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear selection")),
		generate: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate")),
		download: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "download")),
		retry:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry catalog")),
		dismiss:  key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "dismiss")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.generate, k.download, k.focus, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.left, k.right},
		{k.focus, k.toggle, k.clear},
		{k.generate, k.download, k.retry, k.quit},
	}
}
