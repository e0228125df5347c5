package termview

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the terminal view.
type KeyMap struct {
	Back       key.Binding
	Forward    key.Binding
	BackDay    key.Binding
	ForwardDay key.Binding
	NextFull   key.Binding
	NextNew    key.Binding
	Now        key.Binding
	Details    key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default keybinding configuration.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Back: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "-1h"),
		),
		Forward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "+1h"),
		),
		BackDay: key.NewBinding(
			key.WithKeys("shift+left", "H", "["),
			key.WithHelp("[", "-1d"),
		),
		ForwardDay: key.NewBinding(
			key.WithKeys("shift+right", "L", "]"),
			key.WithHelp("]", "+1d"),
		),
		NextFull: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "next full"),
		),
		NextNew: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next new"),
		),
		Now: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "now"),
		),
		Details: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "details"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// footerBindings returns the bindings shown in the footer, in order.
func footerBindings(km KeyMap) []key.Binding {
	return []key.Binding{km.Back, km.Forward, km.BackDay, km.ForwardDay, km.NextFull, km.NextNew, km.Now, km.Details, km.Quit}
}
