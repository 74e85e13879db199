// Package teatest drives bubbletea models synchronously in tests.
//
// Messages go straight to Update and the returned commands are executed
// inline until they stop producing messages, so no tea.Program or goroutine
// scheduling is involved.
package teatest

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxDepth bounds command chains that keep producing messages.
const maxDepth = 50

// cmdTimeout skips commands that wait on timers (cursor blink, ticks).
const cmdTimeout = 10 * time.Millisecond

// Driver holds the current model between sends.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a command returns tea.QuitMsg.
	Quitting bool
}

// Option adjusts a Driver before the first message.
type Option func(*Driver)

// WithSize delivers a WindowSizeMsg up front.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// New wraps model and runs its Init command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	d.drain(d.Model.Init(), 0)
	return d
}

// Send passes msg to the model and drains what it returns. Sends after
// quitting are dropped, like a finished program would.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.drain(cmd, 0)
}

// Press sends a named key ("enter", "down", "esc", "ctrl+c") or, for any
// other string, the runes it contains.
func (d *Driver) Press(keys ...string) {
	d.T.Helper()
	for _, k := range keys {
		d.Send(keyMsg(k))
	}
}

// View renders the current model.
func (d *Driver) View() string {
	return d.Model.View()
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= maxDepth {
		d.T.Logf("teatest: command chain deeper than %d, stopping", maxDepth)
		return
	}
	msg := run(cmd)
	switch msg := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, c := range msg {
			d.drain(c, depth+1)
		}
	case tea.QuitMsg:
		d.Quitting = true
	default:
		var next tea.Cmd
		d.Model, next = d.Model.Update(msg)
		d.drain(next, depth+1)
	}
}

func run(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}
