package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/braynkanth/assistant-tui/api"
)

const (
	focusTo = iota
	focusSubject
	focusBody
)

// composeForm is the transient draft. It exists only while the modal
// is open; discarded on send or explicit discard.
type composeForm struct {
	to      textinput.Model
	subject textinput.Model
	body    textarea.Model
	focus   int

	sending   bool
	rewriting bool
	picker    bool
}

func newComposeForm(to, subject, body string, width int) *composeForm {
	toInput := textinput.New()
	toInput.Placeholder = "recipient@example.com"
	toInput.SetValue(to)
	toInput.Focus()

	subjectInput := textinput.New()
	subjectInput.Placeholder = "Subject"
	subjectInput.SetValue(subject)

	bodyArea := textarea.New()
	bodyArea.Placeholder = "Write your message here..."
	bodyArea.SetValue(body)

	f := &composeForm{
		to:      toInput,
		subject: subjectInput,
		body:    bodyArea,
	}
	f.resize(width)
	return f
}

func (f *composeForm) resize(width int) {
	w := max(30, min(width-12, 76))
	f.to.Width = w
	f.subject.Width = w
	f.body.SetWidth(w)
	f.body.SetHeight(10)
}

// openCompose creates a draft merging the supplied fields with empty
// defaults and opens the modal.
func (m *Model) openCompose(to, subject, body string, cmds *[]tea.Cmd) {
	m.compose = newComposeForm(to, subject, body, m.width)
	*cmds = append(*cmds, textinput.Blink)
}

var rewriteStyles = []struct {
	key   string
	label string
	style api.RewriteStyle
}{
	{"1", "Formal", api.StyleFormal},
	{"2", "Casual", api.StyleCasual},
	{"3", "Shorten", api.StyleShorten},
	{"4", "Fix Grammar", api.StyleFixGrammar},
}

func (m Model) updateCompose(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	f := m.compose

	if f.picker {
		f.picker = false
		for _, rs := range rewriteStyles {
			if msg.String() == rs.key {
				text := f.body.Value()
				if strings.TrimSpace(text) != "" && m.client != nil {
					f.rewriting = true
					cmds = append(cmds, rewriteCmd(m.ctx, m.client, text, rs.style))
				}
				break
			}
		}
		return m, tea.Batch(cmds...)
	}

	switch msg.String() {
	case "esc":
		// Explicit discard.
		m.compose = nil
		m.setStandardStatus()
		return m, nil

	case "tab", "shift+tab":
		if msg.String() == "tab" {
			f.focus = (f.focus + 1) % 3
		} else {
			f.focus = (f.focus + 2) % 3
		}
		f.to.Blur()
		f.subject.Blur()
		f.body.Blur()
		switch f.focus {
		case focusTo:
			cmds = append(cmds, f.to.Focus())
		case focusSubject:
			cmds = append(cmds, f.subject.Focus())
		case focusBody:
			cmds = append(cmds, f.body.Focus())
		}
		return m, tea.Batch(cmds...)

	case "ctrl+s":
		if f.sending || m.client == nil {
			return m, nil
		}
		f.sending = true
		cmds = append(cmds, sendEmailCmd(m.ctx, m.client, f.to.Value(), f.subject.Value(), f.body.Value()))
		return m, tea.Batch(cmds...)

	case "ctrl+r":
		if !f.rewriting && strings.TrimSpace(f.body.Value()) != "" {
			f.picker = true
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch f.focus {
	case focusTo:
		f.to, cmd = f.to.Update(msg)
	case focusSubject:
		f.subject, cmd = f.subject.Update(msg)
	case focusBody:
		f.body, cmd = f.body.Update(msg)
	}
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
