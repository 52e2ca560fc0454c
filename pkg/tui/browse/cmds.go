package browse

import (
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/wherein/pkg/profile"
	"tableflip.dev/wherein/pkg/viewcount"
)

func (m *Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return savedRefreshedMsg{err: m.sess.Refresh(m.ctx)}
	}
}

func (m *Model) toggleCmd(name string) tea.Cmd {
	return func() tea.Msg {
		state, err := m.sess.Toggle(m.ctx, name)
		return toggledMsg{name: name, state: state, err: err}
	}
}

// activateCmd starts a view of name synchronously, so the detail shows the
// unknown count until the increment returns.
func (m *Model) activateCmd(name string) tea.Cmd {
	ticket, err := m.sess.BeginView(name)
	if err != nil {
		return func() tea.Msg {
			return viewedMsg{name: name, display: viewcount.Display{State: viewcount.Failed}, err: err}
		}
	}
	return func() tea.Msg {
		d, err := m.sess.FinishView(m.ctx, name, ticket)
		return viewedMsg{name: name, display: d, err: err}
	}
}

func (m *Model) profileCmd() tea.Cmd {
	return func() tea.Msg {
		svc := m.sess.Profile()
		p, err := svc.Newest(m.ctx)
		msg := profileMsg{err: err}
		if err == nil {
			msg.greeting = profile.Greeting(p)
		}
		if draft, ok, _ := svc.Draft(); ok && !draft.IsZero() {
			msg.draft = true
		}
		return msg
	}
}

func (m *Model) draftStatusCmd() tea.Cmd {
	return func() tea.Msg {
		draft, ok, err := m.sess.Profile().Draft()
		return profileMsg{draft: ok && !draft.IsZero(), err: err}
	}
}

func (m *Model) waitSavedCmd() tea.Cmd {
	events := m.sess.Synchronizer().Events()
	return func() tea.Msg {
		select {
		case evt := <-events:
			return savedChangedMsg(evt)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) waitDraftCmd() tea.Cmd {
	ch := m.drafts
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		return draftMsg{event: ev, ok: ok}
	}
}
