package login

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	authdto "lectern/internal/modules/auth/dto"
)

type recordingPort struct {
	opened []bool
	tokens []string
	checks int
}

func (p *recordingPort) Status(context.Context) (authdto.StatusOutput, error) {
	p.checks++
	return authdto.StatusOutput{}, nil
}

func (p *recordingPort) Login(_ context.Context, open bool) (authdto.LoginOutput, error) {
	p.opened = append(p.opened, open)
	return authdto.LoginOutput{URL: "http://localhost:3000/api/auth/google", Opened: open}, nil
}

func (p *recordingPort) SaveToken(_ context.Context, token string) (authdto.StatusOutput, error) {
	p.tokens = append(p.tokens, token)
	return authdto.StatusOutput{Authenticated: true, UserName: "Ada"}, nil
}

func TestUnauthenticatedStatusShowsHint(t *testing.T) {
	t.Parallel()
	m := New(&recordingPort{})
	m, _ = m.Update(StatusMsg{Status: authdto.StatusOutput{Authenticated: false}})
	if !errors.Is(m.err, errNotSignedIn) {
		t.Fatalf("expected not-signed-in hint, got %v", m.err)
	}
	m, _ = m.Update(StatusMsg{Status: authdto.StatusOutput{Authenticated: true}})
	if m.err != nil {
		t.Fatalf("hint should clear once signed in, got %v", m.err)
	}
}

func TestEnterChecksOrSavesToken(t *testing.T) {
	t.Parallel()
	port := &recordingPort{}
	m := New(port)
	_ = m.Activate("Signed out.")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if _, ok := cmd().(StatusMsg); !ok || port.checks != 1 {
		t.Fatalf("enter with no token should re-check the session")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abc.def")})
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg, ok := cmd().(StatusMsg)
	if !ok || !msg.Status.Authenticated {
		t.Fatalf("unexpected result %#v", msg)
	}
	if len(port.tokens) != 1 || port.tokens[0] != "abc.def" {
		t.Fatalf("unexpected tokens %v", port.tokens)
	}
}

func TestCtrlOOpensBrowser(t *testing.T) {
	t.Parallel()
	port := &recordingPort{}
	m := New(port)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	m, _ = m.Update(cmd())
	if len(port.opened) != 1 || !port.opened[0] {
		t.Fatalf("expected a browser open request, got %v", port.opened)
	}
	if m.url == "" || !m.opened {
		t.Fatalf("expected url and opened flag, got %q %v", m.url, m.opened)
	}
}
