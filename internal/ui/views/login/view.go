package login

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	authdto "lectern/internal/modules/auth/dto"
	"lectern/internal/ui/theme"
)

type Port interface {
	Status(ctx context.Context) (authdto.StatusOutput, error)
	Login(ctx context.Context, openBrowser bool) (authdto.LoginOutput, error)
	SaveToken(ctx context.Context, token string) (authdto.StatusOutput, error)
}

var errNotSignedIn = errors.New("the server does not recognise this session yet")

// StatusMsg reports the session state after a check or a pasted token.
type StatusMsg struct {
	Status authdto.StatusOutput
	Err    error
}

type loginURLMsg struct {
	out authdto.LoginOutput
	err error
}

type Model struct {
	port   Port
	token  textinput.Model
	url    string
	opened bool
	reason string
	err    error
	width  int
	height int
}

func New(port Port) Model {
	ti := textinput.New()
	ti.Placeholder = "paste the token shown after signing in"
	ti.EchoMode = textinput.EchoPassword
	ti.CharLimit = 4096
	ti.Width = 48
	return Model{port: port, token: ti}
}

// Activate resets the form and fetches the login URL. reason is shown above
// the instructions.
func (m *Model) Activate(reason string) tea.Cmd {
	m.reason = reason
	m.err = nil
	m.token.SetValue("")
	return tea.Batch(m.token.Focus(), m.urlCmd(false))
}

func (m Model) CheckCmd() tea.Cmd {
	return func() tea.Msg {
		st, err := m.port.Status(context.Background())
		return StatusMsg{Status: st, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.token.Width = min(max(m.width-10, 10), 72)

	case loginURLMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.url = msg.out.URL
		m.opened = m.opened || msg.out.Opened

	case StatusMsg:
		switch {
		case msg.Err != nil:
			m.err = msg.Err
		case !msg.Status.Authenticated:
			m.err = errNotSignedIn
		default:
			m.err = nil
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+o":
			return m, m.urlCmd(true)
		case "enter":
			token := strings.TrimSpace(m.token.Value())
			if token == "" {
				return m, m.CheckCmd()
			}
			return m, m.saveCmd(token)
		}
	}
	var cmd tea.Cmd
	m.token, cmd = m.token.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Sign in") + "\n\n")
	if m.reason != "" {
		sb.WriteString(theme.Hot.Render(m.reason) + "\n\n")
	}
	sb.WriteString("1. Open the sign-in page in a browser:\n   ")
	if m.url != "" {
		sb.WriteString(theme.Good.Render(m.url))
	} else {
		sb.WriteString(theme.Muted.Render("…"))
	}
	if m.opened {
		sb.WriteString(theme.Muted.Render("  (opened)"))
	}
	sb.WriteString("\n\n2. Paste the token here and press enter:\n   " + m.token.View() + "\n\n")
	sb.WriteString(theme.Muted.Render("   With a cookie session, just press enter to check again.") + "\n\n")
	if m.err != nil {
		sb.WriteString(theme.Bad.Render(m.err.Error()) + "\n\n")
	}
	sb.WriteString(theme.Muted.Render("ctrl+o: open browser  enter: continue  ctrl+c: quit"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, sb.String())
}

func (m Model) urlCmd(open bool) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Login(context.Background(), open)
		return loginURLMsg{out: out, err: err}
	}
}

func (m Model) saveCmd(token string) tea.Cmd {
	return func() tea.Msg {
		st, err := m.port.SaveToken(context.Background(), token)
		return StatusMsg{Status: st, Err: err}
	}
}
