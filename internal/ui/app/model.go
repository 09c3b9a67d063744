package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	authdto "lectern/internal/modules/auth/dto"
	libdto "lectern/internal/modules/library/dto"
	prefdto "lectern/internal/modules/preferences/dto"
	readerdto "lectern/internal/modules/reader/dto"
	apperrors "lectern/internal/platform/errors"
	"lectern/internal/ui/components"
	"lectern/internal/ui/theme"
	libraryview "lectern/internal/ui/views/library"
	loginview "lectern/internal/ui/views/login"
	readerview "lectern/internal/ui/views/reader"
	settingsview "lectern/internal/ui/views/settings"
)

type authPort interface {
	Status(ctx context.Context) (authdto.StatusOutput, error)
	Login(ctx context.Context, openBrowser bool) (authdto.LoginOutput, error)
	SaveToken(ctx context.Context, token string) (authdto.StatusOutput, error)
	Logout(ctx context.Context) error
}

type libraryPort interface {
	ListBooks(ctx context.Context) (libdto.ListOutput, error)
	UploadBook(ctx context.Context, path, title string) (libdto.UploadOutput, error)
	Export(ctx context.Context, path string) (libdto.ExportOutput, error)
}

type readerPort interface {
	Open(ctx context.Context, bookID string) (readerdto.SectionOutput, error)
	Navigate(ctx context.Context, bookID string, delta int) (readerdto.SectionOutput, error)
	Touch(ctx context.Context, bookID string) (readerdto.ProgressOutput, error)
	SampleText(ctx context.Context) (readerdto.SampleOutput, error)
	PlanReveal(text string, speed int, mode string) (readerdto.RevealPlan, error)
}

type settingsPort interface {
	Theme(ctx context.Context) (prefdto.ThemeOutput, error)
	Save(ctx context.Context, theme prefdto.ThemeOutput) (prefdto.ThemeOutput, error)
	Reset(ctx context.Context) (prefdto.ThemeOutput, error)
}

type tabID int

const (
	tabLibrary tabID = iota
	tabReader
	tabSettings
	tabCount
)

var tabLabels = [tabCount]string{"Library", "Reader", "Settings"}

type uploadedMsg struct {
	out libdto.UploadOutput
	err error
}

type exportedMsg struct {
	out libdto.ExportOutput
	err error
}

type touchedMsg struct{ err error }

type loggedOutMsg struct{ err error }

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Enter   key.Binding
	Refresh key.Binding
	Sample  key.Binding
	Section key.Binding
	Speed   key.Binding
	Reveal  key.Binding
	Copy    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read book")),
		Refresh: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "refresh library")),
		Sample:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "sample text")),
		Section: key.NewBinding(key.WithKeys("left", "right", "h", "l"), key.WithHelp("←/→", "section")),
		Speed:   key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "reveal speed")),
		Reveal:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "show all")),
		Copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy section")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Enter, k.Refresh, k.Sample},
		{k.Section, k.Speed, k.Reveal, k.Copy},
		{k.Help, k.Palette, k.Quit},
	}
}

// Model is the root Bubble Tea model. It routes tabs and falls back to the
// login screen whenever the API rejects the session.
type Model struct {
	auth    authPort
	library libraryPort
	reader  readerPort

	libView      libraryview.Model
	readView     readerview.Model
	settingsView settingsview.Model
	loginView    loginview.Model

	authenticated bool
	checking      bool
	started       bool
	user          string

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

func NewModel(auth authPort, library libraryPort, reader readerPort, settings settingsPort, pollInterval time.Duration) Model {
	return Model{
		auth:         auth,
		library:      library,
		reader:       reader,
		libView:      libraryview.New(library, pollInterval),
		readView:     readerview.New(reader, theme.Page{FontSize: 16, LineHeight: 1.5}, 5, "word"),
		settingsView: settingsview.New(settings),
		loginView:    loginview.New(auth),
		checking:     true,
		activeTab:    tabLibrary,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "checking session…",
	}
}

func (m Model) Init() tea.Cmd {
	return m.loginView.CheckCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette owns the keyboard while open. Everything else, reveal and
	// poll ticks included, keeps flowing to the views.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, cmd
		}
		cmds = append(cmds, cmd)
	}

	if err := messageError(msg); errors.Is(err, apperrors.ErrUnauthorized) && m.authenticated {
		cmd := m.requireLogin("Your session has expired. Sign in again.")
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case loginview.StatusMsg:
		first := m.checking
		m.checking = false
		var cmd tea.Cmd
		m.loginView, cmd = m.loginView.Update(msg)
		cmds = append(cmds, cmd)
		if msg.Err != nil && !errors.Is(msg.Err, apperrors.ErrInvalidInput) {
			m.status = "auth: " + msg.Err.Error()
		}
		if msg.Err == nil && msg.Status.Authenticated {
			m.authenticated = true
			m.user = firstNonEmpty(msg.Status.UserName, msg.Status.UserEmail)
			m.status = "signed in"
			if !m.started {
				m.started = true
				cmds = append(cmds, m.libView.Init(), m.settingsView.Init())
			} else {
				cmds = append(cmds, m.libView.Refresh())
			}
		} else if first {
			reason := ""
			if msg.Err != nil {
				reason = "Could not check the session: " + msg.Err.Error()
			}
			cmds = append(cmds, m.loginView.Activate(reason))
		}
		return m, tea.Batch(cmds...)

	case loggedOutMsg:
		if msg.err != nil {
			m.status = "logout: " + msg.err.Error()
		}
		cmd := m.requireLogin("Signed out.")
		return m, cmd

	case settingsview.ThemeSavedMsg:
		var cmd tea.Cmd
		m.settingsView, cmd = m.settingsView.Update(msg)
		cmds = append(cmds, cmd)
		if msg.Err != nil {
			return m, tea.Batch(cmds...)
		}
		t := msg.Theme
		page := theme.Page{FontSize: t.FontSize, TextColor: t.TextColor, LineHeight: t.LineHeight}
		cmds = append(cmds, m.readView.ApplyTheme(page, t.RevealSpeed, t.RevealMode))
		if msg.Saved {
			m.status = "theme saved"
			if id := m.readView.BookID(); id != "" {
				cmds = append(cmds, m.touchCmd(id))
			}
		}
		return m, tea.Batch(cmds...)

	case touchedMsg:
		if msg.err != nil && !errors.Is(msg.err, apperrors.ErrNotFound) {
			m.status = "progress: " + msg.err.Error()
		}
		return m, nil

	case uploadedMsg:
		if msg.err != nil {
			m.status = "upload: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("uploaded %s (%d pages), %s", msg.out.Book.Title, msg.out.LocalPages, msg.out.Book.Status)
		cmd := m.libView.Refresh()
		return m, cmd

	case exportedMsg:
		if msg.err != nil {
			m.status = "export: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("exported %d books to %s", msg.out.Rows, msg.out.Path)
		}
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		return m, nil

	case readerview.OpenedMsg, readerview.SampleLoadedMsg, readerview.CopiedMsg:
		if err := messageError(msg); err != nil {
			m.status = "reader: " + err.Error()
		} else if _, ok := msg.(readerview.CopiedMsg); ok {
			m.status = "section copied to clipboard"
		} else {
			m.activeTab = tabReader
		}
		var cmd tea.Cmd
		m.readView, cmd = m.readView.Update(msg)
		return m, cmd

	case libraryview.BooksLoadedMsg:
		if msg.Err != nil {
			m.status = "library: " + msg.Err.Error()
		} else if msg.Output.Stale {
			m.status = "offline: showing the last known library"
		}
		var cmd tea.Cmd
		m.libView, cmd = m.libView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if !m.authenticated {
			var cmd tea.Cmd
			m.loginView, cmd = m.loginView.Update(msg)
			return m, cmd
		}
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.capturingKeys() {
			break
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			cmd := m.switchTab((m.activeTab + 1) % tabCount)
			return m, cmd
		case "shift+tab":
			cmd := m.switchTab((m.activeTab + tabCount - 1) % tabCount)
			return m, cmd
		case "?":
			m.showHelp = true
			return m, nil
		case ":":
			cmd := m.palette.Open()
			return m, cmd
		case "t":
			cmd := m.readView.OpenSample()
			return m, cmd
		case "enter":
			if m.activeTab == tabLibrary {
				cmd := m.openSelected()
				return m, cmd
			}
		case "u":
			if m.activeTab == tabLibrary {
				cmd := m.libView.Refresh()
				return m, cmd
			}
		}
	}

	if !m.authenticated {
		var cmd tea.Cmd
		m.loginView, cmd = m.loginView.Update(msg)
		return m, cmd
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabLibrary:
		m.libView, tabCmd = m.libView.Update(msg)
	case tabReader:
		m.readView, tabCmd = m.readView.Update(msg)
	case tabSettings:
		m.settingsView, tabCmd = m.settingsView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	// Reveal ticks must reach the reader even while another tab is showing.
	if m.activeTab != tabReader {
		if _, ok := msg.(tea.KeyMsg); !ok {
			var cmd tea.Cmd
			m.readView, cmd = m.readView.Update(msg)
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if !m.authenticated {
		if m.checking {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, theme.Muted.Render(m.status))
		}
		return m.loginView.View()
	}

	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabLibrary:
		return m.libView.View()
	case tabReader:
		return m.readView.View()
	case tabSettings:
		return m.settingsView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "lectern  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.user != "" {
		left = theme.Good.Render("● "+m.user) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	arg := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	switch parts[0] {
	case "open":
		if arg == "" {
			m.status = "usage: open <book-id>"
			return m, nil
		}
		cmd := m.readView.OpenBook(arg)
		return m, cmd
	case "sample":
		cmd := m.readView.OpenSample()
		return m, cmd
	case "refresh":
		m.activeTab = tabLibrary
		cmd := m.libView.Refresh()
		return m, cmd
	case "upload":
		if len(parts) < 2 {
			m.status = "usage: upload <file.pdf> [title]"
			return m, nil
		}
		title := strings.TrimSpace(strings.TrimPrefix(arg, parts[1]))
		m.status = "uploading " + parts[1] + "…"
		return m, m.uploadCmd(parts[1], title)
	case "export":
		if arg == "" {
			m.status = "usage: export <file.xlsx>"
			return m, nil
		}
		return m, m.exportCmd(arg)
	case "speed":
		speed, err := strconv.Atoi(arg)
		if err != nil {
			m.status = "usage: speed <1-10>"
			return m, nil
		}
		cmd := m.readView.SetSpeed(speed)
		return m, cmd
	case "logout":
		return m, m.logoutCmd()
	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// capturingKeys reports whether a sub-view needs raw key input, in which case
// global bindings must yield.
func (m Model) capturingKeys() bool {
	switch m.activeTab {
	case tabLibrary:
		return m.libView.Filtering()
	case tabSettings:
		return m.settingsView.Editing()
	}
	return false
}

func (m *Model) switchTab(next tabID) tea.Cmd {
	if m.activeTab == tabReader && next != tabReader {
		m.readView.Stop()
	}
	m.activeTab = next
	return nil
}

func (m *Model) openSelected() tea.Cmd {
	book, ok := m.libView.Selected()
	if !ok {
		return nil
	}
	if book.Status != "completed" {
		m.status = fmt.Sprintf("%s is %s and cannot be read yet", book.Title, book.Status)
		return nil
	}
	m.status = "opening " + book.Title + "…"
	return m.readView.OpenBook(book.ID)
}

func (m *Model) requireLogin(reason string) tea.Cmd {
	m.authenticated = false
	m.user = ""
	m.palette.Close()
	m.readView.Stop()
	m.status = reason
	return m.loginView.Activate(reason)
}

func (m *Model) propagateSize() {
	inner := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.libView, _ = m.libView.Update(inner)
	m.readView, _ = m.readView.Update(inner)
	m.settingsView, _ = m.settingsView.Update(inner)
	m.loginView, _ = m.loginView.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
}

func (m Model) touchCmd(bookID string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.reader.Touch(context.Background(), bookID)
		return touchedMsg{err: err}
	}
}

func (m Model) uploadCmd(path, title string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.library.UploadBook(context.Background(), path, title)
		return uploadedMsg{out: out, err: err}
	}
}

func (m Model) exportCmd(path string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.library.Export(context.Background(), path)
		return exportedMsg{out: out, err: err}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg{err: m.auth.Logout(context.Background())}
	}
}

// messageError pulls the error out of the async results that can carry a
// rejected session.
func messageError(msg tea.Msg) error {
	switch msg := msg.(type) {
	case libraryview.BooksLoadedMsg:
		return msg.Err
	case readerview.OpenedMsg:
		return msg.Err
	case readerview.SampleLoadedMsg:
		return msg.Err
	case readerview.CopiedMsg:
		return msg.Err
	case settingsview.ThemeSavedMsg:
		return msg.Err
	case uploadedMsg:
		return msg.err
	case exportedMsg:
		return msg.err
	case touchedMsg:
		return msg.err
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
