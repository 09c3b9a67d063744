package reader

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	readerdto "lectern/internal/modules/reader/dto"
	"lectern/internal/ui/theme"
)

type Port interface {
	Open(ctx context.Context, bookID string) (readerdto.SectionOutput, error)
	Navigate(ctx context.Context, bookID string, delta int) (readerdto.SectionOutput, error)
	SampleText(ctx context.Context) (readerdto.SampleOutput, error)
	PlanReveal(text string, speed int, mode string) (readerdto.RevealPlan, error)
}

// OpenedMsg carries a freshly loaded section, from a book or the sample text.
type OpenedMsg struct {
	Section readerdto.SectionOutput
	Err     error
}

type SampleLoadedMsg struct {
	Sample readerdto.SampleOutput
	Err    error
}

type CopiedMsg struct {
	Err error
}

// revealTickMsg is only honoured when gen matches the current reveal, so
// ticks left over from a cancelled reveal are dropped.
type revealTickMsg struct {
	gen int
}

type Model struct {
	port     Port
	viewport viewport.Model
	spinner  spinner.Model
	page     theme.Page
	loading  bool
	err      error

	section readerdto.SectionOutput
	sample  *readerdto.SampleOutput

	plan     readerdto.RevealPlan
	pos      int
	revealed string
	gen      int
	speed    int
	mode     string

	width  int
	height int
}

func New(port Port, page theme.Page, speed int, mode string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{
		port:     port,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		page:     page,
		speed:    speed,
		mode:     mode,
	}
}

func (m Model) Init() tea.Cmd { return nil }

// BookID is empty while nothing or only the sample text is open.
func (m Model) BookID() string {
	if m.sample != nil {
		return ""
	}
	return m.section.BookID
}

func (m Model) Revealing() bool {
	return m.pos < len(m.plan.Steps)
}

func (m Model) Speed() int { return m.speed }

func (m *Model) OpenBook(bookID string) tea.Cmd {
	m.stop()
	m.loading = true
	return tea.Batch(m.openCmd(bookID), m.spinner.Tick)
}

func (m *Model) OpenSample() tea.Cmd {
	m.stop()
	m.loading = true
	return tea.Batch(m.sampleCmd(), m.spinner.Tick)
}

// Stop cancels the pending reveal and shows the whole section.
func (m *Model) Stop() {
	m.stop()
	m.refresh()
}

// ApplyTheme takes new layout and reveal settings. A running reveal keeps
// its position when only the speed changes.
func (m *Model) ApplyTheme(page theme.Page, speed int, mode string) tea.Cmd {
	m.page = page
	var cmd tea.Cmd
	if mode != m.mode {
		m.mode = mode
		m.speed = min(max(speed, 1), 10)
		if m.section.Text != "" {
			cmd = m.startReveal()
		}
	} else {
		cmd = m.SetSpeed(speed)
	}
	m.refresh()
	return cmd
}

func (m *Model) SetSpeed(speed int) tea.Cmd {
	speed = min(max(speed, 1), 10)
	if speed == m.speed || !m.Revealing() {
		m.speed = speed
		return nil
	}
	m.speed = speed
	plan, err := m.port.PlanReveal(m.section.Text, m.speed, m.mode)
	if err != nil || len(plan.Steps) != len(m.plan.Steps) {
		return nil
	}
	m.plan = plan
	m.gen++
	return m.tickCmd(0)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.width
		m.viewport.Height = max(m.height-3, 1)
		m.refresh()

	case OpenedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		m.section = msg.Section
		if msg.Section.BookID != "" {
			m.sample = nil
		}
		m.viewport.GotoTop()
		cmds = append(cmds, m.startReveal())

	case SampleLoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err != nil || len(msg.Sample.Sections) == 0 {
			return m, nil
		}
		sample := msg.Sample
		m.sample = &sample
		m.section = sampleSection(sample, 0)
		m.viewport.GotoTop()
		cmds = append(cmds, m.startReveal())

	case revealTickMsg:
		if msg.gen != m.gen || !m.Revealing() {
			return m, nil
		}
		step := m.plan.Steps[m.pos]
		m.revealed += step.Chunk
		m.pos++
		m.refresh()
		m.viewport.GotoBottom()
		if m.Revealing() {
			cmds = append(cmds, m.tickCmd(step.Delay))
		}

	case CopiedMsg:
		m.err = msg.Err

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case " ":
			m.Stop()
			return m, nil
		case "right", "l":
			cmd := m.navigate(1)
			return m, cmd
		case "left", "h":
			cmd := m.navigate(-1)
			return m, cmd
		case "+", "=":
			cmd := m.SetSpeed(m.speed + 1)
			return m, cmd
		case "-", "_":
			cmd := m.SetSpeed(m.speed - 1)
			return m, cmd
		case "y":
			return m, m.copyCmd()
		}
	}

	var vCmd tea.Cmd
	m.viewport, vCmd = m.viewport.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	header := m.renderHeader()
	if m.loading {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			lipgloss.Place(m.width, max(m.height-2, 1), lipgloss.Center, lipgloss.Center, m.spinner.View()+" Loading…"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), m.renderFooter())
}

func (m *Model) navigate(delta int) tea.Cmd {
	if m.sample != nil {
		next := min(max(m.section.Index+delta, 0), len(m.sample.Sections)-1)
		if next == m.section.Index {
			return nil
		}
		m.stop()
		section := sampleSection(*m.sample, next)
		return func() tea.Msg { return OpenedMsg{Section: section} }
	}
	if m.section.BookID == "" {
		return nil
	}
	m.stop()
	bookID := m.section.BookID
	return func() tea.Msg {
		out, err := m.port.Navigate(context.Background(), bookID, delta)
		return OpenedMsg{Section: out, Err: err}
	}
}

func (m *Model) startReveal() tea.Cmd {
	m.stop()
	m.revealed = ""
	m.pos = 0
	plan, err := m.port.PlanReveal(m.section.Text, m.speed, m.mode)
	if err != nil {
		m.err = err
		m.plan = readerdto.RevealPlan{}
		m.refresh()
		return nil
	}
	m.plan = plan
	m.refresh()
	return m.tickCmd(0)
}

// stop invalidates outstanding ticks and reveals the rest of the section.
func (m *Model) stop() {
	m.gen++
	for m.Revealing() {
		m.revealed += m.plan.Steps[m.pos].Chunk
		m.pos++
	}
}

func (m *Model) refresh() {
	body := m.revealed
	if m.section.Text == "" {
		body = theme.Muted.Render("Pick a book in the Library tab, or press t for the sample text.")
	} else {
		body = m.page.Render(body, m.width)
	}
	m.viewport.SetContent(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body))
}

func (m Model) tickCmd(d time.Duration) tea.Cmd {
	gen := m.gen
	if d <= 0 {
		return func() tea.Msg { return revealTickMsg{gen: gen} }
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return revealTickMsg{gen: gen} })
}

func (m Model) renderHeader() string {
	if m.section.Text == "" {
		return theme.Title.Render("Reader") + "\n"
	}
	title := m.section.Title
	if m.section.SectionTitle != "" {
		title += " · " + m.section.SectionTitle
	}
	pos := fmt.Sprintf("section %d/%d", m.section.Index+1, m.section.Total)
	if m.sample == nil {
		pos += fmt.Sprintf("  %.0f%%", m.section.Percent)
	}
	return theme.Title.Render(title) + "  " + theme.Muted.Render(pos) + "\n"
}

func (m Model) renderFooter() string {
	state := fmt.Sprintf("speed %d  %s", m.speed, m.mode)
	if m.Revealing() {
		state += fmt.Sprintf("  revealing %d/%d", m.pos, len(m.plan.Steps))
	}
	if m.err != nil {
		state += "  " + theme.Bad.Render(m.err.Error())
	}
	keys := "  space: show all  ←/→: section  +/-: speed  y: copy"
	return theme.Muted.Render(state + keys)
}

func (m Model) openCmd(bookID string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Open(context.Background(), bookID)
		return OpenedMsg{Section: out, Err: err}
	}
}

func (m Model) sampleCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.SampleText(context.Background())
		return SampleLoadedMsg{Sample: out, Err: err}
	}
}

func (m Model) copyCmd() tea.Cmd {
	text := m.section.Text
	if text == "" {
		return nil
	}
	return func() tea.Msg {
		return CopiedMsg{Err: clipboard.WriteAll(text)}
	}
}

func sampleSection(sample readerdto.SampleOutput, index int) readerdto.SectionOutput {
	return readerdto.SectionOutput{
		Title: sample.Title,
		Index: index,
		Total: len(sample.Sections),
		Text:  sample.Sections[index],
	}
}
