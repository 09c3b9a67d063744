package settings

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	prefdto "lectern/internal/modules/preferences/dto"
	"lectern/internal/ui/theme"
)

type Port interface {
	Theme(ctx context.Context) (prefdto.ThemeOutput, error)
	Save(ctx context.Context, theme prefdto.ThemeOutput) (prefdto.ThemeOutput, error)
	Reset(ctx context.Context) (prefdto.ThemeOutput, error)
}

// ThemeSavedMsg is emitted after a load, save or reset.
type ThemeSavedMsg struct {
	Theme prefdto.ThemeOutput
	Saved bool
	Err   error
}

type field struct {
	label string
	input textinput.Model
}

const (
	fieldFamily = iota
	fieldSize
	fieldColor
	fieldLineHeight
	fieldSpeed
	fieldMode
	fieldCount
)

var labels = [fieldCount]string{"Font family", "Font size", "Text color", "Line height", "Reveal speed", "Reveal mode"}

type Model struct {
	port    Port
	fields  [fieldCount]field
	cursor  int
	editing bool
	current prefdto.ThemeOutput
	status  string
	err     error
	width   int
	height  int
}

func New(port Port) Model {
	m := Model{port: port}
	for i := range m.fields {
		ti := textinput.New()
		ti.CharLimit = 32
		ti.Prompt = ""
		m.fields[i] = field{label: labels[i], input: ti}
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		t, err := m.port.Theme(context.Background())
		return ThemeSavedMsg{Theme: t, Err: err}
	}
}

// Editing reports whether a field has keyboard focus. Global shortcuts must
// yield while it does.
func (m Model) Editing() bool { return m.editing }

func (m Model) Theme() prefdto.ThemeOutput { return m.current }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case ThemeSavedMsg:
		m.err = msg.Err
		if msg.Err != nil {
			m.status = ""
			return m, nil
		}
		m.current = msg.Theme
		m.fill()
		if msg.Saved {
			m.status = "saved"
		}

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		switch msg.String() {
		case "up", "k":
			m.cursor = (m.cursor + fieldCount - 1) % fieldCount
		case "down", "j":
			m.cursor = (m.cursor + 1) % fieldCount
		case "enter":
			m.editing = true
			m.status = ""
			input := &m.fields[m.cursor].input
			input.CursorEnd()
			return m, input.Focus()
		case "r":
			return m, m.resetCmd()
		}
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.fields[m.cursor].input.Blur()
		m.fill()
		return m, nil
	case "enter":
		m.editing = false
		m.fields[m.cursor].input.Blur()
		next, err := m.collect()
		if err != nil {
			m.err = err
			return m, nil
		}
		return m, m.saveCmd(next)
	}
	var cmd tea.Cmd
	m.fields[m.cursor].input, cmd = m.fields[m.cursor].input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Reader settings") + "\n\n")
	for i, f := range m.fields {
		marker := "  "
		label := theme.Muted.Render(fmt.Sprintf("%-13s", f.label))
		if i == m.cursor {
			marker = theme.Hot.Render("› ")
		}
		sb.WriteString(marker + label + " " + f.input.View() + "\n")
	}
	sb.WriteString("\n")
	switch {
	case m.err != nil:
		sb.WriteString(theme.Bad.Render(m.err.Error()) + "\n")
	case m.status != "":
		sb.WriteString(theme.Good.Render(m.status) + "\n")
	}
	preview := theme.Page{FontSize: m.current.FontSize, TextColor: m.current.TextColor, LineHeight: m.current.LineHeight}
	sb.WriteString("\n" + preview.Render("The quick brown fox jumps over the lazy dog.", m.width-4) + "\n\n")
	sb.WriteString(theme.Muted.Render("↑/↓: select  enter: edit/save  esc: cancel  r: reset to defaults"))
	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}

func (m *Model) fill() {
	t := m.current
	values := [fieldCount]string{
		t.FontFamily,
		strconv.Itoa(t.FontSize),
		t.TextColor,
		strconv.FormatFloat(t.LineHeight, 'f', -1, 64),
		strconv.Itoa(t.RevealSpeed),
		t.RevealMode,
	}
	for i := range m.fields {
		m.fields[i].input.SetValue(values[i])
	}
}

// collect parses the form. Range checks are left to the preferences module.
func (m Model) collect() (prefdto.ThemeOutput, error) {
	next := prefdto.ThemeOutput{
		FontFamily: strings.TrimSpace(m.fields[fieldFamily].input.Value()),
		TextColor:  strings.TrimSpace(m.fields[fieldColor].input.Value()),
		RevealMode: strings.TrimSpace(m.fields[fieldMode].input.Value()),
	}
	var err error
	if next.FontSize, err = strconv.Atoi(strings.TrimSpace(m.fields[fieldSize].input.Value())); err != nil {
		return prefdto.ThemeOutput{}, fmt.Errorf("font size must be a whole number")
	}
	if next.LineHeight, err = strconv.ParseFloat(strings.TrimSpace(m.fields[fieldLineHeight].input.Value()), 64); err != nil {
		return prefdto.ThemeOutput{}, fmt.Errorf("line height must be a number")
	}
	if next.RevealSpeed, err = strconv.Atoi(strings.TrimSpace(m.fields[fieldSpeed].input.Value())); err != nil {
		return prefdto.ThemeOutput{}, fmt.Errorf("reveal speed must be a whole number")
	}
	return next, nil
}

func (m Model) saveCmd(next prefdto.ThemeOutput) tea.Cmd {
	return func() tea.Msg {
		saved, err := m.port.Save(context.Background(), next)
		return ThemeSavedMsg{Theme: saved, Saved: err == nil, Err: err}
	}
}

func (m Model) resetCmd() tea.Cmd {
	return func() tea.Msg {
		t, err := m.port.Reset(context.Background())
		return ThemeSavedMsg{Theme: t, Saved: err == nil, Err: err}
	}
}
