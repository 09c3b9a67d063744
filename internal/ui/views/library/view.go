package library

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	libdto "lectern/internal/modules/library/dto"
	"lectern/internal/ui/theme"
)

type Port interface {
	ListBooks(ctx context.Context) (libdto.ListOutput, error)
}

type BooksLoadedMsg struct {
	Output libdto.ListOutput
	Err    error
}

type refreshTickMsg struct{}

type bookItem struct {
	book libdto.BookOutput
}

func (i bookItem) Title() string { return i.book.Title }

func (i bookItem) Description() string {
	desc := i.book.Status
	if i.book.Author != "" {
		desc = i.book.Author + "  " + desc
	}
	if i.book.HasProgress {
		desc += fmt.Sprintf("  %.0f%%", i.book.Percent)
	}
	return desc
}

func (i bookItem) FilterValue() string { return i.book.Title + " " + i.book.Author }

type Model struct {
	port         Port
	pollInterval time.Duration
	list         list.Model
	preview      viewport.Model
	spinner      spinner.Model
	renderer     *glamour.TermRenderer
	loading      bool
	polling      bool
	stale        bool
	err          error
	width        int
	height       int
}

// New builds the library tab. While any book is still processing the list
// is reloaded every pollInterval.
func New(port Port, pollInterval time.Duration) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Library"
	l.Styles.Title = theme.Title
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Foreground(theme.Text).Padding(0, 1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:         port,
		pollInterval: pollInterval,
		list:         l,
		preview:      vp,
		spinner:      sp,
		loading:      true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.spinner.Tick)
}

// Refresh reloads the listing.
func (m *Model) Refresh() tea.Cmd {
	m.loading = true
	return tea.Batch(m.loadCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case BooksLoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		m.stale = msg.Output.Stale
		items := make([]list.Item, len(msg.Output.Books))
		processing := false
		for i, b := range msg.Output.Books {
			items[i] = bookItem{book: b}
			processing = processing || b.Status == "processing"
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.list.Title = "Library"
		if m.stale {
			m.list.Title = "Library (offline)"
		}
		m.preview.SetContent(m.renderDetail())
		if processing && m.pollInterval > 0 && !m.polling {
			m.polling = true
			cmds = append(cmds, tea.Tick(m.pollInterval, func(time.Time) tea.Msg { return refreshTickMsg{} }))
		}

	case refreshTickMsg:
		m.polling = false
		cmds = append(cmds, m.loadCmd())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		prev := m.list.Index()
		var lCmd tea.Cmd
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prev {
			m.preview.SetContent(m.renderDetail())
		}
		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading && len(m.list.Items()) == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading library…")
	}
	if m.err != nil && len(m.list.Items()) == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Bad.Render("Could not load books: "+m.err.Error())+"\n"+theme.Muted.Render("u: retry"))
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW
	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Width(max(detailW-2, 1)).
		Height(max(m.height-2, 1)).
		Render(m.preview.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

func (m Model) Selected() (libdto.BookOutput, bool) {
	if item, ok := m.list.SelectedItem().(bookItem); ok {
		return item.book, true
	}
	return libdto.BookOutput{}, false
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = max(detailW-4, 1)
	m.preview.Height = max(m.height-4, 1)
	if r, err := glamour.NewTermRenderer(glamour.WithStylePath("dark"), glamour.WithWordWrap(m.preview.Width)); err == nil {
		m.renderer = r
	}
	m.preview.SetContent(m.renderDetail())
}

func (m Model) renderDetail() string {
	book, ok := m.Selected()
	if !ok {
		return theme.Muted.Render("No books yet. Upload one with `lectern books upload <file.pdf>`.")
	}
	md := DetailMarkdown(book)
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(md); err == nil {
			return rendered
		}
	}
	return md
}

// DetailMarkdown describes a book for the detail pane.
func DetailMarkdown(b libdto.BookOutput) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", b.Title)
	if b.Author != "" {
		fmt.Fprintf(&sb, "*by %s*\n\n", b.Author)
	}
	fmt.Fprintf(&sb, "| | |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Status | %s |\n", b.Status)
	if b.PageCount > 0 {
		fmt.Fprintf(&sb, "| Pages | %d |\n", b.PageCount)
	}
	if b.Filename != "" {
		fmt.Fprintf(&sb, "| File | `%s` |\n", b.Filename)
	}
	if !b.UploadedAt.IsZero() {
		fmt.Fprintf(&sb, "| Uploaded | %s |\n", b.UploadedAt.Local().Format("2006-01-02 15:04"))
	}
	if b.HasProgress {
		fmt.Fprintf(&sb, "| Progress | %.0f%% |\n", b.Percent)
	}
	switch b.Status {
	case "processing":
		sb.WriteString("\nThe server is still extracting text from this book.\n")
	case "failed":
		sb.WriteString("\nProcessing failed. Try uploading the file again.\n")
	default:
		sb.WriteString("\nPress **enter** to read.\n")
	}
	return sb.String()
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.ListBooks(context.Background())
		return BooksLoadedMsg{Output: out, Err: err}
	}
}
