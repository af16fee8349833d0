package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	m "makemod.dev/pkg/makemod/internal/model"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	numberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// DisplaySummary shows the generation results, paginating interactively
// only when the fragment listing exceeds the terminal height.
func (p *TUI) DisplaySummary(ctx context.Context, summary m.Summary, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if err != nil {
		fmt.Fprintf(p.output, "%s %v\n", errorStyle.Render("generation error:"), err)
		return err
	}

	model := newFragmentListModel(summary)

	// Get initial terminal size
	if f, ok := p.output.(*os.File); ok {
		width, height, sizeErr := term.GetSize(int(f.Fd()))
		if sizeErr == nil {
			model.height = height
			model.width = width
		}
	}

	// If the listing is small, just print and exit
	if !model.needsPagination() {
		_, printErr := fmt.Fprint(p.output, model.View())
		return printErr
	}

	program := tea.NewProgram(model, tea.WithOutput(p.output), tea.WithAltScreen())
	if _, runErr := program.Run(); runErr != nil {
		return runErr
	}

	return nil
}

// listKeyMap defines the navigation keys for the fragment listing.
type listKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Quit     key.Binding
}

var listKeys = listKeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k")),
	Down:     key.NewBinding(key.WithKeys("down", "j")),
	PageUp:   key.NewBinding(key.WithKeys("u", "pgup")),
	PageDown: key.NewBinding(key.WithKeys("d", "pgdown")),
	Top:      key.NewBinding(key.WithKeys("g", "home")),
	Bottom:   key.NewBinding(key.WithKeys("G", "end")),
	Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
}

// fragmentListModel is the Bubble Tea model for displaying written fragments.
type fragmentListModel struct {
	summary  m.Summary
	height   int
	width    int
	offset   int
	quitting bool
}

func newFragmentListModel(summary m.Summary) fragmentListModel {
	return fragmentListModel{summary: summary}
}

func (flm fragmentListModel) Init() tea.Cmd {
	return nil
}

func (flm fragmentListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		flm.height = msg.Height
		flm.width = msg.Width

		return flm, nil

	case tea.KeyMsg:
		return flm.handleKeyPress(msg)
	}

	return flm, nil
}

func (flm fragmentListModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, listKeys.Quit):
		flm.quitting = true
		return flm, tea.Quit

	case key.Matches(msg, listKeys.Down):
		flm.offset = clamp(flm.offset+1, 0, flm.maxOffset())

	case key.Matches(msg, listKeys.Up):
		flm.offset = clamp(flm.offset-1, 0, flm.maxOffset())

	case key.Matches(msg, listKeys.Top):
		flm.offset = 0

	case key.Matches(msg, listKeys.Bottom):
		flm.offset = flm.maxOffset()

	case key.Matches(msg, listKeys.PageDown):
		flm.offset = clamp(flm.offset+flm.itemsPerPage(), 0, flm.maxOffset())

	case key.Matches(msg, listKeys.PageUp):
		flm.offset = clamp(flm.offset-flm.itemsPerPage(), 0, flm.maxOffset())
	}

	return flm, nil
}

// itemsPerPage calculates how many fragment rows fit on screen, reserving
// space for the title, the totals line, and the help footer.
func (flm fragmentListModel) itemsPerPage() int {
	if flm.height == 0 {
		return 10 // Default
	}

	reserved := 8

	available := flm.height - reserved
	if available < 1 {
		return 1
	}

	return available
}

// maxOffset returns the maximum scroll offset.
func (flm fragmentListModel) maxOffset() int {
	max := len(flm.summary.Fragments) - flm.itemsPerPage()
	if max < 0 {
		return 0
	}

	return max
}

// needsPagination reports whether the listing overflows one screen.
func (flm fragmentListModel) needsPagination() bool {
	return len(flm.summary.Fragments) > flm.itemsPerPage()
}

func (flm fragmentListModel) View() string {
	if flm.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("makemod: generated build fragments"))
	b.WriteString("\n\n")

	end := flm.offset + flm.itemsPerPage()
	if end > len(flm.summary.Fragments) {
		end = len(flm.summary.Fragments)
	}

	for _, frag := range flm.summary.Fragments[flm.offset:end] {
		fmt.Fprintf(&b, "  %s %s\n",
			string(frag.Path),
			dimStyle.Render(fmt.Sprintf("(%s variables, %s files)",
				numberStyle.Render(fmt.Sprintf("%d", frag.Bindings)),
				numberStyle.Render(fmt.Sprintf("%d", frag.Files)))))
	}

	fmt.Fprintf(&b, "\n  %d fragments, %d test groups: %s\n",
		len(flm.summary.Fragments), len(flm.summary.Groups),
		strings.Join(flm.summary.Groups, ", "))

	if flm.needsPagination() {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  j/k scroll · u/d page · g/G jump · q quit"))
		b.WriteString("\n")
	}

	return b.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
