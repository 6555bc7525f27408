package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/linebreak/pkg/knuth"
	"github.com/matzehuels/linebreak/pkg/pipeline"
	"github.com/matzehuels/linebreak/pkg/text"
)

var (
	previewRulerStyle = lipgloss.NewStyle().Foreground(colorDim)
	previewStatStyle  = lipgloss.NewStyle().Foreground(colorGray)
	previewErrStyle   = lipgloss.NewStyle().Foreground(colorRed)
)

const minPreviewColumns = 8

// previewAlignments is the cycle of the "a" key.
var previewAlignments = []string{"justify", "start", "center", "end"}

// =============================================================================
// PreviewModel - Interactive width preview
// =============================================================================

// PreviewModel is the bubbletea model of the preview command. It rebreaks
// the text whenever the width, alignment or hyphenation changes.
type PreviewModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	input  string
	base   pipeline.Options

	Columns   int
	Align     int
	Hyphenate bool

	// FixedWidth stops the width from following the terminal.
	FixedWidth bool

	Height int
	Offset int

	res      *pipeline.Result
	rendered []string
	err      error
}

// NewPreviewModel breaks input at the given width in columns.
func NewPreviewModel(ctx context.Context, runner *pipeline.Runner, input string, base pipeline.Options, columns int) PreviewModel {
	m := PreviewModel{
		ctx:       ctx,
		runner:    runner,
		input:     input,
		base:      base,
		Columns:   max(columns, minPreviewColumns),
		Hyphenate: base.Hyphenate,
		Height:    20,
	}
	if a, err := knuth.ParseAlignment(base.Alignment); err == nil {
		for i, name := range previewAlignments {
			if name == a.String() {
				m.Align = i
			}
		}
	}
	m.reflow()
	return m
}

func (m *PreviewModel) reflow() {
	opts := m.base.Clone()
	units := opts.UnitsPerCell
	if units <= 0 {
		units = text.DefaultUnitsPerCell
	}
	opts.Width = m.Columns * units
	opts.FirstWidth, opts.Widths = 0, nil
	opts.Alignment = previewAlignments[m.Align]
	opts.Hyphenate = m.Hyphenate
	if err := opts.ValidateAndSetDefaults(); err != nil {
		m.err = err
		return
	}

	res, err := m.runner.BreakText(m.ctx, m.input, opts)
	if err != nil {
		m.err = err
		return
	}
	align, last := opts.Alignments()
	m.res, m.err = res, nil
	m.rendered = strings.Split(text.Render(res.Lines, align, last, opts.UnitsPerCell), "\n")
	if m.Offset > len(m.rendered)-1 {
		m.Offset = max(len(m.rendered)-1, 0)
	}
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.Columns > minPreviewColumns {
				m.Columns--
				m.FixedWidth = true
				m.reflow()
			}
		case "right", "l":
			m.Columns++
			m.FixedWidth = true
			m.reflow()
		case "a":
			m.Align = (m.Align + 1) % len(previewAlignments)
			m.reflow()
		case "y":
			m.Hyphenate = !m.Hyphenate
			m.reflow()
		case "up", "k":
			if m.Offset > 0 {
				m.Offset--
			}
		case "down", "j":
			if m.Offset < len(m.rendered)-m.Height {
				m.Offset++
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
		if !m.FixedWidth && msg.Width-2 >= minPreviewColumns {
			m.Columns = msg.Width - 2
			m.reflow()
		}
	}
	return m, nil
}

func (m PreviewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Preview"))
	b.WriteString(" ")
	b.WriteString(previewStatStyle.Render(fmt.Sprintf("%d columns · %s", m.Columns, previewAlignments[m.Align])))
	if m.Hyphenate {
		b.WriteString(previewStatStyle.Render(" · hyphenate"))
	}
	b.WriteString("\n")
	b.WriteString(previewRulerStyle.Render(strings.Repeat("─", m.Columns)))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(previewErrStyle.Render(m.err.Error()))
		b.WriteString("\n")
	} else {
		end := min(m.Offset+m.Height, len(m.rendered))
		for _, line := range m.rendered[m.Offset:end] {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString(previewRulerStyle.Render(strings.Repeat("─", m.Columns)))
		b.WriteString("\n")
		b.WriteString(previewStatStyle.Render(fmt.Sprintf("%s · %s · demerits %.1f",
			plural(len(m.res.Parts), "line"), plural(m.res.Passes, "pass"), m.res.Demerits)))
		if m.res.Overflow {
			b.WriteString(" " + styleOverflow.Render("overflow"))
		}
		b.WriteString("\n")
	}
	b.WriteString(StyleDim.Render("←/→ width  a align  y hyphenate  ↑/↓ scroll  q quit"))
	return b.String()
}
