package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/meshforce/pkg/layout"
	"github.com/matzehuels/meshforce/pkg/pipeline"
)

var (
	barFullStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
)

const defaultBarWidth = 40

// =============================================================================
// ProgressModel - Live iteration view for `layout --watch`
// =============================================================================

type iterationMsg layout.Iteration

type runDoneMsg struct {
	res *pipeline.Result
	err error
}

// ProgressModel is the bubbletea model that follows a running layout.
type ProgressModel struct {
	Source string
	Total  int
	Last   layout.Iteration
	Seen   int

	Result   *pipeline.Result
	Err      error
	Stopping bool

	cancel context.CancelFunc
	width  int
}

// NewProgressModel creates a model for a run of total iterations. cancel is
// called when the user interrupts.
func NewProgressModel(source string, total int, cancel context.CancelFunc) ProgressModel {
	return ProgressModel{Source: source, Total: total, cancel: cancel, width: defaultBarWidth}
}

func (m ProgressModel) Init() tea.Cmd {
	return nil
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			// The run returns context.Canceled, which ends the program.
			if !m.Stopping && m.cancel != nil {
				m.cancel()
			}
			m.Stopping = true
		}
	case tea.WindowSizeMsg:
		m.width = min(max(msg.Width-30, 10), 80)
	case iterationMsg:
		m.Last = layout.Iteration(msg)
		m.Seen++
	case runDoneMsg:
		m.Result, m.Err = msg.res, msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m ProgressModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Layout " + m.Source))
	b.WriteString("\n\n")
	b.WriteString(m.bar())
	fmt.Fprintf(&b, " %d/%d\n", m.Seen, m.Total)

	if m.Seen > 0 {
		b.WriteString(styleDim.Render(fmt.Sprintf("temp %.4g · max step %.4g · moved %d",
			m.Last.Temperature, m.Last.MaxStep, m.Last.Moved)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.Stopping {
		b.WriteString(styleWarning.Render("stopping..."))
	} else {
		b.WriteString(styleDim.Render("q quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m ProgressModel) bar() string {
	filled := m.width
	if m.Total > 0 {
		filled = m.Seen * m.width / m.Total
	}
	filled = min(filled, m.width)
	return barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", m.width-filled))
}

// watchRun runs the pipeline on path while drawing a live progress view to
// out.
func watchRun(ctx context.Context, runner *pipeline.Runner, path string, opts pipeline.Options, in io.Reader, out io.Writer) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(
		NewProgressModel(path, opts.Iterations, cancel),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	opts.Observer = func(it layout.Iteration) { p.Send(iterationMsg(it)) }

	go func() {
		res, err := runner.Run(ctx, path, opts)
		p.Send(runDoneMsg{res: res, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress view: %w", err)
	}
	fm := final.(ProgressModel)
	return fm.Result, fm.Err
}
