// Package tui renders live progress for a generation run.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"threatsim/internal/analyze"
	"threatsim/internal/pipeline"
	"threatsim/internal/tui/styles"
)

// ProgressMsg forwards a pipeline progress tick into the TUI.
type ProgressMsg pipeline.Progress

// DoneMsg signals the end of the run.
type DoneMsg struct {
	Summary *analyze.Summary
	Seed    int64
	Elapsed time.Duration
	Err     error
}

var phaseOrder = []pipeline.Phase{
	pipeline.PhasePopulation,
	pipeline.PhaseSimulation,
	pipeline.PhaseLabeling,
	pipeline.PhaseNoise,
	pipeline.PhaseAnalysis,
	pipeline.PhaseExport,
}

var phaseNames = map[pipeline.Phase]string{
	pipeline.PhasePopulation: "Population",
	pipeline.PhaseSimulation: "Simulation",
	pipeline.PhaseLabeling:   "Labeling",
	pipeline.PhaseNoise:      "Noise",
	pipeline.PhaseAnalysis:   "Analysis",
	pipeline.PhaseExport:     "Export",
}

// Model is the progress view model.
type Model struct {
	current  pipeline.Phase
	reached  map[pipeline.Phase]bool
	done     int
	total    int
	result   *DoneMsg
	width    int
	quitting bool
	cancel   context.CancelFunc
}

// NewModel creates a progress model. cancel aborts the underlying run when
// the user quits early.
func NewModel(cancel context.CancelFunc) *Model {
	return &Model{
		reached: make(map[pipeline.Phase]bool),
		cancel:  cancel,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			if m.result == nil && m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case ProgressMsg:
		m.current = msg.Phase
		m.reached[msg.Phase] = true
		m.done = msg.Done
		m.total = msg.Total
		return m, nil

	case DoneMsg:
		result := DoneMsg(msg)
		m.result = &result
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render("threatsim"))
	b.WriteString("\n")

	for _, phase := range phaseOrder {
		b.WriteString(m.renderPhase(phase))
		b.WriteString("\n")
	}

	if m.result != nil {
		b.WriteString("\n")
		b.WriteString(m.renderResult())
	}

	b.WriteString("\n")
	b.WriteString(styles.Help.Render(" [q] Quit "))
	return b.String()
}

func (m *Model) renderPhase(phase pipeline.Phase) string {
	name := phaseNames[phase]
	switch {
	case m.result != nil && m.result.Err == nil,
		m.reached[phase] && phase != m.current:
		return styles.PhaseDone.Render("  ✓ " + name)
	case phase == m.current && m.result == nil:
		line := "  » " + name
		if phase == pipeline.PhaseSimulation && m.total > 0 {
			line += " " + renderBar(m.done, m.total, 30)
		}
		return styles.PhaseActive.Render(line)
	default:
		return styles.PhasePending.Render("    " + name)
	}
}

func (m *Model) renderResult() string {
	if m.result.Err != nil {
		return styles.StatusError.Render("run failed: " + m.result.Err.Error())
	}

	s := m.result.Summary
	body := fmt.Sprintf(
		"employees %d (malicious %d)\nrecords   %d over %d days\nlabels    %d strict / %d soft / %d false positive\nseed      %d\nelapsed   %s",
		s.TotalEmployees, s.MaliciousEmployees,
		s.TotalRecords, s.Days,
		s.StrictDays, s.SoftDays, s.FalsePositiveDays,
		m.result.Seed,
		m.result.Elapsed.Round(time.Millisecond),
	)
	return styles.Box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			styles.StatusOK.Render("run complete"),
			body))
}

func renderBar(done, total, width int) string {
	if total <= 0 {
		return ""
	}
	filled := done * width / total
	if filled > width {
		filled = width
	}
	bar := styles.ProgressFilled.Render(strings.Repeat("█", filled)) +
		styles.ProgressEmpty.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %d/%d", bar, done, total)
}

// Run drives the pipeline under the progress view. The run itself executes in
// a goroutine; the program exits when the user quits.
func Run(ctx context.Context, runner *pipeline.Runner) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewModel(cancel)
	p := tea.NewProgram(m, tea.WithAltScreen())

	runner.OnProgress = func(prog pipeline.Progress) {
		p.Send(ProgressMsg(prog))
	}

	go func() {
		start := time.Now()
		ds, summary, err := runner.Generate(ctx)
		if err == nil {
			err = runner.Export(ctx, ds, summary)
		}
		p.Send(DoneMsg{
			Summary: summary,
			Seed:    runner.Seed(),
			Elapsed: time.Since(start),
			Err:     err,
		})
	}()

	_, err := p.Run()
	return err
}
