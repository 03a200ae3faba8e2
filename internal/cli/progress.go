package cli

import (
	"context"
	"fmt"
	"time"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/flowdexhq/flowdex/internal/db"
	"github.com/flowdexhq/flowdex/internal/models"
)

const pollInterval = time.Second

// Theme holds the color scheme for the progress display.
type Theme struct {
	Status     lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
	Hint       lipgloss.Color
	ProgressBg lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Status:     lipgloss.Color("#5FAFD7"), // light blue
	Success:    lipgloss.Color("#00D787"), // green
	Error:      lipgloss.Color("#FF005F"), // red
	Hint:       lipgloss.Color("#6C6C6C"), // dim gray
	ProgressBg: lipgloss.Color("#3A3A3A"), // dark gray
}

// Style functions for dynamic theming
func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status)
}

func (t Theme) completedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// tickMsg triggers polling the run status
type tickMsg time.Time

// runUpdateMsg carries the updated run data
type runUpdateMsg struct {
	run *models.JobRun
	err error
}

// progressModel is the bubbletea model for job run progress.
type progressModel struct {
	db       *db.Client
	runID    string
	run      *models.JobRun
	progress progress.Model
	theme    Theme
	done     bool
	quitting bool
	err      error
}

// newProgressModel creates a new progress model.
func newProgressModel(dbClient *db.Client, run *models.JobRun) progressModel {
	prog := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(40),
	)

	runID, _ := models.RecordIDString(run.ID)
	return progressModel{
		db:       dbClient,
		runID:    runID,
		run:      run,
		progress: prog,
		theme:    defaultTheme,
	}
}

// Init returns the initial command (start polling).
func (m progressModel) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		m.progress.Init(),
	)
}

// Update handles messages and returns the updated model.
func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case tickMsg:
		return m, m.fetchRun()

	case runUpdateMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("failed to fetch run status: %w", msg.err)
			m.done = true
			return m, tea.Quit
		}

		m.run = msg.run

		if m.run.Terminal() {
			m.done = true
			if m.run.Status == models.JobStatusFailed {
				if m.run.Error != nil {
					m.err = fmt.Errorf("%s", *m.run.Error)
				} else {
					m.err = fmt.Errorf("run failed with unknown error")
				}
			}
			return m, tea.Quit
		}

		// Continue polling for running jobs
		return m, tickCmd()

	case progress.FrameMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress display.
func (m progressModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

// renderContent builds the display string.
func (m progressModel) renderContent() string {
	if m.done {
		return m.finalView()
	}

	if m.run == nil {
		return "Loading run status...\n"
	}

	doneCount, total := runCounts(m.run)
	var pct float64
	if total > 0 {
		pct = float64(doneCount) / float64(total)
	}

	status := m.theme.statusStyle().Render(fmt.Sprintf("[%s %s]", m.run.JobType, m.run.Status))
	progressBar := m.progress.ViewAs(pct)
	counts := fmt.Sprintf("%d/%d rows", doneCount, total)
	hint := m.theme.hintStyle().Render("Press Ctrl+C to stop watching (the job keeps running)")

	return fmt.Sprintf("%s %s %s\n%s\n", status, progressBar, counts, hint)
}

// finalView renders the completion message.
func (m progressModel) finalView() string {
	if m.quitting {
		msg := fmt.Sprintf("\nRun %s continues in background.\nUse 'flowdex jobs show %s' to check status.\n",
			m.runID, m.runID)
		return m.theme.hintStyle().Render(msg)
	}

	if m.err != nil {
		return m.theme.errorStyle().Render(fmt.Sprintf("\n✗ Run failed: %s\n", m.err))
	}

	if m.run != nil && m.run.Status == models.JobStatusStopped {
		return m.theme.hintStyle().Render("\n■ Run stopped. Re-run the job to resume.\n")
	}

	if m.run != nil && m.run.Result != nil {
		doneCount, total := runCounts(m.run)
		var output string
		output += m.theme.completedStyle().Render("✓ Completed") + "\n\n"
		output += fmt.Sprintf("  Rows processed: %d/%d\n", doneCount, total)
		if r := m.run.Result; r.FailedCount != nil && *r.FailedCount > 0 {
			output += m.theme.errorStyle().Render(fmt.Sprintf("  Failed rows:    %d\n", *r.FailedCount))
		}
		return output
	}

	return m.theme.completedStyle().Render("✓ Completed\n")
}

// fetchRun fetches the current run status from the ledger.
// Runs in a separate goroutine (command) to avoid blocking Update().
func (m progressModel) fetchRun() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		run, err := m.db.GetJobRun(ctx, m.runID)
		if err == nil && run == nil {
			err = fmt.Errorf("run %s disappeared from the ledger", m.runID)
		}
		return runUpdateMsg{run: run, err: err}
	}
}

// tickCmd returns a command that sends a tick after the poll interval.
func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// RunJobProgress runs the interactive progress UI for a job run.
// Returns nil on success or Ctrl+C (detach), error on run failure.
func RunJobProgress(dbClient *db.Client, run *models.JobRun) error {
	model := newProgressModel(dbClient, run)
	p := tea.NewProgram(model)

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("progress UI error: %w", err)
	}

	if m, ok := finalModel.(progressModel); ok {
		// Detaching from a running job is not an error
		if m.quitting {
			return nil
		}
		if m.err != nil {
			return m.err
		}
	}

	return nil
}
