package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/starsync/internal/tasks"
)

// RunFunc starts a sync that reports to progress and returns when it is done.
type RunFunc func(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*tasks.SyncResult, error)

// ProgressModel follows a non-interactive run until it finishes.
type ProgressModel struct {
	ctx      context.Context
	cancel   context.CancelFunc
	run      RunFunc
	updates  chan tasks.ProgressUpdate
	done     chan runOutcome
	progress tasks.ProgressUpdate
	result   *tasks.SyncResult
	err      error
	finished bool
	help     help.Model
	keys     keyMap
}

// NewProgressModel creates a progress view for run.
func NewProgressModel(ctx context.Context, run RunFunc) *ProgressModel {
	ctx, cancel := context.WithCancel(ctx)
	return &ProgressModel{
		ctx:     ctx,
		cancel:  cancel,
		run:     run,
		updates: make(chan tasks.ProgressUpdate, 50),
		done:    make(chan runOutcome, 1),
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init starts the run in the background.
func (m *ProgressModel) Init() tea.Cmd {
	go func() {
		result, err := m.run(m.ctx, m.updates)
		m.done <- runOutcome{result: result, err: err}
		close(m.updates)
	}()
	return m.waitForProgress()
}

// Update handles incoming messages and updates the model state.
func (m *ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			m.cancel()
		}
		return m, nil

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.progress = msg.data.(tasks.ProgressUpdate)
			return m, m.waitForProgress()
		case MsgRunComplete:
			out := msg.data.(runOutcome)
			m.result, m.err, m.finished = out.result, out.err, true
			m.cancel()
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the current phase and message.
func (m *ProgressModel) View() string {
	if m.finished {
		if m.err != nil {
			return styles.err.Render(fmt.Sprintf("Sync failed: %v", m.err)) + "\n"
		}
		return styles.ok.Render("✓ Sync complete") + "\n"
	}

	title := styles.title.Render("Syncing ratings")

	var phase string
	switch m.progress.Phase {
	case tasks.LoadLocal:
		phase = "Reading local library..."
	case tasks.LoadRemote:
		phase = "Loading remote library..."
	case tasks.Reconcile:
		phase = fmt.Sprintf("Matching tracks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.PushUpdates:
		phase = "Pushing ratings..."
	default:
		phase = "Processing..."
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})
	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s", title, phase, m.progress.Message, helpView)
}

// Result returns the run's outcome once the model has finished.
func (m *ProgressModel) Result() (*tasks.SyncResult, error) {
	return m.result, m.err
}

func (m *ProgressModel) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.updates
		if !ok {
			out := <-m.done
			return runCompleteMsg(out.result, out.err)
		}
		return progressUpdateMsg(update)
	}
}

// RunWithProgress runs a sync under a progress view drawn to out.
func RunWithProgress(ctx context.Context, in io.Reader, out io.Writer, run RunFunc) (*tasks.SyncResult, error) {
	final, err := tea.NewProgram(NewProgressModel(ctx, run), tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return nil, fmt.Errorf("progress view failed: %w", err)
	}
	return final.(*ProgressModel).Result()
}
