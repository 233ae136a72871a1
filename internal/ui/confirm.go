package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/starsync/internal/matching"
	"github.com/desertthunder/starsync/internal/shared"
)

// Answer is the operator's response to a confirmation.
type Answer int

const (
	Pending Answer = iota
	Accepted
	Rejected
	Aborted
)

// ConfirmModel shows an ambiguous match and waits for accept, reject, or abort.
type ConfirmModel struct {
	prompt     matching.Prompt
	candidates list.Model
	answer     Answer
	width      int
	height     int
	help       help.Model
	keys       keyMap
}

// NewConfirmModel builds the view for one ambiguous match.
func NewConfirmModel(p matching.Prompt) *ConfirmModel {
	items := make([]list.Item, len(p.Candidates))
	for i, c := range p.Candidates {
		items[i] = candidateItem{match: c, best: c.Remote == p.Best.Remote}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = fmt.Sprintf("%d candidates", len(p.Candidates))
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)

	return &ConfirmModel{
		prompt:     p,
		candidates: l,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Answer returns the operator's decision, [Pending] until one is made.
func (m *ConfirmModel) Answer() Answer { return m.answer }

func (m *ConfirmModel) Init() tea.Cmd { return nil }

// Update handles incoming messages and updates the model state.
func (m *ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.candidates.SetSize(msg.Width-4, msg.Height-12)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.accept):
			m.answer = Accepted
			return m, tea.Quit
		case key.Matches(msg, m.keys.reject):
			m.answer = Rejected
			return m, tea.Quit
		case key.Matches(msg, m.keys.quit):
			m.answer = Aborted
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.candidates, cmd = m.candidates.Update(msg)
	return m, cmd
}

// View renders the local track, the best candidate, and the candidate list.
func (m *ConfirmModel) View() string {
	if m.answer != Pending {
		return ""
	}

	title := styles.title.Render("Ambiguous match")
	local := fmt.Sprintf("Local: %s", m.prompt.Local)
	best := styles.best.Render(fmt.Sprintf("Best:  %s (score %d/4)", m.prompt.Best.Remote, m.prompt.Best.Score))
	helpView := m.help.ShortHelpView(m.keys.ShortHelp())

	return fmt.Sprintf("%s\n%s\n%s\n\n%s\n\n%s", title, local, best, m.candidates.View(), helpView)
}

// TUIConfirmer implements [matching.Confirmer] with a bubbletea program per prompt.
type TUIConfirmer struct {
	in  io.Reader
	out io.Writer
}

// NewTUIConfirmer creates a confirmer reading keys from in and drawing to out.
func NewTUIConfirmer(in io.Reader, out io.Writer) *TUIConfirmer {
	return &TUIConfirmer{in: in, out: out}
}

// Confirm blocks until the operator answers. Aborting returns [shared.ErrPromptAborted].
func (c *TUIConfirmer) Confirm(p matching.Prompt) (bool, error) {
	final, err := tea.NewProgram(NewConfirmModel(p), tea.WithInput(c.in), tea.WithOutput(c.out)).Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return answerOf(final.(*ConfirmModel))
}

func answerOf(m *ConfirmModel) (bool, error) {
	switch m.Answer() {
	case Accepted:
		return true, nil
	case Rejected:
		return false, nil
	default:
		return false, shared.ErrPromptAborted
	}
}
