package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/starsync/internal/matching"
	"github.com/desertthunder/starsync/internal/models"
	"github.com/desertthunder/starsync/internal/shared"
	"github.com/desertthunder/starsync/internal/tasks"
)

func samplePrompt() matching.Prompt {
	low := models.MatchResult{Remote: &models.RemoteTrack{ID: "r1", Title: "Song", Album: "A", Artist: "B", Rating: 1}, Score: 2}
	high := models.MatchResult{Remote: &models.RemoteTrack{ID: "r2", Title: "Song", Album: "A", Artist: "B", TrackNumber: models.Int(3), Rating: 2}, Score: 3}
	return matching.Prompt{
		Local:      models.CanonicalTrack{Title: "Song", Album: "A", Artist: "B", TrackNumber: models.Int(3), Rating: 4},
		Best:       high,
		Candidates: []models.MatchResult{low, high},
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestConfirmModel(t *testing.T) {
	tc := []struct {
		name string
		msg  tea.KeyMsg
		want Answer
	}{
		{name: "y accepts", msg: keyRunes("y"), want: Accepted},
		{name: "Y accepts", msg: keyRunes("Y"), want: Accepted},
		{name: "enter accepts", msg: tea.KeyMsg{Type: tea.KeyEnter}, want: Accepted},
		{name: "n rejects", msg: keyRunes("n"), want: Rejected},
		{name: "q aborts", msg: keyRunes("q"), want: Aborted},
		{name: "ctrl+c aborts", msg: tea.KeyMsg{Type: tea.KeyCtrlC}, want: Aborted},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			m := NewConfirmModel(samplePrompt())
			_, cmd := m.Update(tt.msg)
			if m.Answer() != tt.want {
				t.Errorf("Answer() = %v, want %v", m.Answer(), tt.want)
			}
			if cmd == nil {
				t.Fatal("expected quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("expected tea.QuitMsg")
			}
		})
	}

	t.Run("other keys keep waiting", func(t *testing.T) {
		m := NewConfirmModel(samplePrompt())
		m.Update(keyRunes("x"))
		if m.Answer() != Pending {
			t.Errorf("Answer() = %v, want pending", m.Answer())
		}
	})

	t.Run("view shows local and best", func(t *testing.T) {
		m := NewConfirmModel(samplePrompt())
		m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
		view := m.View()
		for _, want := range []string{"Ambiguous match", "Local: B - 3 - Song on A (****)", "score 3/4"} {
			if !strings.Contains(view, want) {
				t.Errorf("view missing %q:\n%s", want, view)
			}
		}
	})

	t.Run("answers map to confirmer results", func(t *testing.T) {
		tests := []struct {
			answer  Answer
			want    bool
			wantErr error
		}{
			{Accepted, true, nil},
			{Rejected, false, nil},
			{Aborted, false, shared.ErrPromptAborted},
			{Pending, false, shared.ErrPromptAborted},
		}
		for _, tt := range tests {
			m := &ConfirmModel{answer: tt.answer}
			got, err := answerOf(m)
			if got != tt.want || !errors.Is(err, tt.wantErr) {
				t.Errorf("answerOf(%v) = %v, %v", tt.answer, got, err)
			}
		}
	})
}

func TestCandidateItem(t *testing.T) {
	p := samplePrompt()
	best := candidateItem{match: p.Best, best: true}
	if !strings.HasPrefix(best.Title(), "★ ") {
		t.Errorf("best candidate not marked: %s", best.Title())
	}
	if !strings.Contains(best.Description(), "score 3/4") || !strings.Contains(best.Description(), "#3") {
		t.Errorf("unexpected description %s", best.Description())
	}
	other := candidateItem{match: p.Candidates[0]}
	if !strings.Contains(other.Description(), "#-") || !strings.Contains(other.Description(), "*") {
		t.Errorf("unexpected description %s", other.Description())
	}
}

func TestTables(t *testing.T) {
	t.Run("CandidateTable", func(t *testing.T) {
		out := CandidateTable(samplePrompt())
		lines := strings.Split(out, "\n")
		if !strings.Contains(out, "Score") || !strings.Contains(out, "Artist") {
			t.Errorf("missing headers:\n%s", out)
		}
		marked := 0
		for _, l := range lines {
			if strings.HasPrefix(l, "│ * │") {
				marked++
			}
		}
		if marked != 1 {
			t.Errorf("expected exactly one marked row, got %d:\n%s", marked, out)
		}
	})

	t.Run("TrackTable", func(t *testing.T) {
		out := TrackTable([]models.CanonicalTrack{{Title: "Song", Album: "A", Artist: "B", Year: models.Int(1999)}})
		if !strings.Contains(out, "1999") || !strings.Contains(out, "unrated") {
			t.Errorf("unexpected table:\n%s", out)
		}
	})

	t.Run("RemoteTable", func(t *testing.T) {
		out := RemoteTable([]*models.RemoteTrack{{ID: "yt-42", Title: "Song", Album: "A", Artist: "B", Rating: 2}})
		if !strings.Contains(out, "yt-42") || !strings.Contains(out, "**") {
			t.Errorf("unexpected table:\n%s", out)
		}
	})

	t.Run("RunTable and ChangeTable", func(t *testing.T) {
		run := &models.SyncRun{ID: "0123456789abcdef", Source: "tags", Policy: "automatic", Status: models.RunApplied, UpdateCount: 7}
		out := RunTable([]*models.SyncRun{run})
		if !strings.Contains(out, "01234567") || strings.Contains(out, "0123456789") {
			t.Errorf("expected shortened id:\n%s", out)
		}

		out = ChangeTable([]models.RatingChange{{RemoteID: "r1", Title: "Song", OldRating: 0, NewRating: 5, Score: 4}})
		if !strings.Contains(out, "unrated") || !strings.Contains(out, "*****") {
			t.Errorf("unexpected table:\n%s", out)
		}
	})
}

func TestProgressModel(t *testing.T) {
	want := &tasks.SyncResult{RunID: "run"}
	run := func(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*tasks.SyncResult, error) {
		progress <- tasks.ProgressUpdate{Phase: tasks.Reconcile, Step: 1, Total: 2, Message: "[1/2] B - Song: update"}
		return want, nil
	}

	m := NewProgressModel(context.Background(), run)
	cmd := m.Init()

	msg := cmd()
	_, cmd = m.Update(msg)
	if !strings.Contains(m.View(), "Matching tracks (1/2)") {
		t.Errorf("unexpected view:\n%s", m.View())
	}

	msg = cmd()
	_, cmd = m.Update(msg)
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected program to quit after the run")
	}

	got, err := m.Result()
	if err != nil || got != want {
		t.Errorf("Result() = %v, %v", got, err)
	}
	if !strings.Contains(m.View(), "Sync complete") {
		t.Errorf("unexpected final view %q", m.View())
	}
}

func TestProgressModelFailure(t *testing.T) {
	boom := errors.New("proxy down")
	m := NewProgressModel(context.Background(), func(context.Context, chan<- tasks.ProgressUpdate) (*tasks.SyncResult, error) {
		return nil, boom
	})

	cmd := m.Init()
	m.Update(cmd())
	if _, err := m.Result(); !errors.Is(err, boom) {
		t.Errorf("expected %v, got %v", boom, err)
	}
	if !strings.Contains(m.View(), "Sync failed") {
		t.Errorf("unexpected view %q", m.View())
	}
}
