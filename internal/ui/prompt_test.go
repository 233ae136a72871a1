package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/starsync/internal/shared"
)

func TestLinePrompt(t *testing.T) {
	tc := []struct {
		name    string
		input   string
		want    bool
		prompts int
		wantErr error
	}{
		{name: "empty line accepts", input: "\n", want: true, prompts: 1},
		{name: "y accepts", input: "y\n", want: true, prompts: 1},
		{name: "Y accepts", input: "Y\n", want: true, prompts: 1},
		{name: "n rejects", input: "n\n", want: false, prompts: 1},
		{name: "N rejects", input: "N\n", want: false, prompts: 1},
		{name: "windows line ending", input: "n\r\n", want: false, prompts: 1},
		{name: "other input asks again", input: "maybe\nyes\nn\n", want: false, prompts: 3},
		{name: "answer without trailing newline", input: "n", want: false, prompts: 1},
		{name: "end of input", input: "", wantErr: shared.ErrPromptAborted, prompts: 1},
		{name: "end of input after garbage", input: "what\n", wantErr: shared.ErrPromptAborted, prompts: 2},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewLinePrompt(strings.NewReader(tt.input), &out)

			got, err := p.Confirm(samplePrompt())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
			if n := strings.Count(out.String(), PromptText); n != tt.prompts {
				t.Errorf("prompted %d times, want %d", n, tt.prompts)
			}
		})
	}

	t.Run("shows candidates before asking", func(t *testing.T) {
		var out bytes.Buffer
		NewLinePrompt(strings.NewReader("y\n"), &out).Confirm(samplePrompt())
		text := out.String()
		table := strings.Index(text, "Score")
		question := strings.Index(text, PromptText)
		if table < 0 || question < table {
			t.Errorf("expected candidate table before the question:\n%s", text)
		}
		if !strings.Contains(text, "Ambiguous match for B - 3 - Song on A (****)") {
			t.Errorf("missing local track:\n%s", text)
		}
	})
}

func TestParseAnswer(t *testing.T) {
	tc := []struct {
		in           string
		accepted, ok bool
	}{
		{"", true, true},
		{"  y ", true, true},
		{"n", false, true},
		{"yes", false, false},
		{"no", false, false},
	}
	for _, tt := range tc {
		accepted, ok := ParseAnswer(tt.in)
		if accepted != tt.accepted || ok != tt.ok {
			t.Errorf("ParseAnswer(%q) = %v, %v", tt.in, accepted, ok)
		}
	}
}
