package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/desertthunder/starsync/internal/matching"
	"github.com/desertthunder/starsync/internal/shared"
)

// PromptText is the question asked for every ambiguous match.
const PromptText = "Accept best match? [Y/n] "

// LinePrompt implements [matching.Confirmer] over a line-oriented reader, for pipes and dumb terminals.
//
// Answers are case-insensitive: "y" or an empty line accepts, "n" rejects, anything else asks again.
// End of input is an error.
type LinePrompt struct {
	r *bufio.Reader
	w io.Writer
}

// NewLinePrompt creates a prompt reading answers from r and writing to w.
func NewLinePrompt(r io.Reader, w io.Writer) *LinePrompt {
	return &LinePrompt{r: bufio.NewReader(r), w: w}
}

func (p *LinePrompt) Confirm(prompt matching.Prompt) (bool, error) {
	fmt.Fprintf(p.w, "\nAmbiguous match for %s\n", prompt.Local)
	fmt.Fprintln(p.w, CandidateTable(prompt))

	for {
		fmt.Fprint(p.w, PromptText)

		line, err := p.r.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			if errors.Is(err, io.EOF) {
				return false, fmt.Errorf("%w: end of input", shared.ErrPromptAborted)
			}
			return false, fmt.Errorf("failed to read answer: %w", err)
		}

		if accepted, ok := ParseAnswer(line); ok {
			return accepted, nil
		}
		fmt.Fprintln(p.w, "Please answer y or n.")
	}
}

// ParseAnswer interprets one line of input. ok is false when the line should be asked again.
func ParseAnswer(line string) (accepted, ok bool) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y":
		return true, true
	case "n":
		return false, true
	default:
		return false, false
	}
}
