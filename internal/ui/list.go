package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/starsync/internal/models"
)

var _ list.Item = candidateItem{}

// candidateItem wraps a [models.MatchResult] to implement [list.Item].
type candidateItem struct {
	match models.MatchResult
	best  bool
}

func (i candidateItem) FilterValue() string { return i.match.Remote.Title }
func (i candidateItem) Title() string {
	title := fmt.Sprintf("%s - %s", i.match.Remote.Artist, i.match.Remote.Title)
	if i.best {
		title = "★ " + title
	}
	return title
}
func (i candidateItem) Description() string {
	r := i.match.Remote
	return fmt.Sprintf("%s • #%s • %s • score %d/4 • %s",
		r.Album, models.FormatOptional(r.TrackNumber), models.FormatOptional(r.Year), i.match.Score, stars(r.Rating))
}

func stars(rating int) string {
	if rating == 0 {
		return "unrated"
	}
	return models.Stars(rating)
}
