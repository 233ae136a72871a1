// package services defines the remote library the sync reads from and writes ratings to
package services

import (
	"context"

	"github.com/desertthunder/starsync/internal/models"
	"github.com/desertthunder/starsync/internal/normalize"
)

// RemoteLibrary is a cloud music library that exposes its full track list and accepts rating batches.
type RemoteLibrary interface {
	// Name returns a label for logs and history ("cloud", "snapshot").
	Name() string

	// ListTracks returns every track in the library in the library's own order.
	ListTracks(ctx context.Context) ([]*models.RemoteTrack, error)

	// UpdateTracks applies the ratings of tracks in a single batch. An error means none are applied.
	UpdateTracks(ctx context.Context, tracks []*models.RemoteTrack) error
}

// Clean applies text normalization to a remote track so comparisons with local tracks are form-independent.
func Clean(t *models.RemoteTrack) *models.RemoteTrack {
	t.Title = normalize.Text(t.Title)
	t.Album = normalize.Text(t.Album)
	t.Artist = normalize.Text(t.Artist)
	return t
}
