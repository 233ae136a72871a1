package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/desertthunder/starsync/internal/models"
	"github.com/desertthunder/starsync/internal/shared"
)

// Snapshot is the on-disk form of a saved remote library.
type Snapshot struct {
	Source  string                `json:"source"`
	SavedAt time.Time             `json:"saved_at"`
	Tracks  []*models.RemoteTrack `json:"tracks"`
}

// SnapshotLibrary serves a saved library from disk. It is read-only, so it only supports dry runs.
type SnapshotLibrary struct {
	path     string
	snapshot Snapshot
}

// LoadSnapshot reads a snapshot written by [WriteSnapshot].
func LoadSnapshot(path string) (*SnapshotLibrary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	var snap Snapshot
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: failed to decode snapshot %s: %v", shared.ErrInvalidInput, path, err)
	}

	for i, t := range snap.Tracks {
		if t == nil {
			return nil, fmt.Errorf("%w: snapshot %s: empty track at index %d", shared.ErrInvalidInput, path, i)
		}
		Clean(t)
	}
	return &SnapshotLibrary{path: path, snapshot: snap}, nil
}

// WriteSnapshot saves tracks as indented JSON.
func WriteSnapshot(w io.Writer, source string, tracks []*models.RemoteTrack) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Snapshot{Source: source, SavedAt: time.Now().UTC(), Tracks: tracks})
}

func (s *SnapshotLibrary) Name() string {
	return "snapshot"
}

// SavedAt reports when the snapshot was written.
func (s *SnapshotLibrary) SavedAt() time.Time {
	return s.snapshot.SavedAt
}

// ListTracks returns copies of the saved tracks so rating changes never leak between runs.
func (s *SnapshotLibrary) ListTracks(ctx context.Context) ([]*models.RemoteTrack, error) {
	tracks := make([]*models.RemoteTrack, len(s.snapshot.Tracks))
	for i, t := range s.snapshot.Tracks {
		copied := *t
		tracks[i] = &copied
	}
	return tracks, nil
}

// UpdateTracks always fails; a snapshot cannot accept writes.
func (s *SnapshotLibrary) UpdateTracks(ctx context.Context, tracks []*models.RemoteTrack) error {
	return fmt.Errorf("%w: snapshot %s is read-only", shared.ErrServiceUnavailable, s.path)
}
