// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/desertthunder/starsync/internal/models"
	"github.com/desertthunder/starsync/internal/normalize"
)

// MockLibrary is a test double for [services.RemoteLibrary]
type MockLibrary struct {
	Tracks    []*models.RemoteTrack
	ListErr   error
	UpdateErr error

	ListCalls int
	Updates   [][]*models.RemoteTrack // one entry per UpdateTracks call, ratings copied at call time
}

func (m *MockLibrary) Name() string { return "mock" }

func (m *MockLibrary) ListTracks(ctx context.Context) ([]*models.RemoteTrack, error) {
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Tracks, nil
}

func (m *MockLibrary) UpdateTracks(ctx context.Context, tracks []*models.RemoteTrack) error {
	batch := make([]*models.RemoteTrack, len(tracks))
	for i, t := range tracks {
		copied := *t
		batch[i] = &copied
	}
	m.Updates = append(m.Updates, batch)
	return m.UpdateErr
}

// MockSource is a test double for a local library source
type MockSource struct {
	Label   string
	Entries []normalize.Record
	Err     error
}

func (m *MockSource) Name() string {
	if m.Label == "" {
		return "mock"
	}
	return m.Label
}

func (m *MockSource) Records(ctx context.Context) ([]normalize.Record, error) {
	return m.Entries, m.Err
}

// RowSource builds a [MockSource] of database rows on the 0-10 rating scale.
func RowSource(rows ...[]any) *MockSource {
	src := &MockSource{Label: "rows"}
	for i, cols := range rows {
		src.Entries = append(src.Entries, normalize.RowRecord{Ref: fmt.Sprintf("row %d", i+1), Columns: cols, Scale: normalize.ScaleTen})
	}
	return src
}

// MockRecorder captures recorded runs
type MockRecorder struct {
	Runs    []*models.SyncRun
	Changes [][]models.RatingChange
	Err     error
}

func (m *MockRecorder) RecordRun(ctx context.Context, run *models.SyncRun, changes []models.RatingChange) error {
	m.Runs = append(m.Runs, run)
	m.Changes = append(m.Changes, changes)
	return m.Err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
