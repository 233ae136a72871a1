package library

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/starsync/internal/models"
	"github.com/desertthunder/starsync/internal/normalize"
	"github.com/desertthunder/starsync/internal/shared"
	"go.senan.xyz/taglib"
)

// TagReader returns the raw tag dictionary of an audio file.
type TagReader func(path string) (map[string][]string, error)

// TagSource walks a music directory and reads tags from every file with a known audio extension.
type TagSource struct {
	root   string
	exts   shared.ExtensionSet
	read   TagReader
	logger *log.Logger
}

// NewTagSource creates a source rooted at dir. A nil reader uses taglib.
func NewTagSource(dir string, exts shared.ExtensionSet, read TagReader, logger *log.Logger) *TagSource {
	if exts == nil {
		exts = shared.DefaultExtensions()
	}
	if read == nil {
		read = taglib.ReadTags
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &TagSource{root: dir, exts: exts, read: read, logger: logger}
}

func (s *TagSource) Name() string {
	return "tags"
}

// Records walks the tree in lexical order.
//
// A file whose tags cannot be read still yields a record; normalizing it fails so the run's invalid-record policy applies.
func (s *TagSource) Records(ctx context.Context) ([]normalize.Record, error) {
	var records []normalize.Record
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !s.exts.Has(filepath.Ext(path)) {
			return nil
		}

		tags, err := s.read(path)
		if err != nil {
			s.logger.Warn("failed to read tags", "path", path, "error", err)
			records = append(records, unreadable{path: path, err: err})
			return nil
		}

		records = append(records, normalize.TagRecord{Path: path, Tags: tags, Scale: normalize.ScaleUnit})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: scanning %s: %v", shared.ErrSourceRead, s.root, err)
	}

	s.logger.Debug("scanned music directory", "root", s.root, "files", len(records))
	return records, nil
}

// unreadable stands in for a file whose tags could not be read.
type unreadable struct {
	path string
	err  error
}

func (u unreadable) Origin() string { return u.path }

func (u unreadable) Normalize() (models.CanonicalTrack, error) {
	return models.CanonicalTrack{}, &normalize.Error{Ref: u.path, Field: "tags", Err: u.err}
}
