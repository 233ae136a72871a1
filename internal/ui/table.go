package ui

import (
	"strconv"
	"time"

	"github.com/desertthunder/starsync/internal/matching"
	"github.com/desertthunder/starsync/internal/models"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// CandidateTable lists every candidate of an ambiguous match, marking the best one.
func CandidateTable(p matching.Prompt) string {
	rows := make([][]string, 0, len(p.Candidates))
	for i, c := range p.Candidates {
		mark := ""
		if c.Remote == p.Best.Remote {
			mark = "*"
		}
		r := c.Remote
		rows = append(rows, []string{
			mark,
			strconv.Itoa(i + 1),
			r.Artist,
			r.Title,
			r.Album,
			models.FormatOptional(r.TrackNumber),
			models.FormatOptional(r.Year),
			stars(r.Rating),
			strconv.Itoa(c.Score),
		})
	}
	return renderTable(
		[]string{"", "#", "Artist", "Title", "Album", "Track", "Year", "Rating", "Score"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignRight},
	)
}

// TrackTable lists normalized local tracks.
func TrackTable(tracks []models.CanonicalTrack) string {
	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		rows = append(rows, []string{
			t.Artist,
			t.Title,
			t.Album,
			models.FormatOptional(t.TrackNumber),
			models.FormatOptional(t.Year),
			stars(t.Rating),
		})
	}
	return renderTable(
		[]string{"Artist", "Title", "Album", "Track", "Year", "Rating"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}

// RemoteTable lists remote tracks with their ids.
func RemoteTable(tracks []*models.RemoteTrack) string {
	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		rows = append(rows, []string{
			t.ID,
			t.Artist,
			t.Title,
			t.Album,
			models.FormatOptional(t.TrackNumber),
			models.FormatOptional(t.Year),
			stars(t.Rating),
		})
	}
	return renderTable(
		[]string{"ID", "Artist", "Title", "Album", "Track", "Year", "Rating"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}

// RunTable lists sync runs, newest first as given.
func RunTable(runs []*models.SyncRun) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			shortID(r.ID),
			r.StartedAt.Local().Format(time.DateTime),
			r.Source,
			r.Policy,
			string(r.Status),
			strconv.Itoa(r.LocalCount),
			strconv.Itoa(r.InvalidCount),
			strconv.Itoa(r.UpdateCount),
			r.Duration().Round(time.Millisecond).String(),
		})
	}
	return renderTable(
		[]string{"Run", "Started", "Source", "Policy", "Status", "Local", "Invalid", "Updates", "Took"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
}

// ChangeTable lists the rating changes of a run.
func ChangeTable(changes []models.RatingChange) string {
	rows := make([][]string, 0, len(changes))
	for _, c := range changes {
		rows = append(rows, []string{
			c.RemoteID,
			c.Artist,
			c.Title,
			c.Album,
			stars(c.OldRating),
			stars(c.NewRating),
			strconv.Itoa(c.Score),
		})
	}
	return renderTable(
		[]string{"Remote", "Artist", "Title", "Album", "Was", "Now", "Score"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
