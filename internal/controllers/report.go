package controllers

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// SyncReport counts what one run submitted to trakt
type SyncReport struct {
	MoviesSeen    int
	MoviesRated   int
	ShowsSeen     int
	EpisodesSeen  int
	EpisodesRated int
}

// Total returns the number of items marked seen
func (r *SyncReport) Total() int {
	return r.MoviesSeen + r.EpisodesSeen
}

// Render formats the report as a table for the terminal
func (r *SyncReport) Render() string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Kind", "Seen", "Rated"})
	tw.AppendRow(table.Row{"Movies", strconv.Itoa(r.MoviesSeen), strconv.Itoa(r.MoviesRated)})
	tw.AppendRow(table.Row{"Episodes", strconv.Itoa(r.EpisodesSeen), strconv.Itoa(r.EpisodesRated)})
	tw.AppendFooter(table.Row{"Shows", strconv.Itoa(r.ShowsSeen), ""})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	return tw.Render()
}
