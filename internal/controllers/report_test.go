package controllers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncReportRender(t *testing.T) {
	report := &SyncReport{MoviesSeen: 12, MoviesRated: 3, ShowsSeen: 2, EpisodesSeen: 40, EpisodesRated: 5}
	out := report.Render()

	lines := strings.Split(out, "\n")
	assert.GreaterOrEqual(t, len(lines), 6)
	assert.Contains(t, out, "Movies")
	assert.Contains(t, out, "Episodes")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "40")
	assert.Equal(t, 52, report.Total())
}
