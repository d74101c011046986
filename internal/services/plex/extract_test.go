package plex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/plextrakt/internal/models"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func TestMovieFromElement(t *testing.T) {
	testCases := []struct {
		name     string
		attrs    map[string]string
		expected models.Movie
	}{
		{
			name:  "fully populated",
			attrs: map[string]string{"title": "Alien", "year": "1979", "viewCount": "2", "updatedAt": "1300000000", "userRating": "9.0"},
			expected: models.Movie{
				Title: "Alien", Year: intPtr(1979), Plays: 2, LastPlayed: int64Ptr(1300000000), Rating: intPtr(9),
			},
		},
		{
			name:     "optional attributes absent",
			attrs:    map[string]string{"title": "Brazil", "viewCount": "1"},
			expected: models.Movie{Title: "Brazil", Plays: 1},
		},
		{
			name:     "half star rating rounds",
			attrs:    map[string]string{"title": "Cube", "viewCount": "1", "userRating": "6.5"},
			expected: models.Movie{Title: "Cube", Plays: 1, Rating: intPtr(7)},
		},
		{
			name:     "decomposed title is normalized",
			attrs:    map[string]string{"title": "Ame\u0301lie ", "viewCount": "1"},
			expected: models.Movie{Title: "Am\u00e9lie", Plays: 1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			movie, err := MovieFromElement(NewElement(TagVideo, tc.attrs))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, movie)
		})
	}
}

func TestMovieFromElementErrors(t *testing.T) {
	testCases := []struct {
		name    string
		attrs   map[string]string
		missing bool
	}{
		{name: "no title", attrs: map[string]string{"year": "1979"}, missing: true},
		{name: "blank title", attrs: map[string]string{"title": "  "}, missing: true},
		{name: "bad year", attrs: map[string]string{"title": "Alien", "year": "late seventies"}},
		{name: "bad view count", attrs: map[string]string{"title": "Alien", "viewCount": "many"}},
		{name: "bad rating", attrs: map[string]string{"title": "Alien", "userRating": "great"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := MovieFromElement(NewElement(TagVideo, tc.attrs))
			require.Error(t, err)

			var attrErr *AttributeError
			assert.True(t, errors.As(err, &attrErr))
			assert.Equal(t, tc.missing, errors.Is(err, ErrMissingAttribute))
		})
	}
}

func TestShowFromElement(t *testing.T) {
	show, err := ShowFromElement(NewElement(TagDirectory, map[string]string{
		"title": "Firefly", "year": "2002", "key": "/library/metadata/10/children",
	}))
	require.NoError(t, err)
	assert.Equal(t, models.Show{Title: "Firefly", Year: intPtr(2002), Key: "/library/metadata/10/children"}, show)

	_, err = ShowFromElement(NewElement(TagDirectory, map[string]string{"title": "Firefly"}))
	assert.True(t, errors.Is(err, ErrMissingAttribute), "key is required")
}

func TestSeasonFromElement(t *testing.T) {
	index, key, err := SeasonFromElement(NewElement(TagDirectory, map[string]string{
		"title": "Season 1", "index": "1", "key": "/library/metadata/11/children",
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, index)
	assert.Equal(t, "/library/metadata/11/children", key)

	_, _, err = SeasonFromElement(NewElement(TagDirectory, map[string]string{
		"title": "All episodes", "key": "/library/metadata/10/allLeaves",
	}))
	assert.True(t, errors.Is(err, ErrMissingAttribute))
}

func TestEpisodeFromElement(t *testing.T) {
	episode, err := EpisodeFromElement(NewElement(TagVideo, map[string]string{
		"title": "Serenity", "index": "1", "viewCount": "1", "updatedAt": "1400000000", "userRating": "2.0",
	}), 1)
	require.NoError(t, err)
	assert.Equal(t, models.Episode{
		Season: 1, Number: 1, Title: "Serenity", Plays: 1, LastPlayed: int64Ptr(1400000000), Rating: intPtr(2),
	}, episode)

	episode, err = EpisodeFromElement(NewElement(TagVideo, map[string]string{"index": "4", "viewCount": "1"}), 2)
	require.NoError(t, err, "episode titles are optional")
	assert.Equal(t, 4, episode.Number)
	assert.Nil(t, episode.Rating)

	_, err = EpisodeFromElement(NewElement(TagVideo, map[string]string{"title": "Pilot", "viewCount": "1"}), 1)
	assert.True(t, errors.Is(err, ErrMissingAttribute), "index is required")
}
