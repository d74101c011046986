package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestClassify(t *testing.T) {
	defaults := Thresholds{MaxHate: 3, MinLove: 8}

	testCases := []struct {
		name       string
		rating     *int
		thresholds Thresholds
		expected   RatingLabel
	}{
		{name: "unrated", rating: nil, thresholds: defaults, expected: RatingNone},
		{name: "at min love", rating: intPtr(8), thresholds: defaults, expected: RatingLove},
		{name: "top rating", rating: intPtr(10), thresholds: defaults, expected: RatingLove},
		{name: "at max hate", rating: intPtr(3), thresholds: defaults, expected: RatingHate},
		{name: "lowest rating", rating: intPtr(1), thresholds: defaults, expected: RatingHate},
		{name: "between thresholds", rating: intPtr(5), thresholds: defaults, expected: RatingNone},
		{name: "just below love", rating: intPtr(7), thresholds: defaults, expected: RatingNone},
		{name: "just above hate", rating: intPtr(4), thresholds: defaults, expected: RatingNone},
		{name: "overlapping thresholds prefer love", rating: intPtr(5), thresholds: Thresholds{MaxHate: 6, MinLove: 4}, expected: RatingLove},
		{name: "overlap below love is hate", rating: intPtr(3), thresholds: Thresholds{MaxHate: 6, MinLove: 4}, expected: RatingHate},
		{name: "zero thresholds love everything", rating: intPtr(1), thresholds: Thresholds{MaxHate: 0, MinLove: 0}, expected: RatingLove},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Classify(tc.rating, tc.thresholds))
		})
	}
}

func TestClassifyExhaustive(t *testing.T) {
	for maxHate := 0; maxHate <= 10; maxHate++ {
		for minLove := maxHate; minLove <= 10; minLove++ {
			thresholds := Thresholds{MaxHate: maxHate, MinLove: minLove}
			assert.Equal(t, RatingNone, Classify(nil, thresholds))

			for r := 1; r <= 10; r++ {
				rating := r
				label := Classify(&rating, thresholds)
				switch {
				case r >= minLove:
					assert.Equal(t, RatingLove, label, "rating %d with %+v", r, thresholds)
				case r <= maxHate:
					assert.Equal(t, RatingHate, label, "rating %d with %+v", r, thresholds)
				default:
					assert.Equal(t, RatingNone, label, "rating %d with %+v", r, thresholds)
				}
			}
		}
	}
}

func TestShowEpisodes(t *testing.T) {
	show := Show{
		Title: "Show",
		Seasons: []Season{
			{Index: 1, Episodes: []Episode{{Season: 1, Number: 1}, {Season: 1, Number: 2}}},
			{Index: 3, Episodes: []Episode{{Season: 3, Number: 5}}},
		},
	}

	assert.Equal(t, 3, show.WatchedEpisodes())
	assert.Equal(t, []Episode{
		{Season: 1, Number: 1},
		{Season: 1, Number: 2},
		{Season: 3, Number: 5},
	}, show.Episodes())
	assert.Equal(t, 0, (&Show{}).WatchedEpisodes())
}
