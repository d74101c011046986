package models

// Thresholds bound the ratings that map to love and hate
type Thresholds struct {
	MaxHate int
	MinLove int
}

// Classify maps a Plex rating to a rating label.
// Love is checked before hate, so when MinLove <= MaxHate a rating matching
// both thresholds is classified as love.
func Classify(rating *int, t Thresholds) RatingLabel {
	if rating == nil {
		return RatingNone
	}
	if *rating >= t.MinLove {
		return RatingLove
	}
	if *rating <= t.MaxHate {
		return RatingHate
	}
	return RatingNone
}
