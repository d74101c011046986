package models

// MediaType represents the kind of library item being synced
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeShow  MediaType = "show"
)

// RatingLabel is the categorical rating submitted to trakt
type RatingLabel string

const (
	RatingLove RatingLabel = "love"
	RatingHate RatingLabel = "hate"
	RatingNone RatingLabel = "none" // Not submitted
)
