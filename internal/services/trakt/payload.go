package trakt

import (
	"github.com/amaumene/plextrakt/internal/models"
)

// Endpoints used by the sync
const (
	PathMovieSeen    = "movie/seen"
	PathRateMovie    = "rate/movie"
	PathEpisodesSeen = "show/episode/seen"
	PathRateEpisode  = "rate/episode"
)

// SeenMovie is one entry of a movie/seen batch
type SeenMovie struct {
	Title      string `json:"title"`
	Year       *int   `json:"year,omitempty"`
	Plays      int    `json:"plays"`
	LastPlayed *int64 `json:"last_played,omitempty"`
}

// MovieSeenRequest is the body of movie/seen
type MovieSeenRequest struct {
	Movies []SeenMovie `json:"movies"`
}

// MovieRatingRequest is the body of rate/movie
type MovieRatingRequest struct {
	Title  string             `json:"title"`
	Year   *int               `json:"year,omitempty"`
	Rating models.RatingLabel `json:"rating"`
}

// SeenEpisode identifies one episode of a show
type SeenEpisode struct {
	Season  int `json:"season"`
	Episode int `json:"episode"`
}

// EpisodesSeenRequest is the body of show/episode/seen
type EpisodesSeenRequest struct {
	Title    string        `json:"title"`
	Year     *int          `json:"year,omitempty"`
	Episodes []SeenEpisode `json:"episodes"`
}

// EpisodeRatingRequest is the body of rate/episode
type EpisodeRatingRequest struct {
	Title   string             `json:"title"`
	Year    *int               `json:"year,omitempty"`
	Season  int                `json:"season"`
	Episode int                `json:"episode"`
	Rating  models.RatingLabel `json:"rating"`
}

// MovieSeenPayload builds one movie/seen batch from movies, in order
func MovieSeenPayload(movies []models.Movie) MovieSeenRequest {
	seen := make([]SeenMovie, 0, len(movies))
	for _, movie := range movies {
		seen = append(seen, SeenMovie{
			Title:      movie.Title,
			Year:       movie.Year,
			Plays:      movie.Plays,
			LastPlayed: movie.LastPlayed,
		})
	}
	return MovieSeenRequest{Movies: seen}
}

// MovieRatingPayload builds a rate/movie body
func MovieRatingPayload(movie models.Movie, label models.RatingLabel) MovieRatingRequest {
	return MovieRatingRequest{
		Title:  movie.Title,
		Year:   movie.Year,
		Rating: label,
	}
}

// EpisodesSeenPayload builds the show/episode/seen body listing every
// watched episode of show, in season order
func EpisodesSeenPayload(show models.Show) EpisodesSeenRequest {
	episodes := make([]SeenEpisode, 0, show.WatchedEpisodes())
	for _, episode := range show.Episodes() {
		episodes = append(episodes, SeenEpisode{
			Season:  episode.Season,
			Episode: episode.Number,
		})
	}
	return EpisodesSeenRequest{
		Title:    show.Title,
		Year:     show.Year,
		Episodes: episodes,
	}
}

// EpisodeRatingPayload builds a rate/episode body
func EpisodeRatingPayload(show models.Show, episode models.Episode, label models.RatingLabel) EpisodeRatingRequest {
	return EpisodeRatingRequest{
		Title:   show.Title,
		Year:    show.Year,
		Season:  episode.Season,
		Episode: episode.Number,
		Rating:  label,
	}
}
