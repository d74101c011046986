package models

// Movie represents a watched movie read from Plex
type Movie struct {
	Title      string
	Year       *int   // nil when Plex has no year
	Plays      int    // Plex viewCount
	LastPlayed *int64 // Plex updatedAt, epoch seconds
	Rating     *int   // Plex userRating on a 1-10 scale, nil when unrated
}

// Episode represents a watched episode read from Plex
type Episode struct {
	Season     int
	Number     int
	Title      string
	Plays      int
	LastPlayed *int64
	Rating     *int
}

// Season groups the watched episodes of one season, in Plex order
type Season struct {
	Index    int
	Episodes []Episode
}

// Show is a show with the seasons that hold at least one watched episode
type Show struct {
	Title   string
	Year    *int
	Key     string // Plex path listing the show's seasons
	Seasons []Season
}

// WatchedEpisodes returns the number of watched episodes across all seasons
func (s *Show) WatchedEpisodes() int {
	count := 0
	for _, season := range s.Seasons {
		count += len(season.Episodes)
	}
	return count
}

// Episodes returns all watched episodes in season order
func (s *Show) Episodes() []Episode {
	episodes := make([]Episode, 0, s.WatchedEpisodes())
	for _, season := range s.Seasons {
		episodes = append(episodes, season.Episodes...)
	}
	return episodes
}
