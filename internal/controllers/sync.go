package controllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/plextrakt/internal/config"
	"github.com/amaumene/plextrakt/internal/models"
	"github.com/amaumene/plextrakt/internal/services/plex"
	"github.com/amaumene/plextrakt/internal/services/trakt"
	"github.com/amaumene/plextrakt/internal/utils"
)

// PlexSource lists elements of the Plex library
type PlexSource interface {
	FetchElements(ctx context.Context, path, tagName string) ([]plex.Element, error)
}

// TraktSink receives seen and rating submissions
type TraktSink interface {
	Post(ctx context.Context, path string, payload interface{}) (bool, error)
}

// SyncOptions selects what a sync run reports
type SyncOptions struct {
	SyncMovies   bool
	SyncShows    bool
	Rate         bool
	Thresholds   models.Thresholds
	MovieSection string
	ShowSection  string
}

// OptionsFromConfig derives sync options from the loaded configuration
func OptionsFromConfig(cfg *config.Config) SyncOptions {
	return SyncOptions{
		SyncMovies:   cfg.SyncMovies,
		SyncShows:    cfg.SyncShows,
		Rate:         cfg.Rate,
		Thresholds:   models.Thresholds{MaxHate: cfg.MaxHate, MinLove: cfg.MinLove},
		MovieSection: cfg.MovieSection,
		ShowSection:  cfg.ShowSection,
	}
}

// SyncController reports Plex watch state and ratings to trakt
type SyncController struct {
	plex    PlexSource
	trakt   TraktSink
	opts    SyncOptions
	ignored *utils.IgnoreList
	logger  *logrus.Logger
}

// NewSyncController creates a new sync controller
func NewSyncController(plexSource PlexSource, traktSink TraktSink, opts SyncOptions, ignored *utils.IgnoreList, logger *logrus.Logger) *SyncController {
	return &SyncController{
		plex:    plexSource,
		trakt:   traktSink,
		opts:    opts,
		ignored: ignored,
		logger:  logger,
	}
}

// SyncAll runs the movie sync, then the show sync, stopping at the first
// error
func (c *SyncController) SyncAll(ctx context.Context) (*SyncReport, error) {
	c.logger.Info("Starting Plex to trakt sync")
	report := &SyncReport{}

	if c.opts.SyncMovies {
		if err := c.SyncMovies(ctx, report); err != nil {
			return report, fmt.Errorf("movie sync failed: %w", err)
		}
	} else {
		c.logger.Debug("Movie sync disabled")
	}

	if c.opts.SyncShows {
		if err := c.SyncShows(ctx, report); err != nil {
			return report, fmt.Errorf("show sync failed: %w", err)
		}
	} else {
		c.logger.Debug("Show sync disabled")
	}

	c.logger.WithFields(logrus.Fields{
		"movies_seen":    report.MoviesSeen,
		"movies_rated":   report.MoviesRated,
		"shows_seen":     report.ShowsSeen,
		"episodes_seen":  report.EpisodesSeen,
		"episodes_rated": report.EpisodesRated,
	}).Info("Sync completed")

	return report, nil
}

// SyncMovies marks every watched movie as seen in one batch and, when
// rating is enabled, rates each movie whose label is not none
func (c *SyncController) SyncMovies(ctx context.Context, report *SyncReport) error {
	c.logger.WithField("section", c.opts.MovieSection).Info("Syncing watched movies")

	elements, err := c.plex.FetchElements(ctx, plex.SectionPath(c.opts.MovieSection), plex.TagVideo)
	if err != nil {
		return fmt.Errorf("failed to list movies: %w", err)
	}

	movies := c.collectMovies(plex.Watched(elements))
	if len(movies) == 0 {
		c.logger.Warn("No watched movies could be found")
		return nil
	}

	for _, movie := range movies {
		c.logger.Infof("mark %q as seen", movieLabel(movie))
	}

	if _, err := c.trakt.Post(ctx, trakt.PathMovieSeen, trakt.MovieSeenPayload(movies)); err != nil {
		return err
	}
	report.MoviesSeen += len(movies)

	rated := 0
	if c.opts.Rate {
		for _, movie := range movies {
			label := models.Classify(movie.Rating, c.opts.Thresholds)
			if label == models.RatingNone {
				continue
			}

			c.logger.Infof("rate %q with %s", movieLabel(movie), label)
			if _, err := c.trakt.Post(ctx, trakt.PathRateMovie, trakt.MovieRatingPayload(movie, label)); err != nil {
				return err
			}
			rated++
		}
	}
	report.MoviesRated += rated

	c.logger.WithFields(logrus.Fields{
		"rated": rated,
		"total": len(movies),
	}).Info("Movie sync completed")

	return nil
}

// SyncShows walks shows, seasons and episodes, submits one seen batch per
// show with watched episodes and, when rating is enabled, rates each watched
// episode whose label is not none
func (c *SyncController) SyncShows(ctx context.Context, report *SyncReport) error {
	c.logger.WithField("section", c.opts.ShowSection).Info("Syncing watched shows")

	shows, err := c.collectShows(ctx)
	if err != nil {
		return err
	}

	if len(shows) == 0 {
		c.logger.Warn("No watched show episodes could be found")
		return nil
	}

	rated := 0
	total := 0
	for _, show := range shows {
		episodes := show.Episodes()
		c.logger.WithField("episodes", len(episodes)).Infof("mark episodes of %q as seen", showLabel(show))

		if _, err := c.trakt.Post(ctx, trakt.PathEpisodesSeen, trakt.EpisodesSeenPayload(show)); err != nil {
			return err
		}
		report.ShowsSeen++
		report.EpisodesSeen += len(episodes)
		total += len(episodes)

		if !c.opts.Rate {
			continue
		}

		for _, episode := range episodes {
			label := models.Classify(episode.Rating, c.opts.Thresholds)
			if label == models.RatingNone {
				continue
			}

			c.logger.Infof("rate %q S%02dE%02d with %s", showLabel(show), episode.Season, episode.Number, label)
			if _, err := c.trakt.Post(ctx, trakt.PathRateEpisode, trakt.EpisodeRatingPayload(show, episode, label)); err != nil {
				return err
			}
			rated++
		}
	}
	report.EpisodesRated += rated

	c.logger.WithFields(logrus.Fields{
		"shows": len(shows),
		"rated": rated,
		"total": total,
	}).Info("Show sync completed")

	return nil
}

// collectMovies extracts records from watched elements, skipping elements
// with missing or malformed attributes and ignored titles
func (c *SyncController) collectMovies(elements []plex.Element) []models.Movie {
	movies := make([]models.Movie, 0, len(elements))
	for _, element := range elements {
		movie, err := plex.MovieFromElement(element)
		if err != nil {
			c.logger.WithError(err).Warn("Skipping movie with unusable attributes")
			continue
		}
		if c.isIgnored(models.MediaTypeMovie, movie.Title) {
			continue
		}
		movies = append(movies, movie)
	}
	return movies
}

// collectShows builds the hierarchy of shows that have watched episodes
func (c *SyncController) collectShows(ctx context.Context) ([]models.Show, error) {
	showElements, err := c.plex.FetchElements(ctx, plex.SectionPath(c.opts.ShowSection), plex.TagDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to list shows: %w", err)
	}

	var shows []models.Show
	for _, element := range showElements {
		show, err := plex.ShowFromElement(element)
		if err != nil {
			c.logger.WithError(err).Warn("Skipping show with unusable attributes")
			continue
		}
		if c.isIgnored(models.MediaTypeShow, show.Title) {
			continue
		}

		seasons, err := c.collectSeasons(ctx, show)
		if err != nil {
			return nil, err
		}
		show.Seasons = seasons

		if show.WatchedEpisodes() == 0 {
			c.logger.WithField("title", show.Title).Debug("No watched episodes, skipping show")
			continue
		}
		shows = append(shows, show)
	}

	return shows, nil
}

// collectSeasons lists the seasons of show with at least one watched episode
func (c *SyncController) collectSeasons(ctx context.Context, show models.Show) ([]models.Season, error) {
	seasonElements, err := c.plex.FetchElements(ctx, show.Key, plex.TagDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to list seasons of %q: %w", show.Title, err)
	}

	var seasons []models.Season
	for _, element := range seasonElements {
		index, key, err := plex.SeasonFromElement(element)
		if errors.Is(err, plex.ErrMissingAttribute) {
			c.logger.WithError(err).WithField("title", show.Title).Debug("Skipping season entry")
			continue
		}
		if err != nil {
			c.logger.WithError(err).WithField("title", show.Title).Warn("Skipping season with unusable attributes")
			continue
		}

		episodeElements, err := c.plex.FetchElements(ctx, key, plex.TagVideo)
		if err != nil {
			return nil, fmt.Errorf("failed to list episodes of %q season %d: %w", show.Title, index, err)
		}

		season := models.Season{Index: index}
		for _, episodeElement := range plex.Watched(episodeElements) {
			episode, err := plex.EpisodeFromElement(episodeElement, index)
			if err != nil {
				c.logger.WithError(err).WithField("title", show.Title).Warn("Skipping episode with unusable attributes")
				continue
			}
			season.Episodes = append(season.Episodes, episode)
		}

		if len(season.Episodes) > 0 {
			seasons = append(seasons, season)
		}
	}

	return seasons, nil
}

func (c *SyncController) isIgnored(kind models.MediaType, title string) bool {
	ignored, term := c.ignored.IsIgnored(title)
	if ignored {
		c.logger.WithFields(logrus.Fields{
			"kind":  kind,
			"title": title,
			"term":  term,
		}).Info("Title is on the ignore list, skipping")
	}
	return ignored
}

func movieLabel(movie models.Movie) string {
	if movie.Year == nil {
		return movie.Title
	}
	return fmt.Sprintf("%s (%d)", movie.Title, *movie.Year)
}

func showLabel(show models.Show) string {
	if show.Year == nil {
		return show.Title
	}
	return fmt.Sprintf("%s (%d)", show.Title, *show.Year)
}
