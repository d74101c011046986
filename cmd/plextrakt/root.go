package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/amaumene/plextrakt/internal/config"
	"github.com/amaumene/plextrakt/internal/controllers"
	"github.com/amaumene/plextrakt/internal/scheduler"
	"github.com/amaumene/plextrakt/internal/services/plex"
	"github.com/amaumene/plextrakt/internal/services/trakt"
	"github.com/amaumene/plextrakt/internal/utils"
)

const version = "1.0"

const description = `Connects to a Plex media server and reports the watched movies and
show episodes to a trakt.tv user profile. Optionally it also flags them on
trakt with "love" or "hate" according to their ratings in Plex.`

const ratingHelp = `
Rating:
  Plex allows up to 5 stars with half stars, so there are 10 rating steps.
  --max-hate and --min-love take a value between 0 and 10. Items which are
  not rated in Plex are not flagged at all. When both thresholds match a
  rating, "love" wins.

Every flag can also be set with a PLEXTRAKT_ environment variable, for
example PLEXTRAKT_PASSWORD, or in a .env file in the working directory.
`

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "plextrakt",
		Short:         "Report Plex watch history and ratings to trakt.tv",
		Long:          description,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd, cfg)
		},
	}

	config.RegisterFlags(rootCmd.Flags())
	rootCmd.SetHelpTemplate(rootCmd.HelpTemplate() + ratingHelp)

	return rootCmd
}

func run(cmd *cobra.Command, cfg *config.Config) error {
	logger, logFile, err := utils.NewFileLogger(cfg.LogFile, cfg.Verbose)
	if err != nil {
		return err
	}
	defer logFile.Close()

	if err := runSync(cmd, cfg, logger); err != nil {
		logger.WithError(err).Error("Sync aborted")
		return &loggedError{err: err}
	}
	return nil
}

func runSync(cmd *cobra.Command, cfg *config.Config, logger *logrus.Logger) error {
	logger.WithFields(logrus.Fields{
		"plex":   cfg.PlexBaseURL(),
		"movies": cfg.SyncMovies,
		"shows":  cfg.SyncShows,
		"rate":   cfg.Rate,
	}).Debug("Configuration loaded")

	ignored, err := utils.LoadIgnoreList(cfg.IgnoreFile)
	if err != nil {
		return fmt.Errorf("failed to load ignore list: %w", err)
	}
	if ignored.Len() > 0 {
		logger.WithField("terms", ignored.Len()).Info("Ignore list loaded")
	}

	plexClient, err := plex.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize Plex client: %w", err)
	}

	traktClient, err := trakt.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize trakt client: %w", err)
	}

	syncCtrl := controllers.NewSyncController(plexClient, traktClient, controllers.OptionsFromConfig(cfg), ignored, logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Schedule != "" {
		return scheduler.NewScheduler(syncCtrl, logger).Run(ctx, cfg.Schedule)
	}

	report, err := syncCtrl.SyncAll(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.Render())
	return nil
}
