package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/plextrakt/internal/controllers"
)

// Syncer runs one complete sync
type Syncer interface {
	SyncAll(ctx context.Context) (*controllers.SyncReport, error)
}

// Scheduler repeats the sync on a cron schedule
type Scheduler struct {
	cron   *cron.Cron
	syncer Syncer
	logger *logrus.Logger

	ctx    context.Context
	errors chan error
}

// NewScheduler creates a new scheduler
func NewScheduler(syncer Syncer, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cron.PrintfLogger(logger))),
		syncer: syncer,
		logger: logger,
		errors: make(chan error, 1),
	}
}

// Run syncs immediately, then on every tick of the cron expression expr,
// until ctx is done or a run fails. Runs never overlap. The first failure is
// returned.
func (s *Scheduler) Run(ctx context.Context, expr string) error {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", expr, err)
	}

	s.ctx = ctx
	job := cron.NewChain(cron.SkipIfStillRunning(cron.PrintfLogger(s.logger))).Then(cron.FuncJob(s.runSync))
	s.cron.Schedule(schedule, job)

	s.logger.WithField("schedule", expr).Info("Starting scheduler")
	s.cron.Start()
	defer s.Stop()

	go job.Run()

	select {
	case err := <-s.errors:
		return err
	case <-ctx.Done():
		return nil
	}
}

// Stop stops the scheduler and waits for a running sync to return
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}

// runSync executes the sync job
func (s *Scheduler) runSync() {
	if s.ctx.Err() != nil {
		return
	}

	s.logger.Info("Running scheduled sync")
	report, err := s.syncer.SyncAll(s.ctx)
	if err != nil {
		s.logger.WithError(err).Error("Sync job failed")
		select {
		case s.errors <- err:
		default:
		}
		return
	}

	s.logger.WithField("seen", report.Total()).Info("Sync job completed successfully")
	for _, entry := range s.cron.Entries() {
		s.logger.WithField("next", entry.Next).Debug("Next scheduled sync")
	}
}
