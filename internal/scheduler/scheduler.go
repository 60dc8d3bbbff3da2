package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/anarmmdv/bazar/internal/config"
	"github.com/anarmmdv/bazar/internal/repository/mongodb"
	"github.com/anarmmdv/bazar/internal/service/ledger"
	"github.com/anarmmdv/bazar/internal/service/report"
)

// Scheduler runs the nightly day-close job: aggregate today's ledger rows
// and archive the resulting report.
type Scheduler struct {
	cron      *cron.Cron
	reportSvc *report.Service
	archive   mongodb.Archive
	cfg       config.Config
	loc       *time.Location
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance. The cron runs in the
// configured timezone so "20:00" means 20:00 Baku time.
func NewScheduler(cfg config.Config, loc *time.Location, reportSvc *report.Service, archive mongodb.Archive, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		reportSvc: reportSvc,
		archive:   archive,
		cfg:       cfg,
		loc:       loc,
		logger:    logger,
	}
}

// Start registers the day-close job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.Reporting.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.archiveDayClose); err != nil {
		s.logger.Error("failed to schedule day-close job", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) archiveDayClose() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	date := ledger.DateIn(time.Now(), s.loc)
	s.logger.Info("generating day-close report", zap.String("date", date))

	dayReport, err := s.reportSvc.DayClose(ctx, date)
	if err != nil {
		s.logger.Error("failed to build day-close report", zap.Error(err))
		return
	}

	if err := s.archive.SaveDailyReport(ctx, *dayReport); err != nil {
		s.logger.Error("failed to archive day-close report", zap.Error(err))
		return
	}

	s.logger.Info("day-close report archived",
		zap.String("date", date),
		zap.Float64("profit", dayReport.Profit),
		zap.Int("products", len(dayReport.Products)))
}
