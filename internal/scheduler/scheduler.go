package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Scheduler runs the background maintenance jobs: the periodic catalog
// reload and the daily conversation report. Either job is skipped when its
// cron expression is empty.
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc

	reloadSpec string
	reloadFunc func() error

	reportSpec string
	reportFunc func(ctx context.Context) error
}

func New(reloadSpec string, reloadFunc func() error, reportSpec string, reportFunc func(ctx context.Context) error) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		ctx:        ctx,
		cancel:     cancel,
		reloadSpec: reloadSpec,
		reloadFunc: reloadFunc,
		reportSpec: reportSpec,
		reportFunc: reportFunc,
	}
}

func (s *Scheduler) Start() error {
	if s.reloadSpec != "" && s.reloadFunc != nil {
		if _, err := s.cron.AddFunc(s.reloadSpec, func() {
			if err := s.reloadFunc(); err != nil {
				log.WithError(err).Warn("catalog reload failed")
			} else {
				log.Debug("catalog reloaded")
			}
		}); err != nil {
			return err
		}
	}

	if s.reportSpec != "" && s.reportFunc != nil {
		if _, err := s.cron.AddFunc(s.reportSpec, func() {
			if err := s.reportFunc(s.ctx); err != nil {
				log.WithError(err).Warn("daily report failed")
			}
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	log.Info("scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Info("scheduler stopped")
}

// IsRunning reports whether any job is scheduled.
func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
