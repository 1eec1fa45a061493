package returns

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/saed34123/investa/internal/logger"
)

// Scheduler triggers Run on a cron schedule. Overlapping runs are harmless:
// the per-investment claim keeps them from double-crediting, so no
// distributed lock is needed.
type Scheduler struct {
	service *ReturnsService
	cron    *cron.Cron
	logger  logger.Logger
}

func NewScheduler(service *ReturnsService, l logger.Logger) *Scheduler {
	return &Scheduler{
		service: service,
		cron:    cron.New(),
		logger:  l,
	}
}

// Start registers the schedule ("@hourly", "0 3 * * *", "@every 10m", ...)
// and runs until ctx is cancelled. The returned channel closes when the
// scheduler has fully stopped.
func (s *Scheduler) Start(ctx context.Context, spec string) (<-chan struct{}, error) {
	_, err := s.cron.AddFunc(spec, func() {
		if _, err := s.service.Run(ctx); err != nil {
			s.logger.Error("Returns run failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid returns schedule %q: %w", spec, err)
	}

	s.cron.Start()
	s.logger.Info("Returns scheduler started", "schedule", spec)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		<-s.cron.Stop().Done()
		s.logger.Debug("Returns scheduler stopped")
	}()

	return stopped, nil
}
