package outbox

import (
	"context"
	"log/slog"
	"time"
)

// Drainer is anything that can retry its pending work in one pass.
type Drainer interface {
	Drain(ctx context.Context) (Report, error)
}

// Scheduler drains a processor on a fixed interval.
type Scheduler struct {
	interval time.Duration
	service  string
	drainer  Drainer
}

func NewScheduler(service string, interval time.Duration, drainer Drainer) *Scheduler {
	return &Scheduler{
		interval: interval,
		service:  service,
		drainer:  drainer,
	}
}

// Start drains once immediately, then on every tick until ctx is cancelled.
// A final drain with its own deadline runs on shutdown.
func (s *Scheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("[Outbox] Starting retry worker", "service", s.service, "interval", s.interval)

	s.drain(ctx)

	for {
		select {
		case <-ticker.C:
			s.drain(ctx)
		case <-ctx.Done():
			slog.Info("[Outbox] Stopping retry worker", "service", s.service)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			s.drain(shutdownCtx)
			slog.Info("[Outbox] Final drain complete", "service", s.service)
			return nil
		}
	}
}

func (s *Scheduler) drain(ctx context.Context) {
	if _, err := s.drainer.Drain(ctx); err != nil && ctx.Err() == nil {
		slog.Error("[Outbox] Drain failed", "service", s.service, "error", err)
	}
}
