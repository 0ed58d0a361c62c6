package sender

import (
	"context"
	"errors"
	"fmt"

	"github.com/blossom2016/stripeConnect/metrics"
	"github.com/blossom2016/stripeConnect/models"

	"go.uber.org/zap"
)

// Notifier delivers a notification to one sink.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, n models.Notification) error
}

// Fanout delivers to every sink. Failures are logged and counted, and joined
// into the returned error for the caller's logs only.
type Fanout struct {
	sinks   []Notifier
	metrics *metrics.ServerMetrics
	logger  *zap.Logger
}

func NewFanout(logger *zap.Logger, m *metrics.ServerMetrics, sinks ...Notifier) *Fanout {
	return &Fanout{sinks: sinks, metrics: m, logger: logger}
}

func (f *Fanout) Name() string { return "fanout" }

func (f *Fanout) Notify(ctx context.Context, n models.Notification) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Notify(ctx, n); err != nil {
			f.logger.Warn("Notification failed",
				zap.String("sink", s.Name()),
				zap.String("event_id", n.EventID),
				zap.Error(err),
			)
			f.metrics.ObserveNotification(s.Name(), "failed")
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		f.metrics.ObserveNotification(s.Name(), "sent")
	}
	return errors.Join(errs...)
}
