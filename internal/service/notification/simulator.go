// internal/service/notification/simulator.go
package notification

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"ptieasy-service/internal/domain/notification"

	"go.uber.org/zap"
)

// Simulator occasionally pushes a synthetic "inspection completed" event so
// the feed shows live activity.
type Simulator struct {
	svc      *NotificationService
	interval time.Duration
	chance   float64
	rng      *rand.Rand
	logger   *zap.Logger
}

func NewSimulator(svc *NotificationService, interval time.Duration, chance float64, logger *zap.Logger) *Simulator {
	return &Simulator{
		svc:      svc,
		interval: interval,
		chance:   chance,
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x70746965)),
		logger:   logger,
	}
}

// WithRand replaces the random source; only Run's goroutine uses it.
func (s *Simulator) WithRand(r *rand.Rand) *Simulator {
	s.rng = r
	return s
}

// Run ticks until ctx is cancelled.
func (s *Simulator) Run(ctx context.Context) error {
	if s.chance <= 0 {
		s.logger.Info("notification simulation disabled")
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("notification simulation started",
		zap.Duration("interval", s.interval),
		zap.Float64("chance", s.chance),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("notification simulation stopped")
			return nil
		case <-ticker.C:
			if _, err := s.Tick(ctx); err != nil {
				s.logger.Warn("simulated notification failed", zap.Error(err))
			}
		}
	}
}

// Tick rolls once and pushes a notification on a hit.
func (s *Simulator) Tick(ctx context.Context) (*notification.Notification, error) {
	if s.rng.Float64() >= s.chance {
		return nil, nil
	}

	truck := 100 + s.rng.IntN(200)
	return s.svc.Push(ctx, &notification.CreateNotificationRequest{
		Type:     notification.TypePTICompleted,
		Title:    "New PTI Completed",
		Message:  fmt.Sprintf("Truck #%d inspection just completed", truck),
		Priority: notification.PriorityMedium,
		Data:     &notification.Data{VehicleRef: fmt.Sprintf("TRK-%d", truck)},
	})
}
