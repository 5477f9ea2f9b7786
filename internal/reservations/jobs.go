package reservations

import (
	"context"
	"time"

	"stagepass/internal/notifications"
	"stagepass/pkg/logger"
)

// Sweeper reclaims lapsed holds on a fixed interval. It is housekeeping
// only: correctness never waits for it, because every read and transition
// already treats a lapsed hold as AVAILABLE.
type Sweeper struct {
	service  Service
	producer *notifications.Producer
	interval time.Duration
	done     chan struct{}
}

func NewSweeper(service Service, producer *notifications.Producer, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Sweeper{
		service:  service,
		producer: producer,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop. It returns immediately; the loop runs
// until Stop is called or ctx is cancelled.
func (sw *Sweeper) Start(ctx context.Context) {
	go sw.run(ctx)
	logger.GetDefault().InfoWithContext(ctx, "hold sweeper started", map[string]interface{}{
		"interval": sw.interval.String(),
	})
}

func (sw *Sweeper) Stop() {
	close(sw.done)
	logger.GetDefault().Info("hold sweeper stopped")
}

func (sw *Sweeper) run(ctx context.Context) {
	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sw.sweep(ctx)
		case <-sw.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (sw *Sweeper) sweep(ctx context.Context) {
	count, err := sw.service.ExpireStaleHolds(ctx, time.Now().UTC())
	if err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "hold sweep failed", err, nil)
		return
	}
	if count > 0 {
		sw.producer.PublishHoldsExpired(ctx, int(count))
	}
}
