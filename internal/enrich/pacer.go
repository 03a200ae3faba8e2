package enrich

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a minimum gap between AI calls and an optional longer pause
// after every batchSize calls, keeping provider rate limits comfortable on
// long runs. The first call passes immediately.
type Pacer struct {
	limiter   *rate.Limiter
	batchSize int
	pause     time.Duration
	count     int
	logger    *slog.Logger
}

// NewPacer creates a pacer with the given minimum gap. batchSize 0 disables
// batch pausing.
func NewPacer(minGap time.Duration, batchSize int, pause time.Duration, logger *slog.Logger) *Pacer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pacer{
		limiter:   rate.NewLimiter(rate.Every(minGap), 1),
		batchSize: batchSize,
		pause:     pause,
		logger:    logger,
	}
}

// Wait blocks until the next AI call is allowed. Returns early with the
// context error on cancellation.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.batchSize > 0 {
		p.count++
		// Pause after every full batch, but never before the first call.
		if p.count > 1 && (p.count-1)%p.batchSize == 0 {
			p.logger.Info("AI batch limit reached, pausing",
				"calls", p.count-1, "pause", p.pause)
			select {
			case <-time.After(p.pause):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return p.limiter.Wait(ctx)
}

// Calls returns how many times Wait has been invoked with batch counting on.
func (p *Pacer) Calls() int {
	return p.count
}
