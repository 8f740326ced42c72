package live

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Refresher re-reads the realtime snapshot in the background.
type Refresher interface {
	RefreshRealtime()
}

// Poller refreshes the realtime snapshot on a fixed period.
type Poller struct {
	target   Refresher
	interval time.Duration
	log      zerolog.Logger
}

func NewPoller(target Refresher, interval time.Duration, logger zerolog.Logger) *Poller {
	return &Poller{target: target, interval: interval, log: logger.With().Str("component", "poller").Logger()}
}

// Run blocks until ctx is done. A non-positive interval disables polling.
func (p *Poller) Run(ctx context.Context) error {
	if p.interval <= 0 {
		p.log.Info().Msg("realtime polling disabled")
		return nil
	}
	t := time.NewTicker(p.interval)
	defer t.Stop()
	p.log.Info().Dur("interval", p.interval).Msg("realtime polling started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			p.target.RefreshRealtime()
		}
	}
}
