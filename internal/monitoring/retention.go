// Package monitoring holds the background jobs that run alongside request
// handling.
package monitoring

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/memberhub/memberhub/internal/services"
)

// Retention prunes old auth events on a cron schedule so the audit table
// does not grow without bound.
type Retention struct {
	events services.AuthEventServiceProvider
	maxAge time.Duration
	cron   *cron.Cron
}

// NewRetention creates a retention job keeping auth events younger than maxAge.
func NewRetention(events services.AuthEventServiceProvider, maxAge time.Duration) *Retention {
	return &Retention{
		events: events,
		maxAge: maxAge,
		cron:   cron.New(),
	}
}

// Run registers the purge on a daily schedule, executes it once immediately,
// and starts the cron loop.
func (r *Retention) Run() error {
	if _, err := r.cron.AddFunc("@daily", r.purge); err != nil {
		return err
	}
	r.purge()
	r.cron.Start()
	return nil
}

// Stop halts the cron loop, waiting for a running purge to finish.
func (r *Retention) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Retention) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	purged, err := r.events.PurgeOlderThan(ctx, r.maxAge)
	if err != nil {
		log.Error().Err(err).Msg("Failed to purge old auth events")
		return
	}
	if purged > 0 {
		log.Info().Int64("purged", purged).Msg("Pruned old auth events")
	}
}
