package service

import (
	"context"
	"fmt"
	"time"

	pkglogger "github.com/emojitopng/emojitopng-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// standard 5-field cron expressions plus descriptors (@hourly, @every 10m)
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Reloader is the part of CatalogService the scheduler drives
type Reloader interface {
	Reload(ctx context.Context) *Snapshot
}

// ReloadScheduler re-reads the dataset on a cron schedule so a remote bundle
// (http, s3) that changed upstream reaches the catalog without a restart.
type ReloadScheduler struct {
	catalog  Reloader
	schedule cron.Schedule
	expr     string
}

// NewReloadScheduler parses expr and binds it to catalog
func NewReloadScheduler(catalog Reloader, expr string) (*ReloadScheduler, error) {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid reload schedule %q: %w", expr, err)
	}
	return &ReloadScheduler{catalog: catalog, schedule: sched, expr: expr}, nil
}

// Next fire time after from
func (s *ReloadScheduler) Next(from time.Time) time.Time {
	return s.schedule.Next(from)
}

// Run blocks until ctx is cancelled, reloading the catalog at every fire time
func (s *ReloadScheduler) Run(ctx context.Context) {
	log := pkglogger.WithComponent("reload-scheduler")
	log.Info().Str("schedule", s.expr).Time("next", s.Next(time.Now())).Msg("scheduled reload enabled")

	for {
		wait := time.Until(s.Next(time.Now()))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Debug().Msg("reload scheduler stopping")
			return
		case <-timer.C:
			snap := s.catalog.Reload(ctx)
			log.Info().
				Str("source", string(snap.Source)).
				Int("records", len(snap.Records)).
				Int("skipped", len(snap.Skipped)).
				Msg("scheduled reload")
		}
	}
}
