// Package scheduler owns the process's periodic jobs. The cron
// instance is built once in main and the services it drives are passed
// in, so tests can exercise the jobs without a running scheduler.
package scheduler

import (
	"context"
	"log"
	"time"

	"gymhub/cleanup"
	"gymhub/motivation"
	"gymhub/models"

	"github.com/robfig/cron/v3"
)

// Job schedules. The two sweeps intentionally run on different
// periods: the ledger drains hourly, the expired-post backstop only
// every six hours.
const (
	LedgerSweepSpec      = "0 * * * *"
	ExpiredPostSweepSpec = "0 */6 * * *"
	MorningBroadcastSpec = "0 8 * * *"
	EveningBroadcastSpec = "0 18 * * *"

	jobTimeout = 5 * time.Minute
)

// New registers all scheduled jobs on a fresh cron. Call Start on the
// result; jobs run in cron's own goroutines and never block request
// handling.
func New(coord *cleanup.Coordinator, motiv *motivation.Service) (*cron.Cron, error) {
	c := cron.New()

	jobs := []struct {
		spec string
		name string
		run  func(ctx context.Context)
	}{
		{LedgerSweepSpec, "ledger sweep", coord.SweepLedger},
		{ExpiredPostSweepSpec, "expired-post sweep", coord.SweepExpiredPosts},
		{MorningBroadcastSpec, "morning broadcast", func(ctx context.Context) {
			motiv.BroadcastSlot(ctx, models.SlotMorning)
		}},
		{EveningBroadcastSpec, "evening broadcast", func(ctx context.Context) {
			motiv.BroadcastSlot(ctx, models.SlotEvening)
		}},
	}

	for _, j := range jobs {
		run := j.run
		name := j.name
		if _, err := c.AddFunc(j.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			run(ctx)
		}); err != nil {
			return nil, err
		}
		log.Printf("scheduled %s (%s)", name, j.spec)
	}

	return c, nil
}
