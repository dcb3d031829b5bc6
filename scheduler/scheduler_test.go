package scheduler

import (
	"testing"
	"time"

	"gymhub/cleanup"
	"gymhub/motivation"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersAllJobs(t *testing.T) {
	coord := cleanup.NewCoordinator(nil, nil, nil, nil)
	motiv := motivation.NewService(nil, nil, nil, nil)

	c, err := New(coord, motiv)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 4)
}

func TestScheduleSpecsParse(t *testing.T) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

	for _, spec := range []string{
		LedgerSweepSpec,
		ExpiredPostSweepSpec,
		MorningBroadcastSpec,
		EveningBroadcastSpec,
	} {
		_, err := parser.Parse(spec)
		assert.NoError(t, err, spec)
	}
}

func TestBroadcastTimesAreTwiceDaily(t *testing.T) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

	morning, err := parser.Parse(MorningBroadcastSpec)
	require.NoError(t, err)
	evening, err := parser.Parse(EveningBroadcastSpec)
	require.NoError(t, err)

	midnight := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 8, morning.Next(midnight).Hour())
	assert.Equal(t, 18, evening.Next(midnight).Hour())
}
