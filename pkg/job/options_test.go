package job

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deliverTask struct{}

func (t *deliverTask) Name() string { return "courier:deliver" }

func (t *deliverTask) Handle(context.Context, campaignPayload) error { return nil }

func TestWithTask(t *testing.T) {
	t.Parallel()

	cfg := newConfig()
	WithTask[campaignPayload](&deliverTask{})(cfg)

	executor, ok := cfg.registry.get("courier:deliver")
	assert.True(t, ok)
	assert.NotNil(t, executor)
}

type digestTask struct {
	schedule string
	runs     int
}

func (t *digestTask) Name() string     { return "weekly_digest" }
func (t *digestTask) Schedule() string { return t.schedule }

func (t *digestTask) Handle(context.Context) error {
	t.runs++
	return nil
}

func TestWithScheduledTask(t *testing.T) {
	t.Parallel()

	cfg := newConfig()
	task := &digestTask{schedule: "0 9 * * 1"}
	WithScheduledTask[*digestTask](task)(cfg)

	require.Len(t, cfg.schedules, 1)
	assert.Equal(t, "weekly_digest", cfg.schedules[0].name)
	assert.Equal(t, "0 9 * * 1", cfg.schedules[0].schedule)

	require.NoError(t, cfg.schedules[0].handler(context.Background()))
	assert.Equal(t, 1, task.runs)
}

func TestWithQueue(t *testing.T) {
	t.Parallel()

	cfg := newConfig()
	WithQueue("email", 10)(cfg)
	WithQueue("ignored", 0)(cfg)

	assert.Equal(t, map[string]int{"email": 10}, cfg.queues)
}

func TestWithLogger(t *testing.T) {
	t.Parallel()

	cfg := newConfig()
	WithLogger(nil)(cfg)
	assert.Nil(t, cfg.logger)

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	WithLogger(log)(cfg)
	assert.Equal(t, log, cfg.logger)
}

func TestWithMaxWorkers(t *testing.T) {
	t.Parallel()

	cfg := newConfig()
	WithMaxWorkers(25)(cfg)
	assert.Equal(t, 25, cfg.maxWorkers)

	WithMaxWorkers(0)(cfg)
	assert.Equal(t, 25, cfg.maxWorkers)
}

func TestParseCronSchedule(t *testing.T) {
	t.Parallel()

	schedule, err := parseCronSchedule("0 9 * * 1")
	require.NoError(t, err)

	// Monday 2026-09-07 09:00 is the next run after Tuesday 2026-09-01.
	from := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	next := schedule.Next(from)
	assert.Equal(t, time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC), next)
}

func TestParseCronSchedule_Invalid(t *testing.T) {
	t.Parallel()

	_, err := parseCronSchedule("not a schedule")
	require.Error(t, err)
}
