package job

import (
	"context"
	"log/slog"
)

// config holds job manager configuration.
type config struct {
	registry   *taskRegistry
	queues     map[string]int
	logger     *slog.Logger
	schedules  []scheduleConfig
	maxWorkers int
}

func newConfig() *config {
	return &config{
		registry: newTaskRegistry(),
		queues:   make(map[string]int),
	}
}

// Option configures the job manager.
type Option func(*config)

// WithTask registers a task handler using structural typing. The task
// must implement Name() and Handle(ctx, P); the payload type P is
// inferred from the Handle signature.
//
// Example:
//
//	task, _ := delivery.NewTask(store, transport)
//	job.WithTask(task)
func WithTask[P any, T interface {
	Name() string
	Handle(context.Context, P) error
}](task T) Option {
	return func(c *config) {
		c.registry.register(task.Name(), newTaskWrapper[P, T](task))
	}
}

// WithScheduledTask registers a periodic task using structural typing.
// The task must implement Name(), Schedule(), and Handle(ctx); Schedule
// returns a 5-field cron expression. Use this to re-trigger recurring
// campaigns — re-running a campaign only reaches recipients the dedup
// records have not marked sent.
//
// Example:
//
//	type WeeklyDigest struct{ courier *courier.Courier }
//
//	func (t *WeeklyDigest) Name() string     { return "weekly_digest" }
//	func (t *WeeklyDigest) Schedule() string { return "0 9 * * 1" }
//	func (t *WeeklyDigest) Handle(ctx context.Context) error { ... }
func WithScheduledTask[T interface {
	Name() string
	Schedule() string
	Handle(context.Context) error
}](task T) Option {
	return func(c *config) {
		c.schedules = append(c.schedules, scheduleConfig{
			name:     task.Name(),
			schedule: task.Schedule(),
			handler:  task.Handle,
		})
	}
}

// WithQueue configures a named queue with the given worker count.
//
// Example:
//
//	job.WithQueue("email", 10)
func WithQueue(name string, workers int) Option {
	return func(c *config) {
		if workers > 0 {
			c.queues[name] = workers
		}
	}
}

// WithLogger sets the logger for job processing. Defaults to noop.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxWorkers sets the default queue's worker count. Defaults to 100.
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}
