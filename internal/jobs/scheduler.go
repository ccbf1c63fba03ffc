package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"balcvetov/api/internal/config"
	"balcvetov/api/internal/ids"
	"balcvetov/api/internal/tasks"
)

type Enqueuer interface {
	Enqueue(ctx context.Context, values map[string]any) (string, error)
}

type Scheduler struct {
	cron  *cron.Cron
	queue Enqueuer
	specs config.JobsConfig
	log   zerolog.Logger
	now   func() time.Time
}

// NewScheduler returns a scheduler that does nothing when queue is nil.
func NewScheduler(queue Enqueuer, specs config.JobsConfig, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds()),
		queue: queue,
		specs: specs,
		log:   log.With().Str("component", "scheduler").Logger(),
		now:   time.Now,
	}
}

func (s *Scheduler) Start() error {
	if s.queue == nil {
		s.log.Warn().Msg("task queue unavailable, background jobs disabled")
		return nil
	}

	jobs := []struct {
		spec     string
		taskType string
	}{
		{s.specs.PricelistSpec, tasks.TypePricelist},
		{s.specs.CustomerStatsSpec, tasks.TypeCustomerStats},
	}
	for _, job := range jobs {
		if job.spec == "" {
			continue
		}
		taskType := job.taskType
		if _, err := s.cron.AddFunc(job.spec, func() { s.enqueue(taskType) }); err != nil {
			return fmt.Errorf("schedule %s %q: %w", taskType, job.spec, err)
		}
	}

	s.cron.Start()
	return nil
}

// Stop waits for running enqueues to finish or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) enqueue(taskType string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	task := tasks.Task{ID: ids.New(), Type: taskType, EnqueuedAt: s.now()}
	messageID, err := s.queue.Enqueue(ctx, task.Values())
	if err != nil {
		s.log.Error().Err(err).Str("type", taskType).Msg("enqueue task failed")
		return
	}
	s.log.Debug().
		Str("type", taskType).
		Str("task_id", task.ID).
		Str("message_id", messageID).
		Msg("task enqueued")
}
