package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Task represents a scheduled task
type Task struct {
	Name     string
	Interval time.Duration
	Fn       func(context.Context) error
}

// Scheduler runs each task immediately on start and then on its interval
type Scheduler struct {
	tasks   []*Task
	running bool
	mutex   sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	log     zerolog.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		tasks: make([]*Task, 0),
		log:   log.With().Str("component", "scheduler").Logger(),
	}
}

// AddTask adds a task to the scheduler. Tasks added after Start run on the next Start.
func (s *Scheduler) AddTask(name string, interval time.Duration, fn func(context.Context) error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.tasks = append(s.tasks, &Task{
		Name:     name,
		Interval: interval,
		Fn:       fn,
	})
}

// Tasks returns the names of the registered tasks
func (s *Scheduler) Tasks() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	names := make([]string, 0, len(s.tasks))
	for _, t := range s.tasks {
		names = append(names, t.Name)
	}
	return names
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	for _, task := range s.tasks {
		s.wg.Add(1)
		go s.runTask(ctx, task)
	}

	s.log.Info().Int("tasks", len(s.tasks)).Msg("Scheduler started")
}

// Stop cancels every task and waits for running ones to return
func (s *Scheduler) Stop() {
	s.mutex.Lock()
	if !s.running {
		s.mutex.Unlock()
		return
	}
	s.cancel()
	s.running = false
	s.mutex.Unlock()

	s.wg.Wait()
	s.log.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) runTask(ctx context.Context, task *Task) {
	defer s.wg.Done()

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	log := s.log.With().Str("task", task.Name).Logger()

	log.Debug().Msg("Running task immediately on startup")
	s.run(ctx, log, task)

	for {
		select {
		case <-ticker.C:
			log.Debug().Msg("Running scheduled task")
			s.run(ctx, log, task)
		case <-ctx.Done():
			log.Debug().Msg("Task stopped")
			return
		}
	}
}

func (s *Scheduler) run(ctx context.Context, log zerolog.Logger, task *Task) {
	start := time.Now()
	if err := task.Fn(ctx); err != nil {
		log.Error().Err(err).Msg("Error running task")
		return
	}
	log.Debug().Dur("took", time.Since(start)).Msg("Task finished")
}
