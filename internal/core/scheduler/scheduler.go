package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Job is a scheduled unit of work. The context is cancelled when the
// scheduler stops or the job exceeds its timeout.
type Job func(ctx context.Context) error

// Scheduler runs named cron jobs (seconds field enabled).
type Scheduler struct {
	cron    *cron.Cron
	jobs    map[string]cron.EntryID // name -> entry_id
	jobsMux sync.RWMutex
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a new scheduler. timeout bounds a single run; zero
// means no limit.
func NewScheduler(timeout time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		jobs:    make(map[string]cron.EntryID),
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	log.Info().Int("jobs", len(s.Jobs())).Msg("⏰ Starting scheduler...")
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to return.
func (s *Scheduler) Stop() {
	log.Info().Msg("⏰ Stopping scheduler...")
	s.cancel()
	<-s.cron.Stop().Done()
	log.Info().Msg("✅ Scheduler stopped")
}

// AddJob registers job under name, replacing any job with the same name.
// spec is a six-field cron expression (e.g. "0 0 9 * * *" for daily at 09:00).
func (s *Scheduler) AddJob(name, spec string, job Job) error {
	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	if entryID, exists := s.jobs[name]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, name)
	}

	entryID, err := s.cron.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return fmt.Errorf("failed to add cron job %s: %w", name, err)
	}

	s.jobs[name] = entryID
	log.Info().Str("job", name).Str("schedule", spec).Msg("   ✅ Scheduled job")
	return nil
}

// Jobs returns the names of the scheduled jobs, sorted.
func (s *Scheduler) Jobs() []string {
	s.jobsMux.RLock()
	defer s.jobsMux.RUnlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Next returns the next activation time of a job.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.jobsMux.RLock()
	entryID, ok := s.jobs[name]
	s.jobsMux.RUnlock()
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(entryID).Next, true
}

func (s *Scheduler) run(name string, job Job) {
	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("job", name).Interface("panic", r).Msg("❌ Scheduled job panicked")
		}
	}()

	start := time.Now()
	if err := job(ctx); err != nil {
		log.Error().Err(err).Str("job", name).Msg("❌ Scheduled job failed")
		return
	}
	log.Info().Str("job", name).Dur("took", time.Since(start)).Msg("✅ Scheduled job finished")
}
