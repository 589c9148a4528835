package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/argie33/algo-sub009/pkg/logger"
)

// Scheduler runs registered jobs on their cron schedules with bounded
// retries. It exists so the scoring batch can run unattended; ad-hoc runs
// go through the CLI instead.
type Scheduler struct {
	cron    *cron.Cron
	logger  *logger.Logger
	jobs    map[string]Job
	history map[string]*JobHistory
	mu      sync.RWMutex

	maxRetries int
	retryDelay time.Duration
}

// New creates a scheduler. The cron parser includes a seconds field.
func New(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		logger:     log.WithComponent("scheduler"),
		jobs:       make(map[string]Job),
		history:    make(map[string]*JobHistory),
		maxRetries: 3,
		retryDelay: time.Minute,
	}
}

// AddJob registers a job under its schedule.
func (s *Scheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}

	if _, err := s.cron.AddFunc(job.Schedule(), func() { s.runJob(job) }); err != nil {
		return fmt.Errorf("schedule job %s: %w", name, err)
	}

	s.jobs[name] = job
	s.history[name] = &JobHistory{}

	s.logger.WithFields(map[string]interface{}{
		"job":      name,
		"schedule": job.Schedule(),
	}).Info("job registered")
	return nil
}

// Start begins running schedules.
func (s *Scheduler) Start() {
	s.logger.Info("scheduler starting")
	s.cron.Start()
}

// Stop halts scheduling and waits for in-flight jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("scheduler stopping")
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunJob triggers a registered job immediately, outside its schedule.
func (s *Scheduler) RunJob(name string) error {
	s.mu.RLock()
	job, exists := s.jobs[name]
	s.mu.RUnlock()

	if !exists {
		return fmt.Errorf("job %s not found", name)
	}
	go s.runJob(job)
	return nil
}

// History returns the execution history for a job.
func (s *Scheduler) History(name string) (*JobHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, exists := s.history[name]
	if !exists {
		return nil, fmt.Errorf("job %s not found", name)
	}
	return history, nil
}

func (s *Scheduler) runJob(job Job) {
	name := job.Name()
	started := time.Now()
	log := s.logger.WithField("job", name)

	log.Info("job started")

	var lastErr error
	success := false
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err := job.Run(context.Background()); err != nil {
			lastErr = err
			log.WithError(err).WithField("attempt", attempt+1).Warn("job attempt failed")
			if attempt < s.maxRetries {
				time.Sleep(s.retryDelay)
			}
			continue
		}
		success = true
		break
	}

	result := JobResult{
		JobName:   name,
		StartTime: started,
		EndTime:   time.Now(),
		Duration:  time.Since(started),
		Success:   success,
	}
	if !success && lastErr != nil {
		result.Error = lastErr.Error()
	}

	s.mu.Lock()
	if history, exists := s.history[name]; exists {
		history.AddResult(result)
	}
	s.mu.Unlock()

	if success {
		log.WithField("duration", result.Duration.String()).Info("job completed")
	} else {
		log.WithError(lastErr).WithField("duration", result.Duration.String()).Error("job failed after retries")
	}
}
