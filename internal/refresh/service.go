// Package refresh reloads the task list on a cron schedule.
package refresh

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	rcron "github.com/robfig/cron/v3"
)

const DefaultTimeout = 30 * time.Second

// Target is the store side of a refresh.
type Target interface {
	RefreshTasks(ctx context.Context) error
	RefreshFailures() int
}

// Service runs RefreshTasks on schedule until the store has failed
// maxAttempts times in a row. From then on only RunNow reaches the gateway;
// the first success resumes the schedule.
type Service struct {
	schedule    string
	target      Target
	maxAttempts int
	logger      *log.Logger

	mu      sync.Mutex
	cron    *rcron.Cron
	cancel  context.CancelFunc
	skipped int
}

func NewService(schedule string, target Target, maxAttempts int, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		schedule:    schedule,
		target:      target,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

func (s *Service) Start(ctx context.Context) error {
	if s.schedule == "" {
		s.logger.Printf("[refresh] no schedule configured, background refresh disabled")
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return errors.New("refresh: already started")
	}

	cronLog := rcron.PrintfLogger(s.logger)
	c := rcron.New(
		rcron.WithLogger(cronLog),
		rcron.WithChain(rcron.Recover(cronLog), rcron.SkipIfStillRunning(cronLog)),
	)
	runCtx, cancel := context.WithCancel(ctx)
	if _, err := c.AddFunc(s.schedule, func() { s.tick(runCtx) }); err != nil {
		cancel()
		return err
	}
	c.Start()
	s.cron = c
	s.cancel = cancel
	s.logger.Printf("[refresh] started with schedule %q", s.schedule)
	return nil
}

// Stop waits for a running refresh to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	c, cancel := s.cron, s.cancel
	s.cron, s.cancel = nil, nil
	s.mu.Unlock()
	if c == nil {
		return
	}
	cancel()
	<-c.Stop().Done()
	s.logger.Printf("[refresh] stopped")
}

// RunNow is the manual refresh; it always reaches the gateway.
func (s *Service) RunNow(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()
	return s.target.RefreshTasks(ctx)
}

// Skipped counts scheduled runs passed over because refresh had given up.
func (s *Service) Skipped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skipped
}

func (s *Service) tick(ctx context.Context) {
	if s.maxAttempts > 0 && s.target.RefreshFailures() >= s.maxAttempts {
		s.mu.Lock()
		s.skipped++
		s.mu.Unlock()
		return
	}
	if err := s.RunNow(ctx); err != nil {
		s.logger.Printf("[refresh] scheduled refresh failed: %v", err)
	}
}
