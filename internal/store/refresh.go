package store

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/sandeepkv93/studyplan/internal/model"
)

// RefreshTasks replaces the list with the gateway's. Failures are retried
// until MaxRefreshAttempts consecutive failures; the first time that ceiling
// is hit the user is told once. Past the ceiling each call is one manual
// attempt. A success resets both the counter and the notice.
func (s *Store) RefreshTasks(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	s.Dispatch(SetLoadingAction{Loading: true})

	tries := s.maxRefresh - s.refreshFailures
	if tries < 1 {
		tries = 1
	}
	tasks, err := backoff.Retry(ctx, func() ([]model.Task, error) {
		tasks, err := s.gw.List(ctx)
		if err != nil {
			s.refreshFailures++
			return nil, err
		}
		return tasks, nil
	},
		backoff.WithBackOff(s.newBackOff()),
		backoff.WithMaxTries(uint(tries)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			s.logger.Printf("[store] refresh attempt %d failed, retrying in %s: %v", s.refreshFailures, wait, err)
		}),
	)
	if err != nil {
		s.logger.Printf("[store] refresh failed after %d consecutive attempts: %v", s.refreshFailures, err)
		s.Dispatch(SetErrorAction{Err: err})
		if s.refreshFailures >= s.maxRefresh && !s.refreshSuppressed {
			s.refreshSuppressed = true
			s.notifier.Notify(Notification{
				Level:   LevelError,
				Title:   "Could not load tasks",
				Message: "Automatic refresh stopped. Refresh manually to try again.",
			})
		}
		return err
	}

	s.refreshFailures = 0
	s.refreshSuppressed = false
	for i := range tasks {
		tasks[i].Date = s.dates.Normalize(tasks[i].Date)
	}
	s.Dispatch(SetTasksAction{Tasks: tasks})
	return nil
}

// RefreshFailures reports the current run of consecutive refresh failures.
func (s *Store) RefreshFailures() int {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	return s.refreshFailures
}
