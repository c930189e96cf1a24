// Package store holds the in-memory task list. Every mutation goes through the
// gateway first and is dispatched to the reducer only once the gateway has
// answered.
package store

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/sandeepkv93/studyplan/internal/datekey"
	"github.com/sandeepkv93/studyplan/internal/model"
)

const DefaultMaxRefreshAttempts = 3

var ErrTaskNotFound = errors.New("store: task not found")

// Gateway persists tasks and answers mutations with whole records.
type Gateway interface {
	List(ctx context.Context) ([]model.Task, error)
	Create(ctx context.Context, draft model.Draft) (model.Task, error)
	Update(ctx context.Context, id string, patch model.Patch) (model.Task, error)
	Delete(ctx context.Context, id string) error
	ToggleSubtask(ctx context.Context, taskID, subtaskID string) (model.Task, error)
}

type Store struct {
	gw         Gateway
	notifier   Notifier
	logger     *log.Logger
	dates      datekey.Normalizer
	maxRefresh int
	newBackOff func() backoff.BackOff

	mu    sync.Mutex
	state State
	subs  map[int]chan struct{}
	next  int

	refreshMu         sync.Mutex
	refreshFailures   int
	refreshSuppressed bool
}

type Option func(*Store)

func WithNotifier(n Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithNormalizer(n datekey.Normalizer) Option {
	return func(s *Store) { s.dates = n }
}

func WithMaxRefreshAttempts(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxRefresh = n
		}
	}
}

// WithBackOff sets the wait policy between automatic refresh attempts.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(s *Store) {
		if newBackOff != nil {
			s.newBackOff = newBackOff
		}
	}
}

func New(gw Gateway, opts ...Option) *Store {
	s := &Store{
		gw:         gw,
		notifier:   discardNotifier{},
		logger:     log.Default(),
		dates:      datekey.Local(),
		maxRefresh: DefaultMaxRefreshAttempts,
		newBackOff: defaultBackOff,
		subs:       make(map[int]chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	return b
}

// Dispatch runs action through Reduce and wakes subscribers.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	subs := make([]chan struct{}, 0, len(s.subs))
	for _, ch := range s.subs {
		subs = append(subs, ch)
	}
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.state
	out.Tasks = cloneTasks(s.state.Tasks)
	return out
}

func (s *Store) Task(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.state.Tasks {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return model.Task{}, false
}

// Subscribe returns a channel that receives a value after dispatches. Signals
// coalesce when the reader is slow. Call cancel to stop.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Dates is the normalizer the store applies to every date it writes.
func (s *Store) Dates() datekey.Normalizer {
	return s.dates
}

func (s *Store) fail(policy FailurePolicy, op string, err error) error {
	s.logger.Printf("[store] %s failed: %v", op, err)
	if policy == LogOnFailure {
		return err
	}
	s.Dispatch(SetErrorAction{Err: err})
	s.notifier.Notify(Notification{
		Level:   LevelError,
		Title:   "Could not " + op,
		Message: err.Error(),
	})
	return err
}
