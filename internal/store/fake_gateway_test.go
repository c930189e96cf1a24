package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/sandeepkv93/studyplan/internal/datekey"
	"github.com/sandeepkv93/studyplan/internal/model"
)

var errGatewayDown = errors.New("gateway down")

// fakeGateway keeps tasks in memory. failCreate and failList inject errors.
type fakeGateway struct {
	mu         sync.Mutex
	tasks      map[string]model.Task
	order      []string
	seq        int
	listCalls  int
	failList   int
	failCreate func(draft model.Draft) bool
	failUpdate bool
}

func newFakeGateway(seed ...model.Task) *fakeGateway {
	g := &fakeGateway{tasks: make(map[string]model.Task)}
	for _, t := range seed {
		g.tasks[t.ID] = t
		g.order = append(g.order, t.ID)
	}
	return g
}

func (g *fakeGateway) List(context.Context) ([]model.Task, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listCalls++
	if g.failList > 0 {
		g.failList--
		return nil, errGatewayDown
	}
	out := make([]model.Task, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.tasks[id].Clone())
	}
	return out, nil
}

func (g *fakeGateway) Create(_ context.Context, draft model.Draft) (model.Task, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failCreate != nil && g.failCreate(draft) {
		return model.Task{}, errGatewayDown
	}
	g.seq++
	task := model.Task{
		ID:                    fmt.Sprintf("task-%d", g.seq),
		Title:                 draft.Title,
		Description:           draft.Description,
		Date:                  draft.Date,
		Time:                  draft.Time,
		EndTime:               draft.EndTime,
		Completed:             draft.Completed,
		Priority:              draft.Priority,
		Category:              draft.Category,
		SystemID:              draft.SystemID,
		SystemName:            draft.SystemName,
		Subtasks:              draft.Subtasks,
		ProductivityTechnique: draft.ProductivityTechnique,
	}
	g.tasks[task.ID] = task
	g.order = append(g.order, task.ID)
	return task.Clone(), nil
}

func (g *fakeGateway) Update(_ context.Context, id string, patch model.Patch) (model.Task, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failUpdate {
		return model.Task{}, errGatewayDown
	}
	current, ok := g.tasks[id]
	if !ok {
		return model.Task{}, fmt.Errorf("update %q: not found", id)
	}
	next := patch.Apply(current)
	next.UpdatedAt = time.Date(2024, 3, 10, 13, 0, 0, 0, time.UTC)
	g.tasks[id] = next
	return next.Clone(), nil
}

func (g *fakeGateway) Delete(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.tasks[id]; !ok {
		return fmt.Errorf("delete %q: not found", id)
	}
	delete(g.tasks, id)
	for i, v := range g.order {
		if v == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return nil
}

func (g *fakeGateway) ToggleSubtask(_ context.Context, taskID, subtaskID string) (model.Task, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	current, ok := g.tasks[taskID]
	if !ok {
		return model.Task{}, fmt.Errorf("toggle %q: not found", taskID)
	}
	next := current.Clone()
	for i := range next.Subtasks {
		if next.Subtasks[i].ID == subtaskID {
			next.Subtasks[i].Completed = !next.Subtasks[i].Completed
		}
	}
	g.tasks[taskID] = next
	return next.Clone(), nil
}

type recordingNotifier struct {
	mu  sync.Mutex
	got []Notification
}

func (r *recordingNotifier) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

func (r *recordingNotifier) levels() []Level {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Level, 0, len(r.got))
	for _, n := range r.got {
		out = append(out, n.Level)
	}
	return out
}

var testZone = time.FixedZone("UTC-5", -5*60*60)

func newTestStore(gw Gateway, notifier Notifier, logs io.Writer) *Store {
	if logs == nil {
		logs = io.Discard
	}
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, testZone)
	return New(gw,
		WithNotifier(notifier),
		WithLogger(log.New(logs, "", 0)),
		WithNormalizer(datekey.New(testZone, func() time.Time { return now })),
		WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }),
	)
}
