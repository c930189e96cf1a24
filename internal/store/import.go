package store

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/studyplan/internal/model"
)

type ImportResult struct {
	Imported []model.Task
	Failed   int
}

// ImportTasksFromTemplate creates drafts one at a time, tagged with the
// learning system. A failed create is logged and skipped. The successes land
// in one dispatch. Only a cancelled ctx stops the batch early.
func (s *Store) ImportTasksFromTemplate(ctx context.Context, systemID, systemName string, drafts []model.Draft) (ImportResult, error) {
	var res ImportResult
	s.Dispatch(SetLoadingAction{Loading: true})

	for i, draft := range drafts {
		if err := ctx.Err(); err != nil {
			res.Failed += len(drafts) - i
			s.finishImport(res, len(drafts))
			return res, err
		}
		draft.SystemID = systemID
		draft.SystemName = systemName
		draft.Date = s.dates.Normalize(draft.Date)

		task, err := s.gw.Create(ctx, draft)
		if err != nil {
			s.logger.Printf("[store] import %q task %d (%q) failed: %v", systemName, i, draft.Title, err)
			res.Failed++
			continue
		}
		res.Imported = append(res.Imported, task)
	}
	s.finishImport(res, len(drafts))
	return res, nil
}

func (s *Store) finishImport(res ImportResult, total int) {
	if len(res.Imported) > 0 {
		s.Dispatch(AddMultipleTasksAction{Tasks: res.Imported})
	}
	s.Dispatch(SetLoadingAction{Loading: false})

	switch {
	case len(res.Imported) > 0:
		s.notifier.Notify(Notification{
			Level:   LevelSuccess,
			Title:   "Template imported",
			Message: fmt.Sprintf("%d of %d tasks added", len(res.Imported), total),
		})
	case total > 0:
		s.notifier.Notify(Notification{
			Level:   LevelError,
			Title:   "Template import failed",
			Message: fmt.Sprintf("none of %d tasks could be added", total),
		})
	}
}
