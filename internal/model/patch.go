package model

// Patch carries a partial update. Nil fields are left unchanged; a non-nil
// Subtasks replaces the whole list.
type Patch struct {
	Title                 *string    `json:"title,omitempty"`
	Description           *string    `json:"description,omitempty"`
	Date                  *string    `json:"date,omitempty"`
	Time                  *string    `json:"time,omitempty"`
	EndTime               *string    `json:"endTime,omitempty"`
	Completed             *bool      `json:"completed,omitempty"`
	Priority              *Priority  `json:"priority,omitempty"`
	Category              *Category  `json:"category,omitempty"`
	SystemID              *string    `json:"systemId,omitempty"`
	SystemName            *string    `json:"systemName,omitempty"`
	Subtasks              []Subtask  `json:"subtasks,omitempty"`
	ProductivityTechnique *Technique `json:"productivityTechnique,omitempty"`
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Date == nil && p.Time == nil &&
		p.EndTime == nil && p.Completed == nil && p.Priority == nil && p.Category == nil &&
		p.SystemID == nil && p.SystemName == nil && p.Subtasks == nil && p.ProductivityTechnique == nil
}

// Apply shallow-merges p into t and returns the result; t is not modified.
func (p Patch) Apply(t Task) Task {
	out := t.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Date != nil {
		out.Date = *p.Date
	}
	if p.Time != nil {
		out.Time = *p.Time
	}
	if p.EndTime != nil {
		out.EndTime = *p.EndTime
	}
	if p.Completed != nil {
		out.Completed = *p.Completed
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.SystemID != nil {
		out.SystemID = *p.SystemID
	}
	if p.SystemName != nil {
		out.SystemName = *p.SystemName
	}
	if p.Subtasks != nil {
		out.Subtasks = make([]Subtask, len(p.Subtasks))
		copy(out.Subtasks, p.Subtasks)
	}
	if p.ProductivityTechnique != nil {
		out.ProductivityTechnique = *p.ProductivityTechnique
	}
	return out
}

// PatchFrom builds a patch that sets every user-editable field of t.
func PatchFrom(t Task) Patch {
	c := t.Clone()
	subtasks := c.Subtasks
	if subtasks == nil {
		subtasks = []Subtask{}
	}
	return Patch{
		Title:                 &c.Title,
		Description:           &c.Description,
		Date:                  &c.Date,
		Time:                  &c.Time,
		EndTime:               &c.EndTime,
		Completed:             &c.Completed,
		Priority:              &c.Priority,
		Category:              &c.Category,
		SystemID:              &c.SystemID,
		SystemName:            &c.SystemName,
		Subtasks:              subtasks,
		ProductivityTechnique: &c.ProductivityTechnique,
	}
}

// Ptr returns a pointer to v, for building patches inline.
func Ptr[T any](v T) *T {
	return &v
}
