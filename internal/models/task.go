package models

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Status      Status     `json:"status" db:"status"`
	Priority    Priority   `json:"priority" db:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`
	Tags        []string   `json:"tags" db:"tags"`
	AssignedTo  *uuid.UUID `json:"assigned_to,omitempty" db:"assigned_to"`
	CreatedBy   uuid.UUID  `json:"created_by" db:"created_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func (t *Task) Deleted() bool {
	return t.DeletedAt != nil
}

// VisibleTo reports whether userID may read or update the task.
func (t *Task) VisibleTo(userID uuid.UUID) bool {
	if t.CreatedBy == userID {
		return true
	}
	return t.AssignedTo != nil && *t.AssignedTo == userID
}

// DeletableBy is stricter than VisibleTo: only the creator may delete.
func (t *Task) DeletableBy(userID uuid.UUID) bool {
	return t.CreatedBy == userID
}

// TaskFilter narrows and orders an ownership-scoped listing. Zero values
// mean "not filtered". Page and Limit are clamped to a minimum of 1 by
// the repositories.
type TaskFilter struct {
	Search   string
	Status   Status
	Priority Priority
	Tag      string
	SortBy   string
	SortDesc bool
	Page     int
	Limit    int
}

// SortColumns is the whitelist of sortable task fields; anything else is
// ignored rather than interpolated into a query.
var SortColumns = map[string]struct{}{
	"title":      {},
	"status":     {},
	"priority":   {},
	"due_date":   {},
	"created_at": {},
	"updated_at": {},
}
