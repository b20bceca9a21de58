package service

import (
	"time"

	"taskmanager/internal/models"
	"taskmanager/internal/sanitize"

	"github.com/google/uuid"
)

// TaskOption applies one patch field to a task. Handlers build a slice of
// options from whichever fields the request actually carried, so absent
// fields are never touched.
type TaskOption func(*models.Task)

func WithTitle(title string) TaskOption {
	return func(task *models.Task) {
		task.Title = sanitize.String(title)
	}
}

func WithDescription(description string) TaskOption {
	return func(task *models.Task) {
		task.Description = sanitize.String(description)
	}
}

func WithStatus(status string) TaskOption {
	return func(task *models.Task) {
		task.Status = models.Status(sanitize.String(status))
	}
}

func WithPriority(priority string) TaskOption {
	return func(task *models.Task) {
		task.Priority = models.Priority(sanitize.String(priority))
	}
}

// WithDueDate accepts nil to clear the due date.
func WithDueDate(due *time.Time) TaskOption {
	return func(task *models.Task) {
		task.DueDate = due
	}
}

func WithTags(tags any) TaskOption {
	return func(task *models.Task) {
		task.Tags = sanitize.Tags(tags)
	}
}

// WithAssignee accepts nil to unassign.
func WithAssignee(assignee *uuid.UUID) TaskOption {
	return func(task *models.Task) {
		task.AssignedTo = assignee
	}
}
