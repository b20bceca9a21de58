package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"taskmanager/internal/logger"
	"taskmanager/internal/models"
	"taskmanager/internal/repository"
	"taskmanager/internal/sanitize"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskService struct {
	tasks    TaskRepository
	comments CommentRepository
	files    FileRepository
	blobs    BlobStore
}

func NewTaskService(tasks TaskRepository, comments CommentRepository, files FileRepository, blobs BlobStore) *TaskService {
	return &TaskService{
		tasks:    tasks,
		comments: comments,
		files:    files,
		blobs:    blobs,
	}
}

// TaskInput carries the fields accepted on creation. Tags may be a
// comma-separated string or an array, matching what clients send.
type TaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
	Tags        any
	AssignedTo  *uuid.UUID
}

// TaskDetails is a task enriched with its live children.
type TaskDetails struct {
	*models.Task
	Comments []*models.Comment `json:"comments"`
	Files    []*models.File    `json:"files"`
}

// TaskPage is one page of an ownership-scoped listing plus the total
// match count across all pages.
type TaskPage struct {
	Tasks []*models.Task
	Total int
	Page  int
	Limit int
}

func (s *TaskService) Create(ctx context.Context, creatorID uuid.UUID, input TaskInput) (*models.Task, error) {
	task, err := buildTask(creatorID, input, false)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// BulkCreate inserts every record or none. Unlike Create, a missing
// title falls back to "Untitled" instead of failing the batch.
func (s *TaskService) BulkCreate(ctx context.Context, creatorID uuid.UUID, inputs []TaskInput) ([]*models.Task, error) {
	if len(inputs) == 0 {
		return nil, NewValidationError("tasks", "array of tasks required")
	}

	tasks := make([]*models.Task, 0, len(inputs))
	for _, input := range inputs {
		task, err := buildTask(creatorID, input, true)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := s.tasks.CreateBatch(ctx, tasks); err != nil {
		return nil, fmt.Errorf("bulk create tasks: %w", err)
	}
	return tasks, nil
}

func buildTask(creatorID uuid.UUID, input TaskInput, untitledFallback bool) (*models.Task, error) {
	title := sanitize.String(input.Title)
	if title == "" {
		if !untitledFallback {
			return nil, NewValidationError("title", "required")
		}
		title = "Untitled"
	}

	status := models.Status(sanitize.String(input.Status))
	if status == "" {
		status = models.StatusTodo
	}
	if !status.Valid() {
		return nil, NewValidationError("status", "must be todo, in-progress or done")
	}

	priority := models.Priority(sanitize.String(input.Priority))
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, NewValidationError("priority", "must be low, medium or high")
	}

	now := time.Now()
	task := &models.Task{
		ID:          uuid.New(),
		Title:       title,
		Description: sanitize.String(input.Description),
		Status:      status,
		Priority:    priority,
		DueDate:     input.DueDate,
		Tags:        sanitize.Tags(input.Tags),
		AssignedTo:  input.AssignedTo,
		CreatedBy:   creatorID,
		CreatedAt:   now,
	}
	if status == models.StatusDone {
		task.CompletedAt = &now
	}
	return task, nil
}

func (s *TaskService) List(ctx context.Context, callerID uuid.UUID, filter models.TaskFilter) (*TaskPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 1
	}

	tasks, total, err := s.tasks.List(ctx, callerID, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return &TaskPage{
		Tasks: tasks,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *TaskService) GetByID(ctx context.Context, callerID, id uuid.UUID) (*TaskDetails, error) {
	task, err := s.authorize(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	files, err := s.files.ListByTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	return &TaskDetails{
		Task:     task,
		Comments: comments,
		Files:    files,
	}, nil
}

func (s *TaskService) Update(ctx context.Context, callerID, id uuid.UUID, options ...TaskOption) (*models.Task, error) {
	task, err := s.authorize(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	oldStatus := task.Status
	for _, opt := range options {
		opt(task)
	}

	if task.Title == "" {
		return nil, NewValidationError("title", "required")
	}
	if !task.Status.Valid() {
		return nil, NewValidationError("status", "must be todo, in-progress or done")
	}
	if !task.Priority.Valid() {
		return nil, NewValidationError("priority", "must be low, medium or high")
	}

	now := time.Now()

	// completed_at marks the most recent transition into done; it is
	// untouched when the status stays done.
	switch {
	case task.Status == models.StatusDone && oldStatus != models.StatusDone:
		task.CompletedAt = &now
	case task.Status != models.StatusDone && oldStatus == models.StatusDone:
		task.CompletedAt = nil
	}

	task.UpdatedAt = &now

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// Delete is creator-only, stricter than update.
func (s *TaskService) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewNotFound("task", id.String())
		}
		return fmt.Errorf("get task: %w", err)
	}

	if !task.DeletableBy(callerID) {
		return NewForbidden("only the creator can delete a task")
	}

	now := time.Now()
	task.DeletedAt = &now

	if err := s.tasks.Update(ctx, task); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// Upload is one incoming multipart file.
type Upload struct {
	OriginalName string
	MimeType     string
	Reader       io.Reader
}

func (s *TaskService) AttachFiles(ctx context.Context, callerID, id uuid.UUID, uploads []Upload) ([]*models.File, error) {
	if _, err := s.authorize(ctx, callerID, id); err != nil {
		return nil, err
	}

	saved := make([]*models.File, 0, len(uploads))
	for _, up := range uploads {
		storedName, size, err := s.blobs.Save(up.OriginalName, up.Reader)
		if err != nil {
			return nil, fmt.Errorf("store blob: %w", err)
		}

		file := &models.File{
			ID:           uuid.New(),
			TaskID:       id,
			OriginalName: up.OriginalName,
			StoredName:   storedName,
			Path:         "/uploads/" + storedName,
			MimeType:     up.MimeType,
			Size:         size,
			UploadedBy:   callerID,
			CreatedAt:    time.Now(),
		}

		if err := s.files.Create(ctx, file); err != nil {
			// keep disk and metadata consistent when the record write fails
			if rmErr := s.blobs.Remove(storedName); rmErr != nil {
				logger.Warn("Service: failed to remove orphaned blob",
					zap.String("stored_name", storedName),
					zap.Error(rmErr))
			}
			return nil, fmt.Errorf("create file record: %w", err)
		}
		saved = append(saved, file)
	}

	return saved, nil
}

// authorize loads the task and applies the creator-or-assignee gate used
// by detail reads and mutations.
func (s *TaskService) authorize(ctx context.Context, callerID, id uuid.UUID) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("task", id.String())
		}
		return nil, fmt.Errorf("get task: %w", err)
	}

	if !task.VisibleTo(callerID) {
		return nil, NewForbidden("not allowed")
	}
	return task, nil
}
