package service

import (
	"context"
	"io"

	"taskmanager/internal/models"

	"github.com/google/uuid"
)

// Repository contracts implemented by the postgres and inmemory backends.
// Reads never return soft-deleted records.

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	CreateBatch(ctx context.Context, tasks []*models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	List(ctx context.Context, userID uuid.UUID, filter models.TaskFilter) ([]*models.Task, int, error)
	ListVisible(ctx context.Context, userID uuid.UUID) ([]*models.Task, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.Comment, error)
}

type FileRepository interface {
	Create(ctx context.Context, file *models.File) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.File, error)
	Update(ctx context.Context, file *models.File) error
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.File, error)
}

// BlobStore is the on-disk half of the file repository.
type BlobStore interface {
	Save(originalName string, r io.Reader) (string, int64, error)
	Open(storedName string) (io.ReadSeekCloser, error)
	Remove(storedName string) error
}
