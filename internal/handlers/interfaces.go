package handlers

import (
	"context"
	"io"

	"taskmanager/internal/models"
	"taskmanager/internal/service"

	"github.com/google/uuid"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Profile(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type TaskService interface {
	Create(ctx context.Context, creatorID uuid.UUID, input service.TaskInput) (*models.Task, error)
	BulkCreate(ctx context.Context, creatorID uuid.UUID, inputs []service.TaskInput) ([]*models.Task, error)
	List(ctx context.Context, callerID uuid.UUID, filter models.TaskFilter) (*service.TaskPage, error)
	GetByID(ctx context.Context, callerID, id uuid.UUID) (*service.TaskDetails, error)
	Update(ctx context.Context, callerID, id uuid.UUID, options ...service.TaskOption) (*models.Task, error)
	Delete(ctx context.Context, callerID, id uuid.UUID) error
	AttachFiles(ctx context.Context, callerID, id uuid.UUID, uploads []service.Upload) ([]*models.File, error)
}

type CommentService interface {
	Add(ctx context.Context, callerID, taskID uuid.UUID, text string) (*models.Comment, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.Comment, error)
	Update(ctx context.Context, callerID, commentID uuid.UUID, text string) (*models.Comment, error)
	Delete(ctx context.Context, callerID, commentID uuid.UUID) error
}

type FileService interface {
	Download(ctx context.Context, callerID, fileID uuid.UUID) (*models.File, io.ReadSeekCloser, error)
	Delete(ctx context.Context, callerID, fileID uuid.UUID) error
}

type AnalyticsService interface {
	Overview(ctx context.Context, callerID uuid.UUID) (*service.OverviewReport, error)
	Performance(ctx context.Context, callerID, targetID uuid.UUID) (*service.PerformanceReport, error)
	Trends(ctx context.Context, callerID uuid.UUID, from, to string) (map[string]*service.TrendBucket, error)
	Export(ctx context.Context, callerID uuid.UUID) ([]*models.Task, error)
}
