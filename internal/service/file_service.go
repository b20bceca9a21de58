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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FileService struct {
	files FileRepository
	tasks TaskRepository
	blobs BlobStore
}

func NewFileService(files FileRepository, tasks TaskRepository, blobs BlobStore) *FileService {
	return &FileService{
		files: files,
		tasks: tasks,
		blobs: blobs,
	}
}

// Download authorizes against the parent task (creator or assignee) and
// returns the metadata plus an open reader over the blob.
func (s *FileService) Download(ctx context.Context, callerID, fileID uuid.UUID) (*models.File, io.ReadSeekCloser, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, NewNotFound("file", fileID.String())
		}
		return nil, nil, fmt.Errorf("get file: %w", err)
	}

	task, err := s.tasks.GetByID(ctx, file.TaskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, NewNotFound("task for file", file.TaskID.String())
		}
		return nil, nil, fmt.Errorf("get task: %w", err)
	}

	if !task.VisibleTo(callerID) {
		return nil, nil, NewForbidden("not allowed")
	}

	blob, err := s.blobs.Open(file.StoredName)
	if err != nil {
		return nil, nil, NewNotFound("file on disk", file.StoredName)
	}

	return file, blob, nil
}

// Delete soft-deletes the metadata, which is the success point; the
// physical unlink afterwards is best-effort and never surfaced.
func (s *FileService) Delete(ctx context.Context, callerID, fileID uuid.UUID) error {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewNotFound("file", fileID.String())
		}
		return fmt.Errorf("get file: %w", err)
	}

	// the parent task may itself be gone; then only the uploader qualifies
	task, err := s.tasks.GetByID(ctx, file.TaskID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("get task: %w", err)
	}

	allowed := file.UploadedBy == callerID || (task != nil && task.CreatedBy == callerID)
	if !allowed {
		return NewForbidden("only the uploader or the task creator can delete a file")
	}

	now := time.Now()
	file.DeletedAt = &now
	if err := s.files.Update(ctx, file); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	if err := s.blobs.Remove(file.StoredName); err != nil {
		logger.Warn("Service: could not remove blob from disk",
			zap.String("stored_name", file.StoredName),
			zap.Error(err))
	}

	return nil
}
