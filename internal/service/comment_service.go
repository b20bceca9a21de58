package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskmanager/internal/models"
	"taskmanager/internal/repository"
	"taskmanager/internal/sanitize"

	"github.com/google/uuid"
)

type CommentService struct {
	comments CommentRepository
	tasks    TaskRepository
	users    UserRepository
}

func NewCommentService(comments CommentRepository, tasks TaskRepository, users UserRepository) *CommentService {
	return &CommentService{
		comments: comments,
		tasks:    tasks,
		users:    users,
	}
}

func (s *CommentService) Add(ctx context.Context, callerID, taskID uuid.UUID, text string) (*models.Comment, error) {
	text = sanitize.String(text)
	if text == "" {
		return nil, NewValidationError("text", "required")
	}

	user, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("user", callerID.String())
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("task", taskID.String())
		}
		return nil, fmt.Errorf("get task: %w", err)
	}

	comment := &models.Comment{
		ID:         uuid.New(),
		TaskID:     taskID,
		Author:     user.ID,
		AuthorName: user.Name, // snapshot of the display name at creation
		Text:       text,
		CreatedAt:  time.Now(),
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// ListByTask returns live comments oldest-first. Author names are
// re-resolved so renamed users show their current name; the fallback
// chain is live name, then the creation-time snapshot, then "Anonymous".
func (s *CommentService) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.Comment, error) {
	comments, err := s.comments.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	for _, c := range comments {
		if user, err := s.users.GetByID(ctx, c.Author); err == nil && user.Name != "" {
			c.AuthorName = user.Name
		} else if c.AuthorName == "" {
			c.AuthorName = "Anonymous"
		}
	}
	return comments, nil
}

func (s *CommentService) Update(ctx context.Context, callerID, commentID uuid.UUID, text string) (*models.Comment, error) {
	comment, err := s.getOwned(ctx, callerID, commentID)
	if err != nil {
		return nil, err
	}

	// an empty replacement keeps the old text, matching create's contract loosely
	if clean := sanitize.String(text); clean != "" {
		comment.Text = clean
	}
	now := time.Now()
	comment.UpdatedAt = &now

	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, callerID, commentID uuid.UUID) error {
	comment, err := s.getOwned(ctx, callerID, commentID)
	if err != nil {
		return err
	}

	now := time.Now()
	comment.DeletedAt = &now

	if err := s.comments.Update(ctx, comment); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (s *CommentService) getOwned(ctx context.Context, callerID, commentID uuid.UUID) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("comment", commentID.String())
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}

	if comment.Author != callerID {
		return nil, NewForbidden("only the author can modify a comment")
	}
	return comment, nil
}
