package postgres

import (
	"context"
	"errors"
	"fmt"

	"taskmanager/internal/models"
	"taskmanager/internal/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CommentRepo struct {
	s *Storage
}

var commentColumns = []string{
	"id", "task_id", "author", "author_name", "text", "created_at", "updated_at", "deleted_at",
}

func (r *CommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query, args, err := r.s.builder.
		Insert("comments").
		Columns(commentColumns...).
		Values(comment.ID, comment.TaskID, comment.Author, comment.AuthorName,
			comment.Text, comment.CreatedAt, comment.UpdatedAt, comment.DeletedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *CommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	query, args, err := r.s.builder.
		Select(commentColumns...).
		From("comments").
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var c models.Comment
	err = r.s.pool.QueryRow(ctx, query, args...).Scan(
		&c.ID, &c.TaskID, &c.Author, &c.AuthorName, &c.Text,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select comment: %w", err)
	}
	return &c, nil
}

func (r *CommentRepo) Update(ctx context.Context, comment *models.Comment) error {
	query, args, err := r.s.builder.
		Update("comments").
		Set("text", comment.Text).
		Set("updated_at", comment.UpdatedAt).
		Set("deleted_at", comment.DeletedAt).
		Where(sq.Eq{"id": comment.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CommentRepo) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.Comment, error) {
	query, args, err := r.s.builder.
		Select(commentColumns...).
		From("comments").
		Where(sq.Eq{"task_id": taskID, "deleted_at": nil}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select comments: %w", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		var c models.Comment
		err := rows.Scan(
			&c.ID, &c.TaskID, &c.Author, &c.AuthorName, &c.Text,
			&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, nil
}
