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

type FileRepo struct {
	s *Storage
}

var fileColumns = []string{
	"id", "task_id", "original_name", "stored_name", "path", "mime_type",
	"size", "uploaded_by", "created_at", "deleted_at",
}

func (r *FileRepo) Create(ctx context.Context, file *models.File) error {
	query, args, err := r.s.builder.
		Insert("files").
		Columns(fileColumns...).
		Values(file.ID, file.TaskID, file.OriginalName, file.StoredName, file.Path,
			file.MimeType, file.Size, file.UploadedBy, file.CreatedAt, file.DeletedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

func (r *FileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.File, error) {
	query, args, err := r.s.builder.
		Select(fileColumns...).
		From("files").
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var f models.File
	err = r.s.pool.QueryRow(ctx, query, args...).Scan(
		&f.ID, &f.TaskID, &f.OriginalName, &f.StoredName, &f.Path,
		&f.MimeType, &f.Size, &f.UploadedBy, &f.CreatedAt, &f.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select file: %w", err)
	}
	return &f, nil
}

func (r *FileRepo) Update(ctx context.Context, file *models.File) error {
	query, args, err := r.s.builder.
		Update("files").
		Set("deleted_at", file.DeletedAt).
		Where(sq.Eq{"id": file.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update file: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *FileRepo) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.File, error) {
	query, args, err := r.s.builder.
		Select(fileColumns...).
		From("files").
		Where(sq.Eq{"task_id": taskID, "deleted_at": nil}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select files: %w", err)
	}
	defer rows.Close()

	files := []*models.File{}
	for rows.Next() {
		var f models.File
		err := rows.Scan(
			&f.ID, &f.TaskID, &f.OriginalName, &f.StoredName, &f.Path,
			&f.MimeType, &f.Size, &f.UploadedBy, &f.CreatedAt, &f.DeletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}
	return files, nil
}
