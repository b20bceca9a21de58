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

type TaskRepo struct {
	s *Storage
}

var taskColumns = []string{
	"id", "title", "description", "status", "priority", "due_date", "tags",
	"assigned_to", "created_by", "created_at", "updated_at", "completed_at", "deleted_at",
}

func (r *TaskRepo) Create(ctx context.Context, task *models.Task) error {
	query, args, err := r.insertBuilder(task).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// CreateBatch inserts every task inside one transaction; a failure on any
// row rolls back the whole batch.
func (r *TaskRepo) CreateBatch(ctx context.Context, tasks []*models.Task) error {
	tx, err := r.s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, task := range tasks {
		query, args, err := r.insertBuilder(task).ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("insert task %s: %w", task.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func (r *TaskRepo) insertBuilder(task *models.Task) sq.InsertBuilder {
	return r.s.builder.
		Insert("tasks").
		Columns(taskColumns...).
		Values(task.ID, task.Title, task.Description, task.Status, task.Priority,
			task.DueDate, task.Tags, task.AssignedTo, task.CreatedBy,
			task.CreatedAt, task.UpdatedAt, task.CompletedAt, task.DeletedAt)
}

func (r *TaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	query, args, err := r.s.builder.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var t models.Task
	err = r.s.pool.QueryRow(ctx, query, args...).Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate, &t.Tags,
		&t.AssignedTo, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt, &t.CompletedAt, &t.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select task: %w", err)
	}
	return &t, nil
}

func (r *TaskRepo) Update(ctx context.Context, task *models.Task) error {
	query, args, err := r.s.builder.
		Update("tasks").
		Set("title", task.Title).
		Set("description", task.Description).
		Set("status", task.Status).
		Set("priority", task.Priority).
		Set("due_date", task.DueDate).
		Set("tags", task.Tags).
		Set("assigned_to", task.AssignedTo).
		Set("updated_at", task.UpdatedAt).
		Set("completed_at", task.CompletedAt).
		Set("deleted_at", task.DeletedAt).
		Where(sq.Eq{"id": task.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ownershipScope is the visibility predicate: the caller is creator or
// assignee, and the task is not soft-deleted. Every read query composes
// its filters on top of this, never instead of it.
func ownershipScope(userID uuid.UUID) sq.Sqlizer {
	return sq.And{
		sq.Eq{"deleted_at": nil},
		sq.Or{
			sq.Eq{"created_by": userID},
			sq.Eq{"assigned_to": userID},
		},
	}
}

func (r *TaskRepo) List(ctx context.Context, userID uuid.UUID, filter models.TaskFilter) ([]*models.Task, int, error) {
	where := []sq.Sqlizer{ownershipScope(userID)}

	if filter.Status != "" {
		where = append(where, sq.Eq{"status": filter.Status})
	}
	if filter.Priority != "" {
		where = append(where, sq.Eq{"priority": filter.Priority})
	}
	if filter.Tag != "" {
		where = append(where, sq.Expr("? = ANY (tags)", filter.Tag))
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		where = append(where, sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"description": pattern},
		})
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 1
	}

	builder := r.s.builder.
		Select(taskColumns...).
		From("tasks").
		Where(sq.And(where)).
		Limit(uint64(limit)).
		Offset(uint64((page - 1) * limit))

	if _, ok := models.SortColumns[filter.SortBy]; ok {
		dir := " ASC"
		if filter.SortDesc {
			dir = " DESC"
		}
		builder = builder.OrderBy(filter.SortBy + dir)
	} else {
		builder = builder.OrderBy("created_at ASC")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build select: %w", err)
	}

	tasks, err := r.queryTasks(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := r.s.builder.
		Select("COUNT(*)").
		From("tasks").
		Where(sq.And(where)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	var total int
	if err := r.s.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	return tasks, total, nil
}

func (r *TaskRepo) ListVisible(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	query, args, err := r.s.builder.
		Select(taskColumns...).
		From("tasks").
		Where(ownershipScope(userID)).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	return r.queryTasks(ctx, query, args)
}

func (r *TaskRepo) queryTasks(ctx context.Context, query string, args []any) ([]*models.Task, error) {
	rows, err := r.s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*models.Task{}
	for rows.Next() {
		var t models.Task
		err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate, &t.Tags,
			&t.AssignedTo, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt, &t.CompletedAt, &t.DeletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}
