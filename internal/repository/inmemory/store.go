// Package inmemory is a map-backed storage backend used for local runs
// and tests. It mirrors the postgres backend's behavior, including
// treating soft-deleted records as absent.
package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"taskmanager/internal/models"
	"taskmanager/internal/repository"

	"github.com/google/uuid"
)

type Store struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]*models.User
	tasks    map[uuid.UUID]*models.Task
	comments map[uuid.UUID]*models.Comment
	files    map[uuid.UUID]*models.File
	taskIDs  []uuid.UUID // insertion order for stable unsorted listings
}

func NewStore() *Store {
	return &Store{
		users:    make(map[uuid.UUID]*models.User),
		tasks:    make(map[uuid.UUID]*models.Task),
		comments: make(map[uuid.UUID]*models.Comment),
		files:    make(map[uuid.UUID]*models.File),
	}
}

func (s *Store) HealthCheck(ctx context.Context) error {
	return nil
}

func (s *Store) Users() *UserRepo       { return &UserRepo{s} }
func (s *Store) Tasks() *TaskRepo       { return &TaskRepo{s} }
func (s *Store) Comments() *CommentRepo { return &CommentRepo{s} }
func (s *Store) Files() *FileRepo       { return &FileRepo{s} }

type UserRepo struct{ store *Store }

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, u := range r.store.users {
		if u.Email == user.Email && !u.Deleted() {
			return repository.ErrDuplicateEmail
		}
	}

	cp := *user
	r.store.users[user.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok || u.Deleted() {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.Email == email && !u.Deleted() {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type TaskRepo struct{ store *Store }

func (r *TaskRepo) Create(ctx context.Context, task *models.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.insert(task)
	return nil
}

// CreateBatch is all-or-nothing; with a single lock held there is no
// partial state to roll back.
func (r *TaskRepo) CreateBatch(ctx context.Context, tasks []*models.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, t := range tasks {
		r.insert(t)
	}
	return nil
}

func (r *TaskRepo) insert(task *models.Task) {
	cp := *task
	r.store.tasks[task.ID] = &cp
	r.store.taskIDs = append(r.store.taskIDs, task.ID)
}

func (r *TaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	t, ok := r.store.tasks[id]
	if !ok || t.Deleted() {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *TaskRepo) Update(ctx context.Context, task *models.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.tasks[task.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *task
	r.store.tasks[task.ID] = &cp
	return nil
}

func (r *TaskRepo) List(ctx context.Context, userID uuid.UUID, filter models.TaskFilter) ([]*models.Task, int, error) {
	r.store.mu.RLock()
	matched := []*models.Task{}
	for _, id := range r.store.taskIDs {
		t := r.store.tasks[id]
		if matches(t, userID, filter) {
			cp := *t
			matched = append(matched, &cp)
		}
	}
	r.store.mu.RUnlock()

	sortTasks(matched, filter.SortBy, filter.SortDesc)

	total := len(matched)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 1
	}

	start := (page - 1) * limit
	if start >= total {
		return []*models.Task{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *TaskRepo) ListVisible(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	visible := []*models.Task{}
	for _, id := range r.store.taskIDs {
		t := r.store.tasks[id]
		if !t.Deleted() && t.VisibleTo(userID) {
			cp := *t
			visible = append(visible, &cp)
		}
	}
	return visible, nil
}

func matches(t *models.Task, userID uuid.UUID, f models.TaskFilter) bool {
	if t.Deleted() || !t.VisibleTo(userID) {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Tag != "" {
		found := false
		for _, tag := range t.Tags {
			if tag == f.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			return false
		}
	}
	return true
}

func sortTasks(tasks []*models.Task, field string, desc bool) {
	if _, ok := models.SortColumns[field]; !ok {
		return
	}

	less := func(a, b *models.Task) bool {
		switch field {
		case "title":
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case "status":
			return a.Status < b.Status
		case "priority":
			return a.Priority < b.Priority
		case "due_date":
			return timeOrZero(a.DueDate).Before(timeOrZero(b.DueDate))
		case "updated_at":
			return timeOrZero(a.UpdatedAt).Before(timeOrZero(b.UpdatedAt))
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if desc {
			return less(tasks[j], tasks[i])
		}
		return less(tasks[i], tasks[j])
	})
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

type CommentRepo struct{ store *Store }

func (r *CommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cp := *comment
	r.store.comments[comment.ID] = &cp
	return nil
}

func (r *CommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.comments[id]
	if !ok || c.Deleted() {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *CommentRepo) Update(ctx context.Context, comment *models.Comment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.comments[comment.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *comment
	r.store.comments[comment.ID] = &cp
	return nil
}

func (r *CommentRepo) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.Comment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	comments := []*models.Comment{}
	for _, c := range r.store.comments {
		if c.TaskID == taskID && !c.Deleted() {
			cp := *c
			comments = append(comments, &cp)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

type FileRepo struct{ store *Store }

func (r *FileRepo) Create(ctx context.Context, file *models.File) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cp := *file
	r.store.files[file.ID] = &cp
	return nil
}

func (r *FileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.File, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	f, ok := r.store.files[id]
	if !ok || f.Deleted() {
		return nil, repository.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *FileRepo) Update(ctx context.Context, file *models.File) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.files[file.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *file
	r.store.files[file.ID] = &cp
	return nil
}

func (r *FileRepo) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.File, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	files := []*models.File{}
	for _, f := range r.store.files {
		if f.TaskID == taskID && !f.Deleted() {
			cp := *f
			files = append(files, &cp)
		}
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].CreatedAt.Before(files[j].CreatedAt)
	})
	return files, nil
}
