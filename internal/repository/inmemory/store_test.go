package inmemory_test

import (
	"context"
	"testing"
	"time"

	"taskmanager/internal/models"
	"taskmanager/internal/repository"
	"taskmanager/internal/repository/inmemory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(owner uuid.UUID, title string, mutate ...func(*models.Task)) *models.Task {
	t := &models.Task{
		ID:        uuid.New(),
		Title:     title,
		Status:    models.StatusTodo,
		Priority:  models.PriorityMedium,
		CreatedBy: owner,
		CreatedAt: time.Now(),
	}
	for _, m := range mutate {
		m(t)
	}
	return t
}

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStore()
	users := store.Users()

	alice := &models.User{ID: uuid.New(), Name: "Alice", Email: "alice@example.com", CreatedAt: time.Now()}
	require.NoError(t, users.Create(ctx, alice))

	t.Run("duplicate live email rejected", func(t *testing.T) {
		dup := &models.User{ID: uuid.New(), Name: "Other", Email: "alice@example.com"}
		err := users.Create(ctx, dup)
		assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	})

	t.Run("lookup by id and email", func(t *testing.T) {
		byID, err := users.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", byID.Name)

		byEmail, err := users.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, byEmail.ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := users.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("stored copy is isolated from the caller's pointer", func(t *testing.T) {
		alice.Name = "Mutated"
		stored, err := users.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", stored.Name)
	})
}

func TestTaskRepo_OwnershipScope(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStore()
	tasks := store.Tasks()

	owner := uuid.New()
	assignee := uuid.New()
	stranger := uuid.New()

	ownTask := newTask(owner, "mine")
	sharedTask := newTask(owner, "shared", func(t *models.Task) { t.AssignedTo = &assignee })
	otherTask := newTask(stranger, "theirs")
	deletedTask := newTask(owner, "gone", func(t *models.Task) {
		now := time.Now()
		t.DeletedAt = &now
	})

	for _, task := range []*models.Task{ownTask, sharedTask, otherTask, deletedTask} {
		require.NoError(t, tasks.Create(ctx, task))
	}

	t.Run("owner sees own and shared, not deleted", func(t *testing.T) {
		got, total, err := tasks.List(ctx, owner, models.TaskFilter{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, got, 2)
	})

	t.Run("assignee sees the shared task only", func(t *testing.T) {
		got, total, err := tasks.List(ctx, assignee, models.TaskFilter{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, sharedTask.ID, got[0].ID)
	})

	t.Run("soft-deleted task is absent from reads", func(t *testing.T) {
		_, err := tasks.GetByID(ctx, deletedTask.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestTaskRepo_ListFiltering(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStore()
	tasks := store.Tasks()
	owner := uuid.New()

	seed := []*models.Task{
		newTask(owner, "Annual report", func(t *models.Task) {
			t.Status = models.StatusDone
			t.Priority = models.PriorityHigh
			t.Tags = []string{"work"}
			t.Description = "figures for Q4"
		}),
		newTask(owner, "Buy groceries", func(t *models.Task) {
			t.Priority = models.PriorityLow
			t.Tags = []string{"home", "errand"}
		}),
		newTask(owner, "Code review", func(t *models.Task) {
			t.Status = models.StatusInProgress
			t.Tags = []string{"work"}
		}),
	}
	require.NoError(t, tasks.CreateBatch(ctx, seed))

	tests := []struct {
		name     string
		filter   models.TaskFilter
		expected []string
	}{
		{"by status", models.TaskFilter{Status: models.StatusDone}, []string{"Annual report"}},
		{"by priority", models.TaskFilter{Priority: models.PriorityLow}, []string{"Buy groceries"}},
		{"by tag", models.TaskFilter{Tag: "work"}, []string{"Annual report", "Code review"}},
		{"search matches title case-insensitively", models.TaskFilter{Search: "GROC"}, []string{"Buy groceries"}},
		{"search matches description", models.TaskFilter{Search: "q4"}, []string{"Annual report"}},
		{"status and tag combined", models.TaskFilter{Status: models.StatusInProgress, Tag: "work"}, []string{"Code review"}},
		{"no match", models.TaskFilter{Search: "nothing here"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.filter.Page = 1
			tt.filter.Limit = 10
			got, total, err := tasks.List(ctx, owner, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, len(tt.expected), total)

			titles := make([]string, 0, len(got))
			for _, task := range got {
				titles = append(titles, task.Title)
			}
			assert.ElementsMatch(t, tt.expected, titles)
		})
	}
}

func TestTaskRepo_SortAndPaginate(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStore()
	tasks := store.Tasks()
	owner := uuid.New()

	titles := []string{"delta", "Alpha", "charlie", "bravo"}
	for i, title := range titles {
		task := newTask(owner, title)
		task.CreatedAt = time.Now().Add(time.Duration(i) * time.Minute)
		require.NoError(t, tasks.Create(ctx, task))
	}

	t.Run("sort by title is case-insensitive", func(t *testing.T) {
		got, _, err := tasks.List(ctx, owner, models.TaskFilter{SortBy: "title", Page: 1, Limit: 10})
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.Equal(t, "Alpha", got[0].Title)
		assert.Equal(t, "delta", got[3].Title)
	})

	t.Run("descending sort", func(t *testing.T) {
		got, _, err := tasks.List(ctx, owner, models.TaskFilter{SortBy: "title", SortDesc: true, Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, "delta", got[0].Title)
	})

	t.Run("unknown sort field keeps insertion order", func(t *testing.T) {
		got, _, err := tasks.List(ctx, owner, models.TaskFilter{SortBy: "password_hash", Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, "delta", got[0].Title)
	})

	t.Run("pagination windows with stable total", func(t *testing.T) {
		first, total, err := tasks.List(ctx, owner, models.TaskFilter{SortBy: "title", Page: 1, Limit: 3})
		require.NoError(t, err)
		assert.Equal(t, 4, total)
		assert.Len(t, first, 3)

		second, total, err := tasks.List(ctx, owner, models.TaskFilter{SortBy: "title", Page: 2, Limit: 3})
		require.NoError(t, err)
		assert.Equal(t, 4, total)
		require.Len(t, second, 1)
		assert.Equal(t, "delta", second[0].Title)
	})

	t.Run("page past the end is empty, total intact", func(t *testing.T) {
		got, total, err := tasks.List(ctx, owner, models.TaskFilter{Page: 9, Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Equal(t, 4, total)
	})
}

func TestCommentRepo(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStore()
	comments := store.Comments()
	taskID := uuid.New()
	author := uuid.New()

	older := &models.Comment{ID: uuid.New(), TaskID: taskID, Author: author, Text: "first", CreatedAt: time.Now().Add(-time.Hour)}
	newer := &models.Comment{ID: uuid.New(), TaskID: taskID, Author: author, Text: "second", CreatedAt: time.Now()}
	otherTask := &models.Comment{ID: uuid.New(), TaskID: uuid.New(), Author: author, Text: "elsewhere", CreatedAt: time.Now()}

	for _, c := range []*models.Comment{newer, older, otherTask} {
		require.NoError(t, comments.Create(ctx, c))
	}

	t.Run("listing is oldest-first and scoped to the task", func(t *testing.T) {
		got, err := comments.ListByTask(ctx, taskID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "first", got[0].Text)
		assert.Equal(t, "second", got[1].Text)
	})

	t.Run("soft-deleted comment disappears", func(t *testing.T) {
		now := time.Now()
		older.DeletedAt = &now
		require.NoError(t, comments.Update(ctx, older))

		got, err := comments.ListByTask(ctx, taskID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "second", got[0].Text)

		_, err = comments.GetByID(ctx, older.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestFileRepo(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStore()
	files := store.Files()
	taskID := uuid.New()
	uploader := uuid.New()

	record := &models.File{
		ID:           uuid.New(),
		TaskID:       taskID,
		OriginalName: "report.pdf",
		StoredName:   "abc.pdf",
		UploadedBy:   uploader,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, files.Create(ctx, record))

	got, err := files.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", got.OriginalName)

	listed, err := files.ListByTask(ctx, taskID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	now := time.Now()
	record.DeletedAt = &now
	require.NoError(t, files.Update(ctx, record))

	listed, err = files.ListByTask(ctx, taskID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
