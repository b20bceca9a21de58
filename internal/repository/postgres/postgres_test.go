package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"taskmanager/internal/models"
	"taskmanager/internal/repository"
	"taskmanager/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type PostgresTestSuite struct {
	suite.Suite
	container  testcontainers.Container
	storage    *postgres.Storage
	connString string
	ctx        context.Context
}

func (s *PostgresTestSuite) SetupSuite() {
	s.ctx = context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T(), err)
	s.container = container

	host, err := container.Host(s.ctx)
	require.NoError(s.T(), err)
	port, err := container.MappedPort(s.ctx, "5432")
	require.NoError(s.T(), err)

	s.connString = fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	require.NoError(s.T(), postgres.Migrate(s.connString))

	s.storage, err = postgres.New(s.ctx, s.connString, postgres.Options{})
	require.NoError(s.T(), err)
}

func (s *PostgresTestSuite) TearDownSuite() {
	if s.storage != nil {
		s.storage.Close()
	}
	if s.container != nil {
		s.container.Terminate(s.ctx)
	}
}

func (s *PostgresTestSuite) SetupTest() {
	conn, err := pgx.Connect(s.ctx, s.connString)
	require.NoError(s.T(), err)
	defer conn.Close(s.ctx)

	_, err = conn.Exec(s.ctx, "TRUNCATE files, comments, tasks, users")
	require.NoError(s.T(), err)
}

func TestPostgresTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(PostgresTestSuite))
}

func (s *PostgresTestSuite) seedUser(name, email string) *models.User {
	user := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		CreatedAt:    time.Now(),
	}
	require.NoError(s.T(), s.storage.Users().Create(s.ctx, user))
	return user
}

func (s *PostgresTestSuite) seedTask(owner uuid.UUID, title string, mutate ...func(*models.Task)) *models.Task {
	task := &models.Task{
		ID:        uuid.New(),
		Title:     title,
		Status:    models.StatusTodo,
		Priority:  models.PriorityMedium,
		Tags:      []string{},
		CreatedBy: owner,
		CreatedAt: time.Now(),
	}
	for _, m := range mutate {
		m(task)
	}
	require.NoError(s.T(), s.storage.Tasks().Create(s.ctx, task))
	return task
}

func (s *PostgresTestSuite) TestUserRepo_DuplicateEmail() {
	s.seedUser("Alice", "alice@example.com")

	dup := &models.User{
		ID:           uuid.New(),
		Name:         "Imposter",
		Email:        "alice@example.com",
		PasswordHash: "y",
		CreatedAt:    time.Now(),
	}
	err := s.storage.Users().Create(s.ctx, dup)
	assert.ErrorIs(s.T(), err, repository.ErrDuplicateEmail)
}

func (s *PostgresTestSuite) TestUserRepo_Lookups() {
	alice := s.seedUser("Alice", "alice@example.com")

	byID, err := s.storage.Users().GetByID(s.ctx, alice.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Alice", byID.Name)

	byEmail, err := s.storage.Users().GetByEmail(s.ctx, "alice@example.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), alice.ID, byEmail.ID)

	_, err = s.storage.Users().GetByID(s.ctx, uuid.New())
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

func (s *PostgresTestSuite) TestTaskRepo_CreateAndGet() {
	owner := s.seedUser("Alice", "alice@example.com")
	due := time.Now().Add(48 * time.Hour).Truncate(time.Second)

	created := s.seedTask(owner.ID, "Write report", func(t *models.Task) {
		t.Description = "quarterly figures"
		t.Priority = models.PriorityHigh
		t.Tags = []string{"work", "writing"}
		t.DueDate = &due
	})

	got, err := s.storage.Tasks().GetByID(s.ctx, created.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Write report", got.Title)
	assert.Equal(s.T(), models.PriorityHigh, got.Priority)
	assert.Equal(s.T(), []string{"work", "writing"}, got.Tags)
	require.NotNil(s.T(), got.DueDate)
	assert.WithinDuration(s.T(), due, *got.DueDate, time.Second)
}

func (s *PostgresTestSuite) TestTaskRepo_Update() {
	owner := s.seedUser("Alice", "alice@example.com")
	task := s.seedTask(owner.ID, "Original")

	now := time.Now()
	task.Title = "Renamed"
	task.Status = models.StatusDone
	task.CompletedAt = &now
	task.UpdatedAt = &now
	require.NoError(s.T(), s.storage.Tasks().Update(s.ctx, task))

	got, err := s.storage.Tasks().GetByID(s.ctx, task.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Renamed", got.Title)
	assert.Equal(s.T(), models.StatusDone, got.Status)
	assert.NotNil(s.T(), got.CompletedAt)

	ghost := *task
	ghost.ID = uuid.New()
	err = s.storage.Tasks().Update(s.ctx, &ghost)
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

func (s *PostgresTestSuite) TestTaskRepo_SoftDeleteHidesTask() {
	owner := s.seedUser("Alice", "alice@example.com")
	task := s.seedTask(owner.ID, "Doomed")

	now := time.Now()
	task.DeletedAt = &now
	require.NoError(s.T(), s.storage.Tasks().Update(s.ctx, task))

	_, err := s.storage.Tasks().GetByID(s.ctx, task.ID)
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)

	got, total, err := s.storage.Tasks().List(s.ctx, owner.ID, models.TaskFilter{Page: 1, Limit: 10})
	require.NoError(s.T(), err)
	assert.Zero(s.T(), total)
	assert.Empty(s.T(), got)
}

func (s *PostgresTestSuite) TestTaskRepo_CreateBatch() {
	owner := s.seedUser("Alice", "alice@example.com")

	batch := []*models.Task{}
	for i := 1; i <= 3; i++ {
		batch = append(batch, &models.Task{
			ID:        uuid.New(),
			Title:     fmt.Sprintf("Bulk %d", i),
			Status:    models.StatusTodo,
			Priority:  models.PriorityMedium,
			Tags:      []string{},
			CreatedBy: owner.ID,
			CreatedAt: time.Now(),
		})
	}
	require.NoError(s.T(), s.storage.Tasks().CreateBatch(s.ctx, batch))

	_, total, err := s.storage.Tasks().List(s.ctx, owner.ID, models.TaskFilter{Page: 1, Limit: 10})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 3, total)
}

func (s *PostgresTestSuite) TestTaskRepo_ListScopeAndFilters() {
	alice := s.seedUser("Alice", "alice@example.com")
	bob := s.seedUser("Bob", "bob@example.com")

	s.seedTask(alice.ID, "Annual report", func(t *models.Task) {
		t.Status = models.StatusDone
		t.Tags = []string{"work"}
	})
	s.seedTask(alice.ID, "Buy groceries", func(t *models.Task) {
		t.Priority = models.PriorityLow
		t.Tags = []string{"home"}
	})
	s.seedTask(bob.ID, "Bob's secret", func(t *models.Task) {
		t.Tags = []string{"work"}
	})
	s.seedTask(bob.ID, "Shared with Alice", func(t *models.Task) {
		t.AssignedTo = &alice.ID
	})

	s.T().Run("ownership scope covers created and assigned", func(t *testing.T) {
		_, total, err := s.storage.Tasks().List(s.ctx, alice.ID, models.TaskFilter{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
	})

	s.T().Run("status filter", func(t *testing.T) {
		got, total, err := s.storage.Tasks().List(s.ctx, alice.ID, models.TaskFilter{
			Status: models.StatusDone, Page: 1, Limit: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, "Annual report", got[0].Title)
	})

	s.T().Run("tag filter stays inside the caller's scope", func(t *testing.T) {
		got, total, err := s.storage.Tasks().List(s.ctx, alice.ID, models.TaskFilter{
			Tag: "work", Page: 1, Limit: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, "Annual report", got[0].Title)
	})

	s.T().Run("search is case-insensitive over title and description", func(t *testing.T) {
		got, total, err := s.storage.Tasks().List(s.ctx, alice.ID, models.TaskFilter{
			Search: "GROCER", Page: 1, Limit: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, "Buy groceries", got[0].Title)
	})

	s.T().Run("sort and pagination", func(t *testing.T) {
		got, total, err := s.storage.Tasks().List(s.ctx, alice.ID, models.TaskFilter{
			SortBy: "title", Page: 1, Limit: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, got, 2)
		assert.Equal(t, "Annual report", got[0].Title)
	})

	s.T().Run("list visible for analytics", func(t *testing.T) {
		visible, err := s.storage.Tasks().ListVisible(s.ctx, alice.ID)
		require.NoError(t, err)
		assert.Len(t, visible, 3)
	})
}

func (s *PostgresTestSuite) TestCommentRepo() {
	owner := s.seedUser("Alice", "alice@example.com")
	task := s.seedTask(owner.ID, "Commented")

	first := &models.Comment{
		ID:         uuid.New(),
		TaskID:     task.ID,
		Author:     owner.ID,
		AuthorName: "Alice",
		Text:       "first",
		CreatedAt:  time.Now().Add(-time.Minute),
	}
	second := &models.Comment{
		ID:         uuid.New(),
		TaskID:     task.ID,
		Author:     owner.ID,
		AuthorName: "Alice",
		Text:       "second",
		CreatedAt:  time.Now(),
	}
	require.NoError(s.T(), s.storage.Comments().Create(s.ctx, second))
	require.NoError(s.T(), s.storage.Comments().Create(s.ctx, first))

	listed, err := s.storage.Comments().ListByTask(s.ctx, task.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), listed, 2)
	assert.Equal(s.T(), "first", listed[0].Text)

	now := time.Now()
	first.DeletedAt = &now
	require.NoError(s.T(), s.storage.Comments().Update(s.ctx, first))

	listed, err = s.storage.Comments().ListByTask(s.ctx, task.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), listed, 1)
	assert.Equal(s.T(), "second", listed[0].Text)
}

func (s *PostgresTestSuite) TestFileRepo() {
	owner := s.seedUser("Alice", "alice@example.com")
	task := s.seedTask(owner.ID, "With attachment")

	record := &models.File{
		ID:           uuid.New(),
		TaskID:       task.ID,
		OriginalName: "report.pdf",
		StoredName:   "abc.pdf",
		Path:         "/uploads/abc.pdf",
		MimeType:     "application/pdf",
		Size:         42,
		UploadedBy:   owner.ID,
		CreatedAt:    time.Now(),
	}
	require.NoError(s.T(), s.storage.Files().Create(s.ctx, record))

	got, err := s.storage.Files().GetByID(s.ctx, record.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(42), got.Size)

	now := time.Now()
	record.DeletedAt = &now
	require.NoError(s.T(), s.storage.Files().Update(s.ctx, record))

	_, err = s.storage.Files().GetByID(s.ctx, record.ID)
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)

	listed, err := s.storage.Files().ListByTask(s.ctx, task.ID)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), listed)
}

func (s *PostgresTestSuite) TestHealthCheck() {
	assert.NoError(s.T(), s.storage.HealthCheck(s.ctx))
}

func TestStorage_New_InvalidConn(t *testing.T) {
	tests := []struct {
		name       string
		connString string
	}{
		{"invalid connection string", "invalid"},
		{"empty connection string", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_, err := postgres.New(ctx, tt.connString, postgres.Options{})
			assert.Error(t, err)
		})
	}
}
