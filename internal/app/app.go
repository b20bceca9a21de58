package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"taskmanager/internal/auth"
	"taskmanager/internal/config"
	"taskmanager/internal/filestore"
	"taskmanager/internal/handlers"
	"taskmanager/internal/logger"
	"taskmanager/internal/middleware"
	"taskmanager/internal/repository/inmemory"
	"taskmanager/internal/repository/postgres"
	"taskmanager/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// App owns the wiring: storage backend, services, router and the HTTP
// server lifecycle.
type App struct {
	config    *config.Config
	server    *http.Server
	shutdowns []func()
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.shutdowns = append(a.shutdowns, logger.Sync)

	var (
		users    service.UserRepository
		tasks    service.TaskRepository
		comments service.CommentRepository
		files    service.FileRepository
		health   handlers.HealthChecker
	)

	switch a.config.Repository.Type {
	case "postgres":
		if err := postgres.Migrate(a.config.Database.URL); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		storage, err := postgres.New(ctx, a.config.Database.URL, postgres.Options{
			MaxConns:    a.config.Database.MaxConns,
			MinConns:    a.config.Database.MinConns,
			IdleTimeout: a.config.Database.IdleTimeout,
		})
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		a.shutdowns = append(a.shutdowns, storage.Close)

		users, tasks, comments, files = storage.Users(), storage.Tasks(), storage.Comments(), storage.Files()
		health = storage
	case "inmemory":
		store := inmemory.NewStore()
		users, tasks, comments, files = store.Users(), store.Tasks(), store.Comments(), store.Files()
		health = store
	default:
		return fmt.Errorf("unknown repository type %q", a.config.Repository.Type)
	}

	blobs, err := filestore.New(a.config.Uploads.Dir)
	if err != nil {
		return fmt.Errorf("init filestore: %w", err)
	}

	tokens := auth.NewManager(a.config.Auth.Secret, a.config.Auth.TokenTTL)

	authService := service.NewAuthService(users, tokens)
	taskService := service.NewTaskService(tasks, comments, files, blobs)
	commentService := service.NewCommentService(comments, tasks, users)
	fileService := service.NewFileService(files, tasks, blobs)
	analyticsService := service.NewAnalyticsService(tasks)

	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService, a.config.Uploads.MaxFileSize, a.config.Uploads.MaxPerBatch)
	commentHandler := handlers.NewCommentHandler(commentService)
	fileHandler := handlers.NewFileHandler(fileService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	healthHandler := handlers.NewHealthHandler(health)

	authenticator := middleware.NewAuthenticator(tokens, users)

	router := a.routes(routeDeps{
		auth:      authHandler,
		tasks:     taskHandler,
		comments:  commentHandler,
		files:     fileHandler,
		analytics: analyticsHandler,
		health:    healthHandler,
		authMW:    authenticator,
	})

	a.server = &http.Server{
		Addr:         a.config.ServerAddr(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return nil
}

type routeDeps struct {
	auth      *handlers.AuthHandler
	tasks     *handlers.TaskHandler
	comments  *handlers.CommentHandler
	files     *handlers.FileHandler
	analytics *handlers.AnalyticsHandler
	health    *handlers.HealthHandler
	authMW    *middleware.Authenticator
}

func (a *App) routes(deps routeDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{a.config.CORS.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RateLimit(a.config.RateLimit))

	r.Get("/health", deps.health.Check)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", deps.auth.Register) // POST /api/auth/register
			r.Post("/login", deps.auth.Login)       // POST /api/auth/login

			r.Group(func(r chi.Router) {
				r.Use(deps.authMW.Authenticate)
				r.Get("/profile", deps.auth.Profile) // GET /api/auth/profile
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(deps.authMW.Authenticate)

			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", deps.tasks.Create)          // POST /api/tasks
				r.Post("/bulk", deps.tasks.BulkCreate)  // POST /api/tasks/bulk
				r.Get("/", deps.tasks.List)             // GET /api/tasks

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", deps.tasks.GetByID)          // GET /api/tasks/{id}
					r.Put("/", deps.tasks.Update)           // PUT /api/tasks/{id}
					r.Delete("/", deps.tasks.Delete)        // DELETE /api/tasks/{id}
					r.Post("/files", deps.tasks.AttachFiles) // POST /api/tasks/{id}/files
				})
			})

			r.Route("/comments", func(r chi.Router) {
				r.Post("/{taskId}", deps.comments.Add)          // POST /api/comments/{taskId}
				r.Get("/{taskId}", deps.comments.ListByTask)    // GET /api/comments/{taskId}
				r.Put("/{commentId}", deps.comments.Update)     // PUT /api/comments/{commentId}
				r.Delete("/{commentId}", deps.comments.Delete)  // DELETE /api/comments/{commentId}
			})

			r.Route("/files", func(r chi.Router) {
				r.Get("/{id}", deps.files.Download)   // GET /api/files/{id}
				r.Delete("/{id}", deps.files.Delete)  // DELETE /api/files/{id}
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/overview", deps.analytics.Overview)       // GET /api/analytics/overview
				r.Get("/performance", deps.analytics.Performance) // GET /api/analytics/performance
				r.Get("/trends", deps.analytics.Trends)           // GET /api/analytics/trends
				r.Get("/export", deps.analytics.Export)           // GET /api/analytics/export
			})
		})
	})

	return r
}

// Run blocks until the context is canceled, then shuts the server down
// gracefully and releases resources in reverse init order.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		logger.Info("Server started on " + a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", err)
	}

	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	return nil
}
