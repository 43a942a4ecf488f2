package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/scribehq/scribe-api/internal/api"
	"github.com/scribehq/scribe-api/internal/api/middleware"
	"github.com/scribehq/scribe-api/internal/config"
	"github.com/scribehq/scribe-api/internal/events"
	"github.com/scribehq/scribe-api/internal/platform/mailer"
	"github.com/scribehq/scribe-api/internal/platform/postgres"
	"github.com/scribehq/scribe-api/internal/service"
	"github.com/scribehq/scribe-api/internal/service/auth"
	"github.com/scribehq/scribe-api/internal/task"
)

// application holds the shared application dependencies so startup wiring and
// shutdown cleanup live in one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	taskRunner *task.TaskRunner
	router     chi.Router
}

// newApplication wires stores, services, the task runner and the router. The
// returned application has a running task runner; callers must Run or
// cleanup.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Stores
	userStore := postgres.NewPostgresUserStore(db, logger)
	categoryStore := postgres.NewPostgresCategoryStore(db, logger)
	postStore := postgres.NewPostgresPostStore(db, logger)
	commentStore := postgres.NewPostgresCommentStore(db, logger)
	tokenStore := postgres.NewPostgresTokenStore(db, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)

	// Welcome email pipeline: factory -> runner -> event handler
	welcomeFactory := task.NewWelcomeEmailTaskFactory(userStore, buildMailer(cfg, logger), logger)

	app.taskRunner = task.NewTaskRunner(taskStore, task.TaskRunnerConfig{
		WorkerCount: cfg.Task.WorkerCount,
		QueueSize:   cfg.Task.QueueSize,
	}, logger)
	app.taskRunner.RegisterHydrator(task.TaskTypeWelcomeEmail, welcomeFactory)
	if err := app.taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(task.NewWelcomeEmailEventHandler(welcomeFactory, app.taskRunner, logger))

	// Services
	authService := service.NewAuthService(
		db, userStore, tokenStore, jwtService,
		auth.NewBcryptHasher(bcrypt.DefaultCost), auth.NewBcryptVerifier(),
		emitter, logger,
	)
	userService := service.NewUserService(userStore, logger)
	postService := service.NewPostService(db, postStore, logger)
	commentService := service.NewCommentService(db, commentStore, postStore, logger)

	// HTTP layer
	app.router = api.NewRouter(api.RouterDeps{
		AuthHandler:    api.NewAuthHandler(authService, userService, logger),
		UserHandler:    api.NewUserHandler(userService, logger),
		PostHandler:    api.NewPostHandler(postService, categoryStore, logger),
		CommentHandler: api.NewCommentHandler(commentService, logger),
		AuthMiddleware: middleware.NewAuthMiddleware(jwtService, tokenStore, logger),
		LoginLimiter: middleware.NewRateLimiter(
			cfg.Server.LoginRateLimit,
			time.Duration(cfg.Server.LoginRateWindowSeconds)*time.Second,
			logger,
		),
	})

	logger.Info("application initialized")
	return app, nil
}

// Run starts the HTTP server and blocks until shutdown completes.
func (app *application) Run(ctx context.Context) error {
	if err := app.serveHTTP(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// buildMailer picks the welcome email transport. Without a configured SMTP
// host the application logs emails instead of sending them.
func buildMailer(cfg *config.Config, logger *slog.Logger) mailer.Mailer {
	if cfg.Mail.Host == "" {
		logger.Info("no SMTP host configured, using log mailer")
		return mailer.NewLogMailer(logger)
	}
	return mailer.NewSMTPMailer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.From, logger)
}

// cleanup releases application resources in shutdown order: the task runner
// first so no worker touches a closing database.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
