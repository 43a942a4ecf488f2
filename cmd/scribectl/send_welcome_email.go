package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/scribehq/scribe-api/internal/config"
	"github.com/scribehq/scribe-api/internal/domain"
	"github.com/scribehq/scribe-api/internal/platform/logger"
	"github.com/scribehq/scribe-api/internal/platform/mailer"
	"github.com/scribehq/scribe-api/internal/platform/postgres"
	"github.com/scribehq/scribe-api/internal/service"
	"github.com/scribehq/scribe-api/internal/store"
	"github.com/scribehq/scribe-api/internal/task"
)

// welcomeEmailTrigger is the slice of WelcomeEmailService the command needs.
type welcomeEmailTrigger interface {
	Trigger(ctx context.Context, userID int64, email string) (*domain.User, error)
}

// welcomeEmailConnector opens whatever the trigger needs and returns it with
// a cleanup function. Swappable in tests.
type welcomeEmailConnector func(ctx context.Context) (welcomeEmailTrigger, func(), error)

// newSendWelcomeEmailCmd builds the send-welcome-email command. The user is
// selected by --id or --email; --id wins when both are given. On success
// exactly one pending job row is written for the server's runner to pick up.
func newSendWelcomeEmailCmd(connect welcomeEmailConnector) *cobra.Command {
	var (
		userID int64
		email  string
	)

	cmd := &cobra.Command{
		Use:   "send-welcome-email",
		Short: "Queue a welcome email job for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == 0 && email == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "Please provide either --id or --email option.")
				return service.ErrMissingSelector
			}

			svc, cleanup, err := connect(cmd.Context())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed to connect: %v\n", err)
				return err
			}
			defer cleanup()

			user, err := svc.Trigger(cmd.Context(), userID, email)
			if err != nil {
				switch {
				case errors.Is(err, store.ErrUserNotFound) && userID != 0:
					fmt.Fprintf(cmd.ErrOrStderr(), "No user found with ID %d.\n", userID)
				case errors.Is(err, store.ErrUserNotFound):
					fmt.Fprintf(cmd.ErrOrStderr(), "No user found with email %s.\n", email)
				case errors.Is(err, service.ErrMissingSelector):
					fmt.Fprintln(cmd.ErrOrStderr(), "Please provide either --id or --email option.")
				default:
					fmt.Fprintf(cmd.ErrOrStderr(), "Failed to queue welcome email: %v\n", err)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"Welcome email job queued for user ID %d (%s).\n", user.ID, user.Email)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "id", 0, "ID of the user to email")
	cmd.Flags().StringVar(&email, "email", "", "email address of the user to email")

	return cmd
}

// connectWelcomeEmailService wires the production WelcomeEmailService against
// the configured database.
func connectWelcomeEmailService(ctx context.Context) (welcomeEmailTrigger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Server)

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, log)
	taskStore := postgres.NewPostgresTaskStore(db, log)
	factory := task.NewWelcomeEmailTaskFactory(userStore, mailer.NewLogMailer(log), log)

	svc := service.NewWelcomeEmailService(userStore, taskStore, factory, log)
	cleanup := func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database connection", "error", err)
		}
	}

	return svc, cleanup, nil
}
