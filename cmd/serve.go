package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"invoicegen-backend/logger"
	"invoicegen-backend/routes"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API on PORT.

The store is migrated on startup. When REMINDER_CRON is set and Twilio is
configured, overdue invoices get a scheduled follow-up SMS.`,
	Example: `  # Serve with an in-memory store
  JWT_SECRET=dev invoicegen serve

  # Serve against Postgres on port 5000
  DB_URL=postgres://localhost/invoices invoicegen serve --port 5000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("port", "", "Listen port (overrides PORT)")
	serveCmd.Flags().Bool("print-routes", false, "Print the route table before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.WithComponent("serve")

	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.store.Close()

	if err := a.store.Migrate(ctx); err != nil {
		return err
	}

	if cfg.ReminderCron != "" {
		if err := a.reminders.StartScheduler(cfg.ReminderCron); err != nil {
			log.Warn().Err(err).Msg("Reminder scheduler not started")
		} else {
			defer a.reminders.Stop()
		}
	}

	r := routes.SetupRouter(a.deps)
	if show, _ := cmd.Flags().GetBool("print-routes"); show {
		printRoutes(cmd.OutOrStdout(), r)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
