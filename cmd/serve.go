package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rpupo63/portfolio-backend/api"
	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/ratelimit"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rpupo63/portfolio-backend/storage"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var shutdownTimeout time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), appConfig)
	},
}

func init() {
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "time allowed for in-flight requests and notifications on shutdown")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context, cfg config.App) error {
	log.Info().Str("driver", cfg.Store.Driver).Msg("Initializing app...")

	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := database.Open(openCtx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	deps, err := buildDependencies(ctx, cfg, db)
	if err != nil {
		return err
	}

	limiter, closeLimiter := ratelimit.New(cfg.RateLimit)
	deps.Limiter = limiter

	notifier := services.NewNotifier(services.NotifierConfigFrom(cfg, db.SettingsRepo()))
	deps.Notifier = notifier

	// room for both the server and the signal listener
	errChannel := make(chan error, 2)

	server, err := api.NewServer(cfg, deps)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(shutdownTimeout)

	drainCtx, cancelDrain := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelDrain()
	if err := notifier.Wait(drainCtx); err != nil {
		log.Warn().Err(err).Msg("Notifications still in flight at shutdown")
	}

	if err := closeLimiter(); err != nil {
		log.Warn().Err(err).Msg("Error closing rate limiter")
	}
	if err := db.Close(drainCtx); err != nil {
		log.Warn().Err(err).Msg("Error closing database")
	}
	return nil
}

// buildDependencies picks the media host when configured and the local
// public directory otherwise.
func buildDependencies(ctx context.Context, cfg config.App, db database.Database) (api.Dependencies, error) {
	password := auth.NewPasswordVerifier(cfg.Auth.AdminPassword, cfg.Auth.AdminPasswordHash)
	if !password.Configured() {
		log.Warn().Msg("ADMIN_PASSWORD is not set, admin login is disabled")
	}

	local := storage.NewLocalStore(cfg.PublicDir)
	deps := api.Dependencies{
		Database:  db,
		Sessions:  auth.NewSessionManager(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL),
		Password:  password,
		Uploader:  local,
		ImagesDir: local.ImagesDir(),
	}

	if cfg.Media.Configured() {
		s3Store, err := storage.NewS3Store(ctx, cfg.Media)
		if err != nil {
			return deps, fmt.Errorf("configure media storage: %w", err)
		}
		deps.Uploader = s3Store
		deps.Remover = s3Store
	} else {
		log.Warn().Str("dir", deps.ImagesDir).Msg("Media storage not configured, using local uploads")
	}

	return deps, nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
