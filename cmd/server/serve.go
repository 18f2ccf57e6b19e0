package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/services-marketplace/internal/config"
	"github.com/iliyamo/services-marketplace/internal/database"
	"github.com/iliyamo/services-marketplace/internal/identity"
	"github.com/iliyamo/services-marketplace/internal/middleware"
	"github.com/iliyamo/services-marketplace/internal/queue"
	"github.com/iliyamo/services-marketplace/internal/router"
	"github.com/iliyamo/services-marketplace/internal/service"
	"github.com/iliyamo/services-marketplace/internal/storage"
)

var (
	consume     bool
	autoMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts the HTTP API. With --consume the process also drains the event
queue into the notification log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&consume, "consume", false, "Also run the event consumer")
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "Apply the schema before serving")
}

func serve(ctx context.Context) error {
	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	if autoMigrate || database.IsSQLite(db) {
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	pub := queue.NewPublisher(cfg.RabbitURL, log.Named("publisher"))
	defer pub.Close()
	if pub.Enabled() {
		pub.Connect()
	} else {
		log.Warn("RABBITMQ_URL not set; domain events are dropped")
	}

	deps := service.Deps{
		Events:     pub,
		Secret:     cfg.JWTSecret,
		BcryptCost: cfg.BcryptCost,
		ResetTTL:   time.Duration(cfg.ResetTTLMin) * time.Minute,
		Log:        log,
	}
	if cfg.GoogleClientID != "" {
		deps.Verifier = identity.NewGoogleVerifier(cfg.GoogleClientID)
	} else {
		log.Warn("GOOGLE_CLIENT_ID not set; /login/google will fail")
	}
	if cfg.AWSS3Bucket != "" {
		store, err := storage.NewS3Store(ctx, cfg)
		if err != nil {
			return fmt.Errorf("init s3: %w", err)
		}
		deps.Store = store
	} else {
		log.Warn("AWS_S3_BUCKET not set; picture uploads are disabled")
	}

	rdb, err := config.LoadRedisConfig().Connect(ctx)
	if err != nil {
		log.Warn("redis unavailable; rate limiting and caching are off", zap.Error(err))
	} else {
		defer rdb.Close()
	}

	e := router.New(log)
	router.Mount(e, service.NewSet(db, deps), router.Options{
		JWTSecret: cfg.JWTSecret,
		DB:        db,
		RateLimit: middleware.RateLimit(config.LoadRateLimitConfig(), rdb),
		Cache:     middleware.ResponseCache(config.LoadCacheConfig(), rdb),
	})

	if consume {
		c := queue.NewConsumer(cfg.RabbitURL, log.Named("consumer"))
		go func() {
			if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("event consumer stopped", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
