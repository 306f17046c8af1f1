package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/raveworks-booking/internal/booking"
	"github.com/iliyamo/raveworks-booking/internal/catalog"
	"github.com/iliyamo/raveworks-booking/internal/config"
	"github.com/iliyamo/raveworks-booking/internal/database"
	"github.com/iliyamo/raveworks-booking/internal/handler"
	"github.com/iliyamo/raveworks-booking/internal/metrics"
	"github.com/iliyamo/raveworks-booking/internal/middleware"
	"github.com/iliyamo/raveworks-booking/internal/payment"
	"github.com/iliyamo/raveworks-booking/internal/queue"
	"github.com/iliyamo/raveworks-booking/internal/repository"
	"github.com/iliyamo/raveworks-booking/internal/router"
	"github.com/iliyamo/raveworks-booking/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		if err := cfg.Validate(); err != nil {
			return err
		}
		withMigrate, _ := cmd.Flags().GetBool("migrate")
		withConsumer, _ := cmd.Flags().GetBool("consumer")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		db, driver, err := database.Open(ctx, cfg.DatastoreURL, cfg.DatastoreKey)
		if err != nil {
			return err
		}
		defer db.Close()
		if withMigrate {
			if err := database.Migrate(ctx, db, driver); err != nil {
				return err
			}
		}

		cat, err := catalog.Load()
		if err != nil {
			return err
		}

		// Redis is optional: without it caching and rate limiting are off.
		rdb := config.NewRedisClient(cfg.Redis)
		if rdb == nil {
			logger.Warn("redis unavailable; cache and rate limiting disabled", zap.String("addr", cfg.Redis.Address()))
		} else {
			defer rdb.Close()
		}

		gateway := repository.NewGateway(db)
		stats := metrics.NewReporter()
		publisher := queue.NewPublisher(cfg.RabbitMQURL, logger)
		defer publisher.Wait()
		payments := payment.NewTokenizer(cfg.PaymentSecretKey)

		sessions := session.NewManager(cat, func() *booking.Workflow {
			return booking.New(cat, payments, gateway,
				booking.WithLogger(logger),
				booking.WithReporter(booking.Reporters{stats, publisher}),
				booking.WithTimeouts(cfg.PaymentTimeout, cfg.PersistenceTimeout),
			)
		}, session.WithIdleTTL(cfg.SessionIdleTTL), session.WithLogger(logger))
		go sessions.Run(ctx, time.Minute)

		if withConsumer {
			go func() {
				err := queue.NewConsumer(cfg.RabbitMQURL, cfg.BookingLogPath, logger).Run(ctx)
				if err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("booking consumer stopped", zap.Error(err))
				}
			}()
		}

		e := router.New(router.Deps{
			Logger:    logger,
			Content:   handler.NewContentHandler(cat, cfg.PaymentPublicKey),
			Sessions:  handler.NewSessionHandler(sessions, logger),
			Contacts:  handler.NewContactHandler(gateway, logger),
			Admin:     handler.NewAdminHandler(cfg, gateway, logger),
			JWTSecret: cfg.JWTSecret,
			Cache:     middleware.NewRedisCache(cfg.Cache, rdb, logger),
			RateLimit: middleware.NewTokenBucket(cfg.RateLimit, rdb, logger),
			Ready:     handler.Ready(db),
			Metrics:   stats.Handler(),
		})

		addr := ":" + cfg.Port
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("datastore", string(driver)))
			serverErrors <- e.Start(addr)
		}()

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
			logger.Info("shutting down")
		}

		// Give in-flight submissions a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.PaymentTimeout+cfg.PersistenceTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown did not complete", zap.Error(err))
			_ = e.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("migrate", false, "Create missing tables before serving")
	serveCmd.Flags().Bool("consumer", true, "Run the booking log consumer in-process")
}
