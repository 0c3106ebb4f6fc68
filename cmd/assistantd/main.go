package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"fleet-assistant-backend/config"
	"fleet-assistant-backend/internal/api"
	"fleet-assistant-backend/internal/assistant"
	"fleet-assistant-backend/internal/chat"
	"fleet-assistant-backend/internal/db"
	"fleet-assistant-backend/internal/notification"
	"fleet-assistant-backend/internal/reminder"
	"fleet-assistant-backend/internal/resolver"
	"fleet-assistant-backend/internal/source"
	"fleet-assistant-backend/internal/store"
)

func main() {
	importPath := flag.String("import", "", "load vehicles, invoices and expenses from a JSON file into the database and exit")
	flag.Parse()

	// A missing .env file is fine; the environment may already be set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("could not read .env file")
	}

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logrus.WithError(err).Fatalf("failed to load configuration from %s", configPath)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		logrus.WithError(err).Fatal("invalid log configuration")
	}
	logger.WithField("path", configPath).Info("configuration loaded")

	// Initialize database
	var appStore store.Store
	if cfg.Database.Enabled() {
		gormDB, err := db.Init(&cfg.Database, logger)
		if err != nil {
			logger.WithError(err).Fatal("failed to initialize database")
		}
		appStore = store.NewGormStore(gormDB)
		logger.WithField("driver", cfg.Database.Driver).Info("database initialized")
	}

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *importPath != "" {
		if appStore == nil {
			logger.Fatal("-import needs database.dsn to be configured")
		}
		n, err := importRecords(ctx, appStore, *importPath)
		if err != nil {
			logger.WithError(err).Fatal("import failed")
		}
		logger.WithFields(logrus.Fields{"path": *importPath, "records": n}).Info("import finished")
		return
	}

	src, err := recordSource(cfg, appStore, logger)
	if err != nil {
		logger.WithError(err).Fatal("no record source")
	}

	res := resolver.New(src,
		resolver.WithTTL(cfg.Resolver.CacheTTL),
		resolver.WithLogger(logger),
	)

	var fallback assistant.Fallback
	if cfg.Chat.BaseURL != "" {
		fallback = chat.NewClient(cfg.Chat)
	} else {
		logger.Warn("chat.base_url is empty; unmatched questions get an apology")
	}

	bot := assistant.New(res, fallback,
		assistant.WithHistoryTurns(cfg.Resolver.HistoryTurns),
		assistant.WithSessions(assistant.NewSessions(cfg.Resolver.HistoryTurns, time.Duration(cfg.Resolver.SessionIdleMins)*time.Minute)),
		assistant.WithLogger(logger),
	)

	var webpushOptions *webpush.Options
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
	}

	if cfg.Reminder.Enabled {
		if appStore == nil || webpushOptions == nil {
			logger.Warn("reminders need a database and VAPID keys; not starting")
		} else {
			pool := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, webpushOptions, logger)
			pool.Start(ctx)

			reminders, err := reminder.NewService(cfg.Reminder, res, pool, logger)
			if err != nil {
				logger.WithError(err).Fatal("invalid reminder configuration")
			}
			go reminders.Run(ctx)
		}
	}

	// Initialize router
	handler := api.NewHandler(bot, res, appStore, webpushOptions, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewRouter(handler, cfg.Server, logger),
	}

	// Start the server in a goroutine
	go func() {
		logger.WithField("port", cfg.Server.Port).Info("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("HTTP server ListenAndServe")
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Info("shutdown signal received, stopping services")
	cancel()

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Fatal("HTTP server Shutdown")
	}

	logger.Info("server gracefully stopped")
}

// recordSource picks where the resolver reads records from.
func recordSource(cfg *config.Config, appStore store.Store, logger logrus.FieldLogger) (source.RecordSource, error) {
	switch cfg.Source.Kind {
	case config.SourceHTTP:
		if cfg.Source.BaseURL == "" {
			return nil, errors.New("source.base_url is required for the http source")
		}
		return source.NewHTTPSource(cfg.Source, logger), nil
	case config.SourceDatabase:
		if appStore == nil {
			return nil, errors.New("source.kind database needs database.dsn")
		}
		return appStore, nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}
