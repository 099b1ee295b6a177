package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"card-ledger/configs"
	"card-ledger/internal/cache"
	"card-ledger/internal/handler"
	"card-ledger/internal/ratelimit"
	"card-ledger/internal/repository"
	"card-ledger/internal/service"
	"card-ledger/pkg/scheduler"
)

// housekeepingSchedule runs the cache purge
const housekeepingSchedule = "@every 10m"

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	cfg, err := configs.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	repos := repository.NewRepository(db)

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	err = repos.Migrate(migrateCtx)
	cancelMigrate()
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	store := cache.NewStore(newCacheBackend(cfg, db), cfg.Cache.TTL, log)
	log.Infof("Projection cache: %s, ttl %s", cfg.Cache.Driver, cfg.Cache.TTL)

	services := service.NewService(service.Dependencies{
		Repos:  repos,
		Cache:  store,
		Logger: log,
		Config: cfg,
	})

	handlers := handler.NewHandler(handler.Dependencies{
		Services: services,
		Logger:   log,
		Config:   cfg,
		DB:       repos,
		Cache:    store,
	})

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.New()
	}

	router := handler.NewRouter(handlers, log, cfg.JWT.Secret, limiter)

	jobs := scheduler.NewScheduler(log)
	if err := jobs.Register(scheduler.Job{
		Name: "due_reminders",
		Spec: cfg.Reminder.Schedule,
		Run: func(ctx context.Context) error {
			_, err := services.Reminder.SendDueReminders(ctx)
			return err
		},
	}); err != nil {
		log.Fatalf("Failed to schedule due reminders: %v", err)
	}
	if err := jobs.Register(scheduler.Job{
		Name: "housekeeping",
		Spec: housekeepingSchedule,
		Run: func(ctx context.Context) error {
			purged, err := store.Purge(ctx)
			if err != nil {
				return fmt.Errorf("failed to purge cache: %w", err)
			}
			log.Debugf("Expired cache entries purged: %d", purged)
			return nil
		},
	}); err != nil {
		log.Fatalf("Failed to schedule housekeeping: %v", err)
	}
	jobs.Start()
	defer jobs.Stop()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Second * 15,
		WriteTimeout: time.Second * 15,
		IdleTimeout:  time.Second * 60,
	}

	go func() {
		log.Infof("Starting server on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server shutdown failed: %v", err)
		return
	}

	log.Info("Server gracefully stopped")
}

func initDB(cfg *configs.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func newCacheBackend(cfg *configs.Config, db *sql.DB) cache.Cache {
	if cfg.Cache.Driver == "postgres" {
		return cache.NewPostgres(db)
	}
	return cache.NewMemory()
}
