package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"jobboard/internal/admin"
	"jobboard/internal/applications"
	"jobboard/internal/auth"
	"jobboard/internal/config"
	"jobboard/internal/db"
	httpx "jobboard/internal/http"
	mw "jobboard/internal/http/middleware"
	"jobboard/internal/jobs"
	"jobboard/internal/reports"
)

func main() {
	if err := run(); err != nil {
		slog.Error("jobboard exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Connect(ctx, cfg.DatabaseURL, cfg.DB, logger)
	if err != nil {
		return err
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		return err
	}

	usersRepo := &auth.Repo{DB: gdb}
	jobsRepo := &jobs.Repo{DB: gdb}
	appsRepo := &applications.Repo{DB: gdb}
	reportsRepo := &reports.Repo{DB: gdb}

	jwtSvc := auth.NewJWT(cfg.JWT)
	adminSvc := &admin.Service{
		Users:        usersRepo,
		Jobs:         jobsRepo,
		Applications: appsRepo,
		Reports:      reportsRepo,
	}

	var limiter mw.Limiter
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		limiter = mw.NewRedisLimiter(rdb, cfg.LoginRateLimit, cfg.LoginRateWindow)
	}

	r := httpx.NewRouter(httpx.Deps{
		Config:       cfg,
		Logger:       logger,
		JWT:          jwtSvc,
		Users:        usersRepo,
		Auth:         &auth.Service{Users: usersRepo, JWT: jwtSvc},
		Jobs:         &jobs.Service{Store: jobsRepo},
		Applications: &applications.Service{Store: appsRepo, Jobs: jobsRepo},
		Admin:        adminSvc,
		Limiter:      limiter,
	})

	worker := &reports.Worker{
		ID:       "reports-" + uuid.NewString(),
		Interval: cfg.ReportInterval,
		Sources:  adminSvc.ReportSources(),
		Store:    reportsRepo,
		Logger:   logger,
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", slog.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return worker.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	if sqlDB, dbErr := gdb.DB(); dbErr == nil {
		_ = sqlDB.Close()
	}
	return err
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
