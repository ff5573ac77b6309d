package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"jobboard/internal/applications"
	"jobboard/internal/auth"
	"jobboard/internal/config"
	"jobboard/internal/jobs"
	"jobboard/internal/reports"
)

// Connect opens the pool, retrying transient failures with a linear backoff.
func Connect(ctx context.Context, dsn string, cfg config.DBConfig, log *slog.Logger) (*gorm.DB, error) {
	retries := max(cfg.ConnectRetries, 1)
	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		gdb, err := open(ctx, dsn, cfg)
		if err == nil {
			return gdb, nil
		}
		lastErr = err
		log.Warn("database connect failed", slog.Int("attempt", attempt), slog.Any("error", err))

		if attempt == retries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	return nil, fmt.Errorf("connect database: %w", lastErr)
}

func open(ctx context.Context, dsn string, cfg config.DBConfig) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables, in foreign key order
	if err := gdb.AutoMigrate(
		&auth.User{},
		&jobs.Job{},
		&applications.Application{},
		&reports.Report{},
	); err != nil {
		return err
	}

	// Helpful indexes
	stmts := []string{
		`create index if not exists idx_jobs_status_posted on jobs(status, posted_date desc);`,
		`create index if not exists idx_jobs_employer_posted on jobs(employer_id, posted_date desc);`,
		`create index if not exists idx_applications_job_applied on applications(job_id, applied_date desc);`,
		`create index if not exists idx_applications_applicant_applied on applications(applicant_id, applied_date desc);`,
		`create index if not exists idx_reports_generated on reports(generated_date desc);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
