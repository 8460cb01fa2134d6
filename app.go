package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zac-t-smith/restoration-intel/allocator"
	"github.com/zac-t-smith/restoration-intel/config"
	"github.com/zac-t-smith/restoration-intel/handler"
	"github.com/zac-t-smith/restoration-intel/service"
	"gorm.io/gorm"
)

// app holds the long-lived dependencies shared by the commands.
type app struct {
	db       *gorm.DB
	cache    *service.RedisCache
	services handler.Services
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	db, err := service.OpenDatabase(&cfg.Database)
	if err != nil {
		return nil, err
	}
	a := &app{db: db}

	var cache service.Cache
	if cfg.Redis.Addr != "" {
		redisCache, err := service.NewRedisCache(ctx, &cfg.Redis)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.cache = redisCache
		cache = redisCache
		slog.Info("using redis cache", "addr", cfg.Redis.Addr)
	}

	// A nil interface, not a nil *MinioArchive, keeps reports disabled.
	var archive service.ReportArchive
	if cfg.Minio.Enabled() {
		minioArchive, err := service.NewMinioArchive(&cfg.Minio)
		if err != nil {
			a.Close()
			return nil, err
		}
		if err := minioArchive.EnsureBucket(ctx); err != nil {
			a.Close()
			return nil, err
		}
		archive = minioArchive
		slog.Info("report archive enabled", "endpoint", cfg.Minio.Endpoint, "bucket", cfg.Minio.Bucket)
	}

	ledger := service.NewLedger(db, cache, cfg.Redis.CashTTL())
	alloc := allocator.New(allocator.Policy{PartialWindowDays: cfg.Payables.PartialWindow()})
	payables := service.NewPayablesService(ledger, alloc, cfg.Payables.DefaultDaysForecast)
	reports := service.NewReportService(payables, service.NewReportStore(cfg.Reports.MaxReports), archive)

	a.services = handler.Services{
		Ledger:   ledger,
		Payables: payables,
		Reports:  reports,
	}
	return a, nil
}

func (a *app) Close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			slog.Warn("failed to close redis", "error", err)
		}
	}
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Warn("failed to close database", "error", err)
		}
	}
}

func migrate(cfg *config.Config) error {
	db, err := service.OpenDatabase(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	if err := service.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
