package main

import (
	"flag"
	"os"
	"strings"
	"syscall"

	"github.com/hawk7227/dropshipping-management-sub002/internal/app"
	"github.com/hawk7227/dropshipping-management-sub002/internal/config"
	"github.com/hawk7227/dropshipping-management-sub002/internal/logger"
	"github.com/hawk7227/dropshipping-management-sub002/internal/models"
	"github.com/hawk7227/dropshipping-management-sub002/internal/pricing"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	// Misconfigured pricing rules would silently produce wrong prices
	// on every product, so they abort boot.
	rules := pricing.FromConfig(cfg)
	if errs := rules.Validate(); len(errs) > 0 {
		stdLog.Fatalf("pricing rules invalid:\n  %s", strings.Join(errs, "\n  "))
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("database init failed: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("database migration failed: %v", err)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "run mode: all (default), api, worker")
	flag.Parse()

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("app run failed: %v", err)
	}
}
