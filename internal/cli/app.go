package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"personal-planner/internal/config"
	"personal-planner/internal/logger"
	"personal-planner/internal/repository"
	"personal-planner/internal/service"
)

// app bundles what a single command invocation needs.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  repository.Store
	tasks  *service.TaskService
	out    io.Writer
}

func openApp(ctx context.Context, cmd *cli.Command) (*app, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(cfg, cmd)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{Level: cfg.Logger.Level, Encoding: cfg.Logger.Encoding})

	store, err := repository.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}

	tasks, err := service.NewTaskService(ctx, store, service.WithLogger(log))
	if err != nil {
		store.Close()
		_ = log.Sync()
		return nil, err
	}

	log.Debug("planner ready",
		zap.String("driver", cfg.Store.Driver),
		zap.String("store", cfg.Store.Path),
	)

	return &app{cfg: cfg, logger: log, store: store, tasks: tasks, out: writerOf(cmd.Root())}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("close store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// applyFlagOverrides lets global flags win over file and environment settings.
func applyFlagOverrides(cfg *config.Config, cmd *cli.Command) {
	if level := cmd.String("log-level"); level != "" {
		cfg.Logger.Level = level
	}
	if driver := cmd.String("driver"); driver != "" && driver != cfg.Store.Driver {
		if cfg.Store.Path == config.DefaultStorePath(cfg.Store.Driver) {
			cfg.Store.Path = config.DefaultStorePath(driver)
		}
		cfg.Store.Driver = driver
	}
	if path := cmd.String("store"); path != "" {
		cfg.Store.Path = path
	}
}

func writerOf(root *cli.Command) io.Writer {
	if root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}
