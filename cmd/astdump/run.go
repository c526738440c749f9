package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"astdump/internal/config"
	aerrors "astdump/internal/errors"
	"astdump/internal/export"
	"astdump/internal/history"
	"astdump/internal/parser"
	"astdump/internal/pipeline"
	"astdump/internal/printer"
	"astdump/internal/report"
	"astdump/internal/slogutil"
)

func runExport(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exporter := export.New(cfg, parser.New(), printer.New())
	return execute(ctx, cfg, exporter, logger, cmd.OutOrStdout())
}

// execute runs the export and persists its outcome. Report and history
// failures are logged and never change the result.
func execute(ctx context.Context, cfg config.Config, exporter export.Exporter, logger *slog.Logger, stdout io.Writer) error {
	log := report.New(cfg, time.Now())

	log.StartTimer()
	runErr := pipeline.New(cfg, exporter, log, logger).Run(ctx)
	log.StopTimer()

	reportPath := cfg.ReportPath(log.Name())
	if err := log.Write(reportPath); err != nil {
		logger.Error("Failed to write report", "error", err)
	} else {
		logger.Info("Wrote report", "path", reportPath)
	}

	if cfg.History {
		recordHistory(cfg, log, logger)
	}

	log.PrintSummary(stdout)
	return runErr
}

func recordHistory(cfg config.Config, log *report.Log, logger *slog.Logger) {
	store, err := history.Open(cfg.StateDir(), logger)
	if err != nil {
		logger.Warn("Run history unavailable", "error", err)
		return
	}
	defer func() { _ = store.Close() }()

	run := history.FromOutput(log.Snapshot())
	if err := store.Record(&run); err != nil {
		logger.Warn("Failed to record run history", "error", err)
	}
}

// newLogger builds the run logger on stderr, teeing into the configured log
// file when one is set.
func newLogger(cfg config.Config, stderr io.Writer) (*slog.Logger, func(), error) {
	level := slogutil.LevelFromString(cfg.LogLevel)
	if cfg.LogFile == "" {
		return slogutil.NewLogger(stderr, level), func() {}, nil
	}

	fileLogger, file, err := slogutil.NewFileLogger(cfg.LogFile, level)
	if err != nil {
		return nil, nil, aerrors.New(aerrors.ConfigError, "cannot open log file", err).WithPath(cfg.LogFile)
	}
	opts := &slog.HandlerOptions{Level: level}
	logger := slogutil.NewTeeLogger(slogutil.NewHandler(stderr, opts), fileLogger.Handler())
	return logger, func() { _ = file.Close() }, nil
}
