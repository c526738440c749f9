// Package pipeline drives one export run: it walks the source tree, fans the
// discovered files out to a bounded pool of workers and records every outcome
// in the run report.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"astdump/internal/config"
	aerrors "astdump/internal/errors"
	"astdump/internal/export"
	"astdump/internal/paths"
	"astdump/internal/report"
	"astdump/internal/walker"
)

// Pipeline runs exports for one configuration.
type Pipeline struct {
	cfg      config.Config
	exporter export.Exporter
	log      *report.Log
	logger   *slog.Logger
}

// New creates a pipeline. The report log is the only state shared between workers.
func New(cfg config.Config, exporter export.Exporter, log *report.Log, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		exporter: exporter,
		log:      log,
		logger:   logger,
	}
}

// Run exports every source file. Per-file failures are recorded and never
// returned. The returned error is fatal: a traversal failure of the source
// root or cancellation of ctx. In both cases the report's error message is
// set and the counters gathered so far are kept.
func (p *Pipeline) Run(ctx context.Context) error {
	workers := p.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p.logger.Info("Starting export",
		"source", p.cfg.SourceDir(),
		"mode", p.cfg.Mode,
		"format", p.cfg.Format,
		"workers", workers,
	)

	queue := make(chan walker.File, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range queue {
				if runCtx.Err() != nil {
					continue
				}
				p.process(runCtx, file)
			}
		}()
	}

	var fatal error
feed:
	for file, err := range walker.Walk(p.cfg.SourceDir(), config.SourceExtension, p.logger) {
		if err != nil {
			fatal = err
			cancel()
			break
		}
		select {
		case queue <- file:
		case <-runCtx.Done():
			break feed
		}
	}
	close(queue)
	wg.Wait()

	if fatal == nil && ctx.Err() != nil {
		fatal = aerrors.New(aerrors.Interrupted, "run interrupted", ctx.Err())
	}
	if fatal != nil {
		p.log.SetError(fatal)
		p.logger.Error("Export aborted", "error", fatal)
		return fatal
	}
	return nil
}

// process exports one file and records the outcome. Files aborted by
// cancellation are not recorded.
func (p *Pipeline) process(ctx context.Context, file walker.File) {
	name := paths.ReportFilename(config.SourceDirName, file.Rel)

	defer func() {
		if r := recover(); r != nil {
			err := aerrors.New(aerrors.InternalError, fmt.Sprintf("panic during export: %v", r), nil).WithPath(name)
			p.log.RecordFailure(name, err)
			p.logger.Error("Export panicked", "path", name, "error", err, "stack", string(debug.Stack()))
		}
	}()

	result, err := p.exporter.Export(ctx, file)
	if err != nil {
		if ctx.Err() != nil {
			p.logger.Debug("Export cancelled", "path", name)
			return
		}
		p.log.RecordFailure(name, err)
		p.logger.Warn("Export failed", "path", name, "mode", p.cfg.Mode, "error", err)
		return
	}

	p.log.RecordSuccess(result.Declarations)
	if p.cfg.Mode == config.ModeMethod {
		p.logger.Info("Exported file", "path", name, "mode", p.cfg.Mode, "declarations", result.Declarations)
		return
	}
	p.logger.Info("Exported file", "path", name, "mode", p.cfg.Mode)
}
