package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/specialistvlad/variantplan/internal/config"
	"github.com/specialistvlad/variantplan/internal/ctxlog"
	"github.com/specialistvlad/variantplan/internal/executor"
	"github.com/specialistvlad/variantplan/internal/plan"
	"github.com/specialistvlad/variantplan/internal/render"
	"github.com/specialistvlad/variantplan/internal/variant"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	cfg      *Config
	model    *config.Model
	renderer render.Renderer
}

// NewApp is the constructor for the main application. Plans are rendered
// to outW and logs go to logW. Configuration problems are returned, since
// nothing can be planned without a valid model.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	renderer, err := render.New(cfg.Format, cfg.Color)
	if err != nil {
		return nil, err
	}

	model, err := loader.Load(ctx, cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("Configuration loaded and translated into unified model.")

	return &App{
		outW:     outW,
		logger:   logger,
		cfg:      cfg,
		model:    model,
		renderer: renderer,
	}, nil
}

// Model returns the loaded configuration model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}

// Run executes one build request and renders its batch. The returned error
// is only set for request-wide problems; per-variant failures are part of
// the batch.
func (a *App) Run(ctx context.Context) (*plan.Batch, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	specs, err := variant.Build(a.model.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate variants: %w", err)
	}
	sel := variant.ParseSelector(a.cfg.Variants)
	matched, unknown := variant.Select(specs, sel)
	a.logger.Debug("Variants selected.", "selector", sel.String(), "enumerated", len(specs), "matched", len(matched), "unknown", unknown)

	exec, err := executor.New(a.model, a.cfg.WorkerCount)
	if err != nil {
		return nil, err
	}

	a.logger.Info("Build request started.", "variants", len(matched), "workers", a.cfg.WorkerCount)
	batch := exec.Run(ctx, matched)
	for _, id := range unknown {
		batch.Failures = append(batch.Failures, plan.Failure{Variant: id, Err: &variant.UnknownVariantError{ID: id}})
	}
	sort.SliceStable(batch.Failures, func(i, j int) bool { return batch.Failures[i].Variant < batch.Failures[j].Variant })
	a.logger.Info("Build request finished.", "plans", len(batch.Plans), "failures", len(batch.Failures), "skipped", len(batch.Skipped))

	if err := a.renderer.Render(a.outW, batch); err != nil {
		return batch, fmt.Errorf("failed to render %s output: %w", a.cfg.Format, err)
	}
	return batch, nil
}
