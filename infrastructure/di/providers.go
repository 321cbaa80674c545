package di

import (
	"context"

	"propwire/application/render"
	"propwire/application/services"
	"propwire/infrastructure/config"
	"propwire/interfaces/http/protocol"
	"propwire/interfaces/http/rest/handlers"
	pkgerrors "propwire/pkg/errors"
	"propwire/pkg/observability"

	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideMetrics creates the Prometheus collector
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	return observability.NewCollector("propwire")
}

// ProvideActivityService creates the demo activity feed, seeded so the
// pages have something to show on a first visit
func ProvideActivityService(logger *zap.Logger) *services.ActivityService {
	activity := services.NewActivityService(logger)

	ctx := context.Background()
	activity.Record(ctx, "system", "startup")
	activity.Record(ctx, "system", "seed")

	return activity
}

// ProvideRegistry creates the page component registry
func ProvideRegistry(activity *services.ActivityService) (*render.Registry, error) {
	registry := render.NewRegistry()
	if err := handlers.RegisterPages(registry, activity); err != nil {
		return nil, err
	}
	return registry, nil
}

// ProvideSharedProps creates the shared prop builder
func ProvideSharedProps(cfg *config.Config) render.Builder {
	return render.SharedProps(cfg.AssetVersion)
}

// ProvideDispatcher creates the render dispatcher
func ProvideDispatcher(
	registry *render.Registry,
	shared render.Builder,
	cfg *config.Config,
	logger *zap.Logger,
	metrics *observability.Collector,
) *render.Dispatcher {
	return render.NewDispatcher(registry, shared, cfg.AssetVersion, logger, metrics)
}

// ProvideErrorHandler creates the HTTP error handler
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideRenderer creates the protocol renderer
func ProvideRenderer(
	dispatcher *render.Dispatcher,
	errorHandler *pkgerrors.ErrorHandler,
	metrics *observability.Collector,
	logger *zap.Logger,
) *protocol.Renderer {
	return protocol.NewRenderer(dispatcher, errorHandler, metrics, logger)
}
