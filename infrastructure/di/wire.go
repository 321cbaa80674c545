//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"propwire/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideActivityService,
	ProvideRegistry,
	ProvideSharedProps,
	ProvideDispatcher,
	ProvideErrorHandler,
	ProvideRenderer,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
