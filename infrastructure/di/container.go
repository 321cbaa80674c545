package di

import (
	"propwire/application/render"
	"propwire/application/services"
	"propwire/infrastructure/config"
	"propwire/interfaces/http/protocol"
	pkgerrors "propwire/pkg/errors"
	"propwire/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	Metrics      *observability.Collector
	Activity     *services.ActivityService
	Registry     *render.Registry
	Dispatcher   *render.Dispatcher
	ErrorHandler *pkgerrors.ErrorHandler
	Renderer     *protocol.Renderer
}
