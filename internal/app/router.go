package app

import (
	httpserver "github.com/yungbote/coursecraft-backend/internal/http"
	"github.com/yungbote/coursecraft-backend/internal/observability"
	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
)

func routerConfig(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) httpserver.RouterConfig {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return httpserver.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		ServiceName:      serviceName,
		AllowedOrigins:   cfg.AllowedOrigins,
		MutationTimeout:  cfg.MutationTimeout,
		AuthMiddleware:   middleware.Auth,
		StructureHandler: handlers.Structure,
		CourseHandler:    handlers.Course,
		ProgressHandler:  handlers.Progress,
		RealtimeHandler:  handlers.Realtime,
		HealthHandler:    handlers.Health,
	}
}
