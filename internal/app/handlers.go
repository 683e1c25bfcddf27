package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/coursecraft-backend/internal/http/handlers"
	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
	"github.com/yungbote/coursecraft-backend/internal/realtime"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	Realtime  *httpH.RealtimeHandler
	Structure *httpH.StructureHandler
	Course    *httpH.CourseHandler
	Progress  *httpH.ProgressHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services, sseHub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(db),
		Realtime:  httpH.NewRealtimeHandler(log, sseHub),
		Structure: httpH.NewStructureHandler(log, services.Structure),
		Course:    httpH.NewCourseHandler(log, services.Course),
		Progress:  httpH.NewProgressHandler(log, services.Progress),
	}
}
