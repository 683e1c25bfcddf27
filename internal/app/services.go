package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/coursecraft-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/coursecraft-backend/internal/domain/aggregates"
	"github.com/yungbote/coursecraft-backend/internal/observability"
	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
	"github.com/yungbote/coursecraft-backend/internal/realtime"
	"github.com/yungbote/coursecraft-backend/internal/services"
)

type Services struct {
	Auth      services.AuthService
	Structure services.StructureService
	Course    services.CourseService
	Progress  services.ProgressService

	StructureAggregate domainagg.StructureAggregate
	Refresher          *services.SSERefresher
}

func wireServices(
	db *gorm.DB,
	log *logger.Logger,
	cfg Config,
	rs Repos,
	clients Clients,
	sseHub *realtime.SSEHub,
	metrics *observability.Metrics,
) (Services, error) {
	log.Info("Wiring services...")

	auth, err := services.NewAuthService(log, cfg.JWTSecretKey, cfg.JWTIssuer)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}

	var hooks aggregates.Hooks
	if metrics != nil {
		hooks = aggregates.NewObservabilityHooks(metrics)
	}
	structureAgg := aggregates.NewStructureAggregate(aggregates.StructureAggregateDeps{
		BaseDeps:    aggregates.BaseDeps{DB: db, Log: log, Hooks: hooks},
		Courses:     rs.Course,
		Chapters:    rs.Chapter,
		Lessons:     rs.Lesson,
		Enrollments: rs.Enrollment,
		Progress:    rs.LessonProgress,
	})

	// With a bus every instance's forwarder feeds its own hub, so publishing
	// to the hub directly would deliver twice locally.
	var emitter services.SSEEmitter = &services.HubEmitter{Hub: sseHub}
	if clients.SSEBus != nil {
		emitter = &services.BusEmitter{Bus: clients.SSEBus}
	}
	refresher := services.NewSSERefresher(emitter, metrics, log)

	return Services{
		Auth:               auth,
		Structure:          services.NewStructureService(log, structureAgg, services.NewValidator(), refresher),
		Course:             services.NewCourseService(log, rs),
		Progress:           services.NewProgressService(log, rs, refresher),
		StructureAggregate: structureAgg,
		Refresher:          refresher,
	}, nil
}
