package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/coursecraft-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coursecraft-backend/internal/http/middleware"
	"github.com/yungbote/coursecraft-backend/internal/observability"
	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
	"github.com/yungbote/coursecraft-backend/internal/services"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	AllowedOrigins []string
	// MutationTimeout bounds every /api request context.
	MutationTimeout time.Duration

	AuthMiddleware   *httpMW.AuthMiddleware
	StructureHandler *httpH.StructureHandler
	CourseHandler    *httpH.CourseHandler
	ProgressHandler  *httpH.ProgressHandler
	RealtimeHandler  *httpH.RealtimeHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware == nil {
		return r
	}

	// Realtime (SSE) streams outlive any request timeout.
	if cfg.RealtimeHandler != nil {
		api.GET("/sse/stream", cfg.AuthMiddleware.RequireAuth(), cfg.RealtimeHandler.SSEStream)
	}

	bounded := api.Group("/", httpMW.RequestTimeout(cfg.MutationTimeout))

	// Structure (admin)
	admin := bounded.Group("/", cfg.AuthMiddleware.RequireRole(services.RoleAdmin))
	if cfg.StructureHandler != nil {
		admin.POST("/courses/:courseID/chapters", cfg.StructureHandler.CreateChapter)
		admin.POST("/chapters/:chapterID/lessons", cfg.StructureHandler.CreateLesson)
		admin.DELETE("/courses/:courseID/chapters/:chapterID", cfg.StructureHandler.DeleteChapter)
		admin.DELETE("/courses/:courseID/chapters/:chapterID/lessons/:lessonID", cfg.StructureHandler.DeleteLesson)
		admin.PUT("/courses/:courseID/chapters/order", cfg.StructureHandler.ReorderChapters)
		admin.PUT("/courses/:courseID/chapters/:chapterID/lessons/order", cfg.StructureHandler.ReorderLessons)
		admin.DELETE("/courses/:courseID", cfg.StructureHandler.DeleteCourse)
		admin.PATCH("/courses/:courseID", cfg.StructureHandler.UpdateCourse)
	}
	if cfg.CourseHandler != nil {
		admin.GET("/courses/:courseID/structure", cfg.CourseHandler.Structure)
	}

	// Learner
	learner := bounded.Group("/", cfg.AuthMiddleware.RequireAuth())
	if cfg.CourseHandler != nil {
		learner.GET("/courses/by-slug/:slug/outline", cfg.CourseHandler.Sidebar)
		learner.GET("/lessons/:lessonID", cfg.CourseHandler.LessonContent)
	}
	if cfg.ProgressHandler != nil {
		learner.POST("/lessons/:lessonID/complete", cfg.ProgressHandler.MarkComplete)
		learner.GET("/courses/:courseID/progress", cfg.ProgressHandler.Summary)
	}

	return r
}
