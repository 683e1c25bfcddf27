package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/coursecraft-backend/internal/domain"
	"github.com/yungbote/coursecraft-backend/internal/observability"
	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
	"github.com/yungbote/coursecraft-backend/internal/realtime"
)

// Refresher tells open editors that a course outline changed. Delivery is
// best effort and never fails the mutation that triggered it.
type Refresher interface {
	CourseStructureChanged(ctx context.Context, courseID uuid.UUID, scope domain.Scope)
}

// ProgressNotifier tells a learner's other sessions that progress moved.
type ProgressNotifier interface {
	LessonProgressChanged(ctx context.Context, userID, courseID, lessonID uuid.UUID)
}

type SSERefresher struct {
	emitter SSEEmitter
	metrics *observability.Metrics
	log     *logger.Logger
}

var (
	_ Refresher        = (*SSERefresher)(nil)
	_ ProgressNotifier = (*SSERefresher)(nil)
)

func NewSSERefresher(emitter SSEEmitter, metrics *observability.Metrics, baseLog *logger.Logger) *SSERefresher {
	return &SSERefresher{
		emitter: emitter,
		metrics: metrics,
		log:     baseLog.With("service", "SSERefresher"),
	}
}

func (r *SSERefresher) CourseStructureChanged(ctx context.Context, courseID uuid.UUID, scope domain.Scope) {
	r.emit(ctx, string(scope), realtime.SSEMessage{
		Channel: realtime.CourseChannel(courseID),
		Event:   realtime.SSEEventCourseStructureChanged,
		Data: map[string]any{
			"course_id": courseID,
			"scope":     scope,
		},
	})
}

func (r *SSERefresher) LessonProgressChanged(ctx context.Context, userID, courseID, lessonID uuid.UUID) {
	r.emit(ctx, "progress", realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.SSEEventLessonProgressChanged,
		Data: map[string]any{
			"course_id": courseID,
			"lesson_id": lessonID,
		},
	})
}

func (r *SSERefresher) emit(ctx context.Context, path string, msg realtime.SSEMessage) {
	if r == nil || r.emitter == nil {
		return
	}
	err := r.emitter.Emit(ctx, msg)
	r.metrics.IncRefreshSignal(path, err)
	if err != nil {
		r.log.Warn("refresh signal failed", "channel", msg.Channel, "event", msg.Event, "error", err)
	}
}

type noopRefresher struct{}

func (noopRefresher) CourseStructureChanged(context.Context, uuid.UUID, domain.Scope) {}
func (noopRefresher) LessonProgressChanged(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) {}
