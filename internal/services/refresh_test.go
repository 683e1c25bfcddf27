package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/coursecraft-backend/internal/domain"
	"github.com/yungbote/coursecraft-backend/internal/observability"
	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
	"github.com/yungbote/coursecraft-backend/internal/realtime"
)

type failingEmitter struct{ calls int }

func (e *failingEmitter) Emit(context.Context, realtime.SSEMessage) error {
	e.calls++
	return errors.New("bus down")
}

func TestSSERefresherBroadcastsOnCourseChannel(t *testing.T) {
	hub := realtime.NewSSEHub(logger.Nop())
	courseID := uuid.New()
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, realtime.CourseChannel(courseID))
	defer hub.CloseClient(client)

	r := NewSSERefresher(&HubEmitter{Hub: hub}, observability.New(), logger.Nop())
	r.CourseStructureChanged(context.Background(), courseID, domain.ScopeLessons)

	select {
	case msg := <-client.Outbound:
		if msg.Event != realtime.SSEEventCourseStructureChanged {
			t.Fatalf("event: %s", msg.Event)
		}
		data, ok := msg.Data.(map[string]any)
		if !ok || data["scope"] != domain.ScopeLessons {
			t.Fatalf("data: %#v", msg.Data)
		}
	case <-time.After(time.Second):
		t.Fatalf("no refresh signal delivered")
	}
}

func TestSSERefresherSwallowsEmitErrors(t *testing.T) {
	em := &failingEmitter{}
	r := NewSSERefresher(em, nil, logger.Nop())
	r.CourseStructureChanged(context.Background(), uuid.New(), domain.ScopeChapters)
	r.LessonProgressChanged(context.Background(), uuid.New(), uuid.New(), uuid.New())
	if em.calls != 2 {
		t.Fatalf("emit calls: %d", em.calls)
	}
}

func TestEmittersRequireTarget(t *testing.T) {
	if err := (&HubEmitter{}).Emit(context.Background(), realtime.SSEMessage{}); err == nil {
		t.Fatalf("hub emitter without hub should fail")
	}
	if err := (&BusEmitter{}).Emit(context.Background(), realtime.SSEMessage{}); err == nil {
		t.Fatalf("bus emitter without bus should fail")
	}
}
