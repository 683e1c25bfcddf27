package structure

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/yungbote/coursecraft-backend/internal/dnd"
	domainagg "github.com/yungbote/coursecraft-backend/internal/domain/aggregates"
	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
	"github.com/yungbote/coursecraft-backend/internal/services"
)

const defaultCallTimeout = 15 * time.Second

// API is the slice of the course API the controller calls.
type API interface {
	ReorderChapters(ctx context.Context, courseID uuid.UUID, items []domainagg.PositionUpdate) (services.Result, error)
	ReorderLessons(ctx context.Context, courseID, chapterID uuid.UUID, items []domainagg.PositionUpdate) (services.Result, error)
	Outline(ctx context.Context, courseID uuid.UUID) (*services.CourseOutline, error)
}

type Outcome string

const (
	OutcomeNoop       Outcome = "noop"
	OutcomeApplied    Outcome = "applied"
	OutcomeRejected   Outcome = "rejected"
	OutcomeRolledBack Outcome = "rolled_back"
)

type Options struct {
	// CallTimeout bounds each reorder request.
	CallTimeout time.Duration
}

// Controller owns the mirror of one course. At most one reorder request is
// in flight; later gestures wait for the slot.
type Controller struct {
	log      *logger.Logger
	api      API
	notify   Notifier
	timeout  time.Duration
	courseID uuid.UUID

	slot *semaphore.Weighted

	mu     sync.RWMutex
	mirror Mirror
}

func NewController(log *logger.Logger, courseID uuid.UUID, api API, notify Notifier, opts Options) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = defaultCallTimeout
	}
	if notify == nil {
		notify = NewLogNotifier(log)
	}
	return &Controller{
		log:      log.With("component", "StructureController", "course_id", courseID.String()),
		api:      api,
		notify:   notify,
		timeout:  opts.CallTimeout,
		courseID: courseID,
		slot:     semaphore.NewWeighted(1),
		mirror:   Mirror{CourseID: courseID},
	}
}

// Mirror returns a copy of the current mirror.
func (c *Controller) Mirror() Mirror {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mirror.Clone()
}

// Seed replaces the mirror without a server round trip.
func (c *Controller) Seed(m Mirror) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m = m.Clone()
	m.CourseID = c.courseID
	c.mirror = m
}

// Toggle flips a chapter's expand state and reports the new value.
func (c *Controller) Toggle(chapterID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.mirror.chapterIndex(chapterID)
	if i < 0 {
		return false
	}
	c.mirror.Chapters[i].Open = !c.mirror.Chapters[i].Open
	return c.mirror.Chapters[i].Open
}

// Reload replaces the mirror with the server outline, keeping expand state.
func (c *Controller) Reload(ctx context.Context) error {
	if err := c.slot.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.slot.Release(1)

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	out, err := c.api.Outline(callCtx, c.courseID)
	if err != nil {
		c.log.Warn("outline reload failed", "error", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	next := FromOutline(out, c.mirror.openFlags())
	next.CourseID = c.courseID
	c.mirror = next
	return nil
}

// Drop resolves a finished drag gesture, applies it to the mirror, and
// persists the new order. A failed call restores the pre-gesture mirror.
func (c *Controller) Drop(ctx context.Context, g dnd.Gesture) (Outcome, error) {
	if err := c.slot.Acquire(ctx, 1); err != nil {
		return OutcomeNoop, err
	}
	defer c.slot.Release(1)

	c.mu.Lock()
	snapshot := c.mirror.Clone()
	intent := dnd.Resolve(snapshot.Layout(), g)
	if intent == nil {
		c.mu.Unlock()
		return OutcomeNoop, nil
	}
	if rej, ok := intent.(dnd.Rejected); ok {
		c.mu.Unlock()
		c.notify.Error(rej.Reason)
		return OutcomeRejected, rej
	}
	next, batch, err := snapshot.apply(intent)
	if err != nil {
		c.mu.Unlock()
		c.notify.Error(err.Error())
		return OutcomeRejected, err
	}
	c.mirror = next
	c.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	res, err := c.send(callCtx, intent, batch)
	cancel()
	if err == nil && !res.OK() {
		err = &resultError{message: strings.TrimSpace(res.Message)}
	}
	if err != nil {
		c.rollback(snapshot)
		msg := failureMessage(intent, err)
		c.log.Warn("reorder rolled back", "error", err)
		c.notify.Error(msg)
		return OutcomeRolledBack, err
	}

	c.notify.Success(res.Message)
	return OutcomeApplied, nil
}

func (c *Controller) send(ctx context.Context, in dnd.Intent, batch []domainagg.PositionUpdate) (services.Result, error) {
	switch v := in.(type) {
	case dnd.ChapterMove:
		return c.api.ReorderChapters(ctx, c.courseID, batch)
	case dnd.LessonMove:
		return c.api.ReorderLessons(ctx, c.courseID, v.ChapterID, batch)
	default:
		return services.Result{}, fmt.Errorf("unsupported intent %T", in)
	}
}

// rollback restores the snapshot's order; expand flags toggled while the
// request was in flight survive.
func (c *Controller) rollback(snapshot Mirror) {
	c.mu.Lock()
	defer c.mu.Unlock()
	open := c.mirror.openFlags()
	restored := snapshot.Clone()
	for i := range restored.Chapters {
		if v, ok := open[restored.Chapters[i].ID]; ok {
			restored.Chapters[i].Open = v
		}
	}
	c.mirror = restored
}

// resultError is an error result returned by the server.
type resultError struct {
	message string
}

func (e *resultError) Error() string { return e.message }

func failureMessage(in dnd.Intent, err error) string {
	what := "Failed to reorder chapters"
	if _, ok := in.(dnd.LessonMove); ok {
		what = "Failed to reorder lessons"
	}
	var re *resultError
	if errors.As(err, &re) && re.message != "" {
		return re.message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return what + ": request timed out"
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return what
	}
	return what + ": " + msg
}
