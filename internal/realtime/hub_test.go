package realtime

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
)

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHubDeliversInOrderToSubscribers(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	courseID := uuid.New()
	channel := CourseChannel(courseID)

	a := hub.NewSSEClient(uuid.New())
	b := hub.NewSSEClient(uuid.New())
	hub.AddChannel(a, channel)
	hub.AddChannel(b, UserChannel(b.UserID))
	if got := hub.Subscribers(channel); got != 1 {
		t.Fatalf("subscribers: want=1 got=%d", got)
	}

	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventCourseStructureChanged, Data: map[string]any{"seq": 1}})
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventLessonProgressChanged, Data: map[string]any{"seq": 2}})

	if got := recvMessage(t, a.Outbound, time.Second); got.Event != SSEEventCourseStructureChanged {
		t.Fatalf("first event: got=%s", got.Event)
	}
	if got := recvMessage(t, a.Outbound, time.Second); got.Event != SSEEventLessonProgressChanged {
		t.Fatalf("second event: got=%s", got.Event)
	}
	select {
	case msg := <-b.Outbound:
		t.Fatalf("client on another channel got %+v", msg)
	default:
	}
}

func TestSSEHubCloseClientIsIdempotent(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	channel := CourseChannel(uuid.New())
	c := hub.NewSSEClient(uuid.New())
	hub.AddChannel(c, channel)

	hub.CloseClient(c)
	hub.CloseClient(c)
	if got := hub.Subscribers(channel); got != 0 {
		t.Fatalf("subscribers after close: %d", got)
	}
	if _, ok := <-c.Outbound; ok {
		t.Fatalf("outbound should be closed")
	}
	// Broadcasting after close must not panic on the closed channel.
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventCourseStructureChanged})
}

func TestSSEHubDropsWhenBufferFull(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	channel := CourseChannel(uuid.New())
	c := hub.NewSSEClient(uuid.New())
	hub.AddChannel(c, channel)

	for i := 0; i < outboundBuffer+5; i++ {
		hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventCourseStructureChanged})
	}
	if got := len(c.Outbound); got != outboundBuffer {
		t.Fatalf("buffered: want=%d got=%d", outboundBuffer, got)
	}
}

func TestSSEHubRemoveChannel(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	c := hub.NewSSEClient(uuid.New())
	hub.AddChannel(c, "course:a")
	hub.AddChannel(c, "course:b")
	hub.AddChannel(c, "  ")
	hub.RemoveChannel(c, "course:a")

	if hub.Subscribers("course:a") != 0 || hub.Subscribers("course:b") != 1 {
		t.Fatalf("unexpected subscriptions a=%d b=%d", hub.Subscribers("course:a"), hub.Subscribers("course:b"))
	}
	if len(c.Channels) != 1 || !c.Channels["course:b"] {
		t.Fatalf("client channels: %v", c.Channels)
	}
}

func TestSSEHubServeHTTPStreamsEvents(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	channel := CourseChannel(uuid.New())
	c := hub.NewSSEClient(uuid.New())
	hub.AddChannel(c, channel)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeHTTP(w, r, c)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type: %q", ct)
	}

	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventCourseStructureChanged})

	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "event: ") {
			if line != "event: CourseStructureChanged" {
				t.Fatalf("event line: %q", line)
			}
			if !sc.Scan() || !strings.Contains(sc.Text(), `"channel":"`+channel+`"`) {
				t.Fatalf("data line: %q", sc.Text())
			}
			return
		}
	}
	t.Fatalf("stream ended without event: %v", sc.Err())
}
