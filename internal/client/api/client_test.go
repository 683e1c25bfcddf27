package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	domainagg "github.com/yungbote/coursecraft-backend/internal/domain/aggregates"
	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
	"github.com/yungbote/coursecraft-backend/internal/services"
)

func newTestClient(t *testing.T, h http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(logger.Nop(), Config{BaseURL: srv.URL + "/", Token: "tok", Timeout: time.Second})
	require.NoError(t, err)
	return c
}

func TestReorderChaptersSendsBatch(t *testing.T) {
	courseID := uuid.New()
	items := []domainagg.PositionUpdate{{ID: uuid.New(), Position: 1}, {ID: uuid.New(), Position: 2}}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/courses/"+courseID.String()+"/chapters/order", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		var body reorderBody
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, items, body.Items)
		_ = json.NewEncoder(w).Encode(services.Result{Status: "success", Message: "Chapters reordered successfully"})
	})

	res, err := c.ReorderChapters(context.Background(), courseID, items)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, "Chapters reordered successfully", res.Message)
}

func TestMutationErrorResultIsNotTransportError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":"error","message":"Chapter not found in the course"}`))
	})

	res, err := c.DeleteChapter(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, "Chapter not found in the course", res.Message)
}

func TestMutationWithoutEnvelopeFails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"missing or invalid token","code":"unauthorized"}}`))
	})

	_, err := c.ReorderLessons(context.Background(), uuid.New(), uuid.New(), nil)
	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.HTTPStatusCode())
	assert.Equal(t, "unauthorized", he.Code)
	assert.Contains(t, he.Error(), "missing or invalid token")
}

func TestMutationHonorsContextDeadline(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.ReorderChapters(ctx, uuid.New(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOutlineDecodesCourse(t *testing.T) {
	courseID := uuid.New()
	chapterID := uuid.New()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/courses/"+courseID.String()+"/structure", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"course": services.CourseOutline{
			ID:       courseID,
			Title:    "Go",
			Chapters: []services.ChapterOutline{{ID: chapterID, Title: "Basics", Position: 1}},
		}})
	})

	out, err := c.Outline(context.Background(), courseID)
	require.NoError(t, err)
	require.Len(t, out.Chapters, 1)
	assert.Equal(t, chapterID, out.Chapters[0].ID)

	missing := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"message":"Course not found","code":"not_found"}}`))
	})
	_, err = missing.Outline(context.Background(), courseID)
	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "Course not found", he.Message)
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(logger.Nop(), Config{})
	require.Error(t, err)
}

type seenRequest struct {
	method string
	path   string
	body   map[string]any
}

func recordingClient(t *testing.T, message string, seen *[]seenRequest) Client {
	t.Helper()
	return newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		*seen = append(*seen, seenRequest{method: r.Method, path: r.URL.Path, body: body})
		_ = json.NewEncoder(w).Encode(services.Result{Status: "success", Message: message})
	})
}

func TestCreateChapterAndLessonPaths(t *testing.T) {
	var seen []seenRequest
	c := recordingClient(t, "created", &seen)
	courseID, chapterID := uuid.New(), uuid.New()

	res, err := c.CreateChapter(context.Background(), courseID, "Generics")
	require.NoError(t, err)
	assert.True(t, res.OK())
	_, err = c.CreateLesson(context.Background(), services.CreateLessonRequest{
		CourseID:  courseID,
		ChapterID: chapterID,
		Title:     "Constraints",
		Metadata:  datatypes.JSON(`{"minutes":7}`),
	})
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, http.MethodPost, seen[0].method)
	assert.Equal(t, "/api/courses/"+courseID.String()+"/chapters", seen[0].path)
	assert.Equal(t, map[string]any{"title": "Generics"}, seen[0].body)
	assert.Equal(t, "/api/chapters/"+chapterID.String()+"/lessons", seen[1].path)
	assert.Equal(t, courseID.String(), seen[1].body["courseID"])
	assert.Equal(t, "Constraints", seen[1].body["title"])
	assert.Equal(t, map[string]any{"minutes": float64(7)}, seen[1].body["metadata"])
}

func TestDeleteAndUpdatePaths(t *testing.T) {
	var seen []seenRequest
	c := recordingClient(t, "done", &seen)
	courseID, chapterID, lessonID := uuid.New(), uuid.New(), uuid.New()
	ctx := context.Background()

	_, err := c.DeleteChapter(ctx, courseID, chapterID)
	require.NoError(t, err)
	_, err = c.DeleteLesson(ctx, courseID, chapterID, lessonID)
	require.NoError(t, err)
	res, err := c.UpdateCourse(ctx, services.UpdateCourseRequest{CourseID: courseID, Title: "Renamed", Status: "Archived"})
	require.NoError(t, err)
	assert.Equal(t, "done", res.Message)

	require.Len(t, seen, 3)
	assert.Equal(t, http.MethodDelete, seen[0].method)
	assert.Equal(t, "/api/courses/"+courseID.String()+"/chapters/"+chapterID.String(), seen[0].path)
	assert.Equal(t, http.MethodDelete, seen[1].method)
	assert.Equal(t, "/api/courses/"+courseID.String()+"/chapters/"+chapterID.String()+"/lessons/"+lessonID.String(), seen[1].path)
	assert.Equal(t, http.MethodPatch, seen[2].method)
	assert.Equal(t, "/api/courses/"+courseID.String(), seen[2].path)
	assert.Equal(t, "Renamed", seen[2].body["title"])
	assert.Equal(t, "Archived", seen[2].body["status"])
}
