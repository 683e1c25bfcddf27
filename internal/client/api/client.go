package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/coursecraft-backend/internal/domain/aggregates"
	"github.com/yungbote/coursecraft-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursecraft-backend/internal/platform/envutil"
	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
	"github.com/yungbote/coursecraft-backend/internal/services"
)

// Client talks to the course structure HTTP API. Mutations return the
// server's result envelope; err is set only when no envelope was received.
type Client interface {
	CreateChapter(ctx context.Context, courseID uuid.UUID, title string) (services.Result, error)
	CreateLesson(ctx context.Context, req services.CreateLessonRequest) (services.Result, error)
	DeleteChapter(ctx context.Context, courseID, chapterID uuid.UUID) (services.Result, error)
	DeleteLesson(ctx context.Context, courseID, chapterID, lessonID uuid.UUID) (services.Result, error)
	UpdateCourse(ctx context.Context, req services.UpdateCourseRequest) (services.Result, error)
	ReorderChapters(ctx context.Context, courseID uuid.UUID, items []domainagg.PositionUpdate) (services.Result, error)
	ReorderLessons(ctx context.Context, courseID, chapterID uuid.UUID, items []domainagg.PositionUpdate) (services.Result, error)
	Outline(ctx context.Context, courseID uuid.UUID) (*services.CourseOutline, error)
}

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		BaseURL: envutil.String("COURSE_API_BASE_URL", "http://localhost:8080"),
		Token:   envutil.String("COURSE_API_TOKEN", ""),
		Timeout: envutil.Duration("COURSE_API_TIMEOUT", 15*time.Second),
	}
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("missing base url")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &client{
		log:        log.With("client", "CourseAPIClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

type HTTPError struct {
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "course api: <nil error>"
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = strings.TrimSpace(e.Body)
	}
	if msg == "" {
		msg = "<empty body>"
	}
	if len(msg) > 4000 {
		msg = msg[:4000] + "..."
	}
	return fmt.Sprintf("course api http %d: %s", e.StatusCode, msg)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

type reorderBody struct {
	Items []domainagg.PositionUpdate `json:"items"`
}

func (c *client) CreateChapter(ctx context.Context, courseID uuid.UUID, title string) (services.Result, error) {
	body := map[string]string{"title": title}
	return c.mutate(ctx, http.MethodPost, "/api/courses/"+courseID.String()+"/chapters", body)
}

func (c *client) CreateLesson(ctx context.Context, req services.CreateLessonRequest) (services.Result, error) {
	return c.mutate(ctx, http.MethodPost, "/api/chapters/"+req.ChapterID.String()+"/lessons", req)
}

func (c *client) DeleteChapter(ctx context.Context, courseID, chapterID uuid.UUID) (services.Result, error) {
	return c.mutate(ctx, http.MethodDelete, "/api/courses/"+courseID.String()+"/chapters/"+chapterID.String(), nil)
}

func (c *client) DeleteLesson(ctx context.Context, courseID, chapterID, lessonID uuid.UUID) (services.Result, error) {
	path := fmt.Sprintf("/api/courses/%s/chapters/%s/lessons/%s", courseID, chapterID, lessonID)
	return c.mutate(ctx, http.MethodDelete, path, nil)
}

func (c *client) UpdateCourse(ctx context.Context, req services.UpdateCourseRequest) (services.Result, error) {
	return c.mutate(ctx, http.MethodPatch, "/api/courses/"+req.CourseID.String(), req)
}

func (c *client) ReorderChapters(ctx context.Context, courseID uuid.UUID, items []domainagg.PositionUpdate) (services.Result, error) {
	return c.mutate(ctx, http.MethodPut, "/api/courses/"+courseID.String()+"/chapters/order", reorderBody{Items: items})
}

func (c *client) ReorderLessons(ctx context.Context, courseID, chapterID uuid.UUID, items []domainagg.PositionUpdate) (services.Result, error) {
	path := fmt.Sprintf("/api/courses/%s/chapters/%s/lessons/order", courseID, chapterID)
	return c.mutate(ctx, http.MethodPut, path, reorderBody{Items: items})
}

func (c *client) Outline(ctx context.Context, courseID uuid.UUID) (*services.CourseOutline, error) {
	status, raw, err := c.doOnce(ctx, http.MethodGet, "/api/courses/"+courseID.String()+"/structure", nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, envelopeError(status, raw)
	}
	var out struct {
		Course *services.CourseOutline `json:"course"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode outline: %w", err)
	}
	if out.Course == nil {
		return nil, fmt.Errorf("decode outline: missing course")
	}
	return out.Course, nil
}

// mutate sends one structure mutation. Mutations are never retried: a
// repeated reorder is harmless but a repeated create is not.
func (c *client) mutate(ctx context.Context, method, path string, body any) (services.Result, error) {
	status, raw, err := c.doOnce(ctx, method, path, body)
	if err != nil {
		c.log.Warn("course api request failed", "method", method, "path", path, "error", err)
		return services.Result{}, err
	}
	var res services.Result
	if jerr := json.Unmarshal(raw, &res); jerr != nil || res.Status == "" {
		return services.Result{}, envelopeError(status, raw)
	}
	if !res.OK() {
		c.log.Debug("course api mutation rejected", "method", method, "path", path, "status", status, "message", res.Message)
	}
	return res, nil
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) (int, []byte, error) {
	ctx = ctxutil.Default(ctx)
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, &buf)
	if err != nil {
		return 0, nil, err
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	req.Header.Set("Content-Type", "application/json")
	if td := ctxutil.GetTraceData(ctx); td != nil && td.RequestID != "" {
		req.Header.Set("X-Request-ID", td.RequestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp.StatusCode, nil, readErr
	}
	return resp.StatusCode, raw, nil
}

// envelopeError decodes whichever error body the server sent: a result
// envelope, an {"error":{...}} envelope, or plain text.
func envelopeError(status int, raw []byte) error {
	he := &HTTPError{StatusCode: status, Body: string(raw)}
	var env struct {
		Message string `json:"message"`
		Error   *struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	if json.Unmarshal(raw, &env) == nil {
		if env.Error != nil {
			he.Message, he.Code = env.Error.Message, env.Error.Code
		} else {
			he.Message = env.Message
		}
	}
	return he
}
