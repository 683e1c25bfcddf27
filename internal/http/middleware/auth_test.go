package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/coursecraft-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
	"github.com/yungbote/coursecraft-backend/internal/services"
)

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth, err := services.NewAuthService(logger.Nop(), "secret", "")
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	admin, _ := auth.IssueToken(uuid.New(), services.RoleAdmin, time.Minute)
	learner, _ := auth.IssueToken(uuid.New(), services.RoleLearner, time.Minute)

	am := NewAuthMiddleware(logger.Nop(), auth)
	r := gin.New()
	r.PUT("/admin", am.RequireRole(services.RoleAdmin), func(c *gin.Context) {
		actor := ctxutil.GetActor(c.Request.Context())
		c.String(http.StatusOK, actor.Role)
	})
	r.GET("/me", am.RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, ctxutil.GetActor(c.Request.Context()).UserID.String())
	})

	cases := []struct {
		name   string
		method string
		path   string
		header string
		want   int
	}{
		{"admin_allowed", http.MethodPut, "/admin", "Bearer " + admin, http.StatusOK},
		{"learner_forbidden", http.MethodPut, "/admin", "Bearer " + learner, http.StatusForbidden},
		{"missing_token", http.MethodPut, "/admin", "", http.StatusUnauthorized},
		{"bad_token", http.MethodPut, "/admin", "Bearer nope", http.StatusUnauthorized},
		{"learner_authenticated", http.MethodGet, "/me", "Bearer " + learner, http.StatusOK},
		{"query_token", http.MethodGet, "/me?token=" + learner, "", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status: got=%d want=%d body=%s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestAttachTraceContextEchoesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var seen *ctxutil.TraceData
	r.GET("/", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-Id") != "req-123" {
		t.Fatalf("request id header: %q", rec.Header().Get("X-Request-Id"))
	}
	if seen == nil || seen.RequestID != "req-123" || seen.TraceID == "" {
		t.Fatalf("trace data: %+v", seen)
	}
}

func TestRequestTimeoutSetsDeadline(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestTimeout(time.Second))
	r.GET("/", func(c *gin.Context) {
		if _, ok := c.Request.Context().Deadline(); !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("deadline missing")
	}
}
