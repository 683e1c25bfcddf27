package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/coursecraft-backend/internal/data/repos/testutil"
	"github.com/yungbote/coursecraft-backend/internal/services"
)

func TestNewWiresSQLiteStack(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "app.db"))
	t.Setenv("JWT_SECRET_KEY", "app-test-secret")
	t.Setenv("LOG_MODE", "development")

	a, err := New(context.Background())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	assert.Nil(t, a.clients.SSEBus, "no bus without REDIS_ADDR")
	require.NotNil(t, a.Metrics)

	course := testutil.SeedCourse(t, context.Background(), a.DB)
	token, err := a.Services.Auth.IssueToken(uuid.New(), services.RoleAdmin, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/courses/"+course.ID.String()+"/chapters", strings.NewReader(`{"title":"Getting started"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Chapter created successfully")

	rec = httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "structure.create_chapter")
}

func TestRunStopsOnCancel(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "run.db"))
	t.Setenv("PORT", "0")

	a, err := New(context.Background())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
