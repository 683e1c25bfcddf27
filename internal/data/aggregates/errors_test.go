package aggregates

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	domainagg "github.com/yungbote/coursecraft-backend/internal/domain/aggregates"
	"gorm.io/gorm"
)

func TestMapErrorCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domainagg.ErrorCode
	}{
		{"validation", ValidationError("title is required"), domainagg.CodeValidation},
		{"not found", NotFoundError("Course not found"), domainagg.CodeNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", NotFoundError("gone")), domainagg.CodeNotFound},
		{"invariant", InvariantError("gap"), domainagg.CodePersistence},
		{"conflict", ConflictError("stale"), domainagg.CodeConflict},
		{"retryable", RetryableError("busy"), domainagg.CodeRetryable},
		{"gorm not found", gorm.ErrRecordNotFound, domainagg.CodeNotFound},
		{"deadline", context.DeadlineExceeded, domainagg.CodeRetryable},
		{"pg unique", &pgconn.PgError{Code: "23505"}, domainagg.CodeConflict},
		{"pg deadlock", &pgconn.PgError{Code: "40P01"}, domainagg.CodeRetryable},
		{"sqlite unique", errors.New("UNIQUE constraint failed: chapter.course_id, chapter.position"), domainagg.CodeConflict},
		{"sqlite busy", errors.New("database is locked"), domainagg.CodeRetryable},
		{"other", errors.New("disk I/O error"), domainagg.CodePersistence},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapError("structure.test", tc.err)
			if !domainagg.IsCode(got, tc.want) {
				t.Fatalf("MapError(%v): want code %s, got %v", tc.err, tc.want, got)
			}
		})
	}
}

func TestMapErrorKeepsCallerMessage(t *testing.T) {
	err := MapError("structure.delete_chapter", NotFoundError("Chapter not found in the course"))
	if got := domainagg.MessageOf(err); got != "Chapter not found in the course" {
		t.Fatalf("MessageOf: got %q", got)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("mapped error must still match its sentinel")
	}
}

func TestMapErrorPassesThroughCodedErrors(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeUnauthorized, "op", "nope", nil)
	if got := MapError("other", in); got != in {
		t.Fatalf("coded error should pass through unchanged")
	}
	if MapError("op", nil) != nil {
		t.Fatalf("nil must map to nil")
	}
}
