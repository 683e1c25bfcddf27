package aggregates

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	domainagg "github.com/yungbote/coursecraft-backend/internal/domain/aggregates"
	"gorm.io/gorm"
)

var (
	// ErrValidation indicates caller input validation failure.
	ErrValidation = errors.New("aggregate validation")
	// ErrNotFound indicates a referenced course, chapter or lesson is absent.
	ErrNotFound = errors.New("aggregate not found")
	// ErrInvariant indicates a sibling scope failed its post-write check.
	ErrInvariant = errors.New("aggregate invariant violation")
	// ErrConflict indicates a concurrency conflict.
	ErrConflict = errors.New("aggregate conflict")
	// ErrRetryable indicates transient retryable failure.
	ErrRetryable = errors.New("aggregate retryable")
)

// tagged carries a caller-facing message and matches its kind sentinel with
// errors.Is.
type tagged struct {
	kind error
	msg  string
}

func (e *tagged) Error() string { return e.msg }

func (e *tagged) Is(target error) bool { return target == e.kind }

func tag(kind error, format string, args ...any) error {
	msg := strings.TrimSpace(format)
	if len(args) > 0 {
		msg = strings.TrimSpace(fmt.Sprintf(format, args...))
	}
	return &tagged{kind: kind, msg: msg}
}

// ValidationError tags an error as validation failure.
func ValidationError(format string, args ...any) error { return tag(ErrValidation, format, args...) }

// NotFoundError tags an error as a missing reference.
func NotFoundError(format string, args ...any) error { return tag(ErrNotFound, format, args...) }

// InvariantError tags an error as invariant violation.
func InvariantError(format string, args ...any) error { return tag(ErrInvariant, format, args...) }

// ConflictError tags an error as conflict failure.
func ConflictError(format string, args ...any) error { return tag(ErrConflict, format, args...) }

// RetryableError tags an error as retryable failure.
func RetryableError(format string, args ...any) error { return tag(ErrRetryable, format, args...) }

// MapError maps infrastructure/domain failures into aggregate error codes.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var aggErr *domainagg.Error
	if errors.As(err, &aggErr) {
		return err
	}
	switch {
	case errors.Is(err, ErrValidation):
		return domainagg.Wrap(domainagg.CodeValidation, op, err)
	case errors.Is(err, ErrNotFound):
		return domainagg.Wrap(domainagg.CodeNotFound, op, err)
	case errors.Is(err, ErrInvariant):
		return domainagg.Wrap(domainagg.CodePersistence, op, err)
	case errors.Is(err, ErrConflict):
		return domainagg.Wrap(domainagg.CodeConflict, op, err)
	case errors.Is(err, ErrRetryable):
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainagg.Wrap(domainagg.CodeNotFound, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return domainagg.Wrap(domainagg.CodeConflict, op, err) // unique_violation
		case "40001", "40P01", "55P03":
			return domainagg.Wrap(domainagg.CodeRetryable, op, err) // serialization/deadlock/lock_not_available
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "unique constraint failed"),
		strings.Contains(msg, "already exists"):
		return domainagg.Wrap(domainagg.CodeConflict, op, err)
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "serialization"),
		strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "temporar"):
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	default:
		return domainagg.Wrap(domainagg.CodePersistence, op, err)
	}
}
