package response

import (
	"errors"
	"net/http"

	domainagg "github.com/yungbote/coursecraft-backend/internal/domain/aggregates"
	"github.com/yungbote/coursecraft-backend/internal/platform/apierr"
)

// StatusFor maps an aggregate error code to its HTTP status.
func StatusFor(code domainagg.ErrorCode) int {
	switch code {
	case "":
		return http.StatusOK
	case domainagg.CodeValidation:
		return http.StatusBadRequest
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodeUnauthorized:
		return http.StatusUnauthorized
	case domainagg.CodeConflict:
		return http.StatusConflict
	case domainagg.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// classify resolves the status, code and caller-facing message of err.
// Store failures never leak their driver message.
func classify(err error) (int, string, string) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae.Status, ae.Code, ae.Error()
	}
	code := domainagg.CodeOf(err)
	if code == "" {
		code = domainagg.CodePersistence
	}
	msg := domainagg.MessageOf(err)
	if domainagg.IsPersistence(err) || code == domainagg.CodePersistence {
		msg = "internal error"
	}
	return StatusFor(code), string(code), msg
}
