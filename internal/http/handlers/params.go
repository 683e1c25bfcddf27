package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/coursecraft-backend/internal/domain/aggregates"
	"github.com/yungbote/coursecraft-backend/internal/http/response"
	"github.com/yungbote/coursecraft-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursecraft-backend/internal/services"
)

// pathUUID parses a uuid path parameter and writes a validation result when
// it is malformed.
func pathUUID(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil || id == uuid.Nil {
		response.RespondResult(c, invalidResult("Invalid "+label+" id"))
		return uuid.Nil, false
	}
	return id, true
}

func invalidResult(message string) services.Result {
	return services.Result{Status: services.StatusError, Message: message, Code: domainagg.CodeValidation}
}

func actorID(c *gin.Context) uuid.UUID {
	if a := ctxutil.GetActor(c.Request.Context()); a != nil {
		return a.UserID
	}
	return uuid.Nil
}
