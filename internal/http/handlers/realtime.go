package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/coursecraft-backend/internal/http/response"
	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
	"github.com/yungbote/coursecraft-backend/internal/realtime"
)

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.SSEHub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{
		log: log.With("handler", "RealtimeHandler"),
		hub: hub,
	}
}

// GET /api/sse/stream?course=<id>[&course=<id>...]
// Every stream listens on the caller's user channel plus one channel per
// requested course.
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	userID := actorID(c)
	if userID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var channels []string
	for _, raw := range c.QueryArray("course") {
		for _, part := range strings.Split(raw, ",") {
			id, err := uuid.Parse(strings.TrimSpace(part))
			if err != nil {
				response.RespondResult(c, invalidResult("Invalid course id"))
				return
			}
			channels = append(channels, realtime.CourseChannel(id))
		}
	}

	client := h.hub.NewSSEClient(userID)
	h.hub.AddChannel(client, realtime.UserChannel(userID))
	for _, ch := range channels {
		h.hub.AddChannel(client, ch)
	}
	h.log.Debug("SSE stream open", "user_id", userID.String(), "channels", len(channels)+1)

	h.hub.ServeHTTP(c.Writer, c.Request, client)
	h.hub.CloseClient(client)
}
