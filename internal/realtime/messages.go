package realtime

import "github.com/google/uuid"

type SSEEvent string

const (
	SSEEventCourseStructureChanged SSEEvent = "CourseStructureChanged"
	SSEEventLessonProgressChanged  SSEEvent = "LessonProgressChanged"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

// CourseChannel is the channel editors of one course subscribe to.
func CourseChannel(courseID uuid.UUID) string {
	return "course:" + courseID.String()
}

// UserChannel carries events private to one user.
func UserChannel(userID uuid.UUID) string {
	return "user:" + userID.String()
}
