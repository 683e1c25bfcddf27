// Package domain holds the persisted course-structure models.
//
// A Course owns ordered Chapters; a Chapter owns ordered Lessons. Positions are
// 1-based and contiguous within each parent scope at rest.
package domain

const (
	CourseStatusDraft     = "Draft"
	CourseStatusPublished = "Published"
	CourseStatusArchived  = "Archived"

	EnrollmentStatusPending   = "Pending"
	EnrollmentStatusActive    = "Active"
	EnrollmentStatusCancelled = "Cancelled"
)

// Scope names a sibling scope for ordering operations.
type Scope string

const (
	ScopeChapters Scope = "chapters"
	ScopeLessons  Scope = "lessons"
	ScopeCourse   Scope = "course"
)
