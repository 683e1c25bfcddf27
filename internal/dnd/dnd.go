// Package dnd turns the end state of a drag gesture over a course outline
// into a reorder intent.
package dnd

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/coursecraft-backend/internal/ordering"
)

type Kind string

const (
	KindChapter Kind = "chapter"
	KindLesson  Kind = "lesson"
)

// ReasonCrossChapter is the rejection reason for a lesson dropped onto a
// lesson of another chapter.
const ReasonCrossChapter = "cross-chapter move not allowed"

// Item identifies a draggable or droppable node of the outline.
type Item struct {
	Kind Kind
	ID   uuid.UUID
}

// Gesture is the end state of a drag. Over is nil when the item was released
// outside any drop target.
type Gesture struct {
	Active Item
	Over   *Item
}

// ChapterSlot is one chapter of a Layout with its lessons in display order.
type ChapterSlot struct {
	ID      uuid.UUID
	Lessons []uuid.UUID
}

// Layout is the ordered outline a gesture is resolved against.
type Layout struct {
	Chapters []ChapterSlot
}

// Intent is the resolved outcome of a gesture. The concrete types are
// ChapterMove, LessonMove and Rejected.
type Intent interface {
	intent()
}

type ChapterMove struct {
	OldIndex int
	NewIndex int
}

type LessonMove struct {
	ChapterID uuid.UUID
	OldIndex  int
	NewIndex  int
}

type Rejected struct {
	Reason string
}

func (ChapterMove) intent() {}
func (LessonMove) intent()  {}
func (Rejected) intent()    {}

func (r Rejected) Error() string { return r.Reason }

// Resolve maps g onto layout. A nil Intent means the gesture changes nothing.
func Resolve(layout Layout, g Gesture) Intent {
	if g.Over == nil || g.Active.ID == g.Over.ID {
		return nil
	}
	switch g.Active.Kind {
	case KindChapter:
		return resolveChapter(layout, g.Active.ID, *g.Over)
	case KindLesson:
		return resolveLesson(layout, g.Active.ID, *g.Over)
	default:
		return Rejected{Reason: fmt.Sprintf("unsupported drag item kind %q", g.Active.Kind)}
	}
}

func resolveChapter(layout Layout, active uuid.UUID, over Item) Intent {
	from := layout.chapterIndex(active)
	if from < 0 {
		return Rejected{Reason: fmt.Sprintf("chapter %s not found", active)}
	}
	var to int
	switch over.Kind {
	case KindChapter:
		to = layout.chapterIndex(over.ID)
		if to < 0 {
			return Rejected{Reason: fmt.Sprintf("chapter %s not found", over.ID)}
		}
	case KindLesson:
		to, _ = layout.lessonOwner(over.ID)
		if to < 0 {
			return Rejected{Reason: fmt.Sprintf("lesson %s not found", over.ID)}
		}
	default:
		return nil
	}
	if from == to {
		return nil
	}
	return ChapterMove{OldIndex: from, NewIndex: to}
}

func resolveLesson(layout Layout, active uuid.UUID, over Item) Intent {
	if over.Kind != KindLesson {
		return nil
	}
	srcChapter, from := layout.lessonOwner(active)
	if srcChapter < 0 {
		return Rejected{Reason: fmt.Sprintf("lesson %s not found", active)}
	}
	dstChapter, to := layout.lessonOwner(over.ID)
	if dstChapter < 0 {
		return Rejected{Reason: fmt.Sprintf("lesson %s not found", over.ID)}
	}
	if srcChapter != dstChapter {
		return Rejected{Reason: ReasonCrossChapter}
	}
	if from == to {
		return nil
	}
	return LessonMove{ChapterID: layout.Chapters[srcChapter].ID, OldIndex: from, NewIndex: to}
}

func (l Layout) chapterIndex(id uuid.UUID) int {
	for i, c := range l.Chapters {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// lessonOwner returns the chapter index and lesson index of id, or -1, -1.
func (l Layout) lessonOwner(id uuid.UUID) (int, int) {
	for ci, c := range l.Chapters {
		for li, lid := range c.Lessons {
			if lid == id {
				return ci, li
			}
		}
	}
	return -1, -1
}

// ChapterIDs lists chapter ids in layout order.
func (l Layout) ChapterIDs() []uuid.UUID {
	out := make([]uuid.UUID, len(l.Chapters))
	for i, c := range l.Chapters {
		out[i] = c.ID
	}
	return out
}

// Clone deep-copies the layout.
func (l Layout) Clone() Layout {
	out := Layout{Chapters: make([]ChapterSlot, len(l.Chapters))}
	for i, c := range l.Chapters {
		out.Chapters[i] = ChapterSlot{ID: c.ID, Lessons: append([]uuid.UUID(nil), c.Lessons...)}
	}
	return out
}

// Apply returns a copy of layout with a move intent applied. Rejected intents
// come back as the error.
func Apply(layout Layout, in Intent) (Layout, error) {
	out := layout.Clone()
	switch v := in.(type) {
	case nil:
		return out, nil
	case Rejected:
		return layout, v
	case ChapterMove:
		moved, err := ordering.Move(out.Chapters, v.OldIndex, v.NewIndex)
		if err != nil {
			return layout, err
		}
		out.Chapters = moved
		return out, nil
	case LessonMove:
		ci := out.chapterIndex(v.ChapterID)
		if ci < 0 {
			return layout, fmt.Errorf("chapter %s not found", v.ChapterID)
		}
		moved, err := ordering.Move(out.Chapters[ci].Lessons, v.OldIndex, v.NewIndex)
		if err != nil {
			return layout, err
		}
		out.Chapters[ci].Lessons = moved
		return out, nil
	default:
		return layout, fmt.Errorf("unknown intent %T", in)
	}
}
