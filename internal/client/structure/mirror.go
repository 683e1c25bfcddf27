// Package structure keeps an editor-side mirror of one course outline and
// applies drag reorders to it optimistically.
package structure

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/coursecraft-backend/internal/dnd"
	domainagg "github.com/yungbote/coursecraft-backend/internal/domain/aggregates"
	"github.com/yungbote/coursecraft-backend/internal/ordering"
	"github.com/yungbote/coursecraft-backend/internal/services"
)

type LessonView struct {
	ID       uuid.UUID
	Title    string
	Position int
}

// ChapterView is a chapter row of the editor. Open is view state only.
type ChapterView struct {
	ID       uuid.UUID
	Title    string
	Position int
	Open     bool
	Lessons  []LessonView
}

// Mirror is the editor's provisional copy of a course outline.
type Mirror struct {
	CourseID uuid.UUID
	Chapters []ChapterView
}

// Clone deep-copies the mirror.
func (m Mirror) Clone() Mirror {
	out := Mirror{CourseID: m.CourseID, Chapters: make([]ChapterView, len(m.Chapters))}
	for i, ch := range m.Chapters {
		ch.Lessons = append([]LessonView(nil), ch.Lessons...)
		out.Chapters[i] = ch
	}
	return out
}

func (m Mirror) Layout() dnd.Layout {
	out := dnd.Layout{Chapters: make([]dnd.ChapterSlot, len(m.Chapters))}
	for i, ch := range m.Chapters {
		lessons := make([]uuid.UUID, len(ch.Lessons))
		for j, l := range ch.Lessons {
			lessons[j] = l.ID
		}
		out.Chapters[i] = dnd.ChapterSlot{ID: ch.ID, Lessons: lessons}
	}
	return out
}

func (m Mirror) chapterIndex(id uuid.UUID) int {
	for i, ch := range m.Chapters {
		if ch.ID == id {
			return i
		}
	}
	return -1
}

// openFlags collects the expand state of every chapter.
func (m Mirror) openFlags() map[uuid.UUID]bool {
	out := make(map[uuid.UUID]bool, len(m.Chapters))
	for _, ch := range m.Chapters {
		out[ch.ID] = ch.Open
	}
	return out
}

// FromOutline builds a mirror from a server outline. Chapters keep their
// flag from open when present and start expanded otherwise.
func FromOutline(o *services.CourseOutline, open map[uuid.UUID]bool) Mirror {
	if o == nil {
		return Mirror{}
	}
	out := Mirror{CourseID: o.ID, Chapters: make([]ChapterView, 0, len(o.Chapters))}
	for _, ch := range o.Chapters {
		isOpen, ok := open[ch.ID]
		if !ok {
			isOpen = true
		}
		view := ChapterView{ID: ch.ID, Title: ch.Title, Position: ch.Position, Open: isOpen}
		for _, l := range ch.Lessons {
			view.Lessons = append(view.Lessons, LessonView{ID: l.ID, Title: l.Title, Position: l.Position})
		}
		out.Chapters = append(out.Chapters, view)
	}
	return out
}

// apply returns a copy of m with a move intent applied and renumbered, plus
// the full (id, position) batch of the reordered scope.
func (m Mirror) apply(in dnd.Intent) (Mirror, []domainagg.PositionUpdate, error) {
	var scope []uuid.UUID
	switch v := in.(type) {
	case dnd.ChapterMove, dnd.LessonMove:
	default:
		return m, nil, fmt.Errorf("unsupported intent %T", v)
	}
	next, err := dnd.Apply(m.Layout(), in)
	if err != nil {
		return m, nil, err
	}

	out := m.Clone()
	switch v := in.(type) {
	case dnd.ChapterMove:
		scope = next.ChapterIDs()
		byID := make(map[uuid.UUID]ChapterView, len(out.Chapters))
		for _, ch := range out.Chapters {
			byID[ch.ID] = ch
		}
		for i, id := range scope {
			ch := byID[id]
			ch.Position = i + 1
			out.Chapters[i] = ch
		}
	case dnd.LessonMove:
		ci := out.chapterIndex(v.ChapterID)
		scope = next.Chapters[ci].Lessons
		byID := make(map[uuid.UUID]LessonView, len(scope))
		for _, l := range out.Chapters[ci].Lessons {
			byID[l.ID] = l
		}
		for i, id := range scope {
			l := byID[id]
			l.Position = i + 1
			out.Chapters[ci].Lessons[i] = l
		}
	}

	slots := ordering.Renumber(scope)
	batch := make([]domainagg.PositionUpdate, len(slots))
	for i, sl := range slots {
		batch[i] = domainagg.PositionUpdate{ID: sl.ID, Position: sl.Position}
	}
	return out, batch, nil
}
