package services

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/coursecraft-backend/internal/data/aggregates"
	"github.com/yungbote/coursecraft-backend/internal/data/repos"
	"github.com/yungbote/coursecraft-backend/internal/data/repos/testutil"
	"github.com/yungbote/coursecraft-backend/internal/domain"
	domainagg "github.com/yungbote/coursecraft-backend/internal/domain/aggregates"
	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
)

type stubAggregate struct {
	err   error
	calls int
}

var _ domainagg.StructureAggregate = (*stubAggregate)(nil)

func (s *stubAggregate) Contract() domainagg.Contract { return domainagg.StructureAggregateContract }

func (s *stubAggregate) CreateChapter(ctx context.Context, in domainagg.CreateChapterInput) (*domain.Chapter, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Chapter{ID: uuid.New(), CourseID: in.CourseID, Title: in.Title, Position: 1}, nil
}

func (s *stubAggregate) CreateLesson(ctx context.Context, in domainagg.CreateLessonInput) (*domain.Lesson, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Lesson{ID: uuid.New(), ChapterID: in.ChapterID, Title: in.Title, Position: 1}, nil
}

func (s *stubAggregate) DeleteChapter(context.Context, domainagg.DeleteChapterInput) error {
	s.calls++
	return s.err
}

func (s *stubAggregate) DeleteLesson(context.Context, domainagg.DeleteLessonInput) error {
	s.calls++
	return s.err
}

func (s *stubAggregate) ReorderChapters(context.Context, domainagg.ReorderInput) error {
	s.calls++
	return s.err
}

func (s *stubAggregate) ReorderLessons(context.Context, domainagg.ReorderInput) error {
	s.calls++
	return s.err
}

func (s *stubAggregate) DeleteCourse(context.Context, uuid.UUID) error {
	s.calls++
	return s.err
}

func (s *stubAggregate) UpdateCourse(_ context.Context, in domainagg.UpdateCourseInput) (*domain.Course, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Course{ID: in.CourseID, Title: in.Title, Description: in.Description, Status: in.Status, Metadata: in.Metadata}, nil
}

type refreshCall struct {
	CourseID uuid.UUID
	Scope    domain.Scope
}

type recordingRefresher struct {
	mu    sync.Mutex
	calls []refreshCall
}

func (r *recordingRefresher) CourseStructureChanged(_ context.Context, courseID uuid.UUID, scope domain.Scope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, refreshCall{CourseID: courseID, Scope: scope})
}

func TestCreateChapterValidatesTitle(t *testing.T) {
	cases := []struct {
		name    string
		title   string
		wantOK  bool
		wantMsg string
	}{
		{name: "ok", title: "Intro", wantOK: true, wantMsg: "Chapter created successfully"},
		{name: "trimmed_to_min", title: "  abc  ", wantOK: true, wantMsg: "Chapter created successfully"},
		{name: "blank", title: "   ", wantMsg: "Title is required"},
		{name: "too_short", title: "ab", wantMsg: "Title must be at least 3 characters long"},
		{name: "too_long", title: strings.Repeat("x", 101), wantMsg: "Title must be at most 100 characters long"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			agg := &stubAggregate{}
			ref := &recordingRefresher{}
			svc := NewStructureService(logger.Nop(), agg, nil, ref)

			res := svc.CreateChapter(context.Background(), CreateChapterRequest{CourseID: uuid.New(), Title: tc.title})
			if res.OK() != tc.wantOK || res.Message != tc.wantMsg {
				t.Fatalf("result=%+v, want ok=%v msg=%q", res, tc.wantOK, tc.wantMsg)
			}
			wantCalls := 0
			if tc.wantOK {
				wantCalls = 1
			}
			if agg.calls != wantCalls || len(ref.calls) != wantCalls {
				t.Fatalf("aggregate calls=%d refresh calls=%d, want %d", agg.calls, len(ref.calls), wantCalls)
			}
			if !tc.wantOK && res.Code != domainagg.CodeValidation {
				t.Fatalf("code=%s", res.Code)
			}
		})
	}
}

func TestCreateLessonRequiresIDs(t *testing.T) {
	agg := &stubAggregate{}
	svc := NewStructureService(logger.Nop(), agg, nil, nil)

	res := svc.CreateLesson(context.Background(), CreateLessonRequest{ChapterID: uuid.New(), Title: "Loops"})
	if res.OK() || res.Code != domainagg.CodeValidation {
		t.Fatalf("missing course id: %+v", res)
	}
	res = svc.CreateLesson(context.Background(), CreateLessonRequest{CourseID: uuid.New(), Title: "Loops"})
	if res.OK() || res.Code != domainagg.CodeValidation {
		t.Fatalf("missing chapter id: %+v", res)
	}
	if agg.calls != 0 {
		t.Fatalf("aggregate called on invalid input")
	}
	res = svc.CreateLesson(context.Background(), CreateLessonRequest{CourseID: uuid.New(), ChapterID: uuid.New(), Title: "Loops"})
	if !res.OK() || res.Message != "Lesson created successfully" {
		t.Fatalf("valid lesson: %+v", res)
	}
}

func TestFailuresBecomeErrorResults(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode domainagg.ErrorCode
		wantMsg  string
	}{
		{
			name:     "validation_keeps_message",
			err:      domainagg.NewError(domainagg.CodeValidation, "structure.reorder_chapters", "No chapters provided for reordering", nil),
			wantCode: domainagg.CodeValidation,
			wantMsg:  "No chapters provided for reordering",
		},
		{
			name:     "not_found_keeps_message",
			err:      domainagg.NewError(domainagg.CodeNotFound, "structure.reorder_chapters", "Course not found", nil),
			wantCode: domainagg.CodeNotFound,
			wantMsg:  "Course not found",
		},
		{
			name:     "persistence_is_generic",
			err:      domainagg.NewError(domainagg.CodePersistence, "structure.reorder_chapters", "disk I/O error", nil),
			wantCode: domainagg.CodePersistence,
			wantMsg:  "Failed to reorder chapters",
		},
		{
			name:     "conflict_is_generic",
			err:      domainagg.NewError(domainagg.CodeConflict, "structure.reorder_chapters", "duplicate key", nil),
			wantCode: domainagg.CodeConflict,
			wantMsg:  "Failed to reorder chapters",
		},
		{
			name:     "uncoded_is_persistence",
			err:      errors.New("boom"),
			wantCode: domainagg.CodePersistence,
			wantMsg:  "Failed to reorder chapters",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ref := &recordingRefresher{}
			svc := NewStructureService(logger.Nop(), &stubAggregate{err: tc.err}, nil, ref)
			res := svc.ReorderChapters(context.Background(), uuid.New(), []domainagg.PositionUpdate{{ID: uuid.New(), Position: 1}})
			if res.Status != StatusError || res.Code != tc.wantCode || res.Message != tc.wantMsg {
				t.Fatalf("result=%+v, want code=%s msg=%q", res, tc.wantCode, tc.wantMsg)
			}
			if len(ref.calls) != 0 {
				t.Fatalf("refresh emitted after failure")
			}
		})
	}
}

func TestSuccessMessagesAndRefreshScopes(t *testing.T) {
	ctx := context.Background()
	courseID, chapterID, lessonID := uuid.New(), uuid.New(), uuid.New()
	ref := &recordingRefresher{}
	svc := NewStructureService(logger.Nop(), &stubAggregate{}, nil, ref)

	steps := []struct {
		res   Result
		msg   string
		scope domain.Scope
	}{
		{svc.DeleteChapter(ctx, courseID, chapterID), "Chapter deleted successfully", domain.ScopeChapters},
		{svc.DeleteLesson(ctx, courseID, chapterID, lessonID), "Lesson deleted successfully", domain.ScopeLessons},
		{svc.ReorderChapters(ctx, courseID, nil), "Chapters reordered successfully", domain.ScopeChapters},
		{svc.ReorderLessons(ctx, courseID, chapterID, nil), "Lessons reordered successfully", domain.ScopeLessons},
		{svc.DeleteCourse(ctx, courseID), "Course deleted successfully", domain.ScopeCourse},
	}
	if len(ref.calls) != len(steps) {
		t.Fatalf("refresh calls=%d, want %d", len(ref.calls), len(steps))
	}
	for i, st := range steps {
		if !st.res.OK() || st.res.Message != st.msg {
			t.Fatalf("step %d: %+v, want %q", i, st.res, st.msg)
		}
		if ref.calls[i].CourseID != courseID || ref.calls[i].Scope != st.scope {
			t.Fatalf("step %d refresh: %+v", i, ref.calls[i])
		}
	}
}

type storeFixture struct {
	db        *gorm.DB
	ctx       context.Context
	rs        repos.Set
	structure StructureService
	courses   CourseService
}

func newStoreFixture(t *testing.T, ref Refresher) storeFixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	rs := repos.NewSet(db, log)
	agg := aggregates.NewStructureAggregate(aggregates.StructureAggregateDeps{
		BaseDeps:    aggregates.BaseDeps{DB: db, Log: log},
		Courses:     rs.Course,
		Chapters:    rs.Chapter,
		Lessons:     rs.Lesson,
		Enrollments: rs.Enrollment,
		Progress:    rs.LessonProgress,
	})
	return storeFixture{
		db:        db,
		ctx:       context.Background(),
		rs:        rs,
		structure: NewStructureService(log, agg, NewValidator(), ref),
		courses:   NewCourseService(log, rs),
	}
}

func TestStructureServiceAgainstStore(t *testing.T) {
	ref := &recordingRefresher{}
	f := newStoreFixture(t, ref)
	course := testutil.SeedCourse(t, f.ctx, f.db).ID

	var ids []uuid.UUID
	for _, title := range []string{"Alpha", "Bravo", "Charlie"} {
		res := f.structure.CreateChapter(f.ctx, CreateChapterRequest{CourseID: course, Title: title})
		if !res.OK() {
			t.Fatalf("CreateChapter %s: %+v", title, res)
		}
		ids = append(ids, res.Data.(*domain.Chapter).ID)
	}

	res := f.structure.ReorderChapters(f.ctx, course, []domainagg.PositionUpdate{{ID: ids[2], Position: 1}, {ID: ids[0], Position: 2}, {ID: ids[1], Position: 3}})
	if !res.OK() {
		t.Fatalf("ReorderChapters: %+v", res)
	}
	out, err := f.courses.Outline(f.ctx, course)
	if err != nil {
		t.Fatalf("Outline: %v", err)
	}
	var got []string
	for _, ch := range out.Chapters {
		got = append(got, ch.Title)
	}
	if strings.Join(got, ",") != "Charlie,Alpha,Bravo" {
		t.Fatalf("outline order: %v", got)
	}

	res = f.structure.ReorderChapters(f.ctx, course, []domainagg.PositionUpdate{{ID: ids[0]}, {ID: ids[1]}})
	if res.OK() || res.Code != domainagg.CodeValidation {
		t.Fatalf("partial reorder: %+v", res)
	}

	res = f.structure.DeleteChapter(f.ctx, course, ids[2])
	if !res.OK() {
		t.Fatalf("DeleteChapter: %+v", res)
	}
	pos := testutil.ChapterPositions(t, f.ctx, f.db, course)
	if pos[ids[0]] != 1 || pos[ids[1]] != 2 {
		t.Fatalf("positions after delete: %v", pos)
	}
	if len(ref.calls) != 5 {
		t.Fatalf("refresh calls: %d", len(ref.calls))
	}
}

func TestOutlineMissingCourse(t *testing.T) {
	f := newStoreFixture(t, nil)
	_, err := f.courses.Outline(f.ctx, uuid.New())
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestUpdateCourseValidatesInput(t *testing.T) {
	cases := []struct {
		name    string
		req     UpdateCourseRequest
		wantOK  bool
		wantMsg string
	}{
		{name: "ok", req: UpdateCourseRequest{Title: "Go in practice", Status: domain.CourseStatusPublished}, wantOK: true, wantMsg: "Course updated successfully"},
		{name: "null_metadata", req: UpdateCourseRequest{Title: "Go in practice", Metadata: datatypes.JSON("null")}, wantOK: true, wantMsg: "Course updated successfully"},
		{name: "too_short", req: UpdateCourseRequest{Title: " Go "}, wantMsg: "Title must be at least 3 characters long"},
		{name: "too_long", req: UpdateCourseRequest{Title: strings.Repeat("x", 101)}, wantMsg: "Title must be at most 100 characters long"},
		{name: "bad_status", req: UpdateCourseRequest{Title: "Go in practice", Status: "Live"}, wantMsg: "Status is invalid"},
		{name: "array_metadata", req: UpdateCourseRequest{Title: "Go in practice", Metadata: datatypes.JSON(`[1,2]`)}, wantMsg: "Metadata must be a JSON object"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			agg := &stubAggregate{}
			ref := &recordingRefresher{}
			svc := NewStructureService(logger.Nop(), agg, nil, ref)
			tc.req.CourseID = uuid.New()

			res := svc.UpdateCourse(context.Background(), tc.req)
			if res.OK() != tc.wantOK || res.Message != tc.wantMsg {
				t.Fatalf("result=%+v, want ok=%v msg=%q", res, tc.wantOK, tc.wantMsg)
			}
			if tc.wantOK {
				if agg.calls != 1 || len(ref.calls) != 1 || ref.calls[0].Scope != domain.ScopeCourse {
					t.Fatalf("calls=%d refresh=%+v", agg.calls, ref.calls)
				}
				if c := res.Data.(*domain.Course); c.Metadata != nil && tc.name == "null_metadata" {
					t.Fatalf("null metadata should be dropped, got %s", c.Metadata)
				}
				return
			}
			if agg.calls != 0 || res.Code != domainagg.CodeValidation {
				t.Fatalf("invalid input reached aggregate: calls=%d code=%s", agg.calls, res.Code)
			}
		})
	}
}

func TestUpdateCourseAndLessonMetadataAgainstStore(t *testing.T) {
	f := newStoreFixture(t, nil)
	course := testutil.SeedCourse(t, f.ctx, f.db)
	ch := testutil.SeedChapter(t, f.ctx, f.db, course.ID, 1)

	res := f.structure.UpdateCourse(f.ctx, UpdateCourseRequest{
		CourseID:    course.ID,
		Title:       "Concurrency in Go",
		Description: "Goroutines and channels",
		Status:      domain.CourseStatusPublished,
		Metadata:    datatypes.JSON(`{"level":"advanced"}`),
	})
	if !res.OK() {
		t.Fatalf("UpdateCourse: %+v", res)
	}
	res = f.structure.CreateLesson(f.ctx, CreateLessonRequest{
		CourseID:  course.ID,
		ChapterID: ch.ID,
		Title:     "Select",
		Metadata:  datatypes.JSON(` {"minutes": 12} `),
	})
	if !res.OK() {
		t.Fatalf("CreateLesson: %+v", res)
	}
	res = f.structure.CreateLesson(f.ctx, CreateLessonRequest{
		CourseID:  course.ID,
		ChapterID: ch.ID,
		Title:     "Broken",
		Metadata:  datatypes.JSON(`"text"`),
	})
	if res.OK() || res.Message != "Metadata must be a JSON object" {
		t.Fatalf("non-object metadata: %+v", res)
	}

	out, err := f.courses.Outline(f.ctx, course.ID)
	if err != nil {
		t.Fatalf("Outline: %v", err)
	}
	if out.Title != "Concurrency in Go" || out.Description != "Goroutines and channels" || out.Status != domain.CourseStatusPublished {
		t.Fatalf("course fields: %+v", out)
	}
	requireJSON(t, out.Metadata, `{"level":"advanced"}`)
	if len(out.Chapters) != 1 || len(out.Chapters[0].Lessons) != 1 {
		t.Fatalf("outline shape: %+v", out.Chapters)
	}
	requireJSON(t, out.Chapters[0].Lessons[0].Metadata, `{"minutes":12}`)

	// Omitted status and metadata keep what is stored.
	res = f.structure.UpdateCourse(f.ctx, UpdateCourseRequest{CourseID: course.ID, Title: "Concurrency"})
	if !res.OK() {
		t.Fatalf("second UpdateCourse: %+v", res)
	}
	out, err = f.courses.Outline(f.ctx, course.ID)
	if err != nil {
		t.Fatalf("Outline: %v", err)
	}
	if out.Title != "Concurrency" || out.Description != "" || out.Status != domain.CourseStatusPublished {
		t.Fatalf("partial update: %+v", out)
	}
	requireJSON(t, out.Metadata, `{"level":"advanced"}`)

	res = f.structure.UpdateCourse(f.ctx, UpdateCourseRequest{CourseID: uuid.New(), Title: "Nowhere"})
	if res.OK() || res.Code != domainagg.CodeNotFound || res.Message != "Course not found" {
		t.Fatalf("missing course: %+v", res)
	}
}

func requireJSON(t *testing.T, got datatypes.JSON, want string) {
	t.Helper()
	var g, w any
	if err := json.Unmarshal(got, &g); err != nil {
		t.Fatalf("decode %s: %v", got, err)
	}
	if err := json.Unmarshal([]byte(want), &w); err != nil {
		t.Fatalf("decode %s: %v", want, err)
	}
	if !reflect.DeepEqual(g, w) {
		t.Fatalf("json: got %s want %s", got, want)
	}
}
