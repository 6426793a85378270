package grades

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/classforge/classforge-engine/internal/roster"
)

/* ---------------- In-memory fakes ---------------- */

type fakeItems struct {
	subs    []roster.SubmissionGrade
	quizzes []roster.QuizGrade
	err     error
}

func (f *fakeItems) ListGradedSubmissions(_ context.Context, roomID, studentID string) ([]roster.SubmissionGrade, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []roster.SubmissionGrade{}
	for _, g := range f.subs {
		if g.RoomID == roomID && (studentID == "" || g.StudentID == studentID) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeItems) ListGradedQuizzes(_ context.Context, roomID, studentID string) ([]roster.QuizGrade, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []roster.QuizGrade{}
	for _, g := range f.quizzes {
		if g.RoomID == roomID && (studentID == "" || g.StudentID == studentID) {
			out = append(out, g)
		}
	}
	return out, nil
}

type fakeMembers struct {
	students map[string][]roster.Student // roomID -> students
}

func (f *fakeMembers) IsEnrolled(_ context.Context, roomID, studentID string) (bool, error) {
	for _, st := range f.students[roomID] {
		if st.ID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMembers) ListStudents(_ context.Context, roomID string) ([]roster.Student, error) {
	return f.students[roomID], nil
}

type fakeEvaluator struct {
	seen []GradeRecord
	err  error
}

func (f *fakeEvaluator) Evaluate(_ context.Context, rec GradeRecord) error {
	f.seen = append(f.seen, rec)
	return f.err
}

type countingStore struct {
	Store
	upserts int
}

func (c *countingStore) Upsert(ctx context.Context, rec GradeRecord) (GradeRecord, error) {
	c.upserts++
	return c.Store.Upsert(ctx, rec)
}

func roomItems(roomID, studentID string) *fakeItems {
	return &fakeItems{
		subs: []roster.SubmissionGrade{
			{AssessmentID: "a1", RoomID: roomID, StudentID: studentID, Category: roster.CategoryAssignment, Marks: 80, MaxMarks: 100, IsGraded: true},
			{AssessmentID: "a2", RoomID: roomID, StudentID: studentID, Category: roster.CategoryAssignment, Marks: 60, MaxMarks: 100, IsGraded: true},
		},
		quizzes: []roster.QuizGrade{
			{AssessmentID: "q1", RoomID: roomID, StudentID: studentID, Marks: 13.5, MaxMarks: 15, IsGraded: true},
		},
	}
}

func newTestService(items *fakeItems, eval Evaluator) (*Service, *countingStore) {
	members := &fakeMembers{students: map[string][]roster.Student{
		"room-1": {{ID: "s1", Username: "s1"}},
	}}
	records := &countingStore{Store: NewInMemoryStore()}
	return NewService(items, members, records, eval), records
}

/* ---------------- Exam-mark writes ---------------- */

func TestUpsertExamMarksRejectsOutOfRange(t *testing.T) {
	svc, records := newTestService(&fakeItems{}, nil)

	_, err := svc.UpsertExamMarks(context.Background(), "room-1", "s1", ExamMarks{MidTermMarks: fp(26)})
	if !errors.Is(err, ErrInvalidMarks) {
		t.Fatalf("want ErrInvalidMarks, got %v", err)
	}
	if !strings.Contains(err.Error(), "mid_term_marks") {
		t.Fatalf("error should name the field: %v", err)
	}

	_, err = svc.UpsertExamMarks(context.Background(), "room-1", "s1", ExamMarks{FinalMarks: fp(35.5)})
	if !errors.Is(err, ErrInvalidMarks) {
		t.Fatalf("want ErrInvalidMarks, got %v", err)
	}
	if !strings.Contains(err.Error(), "final_marks") {
		t.Fatalf("error should name the field: %v", err)
	}

	if records.upserts != 0 {
		t.Fatalf("rejected writes must not touch the store, saw %d upserts", records.upserts)
	}
}

func TestUpsertExamMarksNotEnrolled(t *testing.T) {
	svc, records := newTestService(&fakeItems{}, nil)
	_, err := svc.UpsertExamMarks(context.Background(), "room-1", "stranger", ExamMarks{MidTermMarks: fp(10)})
	if !errors.Is(err, ErrNotEnrolled) {
		t.Fatalf("want ErrNotEnrolled, got %v", err)
	}
	if records.upserts != 0 {
		t.Fatal("no write expected for unenrolled student")
	}
}

func TestUpsertExamMarksComputesAndStores(t *testing.T) {
	eval := &fakeEvaluator{}
	svc, _ := newTestService(roomItems("room-1", "s1"), eval)

	rec, err := svc.UpsertExamMarks(context.Background(), "room-1", "s1", ExamMarks{MidTermMarks: fp(20), FinalMarks: fp(30)})
	if err != nil {
		t.Fatal(err)
	}
	if rec.AverageAssessmentMarks != 76.67 {
		t.Fatalf("average = %v, want 76.67", rec.AverageAssessmentMarks)
	}
	if rec.TotalMarks != 80.67 {
		t.Fatalf("total = %v, want 80.67", rec.TotalMarks)
	}

	// The evaluator must see exactly the record that was written.
	if len(eval.seen) != 1 {
		t.Fatalf("evaluator invocations = %d, want 1", len(eval.seen))
	}
	if eval.seen[0].TotalMarks != rec.TotalMarks || eval.seen[0].StudentID != "s1" {
		t.Fatalf("evaluator saw %+v, want the upserted record", eval.seen[0])
	}
}

func TestUpsertExamMarksPartialUpdateKeepsStoredMarks(t *testing.T) {
	svc, records := newTestService(&fakeItems{}, nil)
	ctx := context.Background()

	if _, err := svc.UpsertExamMarks(ctx, "room-1", "s1", ExamMarks{MidTermMarks: fp(20)}); err != nil {
		t.Fatal(err)
	}
	rec, err := svc.UpsertExamMarks(ctx, "room-1", "s1", ExamMarks{FinalMarks: fp(30)})
	if err != nil {
		t.Fatal(err)
	}
	if rec.MidTermMarks == nil || *rec.MidTermMarks != 20 {
		t.Fatalf("mid-term marks lost on partial update: %+v", rec)
	}
	if rec.FinalMarks == nil || *rec.FinalMarks != 30 {
		t.Fatalf("final marks not stored: %+v", rec)
	}
	if rec.TotalMarks != 50 {
		t.Fatalf("total = %v, want 50 with no graded items", rec.TotalMarks)
	}

	// Still exactly one record for the pair.
	if _, err := records.Get(ctx, "room-1", "s1"); err != nil {
		t.Fatal(err)
	}
}

func TestEvaluatorFailureDoesNotFailWrite(t *testing.T) {
	eval := &fakeEvaluator{err: errors.New("catalog down")}
	svc, _ := newTestService(&fakeItems{}, eval)

	rec, err := svc.UpsertExamMarks(context.Background(), "room-1", "s1", ExamMarks{MidTermMarks: fp(10)})
	if err != nil {
		t.Fatalf("grade write must survive evaluator failure, got %v", err)
	}
	if rec.TotalMarks != 10 {
		t.Fatalf("total = %v, want 10", rec.TotalMarks)
	}
}

func TestAggregationFailureNoWrite(t *testing.T) {
	svc, records := newTestService(&fakeItems{err: errors.New("source down")}, nil)
	_, err := svc.UpsertExamMarks(context.Background(), "room-1", "s1", ExamMarks{MidTermMarks: fp(10)})
	if !errors.Is(err, ErrAggregation) {
		t.Fatalf("want ErrAggregation, got %v", err)
	}
	if records.upserts != 0 {
		t.Fatal("no write expected when graded items cannot be read")
	}
}

func TestRecomputeKeepsStoredExamMarks(t *testing.T) {
	items := &fakeItems{}
	svc, _ := newTestService(items, nil)
	ctx := context.Background()

	if _, err := svc.UpsertExamMarks(ctx, "room-1", "s1", ExamMarks{MidTermMarks: fp(20), FinalMarks: fp(30)}); err != nil {
		t.Fatal(err)
	}

	// A quiz gets graded afterwards; recompute folds it in.
	items.quizzes = append(items.quizzes, roster.QuizGrade{
		AssessmentID: "q1", RoomID: "room-1", StudentID: "s1", Marks: 15, MaxMarks: 15, IsGraded: true,
	})
	rec, err := svc.Recompute(ctx, "room-1", "s1")
	if err != nil {
		t.Fatal(err)
	}
	if rec.TotalMarks != 90 { // 100% * 0.40 + 20 + 30
		t.Fatalf("total = %v, want 90", rec.TotalMarks)
	}
	if rec.MidTermMarks == nil || *rec.MidTermMarks != 20 {
		t.Fatalf("recompute dropped stored mid-term marks: %+v", rec)
	}
}

/* ---------------- Read views ---------------- */

func TestStudentGradesView(t *testing.T) {
	svc, _ := newTestService(roomItems("room-1", "s1"), nil)
	ctx := context.Background()

	if _, err := svc.UpsertExamMarks(ctx, "room-1", "s1", ExamMarks{MidTermMarks: fp(20), FinalMarks: fp(30)}); err != nil {
		t.Fatal(err)
	}

	view, err := svc.StudentGrades(ctx, "room-1", "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(view.AssessmentMarks) != 3 {
		t.Fatalf("assessment marks = %d, want 3", len(view.AssessmentMarks))
	}
	if view.OverallAverage != 76.67 || view.TotalMarks != 80.67 {
		t.Fatalf("view averages wrong: overall=%v total=%v", view.OverallAverage, view.TotalMarks)
	}
	if view.Averages.Assignments != 70 || view.Averages.Quizzes != 90 || view.Averages.Projects != 0 {
		t.Fatalf("category averages wrong: %+v", view.Averages)
	}

	if _, err := svc.StudentGrades(ctx, "room-1", "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for unknown student, got %v", err)
	}
}

func TestRoomGradesOneEntryPerStudent(t *testing.T) {
	items := roomItems("room-1", "s1")
	members := &fakeMembers{students: map[string][]roster.Student{
		"room-1": {{ID: "s1", Username: "s1"}, {ID: "s2", Username: "s2"}},
	}}
	svc := NewService(items, members, NewInMemoryStore(), nil)

	out, err := svc.RoomGrades(context.Background(), "room-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("entries = %d, want one per enrolled student", len(out))
	}
	// s2 has no graded items and no exam marks: everything zero, no error.
	if out[1].OverallAverage != 0 || out[1].TotalMarks != 0 {
		t.Fatalf("empty student view should be zero: %+v", out[1])
	}
}
