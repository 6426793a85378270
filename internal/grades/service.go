package grades

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/classforge/classforge-engine/internal/roster"
)

// Evaluator is notified with the freshly written record after every
// successful upsert. Implementations must treat failures as their own
// problem: the Service logs and moves on, the grade write stands.
type Evaluator interface {
	Evaluate(ctx context.Context, rec GradeRecord) error
}

// Service runs the aggregation pipeline: validate, read graded items,
// compute, upsert the grade record, then evaluate achievements.
type Service struct {
	items   roster.Source
	members roster.Roster
	records Store
	eval    Evaluator // optional
}

func NewService(items roster.Source, members roster.Roster, records Store, eval Evaluator) *Service {
	return &Service{items: items, members: members, records: records, eval: eval}
}

// UpsertExamMarks validates and stores mid-term/final marks, recomputes the
// aggregate and returns the updated record. A nil field in marks leaves the
// stored value unchanged. Nothing is written on validation failure.
func (s *Service) UpsertExamMarks(ctx context.Context, roomID, studentID string, marks ExamMarks) (GradeRecord, error) {
	if m := marks.MidTermMarks; m != nil && (*m < 0 || *m > MaxMidTermMarks) {
		return GradeRecord{}, fmt.Errorf("mid_term_marks must be between 0 and %g: %w", MaxMidTermMarks, ErrInvalidMarks)
	}
	if f := marks.FinalMarks; f != nil && (*f < 0 || *f > MaxFinalMarks) {
		return GradeRecord{}, fmt.Errorf("final_marks must be between 0 and %g: %w", MaxFinalMarks, ErrInvalidMarks)
	}

	enrolled, err := s.members.IsEnrolled(ctx, roomID, studentID)
	if err != nil {
		return GradeRecord{}, fmt.Errorf("enrollment check: %w", err)
	}
	if !enrolled {
		return GradeRecord{}, fmt.Errorf("student %s in room %s: %w", studentID, roomID, ErrNotEnrolled)
	}

	mid, final, err := s.storedExamMarks(ctx, roomID, studentID)
	if err != nil {
		return GradeRecord{}, err
	}
	if marks.MidTermMarks != nil {
		mid = marks.MidTermMarks
	}
	if marks.FinalMarks != nil {
		final = marks.FinalMarks
	}

	return s.aggregateAndStore(ctx, roomID, studentID, mid, final)
}

// Recompute reruns aggregation for a student keeping the stored exam marks.
// Grading entry points call this after a graded item changes.
func (s *Service) Recompute(ctx context.Context, roomID, studentID string) (GradeRecord, error) {
	enrolled, err := s.members.IsEnrolled(ctx, roomID, studentID)
	if err != nil {
		return GradeRecord{}, fmt.Errorf("enrollment check: %w", err)
	}
	if !enrolled {
		return GradeRecord{}, fmt.Errorf("student %s in room %s: %w", studentID, roomID, ErrNotEnrolled)
	}
	mid, final, err := s.storedExamMarks(ctx, roomID, studentID)
	if err != nil {
		return GradeRecord{}, err
	}
	return s.aggregateAndStore(ctx, roomID, studentID, mid, final)
}

func (s *Service) storedExamMarks(ctx context.Context, roomID, studentID string) (mid, final *float64, err error) {
	rec, err := s.records.Get(ctx, roomID, studentID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil, nil // first write creates the record
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load grade record: %w", err)
	}
	return rec.MidTermMarks, rec.FinalMarks, nil
}

func (s *Service) aggregateAndStore(ctx context.Context, roomID, studentID string, mid, final *float64) (GradeRecord, error) {
	subs, err := s.items.ListGradedSubmissions(ctx, roomID, studentID)
	if err != nil {
		return GradeRecord{}, fmt.Errorf("read submission grades: %w", ErrAggregation)
	}
	quizzes, err := s.items.ListGradedQuizzes(ctx, roomID, studentID)
	if err != nil {
		return GradeRecord{}, fmt.Errorf("read quiz grades: %w", ErrAggregation)
	}

	agg := ComputeAggregate(subs, quizzes, mid, final)
	rec := GradeRecord{
		RoomID:                 roomID,
		StudentID:              studentID,
		MidTermMarks:           mid,
		FinalMarks:             final,
		AverageAssessmentMarks: Round2(agg.OverallAverage),
		TotalMarks:             Round2(agg.TotalMarks),
	}
	saved, err := s.records.Upsert(ctx, rec)
	if err != nil {
		return GradeRecord{}, fmt.Errorf("upsert grade record: %w", err)
	}

	// Best-effort: awarding must never fail the grade write. The evaluator
	// sees the record we just wrote, not a re-read.
	if s.eval != nil {
		if err := s.eval.Evaluate(ctx, saved); err != nil {
			log.Printf("achievement evaluation for student=%s room=%s: %v", studentID, roomID, err)
		}
	}
	return saved, nil
}

// StudentGrades computes the grade view for one student on demand.
func (s *Service) StudentGrades(ctx context.Context, roomID, studentID string) (StudentGrades, error) {
	students, err := s.members.ListStudents(ctx, roomID)
	if err != nil {
		return StudentGrades{}, fmt.Errorf("list students: %w", err)
	}
	for _, st := range students {
		if st.ID == studentID {
			return s.studentView(ctx, roomID, st)
		}
	}
	return StudentGrades{}, fmt.Errorf("student %s in room %s: %w", studentID, roomID, ErrNotFound)
}

// RoomGrades computes the grade view for every enrolled student on demand.
func (s *Service) RoomGrades(ctx context.Context, roomID string) ([]StudentGrades, error) {
	students, err := s.members.ListStudents(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	out := make([]StudentGrades, 0, len(students))
	for _, st := range students {
		view, err := s.studentView(ctx, roomID, st)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *Service) studentView(ctx context.Context, roomID string, st roster.Student) (StudentGrades, error) {
	subs, err := s.items.ListGradedSubmissions(ctx, roomID, st.ID)
	if err != nil {
		return StudentGrades{}, fmt.Errorf("read submission grades: %w", ErrAggregation)
	}
	quizzes, err := s.items.ListGradedQuizzes(ctx, roomID, st.ID)
	if err != nil {
		return StudentGrades{}, fmt.Errorf("read quiz grades: %w", ErrAggregation)
	}

	var mid, final *float64
	rec, err := s.records.Get(ctx, roomID, st.ID)
	switch {
	case err == nil:
		mid, final = rec.MidTermMarks, rec.FinalMarks
	case errors.Is(err, ErrNotFound):
		// no exam marks yet
	default:
		return StudentGrades{}, fmt.Errorf("load grade record: %w", err)
	}

	agg := ComputeAggregate(subs, quizzes, mid, final)

	items := make([]AssessmentMark, 0, len(subs)+len(quizzes))
	for _, g := range subs {
		items = append(items, AssessmentMark{
			AssessmentID: g.AssessmentID,
			Category:     string(g.Category),
			Marks:        g.Marks,
			MaxMarks:     g.MaxMarks,
			Percentage:   Round2(percentage(g.Marks, g.MaxMarks)),
		})
	}
	for _, g := range quizzes {
		items = append(items, AssessmentMark{
			AssessmentID: g.AssessmentID,
			Category:     "quiz",
			Marks:        g.Marks,
			MaxMarks:     g.MaxMarks,
			Percentage:   Round2(percentage(g.Marks, g.MaxMarks)),
		})
	}

	return StudentGrades{
		Student:         st,
		AssessmentMarks: items,
		Averages:        agg.Averages,
		OverallAverage:  Round2(agg.OverallAverage),
		MidTermMarks:    mid,
		FinalMarks:      final,
		TotalMarks:      Round2(agg.TotalMarks),
	}, nil
}
