package roster

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) IsEnrolled(ctx context.Context, roomID, studentID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM enrollments WHERE room_id=$1 AND student_id=$2`, roomID, studentID).
		Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLStore) ListStudents(ctx context.Context, roomID string) ([]Student, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.username, u.display_name
		FROM enrollments e
		JOIN users u ON u.id = e.student_id
		WHERE e.room_id=$1
		ORDER BY u.username`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Student{}
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.ID, &st.Username, &st.Name); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *SQLStore) Enroll(ctx context.Context, roomID, studentID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO enrollments (room_id, student_id, enrolled_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (room_id, student_id) DO NOTHING`,
		roomID, studentID, time.Now().Unix())
	return err
}

func (s *SQLStore) ListGradedSubmissions(ctx context.Context, roomID, studentID string) ([]SubmissionGrade, error) {
	q := `SELECT assessment_id, room_id, student_id, category, marks, max_marks, is_graded
	      FROM submission_grades WHERE room_id=$1 AND is_graded=TRUE`
	args := []any{roomID}
	if studentID != "" {
		q += ` AND student_id=$2`
		args = append(args, studentID)
	}
	rows, err := s.db.QueryContext(ctx, q+` ORDER BY assessment_id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []SubmissionGrade{}
	for rows.Next() {
		var g SubmissionGrade
		if err := rows.Scan(&g.AssessmentID, &g.RoomID, &g.StudentID, &g.Category, &g.Marks, &g.MaxMarks, &g.IsGraded); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListGradedQuizzes(ctx context.Context, roomID, studentID string) ([]QuizGrade, error) {
	q := `SELECT assessment_id, room_id, student_id, marks, max_marks, is_graded
	      FROM quiz_grades WHERE room_id=$1 AND is_graded=TRUE`
	args := []any{roomID}
	if studentID != "" {
		q += ` AND student_id=$2`
		args = append(args, studentID)
	}
	rows, err := s.db.QueryContext(ctx, q+` ORDER BY assessment_id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []QuizGrade{}
	for rows.Next() {
		var g QuizGrade
		if err := rows.Scan(&g.AssessmentID, &g.RoomID, &g.StudentID, &g.Marks, &g.MaxMarks, &g.IsGraded); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutSubmissionGrade(ctx context.Context, g SubmissionGrade) error {
	if g.MaxMarks <= 0 {
		g.MaxMarks = 100
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submission_grades (id, assessment_id, room_id, student_id, category, marks, max_marks, is_graded, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (assessment_id, student_id) DO UPDATE SET
			category=EXCLUDED.category,
			marks=EXCLUDED.marks,
			max_marks=EXCLUDED.max_marks,
			is_graded=EXCLUDED.is_graded,
			updated_at=EXCLUDED.updated_at`,
		uuid.NewString(), g.AssessmentID, g.RoomID, g.StudentID, string(g.Category), g.Marks, g.MaxMarks, g.IsGraded, time.Now().Unix())
	return err
}

func (s *SQLStore) PutQuizGrade(ctx context.Context, g QuizGrade) error {
	if g.MaxMarks <= 0 {
		g.MaxMarks = DefaultQuizMaxMarks
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quiz_grades (id, assessment_id, room_id, student_id, marks, max_marks, is_graded, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (assessment_id, student_id) DO UPDATE SET
			marks=EXCLUDED.marks,
			max_marks=EXCLUDED.max_marks,
			is_graded=EXCLUDED.is_graded,
			updated_at=EXCLUDED.updated_at`,
		uuid.NewString(), g.AssessmentID, g.RoomID, g.StudentID, g.Marks, g.MaxMarks, g.IsGraded, time.Now().Unix())
	return err
}
