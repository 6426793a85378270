package grades

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// Upsert inserts or updates the single record for (room, student). The
// UNIQUE (room_id, student_id) constraint plus ON CONFLICT makes this an
// atomic find-or-create: two concurrent writers can never produce two rows.
func (s *SQLStore) Upsert(ctx context.Context, rec GradeRecord) (GradeRecord, error) {
	rec.UpdatedAt = time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO grade_records (id, room_id, student_id, mid_term_marks, final_marks, average_assessment_marks, total_marks, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (room_id, student_id) DO UPDATE SET
			mid_term_marks=EXCLUDED.mid_term_marks,
			final_marks=EXCLUDED.final_marks,
			average_assessment_marks=EXCLUDED.average_assessment_marks,
			total_marks=EXCLUDED.total_marks,
			updated_at=EXCLUDED.updated_at`,
		uuid.NewString(), rec.RoomID, rec.StudentID,
		rec.MidTermMarks, rec.FinalMarks,
		rec.AverageAssessmentMarks, rec.TotalMarks, rec.UpdatedAt.Unix())
	if err != nil {
		return GradeRecord{}, err
	}
	return rec, nil
}

func (s *SQLStore) Get(ctx context.Context, roomID, studentID string) (GradeRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT room_id, student_id, mid_term_marks, final_marks, average_assessment_marks, total_marks, updated_at
		FROM grade_records WHERE room_id=$1 AND student_id=$2`, roomID, studentID)
	var rec GradeRecord
	var updated int64
	err := row.Scan(&rec.RoomID, &rec.StudentID, &rec.MidTermMarks, &rec.FinalMarks,
		&rec.AverageAssessmentMarks, &rec.TotalMarks, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return GradeRecord{}, ErrNotFound
	}
	if err != nil {
		return GradeRecord{}, err
	}
	rec.UpdatedAt = time.Unix(updated, 0)
	return rec, nil
}
