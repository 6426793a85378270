package achievements

import (
	"context"
	"database/sql"
	"time"
)

// SQLCatalog reads active achievements from the achievements table.
type SQLCatalog struct {
	db *sql.DB
}

func NewSQLCatalog(db *sql.DB) *SQLCatalog { return &SQLCatalog{db: db} }

func (c *SQLCatalog) ListActive(ctx context.Context) ([]Achievement, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, name, category, badge_tier, points_required, criteria_type, criteria_value, is_active
		FROM achievements WHERE is_active=TRUE ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Achievement{}
	for rows.Next() {
		var a Achievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Category, &a.BadgeTier, &a.PointsRequired,
			&a.CriteriaType, &a.CriteriaValue, &a.IsActive); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SQLAwardStore persists awards with the (student, achievement, room)
// uniqueness constraint doing the at-most-once work.
type SQLAwardStore struct {
	db *sql.DB
}

func NewSQLAwardStore(db *sql.DB) *SQLAwardStore { return &SQLAwardStore{db: db} }

func (s *SQLAwardStore) InsertIfAbsent(ctx context.Context, a Award) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO achievement_awards (id, student_id, achievement_id, room_id, points_earned, criteria_met_value, earned_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (student_id, achievement_id, room_id) DO NOTHING`,
		a.ID, a.StudentID, a.AchievementID, a.RoomID, a.PointsEarned, a.CriteriaMetValue, a.EarnedAt.Unix())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLAwardStore) ListByRoom(ctx context.Context, roomID string) ([]Award, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT aw.id, aw.student_id, aw.achievement_id, aw.room_id, aw.points_earned, aw.criteria_met_value, aw.earned_at,
		       a.name, a.badge_tier
		FROM achievement_awards aw
		JOIN achievements a ON a.id = aw.achievement_id
		WHERE aw.room_id=$1
		ORDER BY aw.earned_at, aw.id`, roomID)
	if err != nil {
		return nil, err
	}
	return scanAwards(rows)
}

func (s *SQLAwardStore) ListByStudent(ctx context.Context, studentID string) ([]Award, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT aw.id, aw.student_id, aw.achievement_id, aw.room_id, aw.points_earned, aw.criteria_met_value, aw.earned_at,
		       a.name, a.badge_tier
		FROM achievement_awards aw
		JOIN achievements a ON a.id = aw.achievement_id
		WHERE aw.student_id=$1
		ORDER BY aw.earned_at DESC, aw.id DESC`, studentID)
	if err != nil {
		return nil, err
	}
	return scanAwards(rows)
}

func scanAwards(rows *sql.Rows) ([]Award, error) {
	defer rows.Close()
	out := []Award{}
	for rows.Next() {
		var aw Award
		var earned int64
		if err := rows.Scan(&aw.ID, &aw.StudentID, &aw.AchievementID, &aw.RoomID,
			&aw.PointsEarned, &aw.CriteriaMetValue, &earned, &aw.AchievementName, &aw.BadgeTier); err != nil {
			return nil, err
		}
		aw.EarnedAt = time.Unix(earned, 0)
		out = append(out, aw)
	}
	return out, rows.Err()
}
