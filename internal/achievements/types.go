package achievements

import (
	"context"
	"time"
)

type BadgeTier string

const (
	TierBronze   BadgeTier = "bronze"
	TierSilver   BadgeTier = "silver"
	TierGold     BadgeTier = "gold"
	TierPlatinum BadgeTier = "platinum"
)

type CriteriaType string

const (
	CriteriaTotalMarks      CriteriaType = "total_marks"
	CriteriaAverageMarks    CriteriaType = "average_marks"
	CriteriaAssessmentCount CriteriaType = "assessment_count"
)

// Achievement is one catalog entry. The catalog is read-only at evaluation
// time; entries with unrecognized criteria types are skipped, not rejected,
// so the catalog can grow ahead of the engine.
type Achievement struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Category       string       `json:"category"`
	BadgeTier      BadgeTier    `json:"badge_tier"`
	PointsRequired float64      `json:"points_required"`
	CriteriaType   CriteriaType `json:"criteria_type"`
	CriteriaValue  float64      `json:"criteria_value"`
	IsActive       bool         `json:"is_active"`
}

// Award is one concrete grant: at most one exists per
// (student, achievement, room), and it is never mutated or deleted.
type Award struct {
	ID               string    `json:"id"`
	StudentID        string    `json:"student_id"`
	AchievementID    string    `json:"achievement_id"`
	RoomID           string    `json:"room_id"`
	PointsEarned     float64   `json:"points_earned"`
	CriteriaMetValue float64   `json:"criteria_met_value"`
	EarnedAt         time.Time `json:"earned_at"`

	// Joined from the catalog for reporting.
	AchievementName string    `json:"achievement_name"`
	BadgeTier       BadgeTier `json:"badge_tier"`
}

type Catalog interface {
	ListActive(ctx context.Context) ([]Achievement, error)
}

// AwardStore persists awards. InsertIfAbsent is the one place needing a true
// atomicity guarantee: a conditional insert against the
// (student, achievement, room) uniqueness constraint, never check-then-insert.
type AwardStore interface {
	InsertIfAbsent(ctx context.Context, a Award) (bool, error)
	ListByRoom(ctx context.Context, roomID string) ([]Award, error)
	// ListByStudent returns awards most recent first.
	ListByStudent(ctx context.Context, studentID string) ([]Award, error)
}
