package achievements

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/classforge/classforge-engine/internal/grades"
)

// legacyTotalScale is the denominator the average_marks criterion divides
// total marks by. The aggregator's total is on a 0-100 scale, so values
// above 60 evaluate past 100%. Inherited from an earlier max-total of 60;
// kept as-is for catalog compatibility. Do not change without product
// sign-off.
const legacyTotalScale = 60.0

// Evaluator walks the full active catalog on every invocation and awards
// whatever is newly satisfied. Criteria are independent thresholds, so a
// single update may unlock several tiers at once. Re-running with unchanged
// data is a no-op: existing awards make InsertIfAbsent decline.
type Evaluator struct {
	catalog Catalog
	awards  AwardStore
	now     func() time.Time
}

func NewEvaluator(catalog Catalog, awards AwardStore) *Evaluator {
	return &Evaluator{catalog: catalog, awards: awards, now: time.Now}
}

// Apply evaluates the catalog against rec and returns the newly created
// awards. A catalog read failure aborts before any award; a failed insert
// aborts the remainder and reports what was already granted.
func (e *Evaluator) Apply(ctx context.Context, rec grades.GradeRecord) ([]Award, error) {
	catalog, err := e.catalog.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load achievement catalog: %w", err)
	}

	var granted []Award
	for _, a := range catalog {
		met, value := criterionMet(a, rec)
		if !met {
			continue
		}
		aw := Award{
			ID:               uuid.NewString(),
			StudentID:        rec.StudentID,
			AchievementID:    a.ID,
			RoomID:           rec.RoomID,
			PointsEarned:     a.PointsRequired,
			CriteriaMetValue: grades.Round2(value),
			EarnedAt:         e.now(),
			AchievementName:  a.Name,
			BadgeTier:        a.BadgeTier,
		}
		inserted, err := e.awards.InsertIfAbsent(ctx, aw)
		if err != nil {
			return granted, fmt.Errorf("award %q: %w", a.Name, err)
		}
		if inserted {
			granted = append(granted, aw)
		}
	}
	return granted, nil
}

// Evaluate satisfies grades.Evaluator.
func (e *Evaluator) Evaluate(ctx context.Context, rec grades.GradeRecord) error {
	_, err := e.Apply(ctx, rec)
	return err
}

func criterionMet(a Achievement, rec grades.GradeRecord) (bool, float64) {
	switch a.CriteriaType {
	case CriteriaTotalMarks:
		return rec.TotalMarks >= a.CriteriaValue, rec.TotalMarks
	case CriteriaAverageMarks:
		v := rec.TotalMarks / legacyTotalScale * 100
		return v >= a.CriteriaValue, v
	case CriteriaAssessmentCount:
		// Presence, not a count: 1 when any assessment marks exist.
		var v float64
		if rec.AverageAssessmentMarks > 0 {
			v = 1
		}
		return v >= a.CriteriaValue, v
	default:
		// Unknown criteria: skip without error.
		return false, 0
	}
}
