package db

import (
	"context"
	"database/sql"
)

// Default achievement catalog. Inserted once; existing names are left untouched
// so operators can tune thresholds without the seed overwriting them.
var defaultCatalog = []struct {
	ID, Name, Category, Tier, CriteriaType string
	Points, CriteriaValue                  float64
}{
	{"ach-first-steps", "First Steps", "participation", "bronze", "assessment_count", 10, 1},
	{"ach-good-start", "Good Start", "performance", "bronze", "average_marks", 20, 50},
	{"ach-rising-star", "Rising Star", "performance", "silver", "average_marks", 35, 70},
	{"ach-high-achiever", "High Achiever", "performance", "gold", "total_marks", 50, 85},
	{"ach-top-of-class", "Top of the Class", "performance", "platinum", "total_marks", 75, 95},
}

// SeedCatalog inserts the default achievements if they are not present.
func SeedCatalog(ctx context.Context, db *sql.DB) error {
	for _, a := range defaultCatalog {
		_, err := db.ExecContext(ctx, `
			INSERT INTO achievements (id, name, category, badge_tier, points_required, criteria_type, criteria_value, is_active)
			VALUES ($1,$2,$3,$4,$5,$6,$7,TRUE)
			ON CONFLICT (name) DO NOTHING`,
			a.ID, a.Name, a.Category, a.Tier, a.Points, a.CriteriaType, a.CriteriaValue)
		if err != nil {
			return err
		}
	}
	return nil
}
