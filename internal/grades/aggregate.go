package grades

import (
	"math"

	"github.com/classforge/classforge-engine/internal/roster"
)

// Aggregate is the result of one reproducible total-score computation.
type Aggregate struct {
	Averages         CategoryAverages
	OverallAverage   float64 // flat mean over every graded item, 0..100
	AssessmentWeight float64 // OverallAverage * 0.40, 0..40
	TotalMarks       float64 // AssessmentWeight + mid + final, 0..100
}

// ComputeAggregate combines graded items and exam marks into a total score.
// It is pure: same inputs, same output, no hidden state. Aggregates are
// always recomputed from source data, never incrementally updated.
//
// Every graded item counts equally in the overall average regardless of how
// populated its category bucket is. Empty buckets average to 0 and a student
// with no graded items at all gets OverallAverage 0, so the total degrades to
// mid + final.
func ComputeAggregate(subs []roster.SubmissionGrade, quizzes []roster.QuizGrade, mid, final *float64) Aggregate {
	var assignments, projects, quizPcts, all []float64
	for _, g := range subs {
		p := percentage(g.Marks, g.MaxMarks)
		switch g.Category {
		case roster.CategoryProject:
			projects = append(projects, p)
		default:
			assignments = append(assignments, p)
		}
		all = append(all, p)
	}
	for _, g := range quizzes {
		p := percentage(g.Marks, g.MaxMarks)
		quizPcts = append(quizPcts, p)
		all = append(all, p)
	}

	overall := mean(all)
	weight := overall * AssessmentWeightRatio

	total := weight
	if mid != nil {
		total += *mid
	}
	if final != nil {
		total += *final
	}

	return Aggregate{
		Averages: CategoryAverages{
			Assignments: Round2(mean(assignments)),
			Projects:    Round2(mean(projects)),
			Quizzes:     Round2(mean(quizPcts)),
		},
		OverallAverage:   overall,
		AssessmentWeight: weight,
		TotalMarks:       total,
	}
}

func percentage(marks, maxMarks float64) float64 {
	if maxMarks <= 0 {
		return 0
	}
	return marks / maxMarks * 100
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// Round2 rounds to 2 decimal places for storage and display. Intermediate
// computation keeps full precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
