package grades

import (
	"time"

	"github.com/classforge/classforge-engine/internal/roster"
)

// Scale constants for the room total: 40% assessments + mid-term + final = 100.
const (
	AssessmentWeightRatio = 0.40
	MaxMidTermMarks       = 25.0
	MaxFinalMarks         = 35.0
)

// GradeRecord is the persisted aggregate grade state for one student in one
// room. At most one record exists per (room, student).
type GradeRecord struct {
	RoomID                 string    `json:"room_id"`
	StudentID              string    `json:"student_id"`
	MidTermMarks           *float64  `json:"mid_term_marks"`
	FinalMarks             *float64  `json:"final_marks"`
	AverageAssessmentMarks float64   `json:"average_assessment_marks"`
	TotalMarks             float64   `json:"total_marks"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// ExamMarks is the write payload for a mid-term/final update. A nil field
// leaves the stored value unchanged.
type ExamMarks struct {
	MidTermMarks *float64 `json:"mid_term_marks"`
	FinalMarks   *float64 `json:"final_marks"`
}

type CategoryAverages struct {
	Assignments float64 `json:"assignments"`
	Projects    float64 `json:"projects"`
	Quizzes     float64 `json:"quizzes"`
}

// AssessmentMark is one graded item expressed as a percentage, for the
// on-demand grade views.
type AssessmentMark struct {
	AssessmentID string  `json:"assessment_id"`
	Category     string  `json:"category"` // assignment | project | quiz
	Marks        float64 `json:"marks"`
	MaxMarks     float64 `json:"max_marks"`
	Percentage   float64 `json:"percentage"`
}

// StudentGrades is the computed-on-demand grade view for one student.
type StudentGrades struct {
	Student         roster.Student   `json:"student"`
	AssessmentMarks []AssessmentMark `json:"assessment_marks"`
	Averages        CategoryAverages `json:"averages"`
	OverallAverage  float64          `json:"overall_average"`
	MidTermMarks    *float64         `json:"mid_term_marks"`
	FinalMarks      *float64         `json:"final_marks"`
	TotalMarks      float64          `json:"total_marks"`
}
