package roster

import "context"

type Category string

const (
	CategoryAssignment Category = "assignment"
	CategoryProject    Category = "project"
)

// DefaultQuizMaxMarks is used when a quiz grade is recorded without a max.
const DefaultQuizMaxMarks = 15

// SubmissionGrade is one graded file submission (assignment or project).
type SubmissionGrade struct {
	AssessmentID string   `json:"assessment_id"`
	RoomID       string   `json:"room_id"`
	StudentID    string   `json:"student_id"`
	Category     Category `json:"category"`
	Marks        float64  `json:"marks"`
	MaxMarks     float64  `json:"max_marks"`
	IsGraded     bool     `json:"is_graded"`
}

// QuizGrade is one auto- or teacher-scored quiz result.
type QuizGrade struct {
	AssessmentID string  `json:"assessment_id"`
	RoomID       string  `json:"room_id"`
	StudentID    string  `json:"student_id"`
	Marks        float64 `json:"marks"`
	MaxMarks     float64 `json:"max_marks"`
	IsGraded     bool    `json:"is_graded"`
}

type Student struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

// Source exposes the read collections of graded items for a room.
// studentID narrows to one student; empty means the whole room.
// Only items with IsGraded=true are returned.
type Source interface {
	ListGradedSubmissions(ctx context.Context, roomID, studentID string) ([]SubmissionGrade, error)
	ListGradedQuizzes(ctx context.Context, roomID, studentID string) ([]QuizGrade, error)
}

// Roster answers membership questions for a room.
type Roster interface {
	IsEnrolled(ctx context.Context, roomID, studentID string) (bool, error)
	ListStudents(ctx context.Context, roomID string) ([]Student, error)
}

// Store is the full roster surface: reads plus the grading entry points
// that record or update a graded item (upsert by assessment+student).
type Store interface {
	Source
	Roster
	Enroll(ctx context.Context, roomID, studentID string) error
	PutSubmissionGrade(ctx context.Context, g SubmissionGrade) error
	PutQuizGrade(ctx context.Context, g QuizGrade) error
}
