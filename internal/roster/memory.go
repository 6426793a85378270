package roster

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu          sync.RWMutex
	enrollments map[string][]Student         // roomID -> students in enrollment order
	submissions map[string][]SubmissionGrade // roomID -> grades
	quizzes     map[string][]QuizGrade       // roomID -> grades
}

// NewInMemoryStore is used in tests and offline demos.
func NewInMemoryStore() Store {
	return &memoryStore{
		enrollments: map[string][]Student{},
		submissions: map[string][]SubmissionGrade{},
		quizzes:     map[string][]QuizGrade{},
	}
}

func (m *memoryStore) IsEnrolled(_ context.Context, roomID, studentID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, st := range m.enrollments[roomID] {
		if st.ID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryStore) ListStudents(_ context.Context, roomID string) ([]Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Student, len(m.enrollments[roomID]))
	copy(out, m.enrollments[roomID])
	return out, nil
}

func (m *memoryStore) Enroll(_ context.Context, roomID, studentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, st := range m.enrollments[roomID] {
		if st.ID == studentID {
			return nil
		}
	}
	m.enrollments[roomID] = append(m.enrollments[roomID], Student{ID: studentID, Username: studentID})
	return nil
}

func (m *memoryStore) ListGradedSubmissions(_ context.Context, roomID, studentID string) ([]SubmissionGrade, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []SubmissionGrade{}
	for _, g := range m.submissions[roomID] {
		if !g.IsGraded {
			continue
		}
		if studentID != "" && g.StudentID != studentID {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (m *memoryStore) ListGradedQuizzes(_ context.Context, roomID, studentID string) ([]QuizGrade, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []QuizGrade{}
	for _, g := range m.quizzes[roomID] {
		if !g.IsGraded {
			continue
		}
		if studentID != "" && g.StudentID != studentID {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (m *memoryStore) PutSubmissionGrade(_ context.Context, g SubmissionGrade) error {
	if g.MaxMarks <= 0 {
		g.MaxMarks = 100
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.submissions[g.RoomID]
	for i, old := range list {
		if old.AssessmentID == g.AssessmentID && old.StudentID == g.StudentID {
			list[i] = g
			return nil
		}
	}
	m.submissions[g.RoomID] = append(list, g)
	return nil
}

func (m *memoryStore) PutQuizGrade(_ context.Context, g QuizGrade) error {
	if g.MaxMarks <= 0 {
		g.MaxMarks = DefaultQuizMaxMarks
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.quizzes[g.RoomID]
	for i, old := range list {
		if old.AssessmentID == g.AssessmentID && old.StudentID == g.StudentID {
			list[i] = g
			return nil
		}
	}
	m.quizzes[g.RoomID] = append(list, g)
	return nil
}
