package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/classforge/classforge-engine/internal/grades"
	"github.com/classforge/classforge-engine/internal/roster"
)

type submissionGradeReq struct {
	StudentID string  `json:"student_id"`
	Category  string  `json:"category"` // assignment | project
	Marks     float64 `json:"marks"`
	MaxMarks  float64 `json:"max_marks"`
}

// POST /rooms/{roomID}/submissions/{assessmentID}/grade
// Records a submission grade, then recomputes the student's aggregate.
func GradeSubmissionHandler(store roster.Store, svc *grades.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "roomID")
		assessmentID := chi.URLParam(r, "assessmentID")
		var req submissionGradeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.StudentID == "" {
			http.Error(w, "student_id required", http.StatusBadRequest)
			return
		}
		cat := roster.Category(req.Category)
		if cat != roster.CategoryAssignment && cat != roster.CategoryProject {
			http.Error(w, "category must be assignment or project", http.StatusBadRequest)
			return
		}
		g := roster.SubmissionGrade{
			AssessmentID: assessmentID,
			RoomID:       roomID,
			StudentID:    req.StudentID,
			Category:     cat,
			Marks:        req.Marks,
			MaxMarks:     req.MaxMarks,
			IsGraded:     true,
		}
		if err := store.PutSubmissionGrade(r.Context(), g); err != nil {
			http.Error(w, "store grade: "+err.Error(), http.StatusInternalServerError)
			return
		}
		rec, err := svc.Recompute(r.Context(), roomID, req.StudentID)
		if err != nil {
			writeGradeError(w, err)
			return
		}
		writeJSON(w, rec)
	}
}

type quizGradeReq struct {
	StudentID string  `json:"student_id"`
	Marks     float64 `json:"marks"`
	MaxMarks  float64 `json:"max_marks"`
}

// POST /rooms/{roomID}/quizzes/{assessmentID}/grade
func GradeQuizHandler(store roster.Store, svc *grades.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "roomID")
		assessmentID := chi.URLParam(r, "assessmentID")
		var req quizGradeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.StudentID == "" {
			http.Error(w, "student_id required", http.StatusBadRequest)
			return
		}
		g := roster.QuizGrade{
			AssessmentID: assessmentID,
			RoomID:       roomID,
			StudentID:    req.StudentID,
			Marks:        req.Marks,
			MaxMarks:     req.MaxMarks,
			IsGraded:     true,
		}
		if err := store.PutQuizGrade(r.Context(), g); err != nil {
			http.Error(w, "store grade: "+err.Error(), http.StatusInternalServerError)
			return
		}
		rec, err := svc.Recompute(r.Context(), roomID, req.StudentID)
		if err != nil {
			writeGradeError(w, err)
			return
		}
		writeJSON(w, rec)
	}
}

// POST /rooms/{roomID}/students  { "student_id": "..." }
func EnrollStudentHandler(store roster.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "roomID")
		var req struct {
			StudentID string `json:"student_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.StudentID == "" {
			http.Error(w, "student_id required", http.StatusBadRequest)
			return
		}
		if err := store.Enroll(r.Context(), roomID, req.StudentID); err != nil {
			http.Error(w, "enroll: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
