package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/classforge/classforge-engine/internal/grades"
)

// PUT /rooms/{roomID}/students/{studentID}/exam-marks
func UpsertExamMarksHandler(svc *grades.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "roomID")
		studentID := chi.URLParam(r, "studentID")
		var req grades.ExamMarks
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		rec, err := svc.UpsertExamMarks(r.Context(), roomID, studentID, req)
		if err != nil {
			writeGradeError(w, err)
			return
		}
		writeJSON(w, rec)
	}
}

// GET /rooms/{roomID}/grades
func RoomGradesHandler(svc *grades.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "roomID")
		out, err := svc.RoomGrades(r.Context(), roomID)
		if err != nil {
			writeGradeError(w, err)
			return
		}
		writeJSON(w, out)
	}
}

// GET /rooms/{roomID}/students/{studentID}/grades
func StudentGradesHandler(svc *grades.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "roomID")
		studentID := chi.URLParam(r, "studentID")
		out, err := svc.StudentGrades(r.Context(), roomID, studentID)
		if err != nil {
			writeGradeError(w, err)
			return
		}
		writeJSON(w, out)
	}
}
