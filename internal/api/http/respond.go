package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/classforge/classforge-engine/internal/grades"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeGradeError maps the engine's error taxonomy onto status codes.
func writeGradeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, grades.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, grades.ErrNotEnrolled), errors.Is(err, grades.ErrInvalidMarks):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
