package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/classforge/classforge-engine/internal/achievements"
)

// GET /rooms/{roomID}/standings
func RoomStandingsHandler(rep *achievements.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "roomID")
		out, err := rep.RoomStandings(r.Context(), roomID)
		if err != nil {
			http.Error(w, "standings: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, out)
	}
}

// GET /students/{studentID}/progress
func StudentProgressHandler(rep *achievements.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID := chi.URLParam(r, "studentID")
		out, err := rep.StudentProgress(r.Context(), studentID)
		if err != nil {
			http.Error(w, "progress: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, out)
	}
}
