package http

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/classforge/classforge-engine/internal/achievements"
	"github.com/classforge/classforge-engine/internal/grades"
	"github.com/classforge/classforge-engine/internal/roster"
)

func newTestRouter(t *testing.T) (chi.Router, roster.Store, achievements.AwardStore) {
	t.Helper()
	rosterStore := roster.NewInMemoryStore()
	if err := rosterStore.Enroll(context.Background(), "room-1", "s1"); err != nil {
		t.Fatal(err)
	}

	awardStore := achievements.NewInMemoryAwardStore()
	catalog := &achievements.StaticCatalog{Achievements: []achievements.Achievement{
		{ID: "ach-good-start", Name: "Good Start", BadgeTier: achievements.TierBronze,
			PointsRequired: 20, CriteriaType: achievements.CriteriaAverageMarks, CriteriaValue: 50, IsActive: true},
	}}
	evaluator := achievements.NewEvaluator(catalog, awardStore)
	svc := grades.NewService(rosterStore, rosterStore, grades.NewInMemoryStore(), evaluator)
	reporter := achievements.NewReporter(awardStore, rosterStore)

	r := chi.NewRouter()
	r.Put("/rooms/{roomID}/students/{studentID}/exam-marks", UpsertExamMarksHandler(svc))
	r.Get("/rooms/{roomID}/students/{studentID}/grades", StudentGradesHandler(svc))
	r.Get("/rooms/{roomID}/standings", RoomStandingsHandler(reporter))
	r.Post("/rooms/{roomID}/quizzes/{assessmentID}/grade", GradeQuizHandler(rosterStore, svc))
	return r, rosterStore, awardStore
}

func doJSON(t *testing.T, r chi.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpsertExamMarksEndpoint(t *testing.T) {
	r, _, awards := newTestRouter(t)

	w := doJSON(t, r, nethttp.MethodPut, "/rooms/room-1/students/s1/exam-marks",
		`{"mid_term_marks": 20, "final_marks": 32}`)
	if w.Code != nethttp.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var rec grades.GradeRecord
	if err := json.NewDecoder(w.Body).Decode(&rec); err != nil {
		t.Fatal(err)
	}
	if rec.TotalMarks != 52 {
		t.Fatalf("total = %v, want 52 with no graded items", rec.TotalMarks)
	}

	// total 52 is 86.67 on the legacy /60 basis: Good Start fires.
	got, err := awards.ListByRoom(context.Background(), "room-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].AchievementName != "Good Start" {
		t.Fatalf("awards after update = %+v, want Good Start", got)
	}
}

func TestUpsertExamMarksEndpointErrors(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doJSON(t, r, nethttp.MethodPut, "/rooms/room-1/students/s1/exam-marks",
		`{"mid_term_marks": 26}`)
	if w.Code != nethttp.StatusBadRequest {
		t.Fatalf("out-of-range marks: status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "mid_term_marks") {
		t.Fatalf("response should name the field: %s", w.Body.String())
	}

	w = doJSON(t, r, nethttp.MethodPut, "/rooms/room-1/students/stranger/exam-marks",
		`{"mid_term_marks": 10}`)
	if w.Code != nethttp.StatusBadRequest {
		t.Fatalf("unenrolled student: status = %d, want 400", w.Code)
	}

	w = doJSON(t, r, nethttp.MethodGet, "/rooms/room-1/students/stranger/grades", "")
	if w.Code != nethttp.StatusNotFound {
		t.Fatalf("unknown student grades: status = %d, want 404", w.Code)
	}
}

func TestQuizGradeEndpointRecomputes(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doJSON(t, r, nethttp.MethodPost, "/rooms/room-1/quizzes/quiz-1/grade",
		`{"student_id": "s1", "marks": 15, "max_marks": 15}`)
	if w.Code != nethttp.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var rec grades.GradeRecord
	if err := json.NewDecoder(w.Body).Decode(&rec); err != nil {
		t.Fatal(err)
	}
	if rec.AverageAssessmentMarks != 100 || rec.TotalMarks != 40 {
		t.Fatalf("recompute wrong: %+v", rec)
	}

	w = doJSON(t, r, nethttp.MethodGet, "/rooms/room-1/standings", "")
	if w.Code != nethttp.StatusOK {
		t.Fatalf("standings status = %d", w.Code)
	}
	var entries []achievements.StandingsEntry
	if err := json.NewDecoder(w.Body).Decode(&entries); err != nil {
		t.Fatal(err)
	}
	// 40 total is 66.67 on the legacy /60 basis: Good Start already earned.
	if len(entries) != 1 || entries[0].Student.ID != "s1" || entries[0].TotalPoints != 20 {
		t.Fatalf("standings = %+v", entries)
	}
}
