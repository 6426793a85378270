package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/classforge/classforge-engine/internal/achievements"
	api "github.com/classforge/classforge-engine/internal/api/http"
	auth "github.com/classforge/classforge-engine/internal/auth/middleware"
	"github.com/classforge/classforge-engine/internal/config"
	"github.com/classforge/classforge-engine/internal/db"
	"github.com/classforge/classforge-engine/internal/grades"
	"github.com/classforge/classforge-engine/internal/rbac"
	"github.com/classforge/classforge-engine/internal/roster"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	if cfg.SeedCatalog {
		if err := db.SeedCatalog(ctx, dbh); err != nil {
			log.Fatalf("seed achievement catalog: %v", err)
		}
	}

	// Bootstrap admin for first login.
	if _, err := dbh.ExecContext(ctx, `
		INSERT INTO users (id, username, display_name, role, password_hash)
		VALUES ($1,$1,'Administrator','admin',$2)
		ON CONFLICT (username) DO NOTHING`,
		cfg.AdminUser, cfg.AdminPassHash); err != nil {
		log.Fatalf("bootstrap admin user: %v", err)
	}

	// --- Stores & services ---
	rosterStore := roster.NewSQLStore(dbh)
	recordStore := grades.NewSQLStore(dbh)
	awardStore := achievements.NewSQLAwardStore(dbh)
	catalog := achievements.NewSQLCatalog(dbh)

	evaluator := achievements.NewEvaluator(catalog, awardStore)
	gradeSvc := grades.NewService(rosterStore, rosterStore, recordStore, evaluator)
	reporter := achievements.NewReporter(awardStore, rosterStore)

	// --- Auth (local JWT for offline/dev) ---
	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))
	}

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Exam marks (teacher)
		pr.With(rbac.Require("grades:write")).
			Put("/rooms/{roomID}/students/{studentID}/exam-marks", api.UpsertExamMarksHandler(gradeSvc))

		// Grading entry points (teacher)
		pr.With(rbac.Require("submission:grade")).
			Post("/rooms/{roomID}/submissions/{assessmentID}/grade", api.GradeSubmissionHandler(rosterStore, gradeSvc))
		pr.With(rbac.Require("quiz:grade")).
			Post("/rooms/{roomID}/quizzes/{assessmentID}/grade", api.GradeQuizHandler(rosterStore, gradeSvc))

		// Grade views
		pr.With(rbac.Require("grades:view-all")).
			Get("/rooms/{roomID}/grades", api.RoomGradesHandler(gradeSvc))
		pr.With(rbac.RequireAny("grades:view-own", "grades:view-all")).
			Get("/rooms/{roomID}/students/{studentID}/grades", api.StudentGradesHandler(gradeSvc))

		// Standings / progress
		pr.With(rbac.Require("standings:view")).
			Get("/rooms/{roomID}/standings", api.RoomStandingsHandler(reporter))
		pr.With(rbac.RequireAny("progress:view-own", "progress:view-all")).
			Get("/students/{studentID}/progress", api.StudentProgressHandler(reporter))

		// Roster / users admin
		pr.With(rbac.Require("roster:enroll")).
			Post("/rooms/{roomID}/students", api.EnrollStudentHandler(rosterStore))
		pr.With(rbac.Require("users:bulk_upsert")).
			Post("/users/bulk", api.BulkUpsertUsersHandler(dbh))
		pr.With(rbac.Require("users:list")).
			Get("/users", api.ListUsersHandler(dbh))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
