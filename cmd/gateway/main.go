package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/quizdesk/quizdesk/internal/api/http"
	"github.com/quizdesk/quizdesk/internal/auth"
	"github.com/quizdesk/quizdesk/internal/config"
	"github.com/quizdesk/quizdesk/internal/db"
	"github.com/quizdesk/quizdesk/internal/eventlog"
	"github.com/quizdesk/quizdesk/internal/rbac"
	"github.com/quizdesk/quizdesk/internal/report"
	"github.com/quizdesk/quizdesk/internal/session"
	"github.com/quizdesk/quizdesk/internal/testbank"
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
	store := testbank.NewSQLStore(dbh)
	events := eventlog.NewRepo(dbh)
	sessions := session.NewManager(store, events)
	notifier := report.NewLogNotifier()

	// --- Auth ---
	authSvc := auth.NewService(cfg.AuthSecret, cfg.AdminUser, cfg.AdminPassHash)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Admin: author tests via CSV upload, pull reports
		pr.With(rbac.Require("test:create")).
			Post("/tests", api.UploadTestHandler(store, events))
		pr.With(rbac.Require("test:delete")).
			Delete("/tests/{testID}", api.DeleteTestHandler(store))
		pr.With(rbac.Require("report:view")).
			Get("/reports", api.ReportsHandler(store))
		pr.With(rbac.Require("report:export")).
			Get("/reports/csv", api.ReportsCSVHandler(store))
		pr.With(rbac.Require("report:email")).
			Post("/reports/email", api.EmailReportsHandler(store, notifier, cfg.AdminEmails))
		pr.With(rbac.Require("event:view")).
			Get("/events", api.RecentEventsHandler(events))

		// Everyone: browse the catalogue (answer keys stripped)
		pr.With(rbac.Require("test:view")).
			Get("/tests", api.ListTestsHandler(store))
		pr.With(rbac.Require("test:view")).
			Get("/tests/{testID}", api.GetTestHandler(store))

		// Taker flow: one live session per user
		pr.With(rbac.Require("session:create")).
			Post("/sessions", api.CreateSessionHandler(sessions))
		pr.With(rbac.Require("session:take")).Route("/sessions/{sessionID}", func(sr chi.Router) {
			sr.Get("/", api.GetSessionHandler(sessions))
			sr.Post("/answers", api.SubmitAnswerHandler(sessions))
			sr.Post("/advance", api.AdvanceHandler(sessions))
			sr.Post("/retreat", api.RetreatHandler(sessions))
			sr.Post("/review", api.ReviewHandler(sessions))
			sr.Post("/jump", api.JumpHandler(sessions))
			sr.Post("/finalize", api.FinalizeHandler(sessions, store))
			sr.Delete("/", api.TeardownHandler(sessions))
		})

		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts", api.ListAttemptsHandler(store))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/results", api.ListResultsHandler(store))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
