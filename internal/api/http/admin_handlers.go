package http

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quizdesk/quizdesk/internal/auth"
	"github.com/quizdesk/quizdesk/internal/testbank"
)

// Recorder mirrors the event log's append surface. Nil means no audit
// trail.
type Recorder interface {
	Record(ctx context.Context, typ, key string, data any) error
}

// UploadTestHandler creates a test from a multipart CSV upload:
// fields title, description, time_limit_minutes and the question bank
// in the "file" part.
func UploadTestHandler(store testbank.Store, events Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(4 << 20); err != nil {
			http.Error(w, "bad multipart form", http.StatusBadRequest)
			return
		}
		title := r.FormValue("title")
		if title == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}
		limit, err := strconv.Atoi(r.FormValue("time_limit_minutes"))
		if err != nil || limit <= 0 {
			http.Error(w, "time_limit_minutes must be a positive integer", http.StatusBadRequest)
			return
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "csv file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		questions, err := testbank.ParseQuestionsCSV(f)
		if err != nil {
			writeErr(w, err)
			return
		}
		t := testbank.Test{
			ID:               uuid.New().String(),
			Title:            title,
			Description:      r.FormValue("description"),
			TimeLimitMinutes: limit,
			Questions:        questions,
			CreatedAt:        time.Now().UTC(),
			CreatedBy:        auth.SubjectFromContext(r.Context()),
		}
		if err := store.PutTest(r.Context(), t); err != nil {
			writeErr(w, err)
			return
		}
		if events != nil {
			payload := map[string]any{"title": t.Title, "questions": len(t.Questions), "by": t.CreatedBy}
			if err := events.Record(r.Context(), "test.imported", t.ID, payload); err != nil {
				log.Printf("event log append failed for test %s: %v", t.ID, err)
			}
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

func ListTestsHandler(store testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tests, err := store.ListTests(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		out := make([]testbank.Test, 0, len(tests))
		for _, t := range tests {
			out = append(out, t.Sanitized())
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func GetTestHandler(store testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := store.GetTest(r.Context(), chi.URLParam(r, "testID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t.Sanitized())
	}
}

func DeleteTestHandler(store testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteTest(r.Context(), chi.URLParam(r, "testID")); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
