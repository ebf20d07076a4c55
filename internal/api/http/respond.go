package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quizdesk/quizdesk/internal/session"
	"github.com/quizdesk/quizdesk/internal/testbank"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps the engine's error taxonomy onto HTTP statuses. Every
// condition is local to one session or operation; nothing here is
// fatal to the process.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, testbank.ErrTestNotFound),
		errors.Is(err, session.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, session.ErrInvalidStateTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, session.ErrInvalidAnswerOption),
		errors.Is(err, session.ErrQuestionNotFound),
		errors.Is(err, testbank.ErrImportFormat):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
