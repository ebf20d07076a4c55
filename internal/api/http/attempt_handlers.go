package http

import (
	"net/http"

	"github.com/quizdesk/quizdesk/internal/auth"
	"github.com/quizdesk/quizdesk/internal/rbac"
	"github.com/quizdesk/quizdesk/internal/session"
	"github.com/quizdesk/quizdesk/internal/testbank"
)

// attemptsUserID resolves which user's attempts the caller may read:
// admins may pass ?user_id=, everyone else gets their own.
func attemptsUserID(r *http.Request) string {
	sub := auth.SubjectFromContext(r.Context())
	if rbac.RoleFromContext(r.Context()) == "admin" {
		if q := r.URL.Query().Get("user_id"); q != "" {
			return q
		}
	}
	return sub
}

func ListAttemptsHandler(store testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attempts, err := store.GetAttemptsByUser(r.Context(), attemptsUserID(r))
		if err != nil {
			writeErr(w, err)
			return
		}
		if attempts == nil {
			attempts = []testbank.Attempt{}
		}
		writeJSON(w, http.StatusOK, attempts)
	}
}

// ListResultsHandler returns the scored per-question projection of
// every finalized attempt for a user.
func ListResultsHandler(store testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attempts, err := store.GetAttemptsByUser(r.Context(), attemptsUserID(r))
		if err != nil {
			writeErr(w, err)
			return
		}
		views := make([]session.ReportView, 0, len(attempts))
		for _, a := range attempts {
			t, err := store.GetTest(r.Context(), a.TestID)
			if err != nil {
				// Deleted test: the raw attempt remains but there is
				// nothing to project it against.
				continue
			}
			views = append(views, session.Project(t, a))
		}
		writeJSON(w, http.StatusOK, views)
	}
}
