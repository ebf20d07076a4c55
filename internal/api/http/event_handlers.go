package http

import (
	"net/http"
	"strconv"

	"github.com/quizdesk/quizdesk/internal/eventlog"
)

// RecentEventsHandler returns the newest audit events, admin-only.
// ?limit= caps the page, default 50.
func RecentEventsHandler(events *eventlog.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		out, err := events.Recent(r.Context(), limit)
		if err != nil {
			writeErr(w, err)
			return
		}
		if out == nil {
			out = []eventlog.Event{}
		}
		writeJSON(w, http.StatusOK, out)
	}
}
