package http

import (
	"net/http"
	"time"

	"github.com/quizdesk/quizdesk/internal/report"
	"github.com/quizdesk/quizdesk/internal/testbank"
)

func buildReports(r *http.Request, store testbank.Store) ([]report.TestReport, error) {
	tests, err := store.ListTests(r.Context())
	if err != nil {
		return nil, err
	}
	var attempts []testbank.Attempt
	for _, t := range tests {
		ta, err := store.ListAttemptsByTest(r.Context(), t.ID)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, ta...)
	}
	return report.Generate(tests, attempts), nil
}

func ReportsHandler(store testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reports, err := buildReports(r, store)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, reports)
	}
}

func ReportsCSVHandler(store testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reports, err := buildReports(r, store)
		if err != nil {
			writeErr(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition",
			`attachment; filename="test_report_`+time.Now().Format("2006-01-02")+`.csv"`)
		if err := report.WriteCSV(w, reports); err != nil {
			writeErr(w, err)
		}
	}
}

// EmailReportsHandler pushes the current aggregate reports to the
// configured admin addresses through the Notifier.
func EmailReportsHandler(store testbank.Store, n report.Notifier, recipients []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reports, err := buildReports(r, store)
		if err != nil {
			writeErr(w, err)
			return
		}
		if err := n.SendReports(r.Context(), recipients, reports); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"sent_to": recipients, "reports": len(reports)})
	}
}
