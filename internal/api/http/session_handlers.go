package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizdesk/quizdesk/internal/auth"
	"github.com/quizdesk/quizdesk/internal/rbac"
	"github.com/quizdesk/quizdesk/internal/session"
	"github.com/quizdesk/quizdesk/internal/testbank"
)

// sessionView is the host-facing snapshot of a live session.
type sessionView struct {
	ID               string            `json:"id"`
	State            session.State     `json:"state"`
	Cursor           int               `json:"cursor"`
	CurrentQuestion  testbank.Question `json:"current_question"`
	SelectedOption   int               `json:"selected_option,omitempty"`
	RemainingSeconds int               `json:"remaining_seconds"`
	AnsweredCount    int               `json:"answered_count"`
	TotalQuestions   int               `json:"total_questions"`
}

func viewOf(s *session.Session) sessionView {
	answered, total := s.Progress()
	q := s.CurrentQuestion()
	sel, _ := s.Answer(q.QuestionNo)
	return sessionView{
		ID:               s.ID,
		State:            s.State(),
		Cursor:           s.Cursor(),
		CurrentQuestion:  q,
		SelectedOption:   sel,
		RemainingSeconds: s.RemainingSeconds(),
		AnsweredCount:    answered,
		TotalQuestions:   total,
	}
}

// ownSession loads the session and enforces that it belongs to the
// caller (admins may touch any).
func ownSession(mgr *session.Manager, r *http.Request) (*session.Session, error) {
	s, err := mgr.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		return nil, err
	}
	sub := auth.SubjectFromContext(r.Context())
	if s.UserID != sub && rbac.RoleFromContext(r.Context()) != "admin" {
		return nil, session.ErrSessionNotFound
	}
	return s, nil
}

func CreateSessionHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			TestID string `json:"test_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TestID == "" {
			http.Error(w, "test_id required", http.StatusBadRequest)
			return
		}
		s, err := mgr.Create(r.Context(), req.TestID, auth.SubjectFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, viewOf(s))
	}
}

func GetSessionHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := ownSession(mgr, r)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(s))
	}
}

func SubmitAnswerHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := ownSession(mgr, r)
		if err != nil {
			writeErr(w, err)
			return
		}
		var req struct {
			QuestionNo int `json:"question_no"`
			Option     int `json:"option"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := s.SubmitAnswer(req.QuestionNo, req.Option); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(s))
	}
}

func AdvanceHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := ownSession(mgr, r)
		if err != nil {
			writeErr(w, err)
			return
		}
		if _, err := s.Advance(); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(s))
	}
}

func RetreatHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := ownSession(mgr, r)
		if err != nil {
			writeErr(w, err)
			return
		}
		if err := s.Retreat(); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(s))
	}
}

func ReviewHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := ownSession(mgr, r)
		if err != nil {
			writeErr(w, err)
			return
		}
		if err := s.RequestReview(); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(s))
	}
}

func JumpHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := ownSession(mgr, r)
		if err != nil {
			writeErr(w, err)
			return
		}
		var req struct {
			QuestionNo int `json:"question_no"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := s.JumpTo(req.QuestionNo); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(s))
	}
}

// FinalizeHandler submits the session and returns the frozen attempt
// with its scored projection.
func FinalizeHandler(mgr *session.Manager, store testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := ownSession(mgr, r)
		if err != nil {
			writeErr(w, err)
			return
		}
		a, err := mgr.Finalize(r.Context(), s.ID)
		if err != nil {
			writeErr(w, err)
			return
		}
		t, err := store.GetTest(r.Context(), a.TestID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Attempt testbank.Attempt   `json:"attempt"`
			Report  session.ReportView `json:"report"`
		}{a, session.Project(t, a)})
	}
}

func TeardownHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := ownSession(mgr, r)
		if err != nil {
			writeErr(w, err)
			return
		}
		if err := mgr.Teardown(s.ID); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
