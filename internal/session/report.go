package session

import (
	"math"

	"github.com/quizdesk/quizdesk/internal/testbank"
)

// QuestionResult is one row of a scored breakdown, in the test's
// array order.
type QuestionResult struct {
	QuestionNo     int       `json:"question_no"`
	Text           string    `json:"text"`
	Options        [4]string `json:"options"`
	SelectedOption int       `json:"selected_option"` // 0 when unanswered
	CorrectOption  int       `json:"correct_option"`
	Correct        bool      `json:"correct"`
}

// ReportView is the human-facing projection of one finalized attempt.
type ReportView struct {
	TestID          string           `json:"test_id"`
	TestTitle       string           `json:"test_title"`
	UserID          string           `json:"user_id"`
	Score           int              `json:"score"`
	TotalQuestions  int              `json:"total_questions"`
	Percentage      int              `json:"percentage"`
	DurationMinutes int              `json:"duration_minutes"`
	Questions       []QuestionResult `json:"questions"`
}

// Project maps a finalized attempt and its test into a scored
// breakdown. Pure and side-effect-free: it never mutates the attempt
// and calling it repeatedly on the same inputs yields identical
// output.
func Project(t testbank.Test, a testbank.Attempt) ReportView {
	v := ReportView{
		TestID:         t.ID,
		TestTitle:      t.Title,
		UserID:         a.UserID,
		Score:          a.Score,
		TotalQuestions: a.TotalQuestions,
		Questions:      make([]QuestionResult, 0, len(t.Questions)),
	}
	if a.TotalQuestions > 0 {
		v.Percentage = int(math.Round(float64(a.Score) / float64(a.TotalQuestions) * 100))
	}
	if !a.EndTime.IsZero() && a.EndTime.After(a.StartTime) {
		v.DurationMinutes = int(a.EndTime.Sub(a.StartTime).Minutes())
	}
	for _, q := range t.Questions {
		sel := a.Answers[q.QuestionNo]
		v.Questions = append(v.Questions, QuestionResult{
			QuestionNo:     q.QuestionNo,
			Text:           q.Text,
			Options:        q.Options,
			SelectedOption: sel,
			CorrectOption:  q.CorrectOption,
			Correct:        sel != 0 && sel == q.CorrectOption,
		})
	}
	return v
}
