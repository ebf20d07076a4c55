package report

import (
	"fmt"

	"github.com/quizdesk/quizdesk/internal/testbank"
)

// StudentResult is one attempt row inside a per-test aggregate.
type StudentResult struct {
	UserID         string  `json:"user_id"`
	UserName       string  `json:"user_name"` // derived; no names stored with attempts
	Score          int     `json:"score"`
	Percentage     float64 `json:"percentage"`
	CompletionTime string  `json:"completion_time"` // m:ss
}

// TestReport aggregates every attempt of one test.
type TestReport struct {
	TestID         string          `json:"test_id"`
	TestTitle      string          `json:"test_title"`
	TotalAttempts  int             `json:"total_attempts"`
	AverageScore   float64         `json:"average_score"`
	StudentResults []StudentResult `json:"student_results"`
}

// Generate builds one report per test from the attempt log. Tests
// with no attempts produce an empty report so the admin view lists
// them anyway.
func Generate(tests []testbank.Test, attempts []testbank.Attempt) []TestReport {
	byTest := map[string][]testbank.Attempt{}
	for _, a := range attempts {
		byTest[a.TestID] = append(byTest[a.TestID], a)
	}

	out := make([]TestReport, 0, len(tests))
	for _, t := range tests {
		ta := byTest[t.ID]
		r := TestReport{
			TestID:         t.ID,
			TestTitle:      t.Title,
			TotalAttempts:  len(ta),
			StudentResults: make([]StudentResult, 0, len(ta)),
		}
		total := 0
		for _, a := range ta {
			total += a.Score
			r.StudentResults = append(r.StudentResults, studentResult(a))
		}
		if len(ta) > 0 {
			r.AverageScore = float64(total) / float64(len(ta))
		}
		out = append(out, r)
	}
	return out
}

func studentResult(a testbank.Attempt) StudentResult {
	pct := 0.0
	if a.TotalQuestions > 0 {
		pct = float64(a.Score) / float64(a.TotalQuestions) * 100
	}
	elapsed := a.EndTime.Sub(a.StartTime)
	minutes := int(elapsed.Minutes())
	seconds := int(elapsed.Seconds()) % 60
	if elapsed < 0 {
		minutes, seconds = 0, 0
	}
	return StudentResult{
		UserID:         a.UserID,
		UserName:       displayName(a.UserID),
		Score:          a.Score,
		Percentage:     pct,
		CompletionTime: fmt.Sprintf("%d:%02d", minutes, seconds),
	}
}

// displayName derives a label from the user id prefix.
func displayName(userID string) string {
	if len(userID) > 5 {
		userID = userID[:5]
	}
	return "User " + userID
}
