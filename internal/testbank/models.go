package testbank

import "time"

// Question is one multiple-choice item. Exactly one of the four
// options is correct; CorrectOption is its 1-based slot.
type Question struct {
	QuestionNo    int       `json:"question_no"`
	Text          string    `json:"text"`
	Options       [4]string `json:"options"`
	CorrectOption int       `json:"correct_option,omitempty"`
}

// Test is immutable once created. Question order is the array order,
// which may diverge from QuestionNo order when a bank is authored out
// of sequence; navigation always goes by array position.
type Test struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	TimeLimitMinutes int        `json:"time_limit_minutes"`
	Questions        []Question `json:"questions"`
	CreatedAt        time.Time  `json:"created_at"`
	CreatedBy        string     `json:"created_by,omitempty"`
}

// QuestionByNo returns the question with the given number and its
// array position, or ok=false if the test has no such question.
func (t Test) QuestionByNo(questionNo int) (q Question, idx int, ok bool) {
	for i, qq := range t.Questions {
		if qq.QuestionNo == questionNo {
			return qq, i, true
		}
	}
	return Question{}, 0, false
}

// Sanitized returns a copy with the answer keys stripped, safe to
// serve to a test taker.
func (t Test) Sanitized() Test {
	out := t
	out.Questions = make([]Question, len(t.Questions))
	copy(out.Questions, t.Questions)
	for i := range out.Questions {
		out.Questions[i].CorrectOption = 0
	}
	return out
}

// Attempt is one user's pass through one test. Answers maps
// QuestionNo to the selected option; a key exists only once the
// question has been answered. Score is meaningful only after the
// attempt is finalized, and is always recomputed from Answers against
// the test's answer key, never taken from external input.
type Attempt struct {
	TestID         string      `json:"test_id"`
	UserID         string      `json:"user_id"`
	Answers        map[int]int `json:"answers"`
	Score          int         `json:"score"`
	TotalQuestions int         `json:"total_questions"`
	StartTime      time.Time   `json:"start_time"`
	EndTime        time.Time   `json:"end_time,omitempty"`
}

// Finalized reports whether the attempt has an end time stamped.
func (a Attempt) Finalized() bool { return !a.EndTime.IsZero() }
