package session

import (
	"github.com/quizdesk/quizdesk/internal/testbank"
)

// Tracker owns one attempt's mutable answer map and the navigation
// cursor over the test's question array. Answers are keyed by the
// stable QuestionNo rather than the array index, so scoring is
// independent of navigation order or any later reordering of the
// question array.
type Tracker struct {
	test    testbank.Test
	answers map[int]int
	cursor  int
}

func newTracker(t testbank.Test) *Tracker {
	return &Tracker{test: t, answers: map[int]int{}}
}

// SubmitAnswer records or overwrites the selection for a question.
// Resubmitting the same question replaces the prior choice; it never
// duplicates. Score is derived later, never stored incrementally.
func (tr *Tracker) SubmitAnswer(questionNo, option int) error {
	if option < 1 || option > 4 {
		return ErrInvalidAnswerOption
	}
	if _, _, ok := tr.test.QuestionByNo(questionNo); !ok {
		return ErrQuestionNotFound
	}
	tr.answers[questionNo] = option
	return nil
}

// IsAnswered reports whether a selection exists for the question.
func (tr *Tracker) IsAnswered(questionNo int) bool {
	_, ok := tr.answers[questionNo]
	return ok
}

// Answer returns the stored selection for a question, if any. The
// stored answer is authoritative; whether a UI re-displays it on
// revisit is a presentation choice.
func (tr *Tracker) Answer(questionNo int) (int, bool) {
	v, ok := tr.answers[questionNo]
	return v, ok
}

// Cursor is the current position in the test's question array.
func (tr *Tracker) Cursor() int { return tr.cursor }

// Current returns the question under the cursor.
func (tr *Tracker) Current() testbank.Question {
	return tr.test.Questions[tr.cursor]
}

// AtLast reports whether the cursor is on the final question.
func (tr *Tracker) AtLast() bool {
	return tr.cursor == len(tr.test.Questions)-1
}

// advance moves the cursor forward one position. At the last index it
// is a no-op for the cursor; the state machine interprets that as
// "ready for review". Returns whether the cursor moved.
func (tr *Tracker) advance() bool {
	if tr.AtLast() {
		return false
	}
	tr.cursor++
	return true
}

// retreat moves the cursor back one position; at index 0 it is a
// no-op.
func (tr *Tracker) retreat() {
	if tr.cursor > 0 {
		tr.cursor--
	}
}

// jumpTo moves the cursor to the array position of the given
// question number. Unknown numbers leave the cursor unchanged.
// Returns whether the cursor was moved.
func (tr *Tracker) jumpTo(questionNo int) bool {
	if _, idx, ok := tr.test.QuestionByNo(questionNo); ok {
		tr.cursor = idx
		return true
	}
	return false
}

// ProgressSummary returns (answered, total) for display.
func (tr *Tracker) ProgressSummary() (answered, total int) {
	return len(tr.answers), len(tr.test.Questions)
}

// snapshotAnswers copies the live answer map for freezing into an
// attempt record.
func (tr *Tracker) snapshotAnswers() map[int]int {
	out := make(map[int]int, len(tr.answers))
	for k, v := range tr.answers {
		out[k] = v
	}
	return out
}

// ComputeScore counts the questions whose recorded answer matches the
// correct option. Unanswered questions count as incorrect; there is
// no partial credit.
func ComputeScore(t testbank.Test, answers map[int]int) int {
	score := 0
	for _, q := range t.Questions {
		if answers[q.QuestionNo] == q.CorrectOption {
			score++
		}
	}
	return score
}
