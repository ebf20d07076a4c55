package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizdesk/quizdesk/internal/testbank"
)

func TestProject(t *testing.T) {
	tt := twoQuestionTest()
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		attempt      testbank.Attempt
		wantPct      int
		wantDuration int
		wantCorrect  []bool
	}{
		{
			name: "full marks",
			attempt: testbank.Attempt{
				TestID: "test-1", UserID: "u1",
				Answers:        map[int]int{1: 2, 2: 3},
				Score:          2,
				TotalQuestions: 2,
				StartTime:      start,
				EndTime:        start.Add(5*time.Minute + 30*time.Second),
			},
			wantPct:      100,
			wantDuration: 5, // floor of 5m30s
			wantCorrect:  []bool{true, true},
		},
		{
			name: "partial with unanswered",
			attempt: testbank.Attempt{
				TestID: "test-1", UserID: "u1",
				Answers:        map[int]int{1: 2},
				Score:          1,
				TotalQuestions: 2,
				StartTime:      start,
				EndTime:        start.Add(90 * time.Second),
			},
			wantPct:      50,
			wantDuration: 1,
			wantCorrect:  []bool{true, false},
		},
		{
			name: "rounds percentage",
			attempt: testbank.Attempt{
				TestID: "test-1", UserID: "u1",
				Answers:        map[int]int{1: 2},
				Score:          1,
				TotalQuestions: 3,
				StartTime:      start,
				EndTime:        start.Add(time.Minute),
			},
			wantPct:      33,
			wantDuration: 1,
			wantCorrect:  []bool{true, false},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := Project(tt, tc.attempt)
			assert.Equal(t, tc.wantPct, v.Percentage)
			assert.Equal(t, tc.wantDuration, v.DurationMinutes)
			require.Len(t, v.Questions, len(tt.Questions))
			for i, want := range tc.wantCorrect {
				assert.Equal(t, want, v.Questions[i].Correct, "question %d", i+1)
			}
		})
	}
}

func TestProjectBreakdownFollowsArrayOrder(t *testing.T) {
	tt := testbank.Test{
		ID: "t", Title: "Out of order",
		Questions: []testbank.Question{
			{QuestionNo: 5, CorrectOption: 1},
			{QuestionNo: 2, CorrectOption: 4},
		},
	}
	v := Project(tt, testbank.Attempt{TotalQuestions: 2, Answers: map[int]int{2: 4}})
	require.Len(t, v.Questions, 2)
	assert.Equal(t, 5, v.Questions[0].QuestionNo)
	assert.Equal(t, 2, v.Questions[1].QuestionNo)
}

func TestProjectIsDeterministicAndPure(t *testing.T) {
	tt := twoQuestionTest()
	a := testbank.Attempt{
		TestID: "test-1", UserID: "u1",
		Answers:        map[int]int{1: 2},
		Score:          1,
		TotalQuestions: 2,
		StartTime:      time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		EndTime:        time.Date(2025, 3, 1, 10, 4, 0, 0, time.UTC),
	}

	first := Project(tt, a)
	second := Project(tt, a)
	assert.Equal(t, first, second)

	// The attempt itself must be untouched.
	assert.Equal(t, map[int]int{1: 2}, a.Answers)
	assert.Equal(t, 1, a.Score)
}

func TestProjectUnansweredNeverMarkedCorrect(t *testing.T) {
	// A question whose correct option could collide with the zero
	// value of "no answer" must still read as incorrect.
	tt := testbank.Test{
		ID:        "t",
		Questions: []testbank.Question{{QuestionNo: 1, CorrectOption: 1}},
	}
	v := Project(tt, testbank.Attempt{TotalQuestions: 1, Answers: map[int]int{}})
	require.Len(t, v.Questions, 1)
	assert.False(t, v.Questions[0].Correct)
	assert.Equal(t, 0, v.Questions[0].SelectedOption)
}
