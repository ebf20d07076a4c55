package testbank

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Q.NO,QUESTION,OPTION1,OPTION2,OPTION3,OPTION4,CORRECTANSOPTION
1,What is 2 + 2?,3,4,5,6,2
2,Capital of France?,London,Berlin,Paris,Madrid,3
`

func TestParseQuestionsCSV(t *testing.T) {
	qs, err := ParseQuestionsCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, qs, 2)

	assert.Equal(t, 1, qs[0].QuestionNo)
	assert.Equal(t, "What is 2 + 2?", qs[0].Text)
	assert.Equal(t, [4]string{"3", "4", "5", "6"}, qs[0].Options)
	assert.Equal(t, 2, qs[0].CorrectOption)
	assert.Equal(t, 3, qs[1].CorrectOption)
}

func TestParseQuestionsCSVHeaderCaseInsensitive(t *testing.T) {
	lower := strings.Replace(sampleCSV, "Q.NO,QUESTION,OPTION1,OPTION2,OPTION3,OPTION4,CORRECTANSOPTION",
		"q.no,question,option1,option2,option3,option4,correctansoption", 1)
	_, err := ParseQuestionsCSV(strings.NewReader(lower))
	assert.NoError(t, err)
}

func TestParseQuestionsCSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{
			name:    "missing header token",
			input:   "Q.NO,QUESTION,OPTION1,OPTION2,OPTION3,OPTION4\n1,q,a,b,c,d\n",
			wantMsg: "header missing",
		},
		{
			name:    "short row is line-numbered",
			input:   "Q.NO,QUESTION,OPTION1,OPTION2,OPTION3,OPTION4,CORRECTANSOPTION\n1,q,a,b\n",
			wantMsg: "line 2 has missing columns",
		},
		{
			name:    "bad correct option",
			input:   "Q.NO,QUESTION,OPTION1,OPTION2,OPTION3,OPTION4,CORRECTANSOPTION\n1,q,a,b,c,d,9\n",
			wantMsg: "invalid correct option",
		},
		{
			name:    "empty file",
			input:   "",
			wantMsg: "empty file",
		},
		{
			name:    "header only",
			input:   "Q.NO,QUESTION,OPTION1,OPTION2,OPTION3,OPTION4,CORRECTANSOPTION\n",
			wantMsg: "no question rows",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseQuestionsCSV(strings.NewReader(tc.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrImportFormat)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestParseQuestionsCSVQuestionNoFallback(t *testing.T) {
	input := "Q.NO,QUESTION,OPTION1,OPTION2,OPTION3,OPTION4,CORRECTANSOPTION\n" +
		",first,a,b,c,d,1\n" +
		"x,second,a,b,c,d,2\n"
	qs, err := ParseQuestionsCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, 1, qs[0].QuestionNo)
	assert.Equal(t, 2, qs[1].QuestionNo)
}

func TestParseQuestionsCSVSkipsBlankLines(t *testing.T) {
	input := "Q.NO,QUESTION,OPTION1,OPTION2,OPTION3,OPTION4,CORRECTANSOPTION\n" +
		"1,q,a,b,c,d,1\n" +
		"\n" +
		"2,r,a,b,c,d,4\n"
	qs, err := ParseQuestionsCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, qs, 2)
}
