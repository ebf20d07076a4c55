package testbank

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrImportFormat is wrapped by every CSV import failure.
var ErrImportFormat = errors.New("import format error")

// header tokens that must be present, case-insensitively, in the
// first row of an uploaded question bank.
var requiredHeaderTokens = []string{
	"question", "option1", "option2", "option3", "option4", "correctansoption",
}

// ParseQuestionsCSV reads a question bank in the upload format:
// a header row followed by rows of
// (questionNo, question, option1..option4, correctOption).
// A row with fewer than 7 fields fails with a line-numbered error.
// A missing or non-numeric questionNo falls back to the 1-based row
// index. Blank lines are skipped.
func ParseQuestionsCSV(r io.Reader) ([]Question, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // row length validated per line below
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrImportFormat)
	}

	header := strings.ToLower(strings.Join(records[0], ","))
	for _, tok := range requiredHeaderTokens {
		if !strings.Contains(header, tok) {
			return nil, fmt.Errorf("%w: header missing %q (expected Q.NO, QUESTION, OPTION1..OPTION4, CORRECTANSOPTION)", ErrImportFormat, tok)
		}
	}

	var questions []Question
	for i, row := range records[1:] {
		line := i + 2 // 1-based, after header
		if blankRow(row) {
			continue
		}
		if len(row) < 7 {
			return nil, fmt.Errorf("%w: line %d has missing columns", ErrImportFormat, line)
		}
		for j := range row {
			row[j] = strings.TrimSpace(row[j])
		}
		no, err := strconv.Atoi(row[0])
		if err != nil || no <= 0 {
			no = i + 1 // fall back to the row's 1-based position
		}
		correct, err := strconv.Atoi(row[6])
		if err != nil || correct < 1 || correct > 4 {
			return nil, fmt.Errorf("%w: line %d has invalid correct option %q", ErrImportFormat, line, row[6])
		}
		questions = append(questions, Question{
			QuestionNo:    no,
			Text:          row[1],
			Options:       [4]string{row[2], row[3], row[4], row[5]},
			CorrectOption: correct,
		})
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no question rows", ErrImportFormat)
	}
	return questions, nil
}

func blankRow(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
