package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV renders reports as a flat CSV, one row per student result.
func WriteCSV(w io.Writer, reports []TestReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Test Title", "User ID", "User Name", "Score", "Percentage", "Completion Time"}); err != nil {
		return err
	}
	for _, r := range reports {
		for _, sr := range r.StudentResults {
			row := []string{
				r.TestTitle,
				sr.UserID,
				sr.UserName,
				fmt.Sprintf("%d", sr.Score),
				fmt.Sprintf("%.2f%%", sr.Percentage),
				sr.CompletionTime,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
