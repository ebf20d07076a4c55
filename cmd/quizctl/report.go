package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quizdesk/quizdesk/internal/report"
	"github.com/quizdesk/quizdesk/internal/testbank"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tests in the bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, dbh, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer dbh.Close()

		tests, err := store.ListTests(context.Background())
		if err != nil {
			return err
		}
		for _, t := range tests {
			fmt.Printf("%s  %-30s  %d question(s), %d min\n", t.ID, t.Title, len(t.Questions), t.TimeLimitMinutes)
		}
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export the aggregate score report as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, dbh, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer dbh.Close()

		ctx := context.Background()
		tests, err := store.ListTests(ctx)
		if err != nil {
			return err
		}
		var attempts []testbank.Attempt
		for _, t := range tests {
			ta, err := store.ListAttemptsByTest(ctx, t.ID)
			if err != nil {
				return err
			}
			attempts = append(attempts, ta...)
		}

		out := os.Stdout
		if path, _ := cmd.Flags().GetString("out"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		return report.WriteCSV(out, report.Generate(tests, attempts))
	},
}

func init() {
	reportCmd.Flags().String("out", "", "Write CSV to a file instead of stdout")
}
