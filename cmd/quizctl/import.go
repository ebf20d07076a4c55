package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/quizdesk/quizdesk/internal/eventlog"
	"github.com/quizdesk/quizdesk/internal/testbank"
)

var importCmd = &cobra.Command{
	Use:   "import <questions.csv>",
	Short: "Import a CSV question bank as a new test",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		questions, err := testbank.ParseQuestionsCSV(f)
		if err != nil {
			return err
		}

		title, _ := cmd.Flags().GetString("title")
		desc, _ := cmd.Flags().GetString("description")
		limit, _ := cmd.Flags().GetInt("time-limit")
		if limit <= 0 {
			return fmt.Errorf("--time-limit must be a positive number of minutes")
		}

		store, dbh, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer dbh.Close()

		t := testbank.Test{
			ID:               uuid.New().String(),
			Title:            title,
			Description:      desc,
			TimeLimitMinutes: limit,
			Questions:        questions,
			CreatedAt:        time.Now().UTC(),
			CreatedBy:        "quizctl",
		}
		ctx := context.Background()
		if err := store.PutTest(ctx, t); err != nil {
			return err
		}
		events := eventlog.NewRepo(dbh)
		payload := map[string]any{"title": t.Title, "questions": len(t.Questions), "by": t.CreatedBy}
		if err := events.Record(ctx, "test.imported", t.ID, payload); err != nil {
			return err
		}
		fmt.Printf("imported %d question(s) as test %s\n", len(questions), t.ID)
		return nil
	},
}

func init() {
	importCmd.Flags().String("title", "Imported test", "Test title")
	importCmd.Flags().String("description", "", "Test description")
	importCmd.Flags().Int("time-limit", 10, "Time limit in minutes")
}
