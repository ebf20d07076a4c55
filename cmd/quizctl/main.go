package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quizdesk/quizdesk/internal/db"
	"github.com/quizdesk/quizdesk/internal/testbank"
)

var rootCmd = &cobra.Command{
	Use:   "quizctl",
	Short: "Admin tool for the quizdesk test bank",
	Long:  "quizctl imports CSV question banks and exports scored reports without going through the HTTP API.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("db-driver", "sqlite", "Database driver (sqlite or postgres)")
	rootCmd.PersistentFlags().String("dsn", "", "Database DSN (driver default when empty)")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(reportCmd)
}

// openStore connects using the persistent flags and ensures schema.
func openStore(cmd *cobra.Command) (*testbank.SQLStore, *sql.DB, error) {
	driver, _ := cmd.Flags().GetString("db-driver")
	dsn, _ := cmd.Flags().GetString("dsn")
	dbh, err := db.Open(context.Background(), db.Driver(driver), dsn)
	if err != nil {
		return nil, nil, err
	}
	return testbank.NewSQLStore(dbh), dbh, nil
}
