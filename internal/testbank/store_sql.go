package testbank

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// SQLStore persists tests and the attempt log through database/sql,
// with the question bank and answer map held as JSON columns. Works
// against both the sqlite and postgres schemas in internal/db.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) PutTest(ctx context.Context, t Test) error {
	qj, err := json.Marshal(t.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO tests (id,title,description,time_limit_min,questions_json,created_at,created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, description=EXCLUDED.description,
			time_limit_min=EXCLUDED.time_limit_min, questions_json=EXCLUDED.questions_json`,
		t.ID, t.Title, t.Description, t.TimeLimitMinutes, string(qj), t.CreatedAt.Unix(), t.CreatedBy)
	return err
}

func (s *SQLStore) GetTest(ctx context.Context, id string) (Test, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,description,time_limit_min,questions_json,created_at,created_by FROM tests WHERE id=$1`, id)
	return scanTest(row)
}

func (s *SQLStore) DeleteTest(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tests WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTestNotFound
	}
	return nil
}

func (s *SQLStore) ListTests(ctx context.Context) ([]Test, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,title,description,time_limit_min,questions_json,created_at,created_by FROM tests ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Test
	for rows.Next() {
		t, err := scanTest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLStore) AppendAttempt(ctx context.Context, a Attempt) error {
	aj, err := json.Marshal(a.Answers)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO attempts (test_id,user_id,answers_json,score,total_questions,started_at,ended_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.TestID, a.UserID, string(aj), a.Score, a.TotalQuestions, a.StartTime.Unix(), a.EndTime.Unix())
	return err
}

func (s *SQLStore) GetAttemptsByUser(ctx context.Context, userID string) ([]Attempt, error) {
	return s.listAttempts(ctx, `SELECT test_id,user_id,answers_json,score,total_questions,started_at,ended_at FROM attempts WHERE user_id=$1 ORDER BY started_at`, userID)
}

func (s *SQLStore) ListAttemptsByTest(ctx context.Context, testID string) ([]Attempt, error) {
	return s.listAttempts(ctx, `SELECT test_id,user_id,answers_json,score,total_questions,started_at,ended_at FROM attempts WHERE test_id=$1 ORDER BY started_at`, testID)
}

func (s *SQLStore) listAttempts(ctx context.Context, q string, arg any) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Attempt
	for rows.Next() {
		var a Attempt
		var ajson string
		var started, ended int64
		if err := rows.Scan(&a.TestID, &a.UserID, &ajson, &a.Score, &a.TotalQuestions, &started, &ended); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(ajson), &a.Answers); err != nil {
			a.Answers = map[int]int{}
		}
		a.StartTime = time.Unix(started, 0).UTC()
		a.EndTime = time.Unix(ended, 0).UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTest(row rowScanner) (Test, error) {
	var t Test
	var qjson string
	var created int64
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.TimeLimitMinutes, &qjson, &created, &t.CreatedBy); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Test{}, ErrTestNotFound
		}
		return Test{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &t.Questions); err != nil {
		return Test{}, err
	}
	t.CreatedAt = time.Unix(created, 0).UTC()
	return t, nil
}
