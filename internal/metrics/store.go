package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Kind labels what the model call produced.
const (
	KindRecipe = "recipe"
	KindGrade  = "grade"
)

// GenerationMetric records metadata for a single model generation, including
// which model in the fallback chain finally answered and how many attempts
// it took.
type GenerationMetric struct {
	UserID    string
	Kind      string
	Model     string
	Attempts  int
	LatencyMS int64
	Succeeded bool
	Timestamp time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m GenerationMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO generation_metrics (user_id, kind, model, attempts, latency_ms, succeeded, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.UserID, m.Kind, m.Model, m.Attempts, m.LatencyMS, m.Succeeded, ts)
	if err != nil {
		return fmt.Errorf("failed to record generation metric: %w", err)
	}
	return nil
}

// DailyUsage represents generation totals for a single day.
type DailyUsage struct {
	Date          string
	Generations   int
	TotalAttempts int
	Failures      int
}

// GetDailyUsage retrieves usage for the last N days, newest day first.
func (s *Store) GetDailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	since := time.Now().AddDate(0, 0, -days).UTC()
	rows, err := s.db.QueryContext(ctx, `
		SELECT date(created_at) AS day,
		       COUNT(*),
		       SUM(attempts),
		       SUM(CASE WHEN succeeded THEN 0 ELSE 1 END)
		FROM generation_metrics
		WHERE created_at >= ?
		GROUP BY day
		ORDER BY day DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var u DailyUsage
		if err := rows.Scan(&u.Date, &u.Generations, &u.TotalAttempts, &u.Failures); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage: %w", err)
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().AddDate(0, 0, -olderThanDays).UTC()
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM generation_metrics WHERE created_at < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up metrics: %w", err)
	}
	return res.RowsAffected()
}
