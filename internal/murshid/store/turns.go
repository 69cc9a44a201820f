package store

import (
	"context"
	"fmt"
	"time"

	"github.com/malakhossam/murshid/internal/murshid/tutor"
)

// Turn is one audited chat exchange as read back from the database.
type Turn struct {
	ID         int64
	Timestamp  time.Time
	TraceID    string
	UserID     string
	Intent     string
	Outcome    string
	ReplyChars int
	Error      string
}

// RecordTurn inserts one audit row. It implements tutor.Auditor.
func (s *Store) RecordTurn(ctx context.Context, rec tutor.TurnRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO turns (trace_id, user_id, intent, outcome, reply_chars, error)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.TraceID, rec.UserID, rec.Intent, rec.Outcome, rec.ReplyChars, rec.Error)
	if err != nil {
		return fmt.Errorf("store: insert turn: %w", err)
	}
	return nil
}

// RecentTurns returns up to limit audited turns, newest first.
func (s *Store) RecentTurns(ctx context.Context, limit int) ([]Turn, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ts, trace_id, user_id, intent, outcome, reply_chars, error
		FROM turns
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: query turns: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.Timestamp, &t.TraceID, &t.UserID, &t.Intent, &t.Outcome, &t.ReplyChars, &t.Error); err != nil {
			return nil, fmt.Errorf("store: scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate turns: %w", err)
	}
	return turns, nil
}

// CountTurns returns the total number of audited turns for a user.
func (s *Store) CountTurns(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM turns WHERE user_id = ?", userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: count turns: %w", err)
	}
	return n, nil
}
