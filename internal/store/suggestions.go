package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"fitness-buddy/internal/coach"
)

// LatestSuggestion returns the user's most recent suggestion, or nil when
// there is none.
func (s *Store) LatestSuggestion(ctx context.Context, userID int64) (*coach.Suggestion, error) {
	var sg coach.Suggestion
	err := s.db.GetContext(ctx, &sg, s.db.Rebind(`
		SELECT id, user_id, suggestion, focus, rating, created_at FROM suggestions
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select latest suggestion")
	}
	return &sg, nil
}

// RecordSuggestion stores a new suggestion. Every call creates a new row.
func (s *Store) RecordSuggestion(ctx context.Context, userID int64, text, focus string) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx, s.db.Rebind(`
		INSERT INTO suggestions (user_id, suggestion, focus, created_at) VALUES (?, ?, ?, ?) RETURNING id
	`), userID, text, focus, s.now()).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "insert suggestion")
	}
	return id, nil
}

// SetRating rates one of the user's suggestions. It returns ErrNotFound when
// the suggestion does not exist or belongs to someone else.
func (s *Store) SetRating(ctx context.Context, userID, suggestionID int64, rating string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE suggestions SET rating = ? WHERE user_id = ? AND id = ?
	`), rating, userID, suggestionID)
	if err != nil {
		return errors.Wrap(err, "update rating")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
