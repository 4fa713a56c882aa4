package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"fitness-buddy/internal/coach"
)

// CheckIn is a stored daily check-in.
type CheckIn struct {
	ID        int64              `json:"id"`
	Daily     coach.DailyCheckIn `json:"daily"`
	CreatedAt time.Time          `json:"createdAt"`
}

type checkInRow struct {
	ID        int64     `db:"id"`
	Data      string    `db:"data"`
	CreatedAt time.Time `db:"created_at"`
}

// RecordCheckIn stores one daily check-in and returns its id.
func (s *Store) RecordCheckIn(ctx context.Context, userID int64, daily coach.DailyCheckIn) (int64, error) {
	data, err := json.Marshal(daily)
	if err != nil {
		return 0, errors.Wrap(err, "encode check-in")
	}

	var id int64
	err = s.db.QueryRowxContext(ctx, s.db.Rebind(`
		INSERT INTO checkins (user_id, data, created_at) VALUES (?, ?, ?) RETURNING id
	`), userID, string(data), s.now()).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "insert check-in")
	}
	return id, nil
}

// ListCheckIns returns up to limit check-ins of the user, newest first.
func (s *Store) ListCheckIns(ctx context.Context, userID int64, limit int) ([]CheckIn, error) {
	var rows []checkInRow
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(`
		SELECT id, data, created_at FROM checkins
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`), userID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "select check-ins")
	}

	out := make([]CheckIn, 0, len(rows))
	for _, r := range rows {
		c := CheckIn{ID: r.ID, CreatedAt: r.CreatedAt}
		if err := json.Unmarshal([]byte(r.Data), &c.Daily); err != nil {
			s.logger.Warn("Skipping unreadable check-in", "id", r.ID, "error", err)
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
