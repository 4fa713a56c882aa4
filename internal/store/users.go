package store

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// CreateUser inserts a user and returns its id. The email is stored trimmed
// and lower-cased. Password hashing belongs to the identity flow.
func (s *Store) CreateUser(ctx context.Context, name, email, passwordHash string) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx, s.db.Rebind(`
		INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?) RETURNING id
	`), strings.TrimSpace(name), strings.ToLower(strings.TrimSpace(email)), passwordHash).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "insert user")
	}
	return id, nil
}

// UserExists reports whether a user with id exists.
func (s *Store) UserExists(ctx context.Context, id int64) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.db.Rebind(`SELECT COUNT(1) FROM users WHERE id = ?`), id)
	if err != nil {
		return false, errors.Wrap(err, "count users")
	}
	return n > 0, nil
}
