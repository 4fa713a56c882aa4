package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"fitness-buddy/internal/coach"
)

// Changes maps column names to new values. Nil values leave the column as is.
type Changes map[string]any

// IntakeUpdate holds partial changes to the three intake tables.
type IntakeUpdate struct {
	Baseline    Changes
	Preferences Changes
	Goals       Changes
}

var intakeColumns = map[string][]string{
	"baseline": {
		"age_years",
		"gender",
		"height",
		"user_weight",
		"medical_condition",
		"activity_level",
		"dietary_preferences",
	},
	"preferences": {"intensity", "exercise_enjoyment"},
	"goals":       {"primary_goal", "short_goal", "long_goal", "days_goal"},
}

// GetIntake loads the user's baseline, preferences and goals. Records the
// user never filled in are nil.
func (s *Store) GetIntake(ctx context.Context, userID int64) (coach.Intake, error) {
	var intake coach.Intake

	var profile coach.Profile
	found, err := s.getOne(ctx, &profile, "baseline", userID)
	if err != nil {
		return coach.Intake{}, errors.Wrap(err, "get baseline")
	}
	if found {
		intake.Profile = &profile
	}

	var prefs coach.Preferences
	found, err = s.getOne(ctx, &prefs, "preferences", userID)
	if err != nil {
		return coach.Intake{}, errors.Wrap(err, "get preferences")
	}
	if found {
		intake.Preferences = &prefs
	}

	var goals coach.Goals
	found, err = s.getOne(ctx, &goals, "goals", userID)
	if err != nil {
		return coach.Intake{}, errors.Wrap(err, "get goals")
	}
	if found {
		intake.Goals = &goals
	}

	return intake, nil
}

func (s *Store) getOne(ctx context.Context, dest any, table string, userID int64) (bool, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE user_id = ?", strings.Join(intakeColumns[table], ", "), table)
	err := s.db.GetContext(ctx, dest, s.db.Rebind(query), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// HasBaseline reports whether the user has saved a baseline profile.
func (s *Store) HasBaseline(ctx context.Context, userID int64) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.db.Rebind(`SELECT COUNT(1) FROM baseline WHERE user_id = ?`), userID)
	if err != nil {
		return false, errors.Wrap(err, "count baseline")
	}
	return n > 0, nil
}

// SaveIntake inserts or partially updates the intake tables in one
// transaction. Only columns present in the update are written.
func (s *Store) SaveIntake(ctx context.Context, userID int64, update IntakeUpdate) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	parts := []struct {
		table   string
		changes Changes
	}{
		{"baseline", update.Baseline},
		{"preferences", update.Preferences},
		{"goals", update.Goals},
	}
	for _, p := range parts {
		if err := upsertPartial(ctx, tx, p.table, userID, p.changes); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit intake")
	}
	return nil
}

func upsertPartial(ctx context.Context, tx *sqlx.Tx, table string, userID int64, changes Changes) error {
	provided := lo.PickBy(map[string]any(changes), func(_ string, v any) bool { return v != nil })
	if len(provided) == 0 {
		return nil
	}

	cols := lo.Keys(provided)
	sort.Strings(cols)
	if unknown, ok := lo.Find(cols, func(c string) bool { return !lo.Contains(intakeColumns[table], c) }); ok {
		return errors.Errorf("unknown %s column %q", table, unknown)
	}

	args := append([]any{userID}, lo.Map(cols, func(c string, _ int) any { return provided[c] })...)
	assignments := lo.Map(cols, func(c string, _ int) string { return c + " = excluded." + c })
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ")

	query := fmt.Sprintf(
		"INSERT INTO %s (user_id, %s) VALUES (%s) ON CONFLICT (user_id) DO UPDATE SET %s",
		table, strings.Join(cols, ", "), placeholders, strings.Join(assignments, ", "),
	)
	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return errors.Wrapf(err, "upsert %s", table)
	}
	return nil
}
