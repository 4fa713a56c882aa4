package store

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitness-buddy/internal/coach"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nested", "store_test.db")
	s, err := Open(context.Background(), DriverSQLite, dbPath, log.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// fixedClock returns a clock that advances one minute per call.
func fixedClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(time.Minute)
		return now
	}
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))

	_, err := Open(context.Background(), "mysql", "whatever", log.New(io.Discard))
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestOpenTwiceKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(ctx, DriverSQLite, dbPath, log.New(io.Discard))
	require.NoError(t, err)
	id, err := s.CreateUser(ctx, "Ana", "ana@example.com", "hash")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, DriverSQLite, dbPath, log.New(io.Discard))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	exists, err := s.UserExists(ctx, id)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateUser(ctx, " Ana ", " Ana@Example.com ", "hash")
	require.NoError(t, err)
	assert.Positive(t, id)

	exists, err := s.UserExists(ctx, id)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.UserExists(ctx, id+100)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.CreateUser(ctx, "Other Ana", "ana@example.com", "hash")
	assert.Error(t, err, "emails are unique")
}

func TestIntake(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID, err := s.CreateUser(ctx, "Ana", "ana@example.com", "")
	require.NoError(t, err)

	intake, err := s.GetIntake(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, intake.Profile)
	assert.Nil(t, intake.Preferences)
	assert.Nil(t, intake.Goals)

	has, err := s.HasBaseline(ctx, userID)
	require.NoError(t, err)
	assert.False(t, has)

	err = s.SaveIntake(ctx, userID, IntakeUpdate{
		Baseline: Changes{
			"age_years":         34,
			"gender":            "female",
			"medical_condition": "asthma",
			"height":            nil,
		},
		Goals: Changes{"primary_goal": "sleep better", "days_goal": 3},
	})
	require.NoError(t, err)

	intake, err = s.GetIntake(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, intake.Profile)
	assert.Equal(t, "34", intake.Profile.AgeYears.String())
	assert.Equal(t, "female", intake.Profile.Gender.String())
	assert.Equal(t, "asthma", intake.Profile.MedicalCondition.String())
	assert.True(t, intake.Profile.Height.IsAbsent())
	assert.Nil(t, intake.Preferences)
	require.NotNil(t, intake.Goals)
	assert.Equal(t, "sleep better", intake.Goals.PrimaryGoal.String())
	assert.Equal(t, "3", intake.Goals.DaysGoal.String())

	has, err = s.HasBaseline(ctx, userID)
	require.NoError(t, err)
	assert.True(t, has)

	// A second save only touches the columns it names.
	err = s.SaveIntake(ctx, userID, IntakeUpdate{
		Baseline:    Changes{"height": "170 cm"},
		Preferences: Changes{"intensity": 7},
	})
	require.NoError(t, err)

	intake, err = s.GetIntake(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "34", intake.Profile.AgeYears.String())
	assert.Equal(t, "female", intake.Profile.Gender.String())
	assert.Equal(t, "170 cm", intake.Profile.Height.String())
	require.NotNil(t, intake.Preferences)
	assert.Equal(t, "7", intake.Preferences.Intensity.String())
	assert.True(t, intake.Preferences.ExerciseEnjoyment.IsAbsent())
}

func TestSaveIntakeRejectsUnknownColumn(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID, err := s.CreateUser(ctx, "Ana", "ana@example.com", "")
	require.NoError(t, err)

	err = s.SaveIntake(ctx, userID, IntakeUpdate{
		Baseline: Changes{"gender": "male", "user_id = 1; --": "x"},
	})
	assert.ErrorContains(t, err, "unknown baseline column")

	intake, err := s.GetIntake(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, intake.Profile, "failed save is rolled back")
}

func TestCheckIns(t *testing.T) {
	s := newTestStore(t)
	s.now = fixedClock(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	ctx := context.Background()
	userID, err := s.CreateUser(ctx, "Ana", "ana@example.com", "")
	require.NoError(t, err)
	otherID, err := s.CreateUser(ctx, "Bo", "bo@example.com", "")
	require.NoError(t, err)

	first := coach.DailyCheckIn{SleepHours: coach.Int(7), Meals: coach.Text("oatmeal")}
	second := coach.DailyCheckIn{SleepHours: coach.Float(6.5), OtherNotes: coach.Text("long day")}

	_, err = s.RecordCheckIn(ctx, userID, first)
	require.NoError(t, err)
	id2, err := s.RecordCheckIn(ctx, userID, second)
	require.NoError(t, err)
	_, err = s.RecordCheckIn(ctx, otherID, first)
	require.NoError(t, err)

	list, err := s.ListCheckIns(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, id2, list[0].ID)
	assert.Equal(t, second, list[0].Daily)
	assert.Equal(t, first, list[1].Daily)
	assert.True(t, list[0].CreatedAt.After(list[1].CreatedAt))

	list, err = s.ListCheckIns(ctx, userID, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSuggestions(t *testing.T) {
	s := newTestStore(t)
	s.now = fixedClock(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	ctx := context.Background()
	userID, err := s.CreateUser(ctx, "Ana", "ana@example.com", "")
	require.NoError(t, err)
	otherID, err := s.CreateUser(ctx, "Bo", "bo@example.com", "")
	require.NoError(t, err)

	latest, err := s.LatestSuggestion(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, latest)

	_, err = s.RecordSuggestion(ctx, userID, "Drink more water.", "hydration")
	require.NoError(t, err)
	secondID, err := s.RecordSuggestion(ctx, userID, "Go to bed earlier.", "sleep")
	require.NoError(t, err)
	otherSuggestion, err := s.RecordSuggestion(ctx, otherID, "Stretch.", "exercise")
	require.NoError(t, err)

	latest, err = s.LatestSuggestion(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, secondID, latest.ID)
	assert.Equal(t, userID, latest.UserID)
	assert.Equal(t, "Go to bed earlier.", latest.Text)
	assert.Equal(t, "sleep", latest.Focus)
	assert.True(t, latest.Rating.IsAbsent())
	assert.Equal(t, time.Date(2025, 3, 1, 8, 1, 0, 0, time.UTC), latest.CreatedAt.UTC())

	require.NoError(t, s.SetRating(ctx, userID, secondID, "easy"))
	latest, err = s.LatestSuggestion(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "easy", latest.Rating.String())

	err = s.SetRating(ctx, userID, otherSuggestion, "hard")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.SetRating(ctx, userID, 9999, "hard")
	assert.ErrorIs(t, err, ErrNotFound)

	other, err := s.LatestSuggestion(ctx, otherID)
	require.NoError(t, err)
	assert.True(t, other.Rating.IsAbsent())
}

func TestLatestSuggestionTieBreaksOnID(t *testing.T) {
	s := newTestStore(t)
	at := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return at }
	ctx := context.Background()
	userID, err := s.CreateUser(ctx, "Ana", "ana@example.com", "")
	require.NoError(t, err)

	_, err = s.RecordSuggestion(ctx, userID, "first", "mood")
	require.NoError(t, err)
	secondID, err := s.RecordSuggestion(ctx, userID, "second", "mood")
	require.NoError(t, err)

	latest, err := s.LatestSuggestion(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, secondID, latest.ID)
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "a.db?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", sqliteDSN("a.db"))
	assert.Equal(t, "file:a.db?cache=shared&_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", sqliteDSN("file:a.db?cache=shared"))
}
