// Package handlers implements the JSON HTTP API.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"fitness-buddy/internal/coach"
	"fitness-buddy/internal/session"
	"fitness-buddy/internal/store"
)

// Store is the persistence the handlers read and write.
type Store interface {
	GetIntake(ctx context.Context, userID int64) (coach.Intake, error)
	SaveIntake(ctx context.Context, userID int64, update store.IntakeUpdate) error
	HasBaseline(ctx context.Context, userID int64) (bool, error)
	LatestSuggestion(ctx context.Context, userID int64) (*coach.Suggestion, error)
	SetRating(ctx context.Context, userID, suggestionID int64, rating string) error
	ListCheckIns(ctx context.Context, userID int64, limit int) ([]store.CheckIn, error)
	Ping(ctx context.Context) error
}

// Coach produces feedback for a daily check-in.
type Coach interface {
	DailyFeedback(ctx context.Context, userID int64, daily coach.DailyCheckIn) (coach.Result, error)
}

type Handlers struct {
	store    Store
	coach    Coach
	validate *validator.Validate
	logger   *log.Logger
}

func New(st Store, c Coach, logger *log.Logger) *Handlers {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handlers{
		store:    st,
		coach:    c,
		validate: v,
		logger:   logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func fail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": msg})
}

// userID returns the session user set by session.RequireUser.
func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := session.FromContext(r.Context())
	if !ok {
		fail(w, http.StatusUnauthorized, "authentication required")
	}
	return id, ok
}

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	return dec.Decode(dst)
}

// Health reports whether the database is reachable.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Error("Health check failed", "error", err)
		fail(w, http.StatusServiceUnavailable, "Database unavailable.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
