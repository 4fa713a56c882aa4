package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"fitness-buddy/internal/coach"
	"fitness-buddy/internal/store"
)

const (
	defaultCheckInLimit = 30
	maxCheckInLimit     = 365
)

type dailyRequest struct {
	Daily *coach.DailyCheckIn `json:"daily"`
}

type ratingRequest struct {
	Rating string `json:"rating" validate:"required,min=1,max=10"`
}

// Daily records a check-in and answers with the model's feedback.
func (h *Handlers) Daily(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req dailyRequest
	if err := decode(w, r, &req); err != nil || req.Daily == nil {
		fail(w, http.StatusBadRequest, "Daily log data is required.")
		return
	}

	res, err := h.coach.DailyFeedback(r.Context(), uid, *req.Daily)
	var genErr *coach.GenerationError
	if errors.As(err, &genErr) {
		h.logger.Error("Daily feedback generation failed", "user_id", uid, "error", err)
		fail(w, http.StatusBadGateway, "Failed to generate daily output.")
		return
	}
	if err != nil {
		h.logger.Error("Daily feedback failed", "user_id", uid, "error", err)
		fail(w, http.StatusInternalServerError, "Failed to process daily log.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":           true,
		"fullFeedback": res.Reply.FullFeedback(),
		"feedback":     res.Reply.Feedback,
		"focus":        res.Reply.Focus,
		"suggestionId": res.SuggestionID,
	})
}

// LatestSuggestion returns the user's most recent suggestion.
func (h *Handlers) LatestSuggestion(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	sg, err := h.store.LatestSuggestion(r.Context(), uid)
	if err != nil {
		h.logger.Error("Failed to load suggestion", "user_id", uid, "error", err)
		fail(w, http.StatusInternalServerError, "Failed to load suggestion.")
		return
	}
	if sg == nil {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "error": "No suggestion found for user."})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"id":         sg.ID,
		"suggestion": sg.Text,
		"rating":     sg.Rating,
		"focus":      sg.Focus,
		"createdAt":  sg.CreatedAt,
	})
}

// RateSuggestion stores the user's rating of one of their suggestions.
func (h *Handlers) RateSuggestion(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		fail(w, http.StatusBadRequest, "Invalid suggestion id.")
		return
	}

	var req ratingRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		fail(w, http.StatusBadRequest, "Rating must be between 1 and 10 characters.")
		return
	}

	err = h.store.SetRating(r.Context(), uid, id, req.Rating)
	if errors.Is(err, store.ErrNotFound) {
		fail(w, http.StatusNotFound, "Suggestion not found.")
		return
	}
	if err != nil {
		h.logger.Error("Failed to save rating", "user_id", uid, "suggestion_id", id, "error", err)
		fail(w, http.StatusInternalServerError, "Failed to save rating.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// ListCheckIns returns the user's recent check-ins, newest first.
func (h *Handlers) ListCheckIns(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	limit := defaultCheckInLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fail(w, http.StatusBadRequest, "Invalid limit.")
			return
		}
		limit = min(n, maxCheckInLimit)
	}

	list, err := h.store.ListCheckIns(r.Context(), uid, limit)
	if err != nil {
		h.logger.Error("Failed to list check-ins", "user_id", uid, "error", err)
		fail(w, http.StatusInternalServerError, "Failed to load check-ins.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "checkIns": list})
}
