package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"fitness-buddy/internal/store"
)

type profileInput struct {
	AgeYears           *int    `json:"age_years" validate:"omitnil,min=0,max=130"`
	Gender             *string `json:"gender" validate:"omitnil,max=255"`
	Height             *string `json:"height" validate:"omitnil,max=255"`
	UserWeight         *string `json:"user_weight" validate:"omitnil,max=255"`
	MedicalCondition   *string `json:"medical_condition" validate:"omitnil,max=255"`
	ActivityLevel      *string `json:"activity_level" validate:"omitnil,max=255"`
	DietaryPreferences *string `json:"dietary_preferences" validate:"omitnil,max=255"`
}

type preferencesInput struct {
	Intensity         *int    `json:"intensity" validate:"omitnil,min=1,max=10"`
	ExerciseEnjoyment *string `json:"exercise_enjoyment" validate:"omitnil,max=255"`
}

type goalsInput struct {
	PrimaryGoal *string `json:"primary_goal" validate:"omitnil,max=255"`
	ShortGoal   *string `json:"short_goal" validate:"omitnil,max=255"`
	LongGoal    *string `json:"long_goal" validate:"omitnil,max=255"`
	DaysGoal    *int    `json:"days_goal" validate:"omitnil,min=0,max=7"`
}

type baselineInput struct {
	Baseline    *profileInput     `json:"baseline"`
	Preferences *preferencesInput `json:"preferences"`
	Goals       *goalsInput       `json:"goals"`
}

func put[T any](c store.Changes, column string, v *T) {
	if v != nil {
		c[column] = *v
	}
}

func (in baselineInput) update() store.IntakeUpdate {
	var u store.IntakeUpdate
	if p := in.Baseline; p != nil {
		u.Baseline = store.Changes{}
		put(u.Baseline, "age_years", p.AgeYears)
		put(u.Baseline, "gender", p.Gender)
		put(u.Baseline, "height", p.Height)
		put(u.Baseline, "user_weight", p.UserWeight)
		put(u.Baseline, "medical_condition", p.MedicalCondition)
		put(u.Baseline, "activity_level", p.ActivityLevel)
		put(u.Baseline, "dietary_preferences", p.DietaryPreferences)
	}
	if p := in.Preferences; p != nil {
		u.Preferences = store.Changes{}
		put(u.Preferences, "intensity", p.Intensity)
		put(u.Preferences, "exercise_enjoyment", p.ExerciseEnjoyment)
	}
	if g := in.Goals; g != nil {
		u.Goals = store.Changes{}
		put(u.Goals, "primary_goal", g.PrimaryGoal)
		put(u.Goals, "short_goal", g.ShortGoal)
		put(u.Goals, "long_goal", g.LongGoal)
		put(u.Goals, "days_goal", g.DaysGoal)
	}
	return u
}

// GetBaseline returns the user's baseline, preferences and goals. Records
// never filled in are null.
func (h *Handlers) GetBaseline(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	intake, err := h.store.GetIntake(r.Context(), uid)
	if err != nil {
		h.logger.Error("Failed to load baseline", "user_id", uid, "error", err)
		fail(w, http.StatusInternalServerError, "Failed to load baseline.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":          true,
		"baseline":    intake.Profile,
		"preferences": intake.Preferences,
		"goals":       intake.Goals,
	})
}

// SaveBaseline applies a partial update to the intake records. Fields left
// out of the body keep their stored values.
func (h *Handlers) SaveBaseline(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var in baselineInput
	if err := decode(w, r, &in); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := h.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			h.logger.Error("Baseline validation failed", "error", err)
			fail(w, http.StatusBadRequest, "Invalid baseline data.")
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"ok":    false,
			"error": "Invalid baseline data.",
			"fields": lo.Map(verrs, func(fe validator.FieldError, _ int) string {
				_, field, _ := strings.Cut(fe.Namespace(), ".")
				return field
			}),
		})
		return
	}

	if err := h.store.SaveIntake(r.Context(), uid, in.update()); err != nil {
		h.logger.Error("Failed to save baseline", "user_id", uid, "error", err)
		fail(w, http.StatusInternalServerError, "Failed to save baseline.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// CheckBaseline reports whether the user has saved a baseline profile.
func (h *Handlers) CheckBaseline(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	exists, err := h.store.HasBaseline(r.Context(), uid)
	if err != nil {
		h.logger.Error("Failed to check baseline", "user_id", uid, "error", err)
		fail(w, http.StatusInternalServerError, "Failed to check baseline.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "exists": exists})
}
