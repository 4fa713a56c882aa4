package coach

import "time"

// Profile is the demographic part of a user's baseline.
type Profile struct {
	AgeYears           Value `json:"age_years" db:"age_years"`
	Gender             Value `json:"gender" db:"gender"`
	Height             Value `json:"height" db:"height"`
	UserWeight         Value `json:"user_weight" db:"user_weight"`
	MedicalCondition   Value `json:"medical_condition" db:"medical_condition"`
	ActivityLevel      Value `json:"activity_level" db:"activity_level"`
	DietaryPreferences Value `json:"dietary_preferences" db:"dietary_preferences"`
}

type Preferences struct {
	// Intensity is the desired difficulty of suggestions, 1-10.
	Intensity         Value `json:"intensity" db:"intensity"`
	ExerciseEnjoyment Value `json:"exercise_enjoyment" db:"exercise_enjoyment"`
}

type Goals struct {
	PrimaryGoal Value `json:"primary_goal" db:"primary_goal"`
	ShortGoal   Value `json:"short_goal" db:"short_goal"`
	LongGoal    Value `json:"long_goal" db:"long_goal"`
	DaysGoal    Value `json:"days_goal" db:"days_goal"`
}

// Intake groups the three baseline records of a user. A nil record has
// never been filled in.
type Intake struct {
	Profile     *Profile     `json:"baseline"`
	Preferences *Preferences `json:"preferences"`
	Goals       *Goals       `json:"goals"`
}

// DailyCheckIn is one day's self-reported activity.
type DailyCheckIn struct {
	SleepHours           Value `json:"sleepHours"`
	Hydration            Value `json:"hydration"`
	Meals                Value `json:"meals"`
	ExerciseType         Value `json:"exerciseType"`
	ExerciseDuration     Value `json:"exerciseDuration"`
	WorkoutFeelingDuring Value `json:"workoutFeelingDuring"`
	WorkoutFeelingAfter  Value `json:"workoutFeelingAfter"`
	EnergyLevel          Value `json:"energyLevel"`
	WorkedWell           Value `json:"workedWell"`
	Followed             Value `json:"followed"`
	OtherNotes           Value `json:"otherNotes"`
}

// LastSuggestion is what the user was told last time and how they rated it.
type LastSuggestion struct {
	Suggestion Value `json:"suggestion"`
	Rating     Value `json:"rating"`
}

// Suggestion is a stored piece of feedback.
type Suggestion struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Text      string    `json:"suggestion" db:"suggestion"`
	Focus     string    `json:"focus" db:"focus"`
	Rating    Value     `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// LastOf returns the prompt view of s. A nil suggestion yields an empty
// LastSuggestion, which renders with absent tokens.
func LastOf(s *Suggestion) LastSuggestion {
	if s == nil {
		return LastSuggestion{}
	}
	return LastSuggestion{
		Suggestion: Text(s.Text),
		Rating:     s.Rating,
	}
}
