package coach

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Store is the persistence the daily feedback flow needs.
type Store interface {
	GetIntake(ctx context.Context, userID int64) (Intake, error)
	LatestSuggestion(ctx context.Context, userID int64) (*Suggestion, error)
	RecordCheckIn(ctx context.Context, userID int64, daily DailyCheckIn) (int64, error)
	RecordSuggestion(ctx context.Context, userID int64, text, focus string) (int64, error)
}

// Completer sends a system and a user message to a text-generation model.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// GenerationError marks a failed model call, as opposed to a storage failure.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return "generate feedback: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one daily check-in.
type Result struct {
	CheckInID    int64
	SuggestionID int64
	Reply        Reply
}

// Service turns a daily check-in into model feedback and stores both.
type Service struct {
	store     Store
	completer Completer
	logger    *log.Logger
}

func NewService(store Store, completer Completer, logger *log.Logger) *Service {
	return &Service{
		store:     store,
		completer: completer,
		logger:    logger,
	}
}

// DailyFeedback records the check-in, asks the model for feedback using the
// user's intake and last suggestion, and stores the feedback as the user's
// newest suggestion. Nothing is stored as a suggestion if the model call fails.
func (s *Service) DailyFeedback(ctx context.Context, userID int64, daily DailyCheckIn) (Result, error) {
	intake, err := s.store.GetIntake(ctx, userID)
	if err != nil {
		return Result{}, errors.Wrap(err, "load intake")
	}

	latest, err := s.store.LatestSuggestion(ctx, userID)
	if err != nil {
		return Result{}, errors.Wrap(err, "load latest suggestion")
	}

	checkInID, err := s.store.RecordCheckIn(ctx, userID, daily)
	if err != nil {
		return Result{}, errors.Wrap(err, "record check-in")
	}

	userPrompt := BuildUserPrompt(
		daily,
		LastOf(latest),
		lo.FromPtr(intake.Profile),
		lo.FromPtr(intake.Preferences),
		lo.FromPtr(intake.Goals),
	)
	sum := sha256.Sum256([]byte(userPrompt))
	s.logger.Debug("Compiled daily prompt",
		"user_id", userID,
		"prompt_bytes", len(userPrompt),
		"prompt_sha256", hex.EncodeToString(sum[:8]))

	start := time.Now()
	raw, err := s.completer.Complete(ctx, BuildSystemPrompt(), userPrompt)
	if err != nil {
		return Result{}, &GenerationError{Err: err}
	}
	reply := ParseReply(raw)
	s.logger.Info("Generated daily feedback",
		"user_id", userID,
		"focus", reply.Focus,
		"known_focus", IsFocusArea(reply.Focus),
		"took", time.Since(start))

	suggestionID, err := s.store.RecordSuggestion(ctx, userID, reply.Feedback, reply.Focus)
	if err != nil {
		return Result{}, errors.Wrap(err, "record suggestion")
	}

	return Result{
		CheckInID:    checkInID,
		SuggestionID: suggestionID,
		Reply:        reply,
	}, nil
}
