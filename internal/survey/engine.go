package survey

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/siwei-li/bible-bot/pkg/models"
)

// CompletionMessage is sent once every question of a domain is answered
const CompletionMessage = "All questions answered! Thanks!"

// Suggestion is the structured verdict expected from the model
type Suggestion struct {
	Validation string `json:"validation"`
	Score      int    `json:"score"`
	NextID     int    `json:"next_id"`
	Reason     string `json:"reason"`
}

// Failure kinds of the suggestion step. Both collapse into the
// deterministic first-remaining fallback; they exist so that the fallback
// is an explicit branch rather than a broad catch.
var (
	// ErrBadResponse means the model's text did not parse as a suggestion
	ErrBadResponse = errors.New("model response is not a valid suggestion")
	// ErrUnknownQuestion means the model picked a question that is not remaining
	ErrUnknownQuestion = errors.New("model picked a question that is not remaining")
)

// validator produces the model's raw verdict text for an answer
type validator interface {
	SuggestNextQuestion(userAnswer, domain string, remaining []models.Question) (string, error)
}

// progressStore is the persistence seam for progress mutations
type progressStore interface {
	Update(userID string, domain *string, answeredID *int) error
}

// responseLog is the persistence seam for the answer log
type responseLog interface {
	Create(response *models.Response) error
}

// Engine runs the per-answer suggestion step: validate the user's free-text
// answer with the model, log it, advance progress, and produce the reply.
type Engine struct {
	catalog   *Catalog
	validator validator
	progress  progressStore
	responses responseLog
}

// NewEngine creates a suggestion engine over the given catalog and stores
func NewEngine(catalog *Catalog, v validator, progress progressStore, responses responseLog) *Engine {
	return &Engine{
		catalog:   catalog,
		validator: v,
		progress:  progress,
		responses: responses,
	}
}

// Suggest handles one free-text answer and returns the reply text. Every
// failure past this point degrades into the deterministic fallback; nothing
// is raised to the caller.
func (e *Engine) Suggest(progress *models.UserProgress, answer string) string {
	remaining := e.catalog.Remaining(progress)
	if len(remaining) == 0 {
		return CompletionMessage
	}

	reply, err := e.suggestFromModel(progress, answer, remaining)
	if err == nil {
		return reply
	}

	switch {
	case errors.Is(err, ErrBadResponse), errors.Is(err, ErrUnknownQuestion):
		log.Printf("Suggestion rejected for user %s: %v", progress.UserID, err)
	default:
		log.Printf("Error getting suggestion for user %s: %v", progress.UserID, err)
	}

	// Deterministic fallback: first remaining question, no retry.
	next := remaining[0]
	e.markAnswered(progress.UserID, next.ID)
	return "Next: " + next.Text
}

// suggestFromModel performs the single model call and interprets its verdict
func (e *Engine) suggestFromModel(progress *models.UserProgress, answer string, remaining []models.Question) (string, error) {
	raw, err := e.validator.SuggestNextQuestion(answer, progress.Domain, remaining)
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}

	var verdict Suggestion
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	// The prompt asks for a 1-based index into the remaining list, but
	// next_id has always been resolved by matching question ids. The mapping
	// is ambiguous; until that is settled we keep the id match and fail
	// closed when nothing matches.
	var next *models.Question
	for i := range remaining {
		if remaining[i].ID == verdict.NextID {
			next = &remaining[i]
			break
		}
	}
	if next == nil {
		return "", fmt.Errorf("%w: next_id %d", ErrUnknownQuestion, verdict.NextID)
	}

	// Log the response. The logged question id is the first remaining
	// question's, not the selected one — kept exactly as the bot has always
	// behaved.
	e.logResponse(progress.UserID, remaining[0].ID, answer, verdict)

	e.markAnswered(progress.UserID, next.ID)

	return fmt.Sprintf("Validation: %s (Score: %d/10)\nNext: %s", verdict.Validation, verdict.Score, next.Text), nil
}

// markAnswered appends the question id to the user's answered set.
// A persistence failure is reported and the conversation continues.
func (e *Engine) markAnswered(userID string, questionID int) {
	if err := e.progress.Update(userID, nil, &questionID); err != nil {
		log.Printf("Error updating progress for user %s: %v", userID, err)
	}
}

// logResponse appends one answer-log row, fire-and-forget
func (e *Engine) logResponse(userID string, questionID int, answer string, verdict Suggestion) {
	response := &models.Response{
		UserID:     userID,
		QuestionID: questionID,
		UserAnswer: answer,
		Validation: verdict.Validation,
		Score:      verdict.Score,
	}
	if err := e.responses.Create(response); err != nil {
		log.Printf("Error logging response for user %s: %v", userID, err)
	}
}
