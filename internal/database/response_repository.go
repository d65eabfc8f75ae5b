package database

import (
	"fmt"

	"github.com/siwei-li/bible-bot/pkg/models"
)

// ResponseRepository handles the append-only answer log
type ResponseRepository struct{}

// NewResponseRepository creates a new repository instance
func NewResponseRepository() *ResponseRepository {
	return &ResponseRepository{}
}

// Create appends one response row. Rows are never updated or deleted.
func (r *ResponseRepository) Create(response *models.Response) error {
	if DB.DriverName() == "postgres" {
		err := DB.QueryRow(
			"INSERT INTO responses (user_id, question_id, user_answer, validation, score) VALUES ($1, $2, $3, $4, $5) RETURNING id",
			response.UserID, response.QuestionID, response.UserAnswer, response.Validation, response.Score,
		).Scan(&response.ID)
		if err != nil {
			return fmt.Errorf("failed to log response: %v", err)
		}
		return nil
	}

	result, err := DB.Exec(
		"INSERT INTO responses (user_id, question_id, user_answer, validation, score) VALUES (?, ?, ?, ?, ?)",
		response.UserID, response.QuestionID, response.UserAnswer, response.Validation, response.Score,
	)
	if err != nil {
		return fmt.Errorf("failed to log response: %v", err)
	}
	response.ID, _ = result.LastInsertId()
	return nil
}

// CountForUser returns how many responses a user has logged
func (r *ResponseRepository) CountForUser(userID string) (int, error) {
	query := "SELECT COUNT(*) FROM responses WHERE user_id = ?"
	if DB.DriverName() == "postgres" {
		query = "SELECT COUNT(*) FROM responses WHERE user_id = $1"
	}

	var count int
	if err := DB.Get(&count, query, userID); err != nil {
		return 0, err
	}
	return count, nil
}
