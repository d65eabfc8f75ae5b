package database

import (
	"fmt"
	"strings"

	"github.com/siwei-li/bible-bot/pkg/models"
)

// QuestionRepository handles database operations for survey questions
type QuestionRepository struct{}

// NewQuestionRepository creates a new repository instance
func NewQuestionRepository() *QuestionRepository {
	return &QuestionRepository{}
}

// GetAll returns every question row. Row order (ascending id) is the
// survey order within each domain.
func (r *QuestionRepository) GetAll() ([]models.Question, error) {
	questions := []models.Question{}
	err := DB.Select(&questions, "SELECT id, domain, text FROM questions ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %v", err)
	}
	return questions, nil
}

// GetByDomain returns the questions of one domain in survey order
func (r *QuestionRepository) GetByDomain(domain string) ([]models.Question, error) {
	questions := []models.Question{}

	query := "SELECT id, domain, text FROM questions WHERE domain = ? ORDER BY id ASC"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	err := DB.Select(&questions, query, domain)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions for domain %q: %v", domain, err)
	}
	return questions, nil
}

// Create inserts a question row
func (r *QuestionRepository) Create(question *models.Question) error {
	if DB.DriverName() == "postgres" {
		return DB.QueryRow(
			"INSERT INTO questions (domain, text) VALUES ($1, $2) RETURNING id",
			question.Domain, question.Text,
		).Scan(&question.ID)
	}

	result, err := DB.Exec("INSERT INTO questions (domain, text) VALUES (?, ?)", question.Domain, question.Text)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	question.ID = int(id)
	return nil
}
