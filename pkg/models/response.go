package models

// Response is one logged answer together with the model's validation verdict
type Response struct {
	ID         int64  `json:"id" db:"id"`
	UserID     string `json:"user_id" db:"user_id"`
	QuestionID int    `json:"question_id" db:"question_id"`
	UserAnswer string `json:"user_answer" db:"user_answer"`
	Validation string `json:"validation" db:"validation"`
	Score      int    `json:"score" db:"score"`
	CreatedAt  string `json:"created_at" db:"created_at"`
}
