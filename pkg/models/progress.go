package models

// UserProgress tracks which domain a user is surveying and which questions they have answered
type UserProgress struct {
	ID        int64  `json:"id" db:"id"`
	UserID    string `json:"user_id" db:"user_id"`
	Domain    string `json:"domain" db:"domain"` // empty until the user picks a domain
	Answered  []int  `json:"answered_question_ids"`
	CreatedAt string `json:"created_at" db:"created_at"`
	UpdatedAt string `json:"updated_at" db:"updated_at"`
}

// HasAnswered reports whether the question id is already in the answered set
func (p *UserProgress) HasAnswered(questionID int) bool {
	for _, id := range p.Answered {
		if id == questionID {
			return true
		}
	}
	return false
}
