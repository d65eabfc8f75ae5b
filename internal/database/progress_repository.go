package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/siwei-li/bible-bot/pkg/models"
)

// ProgressRepository handles database operations for per-user survey progress
type ProgressRepository struct{}

// NewProgressRepository creates a new repository instance
func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{}
}

// progressRow mirrors the user_progress table
type progressRow struct {
	ID          int64     `db:"id"`
	UserID      string    `db:"user_id"`
	Domain      string    `db:"domain"`
	AnsweredIDs string    `db:"answered_ids"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (row *progressRow) toModel() *models.UserProgress {
	return &models.UserProgress{
		ID:        row.ID,
		UserID:    row.UserID,
		Domain:    row.Domain,
		Answered:  decodeAnswered(row.AnsweredIDs),
		CreatedAt: row.CreatedAt.Format(time.RFC3339),
		UpdatedAt: row.UpdatedAt.Format(time.RFC3339),
	}
}

// GetOrCreate returns the user's progress record, persisting a fresh default
// record {domain: "", answered: []} on first contact.
//
// The get-or-create is not atomic: two concurrent first messages from the
// same user can insert duplicate default rows. That is benign here because
// reads take the oldest row and the next write overwrites it.
func (r *ProgressRepository) GetOrCreate(userID string) (*models.UserProgress, error) {
	progress, err := r.get(userID)
	if err == nil {
		return progress, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get user progress: %v", err)
	}

	query := "INSERT INTO user_progress (user_id, domain, answered_ids) VALUES (?, '', '')"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}
	if _, err := DB.Exec(query, userID); err != nil {
		return nil, fmt.Errorf("failed to create user progress: %v", err)
	}

	return r.get(userID)
}

// get returns the oldest progress row for the user
func (r *ProgressRepository) get(userID string) (*models.UserProgress, error) {
	query := "SELECT id, user_id, domain, answered_ids, created_at, updated_at FROM user_progress WHERE user_id = ? ORDER BY id ASC LIMIT 1"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	var row progressRow
	if err := DB.Get(&row, query, userID); err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

// Update re-reads the current record, applies at most one domain change
// and/or appends one answered question id, then writes the merged record
// with a fresh updated_at. Appending an id that is already present is a
// no-op. Last write wins; there is no optimistic concurrency control.
func (r *ProgressRepository) Update(userID string, domain *string, answeredID *int) error {
	progress, err := r.GetOrCreate(userID)
	if err != nil {
		return err
	}

	if domain != nil {
		progress.Domain = *domain
	}
	if answeredID != nil && !progress.HasAnswered(*answeredID) {
		progress.Answered = append(progress.Answered, *answeredID)
	}

	return r.write(progress)
}

// Reset overwrites the user's record to {domain, answered: []}.
// Used when the user (re)starts a domain.
func (r *ProgressRepository) Reset(userID string, domain string) error {
	progress, err := r.GetOrCreate(userID)
	if err != nil {
		return err
	}

	progress.Domain = domain
	progress.Answered = nil
	return r.write(progress)
}

// write persists the merged record
func (r *ProgressRepository) write(progress *models.UserProgress) error {
	query := "UPDATE user_progress SET domain = ?, answered_ids = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if DB.DriverName() == "postgres" {
		query = "UPDATE user_progress SET domain = $1, answered_ids = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3"
	}

	_, err := DB.Exec(query, progress.Domain, encodeAnswered(progress.Answered), progress.ID)
	if err != nil {
		return fmt.Errorf("failed to update user progress: %v", err)
	}
	return nil
}

// Active returns the progress records of users who have selected a domain.
// The reminder sweep uses this to find unfinished surveys.
func (r *ProgressRepository) Active() ([]models.UserProgress, error) {
	rows := []progressRow{}
	err := DB.Select(&rows, "SELECT id, user_id, domain, answered_ids, created_at, updated_at FROM user_progress WHERE domain != '' ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to get active progress: %v", err)
	}

	progress := make([]models.UserProgress, 0, len(rows))
	for i := range rows {
		progress = append(progress, *rows[i].toModel())
	}
	return progress, nil
}

// encodeAnswered serializes answered question ids as comma-joined text
func encodeAnswered(ids []int) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, ",")
}

// decodeAnswered parses comma-joined text back into question ids.
// Malformed entries are skipped.
func decodeAnswered(s string) []int {
	if s == "" {
		return nil
	}
	var ids []int
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
