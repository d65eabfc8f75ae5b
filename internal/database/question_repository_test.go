package database

import (
	"testing"

	"github.com/siwei-li/bible-bot/pkg/models"
)

func TestQuestionRoundTripPreservesRowOrder(t *testing.T) {
	setupTestDB(t)
	repo := NewQuestionRepository()

	seed := []models.Question{
		{Domain: "kinship", Text: "Q1"},
		{Domain: "worship", Text: "W1"},
		{Domain: "kinship", Text: "Q2"},
	}
	for i := range seed {
		if err := repo.Create(&seed[i]); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if seed[i].ID == 0 {
			t.Fatalf("expected assigned id for question %d", i)
		}
	}

	all, err := repo.GetAll()
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].ID <= all[i-1].ID {
			t.Errorf("expected ascending ids, got %v then %v", all[i-1].ID, all[i].ID)
		}
	}

	kinship, err := repo.GetByDomain("kinship")
	if err != nil {
		t.Fatalf("GetByDomain failed: %v", err)
	}
	if len(kinship) != 2 || kinship[0].Text != "Q1" || kinship[1].Text != "Q2" {
		t.Errorf("unexpected kinship questions: %v", kinship)
	}
}

func TestResponseLogAppends(t *testing.T) {
	setupTestDB(t)
	repo := NewResponseRepository()

	for i := 0; i < 2; i++ {
		response := &models.Response{
			UserID:     "user-1",
			QuestionID: i + 1,
			UserAnswer: "uncle",
			Validation: "valid",
			Score:      7,
		}
		if err := repo.Create(response); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if response.ID == 0 {
			t.Error("expected assigned id on logged response")
		}
	}

	count, err := repo.CountForUser("user-1")
	if err != nil {
		t.Fatalf("CountForUser failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 logged responses, got %d", count)
	}

	count, err = repo.CountForUser("someone-else")
	if err != nil {
		t.Fatalf("CountForUser failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 logged responses, got %d", count)
	}
}
