package survey

import (
	"errors"
	"fmt"
	"testing"

	"github.com/siwei-li/bible-bot/pkg/models"
)

type stubSource struct {
	rows []models.Question
	err  error
}

func (s *stubSource) GetAll() ([]models.Question, error) {
	return s.rows, s.err
}

func testRows() []models.Question {
	return []models.Question{
		{ID: 1, Domain: "kinship", Text: "Q1"},
		{ID: 2, Domain: "kinship", Text: "Q2"},
		{ID: 3, Domain: "worship", Text: "W1"},
		{ID: 4, Domain: "kinship", Text: "Q3"},
	}
}

func TestLoadCatalogGroupsByDomainInRowOrder(t *testing.T) {
	catalog := LoadCatalog(&stubSource{rows: testRows()})

	names := catalog.DomainNames()
	if len(names) != 2 || names[0] != "kinship" || names[1] != "worship" {
		t.Fatalf("unexpected domain names: %v", names)
	}

	kinship, ok := catalog.Domain("kinship")
	if !ok {
		t.Fatal("kinship domain not found")
	}
	if len(kinship.Questions) != 3 {
		t.Fatalf("expected 3 kinship questions, got %d", len(kinship.Questions))
	}
	for i, wantID := range []int{1, 2, 4} {
		if kinship.Questions[i].ID != wantID {
			t.Errorf("question %d: expected id %d, got %d", i, wantID, kinship.Questions[i].ID)
		}
	}

	if kinship.First().Text != "Q1" {
		t.Errorf("expected first question Q1, got %q", kinship.First().Text)
	}
}

func TestCatalogDomainLookupIsCaseInsensitive(t *testing.T) {
	catalog := LoadCatalog(&stubSource{rows: testRows()})

	for _, name := range []string{"kinship", "KINSHIP", " Kinship "} {
		if _, ok := catalog.Domain(name); !ok {
			t.Errorf("expected lookup %q to succeed", name)
		}
	}

	if _, ok := catalog.Domain("nonexistent"); ok {
		t.Error("expected lookup of unknown domain to fail")
	}
}

func TestLoadCatalogSoftFailsOnSourceError(t *testing.T) {
	catalog := LoadCatalog(&stubSource{err: errors.New("connection refused")})

	if !catalog.Empty() {
		t.Error("expected empty catalog on source error")
	}
	if names := catalog.DomainNames(); len(names) != 0 {
		t.Errorf("expected no domain names, got %v", names)
	}
}

func TestRemaining(t *testing.T) {
	catalog := LoadCatalog(&stubSource{rows: testRows()})

	tests := []struct {
		name     string
		progress models.UserProgress
		wantIDs  []int
	}{
		{
			name:     "nothing answered",
			progress: models.UserProgress{Domain: "kinship"},
			wantIDs:  []int{1, 2, 4},
		},
		{
			name:     "some answered, order preserved",
			progress: models.UserProgress{Domain: "kinship", Answered: []int{2}},
			wantIDs:  []int{1, 4},
		},
		{
			name:     "all answered",
			progress: models.UserProgress{Domain: "kinship", Answered: []int{1, 2, 4}},
			wantIDs:  nil,
		},
		{
			name:     "unknown domain",
			progress: models.UserProgress{Domain: "nonexistent"},
			wantIDs:  nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			remaining := catalog.Remaining(&tc.progress)
			if fmt.Sprint(idsOf(remaining)) != fmt.Sprint(tc.wantIDs) {
				t.Errorf("expected remaining %v, got %v", tc.wantIDs, idsOf(remaining))
			}
		})
	}
}

func idsOf(questions []models.Question) []int {
	var ids []int
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	return ids
}
