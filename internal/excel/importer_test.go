package excel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/siwei-li/bible-bot/pkg/models"
)

type memWriter struct {
	created []models.Question
	nextID  int
}

func (m *memWriter) Create(question *models.Question) error {
	m.nextID++
	question.ID = m.nextID
	m.created = append(m.created, *question)
	return nil
}

func TestImportQuestionsFromCSV(t *testing.T) {
	csv := "domain,question\n" +
		"kinship,What do you call your mother's brother?\n" +
		"Kinship,What do you call your father's brother?\n" +
		",missing domain\n" +
		"worship,\n" +
		"worship,Where do you gather?\n"

	path := filepath.Join(t.TempDir(), "questions.csv")
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	writer := &memWriter{}
	result, err := ImportQuestions(DefaultImportConfig(path), writer)
	if err != nil {
		t.Fatalf("ImportQuestions failed: %v", err)
	}

	if result.TotalProcessed != 5 {
		t.Errorf("expected 5 processed rows, got %d", result.TotalProcessed)
	}
	if result.Created != 3 {
		t.Errorf("expected 3 created questions, got %d", result.Created)
	}
	if len(result.Errors) != 2 {
		t.Errorf("expected 2 row errors, got %v", result.Errors)
	}

	if len(writer.created) != 3 {
		t.Fatalf("expected 3 created questions, got %d", len(writer.created))
	}
	// Domain names are normalized to lowercase
	if writer.created[1].Domain != "kinship" {
		t.Errorf("expected normalized domain kinship, got %q", writer.created[1].Domain)
	}
	if writer.created[2].Domain != "worship" {
		t.Errorf("expected domain worship, got %q", writer.created[2].Domain)
	}
}

func TestColumnToIndex(t *testing.T) {
	tests := []struct {
		column string
		index  int
	}{
		{"A", 0},
		{"B", 1},
		{"Z", 25},
		{"AA", 26},
		{"b", 1},
	}

	for _, tc := range tests {
		if got := columnToIndex(tc.column); got != tc.index {
			t.Errorf("columnToIndex(%q) = %d, want %d", tc.column, got, tc.index)
		}
	}
}
