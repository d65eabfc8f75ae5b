package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/siwei-li/bible-bot/pkg/models"
	"github.com/xuri/excelize/v2"
)

// questionWriter persists imported rows
type questionWriter interface {
	Create(question *models.Question) error
}

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath     string // Path to the Excel or CSV file
	DomainColumn string // Column with the domain name
	TextColumn   string // Column with the question text
	SheetName    string // Name of the sheet to import
	StartRow     int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig(filePath string) ImportConfig {
	return ImportConfig{
		FilePath:     filePath,
		DomainColumn: "A",
		TextColumn:   "B",
		SheetName:    "Sheet1",
		StartRow:     2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Errors         []string
}

// ImportQuestions imports survey questions from an Excel or CSV file.
// Row order in the file becomes the survey order within each domain.
func ImportQuestions(config ImportConfig, questions questionWriter) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return importFromCSV(config, questions)
	}
	return importFromExcel(config, questions)
}

// importFromExcel imports questions from an Excel file
func importFromExcel(config ImportConfig, questions questionWriter) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}

		result.TotalProcessed++

		var domain, text string
		if colIdx := columnToIndex(config.DomainColumn); colIdx < len(row) {
			domain = row[colIdx]
		}
		if colIdx := columnToIndex(config.TextColumn); colIdx < len(row) {
			text = row[colIdx]
		}

		if err := createQuestion(domain, text, questions, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return result, nil
}

// importFromCSV imports questions from a CSV file
func importFromCSV(config ImportConfig, questions questionWriter) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	result := &ImportResult{Errors: make([]string, 0)}

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}

		rowNum++

		// Skip header rows
		if rowNum < config.StartRow {
			continue
		}

		result.TotalProcessed++

		var domain, text string
		if len(row) > 0 {
			domain = row[0]
		}
		if len(row) > 1 {
			text = row[1]
		}

		if err := createQuestion(domain, text, questions, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	return result, nil
}

// createQuestion validates one imported row and persists it
func createQuestion(domain, text string, questions questionWriter, result *ImportResult) error {
	domain = strings.ToLower(strings.TrimSpace(domain))
	text = strings.TrimSpace(text)

	if domain == "" {
		return fmt.Errorf("domain cannot be empty")
	}
	if text == "" {
		return fmt.Errorf("question text cannot be empty")
	}

	question := &models.Question{
		Domain: domain,
		Text:   text,
	}
	if err := questions.Create(question); err != nil {
		return fmt.Errorf("failed to create question: %v", err)
	}

	result.Created++
	return nil
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
