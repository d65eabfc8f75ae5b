package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/siwei-li/bible-bot/pkg/models"
)

// Client represents a client for the OpenAI chat completions API
type Client struct {
	apiKey      string
	apiURL      string
	model       string
	temperature float64
}

// New creates a new client
func New() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}

	return &Client{
		apiKey: apiKey,
		apiURL: "https://api.openai.com/v1/chat/completions",
		model:  "gpt-3.5-turbo",
		// Low temperature keeps the structured output (mostly) deterministic
		temperature: 0.3,
	}, nil
}

// Message represents a message in the chat conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a request to the chat completions API
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

// ChatResponse represents a response from the chat completions API
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// promptQuestion is the question shape embedded in the prompt
type promptQuestion struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// SuggestNextQuestion asks the model to validate the user's answer and pick
// the most relevant remaining question. It returns the model's raw text,
// which is expected (but not guaranteed) to be one JSON object with the
// keys validation, score, next_id and reason.
func (c *Client) SuggestNextQuestion(userAnswer, domain string, remaining []models.Question) (string, error) {
	prompt, err := suggestionPrompt(userAnswer, domain, remaining)
	if err != nil {
		return "", err
	}

	request := ChatRequest{
		Model:       c.model,
		Messages:    []Message{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequest("POST", c.apiURL, bytes.NewBuffer(requestData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	var response ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %v", err)
	}

	if response.Error != nil {
		return "", fmt.Errorf("API error: %s", response.Error.Message)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

// suggestionPrompt builds the single validation-and-selection prompt
func suggestionPrompt(userAnswer, domain string, remaining []models.Question) (string, error) {
	questions := make([]promptQuestion, 0, len(remaining))
	for _, q := range remaining {
		questions = append(questions, promptQuestion{ID: q.ID, Text: q.Text})
	}

	questionList, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal remaining questions: %v", err)
	}

	prompt := fmt.Sprintf(`User response: '%s' for domain '%s'.
Remaining questions: %s.

1. Validate/clean the response: flag errors, suggest corrections (linguistic focus).
2. Suggest the next question ID (1-based from remaining) that's most relevant, with 1-sentence reason.
Output JSON: {"validation": "cleaned text or 'valid'", "score": 1-10, "next_id": int, "reason": "str"}`,
		userAnswer, domain, questionList)

	return prompt, nil
}
