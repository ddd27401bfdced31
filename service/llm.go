package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kifouliw-hash/MYMIR-sub000/config"
	"github.com/kifouliw-hash/MYMIR-sub000/pkg/logger"
)

// failureMessage is the only text a failed analysis exposes to the user;
// the underlying cause goes to the operator log.
const failureMessage = "L'analyse du document a échoué. Veuillez réessayer ultérieurement."

// LLMService calls an OpenAI-compatible chat-completions endpoint.
type LLMService struct {
	config     *config.LLMConfig
	httpClient *http.Client
}

// chatRequest is the outbound chat-completions payload
type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of the completion response we consume
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// AnalysisResult is the typed outcome of one analysis request. When
// Success is false, Message carries a user-safe explanation and the
// remaining fields are zero.
type AnalysisResult struct {
	Success     bool      `json:"success"`
	Analysis    string    `json:"analysis,omitempty"`
	GeneratedAt time.Time `json:"generated_at,omitzero"`
	Model       string    `json:"model,omitempty"`
	Message     string    `json:"message,omitempty"`
}

func NewLLMService(cfg *config.LLMConfig) *LLMService {
	return &LLMService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// Analyze sends the prompt to the text-generation service. Every outcome
// is a typed result; no error crosses this boundary. One attempt per
// call, bounded by the configured client timeout.
func (s *LLMService) Analyze(ctx context.Context, prompt Prompt) AnalysisResult {
	result, err := s.complete(ctx, prompt)
	if err != nil {
		logger.Error(ctx, "analysis request failed", "error", err, "model", s.config.Model)
		return AnalysisResult{Success: false, Message: failureMessage}
	}

	return AnalysisResult{
		Success:     true,
		Analysis:    result,
		GeneratedAt: time.Now().UTC(),
		Model:       s.config.Model,
	}
}

func (s *LLMService) complete(ctx context.Context, prompt Prompt) (string, error) {
	reqBody := chatRequest{
		Model:       s.config.Model,
		Temperature: s.config.Temperature,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.APIURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w, body: %s", err, string(body))
	}

	if resp.StatusCode != http.StatusOK {
		if result.Error != nil {
			return "", fmt.Errorf("completion API error (status %d): %s", resp.StatusCode, result.Error.Message)
		}
		return "", fmt.Errorf("completion API error: status %d", resp.StatusCode)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}

	return result.Choices[0].Message.Content, nil
}
