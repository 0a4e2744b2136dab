package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/beauteq/salonbot/internal/config"
	"github.com/beauteq/salonbot/internal/domain"
)

// ChatMessage is one turn in the model conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ModelGateway produces raw completion text for a conversation. The Ollama
// client implements it; tests use a canned fake.
type ModelGateway interface {
	Chat(ctx context.Context, messages []ChatMessage) (string, error)
}

// OllamaService talks to a local Ollama server. Transport and HTTP failures
// map to domain.ErrModelUnavailable so callers can treat them as retryable.
type OllamaService struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewOllamaService(baseURL, model string) *OllamaService {
	return &OllamaService{
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: config.RequestTimeout},
	}
}

type ollamaRequest struct {
	Model    string         `json:"model"`
	Messages []ChatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options"`
}

type ollamaResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

func (s *OllamaService) Chat(ctx context.Context, messages []ChatMessage) (string, error) {
	payload, err := json.Marshal(ollamaRequest{
		Model:    s.model,
		Messages: messages,
		Stream:   false,
		Options: map[string]any{
			"temperature": 0.1,
			"num_ctx":     8000,
			"top_p":       0.9,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", domain.ErrModelUnavailable, resp.StatusCode)
	}

	var result ollamaResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	return result.Message.Content, nil
}
