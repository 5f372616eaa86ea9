package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mbot-dev/multibot/internal/modules/chat/application/ports"
	"github.com/mbot-dev/multibot/internal/modules/chat/domain"
)

// Completion request parameters.
const (
	completionMaxTokens   = 300
	completionTemperature = 0.6
	completionTimeout     = 20 * time.Second
)

// CompletionClient talks to an OpenAI-compatible chat completions endpoint.
type CompletionClient struct {
	httpClient *http.Client
	url        string
	apiKey     string
	model      string
}

// NewCompletionClient creates a CompletionClient for the given endpoint.
func NewCompletionClient(url, apiKey, model string) *CompletionClient {
	return &CompletionClient{
		httpClient: &http.Client{
			Timeout: completionTimeout,
		},
		url:    url,
		apiKey: apiKey,
		model:  model,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends the transcript to the completions endpoint and returns the
// generated reply.
func (c *CompletionClient) Complete(
	ctx context.Context,
	messages []domain.Message,
) (string, error) {
	payload := completionRequest{
		Model:       c.model,
		Messages:    make([]chatMessage, len(messages)),
		MaxTokens:   completionMaxTokens,
		Temperature: completionTemperature,
	}
	for i, message := range messages {
		payload.Messages[i] = chatMessage{Role: message.Role, Content: message.Content}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("completion request returned %d: %s", resp.StatusCode, snippet)
	}

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion response contained no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

// Ensure CompletionClient implements ports.Completer.
var _ ports.Completer = (*CompletionClient)(nil)
