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
)

// Voice settings for synthesized speech.
const (
	elevenLabsModel      = "eleven_multilingual_v2"
	elevenLabsStability  = 0.4
	elevenLabsSimilarity = 0.7
)

const defaultElevenLabsBaseURL = "https://api.elevenlabs.io"

// ElevenLabsSynthesizer synthesizes speech with the ElevenLabs API.
type ElevenLabsSynthesizer struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	voiceID    string
}

// NewElevenLabsSynthesizer creates an ElevenLabsSynthesizer.
func NewElevenLabsSynthesizer(apiKey, voiceID string) *ElevenLabsSynthesizer {
	return &ElevenLabsSynthesizer{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: defaultElevenLabsBaseURL,
		apiKey:  apiKey,
		voiceID: voiceID,
	}
}

type elevenLabsRequest struct {
	Text          string                  `json:"text"`
	ModelID       string                  `json:"model_id"`
	VoiceSettings elevenLabsVoiceSettings `json:"voice_settings"`
}

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize converts text to MP3 audio.
func (s *ElevenLabsSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("no ElevenLabs API key configured")
	}

	body, err := json.Marshal(elevenLabsRequest{
		Text:    text,
		ModelID: elevenLabsModel,
		VoiceSettings: elevenLabsVoiceSettings{
			Stability:       elevenLabsStability,
			SimilarityBoost: elevenLabsSimilarity,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", s.baseURL, s.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("xi-api-key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("synthesis request returned %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	return audio, nil
}

// Ensure ElevenLabsSynthesizer implements ports.Synthesizer.
var _ ports.Synthesizer = (*ElevenLabsSynthesizer)(nil)
