package infrastructure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mbot-dev/multibot/internal/modules/chat/application/ports"
)

// maxSpeechRunes caps the text sent to the translate endpoint, which rejects
// long inputs.
const maxSpeechRunes = 200

const defaultTranslateBaseURL = "https://translate.google.com"

// GoogleTranslateSynthesizer synthesizes speech with the public Google
// Translate text-to-speech endpoint. It needs no API key, which makes it the
// fallback when the primary synthesizer is unavailable.
type GoogleTranslateSynthesizer struct {
	httpClient *http.Client
	baseURL    string
	language   string
}

// NewGoogleTranslateSynthesizer creates a GoogleTranslateSynthesizer for the
// given language code.
func NewGoogleTranslateSynthesizer(language string) *GoogleTranslateSynthesizer {
	return &GoogleTranslateSynthesizer{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:  defaultTranslateBaseURL,
		language: language,
	}
}

// Synthesize converts text to MP3 audio, truncating overlong input.
func (s *GoogleTranslateSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	runes := []rune(text)
	if len(runes) > maxSpeechRunes {
		text = string(runes[:maxSpeechRunes])
	}

	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", s.language)
	query.Set("q", text)

	requestURL := s.baseURL + "/translate_tts?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

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

// Ensure GoogleTranslateSynthesizer implements ports.Synthesizer.
var _ ports.Synthesizer = (*GoogleTranslateSynthesizer)(nil)
