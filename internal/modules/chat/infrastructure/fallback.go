package infrastructure

import (
	"context"
	"log/slog"

	"github.com/mbot-dev/multibot/internal/modules/chat/application/ports"
)

// FallbackSynthesizer tries the primary synthesizer and falls back to the
// secondary when it fails.
type FallbackSynthesizer struct {
	primary  ports.Synthesizer
	fallback ports.Synthesizer
}

// NewFallbackSynthesizer creates a FallbackSynthesizer.
func NewFallbackSynthesizer(primary, fallback ports.Synthesizer) *FallbackSynthesizer {
	return &FallbackSynthesizer{
		primary:  primary,
		fallback: fallback,
	}
}

// Synthesize converts text to audio, preferring the primary synthesizer.
func (s *FallbackSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	audio, err := s.primary.Synthesize(ctx, text)
	if err == nil {
		return audio, nil
	}

	slog.Warn("primary synthesizer failed, using fallback", "error", err)
	return s.fallback.Synthesize(ctx, text)
}

// Ensure FallbackSynthesizer implements ports.Synthesizer.
var _ ports.Synthesizer = (*FallbackSynthesizer)(nil)
