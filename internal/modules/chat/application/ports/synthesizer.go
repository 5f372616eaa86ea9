package ports

import "context"

// Synthesizer converts text to spoken audio.
type Synthesizer interface {
	// Synthesize returns the audio for the given text as MP3 bytes.
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
