package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/mbot-dev/multibot/internal/modules/chat/domain"
)

// mockCompleter echoes the last user message with a fixed prefix and records
// the transcripts it received.
type mockCompleter struct {
	mu          sync.Mutex
	transcripts [][]domain.Message
	err         error
}

func (m *mockCompleter) Complete(_ context.Context, messages []domain.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	transcript := make([]domain.Message, len(messages))
	copy(transcript, messages)
	m.transcripts = append(m.transcripts, transcript)

	if m.err != nil {
		return "", m.err
	}
	return "reply to " + messages[len(messages)-1].Content, nil
}

func (m *mockCompleter) lastTranscript() []domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.transcripts) == 0 {
		return nil
	}
	return m.transcripts[len(m.transcripts)-1]
}

// mockSynthesizer returns fixed bytes.
type mockSynthesizer struct {
	texts []string
	err   error
}

func (m *mockSynthesizer) Synthesize(_ context.Context, text string) ([]byte, error) {
	m.texts = append(m.texts, text)
	if m.err != nil {
		return nil, m.err
	}
	return []byte("audio:" + text), nil
}

// mockClipPublisher returns a fixed URL.
type mockClipPublisher struct {
	published [][]byte
	err       error
}

func (m *mockClipPublisher) Publish(data []byte) (string, error) {
	m.published = append(m.published, data)
	if m.err != nil {
		return "", m.err
	}
	return "http://clips.local/clips/test", nil
}

// mockSpeaker records spoken clip URLs.
type mockSpeaker struct {
	canSpeak bool
	spoken   []string
	err      error
}

func (m *mockSpeaker) CanSpeak(_ snowflake.ID) bool {
	return m.canSpeak
}

func (m *mockSpeaker) Speak(_ context.Context, _ snowflake.ID, clipURL string) error {
	if m.err != nil {
		return m.err
	}
	m.spoken = append(m.spoken, clipURL)
	return nil
}

func newTestChatService() (*ChatService, *mockCompleter, *mockSynthesizer, *mockClipPublisher, *mockSpeaker) {
	completer := &mockCompleter{}
	synthesizer := &mockSynthesizer{}
	clips := &mockClipPublisher{}
	speaker := &mockSpeaker{canSpeak: true}

	service := NewChatService(
		domain.NewHistory(domain.DefaultHistoryLimit),
		completer,
		NewGuildLimiter(time.Millisecond, 100),
		synthesizer,
		clips,
		speaker,
	)
	return service, completer, synthesizer, clips, speaker
}
