package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/mbot-dev/multibot/internal/modules/chat/application/ports"
	"github.com/mbot-dev/multibot/internal/modules/chat/domain"
)

// ChatService generates conversational replies and optionally voices them in
// the guild's voice channel.
type ChatService struct {
	history   *domain.History
	completer ports.Completer
	limiter   *GuildLimiter

	synthesizer ports.Synthesizer
	clips       ports.ClipPublisher
	speaker     ports.Speaker
}

// NewChatService creates a ChatService. The synthesizer, clip publisher, and
// speaker may be nil, in which case replies are text-only.
func NewChatService(
	history *domain.History,
	completer ports.Completer,
	limiter *GuildLimiter,
	synthesizer ports.Synthesizer,
	clips ports.ClipPublisher,
	speaker ports.Speaker,
) *ChatService {
	return &ChatService{
		history:     history,
		completer:   completer,
		limiter:     limiter,
		synthesizer: synthesizer,
		clips:       clips,
		speaker:     speaker,
	}
}

// ReplyInput describes one prompt from a user.
type ReplyInput struct {
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	Prompt    string
}

// ReplyOutput contains the generated reply.
type ReplyOutput struct {
	Text string
}

// Reply generates a reply to the prompt, maintaining per-channel
// conversation history.
func (s *ChatService) Reply(ctx context.Context, input ReplyInput) (*ReplyOutput, error) {
	prompt := strings.TrimSpace(input.Prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	if !s.limiter.Allow(input.GuildID) {
		return nil, ErrRateLimited
	}

	key := conversationKey(input.ChannelID)
	s.history.Append(key, domain.RoleUser, prompt)

	text, err := s.completer.Complete(ctx, s.history.Messages(key))
	if err != nil {
		return nil, fmt.Errorf("failed to generate reply: %w", err)
	}

	s.history.Append(key, domain.RoleAssistant, text)

	return &ReplyOutput{Text: text}, nil
}

// Speak voices the reply in the guild's voice channel. It reports whether
// the reply was spoken; the reply is skipped without error when speech is
// unconfigured or the guild's voice connection is absent or busy.
func (s *ChatService) Speak(ctx context.Context, guildID snowflake.ID, text string) (bool, error) {
	if s.synthesizer == nil || s.clips == nil || s.speaker == nil {
		return false, nil
	}
	if !s.speaker.CanSpeak(guildID) {
		slog.Debug("skipping speech, voice connection absent or busy", "guild", guildID)
		return false, nil
	}

	data, err := s.synthesizer.Synthesize(ctx, text)
	if err != nil {
		return false, fmt.Errorf("failed to synthesize speech: %w", err)
	}

	clipURL, err := s.clips.Publish(data)
	if err != nil {
		return false, fmt.Errorf("failed to publish clip: %w", err)
	}

	if err := s.speaker.Speak(ctx, guildID, clipURL); err != nil {
		return false, fmt.Errorf("failed to play clip: %w", err)
	}

	return true, nil
}

func conversationKey(channelID snowflake.ID) string {
	return fmt.Sprintf("chan_%d", channelID)
}
