package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/mbot-dev/multibot/internal/modules/chat/domain"
)

var (
	chatGuild   = snowflake.ID(1)
	chatChannel = snowflake.ID(10)
)

func replyInput(prompt string) ReplyInput {
	return ReplyInput{
		GuildID:   chatGuild,
		ChannelID: chatChannel,
		Prompt:    prompt,
	}
}

func TestChatService_Reply(t *testing.T) {
	service, _, _, _, _ := newTestChatService()

	output, err := service.Reply(context.Background(), replyInput("hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Text != "reply to hello" {
		t.Errorf("unexpected reply %q", output.Text)
	}
}

func TestChatService_ReplyMaintainsHistory(t *testing.T) {
	service, completer, _, _, _ := newTestChatService()

	if _, err := service.Reply(context.Background(), replyInput("first")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Reply(context.Background(), replyInput("second")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	transcript := completer.lastTranscript()
	if len(transcript) != 3 {
		t.Fatalf("expected three messages in second transcript, got %d", len(transcript))
	}
	if transcript[0].Role != domain.RoleUser || transcript[0].Content != "first" {
		t.Errorf("unexpected first message: %+v", transcript[0])
	}
	if transcript[1].Role != domain.RoleAssistant {
		t.Errorf("expected assistant reply second, got %+v", transcript[1])
	}
	if transcript[2].Content != "second" {
		t.Errorf("unexpected third message: %+v", transcript[2])
	}
}

func TestChatService_ReplyIsolatesChannels(t *testing.T) {
	service, completer, _, _, _ := newTestChatService()

	if _, err := service.Reply(context.Background(), replyInput("in first channel")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other := ReplyInput{GuildID: chatGuild, ChannelID: snowflake.ID(20), Prompt: "in second channel"}
	if _, err := service.Reply(context.Background(), other); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	transcript := completer.lastTranscript()
	if len(transcript) != 1 {
		t.Errorf("expected fresh transcript for new channel, got %d messages", len(transcript))
	}
}

func TestChatService_ReplyEmptyPrompt(t *testing.T) {
	service, _, _, _, _ := newTestChatService()

	if _, err := service.Reply(context.Background(), replyInput("   ")); !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("expected ErrEmptyPrompt, got %v", err)
	}
}

func TestChatService_ReplyRateLimited(t *testing.T) {
	completer := &mockCompleter{}
	service := NewChatService(
		domain.NewHistory(domain.DefaultHistoryLimit),
		completer,
		NewGuildLimiter(time.Hour, 1),
		nil, nil, nil,
	)

	if _, err := service.Reply(context.Background(), replyInput("one")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Reply(context.Background(), replyInput("two")); !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
}

func TestChatService_ReplyCompleterError(t *testing.T) {
	service, completer, _, _, _ := newTestChatService()
	completer.err = errors.New("upstream down")

	if _, err := service.Reply(context.Background(), replyInput("hello")); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestChatService_SpeakPublishesAndPlays(t *testing.T) {
	service, _, synthesizer, clips, speaker := newTestChatService()

	spoken, err := service.Speak(context.Background(), chatGuild, "hola")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !spoken {
		t.Fatal("expected the reply to be spoken")
	}
	if len(synthesizer.texts) != 1 || synthesizer.texts[0] != "hola" {
		t.Errorf("unexpected synthesized texts %v", synthesizer.texts)
	}
	if len(clips.published) != 1 || string(clips.published[0]) != "audio:hola" {
		t.Errorf("unexpected published clips %v", clips.published)
	}
	if len(speaker.spoken) != 1 || speaker.spoken[0] != "http://clips.local/clips/test" {
		t.Errorf("unexpected spoken clips %v", speaker.spoken)
	}
}

func TestChatService_SpeakSkippedWhenVoiceBusy(t *testing.T) {
	service, _, synthesizer, _, speaker := newTestChatService()
	speaker.canSpeak = false

	spoken, err := service.Speak(context.Background(), chatGuild, "hola")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spoken {
		t.Error("expected speech to be skipped")
	}
	if len(synthesizer.texts) != 0 {
		t.Errorf("expected no synthesis, got %v", synthesizer.texts)
	}
}

func TestChatService_SpeakSkippedWithoutSynthesizer(t *testing.T) {
	completer := &mockCompleter{}
	service := NewChatService(
		domain.NewHistory(domain.DefaultHistoryLimit),
		completer,
		NewGuildLimiter(time.Millisecond, 100),
		nil, nil, nil,
	)

	spoken, err := service.Speak(context.Background(), chatGuild, "hola")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spoken {
		t.Error("expected speech to be skipped")
	}
}

func TestChatService_SpeakSynthesizerError(t *testing.T) {
	service, _, synthesizer, _, _ := newTestChatService()
	synthesizer.err = errors.New("synthesis failed")

	if _, err := service.Speak(context.Background(), chatGuild, "hola"); err == nil {
		t.Fatal("expected error, got nil")
	}
}
