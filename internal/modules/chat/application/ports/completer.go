package ports

import (
	"context"

	"github.com/mbot-dev/multibot/internal/modules/chat/domain"
)

// Completer generates an assistant reply for a conversation transcript.
type Completer interface {
	Complete(ctx context.Context, messages []domain.Message) (string, error)
}
