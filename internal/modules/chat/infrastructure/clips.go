package infrastructure

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mbot-dev/multibot/internal/modules/chat/application/ports"
)

// Clip retention parameters. Clips only need to live long enough for the
// audio node to fetch them.
const (
	clipTTL         = 10 * time.Minute
	clipSweepPeriod = time.Minute
)

type clip struct {
	data     []byte
	storedAt time.Time
}

// ClipServer stores synthesized audio clips in memory and serves them over
// HTTP so the audio node can fetch them by URL.
type ClipServer struct {
	app     *fiber.App
	baseURL string

	mu    sync.Mutex
	clips map[string]clip

	done chan struct{}
}

// NewClipServer creates a ClipServer. Published clip URLs are rooted at
// baseURL, which must be reachable from the audio node.
func NewClipServer(baseURL string) *ClipServer {
	s := &ClipServer{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
		}),
		baseURL: strings.TrimRight(baseURL, "/"),
		clips:   make(map[string]clip),
		done:    make(chan struct{}),
	}

	s.app.Get("/clips/:id", s.handleGetClip)

	go s.sweepExpired()

	return s
}

// Listen serves clips on the given address. It blocks until Shutdown.
func (s *ClipServer) Listen(address string) error {
	return s.app.Listen(address)
}

// Publish stores a clip and returns its URL.
func (s *ClipServer) Publish(data []byte) (string, error) {
	id := uuid.NewString()

	s.mu.Lock()
	s.clips[id] = clip{data: data, storedAt: time.Now()}
	s.mu.Unlock()

	return s.baseURL + "/clips/" + id, nil
}

// Shutdown stops the HTTP server and the expiry sweeper.
func (s *ClipServer) Shutdown() error {
	close(s.done)
	return s.app.Shutdown()
}

func (s *ClipServer) handleGetClip(c *fiber.Ctx) error {
	id := c.Params("id")

	s.mu.Lock()
	stored, ok := s.clips[id]
	s.mu.Unlock()

	if !ok {
		return c.SendStatus(fiber.StatusNotFound)
	}

	c.Set(fiber.HeaderContentType, "audio/mpeg")
	return c.Send(stored.data)
}

func (s *ClipServer) sweepExpired() {
	ticker := time.NewTicker(clipSweepPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-clipTTL)

			s.mu.Lock()
			for id, stored := range s.clips {
				if stored.storedAt.Before(cutoff) {
					delete(s.clips, id)
				}
			}
			remaining := len(s.clips)
			s.mu.Unlock()

			slog.Debug("swept expired clips", "remaining", remaining)
		}
	}
}

// Ensure ClipServer implements ports.ClipPublisher.
var _ ports.ClipPublisher = (*ClipServer)(nil)
