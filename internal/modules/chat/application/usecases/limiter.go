package usecases

import (
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/time/rate"
)

// GuildLimiter applies an independent token bucket per guild.
type GuildLimiter struct {
	mu       sync.Mutex
	limiters map[snowflake.ID]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewGuildLimiter creates a GuildLimiter refilling one token per interval
// with the given burst size.
func NewGuildLimiter(interval time.Duration, burst int) *GuildLimiter {
	if burst < 1 {
		burst = 1
	}
	return &GuildLimiter{
		limiters: make(map[snowflake.ID]*rate.Limiter),
		limit:    rate.Every(interval),
		burst:    burst,
	}
}

// Allow reports whether the guild may make another request right now.
func (l *GuildLimiter) Allow(guildID snowflake.ID) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[guildID]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[guildID] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}
