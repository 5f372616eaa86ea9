package usecases

import (
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

func TestGuildLimiter_AllowsBurstThenRejects(t *testing.T) {
	limiter := NewGuildLimiter(time.Hour, 2)
	guild := snowflake.ID(1)

	if !limiter.Allow(guild) {
		t.Fatal("expected first request to be allowed")
	}
	if !limiter.Allow(guild) {
		t.Fatal("expected second request to be allowed")
	}
	if limiter.Allow(guild) {
		t.Error("expected third request to be rejected")
	}
}

func TestGuildLimiter_GuildsAreIndependent(t *testing.T) {
	limiter := NewGuildLimiter(time.Hour, 1)

	if !limiter.Allow(snowflake.ID(1)) {
		t.Fatal("expected first guild to be allowed")
	}
	if limiter.Allow(snowflake.ID(1)) {
		t.Error("expected first guild to be exhausted")
	}
	if !limiter.Allow(snowflake.ID(2)) {
		t.Error("expected second guild to have its own budget")
	}
}

func TestNewGuildLimiter_MinimumBurst(t *testing.T) {
	limiter := NewGuildLimiter(time.Hour, 0)

	if !limiter.Allow(snowflake.ID(1)) {
		t.Error("expected at least one request to be allowed")
	}
}
