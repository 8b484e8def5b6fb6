package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const throttleWindow = 15 * time.Minute

// MailThrottle caps how often a lifecycle mail of a given kind is sent to the
// same address. Key format: mail:<kind>:<email>
type MailThrottle struct {
	client *redis.Client
	window time.Duration
}

// NewMailThrottle creates a MailThrottle wrapping the given Redis client.
// window <= 0 falls back to the default 15 minutes.
func NewMailThrottle(client *redis.Client, window time.Duration) *MailThrottle {
	if window <= 0 {
		window = throttleWindow
	}
	return &MailThrottle{client: client, window: window}
}

// Allow reports whether a mail may be sent now and, when it may, claims the
// window so the next attempt within it is suppressed.
func (t *MailThrottle) Allow(ctx context.Context, kind, email string) (bool, error) {
	ok, err := t.client.SetNX(ctx, t.key(kind, email), "1", t.window).Result()
	if err != nil {
		return false, fmt.Errorf("mail throttle: %w", err)
	}
	return ok, nil
}

func (t *MailThrottle) key(kind, email string) string {
	return fmt.Sprintf("mail:%s:%s", kind, email)
}
