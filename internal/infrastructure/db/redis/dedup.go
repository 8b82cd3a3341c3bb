package redis

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Piladin/ZTPAI/internal/core/ports"
)

const defaultDedupTTL = 24 * time.Hour

// NotificationDedup suppresses repeated deliveries of the same notification
// within the TTL window.
// Key format: notify:<fnv64a(address|subject|message)>
type NotificationDedup struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.NotificationDedup = (*NotificationDedup)(nil)

// NewNotificationDedup wraps client. A non-positive ttl selects 24h.
func NewNotificationDedup(client *redis.Client, ttl time.Duration) *NotificationDedup {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &NotificationDedup{client: client, ttl: ttl}
}

// IsDuplicate reports whether this exact notification was already delivered.
func (d *NotificationDedup) IsDuplicate(ctx context.Context, n ports.Notification) (bool, error) {
	c, err := d.client.Exists(ctx, dedupKey(n)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return c > 0, nil
}

// Mark records the notification as delivered until the TTL expires.
func (d *NotificationDedup) Mark(ctx context.Context, n ports.Notification) error {
	return d.client.Set(ctx, dedupKey(n), "1", d.ttl).Err()
}

func dedupKey(n ports.Notification) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(n.Address))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(n.Subject))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(n.Message))
	return fmt.Sprintf("notify:%016x", h.Sum64())
}
