package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ewaste-collection-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	// Per-recipient inbox length cap; old entries fall off.
	inboxMaxLen = 100
	notifyTTL   = 14 * 24 * time.Hour
)

// RedisNotifier delivers notifications into a per-recipient Redis list and
// publishes them on a per-recipient channel for live dashboards.
// Delivery is best-effort; callers log and swallow errors.
type RedisNotifier struct {
	Client *redis.Client
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{Client: client}
}

func inboxKey(recipientID string) string   { return "notifications:" + recipientID }
func channelKey(recipientID string) string { return "notifications:live:" + recipientID }

func (n *RedisNotifier) Notify(ctx context.Context, msg domain.Notification) error {
	if msg.RecipientID == "" {
		return fmt.Errorf("%w: notification recipient must not be empty", domain.ErrValidation)
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("notify %q: marshal: %w", msg.RecipientID, err)
	}

	key := inboxKey(msg.RecipientID)
	pipe := n.Client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, inboxMaxLen-1)
	pipe.Expire(ctx, key, notifyTTL)
	pipe.Publish(ctx, channelKey(msg.RecipientID), payload)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("notify %q: %w: %v", msg.RecipientID, domain.ErrExternal, err)
	}
	return nil
}

// Inbox returns up to limit most recent notifications for a recipient.
func (n *RedisNotifier) Inbox(ctx context.Context, recipientID string, limit int64) ([]domain.Notification, error) {
	raw, err := n.Client.LRange(ctx, inboxKey(recipientID), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("inbox %q: %w: %v", recipientID, domain.ErrExternal, err)
	}

	out := make([]domain.Notification, 0, len(raw))
	for _, item := range raw {
		var msg domain.Notification
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("inbox %q: unmarshal: %w", recipientID, err)
		}
		out = append(out, msg)
	}
	return out, nil
}
