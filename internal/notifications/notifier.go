// Package notifications delivers committed notification rows to online
// clients through Redis pub/sub. Persistence already happened by the time a
// payload reaches this package; everything here is best effort.
package notifications

import (
	"context"
	"encoding/json"
	"log/slog"
	"runtime/debug"

	"github.com/SelfhostedPro/foss.space/internal/models"

	"github.com/redis/go-redis/v9"
)

// Notifier publishes notification payloads into per-user Redis channels.
// A nil client makes every method a no-op, so the forum keeps working when
// Redis is down or not configured.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// UserChannel returns the pub/sub channel carrying one user's notifications.
func UserChannel(userID string) string {
	return "notifications:user:" + userID
}

// Publish sends the notification to its recipient's channel. Errors are
// logged, not returned: the row is already durable and a missed push only
// delays the client until its next poll.
func (n *Notifier) Publish(ctx context.Context, notification *models.Notification) {
	if n.rdb == nil {
		return
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		slog.ErrorContext(ctx, "marshal notification", "error", err, "notification_id", notification.ID)
		return
	}

	channel := UserChannel(notification.UserID)
	if err := n.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		slog.WarnContext(ctx, "publish notification", "error", err, "channel", channel)
	}
}

// StartPatternSubscriber subscribes to every user channel and calls onMessage
// for each incoming payload, until ctx is cancelled. Used by the delivery
// edge (long-poll or SSE) to learn about fresh rows without polling the
// database.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(channel, payload string),
) error {
	if n.rdb == nil {
		return nil
	}

	sub := n.rdb.PSubscribe(ctx, "notifications:user:*")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							slog.Error("panic in pattern subscriber", "panic", r, "stack", string(debug.Stack()))
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}
