package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/yourusername/spatial-quiz-api/internal/pkg/logger"
)

// Consume читает события топика до отмены ctx и передаёт их в handler.
// Сообщения с некорректным JSON подтверждаются и пропускаются.
func Consume(ctx context.Context, sub message.Subscriber, topic string, log *logger.Logger, handler func(SessionEvent)) error {
	messages, err := sub.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var event SessionEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				log.Warn("Skipping malformed session event", "message_uuid", msg.UUID, "error", err)
				msg.Ack()
				continue
			}
			handler(event)
			msg.Ack()
		}
	}
}
