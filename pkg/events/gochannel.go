package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// ChannelBus is an in-process bus used when no broker is reachable.
// Subjects are matched exactly; wildcards are not supported.
type ChannelBus struct {
	pubSub *gochannel.GoChannel
	ctx    context.Context
	cancel context.CancelFunc
}

func NewChannelBus() *ChannelBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &ChannelBus{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermill.NewStdLogger(false, false),
		),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (b *ChannelBus) Publish(_ context.Context, event Event) error {
	data, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("type", event.EventType())
	if err := b.pubSub.Publish(Subject(event.EventType()), msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.EventType(), err)
	}
	return nil
}

func (b *ChannelBus) Subscribe(subject string, durableName string, handler Handler) error {
	messages, err := b.pubSub.Subscribe(b.ctx, subject)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	go func() {
		for msg := range messages {
			var payload map[string]interface{}
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				log.Printf("[ERROR] Failed to unmarshal event on %s: %v", subject, err)
				msg.Ack()
				continue
			}

			eventType := msg.Metadata.Get("type")
			if eventType == "" {
				eventType = strings.TrimPrefix(subject, SubjectPrefix)
			}
			evt := BaseEvent{Type: eventType, Data: payload, OccurredAt: time.Now()}

			if err := handler(msg.Context(), evt); err != nil {
				log.Printf("[WARN] Handler %s failed for %s: %v", durableName, subject, err)
				msg.Nack()
				continue
			}
			msg.Ack()
		}
	}()
	return nil
}

func (b *ChannelBus) Close() {
	b.cancel()
	b.pubSub.Close()
}
