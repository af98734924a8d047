package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Envelope is the wire form of an event on the bus.
type Envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt string                 `json:"occurred_at"`
}

// Bus is an in-process pub/sub for planner events, backed by watermill's
// gochannel transport. Everything runs in one process, so no broker is
// involved; subscribers receive events on their own goroutines.
type Bus struct {
	channel *gochannel.GoChannel
}

func NewBus() *Bus {
	return &Bus{
		channel: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
		}, watermill.NopLogger{}),
	}
}

// Publish sends an event to every subscriber of the topic. Publishing never
// blocks the caller beyond the channel buffer.
func (b *Bus) Publish(topic string, event Event) error {
	payload, err := json.Marshal(Envelope{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp().UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.EventType(), err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	return b.channel.Publish(topic, msg)
}

// Subscribe returns a channel of decoded envelopes for the topic. The
// channel closes when ctx is canceled.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan Envelope, error) {
	messages, err := b.channel.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}
	out := make(chan Envelope, 64)
	go func() {
		defer close(out)
		for msg := range messages {
			var env Envelope
			if err := json.Unmarshal(msg.Payload, &env); err == nil {
				out <- env
			}
			msg.Ack()
		}
	}()
	return out, nil
}

func (b *Bus) Close() error {
	return b.channel.Close()
}
