package progression

import (
	"context"
	"encoding/json"
	"time"

	"github.com/timechallenge/backend/pkg/pubsub"
	"github.com/timechallenge/backend/pkg/xcontext"
)

type publisher struct {
	topic     string
	publisher pubsub.Publisher
}

// NewPublisher returns a Notifier forwarding events to topic. The events are
// applied by a subscriber running Handler.
func NewPublisher(topic string, p pubsub.Publisher) *publisher {
	return &publisher{topic: topic, publisher: p}
}

func (p *publisher) NotifyAttempt(ctx context.Context, event Event) error {
	b, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.publisher.Publish(ctx, p.topic, &pubsub.Pack{
		Key: []byte(event.UserID),
		Msg: b,
	})
}

// Handler decodes events published by NewPublisher and passes them to n.
func Handler(n Notifier) pubsub.SubscribeHandler {
	return func(ctx context.Context, pack *pubsub.Pack, t time.Time) {
		var event Event
		if err := json.Unmarshal(pack.Msg, &event); err != nil {
			xcontext.Logger(ctx).Errorf("Unable to unmarshal attempt event: %v", err)
			return
		}

		if err := n.NotifyAttempt(ctx, event); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot apply attempt event of user %s: %v", event.UserID, err)
		}
	}
}
