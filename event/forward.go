package event

import (
	"context"
	"fmt"

	"github.com/sony/gobreaker"
)

// Publisher sends a serialized event to an external broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// Forwarder returns a handler that relays every event to the broker, using
// the event type as routing key.
func Forwarder(pub Publisher) EventHandler {
	return func(ctx context.Context, evt *Event) error {
		body, err := MarshalEvent(evt)
		if err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}
		if err := pub.Publish(ctx, string(evt.Type), body); err != nil {
			return fmt.Errorf("failed to forward event %s: %w", evt.ID, err)
		}
		return nil
	}
}

type guardedPublisher struct {
	next Publisher
	cb   *gobreaker.CircuitBreaker
}

// Guard routes every publish through cb, so an unreachable broker fails
// fast with gobreaker.ErrOpenState instead of holding a bus worker until
// the confirm timeout.
func Guard(next Publisher, cb *gobreaker.CircuitBreaker) Publisher {
	return &guardedPublisher{next: next, cb: cb}
}

func (p *guardedPublisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	_, err := p.cb.Execute(func() (any, error) {
		return nil, p.next.Publish(ctx, routingKey, body)
	})
	return err
}
