package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const attrKind = "kind"

// Event is the envelope published for every client activity.
type Event struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	Namespace  string          `json:"namespace"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// Events publishes and tails activity events on one channel. A nil
// *Events drops everything.
type Events struct {
	backend   Backend
	channel   string
	namespace string
	now       func() time.Time
}

func NewEvents(backend Backend, channel, namespace string) *Events {
	if backend == nil {
		return nil
	}
	return &Events{
		backend:   backend,
		channel:   channel,
		namespace: namespace,
		now:       time.Now,
	}
}

// Publish wraps payload in an Event and sends it.
func (e *Events) Publish(ctx context.Context, kind string, payload any) error {
	if e == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", kind, err)
	}
	event := Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		Namespace:  e.namespace,
		OccurredAt: e.now().UTC(),
		Data:       data,
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = e.backend.Publish(ctx, e.channel, body, map[string]string{attrKind: kind})
	return err
}

// Tail delivers events to fn until ctx is cancelled. Undecodable
// messages are acked and skipped.
func (e *Events) Tail(ctx context.Context, fn func(Event) error) error {
	if e == nil {
		return fmt.Errorf("activity events are disabled")
	}
	return e.backend.Subscribe(ctx, e.channel, func(ctx context.Context, msg Message) error {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			return nil
		}
		if event.Kind == "" {
			event.Kind = msg.Attributes[attrKind]
		}
		return fn(event)
	})
}

func (e *Events) Close() error {
	if e == nil {
		return nil
	}
	return e.backend.Close()
}
