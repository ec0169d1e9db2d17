package mq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sideline-app/client/config"
)

// memoryBroker delivers published messages to Subscribe synchronously.
type memoryBroker struct {
	published []Message
	channels  []string
	closed    bool
}

func (m *memoryBroker) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	m.channels = append(m.channels, channel)
	m.published = append(m.published, Message{ID: "m1", Data: data, Attributes: attrs})
	return "m1", nil
}

func (m *memoryBroker) Subscribe(ctx context.Context, channel string, handler Handler) error {
	for _, msg := range m.published {
		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (m *memoryBroker) Close() error {
	m.closed = true
	return nil
}

func TestEventsPublishAndTail(t *testing.T) {
	broker := &memoryBroker{}
	events := NewEvents(broker, "sideline.activity", "default")
	events.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	payload := map[string]any{"application_id": 31, "status": "accepted"}
	if err := events.Publish(context.Background(), "application.status_changed", payload); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if broker.channels[0] != "sideline.activity" {
		t.Errorf("channel = %q", broker.channels[0])
	}
	if got := broker.published[0].Attributes["kind"]; got != "application.status_changed" {
		t.Errorf("kind attribute = %q", got)
	}

	broker.published = append(broker.published, Message{Data: []byte("not json")})

	var got []Event
	err := events.Tail(context.Background(), func(ev Event) error {
		got = append(got, ev)
		return nil
	})
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("events = %+v, want 1", got)
	}
	ev := got[0]
	if ev.Kind != "application.status_changed" || ev.Namespace != "default" || ev.ID == "" {
		t.Errorf("event = %+v", ev)
	}
	if !ev.OccurredAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("OccurredAt = %v", ev.OccurredAt)
	}
	var data map[string]any
	if err := json.Unmarshal(ev.Data, &data); err != nil || data["status"] != "accepted" {
		t.Errorf("data = %s (%v)", ev.Data, err)
	}

	if err := events.Close(); err != nil || !broker.closed {
		t.Errorf("Close() = %v, closed = %v", err, broker.closed)
	}
}

func TestNilEvents(t *testing.T) {
	events := NewEvents(nil, "c", "ns")
	if events != nil {
		t.Fatal("NewEvents(nil) should return nil")
	}
	if err := events.Publish(context.Background(), "x", nil); err != nil {
		t.Errorf("Publish() on nil = %v", err)
	}
	if err := events.Tail(context.Background(), nil); err == nil {
		t.Error("Tail() on nil should fail")
	}
	if err := events.Close(); err != nil {
		t.Errorf("Close() on nil = %v", err)
	}
}

func TestOpenBackendSelection(t *testing.T) {
	backend, err := Open(context.Background(), config.MQConfig{Backend: config.BackendNone})
	if err != nil || backend != nil {
		t.Errorf("Open(none) = %v, %v", backend, err)
	}
	if _, err := Open(context.Background(), config.MQConfig{Backend: "kafka"}); err == nil {
		t.Error("expected an error for an unknown backend")
	}
	if _, err := Open(context.Background(), config.MQConfig{Backend: config.BackendRabbitMQ}); err == nil {
		t.Error("expected an error for rabbitmq without a url")
	}
}
