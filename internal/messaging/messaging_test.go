package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestMessageCarrier(t *testing.T) {
	msg := &kafka.Message{}
	c := NewMessageCarrier(msg)

	c.Set("traceparent", "a")
	c.Set("traceparent", "b")
	c.Set("correlation-id", "c-1")

	if got := c.Get("traceparent"); got != "b" {
		t.Errorf("expected overwritten value b, got %s", got)
	}
	if len(msg.Headers) != 2 {
		t.Errorf("expected 2 headers, got %d", len(msg.Headers))
	}
	if keys := c.Keys(); len(keys) != 2 || keys[1] != "correlation-id" {
		t.Errorf("unexpected keys: %v", keys)
	}
	if c.Get("missing") != "" {
		t.Errorf("expected empty value for missing header")
	}
}

func TestProducer_Publish(t *testing.T) {
	t.Run("writes keyed json with headers", func(t *testing.T) {
		w := &fakeWriter{}
		p := &Producer{writer: w, topic: "basket.checkout"}

		err := p.Publish(context.Background(), "alice", map[string]string{"hello": "world"}, map[string]string{"correlation-id": "c-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(w.msgs) != 1 {
			t.Fatalf("expected 1 message, got %d", len(w.msgs))
		}

		msg := w.msgs[0]
		if string(msg.Key) != "alice" {
			t.Errorf("expected key alice, got %s", msg.Key)
		}
		var body map[string]string
		if err := json.Unmarshal(msg.Value, &body); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if body["hello"] != "world" {
			t.Errorf("unexpected payload: %v", body)
		}
		if got := NewMessageCarrier(&msg).Get("correlation-id"); got != "c-1" {
			t.Errorf("expected correlation-id header, got %q", got)
		}
	})

	t.Run("returns writer errors", func(t *testing.T) {
		boom := errors.New("broker down")
		p := &Producer{writer: &fakeWriter{err: boom}, topic: "t"}

		if err := p.Publish(context.Background(), "k", struct{}{}, nil); !errors.Is(err, boom) {
			t.Errorf("expected broker error, got %v", err)
		}
	})
}

func TestDeliveryFrom(t *testing.T) {
	d := deliveryFrom(kafka.Message{
		Key:     []byte("bob"),
		Value:   []byte(`{}`),
		Headers: []kafka.Header{{Key: "correlation-id", Value: []byte("c-9")}},
	})

	if d.Key != "bob" || string(d.Payload) != "{}" || d.Headers["correlation-id"] != "c-9" {
		t.Errorf("unexpected delivery: %+v", d)
	}
}
