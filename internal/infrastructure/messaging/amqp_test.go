package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/felixgeelhaar/nihulit/pkg/domain/events"
	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	sent   []published
	err    error
	closed bool
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, published{exchange, key, msg})
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestAMQPPublisher_Handle(t *testing.T) {
	ch := &fakeChannel{}
	p := NewAMQPPublisher(ch, "nihulit.events", nil)

	task := planning.Task{ID: "t2", ProjectID: "p1", Status: planning.StatusInProgress}
	if err := p.Handle(context.Background(), events.NewTaskActivated(task, "t1")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if len(ch.sent) != 1 {
		t.Fatalf("published %d messages, want 1", len(ch.sent))
	}
	got := ch.sent[0]
	if got.exchange != "nihulit.events" || got.key != events.EventTypeTaskActivated {
		t.Errorf("published to %s/%s", got.exchange, got.key)
	}
	if got.msg.DeliveryMode != amqp.Persistent || got.msg.ContentType != "application/json" {
		t.Errorf("message = %+v", got.msg)
	}

	var body map[string]any
	if err := json.Unmarshal(got.msg.Body, &body); err != nil {
		t.Fatal(err)
	}
	if body["type"] != events.EventTypeTaskActivated || body["aggregateId"] != "t2" {
		t.Errorf("body = %v", body)
	}
	if data, _ := body["data"].(map[string]any); data["triggeredBy"] != "t1" {
		t.Errorf("data = %v", body["data"])
	}

	if err := p.Close(); err != nil || !ch.closed {
		t.Errorf("Close() = %v, closed = %v", err, ch.closed)
	}
}

func TestAMQPPublisher_HandleError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := NewAMQPPublisher(ch, "x", nil)

	err := p.Handle(context.Background(), events.NewDataChanged("tasks.yaml", "WRITE"))
	if err == nil {
		t.Fatal("Handle() should return the channel error")
	}
}
