// Package progress publishes the output of streaming processes to an AMQP
// broker, so a task's state can be followed while it runs.
package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// StateProgress is the state reported while a task is running.
const StateProgress = "PROGRESS"

const publishTimeout = 5 * time.Second

// Channel is the part of *amqp.Channel the publisher uses.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Message is the JSON body of one progress update. Meta holds all output
// the task produced so far.
type Message struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	State     string    `json:"state"`
	Meta      string    `json:"meta"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher is a process.ProgressSink that publishes every update.
type Publisher struct {
	ch         Channel
	exchange   string
	routingKey string
	taskID     string
}

// NewPublisher creates a publisher for one task. An empty taskID gets a
// random one.
func NewPublisher(ch Channel, exchange, routingKey, taskID string) *Publisher {
	if taskID == "" {
		taskID = uuid.NewString()
	}
	return &Publisher{
		ch:         ch,
		exchange:   exchange,
		routingKey: routingKey,
		taskID:     taskID,
	}
}

// TaskID returns the task ID updates are published under.
func (p *Publisher) TaskID() string { return p.taskID }

// Progress publishes state. Failures are logged and dropped so a broker
// outage never interrupts the running process.
func (p *Publisher) Progress(state string) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := p.publish(ctx, state); err != nil {
		slog.Warn("dropping progress update", "task_id", p.taskID, "error", err)
	}
}

func (p *Publisher) publish(ctx context.Context, state string) error {
	msg := Message{
		ID:        uuid.NewString(),
		TaskID:    p.taskID,
		State:     StateProgress,
		Meta:      state,
		Timestamp: time.Now(),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   msg.ID,
		Timestamp:   msg.Timestamp,
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("publish to %s/%s: %w", p.exchange, p.routingKey, err)
	}

	slog.Debug("published progress", "task_id", p.taskID, "message_id", msg.ID, "bytes", len(state))
	return nil
}
