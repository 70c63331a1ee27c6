package progress

import (
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Session is an open broker connection with one channel.
type Session struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Dial connects to the broker at url and opens a channel.
func Dial(url string) (*Session, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}
	return &Session{conn: conn, ch: ch}, nil
}

// Channel returns the session's channel.
func (s *Session) Channel() Channel { return s.ch }

// Close closes the channel and the connection.
func (s *Session) Close() error {
	return errors.Join(s.ch.Close(), s.conn.Close())
}
