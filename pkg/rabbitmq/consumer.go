package rabbitmq

import (
	"fmt"
	"time"

	"github.com/google/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Subscriber receives domain events whose routing keys match a binding
// pattern such as "draw.*" or "#". Its queue is exclusive and is dropped when
// the subscriber closes. main.go feeds it to StartEventLog when EVENT_LOG is
// set; the integration suite uses it to observe published events.
type Subscriber struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

func NewSubscriber(url string, patterns ...string) (*Subscriber, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	fail := func(err error) (*Subscriber, error) {
		ch.Close()
		conn.Close()
		return nil, err
	}

	if err := declareExchange(ch); err != nil {
		return fail(err)
	}

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fail(fmt.Errorf("rabbitmq queue declare: %w", err))
	}

	if len(patterns) == 0 {
		patterns = []string{"#"}
	}
	for _, pattern := range patterns {
		if err := ch.QueueBind(q.Name, pattern, ExchangeName, false, nil); err != nil {
			return fail(fmt.Errorf("rabbitmq queue bind %s: %w", pattern, err))
		}
	}

	return &Subscriber{conn: conn, channel: ch, queue: q.Name}, nil
}

// Consume starts delivery with auto-ack.
func (s *Subscriber) Consume() (<-chan amqp.Delivery, error) {
	msgs, err := s.channel.Consume(s.queue, "", true, true, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq consume: %w", err)
	}

	logger.Infof("[RabbitMQ] consuming from queue: %s", s.queue)
	return msgs, nil
}

func (s *Subscriber) Close() {
	if s.channel != nil {
		s.channel.Close()
	}
	if s.conn != nil {
		s.conn.Close()
	}
}

// StartEventLog writes one log line per delivery until msgs is closed. Bodies
// carry phone numbers and are not logged.
func StartEventLog(msgs <-chan amqp.Delivery) {
	go func() {
		n := logEvents(msgs)
		logger.Infof("[EventLog] channel closed after %d events, stopping", n)
	}()
}

func logEvents(msgs <-chan amqp.Delivery) int {
	n := 0
	for msg := range msgs {
		logger.Infof("[EventLog] %s at %s (%d bytes)", msg.RoutingKey, msg.Timestamp.UTC().Format(time.RFC3339), len(msg.Body))
		n++
	}
	return n
}
