package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// DefaultExchange receives the authority events when no exchange is configured.
	DefaultExchange = "authdesk.events"

	publishTimeout = 2 * time.Second
)

// ErrNack is returned when the broker refuses a message.
var ErrNack = errors.New("broker did not acknowledge message")

// AMQPPublisher publishes JSON events to a durable topic exchange with
// publisher confirms enabled.
type AMQPPublisher struct {
	url      string
	exchange string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPPublisher connects to url and declares the exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	p := &AMQPPublisher{url: url, exchange: exchange}
	if err := p.connect(); err != nil {
		return nil, err
	}

	return p, nil
}

// Publish implements Publisher.
func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, evt AuthorityEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, publishTimeout)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureConnected(); err != nil {
		return err
	}

	confirm, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    evt.OccurredAt,
		Body:         body,
	})
	if err != nil {
		p.reset()
		return errors.Wrapf(err, "publish %s", routingKey)
	}

	return awaitConfirm(ctx, routingKey, confirm)
}

// confirmation is the broker answer to one delivery tag.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

// awaitConfirm waits for the confirmation of exactly this publishing. A late
// answer stays bound to its own delivery tag and is never read by a later call.
func awaitConfirm(ctx context.Context, routingKey string, c confirmation) error {
	ack, err := c.WaitContext(ctx)
	if err != nil {
		return errors.Wrapf(err, "publish %s: waiting for confirm", routingKey)
	}

	if !ack {
		return errors.Wrapf(ErrNack, "publish %s", routingKey)
	}

	return nil
}

// Close implements Publisher.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.reset()

	return nil
}

func (p *AMQPPublisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return errors.Wrap(err, "amqp dial")
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return errors.Wrap(err, "amqp channel")
	}

	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return errors.Wrap(err, "exchange declare")
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return errors.Wrap(err, "confirm mode")
	}

	p.conn = conn
	p.ch = ch

	return nil
}

func (p *AMQPPublisher) ensureConnected() error {
	if p.conn != nil && !p.conn.IsClosed() && p.ch != nil {
		return nil
	}

	return p.connect()
}

func (p *AMQPPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}

	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
