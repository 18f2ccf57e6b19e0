package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ErrNotConnected is returned while the broker connection is being
// (re)established.  The event is dropped.
var ErrNotConnected = errors.New("queue: broker not connected")

// redialAfter spaces out reconnect attempts after a failed dial.
const redialAfter = 5 * time.Second

// Publisher sends events to QueueName.  A Publisher with an empty URL is
// disabled and drops every event.  Dialing happens on a background
// goroutine so a slow or unreachable broker never stalls a request; events
// published while disconnected are dropped and no publish is ever retried.
type Publisher struct {
	url         string
	log         *zap.Logger
	dialTimeout time.Duration

	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	dialing  bool
	nextDial time.Time
	closed   bool
}

func NewPublisher(url string, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{url: url, log: log, dialTimeout: 5 * time.Second}
}

// Enabled reports whether a broker URL is configured.
func (p *Publisher) Enabled() bool { return p != nil && p.url != "" }

// Connect starts dialing in the background so early events find an open
// channel.  It never blocks.
func (p *Publisher) Connect() {
	if !p.Enabled() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.redialLocked()
}

// Publish marshals ev and publishes it as a persistent message.  Without
// an open channel it starts a reconnect and returns ErrNotConnected.
func (p *Publisher) Publish(ctx context.Context, ev Event) error {
	if !p.Enabled() {
		return nil
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		p.resetLocked()
		p.redialLocked()
		return ErrNotConnected
	}
	err = p.ch.PublishWithContext(ctx,
		"",        // default exchange
		QueueName, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    ev.OccurredAt,
			Type:         ev.Type,
			Body:         body,
		})
	if err != nil {
		p.resetLocked()
		return err
	}
	return nil
}

// redialLocked starts one background dial unless one is running, the
// publisher is closed, or the last failure is too recent.  Callers hold mu.
func (p *Publisher) redialLocked() {
	if p.dialing || p.closed || time.Now().Before(p.nextDial) {
		return
	}
	p.dialing = true
	go p.dial()
}

func (p *Publisher) dial() {
	conn, ch, err := p.open()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.dialing = false
	if err != nil {
		p.log.Warn("rabbitmq dial failed", zap.Error(err))
		p.nextDial = time.Now().Add(redialAfter)
		return
	}
	if p.closed {
		_ = ch.Close()
		_ = conn.Close()
		return
	}
	p.conn, p.ch = conn, ch
	p.log.Info("rabbitmq connected", zap.String("queue", QueueName))
}

// open dials the broker and declares the durable queue.  It runs without mu.
func (p *Publisher) open() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(p.dialTimeout)})
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}

func (p *Publisher) resetLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil
}

// Close releases the broker connection.  A dial still in flight is
// discarded when it completes.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.resetLocked()
	return nil
}
