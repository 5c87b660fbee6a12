// Package events publishes domain events to RabbitMQ.  Publishing is best
// effort: failures are logged and never reach the HTTP response.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/gig-marketplace/internal/queue"
)

// ErrCloseTimeout is returned by Close when buffered events could not be
// flushed before the drain deadline.
var ErrCloseTimeout = errors.New("rabbitmq: timed out flushing events")

// Publisher accepts events for asynchronous delivery.
type Publisher interface {
	Publish(ctx context.Context, ev queue.Event)
}

// Nop drops every event.  It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, queue.Event) {}

const (
	defaultTimeout = 5 * time.Second  // dial, handshake and a single publish
	defaultDrain   = 10 * time.Second // how long Close waits for the buffer
	defaultBuffer  = 256
)

type message struct {
	typ  string
	body []byte
}

// AMQP publishes to the durable gig.events queue.  A single worker drains a
// bounded buffer over a lazily dialled connection; events that arrive while
// the buffer is full, or while the broker is backing off, are dropped.
type AMQP struct {
	url     string
	timeout time.Duration
	drain   time.Duration

	mu     sync.Mutex // guards closed and sends on jobs
	closed bool
	jobs   chan message
	done   chan struct{}

	// owned by the worker
	conn    *amqp.Connection
	ch      *amqp.Channel
	retryAt time.Time
}

// NewAMQP returns a publisher for url and starts its worker.  No connection
// is made until the first event.
func NewAMQP(url string) *AMQP {
	return newAMQP(url, defaultTimeout, defaultDrain, defaultBuffer)
}

func newAMQP(url string, timeout, drain time.Duration, buffer int) *AMQP {
	p := &AMQP{
		url:     url,
		timeout: timeout,
		drain:   drain,
		jobs:    make(chan message, buffer),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish queues ev without waiting for the broker.  The request context is
// not used for delivery; a cancelled request still gets its event sent.
func (p *AMQP) Publish(_ context.Context, ev queue.Event) {
	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal %s failed: %v", ev.EventType(), err)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		log.Printf("rabbitmq: publisher closed, dropping %s", ev.EventType())
		return
	}
	select {
	case p.jobs <- message{typ: ev.EventType(), body: body}:
	default:
		log.Printf("rabbitmq: buffer full, dropping %s", ev.EventType())
	}
}

func (p *AMQP) run() {
	defer close(p.done)
	defer p.reset()
	for m := range p.jobs {
		if err := p.send(m); err != nil {
			log.Printf("rabbitmq: publish %s failed: %v", m.typ, err)
		}
	}
}

func (p *AMQP) send(m message) error {
	if err := p.ensureChannel(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Type:         m.typ,
		Timestamp:    time.Now().UTC(),
		Body:         m.body,
	}
	if err := p.ch.PublishWithContext(ctx,
		"",              // default exchange
		queue.QueueName, // routing key = queue name
		false,           // mandatory
		false,           // immediate
		pub,
	); err != nil {
		p.reset()
		return err
	}
	return nil
}

var errBackoff = errors.New("broker unavailable, backing off")

// ensureChannel dials and declares the queue when there is no open channel.
// After a failed dial no new attempt is made for one timeout period.
func (p *AMQP) ensureChannel() error {
	if p.ch != nil && !p.ch.IsClosed() {
		return nil
	}
	p.reset()
	if time.Now().Before(p.retryAt) {
		return errBackoff
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(p.timeout), // bounds TCP connect and the AMQP handshake
	})
	if err != nil {
		p.retryAt = time.Now().Add(p.timeout)
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		p.retryAt = time.Now().Add(p.timeout)
		return err
	}
	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queue.QueueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		p.retryAt = time.Now().Add(p.timeout)
		return err
	}
	p.conn, p.ch = conn, ch
	return nil
}

func (p *AMQP) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Close stops accepting events and waits up to the drain deadline for the
// worker to flush the buffer and close the connection.  Later calls return
// immediately.
func (p *AMQP) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	t := time.NewTimer(p.drain)
	defer t.Stop()
	select {
	case <-p.done:
		return nil
	case <-t.C:
		return ErrCloseTimeout
	}
}
