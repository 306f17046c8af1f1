package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/raveworks-booking/internal/booking"
)

// Publisher sends booking events to RabbitMQ.  It implements
// booking.Reporter; publishing runs in the background so a slow or absent
// broker never delays the visitor's response.  Failures are logged.
type Publisher struct {
	url     string
	logger  *zap.Logger
	timeout time.Duration
	now     func() time.Time
	send    func(ctx context.Context, queue string, pub amqp.Publishing) error

	wg sync.WaitGroup
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Publisher{url: url, logger: logger, timeout: 5 * time.Second, now: time.Now}
	p.send = p.dialAndPublish
	return p
}

// Report implements booking.Reporter.
func (p *Publisher) Report(ctx context.Context, o booking.Outcome) {
	queue, event, ok := eventFor(o, p.now())
	if !ok {
		return
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
		defer cancel()
		if err := p.Publish(ctx, queue, event); err != nil {
			p.logger.Error("publish booking event failed",
				zap.String("queue", queue),
				zap.String("email", o.Record.Email),
				zap.Error(err),
			)
		}
	}()
}

// Publish marshals event and publishes it as a persistent message.
func (p *Publisher) Publish(ctx context.Context, queue string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.send(ctx, queue, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    p.now().UTC(),
		Body:         body,
	})
}

// Wait blocks until background publishes have finished.
func (p *Publisher) Wait() { p.wg.Wait() }

func (p *Publisher) dialAndPublish(ctx context.Context, queue string, pub amqp.Publishing) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return err
	}
	return ch.PublishWithContext(ctx, "", queue, false, false, pub)
}
