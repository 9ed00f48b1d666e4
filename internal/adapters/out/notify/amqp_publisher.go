package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

type AMQPConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	VHost    string `koanf:"vhost"`
	UseTLS   bool   `koanf:"useTls"`
	Exchange string `koanf:"exchange"`
}

func (c AMQPConfig) URL() string {
	vhost := c.VHost
	if vhost == "" {
		vhost = "/"
	}
	scheme := "amqp"
	if c.UseTLS {
		scheme = "amqps"
	}
	return fmt.Sprintf("%s://%s:%s@%s:%d/%s", scheme, c.User, c.Password, c.Host, c.Port, vhost)
}

// amqpPublisher publishes persistent messages to a topic exchange and waits for the
// broker's confirm. Publishes are serialized because confirms arrive in order on one
// channel.
type amqpPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	acks     <-chan amqp.Confirmation
	exchange string
	logger   *slog.Logger
	mu       sync.Mutex
}

func DialAMQP(cfg AMQPConfig, logger *slog.Logger) (Publisher, error) {
	var (
		conn *amqp.Connection
		err  error
	)
	if cfg.UseTLS {
		conn, err = amqp.DialTLS(cfg.URL(), &tls.Config{MinVersion: tls.VersionTLS12})
	} else {
		conn, err = amqp.Dial(cfg.URL())
	}
	if err != nil {
		return nil, errors.Wrap(err, "dial rabbitmq")
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "open channel")
	}
	if err = ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, errors.Wrapf(err, "declare exchange %s", cfg.Exchange)
	}
	if err = ch.Confirm(false); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "enable publisher confirms")
	}

	return &amqpPublisher{
		conn:     conn,
		ch:       ch,
		acks:     ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
		exchange: cfg.Exchange,
		logger:   logger.With("component", "notify-amqp"),
	}, nil
}

func (p *amqpPublisher) Publish(ctx context.Context, msg Message) error {
	body, err := msg.Encode()
	if err != nil {
		return err
	}
	headers := amqp.Table{}
	for k, v := range msg.Attributes() {
		headers[k] = v
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, p.exchange, msg.RoutingKey(), false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    msg.OccurredAt,
		MessageId:    msg.OrderID + ":" + msg.Disposition + ":" + msg.Recipient,
		Headers:      headers,
		Body:         body,
	})
	if err != nil {
		return errors.Wrapf(err, "publish %s", msg.RoutingKey())
	}

	select {
	case conf := <-p.acks:
		if !conf.Ack {
			return errors.Errorf("broker rejected %s", msg.RoutingKey())
		}
		return nil
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	}
}

func (p *amqpPublisher) Close() error {
	p.logger.Info("closing rabbitmq connection")
	if err := p.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		_ = p.conn.Close()
		return errors.WithStack(err)
	}
	return errors.WithStack(p.conn.Close())
}
