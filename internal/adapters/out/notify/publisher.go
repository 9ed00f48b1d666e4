package notify

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
)

const (
	ProviderLog    = "log"
	ProviderAMQP   = "amqp"
	ProviderGoogle = "google"
)

// Publisher hands one message to a broker and waits for it to be accepted.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

type Config struct {
	Provider string       `koanf:"provider"`
	Workers  int          `koanf:"workers"`
	Buffer   int          `koanf:"buffer"`
	AMQP     AMQPConfig   `koanf:"amqp"`
	Google   GoogleConfig `koanf:"google"`
}

// NewPublisher picks the publisher named by cfg.Provider. An empty provider logs.
func NewPublisher(ctx context.Context, cfg Config, logger *slog.Logger) (Publisher, error) {
	switch cfg.Provider {
	case "", ProviderLog:
		logger.Info("notifications are logged only")
		return NewLogPublisher(logger), nil

	case ProviderAMQP:
		if cfg.AMQP.Host == "" {
			return nil, errors.New("amqp host is required for amqp provider")
		}
		logger.Info("publishing notifications to RabbitMQ",
			slog.String("host", cfg.AMQP.Host),
			slog.String("exchange", cfg.AMQP.Exchange),
		)
		return DialAMQP(cfg.AMQP, logger)

	case ProviderGoogle:
		if cfg.Google.ProjectID == "" || cfg.Google.TopicID == "" {
			return nil, errors.New("project ID and topic ID are required for google provider")
		}
		logger.Info("publishing notifications to Google Pub/Sub",
			slog.String("project_id", cfg.Google.ProjectID),
			slog.String("topic_id", cfg.Google.TopicID),
		)
		return NewGooglePublisher(ctx, cfg.Google, logger)

	default:
		return nil, errors.Errorf("unknown notification provider: %s", cfg.Provider)
	}
}

type logPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) Publisher {
	return &logPublisher{logger: logger.With("component", "notify")}
}

func (p *logPublisher) Publish(ctx context.Context, msg Message) error {
	p.logger.InfoContext(ctx, "order status changed",
		slog.String("order_id", msg.OrderID),
		slog.String("disposition", msg.Disposition),
		slog.String("recipient", msg.Recipient),
	)
	return nil
}

func (p *logPublisher) Close() error {
	return nil
}
