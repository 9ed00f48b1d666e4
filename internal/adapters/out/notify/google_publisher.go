package notify

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/pubsub/v2"
	pubsubpb "cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"github.com/pkg/errors"
)

type GoogleConfig struct {
	ProjectID string `koanf:"projectId"`
	TopicID   string `koanf:"topicId"`
}

type googlePublisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	logger    *slog.Logger
}

// NewGooglePublisher fails fast when the topic does not exist.
func NewGooglePublisher(ctx context.Context, cfg GoogleConfig, logger *slog.Logger) (Publisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	topic := fmt.Sprintf("projects/%s/topics/%s", cfg.ProjectID, cfg.TopicID)
	if _, err = client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: topic}); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "get topic %s", cfg.TopicID)
	}

	publisher := client.Publisher(cfg.TopicID)
	// Per-order ordering keeps one order's transitions in sequence for subscribers.
	publisher.EnableMessageOrdering = true

	return &googlePublisher{
		client:    client,
		publisher: publisher,
		logger:    logger.With("component", "notify-pubsub"),
	}, nil
}

func (p *googlePublisher) Publish(ctx context.Context, msg Message) error {
	data, err := msg.Encode()
	if err != nil {
		return err
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data:        data,
		Attributes:  msg.Attributes(),
		OrderingKey: msg.OrderID,
	})
	serverID, err := result.Get(ctx)
	if err != nil {
		p.publisher.ResumePublish(msg.OrderID)
		return errors.WithStack(err)
	}

	p.logger.DebugContext(ctx, "published",
		slog.String("order_id", msg.OrderID),
		slog.String("server_id", serverID),
	)
	return nil
}

func (p *googlePublisher) Close() error {
	p.publisher.Stop()
	return errors.WithStack(p.client.Close())
}
