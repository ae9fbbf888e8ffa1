package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"model-registry/internal/core/domain"
)

// DefaultStream is the stream events land on when none is configured.
const DefaultStream = "model-registry:events"

type Config struct {
	Addr     string
	Password string
	DB       int
	Stream   string
}

// Publisher appends registry lifecycle events to a redis stream where
// downstream consumers (cache invalidation, audit trails) pick them up.
type Publisher struct {
	client *redis.Client
	stream string
}

func NewPublisher(ctx context.Context, conf Config) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	stream := conf.Stream
	if stream == "" {
		stream = DefaultStream
	}
	return &Publisher{client: client, stream: stream}, nil
}

func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	values := map[string]interface{}{
		"id":          event.ID.String(),
		"type":        string(event.Type),
		"occurred_at": event.OccurredAt.Format(time.RFC3339Nano),
		"model_id":    event.ModelID.String(),
	}
	if event.VersionID != nil {
		values["version_id"] = event.VersionID.String()
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}).Err(); err != nil {
		return fmt.Errorf("xadd event %s: %w", event.Type, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.client.Close()
}
