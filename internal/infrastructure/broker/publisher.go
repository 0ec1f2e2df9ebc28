package broker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"mediavault/internal/domain/dto"
)

type Publisher struct {
	client  *Client
	timeout time.Duration
}

func NewPublisher(client *Client, cfg PublisherConfig) *Publisher {
	return &Publisher{
		client:  client,
		timeout: time.Duration(cfg.Timeout) * time.Millisecond,
	}
}

// Publish appends event to the stream, stamped with this instance as origin.
func (p *Publisher) Publish(ctx context.Context, event dto.StoreEvent) error {
	if event.Origin == "" {
		event.Origin = p.client.instance
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	return p.client.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: p.client.stream,
		MaxLen: p.client.maxLen,
		Approx: p.client.maxLen > 0,
		Values: map[string]interface{}{"body": string(body)},
	}).Err()
}
