package usecase

import (
	"context"
	"encoding/json"
	"time"

	"mediavault/internal/domain/dto"
	"mediavault/internal/domain/repository/broker"
	"mediavault/pkg/logger"
)

// Notifier broadcasts store events to every publisher. Delivery is best
// effort: a publisher failing is logged and never fails the mutation.
type Notifier struct {
	publishers []broker.Publisher
}

func NewNotifier(publishers ...broker.Publisher) *Notifier {
	return &Notifier{publishers: publishers}
}

func (n *Notifier) Notify(ctx context.Context, event dto.StoreEvent) {
	if n == nil {
		return
	}

	if event.Time == 0 {
		event.Time = time.Now().UnixMilli()
	}

	for _, p := range n.publishers {
		if err := p.Publish(ctx, event); err != nil {
			logger.Warn("can't broadcast store event", "type", event.Type, "err", err)
		}
	}
}

// Relay forwards events other coordinator instances put on the shared stream
// to the local publisher, skipping the ones this instance sent itself.
type Relay struct {
	receiver broker.Receiver
	local    broker.Publisher
	instance string
}

func NewRelay(receiver broker.Receiver, local broker.Publisher, instance string) *Relay {
	return &Relay{
		receiver: receiver,
		local:    local,
		instance: instance,
	}
}

// Run blocks until ctx is done.
func (r *Relay) Run(ctx context.Context, consumer string) error {
	messages, err := r.receiver.Messages(ctx, consumer)
	if err != nil {
		return err
	}

	for msg := range messages {
		var event dto.StoreEvent
		if err := json.Unmarshal([]byte(msg.Body()), &event); err != nil {
			logger.Warn("dropping malformed store event", "err", err)
			_ = msg.Ack()

			continue
		}

		if event.Origin != r.instance {
			if err := r.local.Publish(ctx, event); err != nil {
				logger.Warn("can't relay store event", "type", event.Type, "err", err)
			}
		}

		if err := msg.Ack(); err != nil {
			logger.Warn("can't ack store event", "err", err)
		}
	}

	return nil
}
