package notify

import (
	"context"

	"github.com/xisxz/agente-vendas/pkg/logger"
)

// stream is the slice of the queue API the publisher needs.
type stream interface {
	PublishJSON(ctx context.Context, data interface{}, metadata map[string]string) (string, error)
}

// Publisher pushes notifications onto the outbound stream,
// fire-and-forget: delivery failures are logged, never returned.
type Publisher struct {
	queue stream
}

func NewPublisher(queue stream) *Publisher {
	return &Publisher{queue: queue}
}

func (p *Publisher) Publish(ctx context.Context, n Notification) {
	if p == nil || p.queue == nil {
		return
	}

	_, err := p.queue.PublishJSON(ctx, n, map[string]string{
		"type":     string(n.Type),
		"priority": n.Priority,
	})
	if err != nil {
		logger.Warn("failed to publish notification", "type", n.Type, "title", n.Title, "error", err)
		return
	}

	logger.Debug("notification published", "type", n.Type, "priority", n.Priority)
}
