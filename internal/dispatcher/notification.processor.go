package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xisxz/agente-vendas/internal/model"
	"github.com/xisxz/agente-vendas/internal/notify"
	"github.com/xisxz/agente-vendas/internal/queue"
	"github.com/xisxz/agente-vendas/pkg/logger"
	"github.com/xisxz/agente-vendas/pkg/prom"
)

// AnalyticsSink records dispatch outcomes. Optional; nil disables it.
type AnalyticsSink interface {
	Create(ctx context.Context, event *model.AnalyticsEvent) (*model.AnalyticsEvent, error)
}

// NotificationProcessor fans one notification out to its channels. A
// channel without a configured transport falls back to the log sender,
// so a notification is never silently dropped.
type NotificationProcessor struct {
	senders   map[notify.Channel]Sender
	analytics AnalyticsSink
}

// SenderConfig holds the per-channel transport endpoints.
type SenderConfig struct {
	SlackWebhookURL string
	WebhookURL      string
}

func NewNotificationProcessor(cfg SenderConfig, analytics AnalyticsSink) *NotificationProcessor {
	senders := map[notify.Channel]Sender{
		notify.ChannelDashboard: NewLogSender(notify.ChannelDashboard),
		notify.ChannelEmail:     NewLogSender(notify.ChannelEmail),
		notify.ChannelSMS:       NewLogSender(notify.ChannelSMS),
	}
	if cfg.SlackWebhookURL != "" {
		senders[notify.ChannelSlack] = NewSlackSender(cfg.SlackWebhookURL)
	}
	if cfg.WebhookURL != "" {
		senders[notify.ChannelWebhook] = NewWebhookSender(cfg.WebhookURL)
	}

	return &NotificationProcessor{
		senders:   senders,
		analytics: analytics,
	}
}

func (p *NotificationProcessor) GetType() string {
	return "notification"
}

// Process delivers the notification to every requested channel. A
// malformed payload is acked to the DLQ path; a delivery where every
// channel failed is nacked for retry. Partial success acks, since a
// retry would double-deliver the channels that already went out.
func (p *NotificationProcessor) Process(ctx context.Context, queueMessage *queue.Message) error {
	var n notify.Notification
	if err := json.Unmarshal(queueMessage.Data, &n); err != nil {
		logger.Error("Failed to unmarshal notification", "error", err)
		return err
	}

	if len(n.Channels) == 0 {
		n.Channels = []notify.Channel{notify.ChannelDashboard}
	}

	delivered := 0
	for _, channel := range n.Channels {
		sender, ok := p.senders[channel]
		if !ok {
			sender = NewLogSender(channel)
		}

		start := time.Now()
		err := sender.Send(ctx, n)
		prom.AddNotificationDispatchDuration(time.Since(start).Seconds(), string(channel))

		if err != nil {
			prom.IncNotificationDispatched(string(channel), "failed")
			logger.Warn("Notification delivery failed",
				"channel", channel, "type", n.Type, "notification_id", n.ID, "error", err)
			continue
		}

		prom.IncNotificationDispatched(string(channel), "ok")
		delivered++
	}

	p.recordOutcome(ctx, n, delivered)

	if delivered == 0 {
		return fmt.Errorf("all %d channels failed for notification %s", len(n.Channels), n.ID)
	}

	logger.Info("Notification dispatched",
		"notification_id", n.ID, "type", n.Type, "delivered", delivered, "channels", len(n.Channels))
	return nil
}

func (p *NotificationProcessor) recordOutcome(ctx context.Context, n notify.Notification, delivered int) {
	if p.analytics == nil {
		return
	}
	_, err := p.analytics.Create(ctx, &model.AnalyticsEvent{
		MetricName: "notification_dispatched",
		Value:      float64(delivered),
		MetricType: "counter",
		Category:   string(n.Type),
	})
	if err != nil {
		logger.Warn("failed to record dispatch event", "notification_id", n.ID, "error", err)
	}
}
