package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/xisxz/agente-vendas/internal/notify"
	"github.com/xisxz/agente-vendas/pkg/logger"
)

const senderTimeout = 3 * time.Second

// Sender delivers one notification over a single channel.
type Sender interface {
	Send(ctx context.Context, n notify.Notification) error
}

// LogSender writes the notification to the structured log. It backs the
// dashboard channel and any channel without a configured transport;
// operators tail these lines or ship them to their log pipeline.
type LogSender struct {
	channel notify.Channel
}

func NewLogSender(channel notify.Channel) *LogSender {
	return &LogSender{channel: channel}
}

func (s *LogSender) Send(_ context.Context, n notify.Notification) error {
	logger.Info("NOTIFICATION",
		"channel", s.channel,
		"type", n.Type,
		"priority", n.Priority,
		"title", n.Title,
		"message", n.Message,
		"lead_id", n.LeadID,
	)
	return nil
}

// SlackSender posts to an incoming-webhook URL.
type SlackSender struct {
	webhookURL string
	client     *fasthttp.Client
}

func NewSlackSender(webhookURL string) *SlackSender {
	return &SlackSender{
		webhookURL: webhookURL,
		client:     &fasthttp.Client{ReadTimeout: senderTimeout, WriteTimeout: senderTimeout},
	}
}

func (s *SlackSender) Send(ctx context.Context, n notify.Notification) error {
	payload := map[string]string{
		"text": fmt.Sprintf("*%s*\n%s", n.Title, n.Message),
	}
	return postJSON(ctx, s.client, s.webhookURL, payload)
}

// WebhookSender posts the full notification to a subscriber endpoint.
type WebhookSender struct {
	url    string
	client *fasthttp.Client
}

func NewWebhookSender(url string) *WebhookSender {
	return &WebhookSender{
		url:    url,
		client: &fasthttp.Client{ReadTimeout: senderTimeout, WriteTimeout: senderTimeout},
	}
}

func (s *WebhookSender) Send(ctx context.Context, n notify.Notification) error {
	return postJSON(ctx, s.client, s.url, n)
}

func postJSON(ctx context.Context, client *fasthttp.Client, url string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	deadline := time.Now().Add(senderTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := client.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("post %s: %w", url, err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return fmt.Errorf("post %s: unexpected status %d", url, status)
	}
	return nil
}
