package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xisxz/agente-vendas/internal/model"
	"github.com/xisxz/agente-vendas/internal/nlp"
	"github.com/xisxz/agente-vendas/internal/notify"
	"github.com/xisxz/agente-vendas/internal/repository"
	"github.com/xisxz/agente-vendas/pkg/logger"
	"github.com/xisxz/agente-vendas/pkg/prom"
)

var ErrEmptyMessage = errors.New("message content cannot be empty")

const historyWindow = 10

type ConversationStore interface {
	Create(ctx context.Context, c *model.Conversation) (*model.Conversation, error)
	ListByLead(ctx context.Context, leadID int64, f model.ConversationFilter) ([]*model.Conversation, error)
	RecentIntents(ctx context.Context, leadID int64, limit int) ([]model.HistoryEntry, error)
	ChannelCounts(ctx context.Context, leadID int64) ([]model.ChannelCount, error)
	Stats(ctx context.Context, leadID int64) (*model.ConversationStats, error)
}

type InteractionRecorder interface {
	RecordInteraction(ctx context.Context, leadID int64, now time.Time) error
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type AnalyticsSink interface {
	Create(ctx context.Context, event *model.AnalyticsEvent) (*model.AnalyticsEvent, error)
}

type Notifier interface {
	Publish(ctx context.Context, n notify.Notification)
}

// ChatRequest is one inbound message plus whatever sender identity the
// channel could extract.
type ChatRequest struct {
	LeadID      int64  `json:"lead_id"`
	Channel     string `json:"channel"`
	Content     string `json:"content"`
	SenderName  string `json:"sender_name"`
	SenderEmail string `json:"sender_email"`
	SenderPhone string `json:"sender_phone"`
}

// ChatResult is the outcome of processing one inbound message.
type ChatResult struct {
	Lead       *model.Lead             `json:"lead"`
	Analysis   model.MessageAnalysis   `json:"analysis"`
	Escalation model.EscalationVerdict `json:"escalation"`
	Response   string                  `json:"response,omitempty"`
	InboundID  int64                   `json:"inbound_conversation_id"`
	OutboundID int64                   `json:"outbound_conversation_id,omitempty"`
}

type ChatService struct {
	analyzer      *nlp.Analyzer
	leads         LeadStore
	conversations ConversationStore
	interactions  InteractionRecorder
	tx            Transactor
	analytics     AnalyticsSink
	crm           CRMSyncer
	notifier      Notifier
}

func NewChatService(
	analyzer *nlp.Analyzer,
	leads LeadStore,
	conversations ConversationStore,
	interactions InteractionRecorder,
	tx Transactor,
	analytics AnalyticsSink,
	crmSyncer CRMSyncer,
	notifier Notifier,
) *ChatService {
	return &ChatService{
		analyzer:      analyzer,
		leads:         leads,
		conversations: conversations,
		interactions:  interactions,
		tx:            tx,
		analytics:     analytics,
		crm:           crmSyncer,
		notifier:      notifier,
	}
}

// ProcessMessage runs the full inbound pipeline: resolve the lead,
// analyze the text, decide escalate-or-respond, and persist the
// conversation rows and lead aggregates atomically. CRM sync, analytics
// and notifications happen after commit and never fail the request.
func (s *ChatService) ProcessMessage(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	if req.Content == "" {
		return nil, ErrEmptyMessage
	}
	if req.Channel == "" {
		req.Channel = "webchat"
	}

	lead, err := s.resolveLead(ctx, req)
	if err != nil {
		return nil, err
	}

	analysis := s.analyzer.Analyze(req.Content)

	history, err := s.conversations.RecentIntents(ctx, lead.ID, historyWindow)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	// stored newest-first; the policy wants oldest-first
	reverseHistory(history)

	verdict := nlp.ShouldEscalate(analysis.Intent, analysis.Sentiment, analysis.Confidence, history)

	result := &ChatResult{Lead: lead, Analysis: analysis, Escalation: verdict}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		inbound, err := s.conversations.Create(ctx, s.buildConversation(lead.ID, req.Channel, model.DirectionInbound, req.Content, analysis, verdict))
		if err != nil {
			return fmt.Errorf("persist inbound conversation: %w", err)
		}
		result.InboundID = inbound.ID

		if verdict.ShouldEscalate {
			if lead.Status.CanTransitionTo(model.LeadStatusEscalated) {
				lead.Status = model.LeadStatusEscalated
				if _, err := s.leads.Update(ctx, lead); err != nil {
					return fmt.Errorf("escalate lead: %w", err)
				}
			}
		} else {
			result.Response = nlp.GenerateResponse(analysis.Intent, analysis.Sentiment, lead.Name)

			outbound, err := s.conversations.Create(ctx, &model.Conversation{
				LeadID:    lead.ID,
				Channel:   req.Channel,
				Direction: model.DirectionOutbound,
				Content:   result.Response,
				Intent:    nlp.IntentResponse,
			})
			if err != nil {
				return fmt.Errorf("persist outbound conversation: %w", err)
			}
			result.OutboundID = outbound.ID
		}

		if err := s.interactions.RecordInteraction(ctx, lead.ID, time.Now().UTC()); err != nil {
			return fmt.Errorf("record interaction: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, req, result)

	return result, nil
}

// Analyze exposes the understanding pipeline without persistence.
func (s *ChatService) Analyze(text string) (model.MessageAnalysis, error) {
	if text == "" {
		return model.MessageAnalysis{}, ErrEmptyMessage
	}
	return s.analyzer.Analyze(text), nil
}

// GenerateResponse produces an automated reply for the given intent and
// sentiment, optionally personalized.
func (s *ChatService) GenerateResponse(intent string, sentiment model.Sentiment, leadName string) string {
	return nlp.GenerateResponse(intent, sentiment, leadName)
}

// Escalate hands a lead off to a human on request, outside the
// automatic rules.
func (s *ChatService) Escalate(ctx context.Context, leadID int64, reason string) (*model.Lead, error) {
	lead, err := s.leads.Get(ctx, leadID)
	if err != nil {
		return nil, err
	}

	if lead.Status != model.LeadStatusEscalated {
		if !lead.Status.CanTransitionTo(model.LeadStatusEscalated) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, lead.Status, model.LeadStatusEscalated)
		}
		lead.Status = model.LeadStatusEscalated
		if lead, err = s.leads.Update(ctx, lead); err != nil {
			return nil, err
		}
	}

	if s.notifier != nil {
		s.notifier.Publish(ctx, notify.ForEscalation(lead, &model.Conversation{}, reason, "high"))
	}

	return lead, nil
}

// Context returns a lead's conversation statistics.
func (s *ChatService) Context(ctx context.Context, leadID int64) (*model.ConversationStats, error) {
	if _, err := s.leads.Get(ctx, leadID); err != nil {
		return nil, err
	}
	return s.conversations.Stats(ctx, leadID)
}

// Intents lists the labels the classifier can produce.
func (s *ChatService) Intents() []string {
	return nlp.IntentLabels()
}

func (s *ChatService) resolveLead(ctx context.Context, req ChatRequest) (*model.Lead, error) {
	if req.LeadID != 0 {
		return s.leads.Get(ctx, req.LeadID)
	}

	lead, err := s.leads.FindByContact(ctx, req.SenderEmail, req.SenderPhone)
	if err == nil {
		return lead, nil
	}
	if !errors.Is(err, repository.ErrLeadNotFound) {
		return nil, err
	}

	name := req.SenderName
	if name == "" {
		name = "Unknown contact"
	}

	return s.leads.Create(ctx, &model.Lead{
		Name:   name,
		Email:  req.SenderEmail,
		Phone:  req.SenderPhone,
		Status: model.LeadStatusNew,
		Source: req.Channel,
	})
}

func (s *ChatService) buildConversation(leadID int64, channel string, direction model.Direction, content string, analysis model.MessageAnalysis, verdict model.EscalationVerdict) *model.Conversation {
	entities, err := json.Marshal(analysis.Entities)
	if err != nil {
		entities = []byte("{}")
	}

	polarity := analysis.Sentiment.Polarity
	confidence := analysis.Confidence

	conversation := &model.Conversation{
		LeadID:     leadID,
		Channel:    channel,
		Direction:  direction,
		Content:    content,
		Intent:     analysis.Intent,
		Entities:   string(entities),
		Sentiment:  &polarity,
		Confidence: &confidence,
	}
	if verdict.ShouldEscalate {
		conversation.IsEscalated = true
		conversation.EscalationReason = joinReasons(verdict.Reasons)
	}
	return conversation
}

// afterCommit runs the best-effort side effects: never fails the
// request, logs and moves on.
func (s *ChatService) afterCommit(ctx context.Context, req ChatRequest, result *ChatResult) {
	prom.IncMessageProcessed(req.Channel, result.Analysis.Intent)
	if result.Escalation.ShouldEscalate {
		prom.IncEscalation(result.Escalation.Priority)
	}

	if s.notifier != nil && result.Escalation.ShouldEscalate {
		s.notifier.Publish(ctx, notify.ForEscalation(
			result.Lead,
			&model.Conversation{ID: result.InboundID, Channel: req.Channel, Intent: result.Analysis.Intent},
			joinReasons(result.Escalation.Reasons),
			result.Escalation.Priority,
		))
	}

	if s.crm != nil && isHotIntent(result.Analysis.Intent) {
		if sync := s.crm.SyncLead(ctx, result.Lead); !sync.Synced {
			logger.Warn("crm sync skipped after hot intent", "lead_id", result.Lead.ID, "error", sync.Error)
		}
	}

	if s.analytics != nil {
		_, err := s.analytics.Create(ctx, &model.AnalyticsEvent{
			MetricName: "message_processed",
			Value:      1,
			MetricType: "counter",
			Channel:    req.Channel,
			Category:   result.Analysis.Intent,
		})
		if err != nil {
			logger.Warn("failed to record analytics event", "error", err)
		}
	}
}

func isHotIntent(intent string) bool {
	switch intent {
	case nlp.IntentDemoRequest, nlp.IntentPricingInquiry:
		return true
	}
	return false
}

func joinReasons(reasons []string) string {
	return strings.Join(reasons, "; ")
}

func reverseHistory(history []model.HistoryEntry) {
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
}
