package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xisxz/agente-vendas/internal/model"
	"github.com/xisxz/agente-vendas/internal/nlp"
	"github.com/xisxz/agente-vendas/internal/notify"
	"github.com/xisxz/agente-vendas/internal/scheduler"
	"github.com/xisxz/agente-vendas/pkg/logger"
	"github.com/xisxz/agente-vendas/pkg/prom"
)

type FollowUpStore interface {
	Create(ctx context.Context, f *model.FollowUp) (*model.FollowUp, error)
	Get(ctx context.Context, id int64) (*model.FollowUp, error)
	Pending(ctx context.Context, now time.Time, limit int) ([]*model.FollowUp, error)
	ListByLead(ctx context.Context, leadID int64) ([]*model.FollowUp, error)
	MarkSent(ctx context.Context, id int64, sentAt time.Time) error
	MarkFailed(ctx context.Context, id int64, reason string) error
	Cancel(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*model.FollowUpStats, error)
}

type CohortLoader interface {
	Cohort(ctx context.Context, lead *model.Lead) ([]*model.Lead, error)
}

type CohortConversationLoader interface {
	ListInboundForLeads(ctx context.Context, leadIDs []int64, limit int) ([]*model.Conversation, error)
}

// ScheduleRequest is one follow-up scheduling order. Message and
// Priority are optional caller overrides.
type ScheduleRequest struct {
	LeadID   int64
	Type     model.FollowUpType
	Message  string
	Priority *model.Priority
}

// ScheduleSummary reports what the scheduler decided.
type ScheduleSummary struct {
	FollowUpID  int64              `json:"followup_id"`
	ScheduledAt time.Time          `json:"scheduled_at"`
	Channel     string             `json:"channel"`
	Priority    string             `json:"priority"`
	Message     string             `json:"message"`
	Type        model.FollowUpType `json:"type"`
}

// ExecutionResult is one item of a bulk execution report.
type ExecutionResult struct {
	FollowUpID int64      `json:"followup_id"`
	SentAt     *time.Time `json:"sent_at,omitempty"`
	Error      string     `json:"error,omitempty"`
}

type FollowUpService struct {
	planner       *scheduler.TimePlanner
	leads         LeadStore
	cohorts       CohortLoader
	conversations ConversationStore
	cohortConvs   CohortConversationLoader
	followups     FollowUpStore
	interactions  InteractionRecorder
	tx            Transactor
	analytics     AnalyticsSink
	notifier      Notifier
	now           func() time.Time
}

func NewFollowUpService(
	planner *scheduler.TimePlanner,
	leads LeadStore,
	cohorts CohortLoader,
	conversations ConversationStore,
	cohortConvs CohortConversationLoader,
	followups FollowUpStore,
	interactions InteractionRecorder,
	tx Transactor,
	analytics AnalyticsSink,
	notifier Notifier,
) *FollowUpService {
	return &FollowUpService{
		planner:       planner,
		leads:         leads,
		cohorts:       cohorts,
		conversations: conversations,
		cohortConvs:   cohortConvs,
		followups:     followups,
		interactions:  interactions,
		tx:            tx,
		analytics:     analytics,
		notifier:      notifier,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Schedule runs the full scheduling pipeline: resolve the lead, mine
// its behavior patterns, compute time/priority/channel/message and
// persist the follow-up. The attempt is all-or-nothing.
func (s *FollowUpService) Schedule(ctx context.Context, req ScheduleRequest) (*ScheduleSummary, error) {
	if _, err := model.ParseFollowUpType(string(req.Type)); err != nil {
		return nil, err
	}

	lead, err := s.leads.Get(ctx, req.LeadID)
	if err != nil {
		return nil, err
	}

	now := s.now()

	leadPatterns, cohortPatterns, err := s.minePatterns(ctx, lead)
	if err != nil {
		return nil, err
	}

	scheduledAt := s.planner.OptimalTime(now, req.Type, leadPatterns, cohortPatterns)

	priority := scheduler.PriorityFor(scheduler.PriorityScore(lead, s.lastIntent(ctx, lead.ID), now))
	if req.Priority != nil {
		priority = *req.Priority
	}

	message := req.Message
	if message == "" {
		message = scheduler.SelectMessage(req.Type, lead.Name)
	}

	channelCounts, err := s.conversations.ChannelCounts(ctx, lead.ID)
	if err != nil {
		return nil, fmt.Errorf("load channel history: %w", err)
	}
	channel := scheduler.IdealChannel(channelCounts, lead.Source)

	followup := &model.FollowUp{
		LeadID:      lead.ID,
		Type:        req.Type,
		Status:      model.FollowUpStatusScheduled,
		Priority:    priority,
		Message:     message,
		Channel:     channel,
		ScheduledAt: scheduledAt,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err := s.followups.Create(ctx, followup)
		if err != nil {
			return fmt.Errorf("persist followup: %w", err)
		}
		followup = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	prom.IncFollowUpScheduled(string(req.Type))
	s.recordEvent(ctx, "followup_scheduled", channel, string(req.Type))

	if priority == model.PriorityUrgent && s.notifier != nil {
		s.notifier.Publish(ctx, notify.ForHotLead(lead, 1.0))
	}

	return &ScheduleSummary{
		FollowUpID:  followup.ID,
		ScheduledAt: followup.ScheduledAt,
		Channel:     followup.Channel,
		Priority:    priority.String(),
		Message:     followup.Message,
		Type:        followup.Type,
	}, nil
}

// Pending lists due follow-ups joined with their leads, oldest first.
func (s *FollowUpService) Pending(ctx context.Context, limit int) ([]*model.PendingFollowUp, error) {
	now := s.now()

	due, err := s.followups.Pending(ctx, now, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*model.PendingFollowUp, 0, len(due))
	for _, f := range due {
		lead, err := s.leads.Get(ctx, f.LeadID)
		if err != nil {
			logger.Warn("pending followup references missing lead", "followup_id", f.ID, "lead_id", f.LeadID)
			continue
		}
		out = append(out, &model.PendingFollowUp{
			FollowUp:       f,
			Lead:           lead,
			OverdueMinutes: now.Sub(f.ScheduledAt).Minutes(),
		})
	}
	return out, nil
}

// Execute sends one follow-up: flips it scheduled -> sent, appends the
// outbound conversation and bumps the lead's interaction counters, all
// in one transaction. A non-scheduled follow-up is a state conflict.
func (s *FollowUpService) Execute(ctx context.Context, followUpID int64) (*time.Time, error) {
	followup, err := s.followups.Get(ctx, followUpID)
	if err != nil {
		return nil, err
	}

	sentAt := s.now()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.followups.MarkSent(ctx, followup.ID, sentAt); err != nil {
			return err
		}

		_, err := s.conversations.Create(ctx, &model.Conversation{
			LeadID:    followup.LeadID,
			Channel:   followup.Channel,
			Direction: model.DirectionOutbound,
			Content:   followup.Message,
			Intent:    nlp.IntentFollowUp,
		})
		if err != nil {
			return fmt.Errorf("persist outbound conversation: %w", err)
		}

		return s.interactions.RecordInteraction(ctx, followup.LeadID, sentAt)
	})
	if err != nil {
		return nil, err
	}

	prom.IncFollowUpExecuted(string(followup.Type))
	s.recordEvent(ctx, "followup_executed", followup.Channel, string(followup.Type))

	return &sentAt, nil
}

// ExecuteBulk processes each follow-up independently: one failure never
// aborts the batch.
func (s *FollowUpService) ExecuteBulk(ctx context.Context, followUpIDs []int64) []ExecutionResult {
	results := make([]ExecutionResult, 0, len(followUpIDs))
	for _, id := range followUpIDs {
		sentAt, err := s.Execute(ctx, id)
		result := ExecutionResult{FollowUpID: id, SentAt: sentAt}
		if err != nil {
			result.Error = err.Error()
		}
		results = append(results, result)
	}
	return results
}

func (s *FollowUpService) Cancel(ctx context.Context, followUpID int64) error {
	return s.followups.Cancel(ctx, followUpID)
}

func (s *FollowUpService) Stats(ctx context.Context) (*model.FollowUpStats, error) {
	return s.followups.Stats(ctx)
}

// TypeInfo describes one follow-up type for the listing endpoint.
type TypeInfo struct {
	Type         model.FollowUpType `json:"type"`
	BaseInterval string             `json:"base_interval"`
	Description  string             `json:"description"`
}

var typeDescriptions = map[model.FollowUpType]string{
	model.FollowUpWelcome:       "first touch shortly after a lead arrives",
	model.FollowUpNurturing:     "keeps a quiet lead warm",
	model.FollowUpQualification: "probes fit and budget",
	model.FollowUpProposal:      "follows a sent proposal",
	model.FollowUpClosing:       "pushes a near-won deal over the line",
	model.FollowUpReactivation:  "re-engages a lead gone cold",
	model.FollowUpFeedback:      "collects feedback after a conversation",
}

func (s *FollowUpService) Types() []TypeInfo {
	out := make([]TypeInfo, 0, len(model.FollowUpTypes))
	for _, t := range model.FollowUpTypes {
		out = append(out, TypeInfo{
			Type:         t,
			BaseInterval: scheduler.BaseInterval(t).String(),
			Description:  typeDescriptions[t],
		})
	}
	return out
}

// SchedulingAnalysis exposes the scheduler's inputs and would-be
// decisions for one lead without persisting anything.
type SchedulingAnalysis struct {
	Lead               *model.Lead                      `json:"lead"`
	LeadPatterns       scheduler.LeadPatterns           `json:"lead_patterns"`
	CohortPatterns     scheduler.CohortPatterns         `json:"cohort_patterns"`
	OptimalTimes       map[model.FollowUpType]time.Time `json:"optimal_times"`
	PriorityScore      float64                          `json:"priority_score"`
	Priority           string                           `json:"priority"`
	RecommendedChannel string                           `json:"recommended_channel"`
}

func (s *FollowUpService) AnalyzeScheduling(ctx context.Context, leadID int64) (*SchedulingAnalysis, error) {
	lead, err := s.leads.Get(ctx, leadID)
	if err != nil {
		return nil, err
	}

	now := s.now()

	leadPatterns, cohortPatterns, err := s.minePatterns(ctx, lead)
	if err != nil {
		return nil, err
	}

	times := make(map[model.FollowUpType]time.Time, len(model.FollowUpTypes))
	for _, t := range model.FollowUpTypes {
		times[t] = s.planner.OptimalTime(now, t, leadPatterns, cohortPatterns)
	}

	score := scheduler.PriorityScore(lead, s.lastIntent(ctx, lead.ID), now)

	channelCounts, err := s.conversations.ChannelCounts(ctx, lead.ID)
	if err != nil {
		return nil, err
	}

	return &SchedulingAnalysis{
		Lead:               lead,
		LeadPatterns:       leadPatterns,
		CohortPatterns:     cohortPatterns,
		OptimalTimes:       times,
		PriorityScore:      score,
		Priority:           scheduler.PriorityFor(score).String(),
		RecommendedChannel: scheduler.IdealChannel(channelCounts, lead.Source),
	}, nil
}

func (s *FollowUpService) minePatterns(ctx context.Context, lead *model.Lead) (scheduler.LeadPatterns, scheduler.CohortPatterns, error) {
	inboundOnly := model.DirectionInbound
	inbound, err := s.conversations.ListByLead(ctx, lead.ID, model.ConversationFilter{Direction: &inboundOnly, Limit: 1000})
	if err != nil {
		return scheduler.LeadPatterns{}, scheduler.CohortPatterns{}, fmt.Errorf("load lead history: %w", err)
	}
	// stored newest-first; interval mining wants oldest-first
	for i, j := 0, len(inbound)-1; i < j; i, j = i+1, j-1 {
		inbound[i], inbound[j] = inbound[j], inbound[i]
	}

	cohortLeads, err := s.cohorts.Cohort(ctx, lead)
	if err != nil {
		return scheduler.LeadPatterns{}, scheduler.CohortPatterns{}, fmt.Errorf("load cohort: %w", err)
	}

	ids := make([]int64, len(cohortLeads))
	for i, l := range cohortLeads {
		ids[i] = l.ID
	}

	cohortInbound, err := s.cohortConvs.ListInboundForLeads(ctx, ids, 0)
	if err != nil {
		return scheduler.LeadPatterns{}, scheduler.CohortPatterns{}, fmt.Errorf("load cohort history: %w", err)
	}

	return scheduler.AnalyzeLeadPatterns(inbound), scheduler.AnalyzeCohortPatterns(cohortInbound), nil
}

func (s *FollowUpService) lastIntent(ctx context.Context, leadID int64) string {
	history, err := s.conversations.RecentIntents(ctx, leadID, 1)
	if err != nil || len(history) == 0 {
		return ""
	}
	return history[0].Intent
}

func (s *FollowUpService) recordEvent(ctx context.Context, name, channel, category string) {
	if s.analytics == nil {
		return
	}
	_, err := s.analytics.Create(ctx, &model.AnalyticsEvent{
		MetricName: name,
		Value:      1,
		MetricType: "counter",
		Channel:    channel,
		Category:   category,
	})
	if err != nil {
		logger.Warn("failed to record analytics event", "metric", name, "error", err)
	}
}
