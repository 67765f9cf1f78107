package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xisxz/agente-vendas/internal/crm"
	"github.com/xisxz/agente-vendas/internal/model"
	"github.com/xisxz/agente-vendas/internal/nlp"
	"github.com/xisxz/agente-vendas/internal/notify"
	"github.com/xisxz/agente-vendas/internal/repository"
)

func newChatService(leads *MockLeadStore, conversations *MockConversationStore, interactions *MockInteractionRecorder, syncer *MockCRMSyncer, analytics *captureAnalytics, notifier *captureNotifier) *ChatService {
	// Assign through interface variables so a nil concrete pointer stays a
	// nil interface inside the service.
	var a AnalyticsSink
	if analytics != nil {
		a = analytics
	}
	var c CRMSyncer
	if syncer != nil {
		c = syncer
	}
	var n Notifier
	if notifier != nil {
		n = notifier
	}
	return NewChatService(nlp.NewAnalyzer(), leads, conversations, interactions, passTransactor{}, a, c, n)
}

func TestChatService_ProcessMessage(t *testing.T) {
	t.Run("rejects empty content", func(t *testing.T) {
		svc := newChatService(new(MockLeadStore), new(MockConversationStore), new(MockInteractionRecorder), nil, nil, nil)

		_, err := svc.ProcessMessage(context.Background(), ChatRequest{LeadID: 1})
		assert.ErrorIs(t, err, ErrEmptyMessage)
	})

	t.Run("answers a demo request and syncs the hot lead", func(t *testing.T) {
		leads := new(MockLeadStore)
		conversations := new(MockConversationStore)
		interactions := new(MockInteractionRecorder)
		syncer := new(MockCRMSyncer)
		analytics := &captureAnalytics{}
		notifier := &captureNotifier{}
		svc := newChatService(leads, conversations, interactions, syncer, analytics, notifier)

		lead := &model.Lead{ID: 1, Name: "Ana", Status: model.LeadStatusNew}
		leads.On("Get", mock.Anything, int64(1)).Return(lead, nil)
		conversations.On("RecentIntents", mock.Anything, int64(1), 10).Return([]model.HistoryEntry{}, nil)
		conversations.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Conversation) bool {
			return c.Direction == model.DirectionInbound && c.Intent == nlp.IntentDemoRequest && !c.IsEscalated
		})).Return(&model.Conversation{ID: 100}, nil)
		conversations.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Conversation) bool {
			return c.Direction == model.DirectionOutbound && c.Content != "" && c.Intent == nlp.IntentResponse
		})).Return(&model.Conversation{ID: 101}, nil)
		interactions.On("RecordInteraction", mock.Anything, int64(1), mock.Anything).Return(nil)
		syncer.On("SyncLead", mock.Anything, lead).Return(crm.SyncResult{Synced: true})

		result, err := svc.ProcessMessage(context.Background(), ChatRequest{
			LeadID:  1,
			Channel: "whatsapp",
			Content: "Can you show me a demo of the product?",
		})
		require.NoError(t, err)

		assert.Equal(t, nlp.IntentDemoRequest, result.Analysis.Intent)
		assert.False(t, result.Escalation.ShouldEscalate)
		assert.NotEmpty(t, result.Response)
		assert.Equal(t, int64(100), result.InboundID)
		assert.Equal(t, int64(101), result.OutboundID)

		require.Len(t, analytics.all(), 1)
		assert.Equal(t, "message_processed", analytics.all()[0].MetricName)
		assert.Empty(t, notifier.all())
		conversations.AssertExpectations(t)
		syncer.AssertExpectations(t)
	})

	t.Run("escalates a severe complaint instead of answering", func(t *testing.T) {
		leads := new(MockLeadStore)
		conversations := new(MockConversationStore)
		interactions := new(MockInteractionRecorder)
		syncer := new(MockCRMSyncer)
		analytics := &captureAnalytics{}
		notifier := &captureNotifier{}
		svc := newChatService(leads, conversations, interactions, syncer, analytics, notifier)

		lead := &model.Lead{ID: 2, Name: "Bruno", Status: model.LeadStatusContacted}
		leads.On("Get", mock.Anything, int64(2)).Return(lead, nil)
		conversations.On("RecentIntents", mock.Anything, int64(2), 10).Return([]model.HistoryEntry{}, nil)
		conversations.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Conversation) bool {
			return c.Direction == model.DirectionInbound && c.IsEscalated && c.EscalationReason != ""
		})).Return(&model.Conversation{ID: 200}, nil)
		leads.On("Update", mock.Anything, mock.MatchedBy(func(l *model.Lead) bool {
			return l.Status == model.LeadStatusEscalated
		})).Return(lead, nil)
		interactions.On("RecordInteraction", mock.Anything, int64(2), mock.Anything).Return(nil)

		result, err := svc.ProcessMessage(context.Background(), ChatRequest{
			LeadID:  2,
			Channel: "email",
			Content: "This is terrible, I am very unhappy and disappointed, I want a refund.",
		})
		require.NoError(t, err)

		assert.True(t, result.Escalation.ShouldEscalate)
		assert.Equal(t, "high", result.Escalation.Priority)
		assert.Empty(t, result.Response)
		assert.Zero(t, result.OutboundID)

		published := notifier.all()
		require.Len(t, published, 1)
		assert.Equal(t, notify.TypeEscalation, published[0].Type)
		assert.Equal(t, int64(2), published[0].LeadID)

		syncer.AssertNotCalled(t, "SyncLead", mock.Anything, mock.Anything)
		conversations.AssertNotCalled(t, "Create", mock.Anything, mock.MatchedBy(func(c *model.Conversation) bool {
			return c.Direction == model.DirectionOutbound
		}))
	})

	t.Run("creates a lead for an unknown sender", func(t *testing.T) {
		leads := new(MockLeadStore)
		conversations := new(MockConversationStore)
		interactions := new(MockInteractionRecorder)
		svc := newChatService(leads, conversations, interactions, nil, nil, nil)

		leads.On("FindByContact", mock.Anything, "novo@corp.com", "").Return(nil, repository.ErrLeadNotFound)
		leads.On("Create", mock.Anything, mock.MatchedBy(func(l *model.Lead) bool {
			return l.Name == "Unknown contact" && l.Email == "novo@corp.com" && l.Source == "webchat" && l.Status == model.LeadStatusNew
		})).Return(&model.Lead{ID: 30, Name: "Unknown contact", Status: model.LeadStatusNew}, nil)
		conversations.On("RecentIntents", mock.Anything, int64(30), 10).Return([]model.HistoryEntry{}, nil)
		conversations.On("Create", mock.Anything, mock.Anything).Return(&model.Conversation{ID: 300}, nil)
		interactions.On("RecordInteraction", mock.Anything, int64(30), mock.Anything).Return(nil)

		result, err := svc.ProcessMessage(context.Background(), ChatRequest{
			Content:     "Hello, good morning!",
			SenderEmail: "novo@corp.com",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(30), result.Lead.ID)
		leads.AssertExpectations(t)
	})

	t.Run("repeated vague messages trip the escalation policy", func(t *testing.T) {
		leads := new(MockLeadStore)
		conversations := new(MockConversationStore)
		interactions := new(MockInteractionRecorder)
		notifier := &captureNotifier{}
		svc := newChatService(leads, conversations, interactions, nil, nil, notifier)

		lead := &model.Lead{ID: 4, Name: "Carla", Status: model.LeadStatusNew}
		leads.On("Get", mock.Anything, int64(4)).Return(lead, nil)

		// six entries, the five most recent all general
		history := []model.HistoryEntry{
			{Intent: nlp.IntentGeneral},
			{Intent: nlp.IntentGeneral},
			{Intent: nlp.IntentGeneral},
			{Intent: nlp.IntentGeneral},
			{Intent: nlp.IntentGeneral},
			{Intent: nlp.IntentGreeting},
		}
		conversations.On("RecentIntents", mock.Anything, int64(4), 10).Return(history, nil)
		conversations.On("Create", mock.Anything, mock.Anything).Return(&model.Conversation{ID: 400}, nil)
		leads.On("Update", mock.Anything, mock.Anything).Return(lead, nil)
		interactions.On("RecordInteraction", mock.Anything, int64(4), mock.Anything).Return(nil)

		result, err := svc.ProcessMessage(context.Background(), ChatRequest{
			LeadID:  4,
			Content: "Hello, good morning!",
		})
		require.NoError(t, err)
		assert.True(t, result.Escalation.ShouldEscalate)
		assert.Contains(t, result.Escalation.Reasons, nlp.ReasonUnclearIntent)
	})
}

func TestChatService_Analyze(t *testing.T) {
	svc := newChatService(new(MockLeadStore), new(MockConversationStore), new(MockInteractionRecorder), nil, nil, nil)

	t.Run("rejects empty text", func(t *testing.T) {
		_, err := svc.Analyze("")
		assert.ErrorIs(t, err, ErrEmptyMessage)
	})

	t.Run("runs the pipeline without persistence", func(t *testing.T) {
		analysis, err := svc.Analyze("how much does the premium plan cost?")
		require.NoError(t, err)
		assert.Equal(t, nlp.IntentPricingInquiry, analysis.Intent)
		assert.GreaterOrEqual(t, analysis.Confidence, 0.5)
	})
}

func TestChatService_Escalate(t *testing.T) {
	t.Run("escalates and notifies", func(t *testing.T) {
		leads := new(MockLeadStore)
		notifier := &captureNotifier{}
		svc := newChatService(leads, new(MockConversationStore), new(MockInteractionRecorder), nil, nil, notifier)

		lead := &model.Lead{ID: 8, Name: "Diego", Status: model.LeadStatusQualified}
		escalated := &model.Lead{ID: 8, Name: "Diego", Status: model.LeadStatusEscalated}
		leads.On("Get", mock.Anything, int64(8)).Return(lead, nil)
		leads.On("Update", mock.Anything, mock.Anything).Return(escalated, nil)

		got, err := svc.Escalate(context.Background(), 8, "customer asked for a human")
		require.NoError(t, err)
		assert.Equal(t, model.LeadStatusEscalated, got.Status)
		require.Len(t, notifier.all(), 1)
		assert.Equal(t, notify.TypeEscalation, notifier.all()[0].Type)
	})

	t.Run("already escalated lead is idempotent", func(t *testing.T) {
		leads := new(MockLeadStore)
		notifier := &captureNotifier{}
		svc := newChatService(leads, new(MockConversationStore), new(MockInteractionRecorder), nil, nil, notifier)

		leads.On("Get", mock.Anything, int64(9)).Return(&model.Lead{ID: 9, Status: model.LeadStatusEscalated}, nil)

		got, err := svc.Escalate(context.Background(), 9, "double report")
		require.NoError(t, err)
		assert.Equal(t, model.LeadStatusEscalated, got.Status)
		leads.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("terminal lead cannot escalate", func(t *testing.T) {
		leads := new(MockLeadStore)
		svc := newChatService(leads, new(MockConversationStore), new(MockInteractionRecorder), nil, nil, nil)

		leads.On("Get", mock.Anything, int64(10)).Return(&model.Lead{ID: 10, Status: model.LeadStatusConverted}, nil)

		_, err := svc.Escalate(context.Background(), 10, "too late")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestChatService_Context(t *testing.T) {
	leads := new(MockLeadStore)
	conversations := new(MockConversationStore)
	svc := newChatService(leads, conversations, new(MockInteractionRecorder), nil, nil, nil)

	leads.On("Get", mock.Anything, int64(1)).Return(&model.Lead{ID: 1}, nil)
	conversations.On("Stats", mock.Anything, int64(1)).Return(&model.ConversationStats{Total: 7, Inbound: 4}, nil)

	stats, err := svc.Context(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.Total)

	leads.On("Get", mock.Anything, int64(2)).Return(nil, repository.ErrLeadNotFound)
	_, err = svc.Context(context.Background(), 2)
	assert.ErrorIs(t, err, repository.ErrLeadNotFound)
}
