package services

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/xisxz/agente-vendas/internal/crm"
	"github.com/xisxz/agente-vendas/internal/model"
	"github.com/xisxz/agente-vendas/internal/notify"
)

type MockLeadStore struct {
	mock.Mock
}

func (m *MockLeadStore) Create(ctx context.Context, lead *model.Lead) (*model.Lead, error) {
	args := m.Called(ctx, lead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadStore) Get(ctx context.Context, id int64) (*model.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadStore) FindByContact(ctx context.Context, email, phone string) (*model.Lead, error) {
	args := m.Called(ctx, email, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadStore) Update(ctx context.Context, lead *model.Lead) (*model.Lead, error) {
	args := m.Called(ctx, lead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadStore) List(ctx context.Context, f model.LeadFilter) ([]*model.Lead, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Lead), args.Get(1).(int64), args.Error(2)
}

type MockConversationStore struct {
	mock.Mock
}

func (m *MockConversationStore) Create(ctx context.Context, c *model.Conversation) (*model.Conversation, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Conversation), args.Error(1)
}

func (m *MockConversationStore) ListByLead(ctx context.Context, leadID int64, f model.ConversationFilter) ([]*model.Conversation, error) {
	args := m.Called(ctx, leadID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Conversation), args.Error(1)
}

func (m *MockConversationStore) RecentIntents(ctx context.Context, leadID int64, limit int) ([]model.HistoryEntry, error) {
	args := m.Called(ctx, leadID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HistoryEntry), args.Error(1)
}

func (m *MockConversationStore) ChannelCounts(ctx context.Context, leadID int64) ([]model.ChannelCount, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChannelCount), args.Error(1)
}

func (m *MockConversationStore) Stats(ctx context.Context, leadID int64) (*model.ConversationStats, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ConversationStats), args.Error(1)
}

type MockFollowUpStore struct {
	mock.Mock
}

func (m *MockFollowUpStore) Create(ctx context.Context, f *model.FollowUp) (*model.FollowUp, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FollowUp), args.Error(1)
}

func (m *MockFollowUpStore) Get(ctx context.Context, id int64) (*model.FollowUp, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FollowUp), args.Error(1)
}

func (m *MockFollowUpStore) Pending(ctx context.Context, now time.Time, limit int) ([]*model.FollowUp, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.FollowUp), args.Error(1)
}

func (m *MockFollowUpStore) ListByLead(ctx context.Context, leadID int64) ([]*model.FollowUp, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.FollowUp), args.Error(1)
}

func (m *MockFollowUpStore) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	return m.Called(ctx, id, sentAt).Error(0)
}

func (m *MockFollowUpStore) MarkFailed(ctx context.Context, id int64, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

func (m *MockFollowUpStore) Cancel(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockFollowUpStore) Stats(ctx context.Context) (*model.FollowUpStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FollowUpStats), args.Error(1)
}

type MockCRMSyncer struct {
	mock.Mock
}

func (m *MockCRMSyncer) SyncLead(ctx context.Context, lead *model.Lead) crm.SyncResult {
	return m.Called(ctx, lead).Get(0).(crm.SyncResult)
}

type MockInteractionRecorder struct {
	mock.Mock
}

func (m *MockInteractionRecorder) RecordInteraction(ctx context.Context, leadID int64, now time.Time) error {
	return m.Called(ctx, leadID, now).Error(0)
}

type MockCohortLoader struct {
	mock.Mock
}

func (m *MockCohortLoader) Cohort(ctx context.Context, lead *model.Lead) ([]*model.Lead, error) {
	args := m.Called(ctx, lead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Lead), args.Error(1)
}

type MockCohortConversationLoader struct {
	mock.Mock
}

func (m *MockCohortConversationLoader) ListInboundForLeads(ctx context.Context, leadIDs []int64, limit int) ([]*model.Conversation, error) {
	args := m.Called(ctx, leadIDs, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Conversation), args.Error(1)
}

// passTransactor runs the callback directly; services only care that
// everything inside either commits together or fails together.
type passTransactor struct{}

func (passTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// captureNotifier records published notifications for assertions.
type captureNotifier struct {
	mu        sync.Mutex
	published []notify.Notification
}

func (c *captureNotifier) Publish(_ context.Context, n notify.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published = append(c.published, n)
}

func (c *captureNotifier) all() []notify.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]notify.Notification(nil), c.published...)
}

// captureAnalytics records events instead of writing them anywhere.
type captureAnalytics struct {
	mu     sync.Mutex
	events []*model.AnalyticsEvent
}

func (c *captureAnalytics) Create(_ context.Context, event *model.AnalyticsEvent) (*model.AnalyticsEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return event, nil
}

func (c *captureAnalytics) all() []*model.AnalyticsEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*model.AnalyticsEvent(nil), c.events...)
}
