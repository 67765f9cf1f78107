package handlers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xisxz/agente-vendas/internal/channel"
	"github.com/xisxz/agente-vendas/internal/model"
	"github.com/xisxz/agente-vendas/internal/repository"
	"github.com/xisxz/agente-vendas/internal/services"
)

type MockFollowUpService struct {
	mock.Mock
}

func (m *MockFollowUpService) Schedule(ctx context.Context, req services.ScheduleRequest) (*services.ScheduleSummary, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ScheduleSummary), args.Error(1)
}

func (m *MockFollowUpService) Pending(ctx context.Context, limit int) ([]*model.PendingFollowUp, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PendingFollowUp), args.Error(1)
}

func (m *MockFollowUpService) Execute(ctx context.Context, followUpID int64) (*time.Time, error) {
	args := m.Called(ctx, followUpID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockFollowUpService) ExecuteBulk(ctx context.Context, followUpIDs []int64) []services.ExecutionResult {
	return m.Called(ctx, followUpIDs).Get(0).([]services.ExecutionResult)
}

func (m *MockFollowUpService) Cancel(ctx context.Context, followUpID int64) error {
	return m.Called(ctx, followUpID).Error(0)
}

func (m *MockFollowUpService) Stats(ctx context.Context) (*model.FollowUpStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FollowUpStats), args.Error(1)
}

func (m *MockFollowUpService) Types() []services.TypeInfo {
	return m.Called().Get(0).([]services.TypeInfo)
}

func (m *MockFollowUpService) AnalyzeScheduling(ctx context.Context, leadID int64) (*services.SchedulingAnalysis, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SchedulingAnalysis), args.Error(1)
}

func newAutomationHandler(svc FollowUpService) *AutomationHandler {
	return NewAutomationHandler(svc, channel.NewRegistry())
}

func TestAutomationHandler_Schedule(t *testing.T) {
	t.Run("schedules with priority override", func(t *testing.T) {
		svc := new(MockFollowUpService)
		handler := newAutomationHandler(svc)

		svc.On("Schedule", mock.Anything, mock.MatchedBy(func(r services.ScheduleRequest) bool {
			return r.LeadID == 1 && r.Type == model.FollowUpWelcome && r.Priority != nil && *r.Priority == model.PriorityHigh
		})).Return(&services.ScheduleSummary{FollowUpID: 42, Channel: "email", Priority: "high"}, nil)

		body := []byte(`{"lead_id":1,"type":"welcome","priority":"high"}`)
		ctx := setupTestContext("POST", "/api/v1/automation/followups/schedule", body)
		handler.Schedule(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())
		var got services.ScheduleSummary
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &got))
		assert.Equal(t, int64(42), got.FollowUpID)
		svc.AssertExpectations(t)
	})

	t.Run("rejects unknown priority", func(t *testing.T) {
		handler := newAutomationHandler(new(MockFollowUpService))

		body := []byte(`{"lead_id":1,"type":"welcome","priority":"mega"}`)
		ctx := setupTestContext("POST", "/api/v1/automation/followups/schedule", body)
		handler.Schedule(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})

	t.Run("unknown type maps to 400", func(t *testing.T) {
		svc := new(MockFollowUpService)
		handler := newAutomationHandler(svc)

		svc.On("Schedule", mock.Anything, mock.Anything).Return(nil, model.ErrUnknownFollowUpType)

		ctx := setupTestContext("POST", "/api/v1/automation/followups/schedule", []byte(`{"lead_id":1,"type":"spam"}`))
		handler.Schedule(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})
}

func TestAutomationHandler_Execute(t *testing.T) {
	t.Run("executes a due followup", func(t *testing.T) {
		svc := new(MockFollowUpService)
		handler := newAutomationHandler(svc)

		sentAt := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
		svc.On("Execute", mock.Anything, int64(5)).Return(&sentAt, nil)

		ctx := setupTestContext("POST", "/api/v1/automation/followups/5/execute", nil)
		ctx.SetUserValue("id", "5")
		handler.Execute(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
	})

	t.Run("finalized followup maps to 409", func(t *testing.T) {
		svc := new(MockFollowUpService)
		handler := newAutomationHandler(svc)

		svc.On("Execute", mock.Anything, int64(6)).Return(nil, repository.ErrFollowUpFinalized)

		ctx := setupTestContext("POST", "/api/v1/automation/followups/6/execute", nil)
		ctx.SetUserValue("id", "6")
		handler.Execute(ctx)

		assert.Equal(t, 409, ctx.Response.StatusCode())
	})
}

func TestAutomationHandler_BulkExecute(t *testing.T) {
	t.Run("requires followup ids", func(t *testing.T) {
		handler := newAutomationHandler(new(MockFollowUpService))

		ctx := setupTestContext("POST", "/api/v1/automation/followups/bulk-execute", []byte(`{"followup_ids":[]}`))
		handler.BulkExecute(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})

	t.Run("reports per item results", func(t *testing.T) {
		svc := new(MockFollowUpService)
		handler := newAutomationHandler(svc)

		sentAt := time.Now().UTC()
		svc.On("ExecuteBulk", mock.Anything, []int64{1, 2}).Return([]services.ExecutionResult{
			{FollowUpID: 1, SentAt: &sentAt},
			{FollowUpID: 2, Error: "followup not found"},
		})

		ctx := setupTestContext("POST", "/api/v1/automation/followups/bulk-execute", []byte(`{"followup_ids":[1,2]}`))
		handler.BulkExecute(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		var got struct {
			Results []services.ExecutionResult `json:"results"`
		}
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &got))
		require.Len(t, got.Results, 2)
		assert.Empty(t, got.Results[0].Error)
		assert.Equal(t, "followup not found", got.Results[1].Error)
	})
}

func TestAutomationHandler_Cancel(t *testing.T) {
	svc := new(MockFollowUpService)
	handler := newAutomationHandler(svc)

	svc.On("Cancel", mock.Anything, int64(9)).Return(nil)

	ctx := setupTestContext("POST", "/api/v1/automation/followups/9/cancel", nil)
	ctx.SetUserValue("id", "9")
	handler.Cancel(ctx)

	assert.Equal(t, 204, ctx.Response.StatusCode())
}

func TestAutomationHandler_Pending(t *testing.T) {
	svc := new(MockFollowUpService)
	handler := newAutomationHandler(svc)

	svc.On("Pending", mock.Anything, 10).Return([]*model.PendingFollowUp{
		{FollowUp: &model.FollowUp{ID: 1}, Lead: &model.Lead{ID: 2}, OverdueMinutes: 12},
	}, nil)

	ctx := setupTestContext("GET", "/api/v1/automation/followups/pending?limit=10", nil)
	handler.Pending(ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())
	var got struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &got))
	assert.Equal(t, 1, got.Count)
}

func TestAutomationHandler_Channels(t *testing.T) {
	handler := newAutomationHandler(new(MockFollowUpService))

	t.Run("capabilities lists every adapter", func(t *testing.T) {
		ctx := setupTestContext("GET", "/api/v1/automation/channels/capabilities", nil)
		handler.ChannelCapabilities(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		var got map[string]channel.Capabilities
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &got))
		assert.Len(t, got, 4)
		assert.Equal(t, 4096, got["whatsapp"].MaxMessageLength)
	})

	t.Run("format rejects oversized message", func(t *testing.T) {
		long := make([]byte, 600)
		for i := range long {
			long[i] = 'a'
		}
		body, _ := json.Marshal(map[string]interface{}{"message": string(long)})

		ctx := setupTestContext("POST", "/api/v1/automation/channels/voice/format", body)
		ctx.SetUserValue("channel", "voice")
		handler.FormatMessage(ctx)

		assert.Equal(t, 422, ctx.Response.StatusCode())
	})

	t.Run("format unknown channel", func(t *testing.T) {
		ctx := setupTestContext("POST", "/api/v1/automation/channels/fax/format", []byte(`{"message":"hi"}`))
		ctx.SetUserValue("channel", "fax")
		handler.FormatMessage(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})

	t.Run("parse extracts sender identity", func(t *testing.T) {
		payload := []byte(`{"contacts":[{"wa_id":"5511999","profile":{"name":"Ana"}}],"messages":[{"type":"text","text":{"body":"hi"}}]}`)

		ctx := setupTestContext("POST", "/api/v1/automation/channels/whatsapp/parse", payload)
		ctx.SetUserValue("channel", "whatsapp")
		handler.ParseMessage(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		var got channel.InboundMessage
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &got))
		assert.Equal(t, "Ana", got.SenderName)
		assert.Equal(t, "hi", got.Content)
	})
}
