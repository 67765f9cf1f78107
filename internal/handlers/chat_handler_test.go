package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/xisxz/agente-vendas/internal/model"
	"github.com/xisxz/agente-vendas/internal/repository"
	"github.com/xisxz/agente-vendas/internal/services"
	xhttp "github.com/xisxz/agente-vendas/pkg/http"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) ProcessMessage(ctx context.Context, req services.ChatRequest) (*services.ChatResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ChatResult), args.Error(1)
}

func (m *MockChatService) Analyze(text string) (model.MessageAnalysis, error) {
	args := m.Called(text)
	return args.Get(0).(model.MessageAnalysis), args.Error(1)
}

func (m *MockChatService) GenerateResponse(intent string, sentiment model.Sentiment, leadName string) string {
	return m.Called(intent, sentiment, leadName).String(0)
}

func (m *MockChatService) Escalate(ctx context.Context, leadID int64, reason string) (*model.Lead, error) {
	args := m.Called(ctx, leadID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockChatService) Context(ctx context.Context, leadID int64) (*model.ConversationStats, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ConversationStats), args.Error(1)
}

func (m *MockChatService) Intents() []string {
	return m.Called().Get(0).([]string)
}

func setupTestContext(method, path string, body []byte) *xhttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	return ctx
}

func TestChatHandler_Process(t *testing.T) {
	t.Run("successful processing", func(t *testing.T) {
		svc := new(MockChatService)
		handler := NewChatHandler(svc)

		reqBody, _ := json.Marshal(services.ChatRequest{LeadID: 1, Channel: "whatsapp", Content: "hi"})
		expected := &services.ChatResult{
			Lead:      &model.Lead{ID: 1, Name: "Ana"},
			Response:  "Hello Ana! How can I help you today?",
			InboundID: 10,
		}
		svc.On("ProcessMessage", mock.Anything, mock.MatchedBy(func(r services.ChatRequest) bool {
			return r.LeadID == 1 && r.Content == "hi"
		})).Return(expected, nil)

		ctx := setupTestContext("POST", "/api/v1/chat/process", reqBody)
		handler.Process(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		var got services.ChatResult
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &got))
		assert.Equal(t, "Hello Ana! How can I help you today?", got.Response)
		svc.AssertExpectations(t)
	})

	t.Run("invalid JSON body", func(t *testing.T) {
		handler := NewChatHandler(new(MockChatService))

		ctx := setupTestContext("POST", "/api/v1/chat/process", []byte("{broken"))
		handler.Process(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})

	t.Run("empty message maps to 400", func(t *testing.T) {
		svc := new(MockChatService)
		handler := NewChatHandler(svc)

		svc.On("ProcessMessage", mock.Anything, mock.Anything).Return(nil, services.ErrEmptyMessage)

		ctx := setupTestContext("POST", "/api/v1/chat/process", []byte(`{"lead_id":1}`))
		handler.Process(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})

	t.Run("missing lead maps to 404", func(t *testing.T) {
		svc := new(MockChatService)
		handler := NewChatHandler(svc)

		svc.On("ProcessMessage", mock.Anything, mock.Anything).Return(nil, repository.ErrLeadNotFound)

		ctx := setupTestContext("POST", "/api/v1/chat/process", []byte(`{"lead_id":9,"content":"x"}`))
		handler.Process(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})
}

func TestChatHandler_Escalate(t *testing.T) {
	t.Run("requires a reason", func(t *testing.T) {
		handler := NewChatHandler(new(MockChatService))

		ctx := setupTestContext("POST", "/api/v1/chat/escalate", []byte(`{"lead_id":1}`))
		handler.Escalate(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})

	t.Run("invalid transition maps to 409", func(t *testing.T) {
		svc := new(MockChatService)
		handler := NewChatHandler(svc)

		svc.On("Escalate", mock.Anything, int64(3), "asked for human").Return(nil, services.ErrInvalidTransition)

		ctx := setupTestContext("POST", "/api/v1/chat/escalate", []byte(`{"lead_id":3,"reason":"asked for human"}`))
		handler.Escalate(ctx)

		assert.Equal(t, 409, ctx.Response.StatusCode())
	})

	t.Run("returns escalated lead", func(t *testing.T) {
		svc := new(MockChatService)
		handler := NewChatHandler(svc)

		svc.On("Escalate", mock.Anything, int64(4), "vip").Return(&model.Lead{ID: 4, Status: model.LeadStatusEscalated}, nil)

		ctx := setupTestContext("POST", "/api/v1/chat/escalate", []byte(`{"lead_id":4,"reason":"vip"}`))
		handler.Escalate(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		var got model.Lead
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &got))
		assert.Equal(t, model.LeadStatusEscalated, got.Status)
	})
}

func TestChatHandler_Context(t *testing.T) {
	svc := new(MockChatService)
	handler := NewChatHandler(svc)

	svc.On("Context", mock.Anything, int64(5)).Return(&model.ConversationStats{Total: 3}, nil)

	ctx := setupTestContext("GET", "/api/v1/chat/context/5", nil)
	ctx.SetUserValue("leadID", "5")
	handler.Context(ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())
	var got model.ConversationStats
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &got))
	assert.Equal(t, int64(3), got.Total)

	t.Run("bad path parameter", func(t *testing.T) {
		ctx := setupTestContext("GET", "/api/v1/chat/context/abc", nil)
		ctx.SetUserValue("leadID", "abc")
		handler.Context(ctx)
		assert.Equal(t, 400, ctx.Response.StatusCode())
	})
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, 404, statusFor(repository.ErrLeadNotFound))
	assert.Equal(t, 404, statusFor(repository.ErrFollowUpNotFound))
	assert.Equal(t, 409, statusFor(repository.ErrFollowUpFinalized))
	assert.Equal(t, 409, statusFor(services.ErrInvalidTransition))
	assert.Equal(t, 400, statusFor(model.ErrUnknownFollowUpType))
	assert.Equal(t, 500, statusFor(errors.New("anything else")))
}
