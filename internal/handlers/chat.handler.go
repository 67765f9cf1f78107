package handlers

import (
	"context"
	"errors"

	"github.com/fasthttp/router"
	"github.com/xisxz/agente-vendas/internal/model"
	"github.com/xisxz/agente-vendas/internal/repository"
	"github.com/xisxz/agente-vendas/internal/services"
	xhttp "github.com/xisxz/agente-vendas/pkg/http"
)

type ChatService interface {
	ProcessMessage(ctx context.Context, req services.ChatRequest) (*services.ChatResult, error)
	Analyze(text string) (model.MessageAnalysis, error)
	GenerateResponse(intent string, sentiment model.Sentiment, leadName string) string
	Escalate(ctx context.Context, leadID int64, reason string) (*model.Lead, error)
	Context(ctx context.Context, leadID int64) (*model.ConversationStats, error)
	Intents() []string
}

type ChatHandler struct {
	svc ChatService
}

func RegisterChatRoutes(e *router.Group, h *ChatHandler) {
	e.POST("/chat/process", h.Process)
	e.POST("/chat/analyze", h.Analyze)
	e.POST("/chat/generate-response", h.GenerateResponse)
	e.POST("/chat/escalate", h.Escalate)
	e.GET("/chat/context/{leadID}", h.Context)
	e.GET("/chat/intents", h.Intents)
}

func NewChatHandler(chatService ChatService) *ChatHandler {
	return &ChatHandler{
		svc: chatService,
	}
}

func (h *ChatHandler) Process(ctx *xhttp.RequestCtx) {
	var req services.ChatRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	result, err := h.svc.ProcessMessage(ctx, req)
	if err != nil {
		writeError(ctx, statusFor(err), err.Error())
		return
	}
	writeJSON(ctx, 200, result)
}

type analyzeRequest struct {
	Text string `json:"text"`
}

func (h *ChatHandler) Analyze(ctx *xhttp.RequestCtx) {
	var req analyzeRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	analysis, err := h.svc.Analyze(req.Text)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 200, analysis)
}

type generateResponseRequest struct {
	Intent    string          `json:"intent"`
	Sentiment model.Sentiment `json:"sentiment"`
	LeadName  string          `json:"lead_name"`
}

func (h *ChatHandler) GenerateResponse(ctx *xhttp.RequestCtx) {
	var req generateResponseRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	writeJSON(ctx, 200, map[string]string{
		"response": h.svc.GenerateResponse(req.Intent, req.Sentiment, req.LeadName),
	})
}

type escalateRequest struct {
	LeadID int64  `json:"lead_id"`
	Reason string `json:"reason"`
}

func (h *ChatHandler) Escalate(ctx *xhttp.RequestCtx) {
	var req escalateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	if req.Reason == "" {
		writeError(ctx, 400, "reason is required")
		return
	}

	lead, err := h.svc.Escalate(ctx, req.LeadID, req.Reason)
	if err != nil {
		writeError(ctx, statusFor(err), err.Error())
		return
	}
	writeJSON(ctx, 200, lead)
}

func (h *ChatHandler) Context(ctx *xhttp.RequestCtx) {
	leadID, err := pathInt64(ctx, "leadID")
	if err != nil {
		writeError(ctx, 400, "invalid lead id")
		return
	}

	stats, err := h.svc.Context(ctx, leadID)
	if err != nil {
		writeError(ctx, statusFor(err), err.Error())
		return
	}
	writeJSON(ctx, 200, stats)
}

func (h *ChatHandler) Intents(ctx *xhttp.RequestCtx) {
	writeJSON(ctx, 200, map[string][]string{"intents": h.svc.Intents()})
}

// statusFor maps service errors onto the response taxonomy: not-found,
// state-conflict, validation, internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrLeadNotFound),
		errors.Is(err, repository.ErrFollowUpNotFound),
		errors.Is(err, services.ErrNotFound):
		return 404
	case errors.Is(err, repository.ErrFollowUpFinalized),
		errors.Is(err, services.ErrInvalidTransition):
		return 409
	case errors.Is(err, services.ErrEmptyMessage),
		errors.Is(err, model.ErrUnknownFollowUpType):
		return 400
	default:
		return 500
	}
}
