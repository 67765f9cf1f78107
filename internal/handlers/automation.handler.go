package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/fasthttp/router"
	"github.com/xisxz/agente-vendas/internal/channel"
	"github.com/xisxz/agente-vendas/internal/model"
	"github.com/xisxz/agente-vendas/internal/services"
	xhttp "github.com/xisxz/agente-vendas/pkg/http"
)

type FollowUpService interface {
	Schedule(ctx context.Context, req services.ScheduleRequest) (*services.ScheduleSummary, error)
	Pending(ctx context.Context, limit int) ([]*model.PendingFollowUp, error)
	Execute(ctx context.Context, followUpID int64) (*time.Time, error)
	ExecuteBulk(ctx context.Context, followUpIDs []int64) []services.ExecutionResult
	Cancel(ctx context.Context, followUpID int64) error
	Stats(ctx context.Context) (*model.FollowUpStats, error)
	Types() []services.TypeInfo
	AnalyzeScheduling(ctx context.Context, leadID int64) (*services.SchedulingAnalysis, error)
}

type AutomationHandler struct {
	svc      FollowUpService
	channels *channel.Registry
}

func RegisterAutomationRoutes(e *router.Group, h *AutomationHandler) {
	e.POST("/automation/followups/schedule", h.Schedule)
	e.GET("/automation/followups/pending", h.Pending)
	e.POST("/automation/followups/{id}/execute", h.Execute)
	e.POST("/automation/followups/bulk-execute", h.BulkExecute)
	e.POST("/automation/followups/{id}/cancel", h.Cancel)
	e.GET("/automation/followups/types", h.Types)
	e.GET("/automation/stats", h.Stats)
	e.GET("/automation/smart-scheduling/analyze/{leadID}", h.AnalyzeScheduling)
	e.GET("/automation/channels/capabilities", h.ChannelCapabilities)
	e.POST("/automation/channels/{channel}/format", h.FormatMessage)
	e.POST("/automation/channels/{channel}/parse", h.ParseMessage)
}

func NewAutomationHandler(followUpService FollowUpService, channels *channel.Registry) *AutomationHandler {
	return &AutomationHandler{
		svc:      followUpService,
		channels: channels,
	}
}

type scheduleRequest struct {
	LeadID   int64  `json:"lead_id"`
	Type     string `json:"type"`
	Message  string `json:"message"`
	Priority string `json:"priority"`
}

func (h *AutomationHandler) Schedule(ctx *xhttp.RequestCtx) {
	var req scheduleRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	p := services.ScheduleRequest{
		LeadID:  req.LeadID,
		Type:    model.FollowUpType(req.Type),
		Message: req.Message,
	}
	if req.Priority != "" {
		priority, ok := model.ParsePriority(req.Priority)
		if !ok {
			writeError(ctx, 400, "invalid priority: "+req.Priority)
			return
		}
		p.Priority = &priority
	}

	summary, err := h.svc.Schedule(ctx, p)
	if err != nil {
		writeError(ctx, statusFor(err), err.Error())
		return
	}
	writeJSON(ctx, 201, summary)
}

func (h *AutomationHandler) Pending(ctx *xhttp.RequestCtx) {
	limit := 0
	if v := query(ctx, "limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	pending, err := h.svc.Pending(ctx, limit)
	if err != nil {
		writeError(ctx, 500, err.Error())
		return
	}
	writeJSON(ctx, 200, map[string]interface{}{"items": pending, "count": len(pending)})
}

func (h *AutomationHandler) Execute(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid followup id")
		return
	}

	sentAt, err := h.svc.Execute(ctx, id)
	if err != nil {
		writeError(ctx, statusFor(err), err.Error())
		return
	}
	writeJSON(ctx, 200, map[string]interface{}{"sent_at": sentAt})
}

type bulkExecuteRequest struct {
	FollowUpIDs []int64 `json:"followup_ids"`
}

func (h *AutomationHandler) BulkExecute(ctx *xhttp.RequestCtx) {
	var req bulkExecuteRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	if len(req.FollowUpIDs) == 0 {
		writeError(ctx, 400, "followup_ids is required")
		return
	}

	writeJSON(ctx, 200, map[string]interface{}{
		"results": h.svc.ExecuteBulk(ctx, req.FollowUpIDs),
	})
}

func (h *AutomationHandler) Cancel(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid followup id")
		return
	}

	if err := h.svc.Cancel(ctx, id); err != nil {
		writeError(ctx, statusFor(err), err.Error())
		return
	}
	ctx.Response.SetStatusCode(204)
}

func (h *AutomationHandler) Types(ctx *xhttp.RequestCtx) {
	writeJSON(ctx, 200, map[string]interface{}{"types": h.svc.Types()})
}

func (h *AutomationHandler) Stats(ctx *xhttp.RequestCtx) {
	stats, err := h.svc.Stats(ctx)
	if err != nil {
		writeError(ctx, 500, err.Error())
		return
	}
	writeJSON(ctx, 200, stats)
}

func (h *AutomationHandler) AnalyzeScheduling(ctx *xhttp.RequestCtx) {
	leadID, err := pathInt64(ctx, "leadID")
	if err != nil {
		writeError(ctx, 400, "invalid lead id")
		return
	}

	analysis, err := h.svc.AnalyzeScheduling(ctx, leadID)
	if err != nil {
		writeError(ctx, statusFor(err), err.Error())
		return
	}
	writeJSON(ctx, 200, analysis)
}

func (h *AutomationHandler) ChannelCapabilities(ctx *xhttp.RequestCtx) {
	caps := map[string]channel.Capabilities{}
	for _, name := range h.channels.Supported() {
		adapter, err := h.channels.Get(name)
		if err != nil {
			continue
		}
		caps[name] = adapter.Capabilities()
	}
	writeJSON(ctx, 200, caps)
}

type formatMessageRequest struct {
	Message      string      `json:"message"`
	Lead         *model.Lead `json:"lead"`
	QuickReplies bool        `json:"quick_replies"`
	Subject      string      `json:"subject"`
}

func (h *AutomationHandler) FormatMessage(ctx *xhttp.RequestCtx) {
	name, _ := ctx.UserValue("channel").(string)
	adapter, err := h.channels.Get(name)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}

	var req formatMessageRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	validation := adapter.Validate(req.Message)
	if !validation.Valid {
		writeJSON(ctx, 422, validation)
		return
	}

	payload := adapter.Format(req.Message, req.Lead, channel.FormatOptions{
		QuickReplies: req.QuickReplies,
		Subject:      req.Subject,
	})
	writeJSON(ctx, 200, payload)
}

func (h *AutomationHandler) ParseMessage(ctx *xhttp.RequestCtx) {
	name, _ := ctx.UserValue("channel").(string)
	adapter, err := h.channels.Get(name)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}

	var raw map[string]interface{}
	if err := readJSON(ctx, &raw); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	writeJSON(ctx, 200, adapter.Parse(raw))
}
