package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/fasthttp/router"
	"github.com/xisxz/agente-vendas/internal/model"
	"github.com/xisxz/agente-vendas/internal/services"
	xhttp "github.com/xisxz/agente-vendas/pkg/http"
)

type LeadService interface {
	Create(ctx context.Context, p model.LeadCreateRequest) (*services.LeadResult, error)
	Get(ctx context.Context, id int64) (*model.Lead, error)
	List(ctx context.Context, f model.LeadFilter) ([]*model.Lead, int64, error)
	Update(ctx context.Context, id int64, p model.LeadUpdateRequest) (*services.LeadResult, error)
	Delete(ctx context.Context, id int64) error
}

type LeadHandler struct {
	svc LeadService
}

func RegisterLeadRoutes(e *router.Group, h *LeadHandler) {
	e.POST("/leads", h.Create)
	e.GET("/leads", h.List)
	e.GET("/leads/{id}", h.Get)
	e.PUT("/leads/{id}", h.Update)
	e.DELETE("/leads/{id}", h.Delete)
}

func NewLeadHandler(leadService LeadService) *LeadHandler {
	return &LeadHandler{
		svc: leadService,
	}
}

type createLeadRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Category string `json:"category"`
	Source   string `json:"source"`
}

func (h *LeadHandler) Create(ctx *xhttp.RequestCtx) {
	var req createLeadRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	result, err := h.svc.Create(ctx, model.LeadCreateRequest{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Company:  req.Company,
		Location: req.Location,
		Category: req.Category,
		Source:   req.Source,
	})
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 201, result)
}

func (h *LeadHandler) Get(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid lead id")
		return
	}

	lead, err := h.svc.Get(ctx, id)
	if err != nil {
		writeError(ctx, statusFor(err), err.Error())
		return
	}
	writeJSON(ctx, 200, lead)
}

type listLeadsResponse struct {
	Items []*model.Lead `json:"items"`
	Total int64         `json:"total"`
}

func (h *LeadHandler) List(ctx *xhttp.RequestCtx) {
	var f model.LeadFilter

	if v := query(ctx, "status"); v != "" {
		status := model.LeadStatus(v)
		f.Status = &status
	}
	if v := query(ctx, "source"); v != "" {
		f.Source = &v
	}
	if v := query(ctx, "category"); v != "" {
		f.Category = &v
	}
	if v := query(ctx, "limit"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			f.Limit = n
		}
	}
	if v := query(ctx, "offset"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			f.Offset = n
		}
	}
	if strings.EqualFold(query(ctx, "order"), "desc") {
		f.Desc = true
	}

	items, total, err := h.svc.List(ctx, f)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 200, listLeadsResponse{Items: items, Total: total})
}

type updateLeadRequest struct {
	Name               *string  `json:"name"`
	Email              *string  `json:"email"`
	Phone              *string  `json:"phone"`
	Company            *string  `json:"company"`
	Location           *string  `json:"location"`
	Category           *string  `json:"category"`
	Status             *string  `json:"status"`
	QualificationScore *float64 `json:"qualification_score"`
}

func (h *LeadHandler) Update(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid lead id")
		return
	}

	var req updateLeadRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	p := model.LeadUpdateRequest{
		Name:               req.Name,
		Email:              req.Email,
		Phone:              req.Phone,
		Company:            req.Company,
		Location:           req.Location,
		Category:           req.Category,
		QualificationScore: req.QualificationScore,
	}
	if req.Status != nil {
		status := model.LeadStatus(*req.Status)
		p.Status = &status
	}

	result, err := h.svc.Update(ctx, id, p)
	if err != nil {
		writeError(ctx, statusFor(err), err.Error())
		return
	}
	writeJSON(ctx, 200, result)
}

func (h *LeadHandler) Delete(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid lead id")
		return
	}

	if err := h.svc.Delete(ctx, id); err != nil {
		writeError(ctx, statusFor(err), err.Error())
		return
	}
	ctx.Response.SetStatusCode(204)
}
