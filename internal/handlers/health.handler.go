package handlers

import (
	"github.com/fasthttp/router"
	xhttp "github.com/xisxz/agente-vendas/pkg/http"
)

type HealthService interface {
	Get() error
}

type HealthHandler struct {
	health HealthService
}

func NewHealthHandler(health HealthService) *HealthHandler {
	return &HealthHandler{health: health}
}

func RegisterHealthRoutes(e *router.Group, h *HealthHandler) {
	e.GET("/health", h.GetHealth)
}

func (h *HealthHandler) GetHealth(ctx *xhttp.RequestCtx) {
	if err := h.health.Get(); err != nil {
		writeJSON(ctx, 503, map[string]string{"status": "unhealthy", "error": err.Error()})
		return
	}
	writeJSON(ctx, 200, map[string]string{"status": "ok"})
}
