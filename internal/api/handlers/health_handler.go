package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/elevohq/interview-engine/internal/providers/llm"
)

type HealthHandler struct {
	gw *llm.Gateway
}

func NewHealthHandler(gw *llm.Gateway) *HealthHandler {
	return &HealthHandler{gw: gw}
}

// AI reports which providers are wired and which models each would try, in
// failover order. It makes no generation calls, though first use may trigger
// one model-discovery request per provider.
func (h *HealthHandler) AI(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	providers := make([]gin.H, 0)
	for _, name := range h.gw.ProviderNames() {
		providers = append(providers, gin.H{
			"name":   name,
			"models": h.gw.ModelCandidates(ctx, name),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"enabled":   h.gw.Enabled(),
		"providers": providers,
	})
}
