package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/projectdesk/internal/app/models/dto"
	"github.com/yigit/projectdesk/internal/app/repositories"
)

const healthTimeout = 2 * time.Second

// HealthController reports liveness of the API and its storage
type HealthController struct {
	store  repositories.Store
	logger zerolog.Logger
}

// NewHealthController creates a new HealthController
func NewHealthController(store repositories.Store, logger zerolog.Logger) *HealthController {
	return &HealthController{store: store, logger: logger}
}

// Health pings the storage backend
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthResponse} "Healthy"
// @Failure 503 {object} dto.APIResponse{data=dto.HealthResponse} "Storage unreachable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthTimeout)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Storage: c.store.Name()}
	if err := c.store.Ping(pingCtx); err != nil {
		c.logger.Error().Err(err).Str("storage", c.store.Name()).Msg("Health check failed")
		resp.Status = "unavailable"
		ctx.JSON(http.StatusServiceUnavailable, dto.APIResponse{Success: false, Data: resp})
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}
