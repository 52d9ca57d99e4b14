package controllers

import (
	"net/http"

	"github.com/dawan/studentprojects/internal/app/services"
	"github.com/gin-gonic/gin"
)

// HealthController exposes liveness information
type HealthController struct {
	healthService *services.HealthService
}

// NewHealthController creates a new HealthController
func NewHealthController(healthService *services.HealthService) *HealthController {
	return &HealthController{healthService: healthService}
}

// Root is the unauthenticated greeting endpoint
// @Summary Root
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (c *HealthController) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"Hello": "World"})
}

// Health reports database reachability
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /api/v1/health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	report, ok := c.healthService.Check(ctx.Request.Context())
	status := http.StatusOK
	if !ok {
		status = http.StatusServiceUnavailable
	}
	ctx.JSON(status, report)
}
