package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	validators int
	storage    bool
}

// NewHealthHandler creates a new HealthHandler reporting the size of the
// rule catalog and whether object storage is configured.
func NewHealthHandler(validators int, storage bool) *HealthHandler {
	return &HealthHandler{validators: validators, storage: storage}
}

// Liveness handles GET /healthz
// @Summary Liveness check
// @Description Report that the service is up, with the number of registered validators and whether object storage is configured
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse "Service is up"
// @Router /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:     "ok",
		Validators: h.validators,
		Storage:    h.storage,
	})
}
