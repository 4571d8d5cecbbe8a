package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/odlab/odflow-backend/internal/models"
	"github.com/odlab/odflow-backend/internal/stats"
	"github.com/odlab/odflow-backend/pkg/response"
)

// MetricsHandler handles growth rate and comparison metric requests.
// Both operations are pure, so it calls the stats package directly.
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// Growth computes the relative growth rate between two values
// POST /api/v1/growth
func (h *MetricsHandler) Growth(c *gin.Context) {
	var req models.GrowthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "a and b must be numbers")
		return
	}

	safe := true
	if req.Safe != nil {
		safe = *req.Safe
	}

	response.Success(c, models.GrowthResponse{
		Growth: stats.GrowthRate(req.A, req.B, safe),
	})
}

// Metrics compares two nested numeric payloads elementwise
// POST /api/v1/metrics
func (h *MetricsHandler) Metrics(c *gin.Context) {
	var req models.MetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "y_true and y_pred are required")
		return
	}

	m, err := stats.Compare(req.YTrue, req.YPred)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, models.MetricsResponse{
		RMSE: m.RMSE,
		MAE:  m.MAE,
		MAPE: m.MAPE,
	})
}
