package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/odlab/odflow-backend/internal/models"
	"github.com/odlab/odflow-backend/internal/service"
	"github.com/odlab/odflow-backend/pkg/response"
)

// ODHandler handles HTTP requests for OD tensor queries
type ODHandler struct {
	service *service.ODService
}

// NewODHandler creates a new OD handler
func NewODHandler(service *service.ODService) *ODHandler {
	return &ODHandler{service: service}
}

// GetTensor serves the dense OD tensor for a time window
// GET /api/v1/od
func (h *ODHandler) GetTensor(c *gin.Context) {
	var filter models.TensorFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "start and end are required")
		return
	}

	result, err := h.service.Tensor(filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, result)
}

// GetPairSeries serves the time series of one ordered OD pair
// GET /api/v1/od/pair
func (h *ODHandler) GetPairSeries(c *gin.Context) {
	var filter models.PairFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "start, end, origin_id and destination_id are required")
		return
	}

	result, err := h.service.PairSeries(filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, result)
}
