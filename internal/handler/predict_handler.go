package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/odlab/odflow-backend/internal/models"
	"github.com/odlab/odflow-backend/internal/service"
	"github.com/odlab/odflow-backend/pkg/response"
)

// PredictHandler handles mock forecast requests
type PredictHandler struct {
	service *service.PredictService
}

// NewPredictHandler creates a new predict handler
func NewPredictHandler(service *service.PredictService) *PredictHandler {
	return &PredictHandler{service: service}
}

// GetTensor serves a noisy replay of the historical tensor
// GET /api/v1/predict
func (h *PredictHandler) GetTensor(c *gin.Context) {
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

// GetPairSeries serves a noisy replay of one OD pair series
// GET /api/v1/predict/pair
func (h *PredictHandler) GetPairSeries(c *gin.Context) {
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

// Extrapolate projects a supplied tensor forward
// POST /api/v1/predict/extrapolate
func (h *PredictHandler) Extrapolate(c *gin.Context) {
	var req models.ExtrapolateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "history and horizon are required")
		return
	}

	result, err := h.service.Extrapolate(req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, result)
}
