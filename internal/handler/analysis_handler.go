package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/odlab/odflow-backend/internal/models"
	"github.com/odlab/odflow-backend/internal/service"
	"github.com/odlab/odflow-backend/pkg/response"
)

// AnalysisHandler handles HTTP requests for flow and corridor rankings
type AnalysisHandler struct {
	service *service.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// ProvinceFlow ranks aggregated flows by province
// POST /api/v1/analyze/province-flow
func (h *AnalysisHandler) ProvinceFlow(c *gin.Context) {
	h.flow(c, models.DimensionProvince)
}

// CityFlow ranks aggregated flows by city
// POST /api/v1/analyze/city-flow
func (h *AnalysisHandler) CityFlow(c *gin.Context) {
	h.flow(c, models.DimensionCity)
}

func (h *AnalysisHandler) flow(c *gin.Context, dimension string) {
	var req models.FlowAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "period_type, start and end are required")
		return
	}

	result, err := h.service.Flow(dimension, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, result)
}

// ProvinceCorridor ranks province-to-province corridors
// POST /api/v1/analyze/province-corridor
func (h *AnalysisHandler) ProvinceCorridor(c *gin.Context) {
	var req models.CorridorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "period_type, start and end are required")
		return
	}

	result, err := h.service.ProvinceCorridors(req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, result)
}

// CityCorridor ranks city-to-city corridors, split intra/inter province
// POST /api/v1/analyze/city-corridor
func (h *AnalysisHandler) CityCorridor(c *gin.Context) {
	var req models.CityCorridorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "period_type, start and end are required")
		return
	}

	result, err := h.service.CityCorridors(req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, result)
}
