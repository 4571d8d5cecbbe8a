package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/odlab/odflow-backend/internal/service"
	"github.com/odlab/odflow-backend/pkg/response"
)

// GeoHandler handles place name resolution and distance requests
type GeoHandler struct {
	service *service.GeoService
}

// NewGeoHandler creates a new geo handler
func NewGeoHandler(service *service.GeoService) *GeoHandler {
	return &GeoHandler{service: service}
}

// ResolveName maps a free-text place name to a geo id
// GET /api/v1/geo-id
func (h *GeoHandler) ResolveName(c *gin.Context) {
	result, err := h.service.ResolveName(c.Query("name"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, result)
}

// Distance serves the haversine distance between two known places
// GET /api/v1/geo/distance
func (h *GeoHandler) Distance(c *gin.Context) {
	originID, err := strconv.ParseInt(c.Query("origin_id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid origin_id")
		return
	}
	destinationID, err := strconv.ParseInt(c.Query("destination_id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid destination_id")
		return
	}

	result, err := h.service.Distance(originID, destinationID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, result)
}
