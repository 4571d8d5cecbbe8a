package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/odlab/odflow-backend/internal/service"
	"github.com/odlab/odflow-backend/pkg/response"
)

// RelationsHandler handles HTTP requests for the relations matrix
type RelationsHandler struct {
	service *service.RelationsService
}

// NewRelationsHandler creates a new relations handler
func NewRelationsHandler(service *service.RelationsService) *RelationsHandler {
	return &RelationsHandler{service: service}
}

// GetMatrix serves the dense N×N cost matrix
// GET /api/v1/relations/matrix
func (h *RelationsHandler) GetMatrix(c *gin.Context) {
	fill := c.DefaultQuery("fill", "nan")

	result, err := h.service.Matrix(fill)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, result)
}
