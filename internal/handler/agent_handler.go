package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/odlab/odflow-backend/internal/agent"
	"github.com/odlab/odflow-backend/internal/models"
	"github.com/odlab/odflow-backend/pkg/response"
)

// AgentHandler handles chat requests against the analysis agent
type AgentHandler struct {
	agent *agent.Agent
}

// NewAgentHandler creates a new agent handler
func NewAgentHandler(agent *agent.Agent) *AgentHandler {
	return &AgentHandler{agent: agent}
}

// Chat runs one conversational turn in a session
// POST /api/v1/agent/chat
func (h *AgentHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "session_id and message are required")
		return
	}

	result, err := h.agent.Chat(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, result)
}
