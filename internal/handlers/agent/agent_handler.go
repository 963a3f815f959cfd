// internal/handlers/agent/agent_handler.go
package agent

import (
	"net/http"
	"strconv"

	"callcenter-service/internal/domain/agent"
	"callcenter-service/internal/pkg/response"
	service "callcenter-service/internal/service/agent"

	"github.com/gin-gonic/gin"
)

type AgentHandler struct {
	agentService *service.AgentService
}

func NewAgentHandler(agentService *service.AgentService) *AgentHandler {
	return &AgentHandler{agentService: agentService}
}

// CreateAgent creates a new agent
func (h *AgentHandler) CreateAgent(c *gin.Context) {
	var req agent.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.agentService.CreateAgent(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to create agent", err)
		return
	}

	response.Success(c, http.StatusCreated, "agent created successfully", result)
}

// GetAgent retrieves an agent by ID
func (h *AgentHandler) GetAgent(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.ValidationError(c, "invalid agent ID", err)
		return
	}

	result, err := h.agentService.GetAgent(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "agent not found", err)
		return
	}

	response.Success(c, http.StatusOK, "agent retrieved", result)
}

// ListAgents retrieves agents with filters
func (h *AgentHandler) ListAgents(c *gin.Context) {
	var filters agent.AgentListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.agentService.ListAgents(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, "failed to list agents", err)
		return
	}

	response.Success(c, http.StatusOK, "agents retrieved", result)
}

// UpdateAgent updates an agent
func (h *AgentHandler) UpdateAgent(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.ValidationError(c, "invalid agent ID", err)
		return
	}

	var req agent.UpdateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.agentService.UpdateAgent(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, "failed to update agent", err)
		return
	}

	response.Success(c, http.StatusOK, "agent updated successfully", result)
}

// GetPerformance returns the windowed performance summary for an agent
func (h *AgentHandler) GetPerformance(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.ValidationError(c, "invalid agent ID", err)
		return
	}

	windowDays := 0
	if raw := c.Query("window_days"); raw != "" {
		windowDays, err = strconv.Atoi(raw)
		if err != nil || windowDays < 0 {
			response.ValidationError(c, "invalid window_days", err)
			return
		}
	}

	result, err := h.agentService.Performance(c.Request.Context(), id, windowDays)
	if err != nil {
		response.FromError(c, "failed to compute performance", err)
		return
	}

	response.Success(c, http.StatusOK, "performance retrieved", result)
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
