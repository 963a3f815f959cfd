// internal/handlers/call/call_handler.go
package call

import (
	"net/http"
	"strconv"

	"callcenter-service/internal/domain/call"
	"callcenter-service/internal/pkg/response"
	service "callcenter-service/internal/service/call"

	"github.com/gin-gonic/gin"
)

type CallHandler struct {
	callService *service.CallService
}

func NewCallHandler(callService *service.CallService) *CallHandler {
	return &CallHandler{callService: callService}
}

// CreateCall records a new call with analysis
func (h *CallHandler) CreateCall(c *gin.Context) {
	var req call.CreateCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.callService.RecordCall(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to record call", err)
		return
	}

	response.Success(c, http.StatusCreated, "call recorded successfully", result.ToResponse())
}

// GetCall retrieves a call by ID
func (h *CallHandler) GetCall(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid call ID", err)
		return
	}

	result, err := h.callService.GetCall(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "call not found", err)
		return
	}

	response.Success(c, http.StatusOK, "call retrieved", result.ToResponse())
}

// GetCustomerCalls lists all calls for a customer
func (h *CallHandler) GetCustomerCalls(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid customer ID", err)
		return
	}

	result, err := h.callService.GetCustomerCalls(c.Request.Context(), customerID)
	if err != nil {
		response.FromError(c, "failed to list calls", err)
		return
	}

	response.Success(c, http.StatusOK, "calls retrieved", result)
}

// GetAgentCalls lists an agent's recent calls
func (h *CallHandler) GetAgentCalls(c *gin.Context) {
	agentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid agent ID", err)
		return
	}

	days := 0
	if raw := c.Query("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 0 {
			response.ValidationError(c, "invalid days", err)
			return
		}
	}

	result, err := h.callService.GetAgentCalls(c.Request.Context(), agentID, days)
	if err != nil {
		response.FromError(c, "failed to list calls", err)
		return
	}

	response.Success(c, http.StatusOK, "calls retrieved", result)
}
