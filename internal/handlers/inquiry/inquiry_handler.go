// internal/handlers/inquiry/inquiry_handler.go
package inquiry

import (
	"net/http"
	"strconv"

	"callcenter-service/internal/domain/inquiry"
	"callcenter-service/internal/pkg/response"
	service "callcenter-service/internal/service/inquiry"

	"github.com/gin-gonic/gin"
)

type InquiryHandler struct {
	inquiryService *service.InquiryService
}

func NewInquiryHandler(inquiryService *service.InquiryService) *InquiryHandler {
	return &InquiryHandler{inquiryService: inquiryService}
}

// CreateInquiry creates (or idempotently replays) an inquiry
func (h *InquiryHandler) CreateInquiry(c *gin.Context) {
	var req inquiry.CreateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.inquiryService.CreateInquiry(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to create inquiry", err)
		return
	}

	response.Success(c, http.StatusCreated, "inquiry created", result)
}

// GetInquiry retrieves an inquiry by ID
func (h *InquiryHandler) GetInquiry(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid inquiry ID", err)
		return
	}

	result, err := h.inquiryService.GetInquiry(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "inquiry not found", err)
		return
	}

	response.Success(c, http.StatusOK, "inquiry retrieved", result)
}

// UpdateInquiry applies field patches and records the transcript call
func (h *InquiryHandler) UpdateInquiry(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid inquiry ID", err)
		return
	}

	var req inquiry.UpdateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.inquiryService.UpdateInquiry(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, "failed to update inquiry", err)
		return
	}

	response.Success(c, http.StatusOK, "inquiry updated", result)
}

// Webhook receives the dial provider's post-call payload. The inquiry id
// travels in the body because the provider echoes back our correlation
// metadata rather than a path parameter.
func (h *InquiryHandler) Webhook(c *gin.Context) {
	var req inquiry.UpdateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}
	if req.InquiryID == 0 {
		response.ValidationError(c, "inquiry_id is required", nil)
		return
	}

	result, err := h.inquiryService.UpdateInquiry(c.Request.Context(), req.InquiryID, &req)
	if err != nil {
		response.FromError(c, "failed to update inquiry", err)
		return
	}

	response.Success(c, http.StatusOK, "inquiry updated", result)
}
