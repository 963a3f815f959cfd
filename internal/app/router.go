// internal/app/router.go
package app

import (
	agentHandler "callcenter-service/internal/handlers/agent"
	callHandler "callcenter-service/internal/handlers/call"
	customerHandler "callcenter-service/internal/handlers/customer"
	inquiryHandler "callcenter-service/internal/handlers/inquiry"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	AgentHandler    *agentHandler.AgentHandler
	CustomerHandler *customerHandler.CustomerHandler
	CallHandler     *callHandler.CallHandler
	InquiryHandler  *inquiryHandler.InquiryHandler
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Agents ====================
	agents := api.Group("/agents")
	{
		agents.POST("", h.AgentHandler.CreateAgent)
		agents.GET("", h.AgentHandler.ListAgents)
		agents.GET("/:id", h.AgentHandler.GetAgent)
		agents.PUT("/:id", h.AgentHandler.UpdateAgent)
		agents.GET("/:id/performance", h.AgentHandler.GetPerformance)
		agents.GET("/:id/calls", h.CallHandler.GetAgentCalls)
	}

	// ==================== Customers ====================
	customers := api.Group("/customers")
	{
		customers.POST("", h.CustomerHandler.CreateCustomer)
		customers.GET("", h.CustomerHandler.ListCustomers)
		customers.GET("/phone", h.CustomerHandler.GetCustomerByPhone) // ?phone=xxx
		customers.GET("/:id", h.CustomerHandler.GetCustomer)
		customers.PUT("/:id", h.CustomerHandler.UpdateCustomer)
		customers.GET("/:id/calls", h.CallHandler.GetCustomerCalls)
	}

	// ==================== Calls ====================
	calls := api.Group("/calls")
	{
		calls.POST("", h.CallHandler.CreateCall)
		calls.GET("/:id", h.CallHandler.GetCall)
	}

	// ==================== Inquiries ====================
	inquiries := api.Group("/inquiries")
	{
		inquiries.POST("", h.InquiryHandler.CreateInquiry)
		inquiries.GET("/:id", h.InquiryHandler.GetInquiry)
		inquiries.PUT("/:id", h.InquiryHandler.UpdateInquiry)
		inquiries.POST("/webhook", h.InquiryHandler.Webhook)
	}
}
