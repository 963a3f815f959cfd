// internal/domain/agent/dto.go
package agent

type CreateAgentRequest struct {
	Name           string `json:"name" binding:"required,max=255"`
	EmployeeID     string `json:"employee_id" binding:"required,max=64"`
	Email          string `json:"email" binding:"required,email,max=255"`
	PhoneNumber    string `json:"phone_number" binding:"required,max=20"`
	Specialization string `json:"specialization" binding:"max=100"`
}

type UpdateAgentRequest struct {
	Name           *string `json:"name" binding:"omitempty,max=255"`
	Email          *string `json:"email" binding:"omitempty,email,max=255"`
	PhoneNumber    *string `json:"phone_number" binding:"omitempty,max=20"`
	Specialization *string `json:"specialization" binding:"omitempty,max=100"`
	IsActive       *bool   `json:"is_active"`
}

type AgentListFilters struct {
	MinPerformance *float64 `form:"min_performance"`
	IsActive       *bool    `form:"is_active"`
	Skip           int      `form:"skip" binding:"min=0"`
	Limit          int      `form:"limit" binding:"min=0,max=500"`
}

// PerformanceSummary is the windowed, read-only view over an agent's calls.
// TotalCallsHandled here counts calls inside the window and is distinct from
// the lifetime counter persisted on the Agent row.
type PerformanceSummary struct {
	AgentID                   int64    `json:"agent_id"`
	AgentName                 string   `json:"agent_name"`
	WindowDays                int      `json:"window_days"`
	TotalCallsHandled         int      `json:"total_calls_handled"`
	AveragePerformanceScore   float64  `json:"average_performance_score"`
	AverageCustomerInterest   float64  `json:"average_customer_interest"`
	AverageTestDriveReadiness float64  `json:"average_test_drive_readiness"`
	AgentIssues               []string `json:"agent_issues"`
	Specialization            string   `json:"specialization"`
	IsActive                  bool     `json:"is_active"`
}
