// internal/domain/agent/entity.go
package agent

import (
	"database/sql"
	"time"
)

// WellKnownAIEmployeeID identifies the placeholder agent that answers
// AI-initiated inquiry calls. The row is created lazily on first use and
// guarded by the unique index on employee_id.
const WellKnownAIEmployeeID = "AI-AGENT-001"

type Agent struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	EmployeeID  string `json:"employee_id" db:"employee_id"`
	Email       string `json:"email" db:"email"`
	PhoneNumber string `json:"phone_number" db:"phone_number"`

	Specialization sql.NullString `json:"specialization,omitempty" db:"specialization"`
	IsActive       bool           `json:"is_active" db:"is_active"`

	// Lifetime metrics, maintained incrementally on every call recorded
	// for this agent.
	AveragePerformanceScore float64 `json:"average_performance_score" db:"average_performance_score"`
	TotalCallsHandled       int64   `json:"total_calls_handled" db:"total_calls_handled"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
