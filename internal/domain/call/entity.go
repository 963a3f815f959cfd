// internal/domain/call/entity.go
package call

import (
	"database/sql"
	"time"
)

// MaxTranscriptLen is the upper bound on transcript length in characters.
const MaxTranscriptLen = 10000

// Call is immutable once created. The analysis columns are nullable because
// rows written before analysis became mandatory may carry no scores; readers
// apply zero-value defaults in memory and never write them back.
type Call struct {
	ID         int64     `json:"id" db:"id"`
	CustomerID int64     `json:"customer_id" db:"customer_id"`
	AgentID    int64     `json:"agent_id" db:"agent_id"`
	Transcript string    `json:"transcript" db:"transcript"`
	CallDate   time.Time `json:"call_date" db:"call_date"`

	// Agent analysis
	AgentPerformanceScore sql.NullFloat64 `json:"-" db:"agent_performance_score"`
	AgentIssues           sql.NullString  `json:"-" db:"agent_issues"`

	// Customer analysis
	CustomerInterestScore sql.NullFloat64 `json:"-" db:"customer_interest_score"`
	CustomerDescription   sql.NullString  `json:"-" db:"customer_description"`
	CustomerPreferences   sql.NullString  `json:"-" db:"customer_preferences"`
	TestDriveReadiness    sql.NullFloat64 `json:"-" db:"test_drive_readiness"`

	// Raw structured analyzer output
	AnalysisResults map[string]interface{} `json:"analysis_results,omitempty" db:"analysis_results"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
