// internal/domain/call/dto.go
package call

import "time"

type CreateCallRequest struct {
	CustomerID int64      `json:"customer_id" binding:"required"`
	AgentID    int64      `json:"agent_id" binding:"required"`
	Transcript string     `json:"transcript" binding:"required"`
	CallDate   *time.Time `json:"call_date"`
}

type CallListFilters struct {
	Days  int `form:"days" binding:"min=0"`
	Skip  int `form:"skip" binding:"min=0"`
	Limit int `form:"limit" binding:"min=0,max=500"`
}

// CallResponse is the outward shape of a Call with null analysis fields
// collapsed to their zero values.
type CallResponse struct {
	ID                    int64                  `json:"id"`
	CustomerID            int64                  `json:"customer_id"`
	AgentID               int64                  `json:"agent_id"`
	Transcript            string                 `json:"transcript"`
	CallDate              time.Time              `json:"call_date"`
	AgentPerformanceScore float64                `json:"agent_performance_score"`
	AgentIssues           string                 `json:"agent_issues"`
	CustomerInterestScore float64                `json:"customer_interest_score"`
	CustomerDescription   string                 `json:"customer_description"`
	CustomerPreferences   string                 `json:"customer_preferences"`
	TestDriveReadiness    float64                `json:"test_drive_readiness"`
	AnalysisResults       map[string]interface{} `json:"analysis_results"`
	CreatedAt             time.Time              `json:"created_at"`
}

// ToResponse applies in-memory defaults for null analysis fields.
func (c *Call) ToResponse() CallResponse {
	resp := CallResponse{
		ID:              c.ID,
		CustomerID:      c.CustomerID,
		AgentID:         c.AgentID,
		Transcript:      c.Transcript,
		CallDate:        c.CallDate,
		AnalysisResults: c.AnalysisResults,
		CreatedAt:       c.CreatedAt,
	}
	if c.AgentPerformanceScore.Valid {
		resp.AgentPerformanceScore = c.AgentPerformanceScore.Float64
	}
	if c.AgentIssues.Valid {
		resp.AgentIssues = c.AgentIssues.String
	}
	if c.CustomerInterestScore.Valid {
		resp.CustomerInterestScore = c.CustomerInterestScore.Float64
	}
	if c.CustomerDescription.Valid {
		resp.CustomerDescription = c.CustomerDescription.String
	}
	if c.CustomerPreferences.Valid {
		resp.CustomerPreferences = c.CustomerPreferences.String
	}
	if c.TestDriveReadiness.Valid {
		resp.TestDriveReadiness = c.TestDriveReadiness.Float64
	}
	if resp.AnalysisResults == nil {
		resp.AnalysisResults = map[string]interface{}{}
	}
	return resp
}
