// internal/analyzer/analyzer.go
package analyzer

import "context"

// Result is the fixed-shape output of a transcript analysis. Scores are on a
// 0-100 scale; AgentIssues is a comma-separated list of issue fragments.
type Result struct {
	AgentPerformanceScore float64                `json:"agent_performance_score"`
	AgentIssues           string                 `json:"agent_issues"`
	CustomerInterestScore float64                `json:"customer_interest_score"`
	CustomerDescription   string                 `json:"customer_description"`
	CustomerPreferences   string                 `json:"customer_preferences"`
	TestDriveReadiness    float64                `json:"test_drive_readiness"`
	Raw                   map[string]interface{} `json:"analysis_results"`
}

// Analyzer turns a call transcript into structured analysis. Implementations
// must fail on an empty transcript rather than return partial data.
type Analyzer interface {
	Analyze(ctx context.Context, transcript string) (*Result, error)
}
