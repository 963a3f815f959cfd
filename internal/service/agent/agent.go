// internal/service/agent/agent.go
package agent

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"callcenter-service/internal/domain/agent"
	"callcenter-service/internal/domain/call"
	xerrors "callcenter-service/internal/pkg/errors"
)

type AgentStore interface {
	Create(ctx context.Context, a *agent.Agent) error
	FindByID(ctx context.Context, id int64) (*agent.Agent, error)
	GetOrCreate(ctx context.Context, a *agent.Agent) (*agent.Agent, error)
	Update(ctx context.Context, id int64, a *agent.Agent) error
	List(ctx context.Context, filters *agent.AgentListFilters) ([]agent.Agent, error)
}

type CallStore interface {
	ListByAgentSince(ctx context.Context, agentID int64, since time.Time) ([]call.Call, error)
}

const defaultWindowDays = 30

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

type AgentService struct {
	agents AgentStore
	calls  CallStore
	logger *zap.Logger

	// now is swapped in tests to pin the aggregation window.
	now func() time.Time
}

func NewAgentService(agents AgentStore, calls CallStore, logger *zap.Logger) *AgentService {
	return &AgentService{
		agents: agents,
		calls:  calls,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateAgent creates a new agent with zeroed metrics.
func (s *AgentService) CreateAgent(ctx context.Context, req *agent.CreateAgentRequest) (*agent.Agent, error) {
	if err := validatePhoneNumber(req.PhoneNumber); err != nil {
		return nil, err
	}

	a := &agent.Agent{
		Name:           req.Name,
		EmployeeID:     req.EmployeeID,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Specialization: sql.NullString{String: req.Specialization, Valid: req.Specialization != ""},
		IsActive:       true,
	}

	if err := s.agents.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("agent created",
		zap.Int64("agent_id", a.ID),
		zap.String("employee_id", a.EmployeeID),
	)

	return a, nil
}

// GetAgent retrieves an agent by ID.
func (s *AgentService) GetAgent(ctx context.Context, id int64) (*agent.Agent, error) {
	return s.agents.FindByID(ctx, id)
}

// ListAgents retrieves agents with filters.
func (s *AgentService) ListAgents(ctx context.Context, filters *agent.AgentListFilters) ([]agent.Agent, error) {
	return s.agents.List(ctx, filters)
}

// UpdateAgent applies the supplied field patches.
func (s *AgentService) UpdateAgent(ctx context.Context, id int64, req *agent.UpdateAgentRequest) (*agent.Agent, error) {
	a, err := s.agents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		a.Name = *req.Name
	}
	if req.Email != nil {
		a.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		if err := validatePhoneNumber(*req.PhoneNumber); err != nil {
			return nil, err
		}
		a.PhoneNumber = *req.PhoneNumber
	}
	if req.Specialization != nil {
		a.Specialization = sql.NullString{String: *req.Specialization, Valid: *req.Specialization != ""}
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}

	if err := s.agents.Update(ctx, id, a); err != nil {
		return nil, err
	}

	s.logger.Info("agent updated", zap.Int64("agent_id", id))

	return a, nil
}

// EnsureAIAgent resolves the well-known AI agent row, creating it with zero
// metrics on first use. Safe to call concurrently.
func (s *AgentService) EnsureAIAgent(ctx context.Context) (*agent.Agent, error) {
	return s.agents.GetOrCreate(ctx, &agent.Agent{
		Name:           "AI Voice Agent",
		EmployeeID:     agent.WellKnownAIEmployeeID,
		Email:          "ai-agent@dealership.internal",
		PhoneNumber:    "+10000000000",
		Specialization: sql.NullString{String: "AI", Valid: true},
		IsActive:       true,
	})
}

// Performance computes the windowed, read-only summary over an agent's
// calls. It never feeds back into the persisted lifetime metrics.
func (s *AgentService) Performance(ctx context.Context, agentID int64, windowDays int) (*agent.PerformanceSummary, error) {
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}

	a, err := s.agents.FindByID(ctx, agentID)
	if err != nil {
		return nil, err
	}

	since := s.now().AddDate(0, 0, -windowDays)
	calls, err := s.calls.ListByAgentSince(ctx, agentID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load calls: %w", err)
	}

	summary := &agent.PerformanceSummary{
		AgentID:           a.ID,
		AgentName:         a.Name,
		WindowDays:        windowDays,
		TotalCallsHandled: len(calls),
		AgentIssues:       []string{},
		Specialization:    a.Specialization.String,
		IsActive:          a.IsActive,
	}

	summary.AveragePerformanceScore = meanOf(calls, func(c *call.Call) sql.NullFloat64 { return c.AgentPerformanceScore })
	summary.AverageCustomerInterest = meanOf(calls, func(c *call.Call) sql.NullFloat64 { return c.CustomerInterestScore })
	summary.AverageTestDriveReadiness = meanOf(calls, func(c *call.Call) sql.NullFloat64 { return c.TestDriveReadiness })
	summary.AgentIssues = collectIssues(calls)

	return summary, nil
}

// meanOf averages a nullable score column; null values are excluded from both
// numerator and denominator rather than counted as zero.
func meanOf(calls []call.Call, field func(*call.Call) sql.NullFloat64) float64 {
	var sum float64
	var n int
	for i := range calls {
		if v := field(&calls[i]); v.Valid {
			sum += v.Float64
			n++
		}
	}
	if n == 0 {
		return 0.0
	}
	return sum / float64(n)
}

// collectIssues splits each call's comma-separated issue text and unions the
// fragments across calls, preserving first-seen order.
func collectIssues(calls []call.Call) []string {
	seen := map[string]bool{}
	issues := []string{}
	for i := range calls {
		if !calls[i].AgentIssues.Valid {
			continue
		}
		for _, fragment := range strings.Split(calls[i].AgentIssues.String, ",") {
			fragment = strings.TrimSpace(fragment)
			if fragment == "" || seen[fragment] {
				continue
			}
			seen[fragment] = true
			issues = append(issues, fragment)
		}
	}
	return issues
}

func validatePhoneNumber(phone string) error {
	if !phonePattern.MatchString(phone) {
		return xerrors.Wrap(xerrors.ErrInvalidInput, "invalid phone number format")
	}
	return nil
}
