// internal/service/call/call.go
package call

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"callcenter-service/internal/analyzer"
	"callcenter-service/internal/domain/agent"
	"callcenter-service/internal/domain/call"
	"callcenter-service/internal/domain/customer"
	"callcenter-service/internal/events"
	xerrors "callcenter-service/internal/pkg/errors"
)

type CustomerStore interface {
	FindByID(ctx context.Context, id int64) (*customer.Customer, error)
}

type AgentStore interface {
	FindByID(ctx context.Context, id int64) (*agent.Agent, error)
}

type CallStore interface {
	CreateWithMetrics(ctx context.Context, c *call.Call) error
	FindByID(ctx context.Context, id int64) (*call.Call, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]call.Call, error)
	ListByAgentSince(ctx context.Context, agentID int64, since time.Time) ([]call.Call, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, channel string, payload interface{}) error
}

const (
	defaultWindowDays = 30
	maxCommitAttempts = 3
)

// CallService records calls: it validates the transcript, runs analysis,
// persists the call together with the agent metric update, and retries the
// commit on transient storage contention.
type CallService struct {
	calls     CallStore
	customers CustomerStore
	agents    AgentStore
	analyzer  analyzer.Analyzer
	events    EventPublisher
	logger    *zap.Logger

	// retryBase is the first backoff delay; it doubles on every attempt.
	retryBase time.Duration
}

func NewCallService(
	calls CallStore,
	customers CustomerStore,
	agents AgentStore,
	az analyzer.Analyzer,
	ev EventPublisher,
	logger *zap.Logger,
) *CallService {
	return &CallService{
		calls:     calls,
		customers: customers,
		agents:    agents,
		analyzer:  az,
		events:    ev,
		logger:    logger,
		retryBase: time.Second,
	}
}

// SetRetryBase overrides the initial backoff delay.
func (s *CallService) SetRetryBase(d time.Duration) {
	if d > 0 {
		s.retryBase = d
	}
}

// RecordCall creates a call with analysis attached. Analyzer failure aborts
// the whole operation: no call row is written without analysis.
func (s *CallService) RecordCall(ctx context.Context, req *call.CreateCallRequest) (*call.Call, error) {
	if strings.TrimSpace(req.Transcript) == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "transcript is empty")
	}
	if utf8.RuneCountInString(req.Transcript) > call.MaxTranscriptLen {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput,
			fmt.Sprintf("transcript exceeds %d characters", call.MaxTranscriptLen))
	}

	if _, err := s.customers.FindByID(ctx, req.CustomerID); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.Wrap(xerrors.ErrNotFound, "customer not found")
		}
		return nil, fmt.Errorf("failed to verify customer: %w", err)
	}
	if _, err := s.agents.FindByID(ctx, req.AgentID); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.Wrap(xerrors.ErrNotFound, "agent not found")
		}
		return nil, fmt.Errorf("failed to verify agent: %w", err)
	}

	result, err := s.analyzer.Analyze(ctx, req.Transcript)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", xerrors.ErrAnalyzer, err)
	}

	callDate := time.Now().UTC()
	if req.CallDate != nil {
		callDate = *req.CallDate
	}

	c := &call.Call{
		CustomerID:            req.CustomerID,
		AgentID:               req.AgentID,
		Transcript:            req.Transcript,
		CallDate:              callDate,
		AgentPerformanceScore: nullFloat(result.AgentPerformanceScore),
		AgentIssues:           nullString(result.AgentIssues),
		CustomerInterestScore: nullFloat(result.CustomerInterestScore),
		CustomerDescription:   nullString(result.CustomerDescription),
		CustomerPreferences:   nullString(result.CustomerPreferences),
		TestDriveReadiness:    nullFloat(result.TestDriveReadiness),
		AnalysisResults:       result.Raw,
	}

	if err := s.commitWithRetry(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("call recorded",
		zap.Int64("call_id", c.ID),
		zap.Int64("customer_id", c.CustomerID),
		zap.Int64("agent_id", c.AgentID),
		zap.Float64("agent_performance_score", result.AgentPerformanceScore),
	)

	if s.events != nil {
		if err := s.events.Publish(ctx, events.ChannelCallAnalyzed, c.ToResponse()); err != nil {
			s.logger.Warn("failed to publish call event", zap.Error(err), zap.Int64("call_id", c.ID))
		}
	}

	return c, nil
}

// commitWithRetry retries the transactional insert on lock contention with
// exponential backoff. The store rolls its transaction back before returning,
// so no partial state survives a failed attempt.
func (s *CallService) commitWithRetry(ctx context.Context, c *call.Call) error {
	backoff := s.retryBase
	for attempt := 1; ; attempt++ {
		err := s.calls.CreateWithMetrics(ctx, c)
		if err == nil {
			return nil
		}
		if !xerrors.Is(err, xerrors.ErrTransient) || attempt >= maxCommitAttempts {
			return err
		}

		s.logger.Warn("store busy, retrying call commit",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
		)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
	}
}

// GetCall retrieves a call by ID.
func (s *CallService) GetCall(ctx context.Context, id int64) (*call.Call, error) {
	return s.calls.FindByID(ctx, id)
}

// GetCustomerCalls lists every call for a customer.
func (s *CallService) GetCustomerCalls(ctx context.Context, customerID int64) ([]call.CallResponse, error) {
	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		return nil, err
	}

	calls, err := s.calls.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return toResponses(calls), nil
}

// GetAgentCalls lists an agent's calls inside the given day window.
func (s *CallService) GetAgentCalls(ctx context.Context, agentID int64, days int) ([]call.CallResponse, error) {
	if _, err := s.agents.FindByID(ctx, agentID); err != nil {
		return nil, err
	}

	if days <= 0 {
		days = defaultWindowDays
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	calls, err := s.calls.ListByAgentSince(ctx, agentID, since)
	if err != nil {
		return nil, err
	}

	return toResponses(calls), nil
}

func toResponses(calls []call.Call) []call.CallResponse {
	responses := make([]call.CallResponse, 0, len(calls))
	for i := range calls {
		responses = append(responses, calls[i].ToResponse())
	}
	return responses
}

func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: true}
}
