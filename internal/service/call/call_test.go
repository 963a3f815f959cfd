// internal/service/call/call_test.go
package call

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"callcenter-service/internal/analyzer"
	"callcenter-service/internal/domain/agent"
	"callcenter-service/internal/domain/call"
	"callcenter-service/internal/domain/customer"
	xerrors "callcenter-service/internal/pkg/errors"
)

type fakeCustomerStore struct {
	known map[int64]bool
}

func (f *fakeCustomerStore) FindByID(_ context.Context, id int64) (*customer.Customer, error) {
	if !f.known[id] {
		return nil, xerrors.ErrNotFound
	}
	return &customer.Customer{ID: id, PhoneNumber: "+4912345678"}, nil
}

type fakeAgentStore struct {
	agents map[int64]*agent.Agent
}

func (f *fakeAgentStore) FindByID(_ context.Context, id int64) (*agent.Agent, error) {
	a, ok := f.agents[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return a, nil
}

// fakeCallStore mimics the transactional insert: it assigns an ID, stores the
// call and applies the incremental metric update to the agent row, or fails
// with a scripted error first.
type fakeCallStore struct {
	agents   *fakeAgentStore
	created  []*call.Call
	attempts int
	failWith []error
}

func (f *fakeCallStore) CreateWithMetrics(_ context.Context, c *call.Call) error {
	f.attempts++
	if len(f.failWith) > 0 {
		err := f.failWith[0]
		f.failWith = f.failWith[1:]
		return err
	}

	c.ID = int64(len(f.created) + 1)
	c.CreatedAt = time.Now().UTC()
	f.created = append(f.created, c)

	if c.AgentPerformanceScore.Valid {
		a := f.agents.agents[c.AgentID]
		oldCount := float64(a.TotalCallsHandled)
		a.AveragePerformanceScore = (a.AveragePerformanceScore*oldCount + c.AgentPerformanceScore.Float64) / (oldCount + 1)
		a.TotalCallsHandled++
	}
	return nil
}

func (f *fakeCallStore) FindByID(_ context.Context, id int64) (*call.Call, error) {
	for _, c := range f.created {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeCallStore) ListByCustomer(_ context.Context, customerID int64) ([]call.Call, error) {
	var out []call.Call
	for _, c := range f.created {
		if c.CustomerID == customerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCallStore) ListByAgentSince(_ context.Context, agentID int64, since time.Time) ([]call.Call, error) {
	var out []call.Call
	for _, c := range f.created {
		if c.AgentID == agentID && !c.CallDate.Before(since) {
			out = append(out, *c)
		}
	}
	return out, nil
}

type fakeAnalyzer struct {
	result *analyzer.Result
	err    error
	calls  int
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ string) (*analyzer.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakePublisher struct {
	published int
}

func (f *fakePublisher) Publish(_ context.Context, _ string, _ interface{}) error {
	f.published++
	return nil
}

func newTestService(score float64) (*CallService, *fakeCallStore, *fakeAgentStore, *fakeAnalyzer) {
	agents := &fakeAgentStore{agents: map[int64]*agent.Agent{
		1: {ID: 1, Name: "Jane", EmployeeID: "EMP-001"},
	}}
	customers := &fakeCustomerStore{known: map[int64]bool{1: true}}
	calls := &fakeCallStore{agents: agents}
	az := &fakeAnalyzer{result: &analyzer.Result{
		AgentPerformanceScore: score,
		AgentIssues:           "No issues",
		CustomerInterestScore: 90.0,
		CustomerDescription:   "Interested customer",
		CustomerPreferences:   "E-Class",
		TestDriveReadiness:    85.0,
	}}

	svc := NewCallService(calls, customers, agents, az, &fakePublisher{}, zap.NewNop())
	svc.SetRetryBase(time.Microsecond)
	return svc, calls, agents, az
}

func TestRecordCallRejectsEmptyTranscript(t *testing.T) {
	svc, calls, _, az := newTestService(90)

	for _, transcript := range []string{"", "   ", "\n\t "} {
		_, err := svc.RecordCall(context.Background(), &call.CreateCallRequest{
			CustomerID: 1, AgentID: 1, Transcript: transcript,
		})
		if !xerrors.Is(err, xerrors.ErrInvalidInput) {
			t.Fatalf("transcript %q: expected ErrInvalidInput, got %v", transcript, err)
		}
	}
	if az.calls != 0 || len(calls.created) != 0 {
		t.Fatalf("nothing should run for empty transcripts, analyzer=%d created=%d", az.calls, len(calls.created))
	}
}

func TestRecordCallTranscriptLengthBound(t *testing.T) {
	svc, _, _, _ := newTestService(90)

	tooLong := strings.Repeat("a", call.MaxTranscriptLen+1)
	_, err := svc.RecordCall(context.Background(), &call.CreateCallRequest{
		CustomerID: 1, AgentID: 1, Transcript: tooLong,
	})
	if !xerrors.Is(err, xerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for %d chars, got %v", len(tooLong), err)
	}

	atLimit := strings.Repeat("a", call.MaxTranscriptLen)
	if _, err := svc.RecordCall(context.Background(), &call.CreateCallRequest{
		CustomerID: 1, AgentID: 1, Transcript: atLimit,
	}); err != nil {
		t.Fatalf("transcript at limit should be accepted, got %v", err)
	}
}

func TestRecordCallUnknownParticipants(t *testing.T) {
	svc, _, _, _ := newTestService(90)

	_, err := svc.RecordCall(context.Background(), &call.CreateCallRequest{
		CustomerID: 42, AgentID: 1, Transcript: "hello",
	})
	if !xerrors.Is(err, xerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown customer, got %v", err)
	}

	_, err = svc.RecordCall(context.Background(), &call.CreateCallRequest{
		CustomerID: 1, AgentID: 42, Transcript: "hello",
	})
	if !xerrors.Is(err, xerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown agent, got %v", err)
	}
}

func TestRecordCallAnalyzerFailureIsFatal(t *testing.T) {
	svc, calls, agents, az := newTestService(90)
	az.err = errors.New("provider timeout")

	_, err := svc.RecordCall(context.Background(), &call.CreateCallRequest{
		CustomerID: 1, AgentID: 1, Transcript: "hello",
	})
	if !xerrors.Is(err, xerrors.ErrAnalyzer) {
		t.Fatalf("expected ErrAnalyzer, got %v", err)
	}
	if len(calls.created) != 0 {
		t.Fatalf("no call must be persisted when analysis fails, got %d", len(calls.created))
	}
	if agents.agents[1].TotalCallsHandled != 0 {
		t.Fatalf("agent metrics must stay untouched, got count %d", agents.agents[1].TotalCallsHandled)
	}
}

func TestRecordCallUpdatesIncrementalMean(t *testing.T) {
	svc, calls, agents, az := newTestService(0)

	scores := []float64{80, 90, 70, 100, 85}
	var sum float64
	for _, score := range scores {
		az.result.AgentPerformanceScore = score
		sum += score
		if _, err := svc.RecordCall(context.Background(), &call.CreateCallRequest{
			CustomerID: 1, AgentID: 1, Transcript: "talking about the e-class",
		}); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	a := agents.agents[1]
	if a.TotalCallsHandled != int64(len(scores)) {
		t.Fatalf("expected %d calls handled, got %d", len(scores), a.TotalCallsHandled)
	}
	want := sum / float64(len(scores))
	if diff := a.AveragePerformanceScore - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected running average %.4f, got %.4f", want, a.AveragePerformanceScore)
	}
	if len(calls.created) != len(scores) {
		t.Fatalf("expected %d persisted calls, got %d", len(scores), len(calls.created))
	}
}

func TestRecordCallRetriesTransientErrors(t *testing.T) {
	svc, calls, _, _ := newTestService(90)
	calls.failWith = []error{xerrors.ErrTransient, xerrors.ErrTransient}

	result, err := svc.RecordCall(context.Background(), &call.CreateCallRequest{
		CustomerID: 1, AgentID: 1, Transcript: "hello",
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls.attempts != 3 {
		t.Fatalf("expected 3 commit attempts, got %d", calls.attempts)
	}
	if result.ID == 0 {
		t.Fatal("expected persisted call to carry an ID")
	}
}

func TestRecordCallGivesUpAfterMaxAttempts(t *testing.T) {
	svc, calls, _, _ := newTestService(90)
	calls.failWith = []error{xerrors.ErrTransient, xerrors.ErrTransient, xerrors.ErrTransient}

	_, err := svc.RecordCall(context.Background(), &call.CreateCallRequest{
		CustomerID: 1, AgentID: 1, Transcript: "hello",
	})
	if !xerrors.Is(err, xerrors.ErrTransient) {
		t.Fatalf("expected ErrTransient after exhausting retries, got %v", err)
	}
	if calls.attempts != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", calls.attempts)
	}
}

func TestRecordCallDoesNotRetryPermanentErrors(t *testing.T) {
	svc, calls, _, _ := newTestService(90)
	calls.failWith = []error{xerrors.ErrConflict}

	_, err := svc.RecordCall(context.Background(), &call.CreateCallRequest{
		CustomerID: 1, AgentID: 1, Transcript: "hello",
	})
	if !xerrors.Is(err, xerrors.ErrConflict) {
		t.Fatalf("expected ErrConflict passed through, got %v", err)
	}
	if calls.attempts != 1 {
		t.Fatalf("permanent errors must not be retried, got %d attempts", calls.attempts)
	}
}

func TestGetCustomerCallsVerifiesCustomer(t *testing.T) {
	svc, _, _, _ := newTestService(90)

	_, err := svc.GetCustomerCalls(context.Background(), 42)
	if !xerrors.Is(err, xerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown customer, got %v", err)
	}
}

func TestGetAgentCallsDefaultsWindow(t *testing.T) {
	svc, calls, _, _ := newTestService(90)

	old := time.Now().UTC().AddDate(0, 0, -45)
	recent := time.Now().UTC().AddDate(0, 0, -5)
	calls.created = []*call.Call{
		{ID: 1, AgentID: 1, CustomerID: 1, CallDate: old},
		{ID: 2, AgentID: 1, CustomerID: 1, CallDate: recent},
	}

	got, err := svc.GetAgentCalls(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("expected only the call inside the default 30 day window, got %+v", got)
	}
}
