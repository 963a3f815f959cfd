// internal/service/inquiry/inquiry_test.go
package inquiry

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"callcenter-service/internal/domain/agent"
	"callcenter-service/internal/domain/call"
	"callcenter-service/internal/domain/customer"
	"callcenter-service/internal/domain/inquiry"
	xerrors "callcenter-service/internal/pkg/errors"
)

type fakeInquiryStore struct {
	inquiries map[int64]*inquiry.Inquiry
	nextID    int64
	creates   int
	updates   int
}

func (f *fakeInquiryStore) Create(_ context.Context, inq *inquiry.Inquiry) error {
	f.creates++
	for _, existing := range f.inquiries {
		if existing.CustomerID == inq.CustomerID && existing.ReferralNr == inq.ReferralNr {
			return xerrors.Wrap(xerrors.ErrConflict, "inquiry already exists")
		}
	}
	f.nextID++
	inq.ID = f.nextID
	inq.CreatedAt = time.Now().UTC()
	inq.UpdatedAt = inq.CreatedAt
	f.inquiries[inq.ID] = inq
	return nil
}

func (f *fakeInquiryStore) FindByID(_ context.Context, id int64) (*inquiry.Inquiry, error) {
	inq, ok := f.inquiries[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	copied := *inq
	return &copied, nil
}

func (f *fakeInquiryStore) FindByCustomerAndReferral(_ context.Context, customerID int64, referralNr string) (*inquiry.Inquiry, error) {
	for _, inq := range f.inquiries {
		if inq.CustomerID == customerID && inq.ReferralNr == referralNr {
			copied := *inq
			return &copied, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeInquiryStore) Update(_ context.Context, inq *inquiry.Inquiry) error {
	if _, ok := f.inquiries[inq.ID]; !ok {
		return xerrors.ErrNotFound
	}
	f.updates++
	inq.UpdatedAt = time.Now().UTC()
	copied := *inq
	f.inquiries[inq.ID] = &copied
	return nil
}

type fakeCustomerDirectory struct {
	byPhone map[string]*customer.Customer
	nextID  int64
	creates int
}

func (f *fakeCustomerDirectory) GetCustomerByPhone(_ context.Context, phone string) (*customer.Customer, error) {
	c, ok := f.byPhone[phone]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return c, nil
}

func (f *fakeCustomerDirectory) CreateCustomer(_ context.Context, req *customer.CreateCustomerRequest) (*customer.Customer, error) {
	f.creates++
	f.nextID++
	c := &customer.Customer{ID: f.nextID, Name: req.Name, PhoneNumber: req.PhoneNumber}
	f.byPhone[req.PhoneNumber] = c
	return c, nil
}

type fakeProvisioner struct {
	agent *agent.Agent
	calls int
}

func (f *fakeProvisioner) EnsureAIAgent(_ context.Context) (*agent.Agent, error) {
	f.calls++
	return f.agent, nil
}

type fakeRecorder struct {
	requests []*call.CreateCallRequest
	err      error
}

func (f *fakeRecorder) RecordCall(_ context.Context, req *call.CreateCallRequest) (*call.Call, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.requests = append(f.requests, req)
	return &call.Call{ID: 1, CustomerID: req.CustomerID, AgentID: req.AgentID}, nil
}

type fakeDialer struct {
	calls []int64
	err   error
}

func (f *fakeDialer) StartCall(_ context.Context, _ string, inquiryID int64) error {
	f.calls = append(f.calls, inquiryID)
	return f.err
}

type fakePublisher struct {
	published int
}

func (f *fakePublisher) Publish(_ context.Context, _ string, _ interface{}) error {
	f.published++
	return nil
}

type fixture struct {
	svc       *InquiryService
	inquiries *fakeInquiryStore
	customers *fakeCustomerDirectory
	agents    *fakeProvisioner
	recorder  *fakeRecorder
	dialer    *fakeDialer
}

func newFixture() *fixture {
	f := &fixture{
		inquiries: &fakeInquiryStore{inquiries: map[int64]*inquiry.Inquiry{}},
		customers: &fakeCustomerDirectory{byPhone: map[string]*customer.Customer{}},
		agents:    &fakeProvisioner{agent: &agent.Agent{ID: 7, EmployeeID: agent.WellKnownAIEmployeeID}},
		recorder:  &fakeRecorder{},
		dialer:    &fakeDialer{},
	}
	f.svc = NewInquiryService(f.inquiries, f.customers, f.agents, f.recorder, f.dialer, &fakePublisher{}, zap.NewNop())
	return f
}

func TestCreateInquiryCreatesCustomerLazily(t *testing.T) {
	f := newFixture()

	inq, err := f.svc.CreateInquiry(context.Background(), &inquiry.CreateInquiryRequest{
		PhoneNumber: "+4915112345678", Name: "Alex", ReferralNr: "REF-100",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if f.customers.creates != 1 {
		t.Fatalf("expected one customer created, got %d", f.customers.creates)
	}
	if inq.Status != inquiry.StatusCalling {
		t.Fatalf("new inquiries start in CALLING, got %s", inq.Status)
	}
	if len(f.dialer.calls) != 1 || f.dialer.calls[0] != inq.ID {
		t.Fatalf("expected a dial notification for inquiry %d, got %v", inq.ID, f.dialer.calls)
	}
}

func TestCreateInquiryReusesExistingCustomer(t *testing.T) {
	f := newFixture()
	f.customers.byPhone["+4915112345678"] = &customer.Customer{ID: 5, PhoneNumber: "+4915112345678"}

	inq, err := f.svc.CreateInquiry(context.Background(), &inquiry.CreateInquiryRequest{
		PhoneNumber: "+4915112345678", ReferralNr: "REF-100",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if f.customers.creates != 0 {
		t.Fatalf("existing customer must be reused, got %d creates", f.customers.creates)
	}
	if inq.CustomerID != 5 {
		t.Fatalf("inquiry bound to wrong customer: %d", inq.CustomerID)
	}
}

func TestCreateInquiryIsIdempotent(t *testing.T) {
	f := newFixture()
	req := &inquiry.CreateInquiryRequest{PhoneNumber: "+4915112345678", ReferralNr: "REF-100"}

	first, err := f.svc.CreateInquiry(context.Background(), req)
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	second, err := f.svc.CreateInquiry(context.Background(), req)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("replay must return the same inquiry, got %d and %d", first.ID, second.ID)
	}
	if len(f.inquiries.inquiries) != 1 {
		t.Fatalf("expected a single inquiry row, got %d", len(f.inquiries.inquiries))
	}
	if len(f.dialer.calls) != 1 {
		t.Fatalf("replay must not redial, got %d dial attempts", len(f.dialer.calls))
	}
}

func TestCreateInquiryDialerFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.dialer.err = errors.New("provider unreachable")

	inq, err := f.svc.CreateInquiry(context.Background(), &inquiry.CreateInquiryRequest{
		PhoneNumber: "+4915112345678", ReferralNr: "REF-100",
	})
	if err != nil {
		t.Fatalf("dial failure must not fail inquiry creation: %v", err)
	}
	if inq.ID == 0 {
		t.Fatal("inquiry should be persisted despite dial failure")
	}
}

func TestCreateInquiryWithoutDialer(t *testing.T) {
	f := newFixture()
	f.svc = NewInquiryService(f.inquiries, f.customers, f.agents, f.recorder, nil, nil, zap.NewNop())

	if _, err := f.svc.CreateInquiry(context.Background(), &inquiry.CreateInquiryRequest{
		PhoneNumber: "+4915112345678", ReferralNr: "REF-100",
	}); err != nil {
		t.Fatalf("create without dialer failed: %v", err)
	}
}

func TestUpdateInquiryTranscriptMovesToDeal(t *testing.T) {
	f := newFixture()
	inq, _ := f.svc.CreateInquiry(context.Background(), &inquiry.CreateInquiryRequest{
		PhoneNumber: "+4915112345678", ReferralNr: "REF-100",
	})

	updated, err := f.svc.UpdateInquiry(context.Background(), inq.ID, &inquiry.UpdateInquiryRequest{
		Variables:              map[string]interface{}{"model": "e-class"},
		ConcatenatedTranscript: "Customer asked about the E-Class.",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != inquiry.StatusDeal {
		t.Fatalf("expected DEAL after transcript, got %s", updated.Status)
	}
	if len(f.recorder.requests) != 1 {
		t.Fatalf("expected exactly one recorded call, got %d", len(f.recorder.requests))
	}
	rec := f.recorder.requests[0]
	if rec.AgentID != f.agents.agent.ID || rec.CustomerID != inq.CustomerID {
		t.Fatalf("call recorded against wrong participants: %+v", rec)
	}
	if updated.Variables["model"] != "e-class" {
		t.Fatalf("variables patch not applied: %v", updated.Variables)
	}
}

func TestUpdateInquiryWithoutTranscriptKeepsStatus(t *testing.T) {
	f := newFixture()
	inq, _ := f.svc.CreateInquiry(context.Background(), &inquiry.CreateInquiryRequest{
		PhoneNumber: "+4915112345678", ReferralNr: "REF-100",
	})

	for _, transcript := range []string{"", "   \n"} {
		updated, err := f.svc.UpdateInquiry(context.Background(), inq.ID, &inquiry.UpdateInquiryRequest{
			Variables:              map[string]interface{}{"note": "left voicemail"},
			ConcatenatedTranscript: transcript,
		})
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if updated.Status != inquiry.StatusCalling {
			t.Fatalf("status must not change without transcript, got %s", updated.Status)
		}
	}
	if len(f.recorder.requests) != 0 {
		t.Fatalf("no call must be recorded without transcript, got %d", len(f.recorder.requests))
	}
	if f.agents.calls != 0 {
		t.Fatalf("AI agent must not be provisioned without transcript, got %d", f.agents.calls)
	}
}

func TestUpdateInquiryRecorderFailureAbortsPersist(t *testing.T) {
	f := newFixture()
	inq, _ := f.svc.CreateInquiry(context.Background(), &inquiry.CreateInquiryRequest{
		PhoneNumber: "+4915112345678", ReferralNr: "REF-100",
	})
	f.recorder.err = xerrors.ErrAnalyzer
	updatesBefore := f.inquiries.updates

	_, err := f.svc.UpdateInquiry(context.Background(), inq.ID, &inquiry.UpdateInquiryRequest{
		ConcatenatedTranscript: "Customer asked about the E-Class.",
	})
	if !xerrors.Is(err, xerrors.ErrAnalyzer) {
		t.Fatalf("expected recorder error to propagate, got %v", err)
	}
	if f.inquiries.updates != updatesBefore {
		t.Fatal("inquiry must not be persisted when call recording fails")
	}
	stored, _ := f.inquiries.FindByID(context.Background(), inq.ID)
	if stored.Status != inquiry.StatusCalling {
		t.Fatalf("stored status must stay CALLING, got %s", stored.Status)
	}
}

func TestUpdateInquiryUnknownID(t *testing.T) {
	f := newFixture()

	_, err := f.svc.UpdateInquiry(context.Background(), 404, &inquiry.UpdateInquiryRequest{})
	if !xerrors.Is(err, xerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
