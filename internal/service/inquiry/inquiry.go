// internal/service/inquiry/inquiry.go
package inquiry

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"callcenter-service/internal/domain/agent"
	"callcenter-service/internal/domain/call"
	"callcenter-service/internal/domain/customer"
	"callcenter-service/internal/domain/inquiry"
	"callcenter-service/internal/events"
	xerrors "callcenter-service/internal/pkg/errors"
)

type InquiryStore interface {
	Create(ctx context.Context, inq *inquiry.Inquiry) error
	FindByID(ctx context.Context, id int64) (*inquiry.Inquiry, error)
	FindByCustomerAndReferral(ctx context.Context, customerID int64, referralNr string) (*inquiry.Inquiry, error)
	Update(ctx context.Context, inq *inquiry.Inquiry) error
}

type CustomerDirectory interface {
	GetCustomerByPhone(ctx context.Context, phone string) (*customer.Customer, error)
	CreateCustomer(ctx context.Context, req *customer.CreateCustomerRequest) (*customer.Customer, error)
}

type AgentProvisioner interface {
	EnsureAIAgent(ctx context.Context) (*agent.Agent, error)
}

type CallRecorder interface {
	RecordCall(ctx context.Context, req *call.CreateCallRequest) (*call.Call, error)
}

type DialNotifier interface {
	StartCall(ctx context.Context, phoneNumber string, inquiryID int64) error
}

type EventPublisher interface {
	Publish(ctx context.Context, channel string, payload interface{}) error
}

// InquiryService drives the inquiry lifecycle: lazy customer creation,
// idempotent inquiry creation keyed by (customer, referral), and the
// transition to DEAL once a transcript arrives.
type InquiryService struct {
	inquiries InquiryStore
	customers CustomerDirectory
	agents    AgentProvisioner
	recorder  CallRecorder
	dialer    DialNotifier
	events    EventPublisher
	logger    *zap.Logger
}

func NewInquiryService(
	inquiries InquiryStore,
	customers CustomerDirectory,
	agents AgentProvisioner,
	recorder CallRecorder,
	dialer DialNotifier,
	ev EventPublisher,
	logger *zap.Logger,
) *InquiryService {
	return &InquiryService{
		inquiries: inquiries,
		customers: customers,
		agents:    agents,
		recorder:  recorder,
		dialer:    dialer,
		events:    ev,
		logger:    logger,
	}
}

// CreateInquiry finds or creates the customer by phone, then finds or creates
// the inquiry by (customer, referral). Replaying the same request returns the
// existing row untouched. The dial notification is fire-and-forget.
func (s *InquiryService) CreateInquiry(ctx context.Context, req *inquiry.CreateInquiryRequest) (*inquiry.Inquiry, error) {
	cust, err := s.customers.GetCustomerByPhone(ctx, req.PhoneNumber)
	if xerrors.Is(err, xerrors.ErrNotFound) {
		cust, err = s.customers.CreateCustomer(ctx, &customer.CreateCustomerRequest{
			Name:        req.Name,
			PhoneNumber: req.PhoneNumber,
			Email:       req.Email,
		})
	}
	if err != nil {
		return nil, err
	}

	existing, err := s.inquiries.FindByCustomerAndReferral(ctx, cust.ID, req.ReferralNr)
	if err == nil {
		return existing, nil
	}
	if !xerrors.Is(err, xerrors.ErrNotFound) {
		return nil, err
	}

	inq := &inquiry.Inquiry{
		CustomerID: cust.ID,
		ReferralNr: req.ReferralNr,
		Status:     inquiry.StatusCalling,
	}
	if err := s.inquiries.Create(ctx, inq); err != nil {
		// A concurrent request may have won the race on the composite key;
		// the surviving row is the answer either way.
		if xerrors.Is(err, xerrors.ErrConflict) {
			return s.inquiries.FindByCustomerAndReferral(ctx, cust.ID, req.ReferralNr)
		}
		return nil, err
	}

	s.logger.Info("inquiry created",
		zap.Int64("inquiry_id", inq.ID),
		zap.Int64("customer_id", cust.ID),
		zap.String("referral_nr", inq.ReferralNr),
	)

	if s.dialer != nil {
		if err := s.dialer.StartCall(ctx, req.PhoneNumber, inq.ID); err != nil {
			s.logger.Warn("failed to start outbound call",
				zap.Error(err),
				zap.Int64("inquiry_id", inq.ID),
			)
		}
	}

	if s.events != nil {
		if err := s.events.Publish(ctx, events.ChannelInquiryCreated, inq); err != nil {
			s.logger.Warn("failed to publish inquiry event", zap.Error(err), zap.Int64("inquiry_id", inq.ID))
		}
	}

	return inq, nil
}

// UpdateInquiry applies field patches and, when a transcript is attached,
// records the call against the AI agent and moves the inquiry to DEAL.
// Nothing is persisted if call recording fails.
func (s *InquiryService) UpdateInquiry(ctx context.Context, id int64, req *inquiry.UpdateInquiryRequest) (*inquiry.Inquiry, error) {
	inq, err := s.inquiries.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Variables != nil {
		inq.Variables = req.Variables
	}
	if req.Transcripts != nil {
		inq.Transcripts = req.Transcripts
	}

	if strings.TrimSpace(req.ConcatenatedTranscript) != "" {
		aiAgent, err := s.agents.EnsureAIAgent(ctx)
		if err != nil {
			return nil, err
		}

		if _, err := s.recorder.RecordCall(ctx, &call.CreateCallRequest{
			CustomerID: inq.CustomerID,
			AgentID:    aiAgent.ID,
			Transcript: req.ConcatenatedTranscript,
		}); err != nil {
			return nil, err
		}

		inq.Status = inquiry.StatusDeal
	}

	if err := s.inquiries.Update(ctx, inq); err != nil {
		return nil, err
	}

	s.logger.Info("inquiry updated",
		zap.Int64("inquiry_id", inq.ID),
		zap.String("status", string(inq.Status)),
	)

	return inq, nil
}

// GetInquiry retrieves an inquiry by ID.
func (s *InquiryService) GetInquiry(ctx context.Context, id int64) (*inquiry.Inquiry, error) {
	return s.inquiries.FindByID(ctx, id)
}
