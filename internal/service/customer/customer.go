// internal/service/customer/customer.go
package customer

import (
	"context"
	"database/sql"
	"regexp"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"callcenter-service/internal/domain/customer"
	xerrors "callcenter-service/internal/pkg/errors"
)

type CustomerStore interface {
	Create(ctx context.Context, c *customer.Customer) error
	FindByID(ctx context.Context, id int64) (*customer.Customer, error)
	FindByPhone(ctx context.Context, phone string) (*customer.Customer, error)
	Update(ctx context.Context, id int64, c *customer.Customer) error
	List(ctx context.Context, filters *customer.CustomerListFilters) ([]customer.Customer, error)
}

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

type CustomerService struct {
	customers CustomerStore
	logger    *zap.Logger
}

func NewCustomerService(customers CustomerStore, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customers: customers,
		logger:    logger,
	}
}

// CreateCustomer creates a new customer with a generated reference.
func (s *CustomerService) CreateCustomer(ctx context.Context, req *customer.CreateCustomerRequest) (*customer.Customer, error) {
	if err := validatePhoneNumber(req.PhoneNumber); err != nil {
		return nil, err
	}

	c := &customer.Customer{
		CustomerReference: "CUST-" + ulid.Make().String(),
		Name:              req.Name,
		PhoneNumber:       req.PhoneNumber,
		Email:             sql.NullString{String: req.Email, Valid: req.Email != ""},
	}

	if err := s.customers.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("customer created",
		zap.Int64("customer_id", c.ID),
		zap.String("customer_reference", c.CustomerReference),
	)

	return c, nil
}

// GetCustomer retrieves a customer by ID.
func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*customer.Customer, error) {
	return s.customers.FindByID(ctx, id)
}

// GetCustomerByPhone retrieves a customer by phone number.
func (s *CustomerService) GetCustomerByPhone(ctx context.Context, phone string) (*customer.Customer, error) {
	return s.customers.FindByPhone(ctx, phone)
}

// ListCustomers retrieves customers with filters.
func (s *CustomerService) ListCustomers(ctx context.Context, filters *customer.CustomerListFilters) ([]customer.Customer, error) {
	return s.customers.List(ctx, filters)
}

// UpdateCustomer applies the supplied field patches.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id int64, req *customer.UpdateCustomerRequest) (*customer.Customer, error) {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.PhoneNumber != nil {
		if err := validatePhoneNumber(*req.PhoneNumber); err != nil {
			return nil, err
		}
		c.PhoneNumber = *req.PhoneNumber
	}
	if req.Email != nil {
		c.Email = sql.NullString{String: *req.Email, Valid: *req.Email != ""}
	}

	if err := s.customers.Update(ctx, id, c); err != nil {
		return nil, err
	}

	s.logger.Info("customer updated", zap.Int64("customer_id", id))

	return c, nil
}

func validatePhoneNumber(phone string) error {
	if !phonePattern.MatchString(phone) {
		return xerrors.Wrap(xerrors.ErrInvalidInput, "invalid phone number format")
	}
	return nil
}
