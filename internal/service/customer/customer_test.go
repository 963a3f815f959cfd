// internal/service/customer/customer_test.go
package customer

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"callcenter-service/internal/domain/customer"
	xerrors "callcenter-service/internal/pkg/errors"
)

type fakeCustomerStore struct {
	customers map[int64]*customer.Customer
	nextID    int64
	createErr error
}

func (f *fakeCustomerStore) Create(_ context.Context, c *customer.Customer) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.customers {
		if existing.PhoneNumber == c.PhoneNumber {
			return xerrors.Wrap(xerrors.ErrConflict, "phone number already registered")
		}
	}
	f.nextID++
	c.ID = f.nextID
	c.CreatedAt = time.Now().UTC()
	f.customers[c.ID] = c
	return nil
}

func (f *fakeCustomerStore) FindByID(_ context.Context, id int64) (*customer.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return c, nil
}

func (f *fakeCustomerStore) FindByPhone(_ context.Context, phone string) (*customer.Customer, error) {
	for _, c := range f.customers {
		if c.PhoneNumber == phone {
			return c, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeCustomerStore) Update(_ context.Context, id int64, c *customer.Customer) error {
	if _, ok := f.customers[id]; !ok {
		return xerrors.ErrNotFound
	}
	f.customers[id] = c
	return nil
}

func (f *fakeCustomerStore) List(_ context.Context, _ *customer.CustomerListFilters) ([]customer.Customer, error) {
	var out []customer.Customer
	for _, c := range f.customers {
		out = append(out, *c)
	}
	return out, nil
}

func newTestService() (*CustomerService, *fakeCustomerStore) {
	store := &fakeCustomerStore{customers: map[int64]*customer.Customer{}}
	return NewCustomerService(store, zap.NewNop()), store
}

func TestCreateCustomerGeneratesReference(t *testing.T) {
	svc, _ := newTestService()

	c, err := svc.CreateCustomer(context.Background(), &customer.CreateCustomerRequest{
		Name: "Alex", PhoneNumber: "+4915112345678",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !strings.HasPrefix(c.CustomerReference, "CUST-") {
		t.Fatalf("expected CUST- reference prefix, got %q", c.CustomerReference)
	}
	if c.Email.Valid {
		t.Fatal("empty email must stay null")
	}

	other, err := svc.CreateCustomer(context.Background(), &customer.CreateCustomerRequest{
		Name: "Sam", PhoneNumber: "+4915187654321", Email: "sam@example.com",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if other.CustomerReference == c.CustomerReference {
		t.Fatal("references must be unique per customer")
	}
	if !other.Email.Valid || other.Email.String != "sam@example.com" {
		t.Fatalf("email not carried over: %+v", other.Email)
	}
}

func TestCreateCustomerValidatesPhone(t *testing.T) {
	svc, store := newTestService()

	for _, phone := range []string{"", "words", "+49 151 1234", "12345"} {
		_, err := svc.CreateCustomer(context.Background(), &customer.CreateCustomerRequest{PhoneNumber: phone})
		if !xerrors.Is(err, xerrors.ErrInvalidInput) {
			t.Fatalf("phone %q: expected ErrInvalidInput, got %v", phone, err)
		}
	}
	if len(store.customers) != 0 {
		t.Fatalf("no rows should be written for invalid input, got %d", len(store.customers))
	}
}

func TestCreateCustomerConflictPassesThrough(t *testing.T) {
	svc, _ := newTestService()

	req := &customer.CreateCustomerRequest{Name: "Alex", PhoneNumber: "+4915112345678"}
	if _, err := svc.CreateCustomer(context.Background(), req); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := svc.CreateCustomer(context.Background(), req)
	if !xerrors.Is(err, xerrors.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate phone, got %v", err)
	}
}

func TestUpdateCustomerAppliesPatches(t *testing.T) {
	svc, _ := newTestService()

	c, err := svc.CreateCustomer(context.Background(), &customer.CreateCustomerRequest{
		Name: "Alex", PhoneNumber: "+4915112345678", Email: "alex@example.com",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	name := "Alexandra"
	updated, err := svc.UpdateCustomer(context.Background(), c.ID, &customer.UpdateCustomerRequest{Name: &name})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Alexandra" {
		t.Fatalf("name patch not applied: %q", updated.Name)
	}
	if updated.PhoneNumber != "+4915112345678" || updated.Email.String != "alex@example.com" {
		t.Fatalf("untouched fields must survive: %+v", updated)
	}

	badPhone := "oops"
	if _, err := svc.UpdateCustomer(context.Background(), c.ID, &customer.UpdateCustomerRequest{PhoneNumber: &badPhone}); !xerrors.Is(err, xerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	if _, err := svc.UpdateCustomer(context.Background(), 999, &customer.UpdateCustomerRequest{Name: &name}); !xerrors.Is(err, xerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown customer, got %v", err)
	}
}
