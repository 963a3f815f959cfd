// internal/domain/customer/entity.go
package customer

import (
	"database/sql"
	"time"
)

type Customer struct {
	ID                int64          `json:"id" db:"id"`
	CustomerReference string         `json:"customer_reference" db:"customer_reference"`
	Name              string         `json:"name" db:"name"`
	PhoneNumber       string         `json:"phone_number" db:"phone_number"`
	Email             sql.NullString `json:"email,omitempty" db:"email"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
}
