// internal/domain/inquiry/entity.go
package inquiry

import "time"

type Status string

const (
	// StatusCalling is the initial state: the outbound dialer has been asked
	// to reach the customer.
	StatusCalling Status = "CALLING"
	// StatusWaitingSalesAgent is declared for the handover workflow; no
	// transition into it is implemented yet.
	StatusWaitingSalesAgent Status = "WAITING_SALES_AGENT"
	// StatusDeal is reached once a call transcript has been recorded and
	// analyzed for the inquiry's customer.
	StatusDeal Status = "DEAL"
)

// Inquiry is keyed for idempotent creation by (customer_id, referral_nr).
type Inquiry struct {
	ID          int64                  `json:"id" db:"id"`
	CustomerID  int64                  `json:"customer_id" db:"customer_id"`
	ReferralNr  string                 `json:"referral_nr" db:"referral_nr"`
	Status      Status                 `json:"status" db:"status"`
	Variables   map[string]interface{} `json:"variables,omitempty" db:"variables"`
	Transcripts map[string]interface{} `json:"transcripts,omitempty" db:"transcripts"`
	CreatedAt   time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at" db:"updated_at"`
}
