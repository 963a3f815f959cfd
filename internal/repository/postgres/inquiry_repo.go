// internal/repository/postgres/inquiry_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"callcenter-service/internal/domain/inquiry"
	xerrors "callcenter-service/internal/pkg/errors"
)

type InquiryRepository struct {
	db *pgxpool.Pool
}

func NewInquiryRepository(db *pgxpool.Pool) *InquiryRepository {
	return &InquiryRepository{db: db}
}

const inquiryColumns = `id, customer_id, referral_nr, status, variables, transcripts, created_at, updated_at`

func scanInquiry(row pgx.Row) (*inquiry.Inquiry, error) {
	var inq inquiry.Inquiry
	var variablesJSON, transcriptsJSON []byte

	err := row.Scan(
		&inq.ID, &inq.CustomerID, &inq.ReferralNr, &inq.Status,
		&variablesJSON, &transcriptsJSON, &inq.CreatedAt, &inq.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan inquiry: %w", translateError(err))
	}

	if len(variablesJSON) > 0 {
		if err := json.Unmarshal(variablesJSON, &inq.Variables); err != nil {
			return nil, fmt.Errorf("failed to unmarshal variables: %w", err)
		}
	}
	if len(transcriptsJSON) > 0 {
		if err := json.Unmarshal(transcriptsJSON, &inq.Transcripts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transcripts: %w", err)
		}
	}

	return &inq, nil
}

func marshalMaps(inq *inquiry.Inquiry) (variablesJSON, transcriptsJSON []byte, err error) {
	if inq.Variables != nil {
		variablesJSON, err = json.Marshal(inq.Variables)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal variables: %w", err)
		}
	}
	if inq.Transcripts != nil {
		transcriptsJSON, err = json.Marshal(inq.Transcripts)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal transcripts: %w", err)
		}
	}
	return variablesJSON, transcriptsJSON, nil
}

// Create inserts a new inquiry row. The composite unique index on
// (customer_id, referral_nr) backs the idempotency guarantee.
func (r *InquiryRepository) Create(ctx context.Context, inq *inquiry.Inquiry) error {
	variablesJSON, transcriptsJSON, err := marshalMaps(inq)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO inquiries (customer_id, referral_nr, status, variables, transcripts)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err = r.db.QueryRow(
		ctx, query,
		inq.CustomerID, inq.ReferralNr, inq.Status, variablesJSON, transcriptsJSON,
	).Scan(&inq.ID, &inq.CreatedAt, &inq.UpdatedAt)

	if err != nil {
		return translateError(err)
	}

	return nil
}

// FindByID retrieves an inquiry by ID.
func (r *InquiryRepository) FindByID(ctx context.Context, id int64) (*inquiry.Inquiry, error) {
	query := fmt.Sprintf(`SELECT %s FROM inquiries WHERE id = $1`, inquiryColumns)
	return scanInquiry(r.db.QueryRow(ctx, query, id))
}

// FindByCustomerAndReferral retrieves an inquiry by its idempotency key.
func (r *InquiryRepository) FindByCustomerAndReferral(ctx context.Context, customerID int64, referralNr string) (*inquiry.Inquiry, error) {
	query := fmt.Sprintf(`SELECT %s FROM inquiries WHERE customer_id = $1 AND referral_nr = $2`, inquiryColumns)
	return scanInquiry(r.db.QueryRow(ctx, query, customerID, referralNr))
}

// Update persists status, variables and transcripts in one statement.
func (r *InquiryRepository) Update(ctx context.Context, inq *inquiry.Inquiry) error {
	variablesJSON, transcriptsJSON, err := marshalMaps(inq)
	if err != nil {
		return err
	}

	query := `
		UPDATE inquiries
		SET status = $1, variables = $2, transcripts = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`

	err = r.db.QueryRow(ctx, query, inq.Status, variablesJSON, transcriptsJSON, inq.ID).Scan(&inq.UpdatedAt)
	if err == pgx.ErrNoRows {
		return xerrors.ErrNotFound
	}
	if err != nil {
		return translateError(err)
	}

	return nil
}
