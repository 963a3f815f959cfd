// internal/repository/postgres/call_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"callcenter-service/internal/domain/call"
	xerrors "callcenter-service/internal/pkg/errors"
)

type CallRepository struct {
	db        *pgxpool.Pool
	dbWrapper *DB
}

func NewCallRepository(db *pgxpool.Pool, dbWrapper *DB) *CallRepository {
	return &CallRepository{db: db, dbWrapper: dbWrapper}
}

const callColumns = `id, customer_id, agent_id, transcript, call_date,
	agent_performance_score, agent_issues, customer_interest_score,
	customer_description, customer_preferences, test_drive_readiness,
	analysis_results, created_at`

func scanCall(row pgx.Row) (*call.Call, error) {
	var c call.Call
	var analysisJSON []byte

	err := row.Scan(
		&c.ID, &c.CustomerID, &c.AgentID, &c.Transcript, &c.CallDate,
		&c.AgentPerformanceScore, &c.AgentIssues, &c.CustomerInterestScore,
		&c.CustomerDescription, &c.CustomerPreferences, &c.TestDriveReadiness,
		&analysisJSON, &c.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan call: %w", translateError(err))
	}

	if len(analysisJSON) > 0 {
		if err := json.Unmarshal(analysisJSON, &c.AnalysisResults); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analysis results: %w", err)
		}
	}

	return &c, nil
}

// CreateWithMetrics persists a call and folds its performance score into the
// owning agent's lifetime metrics in a single transaction. The agent update
// uses the pre-increment count and average, so the persisted mean stays the
// arithmetic mean of all recorded scores.
func (r *CallRepository) CreateWithMetrics(ctx context.Context, c *call.Call) error {
	tx, err := r.dbWrapper.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", translateError(err))
	}
	defer tx.Rollback(ctx)

	var analysisJSON []byte
	if c.AnalysisResults != nil {
		analysisJSON, err = json.Marshal(c.AnalysisResults)
		if err != nil {
			return fmt.Errorf("failed to marshal analysis results: %w", err)
		}
	}

	insert := `
		INSERT INTO calls (
			customer_id, agent_id, transcript, call_date,
			agent_performance_score, agent_issues, customer_interest_score,
			customer_description, customer_preferences, test_drive_readiness,
			analysis_results
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`

	err = tx.QueryRow(
		ctx, insert,
		c.CustomerID, c.AgentID, c.Transcript, c.CallDate,
		c.AgentPerformanceScore, c.AgentIssues, c.CustomerInterestScore,
		c.CustomerDescription, c.CustomerPreferences, c.TestDriveReadiness,
		analysisJSON,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return translateError(err)
	}

	if c.AgentPerformanceScore.Valid {
		update := `
			UPDATE agents
			SET average_performance_score =
			        (average_performance_score * total_calls_handled + $1) / (total_calls_handled + 1),
			    total_calls_handled = total_calls_handled + 1
			WHERE id = $2
		`
		if _, err := tx.Exec(ctx, update, c.AgentPerformanceScore.Float64, c.AgentID); err != nil {
			return translateError(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return translateError(err)
	}

	return nil
}

// FindByID retrieves a call by ID.
func (r *CallRepository) FindByID(ctx context.Context, id int64) (*call.Call, error) {
	query := fmt.Sprintf(`SELECT %s FROM calls WHERE id = $1`, callColumns)
	return scanCall(r.db.QueryRow(ctx, query, id))
}

// ListByCustomer retrieves all calls for a customer.
func (r *CallRepository) ListByCustomer(ctx context.Context, customerID int64) ([]call.Call, error) {
	query := fmt.Sprintf(`SELECT %s FROM calls WHERE customer_id = $1 ORDER BY call_date DESC`, callColumns)
	return r.queryCalls(ctx, query, customerID)
}

// ListByAgentSince retrieves calls for an agent dated at or after the cutoff.
func (r *CallRepository) ListByAgentSince(ctx context.Context, agentID int64, since time.Time) ([]call.Call, error) {
	query := fmt.Sprintf(`SELECT %s FROM calls WHERE agent_id = $1 AND call_date >= $2 ORDER BY call_date DESC`, callColumns)
	return r.queryCalls(ctx, query, agentID, since)
}

func (r *CallRepository) queryCalls(ctx context.Context, query string, args ...interface{}) ([]call.Call, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list calls: %w", translateError(err))
	}
	defer rows.Close()

	calls := []call.Call{}
	for rows.Next() {
		var c call.Call
		var analysisJSON []byte
		if err := rows.Scan(
			&c.ID, &c.CustomerID, &c.AgentID, &c.Transcript, &c.CallDate,
			&c.AgentPerformanceScore, &c.AgentIssues, &c.CustomerInterestScore,
			&c.CustomerDescription, &c.CustomerPreferences, &c.TestDriveReadiness,
			&analysisJSON, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan call: %w", err)
		}
		if len(analysisJSON) > 0 {
			if err := json.Unmarshal(analysisJSON, &c.AnalysisResults); err != nil {
				return nil, fmt.Errorf("failed to unmarshal analysis results: %w", err)
			}
		}
		calls = append(calls, c)
	}

	return calls, rows.Err()
}
