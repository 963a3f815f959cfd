// internal/repository/postgres/agent_repo.go
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"callcenter-service/internal/domain/agent"
	xerrors "callcenter-service/internal/pkg/errors"
)

type AgentRepository struct {
	db *pgxpool.Pool
}

func NewAgentRepository(db *pgxpool.Pool) *AgentRepository {
	return &AgentRepository{db: db}
}

const agentColumns = `id, name, employee_id, email, phone_number, specialization,
	is_active, average_performance_score, total_calls_handled, created_at`

func scanAgent(row pgx.Row) (*agent.Agent, error) {
	var a agent.Agent
	err := row.Scan(
		&a.ID, &a.Name, &a.EmployeeID, &a.Email, &a.PhoneNumber, &a.Specialization,
		&a.IsActive, &a.AveragePerformanceScore, &a.TotalCallsHandled, &a.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan agent: %w", translateError(err))
	}
	return &a, nil
}

// Create inserts a new agent row.
func (r *AgentRepository) Create(ctx context.Context, a *agent.Agent) error {
	query := `
		INSERT INTO agents (name, employee_id, email, phone_number, specialization, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, average_performance_score, total_calls_handled, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		a.Name, a.EmployeeID, a.Email, a.PhoneNumber, a.Specialization, a.IsActive,
	).Scan(&a.ID, &a.AveragePerformanceScore, &a.TotalCallsHandled, &a.CreatedAt)

	if err != nil {
		return translateError(err)
	}

	return nil
}

// FindByID retrieves an agent by ID.
func (r *AgentRepository) FindByID(ctx context.Context, id int64) (*agent.Agent, error) {
	query := fmt.Sprintf(`SELECT %s FROM agents WHERE id = $1`, agentColumns)
	return scanAgent(r.db.QueryRow(ctx, query, id))
}

// FindByEmployeeID retrieves an agent by its employee identifier.
func (r *AgentRepository) FindByEmployeeID(ctx context.Context, employeeID string) (*agent.Agent, error) {
	query := fmt.Sprintf(`SELECT %s FROM agents WHERE employee_id = $1`, agentColumns)
	return scanAgent(r.db.QueryRow(ctx, query, employeeID))
}

// GetOrCreate inserts the agent unless a row with its employee_id already
// exists, then returns the surviving row. The unique index on employee_id
// makes concurrent first-use races resolve to a single row.
func (r *AgentRepository) GetOrCreate(ctx context.Context, a *agent.Agent) (*agent.Agent, error) {
	insert := `
		INSERT INTO agents (name, employee_id, email, phone_number, specialization, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (employee_id) DO NOTHING
	`

	if _, err := r.db.Exec(
		ctx, insert,
		a.Name, a.EmployeeID, a.Email, a.PhoneNumber, a.Specialization, a.IsActive,
	); err != nil {
		return nil, translateError(err)
	}

	return r.FindByEmployeeID(ctx, a.EmployeeID)
}

// Update writes the mutable agent fields. Metric columns are owned by the
// call repository and deliberately excluded here.
func (r *AgentRepository) Update(ctx context.Context, id int64, a *agent.Agent) error {
	query := `
		UPDATE agents
		SET name = $1, email = $2, phone_number = $3, specialization = $4, is_active = $5
		WHERE id = $6
	`

	result, err := r.db.Exec(
		ctx, query,
		a.Name, a.Email, a.PhoneNumber, a.Specialization, a.IsActive, id,
	)
	if err != nil {
		return translateError(err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// List retrieves agents with filters.
func (r *AgentRepository) List(ctx context.Context, filters *agent.AgentListFilters) ([]agent.Agent, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argPos := 1

	if filters.MinPerformance != nil {
		conditions = append(conditions, fmt.Sprintf("average_performance_score >= $%d", argPos))
		args = append(args, *filters.MinPerformance)
		argPos++
	}

	if filters.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argPos))
		args = append(args, *filters.IsActive)
		argPos++
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 100
	}

	query := fmt.Sprintf(`
		SELECT %s FROM agents
		WHERE %s
		ORDER BY id
		LIMIT $%d OFFSET $%d
	`, agentColumns, strings.Join(conditions, " AND "), argPos, argPos+1)
	args = append(args, limit, filters.Skip)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", translateError(err))
	}
	defer rows.Close()

	agents := []agent.Agent{}
	for rows.Next() {
		var a agent.Agent
		if err := rows.Scan(
			&a.ID, &a.Name, &a.EmployeeID, &a.Email, &a.PhoneNumber, &a.Specialization,
			&a.IsActive, &a.AveragePerformanceScore, &a.TotalCallsHandled, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan agent: %w", err)
		}
		agents = append(agents, a)
	}

	return agents, rows.Err()
}
