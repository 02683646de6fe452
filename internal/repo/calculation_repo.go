package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/GrossNet/internal/domain"
)

// CalculationRepo — Postgres-хранилище сохранённых расчётов.
type CalculationRepo struct {
	pool *pgxpool.Pool
}

// NewCalculationRepo создаёт новый CalculationRepo.
func NewCalculationRepo(pool *pgxpool.Pool) *CalculationRepo {
	return &CalculationRepo{pool: pool}
}

// Create сохраняет новый расчёт.
func (r *CalculationRepo) Create(ctx context.Context, c *domain.Calculation) error {
	resultJSON, err := json.Marshal(c.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	query := `
		INSERT INTO calculations (id, label, gross_income, dependents, region, result, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.pool.Exec(ctx, query,
		c.ID,
		c.Label,
		c.Input.GrossIncome,
		c.Input.Dependents,
		c.Input.Region,
		resultJSON,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert calculation: %w", err)
	}
	return nil
}

// GetByID возвращает расчёт по ID.
func (r *CalculationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Calculation, error) {
	query := `
		SELECT id, label, gross_income, dependents, region, result, created_at, updated_at
		FROM calculations
		WHERE id = $1
	`
	return scanCalculation(r.pool.QueryRow(ctx, query, id))
}

// List возвращает расчёты от новых к старым.
func (r *CalculationRepo) List(ctx context.Context, filter CalculationFilter) ([]domain.Calculation, error) {
	query := `
		SELECT id, label, gross_income, dependents, region, result, created_at, updated_at
		FROM calculations
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}
	defer rows.Close()

	var result []domain.Calculation
	for rows.Next() {
		c, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

// Update обновляет расчёт (label, входные данные и результат).
func (r *CalculationRepo) Update(ctx context.Context, c *domain.Calculation) error {
	resultJSON, err := json.Marshal(c.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	query := `
		UPDATE calculations
		SET label = $2, gross_income = $3, dependents = $4, region = $5, result = $6, updated_at = $7
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		c.ID,
		c.Label,
		c.Input.GrossIncome,
		c.Input.Dependents,
		c.Input.Region,
		resultJSON,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update calculation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет расчёт.
func (r *CalculationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM calculations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete calculation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// scanCalculation сканирует одну строку в Calculation.
func scanCalculation(row pgx.Row) (*domain.Calculation, error) {
	var c domain.Calculation
	var resultJSON []byte

	err := row.Scan(
		&c.ID,
		&c.Label,
		&c.Input.GrossIncome,
		&c.Input.Dependents,
		&c.Input.Region,
		&resultJSON,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan calculation: %w", err)
	}

	if err := json.Unmarshal(resultJSON, &c.Result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}

	return &c, nil
}
