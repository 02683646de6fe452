package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/GrossNet/internal/domain"
)

// BatchRepo — Postgres-хранилище заданий пакетной обработки.
type BatchRepo struct {
	pool *pgxpool.Pool
}

// NewBatchRepo создаёт новый BatchRepo.
func NewBatchRepo(pool *pgxpool.Pool) *BatchRepo {
	return &BatchRepo{pool: pool}
}

// Create сохраняет новое задание вместе с байтами файла.
func (r *BatchRepo) Create(ctx context.Context, j *domain.BatchJob) error {
	query := `
		INSERT INTO batch_jobs (id, file_name, status, total_rows, error_rows, error, file_data, started_at, finished_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		j.ID,
		j.FileName,
		j.Status,
		j.TotalRows,
		j.ErrorRows,
		nullString(j.Error),
		j.FileData,
		j.StartedAt,
		j.FinishedAt,
		j.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert batch job: %w", err)
	}
	return nil
}

// GetByID возвращает задание вместе с байтами файла.
func (r *BatchRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BatchJob, error) {
	query := `
		SELECT id, file_name, status, total_rows, error_rows, error, file_data, started_at, finished_at, created_at
		FROM batch_jobs
		WHERE id = $1
	`

	var j domain.BatchJob
	var jobErr *string

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&j.ID,
		&j.FileName,
		&j.Status,
		&j.TotalRows,
		&j.ErrorRows,
		&jobErr,
		&j.FileData,
		&j.StartedAt,
		&j.FinishedAt,
		&j.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan batch job: %w", err)
	}

	if jobErr != nil {
		j.Error = *jobErr
	}
	return &j, nil
}

// List возвращает задания без байтов файла, от новых к старым.
func (r *BatchRepo) List(ctx context.Context, filter BatchFilter) ([]domain.BatchJob, error) {
	query := `
		SELECT id, file_name, status, total_rows, error_rows, error, started_at, finished_at, created_at
		FROM batch_jobs
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query,
		nullString(string(filter.Status)),
		filter.Limit,
		filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list batch jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.BatchJob
	for rows.Next() {
		var j domain.BatchJob
		var jobErr *string

		err := rows.Scan(
			&j.ID,
			&j.FileName,
			&j.Status,
			&j.TotalRows,
			&j.ErrorRows,
			&jobErr,
			&j.StartedAt,
			&j.FinishedAt,
			&j.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan batch job: %w", err)
		}
		if jobErr != nil {
			j.Error = *jobErr
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// Update сохраняет статусные поля задания. FileData не трогает.
func (r *BatchRepo) Update(ctx context.Context, j *domain.BatchJob) error {
	query := `
		UPDATE batch_jobs
		SET status = $2, total_rows = $3, error_rows = $4, error = $5, started_at = $6, finished_at = $7
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		j.ID,
		j.Status,
		j.TotalRows,
		j.ErrorRows,
		nullString(j.Error),
		j.StartedAt,
		j.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("update batch job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет задание (строки удаляются каскадом).
func (r *BatchRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM batch_jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete batch job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkRunning атомарно переводит задание PENDING → RUNNING.
func (r *BatchRepo) MarkRunning(ctx context.Context, id uuid.UUID) (*domain.BatchJob, error) {
	query := `
		UPDATE batch_jobs
		SET status = $2, started_at = now()
		WHERE id = $1 AND status = $3
	`
	tag, err := r.pool.Exec(ctx, query, id, domain.BatchStatusRunning, domain.BatchStatusPending)
	if err != nil {
		return nil, fmt.Errorf("mark batch job running: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Либо задания нет, либо оно уже взято другим worker-ом
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrInvalidState
	}
	return r.GetByID(ctx, id)
}

// ListPending возвращает идентификаторы PENDING-заданий, от старых к новым.
func (r *BatchRepo) ListPending(ctx context.Context, limit int) ([]uuid.UUID, error) {
	query := `
		SELECT id FROM batch_jobs
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, domain.BatchStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending batch jobs: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan batch job id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ReplaceRows заменяет результаты строк задания в одной транзакции.
func (r *BatchRepo) ReplaceRows(ctx context.Context, jobID uuid.UUID, rows []domain.BatchRow) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM batch_rows WHERE job_id = $1`, jobID); err != nil {
		return fmt.Errorf("delete batch rows: %w", err)
	}

	query := `
		INSERT INTO batch_rows (job_id, row_num, gross_raw, dependents_raw, region_raw, status, error, result)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, row := range rows {
		var resultJSON []byte
		if row.Result != nil {
			resultJSON, err = json.Marshal(row.Result)
			if err != nil {
				return fmt.Errorf("marshal row %d result: %w", row.RowNum, err)
			}
		}

		_, err = tx.Exec(ctx, query,
			jobID,
			row.RowNum,
			row.GrossRaw,
			row.DependentsRaw,
			row.RegionRaw,
			row.Status,
			nullString(row.Error),
			resultJSON,
		)
		if err != nil {
			return fmt.Errorf("insert batch row %d: %w", row.RowNum, err)
		}
	}

	return tx.Commit(ctx)
}

// ListRows возвращает результаты строк задания по порядку row_num.
func (r *BatchRepo) ListRows(ctx context.Context, jobID uuid.UUID) ([]domain.BatchRow, error) {
	query := `
		SELECT job_id, row_num, gross_raw, dependents_raw, region_raw, status, error, result
		FROM batch_rows
		WHERE job_id = $1
		ORDER BY row_num ASC
	`
	rows, err := r.pool.Query(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("list batch rows: %w", err)
	}
	defer rows.Close()

	var result []domain.BatchRow
	for rows.Next() {
		var row domain.BatchRow
		var rowErr *string
		var resultJSON []byte

		err := rows.Scan(
			&row.JobID,
			&row.RowNum,
			&row.GrossRaw,
			&row.DependentsRaw,
			&row.RegionRaw,
			&row.Status,
			&rowErr,
			&resultJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("scan batch row: %w", err)
		}

		if rowErr != nil {
			row.Error = *rowErr
		}
		if resultJSON != nil {
			row.Result = &domain.CalcResult{}
			if err := json.Unmarshal(resultJSON, row.Result); err != nil {
				return nil, fmt.Errorf("unmarshal row %d result: %w", row.RowNum, err)
			}
		}

		result = append(result, row)
	}
	return result, rows.Err()
}

// DeleteFinishedBefore удаляет завершённые задания старше cutoff.
func (r *BatchRepo) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM batch_jobs
		WHERE status = ANY($1) AND finished_at < $2
	`
	tag, err := r.pool.Exec(ctx, query,
		[]string{string(domain.BatchStatusSucceeded), string(domain.BatchStatusFailed)},
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("delete finished batch jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// nullString возвращает nil для пустой строки (для NULL в БД).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
