package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema — DDL хранилища. Идемпотентный: применяется на старте сервиса.
const schema = `
CREATE TABLE IF NOT EXISTS calculations (
	id           uuid PRIMARY KEY,
	label        text NOT NULL DEFAULT '',
	gross_income bigint NOT NULL,
	dependents   int NOT NULL,
	region       int NOT NULL,
	result       jsonb NOT NULL,
	created_at   timestamptz NOT NULL,
	updated_at   timestamptz NOT NULL
);

CREATE TABLE IF NOT EXISTS batch_jobs (
	id          uuid PRIMARY KEY,
	file_name   text NOT NULL,
	status      text NOT NULL,
	total_rows  int NOT NULL DEFAULT 0,
	error_rows  int NOT NULL DEFAULT 0,
	error       text,
	file_data   bytea,
	started_at  timestamptz,
	finished_at timestamptz,
	created_at  timestamptz NOT NULL
);

CREATE INDEX IF NOT EXISTS batch_jobs_status_idx ON batch_jobs (status, created_at);

CREATE TABLE IF NOT EXISTS batch_rows (
	job_id         uuid NOT NULL REFERENCES batch_jobs (id) ON DELETE CASCADE,
	row_num        int NOT NULL,
	gross_raw      text NOT NULL DEFAULT '',
	dependents_raw text NOT NULL DEFAULT '',
	region_raw     text NOT NULL DEFAULT '',
	status         text NOT NULL,
	error          text,
	result         jsonb,
	PRIMARY KEY (job_id, row_num)
);
`

// EnsureSchema применяет DDL хранилища.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
