package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chvvasss/gastrotech-website-sub001/internal/domains/importer/model"
)

type pgJobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates the Postgres-backed job store.
func NewJobRepository(pool *pgxpool.Pool) JobRepository {
	return &pgJobRepository{pool: pool}
}

func (r *pgJobRepository) Create(ctx context.Context, job *model.ImportJob) error {
	query := `
        INSERT INTO import_jobs (
            id, kind, status, is_preview, allow_partial, file_name, file_fingerprint,
            total_rows, created_count, updated_count, error_count,
            report, db_verify, rows_payload, created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
    `

	report, dbVerify, rowsPayload, err := marshalJobJSON(job)
	if err != nil {
		return err
	}

	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now

	_, err = r.pool.Exec(ctx, query,
		job.ID, job.Kind, job.Status, job.IsPreview, job.AllowPartial, job.FileName, job.FileFingerprint,
		job.TotalRows, job.CreatedCount, job.UpdatedCount, job.ErrorCount,
		report, dbVerify, rowsPayload, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create import job: %w", err)
	}
	return nil
}

func (r *pgJobRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to model.JobStatus) error {
	query := `
        UPDATE import_jobs
        SET status = $1, updated_at = NOW()
        WHERE id = $2 AND status = $3
    `

	tag, err := r.pool.Exec(ctx, query, to, id, from)
	if err != nil {
		return fmt.Errorf("failed to transition import job %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("import job %s (%s -> %s): %w", id, from, to, ErrInvalidTransition)
	}
	return nil
}

func (r *pgJobRepository) Finalize(ctx context.Context, job *model.ImportJob) error {
	query := `
        UPDATE import_jobs
        SET status = $1, is_preview = $2,
            total_rows = $3, created_count = $4, updated_count = $5, error_count = $6,
            report = $7, db_verify = $8, rows_payload = $9, updated_at = NOW()
        WHERE id = $10
        RETURNING updated_at
    `

	report, dbVerify, rowsPayload, err := marshalJobJSON(job)
	if err != nil {
		return err
	}

	err = r.pool.QueryRow(ctx, query,
		job.Status, job.IsPreview,
		job.TotalRows, job.CreatedCount, job.UpdatedCount, job.ErrorCount,
		report, dbVerify, rowsPayload, job.ID,
	).Scan(&job.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("import job %s: %w", job.ID, ErrDuplicateSuccess)
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("import job %s: %w", job.ID, model.ErrJobNotFound)
		}
		return fmt.Errorf("failed to finalize import job %s: %w", job.ID, err)
	}
	return nil
}

func (r *pgJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ImportJob, error) {
	query := jobSelect + ` WHERE id = $1`

	job, err := scanJob(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("import job %s: %w", id, model.ErrJobNotFound)
		}
		return nil, fmt.Errorf("failed to get import job %s: %w", id, err)
	}
	return job, nil
}

func (r *pgJobRepository) List(ctx context.Context, limit, offset int) ([]*model.ImportJob, error) {
	query := jobSelect + `
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2
    `

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list import jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*model.ImportJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (r *pgJobRepository) FindLatestSuccess(ctx context.Context, kind model.ImportKind, fingerprint string) (*model.ImportJob, error) {
	query := jobSelect + `
        WHERE kind = $1 AND file_fingerprint = $2 AND status = 'success' AND is_preview = FALSE
        ORDER BY created_at DESC
        LIMIT 1
    `

	job, err := scanJob(r.pool.QueryRow(ctx, query, kind, fingerprint))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to find import job by fingerprint: %w", err)
	}
	return job, nil
}

const jobSelect = `
        SELECT id, kind, status, is_preview, allow_partial, file_name, file_fingerprint,
               total_rows, created_count, updated_count, error_count,
               report, db_verify, rows_payload, created_at, updated_at
        FROM import_jobs
`

func scanJob(row pgx.Row) (*model.ImportJob, error) {
	var (
		job         model.ImportJob
		report      []byte
		dbVerify    []byte
		rowsPayload []byte
	)

	err := row.Scan(
		&job.ID, &job.Kind, &job.Status, &job.IsPreview, &job.AllowPartial, &job.FileName, &job.FileFingerprint,
		&job.TotalRows, &job.CreatedCount, &job.UpdatedCount, &job.ErrorCount,
		&report, &dbVerify, &rowsPayload, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(report) > 0 {
		if err := json.Unmarshal(report, &job.Report); err != nil {
			return nil, fmt.Errorf("failed to decode report: %w", err)
		}
	}
	if len(dbVerify) > 0 {
		if err := json.Unmarshal(dbVerify, &job.DBVerify); err != nil {
			return nil, fmt.Errorf("failed to decode db_verify: %w", err)
		}
	}
	if len(rowsPayload) > 0 {
		if err := json.Unmarshal(rowsPayload, &job.Rows); err != nil {
			return nil, fmt.Errorf("failed to decode rows payload: %w", err)
		}
	}
	return &job, nil
}

func marshalJobJSON(job *model.ImportJob) (report, dbVerify, rowsPayload []byte, err error) {
	if job.Report != nil {
		report, err = json.Marshal(job.Report)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode report: %w", err)
		}
	}
	if job.DBVerify != nil {
		dbVerify, err = json.Marshal(job.DBVerify)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode db_verify: %w", err)
		}
	}
	if job.Rows != nil {
		rowsPayload, err = json.Marshal(job.Rows)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode rows payload: %w", err)
		}
	}
	return report, dbVerify, rowsPayload, nil
}
