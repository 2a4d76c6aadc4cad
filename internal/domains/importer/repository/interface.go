package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/chvvasss/gastrotech-website-sub001/internal/domains/importer/model"
)

var (
	// ErrInvalidTransition is returned when a guarded status update finds
	// the job in a different state than expected.
	ErrInvalidTransition = errors.New("import job status transition conflict")

	// ErrDuplicateSuccess is returned when finalizing a success job trips
	// the partial unique index on (kind, file_fingerprint): another upload
	// of the same bytes won the race.
	ErrDuplicateSuccess = errors.New("a success job already exists for this fingerprint")
)

// JobRepository persists import jobs. Jobs are append-only audit records:
// there is no delete.
type JobRepository interface {
	Create(ctx context.Context, job *model.ImportJob) error

	// TransitionStatus advances the status only when the stored status
	// still matches from. Returns ErrInvalidTransition otherwise.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to model.JobStatus) error

	// Finalize writes the terminal state: status, counts, report,
	// db_verify, rows payload and the preview flag.
	Finalize(ctx context.Context, job *model.ImportJob) error

	GetByID(ctx context.Context, id uuid.UUID) (*model.ImportJob, error)
	List(ctx context.Context, limit, offset int) ([]*model.ImportJob, error)

	// FindLatestSuccess returns the most recent success job matching the
	// kind and fingerprint, or model.ErrJobNotFound.
	FindLatestSuccess(ctx context.Context, kind model.ImportKind, fingerprint string) (*model.ImportJob, error)
}
