package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/chvvasss/gastrotech-website-sub001/internal/config"
	catalogRepo "github.com/chvvasss/gastrotech-website-sub001/internal/domains/catalog/repository"
	"github.com/chvvasss/gastrotech-website-sub001/internal/domains/importer/model"
	"github.com/chvvasss/gastrotech-website-sub001/internal/domains/importer/parser"
	"github.com/chvvasss/gastrotech-website-sub001/internal/domains/importer/repository"
	"github.com/chvvasss/gastrotech-website-sub001/pkg/cache"
)

const (
	jobCacheTTL  = time.Minute
	listCacheTTL = 10 * time.Second

	defaultListLimit = 20
	maxListLimit     = 100
)

// Service is the import center engine: upload (preview or direct commit),
// apply, and job reads.
type Service interface {
	Upload(ctx context.Context, req model.UploadRequest) (*model.UploadResult, error)
	Apply(ctx context.Context, jobID uuid.UUID) (*model.ImportJob, error)
	GetJob(ctx context.Context, jobID uuid.UUID) (*model.JobDetail, error)
	ListJobs(ctx context.Context, limit, offset int) ([]model.JobSummary, error)
}

type importService struct {
	jobs      repository.JobRepository
	validator *Validator
	executor  *Executor
	verifier  *Verifier
	cache     cache.Cache
	cfg       config.ImportConfig

	// locks serializes the dedup check and commit per kind, so two
	// uploads of the same bytes cannot both pass the fingerprint check.
	// The partial unique index on import_jobs backs this across processes.
	locks map[model.ImportKind]*sync.Mutex
}

// NewImportService wires the engine. cacheClient may be nil (tests).
func NewImportService(jobs repository.JobRepository, catalog catalogRepo.Store, cacheClient cache.Cache, cfg config.ImportConfig) Service {
	locks := make(map[model.ImportKind]*sync.Mutex, len(model.Kinds()))
	for _, kind := range model.Kinds() {
		locks[kind] = &sync.Mutex{}
	}

	return &importService{
		jobs:      jobs,
		validator: NewValidator(catalog),
		executor:  NewExecutor(catalog),
		verifier:  NewVerifier(catalog),
		cache:     cacheClient,
		cfg:       cfg,
		locks:     locks,
	}
}

func (s *importService) Upload(ctx context.Context, req model.UploadRequest) (*model.UploadResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(req.Data) > s.cfg.MaxFileSizeMB<<20 {
		return nil, model.ErrFileTooLarge
	}

	fingerprint := Fingerprint(req.Data)

	if !req.DryRun {
		lock := s.locks[req.Kind]
		lock.Lock()
		defer lock.Unlock()
	}

	existing, err := s.jobs.FindLatestSuccess(ctx, req.Kind, fingerprint)
	if err == nil {
		id := existing.ID.String()
		log.Info().Str("job_id", id).Str("kind", string(req.Kind)).Msg("duplicate upload detected by fingerprint")
		return &model.UploadResult{Duplicate: true, ExistingJobID: &id, Job: existing}, nil
	}
	if !errors.Is(err, model.ErrJobNotFound) {
		return nil, err
	}

	job := &model.ImportJob{
		ID:              uuid.New(),
		Kind:            req.Kind,
		Status:          model.StatusPending,
		IsPreview:       req.DryRun,
		AllowPartial:    req.AllowPartial,
		FileName:        req.FileName,
		FileFingerprint: fingerprint,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	log.Info().
		Str("job_id", job.ID.String()).
		Str("kind", string(req.Kind)).
		Bool("dry_run", req.DryRun).
		Bool("allow_partial", req.AllowPartial).
		Msg("import job created")

	if err := s.transition(ctx, job, model.StatusValidating); err != nil {
		return nil, err
	}

	parsed, parseErr := parser.Parse(req.FileName, req.Data, req.Kind)
	if parseErr != nil {
		if err := s.failUnparseable(ctx, job, parseErr); err != nil {
			return nil, err
		}
		return &model.UploadResult{Job: job}, nil
	}

	if len(parsed.Rows) > s.cfg.MaxRows {
		job.Status = model.StatusFailed
		job.Report = &model.Report{
			ParseError:   fmt.Sprintf("file has %d data rows; the limit is %d", len(parsed.Rows), s.cfg.MaxRows),
			ColumnsFound: parsed.ColumnsFound,
		}
		if err := s.finalize(ctx, job); err != nil {
			return nil, err
		}
		return &model.UploadResult{Job: job}, nil
	}

	rows, err := s.validator.ValidateRows(ctx, req.Kind, parsed.Rows)
	if err != nil {
		job.Status = model.StatusFailed
		job.Report = &model.Report{
			ExecutionError: "validation aborted: " + err.Error(),
			ColumnsFound:   parsed.ColumnsFound,
		}
		if ferr := s.finalize(ctx, job); ferr != nil {
			return nil, ferr
		}
		return nil, err
	}

	created, updated, invalid := classify(rows)
	job.TotalRows = len(rows)
	job.CreatedCount = created
	job.UpdatedCount = updated
	job.ErrorCount = invalid
	job.Rows = rows
	job.Report = &model.Report{
		ColumnsFound: parsed.ColumnsFound,
		Rows:         model.Reports(rows),
	}

	if req.DryRun {
		job.Status = previewStatus(created+updated, invalid)
		if err := s.finalize(ctx, job); err != nil {
			return nil, err
		}
		return &model.UploadResult{Job: job}, nil
	}

	if err := s.runCommit(ctx, job); err != nil {
		return nil, err
	}
	return &model.UploadResult{Job: job}, nil
}

func (s *importService) Apply(ctx context.Context, jobID uuid.UUID) (*model.ImportJob, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	lock := s.locks[job.Kind]
	lock.Lock()
	defer lock.Unlock()

	// Re-read under the lock: a concurrent apply may have finished.
	job, err = s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if !job.IsPreview {
		if job.Status.IsTerminal() {
			// Already applied (or failed for good): idempotent no-op.
			return job, nil
		}
		return nil, fmt.Errorf("import job %s is still %s: %w", job.ID, job.Status, model.ErrJobNotApplyable)
	}
	if !job.Status.IsTerminal() {
		// Validation has not finished yet, so the rows payload is not
		// persisted and there is nothing to commit.
		return nil, fmt.Errorf("import job %s is still %s; wait for validation to finish: %w", job.ID, job.Status, model.ErrJobNotApplyable)
	}
	if job.Status != model.StatusSuccess || job.ErrorCount > 0 {
		return nil, fmt.Errorf("import job %s has validation errors and cannot be applied: %w", job.ID, model.ErrJobNotApplyable)
	}

	log.Info().Str("job_id", job.ID.String()).Str("kind", string(job.Kind)).Msg("applying previewed import job")

	if err := s.runCommit(ctx, job); err != nil {
		if errors.Is(err, repository.ErrInvalidTransition) {
			return nil, fmt.Errorf("import job %s was applied concurrently: %w", job.ID, model.ErrJobNotApplyable)
		}
		return nil, err
	}
	return job, nil
}

// runCommit drives the commit phase for both direct uploads and applied
// previews. job.Rows must hold the validated rows.
func (s *importService) runCommit(ctx context.Context, job *model.ImportJob) error {
	if job.Report == nil {
		job.Report = &model.Report{}
	}

	// Strict mode with known-bad rows: nothing is committed, no
	// transaction is opened, db_verify stays unset.
	if job.ErrorCount > 0 && !job.AllowPartial {
		job.Status = model.StatusFailed
		job.IsPreview = false
		job.CreatedCount = 0
		job.UpdatedCount = 0
		job.Report.ExecutionError = fmt.Sprintf("%d row(s) failed validation; nothing was committed", job.ErrorCount)
		job.Report.ExecutionErrors = invalidRowErrors(job.Rows)
		return s.finalize(ctx, job)
	}

	if err := s.transition(ctx, job, model.StatusRunning); err != nil {
		return err
	}

	result, commitErr := s.executor.Commit(ctx, job.Kind, job.Rows, job.AllowPartial)

	// The verifier runs even when the commit errored (including timeouts):
	// it reads through the pool and settles whether anything landed.
	verify := s.verifier.Verify(ctx, result.Keys)

	job.IsPreview = false
	job.DBVerify = verify
	job.CreatedCount = result.Created
	job.UpdatedCount = result.Updated
	job.ErrorCount = len(result.ExecutionErrors)
	job.Report.ExecutionErrors = result.ExecutionErrors

	applied := result.Created + result.Updated
	switch {
	case commitErr != nil:
		job.Status = model.StatusFailed
		job.Report.ExecutionError = commitErr.Error()
	case !verify.CreatedEntitiesFoundInDB:
		job.Status = model.StatusFailed
		job.Report.ExecutionError = "post-commit verification could not confirm all written entities"
	case len(result.ExecutionErrors) > 0 && applied > 0:
		job.Status = model.StatusPartial
	case len(result.ExecutionErrors) > 0:
		job.Status = model.StatusFailed
	default:
		job.Status = model.StatusSuccess
	}

	log.Info().
		Str("job_id", job.ID.String()).
		Str("status", string(job.Status)).
		Int("created", job.CreatedCount).
		Int("updated", job.UpdatedCount).
		Int("errors", job.ErrorCount).
		Msg("import commit finished")

	return s.finalize(ctx, job)
}

func (s *importService) GetJob(ctx context.Context, jobID uuid.UUID) (*model.JobDetail, error) {
	key := "import:job:" + jobID.String()
	if s.cache != nil {
		var detail model.JobDetail
		if found, err := s.cache.Get(ctx, key, &detail); err == nil && found {
			return &detail, nil
		}
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	detail := s.projectDetail(job)

	// Only terminal jobs are cached; in-flight status must stay live.
	if s.cache != nil && job.Status.IsTerminal() {
		if err := s.cache.Set(ctx, key, detail, jobCacheTTL); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("failed to cache job detail")
		}
	}
	return detail, nil
}

func (s *importService) ListJobs(ctx context.Context, limit, offset int) ([]model.JobSummary, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	key := fmt.Sprintf("import:jobs:%d:%d", limit, offset)
	if s.cache != nil {
		var summaries []model.JobSummary
		if found, err := s.cache.Get(ctx, key, &summaries); err == nil && found {
			return summaries, nil
		}
	}

	jobs, err := s.jobs.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.JobSummary, 0, len(jobs))
	for _, job := range jobs {
		summaries = append(summaries, job.Summary())
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, summaries, listCacheTTL); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("failed to cache job list")
		}
	}
	return summaries, nil
}

// ---- internals ----

func (s *importService) transition(ctx context.Context, job *model.ImportJob, to model.JobStatus) error {
	if err := s.jobs.TransitionStatus(ctx, job.ID, job.Status, to); err != nil {
		return err
	}
	job.Status = to
	return nil
}

func (s *importService) finalize(ctx context.Context, job *model.ImportJob) error {
	err := s.jobs.Finalize(ctx, job)
	if errors.Is(err, repository.ErrDuplicateSuccess) {
		// Another process finished a success job for the same bytes while
		// we ran. The catalog writes are idempotent, so converge on the
		// earlier job instead of reporting a second success.
		log.Warn().Str("job_id", job.ID.String()).Msg("concurrent duplicate success detected at finalize")
		job.Status = model.StatusFailed
		job.Report.ExecutionError = "a success job for the same file finished concurrently; see that job"
		err = s.jobs.Finalize(ctx, job)
	}
	if err != nil {
		return err
	}

	s.invalidateCache(ctx, job.ID)
	return nil
}

func (s *importService) invalidateCache(ctx context.Context, jobID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, "import:job:"+jobID.String()); err != nil {
		log.Debug().Err(err).Msg("failed to invalidate job cache")
	}
	if err := s.cache.DeletePattern(ctx, "import:jobs:*"); err != nil {
		log.Debug().Err(err).Msg("failed to invalidate job list cache")
	}
}

func (s *importService) failUnparseable(ctx context.Context, job *model.ImportJob, parseErr error) error {
	job.Status = model.StatusFailed
	job.Report = &model.Report{}

	var colErr *parser.ColumnError
	if errors.As(parseErr, &colErr) {
		job.Report.ColumnError = colErr.Error()
	} else {
		job.Report.ParseError = parseErr.Error()
	}

	log.Warn().Str("job_id", job.ID.String()).Str("reason", parseErr.Error()).Msg("import file rejected")
	return s.finalize(ctx, job)
}

func (s *importService) projectDetail(job *model.ImportJob) *model.JobDetail {
	out := *job
	out.Rows = nil

	rowsTotal := 0
	if job.Report != nil {
		rowsTotal = len(job.Report.Rows)
	}
	rowsReturned := rowsTotal
	if rowsTotal > s.cfg.DetailRowLimit {
		rowsReturned = s.cfg.DetailRowLimit
		reportCopy := *job.Report
		reportCopy.Rows = job.Report.Rows[:rowsReturned]
		out.Report = &reportCopy
	}

	return &model.JobDetail{Job: &out, RowsReturned: rowsReturned, RowsTotal: rowsTotal}
}

func classify(rows []model.Row) (created, updated, invalid int) {
	for i := range rows {
		switch {
		case !rows[i].Valid():
			invalid++
		case rows[i].Action == model.ActionUpdate:
			updated++
		default:
			created++
		}
	}
	return created, updated, invalid
}

// previewStatus maps a dry-run outcome onto a terminal status: clean is
// success, a mix is partial, nothing applicable is failed.
func previewStatus(valid, invalid int) model.JobStatus {
	switch {
	case invalid == 0:
		return model.StatusSuccess
	case valid > 0:
		return model.StatusPartial
	default:
		return model.StatusFailed
	}
}

func invalidRowErrors(rows []model.Row) []model.ExecutionError {
	var errs []model.ExecutionError
	for i := range rows {
		if rows[i].Valid() {
			continue
		}
		errs = append(errs, model.ExecutionError{
			Row:     rows[i].Number,
			Message: "rejected: " + strings.Join(rows[i].Errors, "; "),
		})
	}
	return errs
}
