package model

import (
	"time"

	"github.com/google/uuid"
)

// ImportKind selects the column schema and commit path for a job.
type ImportKind string

const (
	KindVariantsCSV ImportKind = "variants_csv"
	KindProductsCSV ImportKind = "products_csv"
	KindTaxonomyCSV ImportKind = "taxonomy_csv"
)

// Kinds lists every supported import kind.
func Kinds() []ImportKind {
	return []ImportKind{KindVariantsCSV, KindProductsCSV, KindTaxonomyCSV}
}

// JobStatus is the import job state machine. Status only ever advances:
// pending -> validating -> (running) -> success | partial | failed.
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusValidating JobStatus = "validating"
	StatusRunning    JobStatus = "running"
	StatusSuccess    JobStatus = "success"
	StatusPartial    JobStatus = "partial"
	StatusFailed     JobStatus = "failed"
)

// IsTerminal reports whether the status ends the state machine.
func (s JobStatus) IsTerminal() bool {
	return s == StatusSuccess || s == StatusPartial || s == StatusFailed
}

// RowAction is the classification the validator (and later the executor)
// decides for a row.
type RowAction string

const (
	ActionCreate RowAction = "create"
	ActionUpdate RowAction = "update"
)

// EntityType groups natural keys for the post-commit verifier.
type EntityType string

const (
	EntityCategories EntityType = "categories"
	EntityBrands     EntityType = "brands"
	EntitySeries     EntityType = "series"
	EntityProducts   EntityType = "products"
	EntityVariants   EntityType = "variants"
)

// ImportJob is one attempt to import a file. Jobs are append-only audit
// records; the pipeline never deletes them.
type ImportJob struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	Kind            ImportKind `json:"kind" db:"kind"`
	Status          JobStatus  `json:"status" db:"status"`
	IsPreview       bool       `json:"is_preview" db:"is_preview"`
	AllowPartial    bool       `json:"allow_partial" db:"allow_partial"`
	FileName        string     `json:"file_name" db:"file_name"`
	FileFingerprint string     `json:"file_fingerprint" db:"file_fingerprint"`

	TotalRows    int `json:"total_rows" db:"total_rows"`
	CreatedCount int `json:"created_count" db:"created_count"`
	UpdatedCount int `json:"updated_count" db:"updated_count"`
	ErrorCount   int `json:"error_count" db:"error_count"`

	Report   *Report   `json:"report,omitempty" db:"report"`
	DBVerify *DBVerify `json:"db_verify,omitempty" db:"db_verify"`

	// Rows holds the parsed row payloads so a preview job can be applied
	// later without re-uploading the file (file bytes are not retained).
	// Internal: never returned by the HTTP layer.
	Rows []Row `json:"-" db:"rows_payload"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Report carries the structured diagnostics of a job.
type Report struct {
	ColumnError     string           `json:"column_error,omitempty"`
	ParseError      string           `json:"parse_error,omitempty"`
	ExecutionError  string           `json:"execution_error,omitempty"`
	ColumnsFound    []string         `json:"columns_found,omitempty"`
	Rows            []RowReport      `json:"rows,omitempty"`
	ExecutionErrors []ExecutionError `json:"execution_errors,omitempty"`
}

// RowReport is the per-row diagnostic entry. An empty Errors slice means
// the row is valid for the decided action.
type RowReport struct {
	Row    int       `json:"row"`
	Key    string    `json:"key,omitempty"`
	Action RowAction `json:"action,omitempty"`
	Errors []string  `json:"errors,omitempty"`
}

// ExecutionError records a row rejected during the commit phase.
type ExecutionError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// DBVerify is the result of the post-commit verification gate. Nil until a
// commit has been attempted.
type DBVerify struct {
	CreatedEntitiesFoundInDB bool                        `json:"created_entities_found_in_db"`
	VerificationDetails      map[EntityType]VerifyDetail `json:"verification_details,omitempty"`
}

// VerifyDetail lists which keys the verifier could and could not re-locate
// in the durable store.
type VerifyDetail struct {
	Found   []string `json:"found,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// JobSummary is the listing projection for polling clients.
type JobSummary struct {
	ID           uuid.UUID  `json:"id"`
	Kind         ImportKind `json:"kind"`
	Status       JobStatus  `json:"status"`
	IsPreview    bool       `json:"is_preview"`
	FileName     string     `json:"file_name"`
	TotalRows    int        `json:"total_rows"`
	CreatedCount int        `json:"created_count"`
	UpdatedCount int        `json:"updated_count"`
	ErrorCount   int        `json:"error_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Summary projects the job for the list endpoint.
func (j *ImportJob) Summary() JobSummary {
	return JobSummary{
		ID:           j.ID,
		Kind:         j.Kind,
		Status:       j.Status,
		IsPreview:    j.IsPreview,
		FileName:     j.FileName,
		TotalRows:    j.TotalRows,
		CreatedCount: j.CreatedCount,
		UpdatedCount: j.UpdatedCount,
		ErrorCount:   j.ErrorCount,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
}
