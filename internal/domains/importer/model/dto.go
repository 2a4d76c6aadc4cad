package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// UploadRequest is the engine-level input for a file upload.
type UploadRequest struct {
	FileName     string
	Data         []byte
	Kind         ImportKind
	DryRun       bool
	AllowPartial bool
}

func (req UploadRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.FileName, validation.Required),
		validation.Field(&req.Data, validation.Required),
		validation.Field(&req.Kind, validation.Required, validation.In(
			KindVariantsCSV,
			KindProductsCSV,
			KindTaxonomyCSV,
		)),
	)
}

// UploadResult is returned by the upload call. Duplicate is set when the
// fingerprint matched a previously successful job; Job then carries that
// job, not a new one.
type UploadResult struct {
	Duplicate     bool       `json:"duplicate"`
	ExistingJobID *string    `json:"existing_job_id,omitempty"`
	Job           *ImportJob `json:"job"`
}

// JobDetail is the bounded detail projection: full report but row entries
// capped, totals always exact.
type JobDetail struct {
	Job          *ImportJob `json:"job"`
	RowsReturned int        `json:"rows_returned"`
	RowsTotal    int        `json:"rows_total"`
}
