package model

// Row is one parsed data row. Cells stay raw strings — the parser only
// trims and positions them; the validator decides what they mean, and the
// executor re-parses validated values at commit time.
//
// The struct is the superset of the three kind schemas; parsing fills only
// the columns the kind declares. Rows are persisted on the job (JSONB) so
// a preview can be applied after the uploaded file is gone.
type Row struct {
	Number int `json:"row"`

	// Filled by the validator.
	Key    string    `json:"key,omitempty"`
	Action RowAction `json:"action,omitempty"`
	Errors []string  `json:"errors,omitempty"`

	// variants_csv
	ModelCode   string `json:"model_code,omitempty"`
	ProductSlug string `json:"product_slug,omitempty"`
	Dimensions  string `json:"dimensions,omitempty"`
	ListPrice   string `json:"list_price,omitempty"`
	WeightKG    string `json:"weight_kg,omitempty"`
	PowerKW     string `json:"power_kw,omitempty"`
	Voltage     string `json:"voltage,omitempty"`
	Capacity    string `json:"capacity,omitempty"`

	// products_csv
	Slug          string `json:"slug,omitempty"`
	SeriesSlug    string `json:"series_slug,omitempty"`
	BrandSlug     string `json:"brand_slug,omitempty"`
	CategorySlug  string `json:"category_slug,omitempty"`
	DescriptionTR string `json:"description_tr,omitempty"`
	IsActive      string `json:"is_active,omitempty"`

	// taxonomy_csv
	EntityType string `json:"entity_type,omitempty"`
	ParentSlug string `json:"parent_slug,omitempty"`
	SortOrder  string `json:"sort_order,omitempty"`

	// shared
	NameTR string `json:"name_tr,omitempty"`
	NameEN string `json:"name_en,omitempty"`
}

// Valid reports whether the row passed validation.
func (r *Row) Valid() bool {
	return len(r.Errors) == 0
}

// AddError appends a human-readable validation message.
func (r *Row) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// Reports projects rows into report entries.
func Reports(rows []Row) []RowReport {
	reports := make([]RowReport, len(rows))
	for i, r := range rows {
		reports[i] = RowReport{
			Row:    r.Number,
			Key:    r.Key,
			Action: r.Action,
			Errors: r.Errors,
		}
	}
	return reports
}
