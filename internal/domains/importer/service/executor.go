package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	catalogModel "github.com/chvvasss/gastrotech-website-sub001/internal/domains/catalog/model"
	catalogRepo "github.com/chvvasss/gastrotech-website-sub001/internal/domains/catalog/repository"
	"github.com/chvvasss/gastrotech-website-sub001/internal/domains/importer/model"
)

// rowError is a per-row commit failure. It is recordable: under
// allow_partial the row is skipped and the batch continues. Anything that
// is not a rowError aborts the transaction no matter what the policy says.
type rowError struct {
	msg string
}

func (e *rowError) Error() string { return e.msg }

func rowErrorf(format string, args ...any) *rowError {
	return &rowError{msg: fmt.Sprintf(format, args...)}
}

// CommitResult is what the executor hands back to the engine. Keys holds
// every natural key the batch wrote (or tried to write, when the
// transaction later aborted) grouped for the verifier.
type CommitResult struct {
	Created         int
	Updated         int
	ExecutionErrors []model.ExecutionError
	Keys            map[model.EntityType][]string
}

func (r *CommitResult) recordKey(entity model.EntityType, key string) {
	if r.Keys == nil {
		r.Keys = make(map[model.EntityType][]string)
	}
	r.Keys[entity] = append(r.Keys[entity], key)
}

// Executor applies validated rows to the catalog inside one transaction.
//
// The validator's create/update decision is re-checked here against the
// transaction's view: the catalog may have moved between preview and
// apply, and a stale decision must surface as an execution error rather
// than silently flip a create into an update.
type Executor struct {
	catalog catalogRepo.Store
}

func NewExecutor(catalog catalogRepo.Store) *Executor {
	return &Executor{catalog: catalog}
}

// Commit applies rows in file order. With allowPartial each row runs in
// its own savepoint and failures are collected; without it the first
// failure rolls the whole batch back. The returned result is non-nil even
// on error so the verifier can check which keys (if any) landed.
func (e *Executor) Commit(ctx context.Context, kind model.ImportKind, rows []model.Row, allowPartial bool) (*CommitResult, error) {
	result := &CommitResult{}

	err := e.catalog.RunInTx(ctx, func(tx catalogRepo.Tx) error {
		for i := range rows {
			row := &rows[i]

			if !row.Valid() {
				// Invalid rows only reach the executor under allow_partial;
				// they are skipped, not applied.
				result.ExecutionErrors = append(result.ExecutionErrors, model.ExecutionError{
					Row:     row.Number,
					Message: "skipped: " + strings.Join(row.Errors, "; "),
				})
				continue
			}

			var err error
			if allowPartial {
				err = tx.WithSavepoint(ctx, func(sp catalogRepo.Tx) error {
					return e.applyRow(ctx, sp, kind, row, result)
				})
			} else {
				err = e.applyRow(ctx, tx, kind, row, result)
			}
			if err == nil {
				continue
			}

			var re *rowError
			if errors.As(err, &re) && allowPartial {
				log.Warn().Int("row", row.Number).Str("key", row.Key).Msg("import row skipped during commit")
				result.ExecutionErrors = append(result.ExecutionErrors, model.ExecutionError{
					Row:     row.Number,
					Message: re.msg,
				})
				continue
			}
			if errors.As(err, &re) {
				result.ExecutionErrors = append(result.ExecutionErrors, model.ExecutionError{
					Row:     row.Number,
					Message: re.msg,
				})
				return fmt.Errorf("row %d: %s", row.Number, re.msg)
			}
			return fmt.Errorf("row %d: %w", row.Number, err)
		}
		return nil
	})
	if err != nil {
		// Rolled back: nothing in Created/Updated survived.
		result.Created = 0
		result.Updated = 0
		return result, err
	}

	return result, nil
}

func (e *Executor) applyRow(ctx context.Context, tx catalogRepo.Tx, kind model.ImportKind, row *model.Row, result *CommitResult) error {
	switch kind {
	case model.KindVariantsCSV:
		return e.applyVariant(ctx, tx, row, result)
	case model.KindProductsCSV:
		return e.applyProduct(ctx, tx, row, result)
	case model.KindTaxonomyCSV:
		return e.applyTaxonomy(ctx, tx, row, result)
	default:
		return fmt.Errorf("unsupported import kind: %s", kind)
	}
}

func (e *Executor) applyVariant(ctx context.Context, tx catalogRepo.Tx, row *model.Row, result *CommitResult) error {
	product, err := tx.FindProductBySlug(ctx, row.ProductSlug)
	if errors.Is(err, catalogModel.ErrNotFound) {
		return rowErrorf("product_slug %q no longer exists", row.ProductSlug)
	}
	if err != nil {
		return err
	}

	existing, err := tx.FindVariantByModelCode(ctx, row.ModelCode)
	exists, err := resolveExisting(err)
	if err != nil {
		return err
	}
	if err := checkAction(row, exists, "model_code"); err != nil {
		return err
	}

	listPrice, err := mustDecimal("list_price", row.ListPrice)
	if err != nil {
		return err
	}
	weight, err := mustDecimal("weight_kg", row.WeightKG)
	if err != nil {
		return err
	}
	power, err := optionalDecimal("power_kw", row.PowerKW)
	if err != nil {
		return err
	}

	variant := &catalogModel.Variant{
		ModelCode:  row.ModelCode,
		ProductID:  product.ID,
		NameTR:     row.NameTR,
		NameEN:     optionalString(row.NameEN),
		Dimensions: row.Dimensions,
		ListPrice:  listPrice,
		WeightKG:   weight,
		PowerKW:    power,
		Voltage:    optionalString(row.Voltage),
		Capacity:   optionalString(row.Capacity),
	}

	if exists {
		variant.ID = existing.ID
		if err := tx.UpdateVariant(ctx, variant); err != nil {
			return wrapWrite(err, "model_code", row.ModelCode)
		}
		result.Updated++
	} else {
		variant.ID = uuid.New()
		if err := tx.CreateVariant(ctx, variant); err != nil {
			return wrapWrite(err, "model_code", row.ModelCode)
		}
		result.Created++
	}

	result.recordKey(model.EntityVariants, row.ModelCode)
	return nil
}

func (e *Executor) applyProduct(ctx context.Context, tx catalogRepo.Tx, row *model.Row, result *CommitResult) error {
	series, err := tx.FindSeriesBySlug(ctx, row.SeriesSlug)
	if errors.Is(err, catalogModel.ErrNotFound) {
		return rowErrorf("series_slug %q no longer exists", row.SeriesSlug)
	}
	if err != nil {
		return err
	}
	brand, err := tx.FindBrandBySlug(ctx, row.BrandSlug)
	if errors.Is(err, catalogModel.ErrNotFound) {
		return rowErrorf("brand_slug %q no longer exists", row.BrandSlug)
	}
	if err != nil {
		return err
	}
	category, err := tx.FindCategoryBySlug(ctx, row.CategorySlug)
	if errors.Is(err, catalogModel.ErrNotFound) {
		return rowErrorf("category_slug %q no longer exists", row.CategorySlug)
	}
	if err != nil {
		return err
	}

	existing, err := tx.FindProductBySlug(ctx, row.Slug)
	exists, err := resolveExisting(err)
	if err != nil {
		return err
	}
	if err := checkAction(row, exists, "slug"); err != nil {
		return err
	}

	isActive := true
	if row.IsActive != "" {
		isActive, err = strconv.ParseBool(row.IsActive)
		if err != nil {
			return rowErrorf("is_active %q is not a boolean", row.IsActive)
		}
	}

	product := &catalogModel.Product{
		Slug:          row.Slug,
		NameTR:        row.NameTR,
		NameEN:        optionalString(row.NameEN),
		DescriptionTR: optionalString(row.DescriptionTR),
		SeriesID:      series.ID,
		BrandID:       brand.ID,
		CategoryID:    category.ID,
		IsActive:      isActive,
	}

	if exists {
		product.ID = existing.ID
		if err := tx.UpdateProduct(ctx, product); err != nil {
			return wrapWrite(err, "slug", row.Slug)
		}
		result.Updated++
	} else {
		product.ID = uuid.New()
		if err := tx.CreateProduct(ctx, product); err != nil {
			return wrapWrite(err, "slug", row.Slug)
		}
		result.Created++
	}

	result.recordKey(model.EntityProducts, row.Slug)
	return nil
}

func (e *Executor) applyTaxonomy(ctx context.Context, tx catalogRepo.Tx, row *model.Row, result *CommitResult) error {
	sortOrder := 0
	if row.SortOrder != "" {
		var err error
		sortOrder, err = strconv.Atoi(row.SortOrder)
		if err != nil {
			return rowErrorf("sort_order %q is not an integer", row.SortOrder)
		}
	}

	switch strings.ToLower(row.EntityType) {
	case taxonomyCategory:
		return e.applyCategory(ctx, tx, row, sortOrder, result)
	case taxonomyBrand:
		return e.applyBrand(ctx, tx, row, result)
	case taxonomySeries:
		return e.applySeries(ctx, tx, row, result)
	default:
		return rowErrorf("entity_type %q must be one of: category, brand, series", row.EntityType)
	}
}

func (e *Executor) applyCategory(ctx context.Context, tx catalogRepo.Tx, row *model.Row, sortOrder int, result *CommitResult) error {
	var parentID *uuid.UUID
	if row.ParentSlug != "" {
		// Parents created by earlier rows of the same file are visible here.
		parent, err := tx.FindCategoryBySlug(ctx, row.ParentSlug)
		if errors.Is(err, catalogModel.ErrNotFound) {
			return rowErrorf("parent_slug %q no longer exists", row.ParentSlug)
		}
		if err != nil {
			return err
		}
		parentID = &parent.ID
	}

	existing, err := tx.FindCategoryBySlug(ctx, row.Slug)
	exists, err := resolveExisting(err)
	if err != nil {
		return err
	}
	if err := checkAction(row, exists, "slug"); err != nil {
		return err
	}

	category := &catalogModel.Category{
		Slug:      row.Slug,
		NameTR:    row.NameTR,
		NameEN:    optionalString(row.NameEN),
		ParentID:  parentID,
		SortOrder: sortOrder,
	}

	if exists {
		category.ID = existing.ID
		if err := tx.UpdateCategory(ctx, category); err != nil {
			return wrapWrite(err, "slug", row.Slug)
		}
		result.Updated++
	} else {
		category.ID = uuid.New()
		if err := tx.CreateCategory(ctx, category); err != nil {
			return wrapWrite(err, "slug", row.Slug)
		}
		result.Created++
	}

	result.recordKey(model.EntityCategories, row.Slug)
	return nil
}

func (e *Executor) applyBrand(ctx context.Context, tx catalogRepo.Tx, row *model.Row, result *CommitResult) error {
	existing, err := tx.FindBrandBySlug(ctx, row.Slug)
	exists, err := resolveExisting(err)
	if err != nil {
		return err
	}
	if err := checkAction(row, exists, "slug"); err != nil {
		return err
	}

	brand := &catalogModel.Brand{
		Slug:   row.Slug,
		NameTR: row.NameTR,
		NameEN: optionalString(row.NameEN),
	}

	if exists {
		brand.ID = existing.ID
		if err := tx.UpdateBrand(ctx, brand); err != nil {
			return wrapWrite(err, "slug", row.Slug)
		}
		result.Updated++
	} else {
		brand.ID = uuid.New()
		if err := tx.CreateBrand(ctx, brand); err != nil {
			return wrapWrite(err, "slug", row.Slug)
		}
		result.Created++
	}

	result.recordKey(model.EntityBrands, row.Slug)
	return nil
}

func (e *Executor) applySeries(ctx context.Context, tx catalogRepo.Tx, row *model.Row, result *CommitResult) error {
	brand, err := tx.FindBrandBySlug(ctx, row.BrandSlug)
	if errors.Is(err, catalogModel.ErrNotFound) {
		return rowErrorf("brand_slug %q no longer exists", row.BrandSlug)
	}
	if err != nil {
		return err
	}

	existing, err := tx.FindSeriesBySlug(ctx, row.Slug)
	exists, err := resolveExisting(err)
	if err != nil {
		return err
	}
	if err := checkAction(row, exists, "slug"); err != nil {
		return err
	}

	series := &catalogModel.Series{
		Slug:    row.Slug,
		NameTR:  row.NameTR,
		NameEN:  optionalString(row.NameEN),
		BrandID: brand.ID,
	}

	if exists {
		series.ID = existing.ID
		if err := tx.UpdateSeries(ctx, series); err != nil {
			return wrapWrite(err, "slug", row.Slug)
		}
		result.Updated++
	} else {
		series.ID = uuid.New()
		if err := tx.CreateSeries(ctx, series); err != nil {
			return wrapWrite(err, "slug", row.Slug)
		}
		result.Created++
	}

	result.recordKey(model.EntitySeries, row.Slug)
	return nil
}

// ---- helpers ----

func resolveExisting(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, catalogModel.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// checkAction verifies the validated action against what the transaction
// sees now. A create colliding with a key that appeared since validation
// is an execution error, never a silent update; likewise an update whose
// target vanished.
func checkAction(row *model.Row, exists bool, keyName string) error {
	if exists && row.Action == model.ActionCreate {
		return rowErrorf("%s %q already exists; validated as create", keyName, row.Key)
	}
	if !exists && row.Action == model.ActionUpdate {
		return rowErrorf("%s %q no longer exists; validated as update", keyName, row.Key)
	}
	return nil
}

func wrapWrite(err error, keyName, key string) error {
	if errors.Is(err, catalogModel.ErrDuplicateKey) {
		return rowErrorf("%s %q was created concurrently", keyName, key)
	}
	return err
}

func mustDecimal(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, rowErrorf("%s %q is not a number", name, value)
	}
	return d, nil
}

func optionalDecimal(name, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := mustDecimal(name, value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
