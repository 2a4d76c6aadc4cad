package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	catalogModel "github.com/chvvasss/gastrotech-website-sub001/internal/domains/catalog/model"
	catalogRepo "github.com/chvvasss/gastrotech-website-sub001/internal/domains/catalog/repository"
	"github.com/chvvasss/gastrotech-website-sub001/internal/domains/importer/model"
	"github.com/chvvasss/gastrotech-website-sub001/internal/shared/utils"
)

// taxonomy entity_type values
const (
	taxonomyCategory = "category"
	taxonomyBrand    = "brand"
	taxonomySeries   = "series"
)

// Validator applies the per-kind business rules to parsed rows and
// classifies each as create or update against the current catalog.
//
// Validation is pure: it only reads the catalog, so running it twice on
// the same catalog state yields identical results. Dry-run and commit both
// depend on that.
type Validator struct {
	catalog catalogRepo.Reader
}

func NewValidator(catalog catalogRepo.Reader) *Validator {
	return &Validator{catalog: catalog}
}

// ValidateRows annotates every row with its natural key, decided action
// and any rule violations. Only infrastructure failures return an error.
func (v *Validator) ValidateRows(ctx context.Context, kind model.ImportKind, rows []model.Row) ([]model.Row, error) {
	// Natural keys seen earlier in this file, for duplicate detection and
	// (taxonomy only) in-file foreign-key references.
	seen := make(map[string]int, len(rows))

	for i := range rows {
		row := &rows[i]

		var err error
		switch kind {
		case model.KindVariantsCSV:
			err = v.validateVariantRow(ctx, row)
		case model.KindProductsCSV:
			err = v.validateProductRow(ctx, row)
		case model.KindTaxonomyCSV:
			err = v.validateTaxonomyRow(ctx, row, seen)
		default:
			return nil, fmt.Errorf("unsupported import kind: %s", kind)
		}
		if err != nil {
			return nil, err
		}

		if row.Key != "" {
			if firstRow, dup := seen[row.Key]; dup {
				row.AddError(fmt.Sprintf("duplicate key %q (also at row %d)", row.Key, firstRow))
			} else {
				seen[row.Key] = row.Number
			}
		}
	}

	return rows, nil
}

func (v *Validator) validateVariantRow(ctx context.Context, row *model.Row) error {
	row.Key = row.ModelCode

	requireField(row, "model_code", row.ModelCode)
	requireField(row, "product_slug", row.ProductSlug)
	requireField(row, "name_tr", row.NameTR)
	requireField(row, "dimensions", row.Dimensions)

	if requireField(row, "list_price", row.ListPrice) {
		if price, ok := parseDecimal(row, "list_price", row.ListPrice); ok && !price.IsPositive() {
			row.AddError("list_price must be greater than 0")
		}
	}
	if requireField(row, "weight_kg", row.WeightKG) {
		if weight, ok := parseDecimal(row, "weight_kg", row.WeightKG); ok && weight.IsNegative() {
			row.AddError("weight_kg must not be negative")
		}
	}
	if row.PowerKW != "" {
		if power, ok := parseDecimal(row, "power_kw", row.PowerKW); ok && power.IsNegative() {
			row.AddError("power_kw must not be negative")
		}
	}

	if row.ProductSlug != "" {
		exists, err := v.productExists(ctx, row.ProductSlug)
		if err != nil {
			return err
		}
		if !exists {
			row.AddError(fmt.Sprintf("product_slug %q does not exist", row.ProductSlug))
		}
	}

	if row.ModelCode == "" {
		return nil
	}
	existing, err := v.findVariant(ctx, row.ModelCode)
	if err != nil {
		return err
	}
	row.Action = actionFor(existing)
	return nil
}

func (v *Validator) validateProductRow(ctx context.Context, row *model.Row) error {
	row.Key = row.Slug

	if requireField(row, "slug", row.Slug) {
		checkSlugFormat(row, "slug", row.Slug)
	}
	requireField(row, "name_tr", row.NameTR)

	if requireField(row, "series_slug", row.SeriesSlug) {
		if err := v.checkRef(ctx, row, "series_slug", row.SeriesSlug, v.seriesExists); err != nil {
			return err
		}
	}
	if requireField(row, "brand_slug", row.BrandSlug) {
		if err := v.checkRef(ctx, row, "brand_slug", row.BrandSlug, v.brandExists); err != nil {
			return err
		}
	}
	if requireField(row, "category_slug", row.CategorySlug) {
		if err := v.checkRef(ctx, row, "category_slug", row.CategorySlug, v.categoryExists); err != nil {
			return err
		}
	}

	if row.IsActive != "" {
		if _, err := strconv.ParseBool(row.IsActive); err != nil {
			row.AddError(fmt.Sprintf("is_active %q is not a boolean", row.IsActive))
		}
	}

	if row.Slug == "" {
		return nil
	}
	existing, err := v.findProduct(ctx, row.Slug)
	if err != nil {
		return err
	}
	row.Action = actionFor(existing)
	return nil
}

// validateTaxonomyRow allows foreign keys to reference entities created by
// earlier rows of the same file: a brand on row 2 satisfies a series on
// row 5. The executor applies rows in order, so those references resolve
// inside the commit transaction.
func (v *Validator) validateTaxonomyRow(ctx context.Context, row *model.Row, seen map[string]int) error {
	entityType := strings.ToLower(row.EntityType)

	switch entityType {
	case taxonomyCategory, taxonomyBrand, taxonomySeries:
		row.Key = entityType + ":" + row.Slug
	case "":
		row.AddError("entity_type is required")
	default:
		row.AddError(fmt.Sprintf("entity_type %q must be one of: category, brand, series", row.EntityType))
	}

	if requireField(row, "slug", row.Slug) {
		checkSlugFormat(row, "slug", row.Slug)
	}
	requireField(row, "name_tr", row.NameTR)

	if row.SortOrder != "" {
		if _, err := strconv.Atoi(row.SortOrder); err != nil {
			row.AddError(fmt.Sprintf("sort_order %q is not an integer", row.SortOrder))
		}
	}

	if entityType == taxonomySeries {
		if requireField(row, "brand_slug", row.BrandSlug) {
			if _, inFile := seen[taxonomyBrand+":"+row.BrandSlug]; !inFile {
				exists, err := v.brandExists(ctx, row.BrandSlug)
				if err != nil {
					return err
				}
				if !exists {
					row.AddError(fmt.Sprintf("brand_slug %q does not exist", row.BrandSlug))
				}
			}
		}
	}

	if entityType == taxonomyCategory && row.ParentSlug != "" {
		if _, inFile := seen[taxonomyCategory+":"+row.ParentSlug]; !inFile {
			exists, err := v.categoryExists(ctx, row.ParentSlug)
			if err != nil {
				return err
			}
			if !exists {
				row.AddError(fmt.Sprintf("parent_slug %q does not exist", row.ParentSlug))
			}
		}
	}

	if row.Slug == "" || row.Action != "" {
		return nil
	}

	var (
		exists bool
		err    error
	)
	switch entityType {
	case taxonomyCategory:
		exists, err = v.categoryExists(ctx, row.Slug)
	case taxonomyBrand:
		exists, err = v.brandExists(ctx, row.Slug)
	case taxonomySeries:
		exists, err = v.seriesExists(ctx, row.Slug)
	default:
		return nil
	}
	if err != nil {
		return err
	}
	if exists {
		row.Action = model.ActionUpdate
	} else {
		row.Action = model.ActionCreate
	}
	return nil
}

// ---- helpers ----

// checkSlugFormat rejects keys that would not survive a round trip
// through the slugifier (uppercase, Turkish letters, spaces).
func checkSlugFormat(row *model.Row, name, value string) {
	if value != utils.GenerateSlug(value) {
		row.AddError(fmt.Sprintf("%s %q is not a valid slug", name, value))
	}
}

// requireField reports whether the field is present, recording an error
// when it is not.
func requireField(row *model.Row, name, value string) bool {
	if strings.TrimSpace(value) == "" {
		row.AddError(name + " is required")
		return false
	}
	return true
}

func parseDecimal(row *model.Row, name, value string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		row.AddError(fmt.Sprintf("%s %q is not a number", name, value))
		return decimal.Zero, false
	}
	return d, true
}

func actionFor(exists bool) model.RowAction {
	if exists {
		return model.ActionUpdate
	}
	return model.ActionCreate
}

func (v *Validator) checkRef(ctx context.Context, row *model.Row, name, slug string, exists func(context.Context, string) (bool, error)) error {
	ok, err := exists(ctx, slug)
	if err != nil {
		return err
	}
	if !ok {
		row.AddError(fmt.Sprintf("%s %q does not exist", name, slug))
	}
	return nil
}

func (v *Validator) productExists(ctx context.Context, slug string) (bool, error) {
	_, err := v.catalog.FindProductBySlug(ctx, slug)
	return existsFromErr(err)
}

func (v *Validator) brandExists(ctx context.Context, slug string) (bool, error) {
	_, err := v.catalog.FindBrandBySlug(ctx, slug)
	return existsFromErr(err)
}

func (v *Validator) seriesExists(ctx context.Context, slug string) (bool, error) {
	_, err := v.catalog.FindSeriesBySlug(ctx, slug)
	return existsFromErr(err)
}

func (v *Validator) categoryExists(ctx context.Context, slug string) (bool, error) {
	_, err := v.catalog.FindCategoryBySlug(ctx, slug)
	return existsFromErr(err)
}

func (v *Validator) findVariant(ctx context.Context, modelCode string) (bool, error) {
	_, err := v.catalog.FindVariantByModelCode(ctx, modelCode)
	return existsFromErr(err)
}

func (v *Validator) findProduct(ctx context.Context, slug string) (bool, error) {
	_, err := v.catalog.FindProductBySlug(ctx, slug)
	return existsFromErr(err)
}

func existsFromErr(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, catalogModel.ErrNotFound) {
		return false, nil
	}
	return false, err
}
