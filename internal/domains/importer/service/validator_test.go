package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chvvasss/gastrotech-website-sub001/internal/domains/importer/model"
)

func TestValidateVariantRows(t *testing.T) {
	catalog := newFakeCatalog()
	_, series, category := catalog.seedTaxonomy("inoksan", "700-series", "cooking")
	product := catalog.seedProduct("gas-range", series, category)
	catalog.seedVariant("INO-7KG10", product)

	rows := []model.Row{
		{Number: 2, ModelCode: "INO-7KG10", ProductSlug: "gas-range", NameTR: "Gazlı Ocak", Dimensions: "400x730x850", ListPrice: "1250.50", WeightKG: "42"},
		{Number: 3, ModelCode: "INO-7KG20", ProductSlug: "gas-range", NameTR: "Gazlı Ocak 2", Dimensions: "800x730x850", ListPrice: "2100", WeightKG: "61.5", PowerKW: "12.4"},
		{Number: 4, ModelCode: "INO-7KG30", ProductSlug: "no-such-product", NameTR: "X", Dimensions: "1x1x1", ListPrice: "10", WeightKG: "1"},
		{Number: 5, ModelCode: "INO-7KG40", ProductSlug: "gas-range", NameTR: "Y", Dimensions: "1x1x1", ListPrice: "0", WeightKG: "-1"},
		{Number: 6, ProductSlug: "gas-range", NameTR: "Z", Dimensions: "1x1x1", ListPrice: "abc", WeightKG: "1"},
	}

	validated, err := NewValidator(catalog).ValidateRows(context.Background(), model.KindVariantsCSV, rows)
	require.NoError(t, err)

	assert.True(t, validated[0].Valid())
	assert.Equal(t, model.ActionUpdate, validated[0].Action)

	assert.True(t, validated[1].Valid())
	assert.Equal(t, model.ActionCreate, validated[1].Action)

	require.False(t, validated[2].Valid())
	assert.Contains(t, validated[2].Errors[0], "product_slug")

	require.False(t, validated[3].Valid())
	assert.Contains(t, validated[3].Errors, "list_price must be greater than 0")
	assert.Contains(t, validated[3].Errors, "weight_kg must not be negative")

	require.False(t, validated[4].Valid())
	assert.Contains(t, validated[4].Errors, "model_code is required")
	assert.Contains(t, validated[4].Errors, `list_price "abc" is not a number`)
}

func TestValidateRejectsDuplicateKeysInFile(t *testing.T) {
	catalog := newFakeCatalog()
	_, series, category := catalog.seedTaxonomy("inoksan", "700-series", "cooking")
	catalog.seedProduct("gas-range", series, category)

	rows := []model.Row{
		{Number: 2, ModelCode: "INO-1", ProductSlug: "gas-range", NameTR: "A", Dimensions: "1x1x1", ListPrice: "10", WeightKG: "1"},
		{Number: 3, ModelCode: "INO-1", ProductSlug: "gas-range", NameTR: "B", Dimensions: "1x1x1", ListPrice: "20", WeightKG: "2"},
	}

	validated, err := NewValidator(catalog).ValidateRows(context.Background(), model.KindVariantsCSV, rows)
	require.NoError(t, err)

	assert.True(t, validated[0].Valid(), "first occurrence keeps winning")
	require.False(t, validated[1].Valid())
	assert.Contains(t, validated[1].Errors[0], "duplicate key")
	assert.Contains(t, validated[1].Errors[0], "row 2")
}

func TestValidateProductRows(t *testing.T) {
	catalog := newFakeCatalog()
	_, series, category := catalog.seedTaxonomy("inoksan", "700-series", "cooking")
	catalog.seedProduct("existing-product", series, category)

	rows := []model.Row{
		{Number: 2, Slug: "existing-product", NameTR: "Mevcut", SeriesSlug: "700-series", BrandSlug: "inoksan", CategorySlug: "cooking"},
		{Number: 3, Slug: "new-product", NameTR: "Yeni", SeriesSlug: "700-series", BrandSlug: "inoksan", CategorySlug: "cooking", IsActive: "true"},
		{Number: 4, Slug: "bad-refs", NameTR: "Bozuk", SeriesSlug: "missing", BrandSlug: "missing", CategorySlug: "missing"},
		{Number: 5, Slug: "bad-bool", NameTR: "B", SeriesSlug: "700-series", BrandSlug: "inoksan", CategorySlug: "cooking", IsActive: "maybe"},
	}

	validated, err := NewValidator(catalog).ValidateRows(context.Background(), model.KindProductsCSV, rows)
	require.NoError(t, err)

	assert.Equal(t, model.ActionUpdate, validated[0].Action)
	assert.Equal(t, model.ActionCreate, validated[1].Action)

	require.False(t, validated[2].Valid())
	assert.Len(t, validated[2].Errors, 3)

	require.False(t, validated[3].Valid())
	assert.Contains(t, validated[3].Errors[0], "is_active")
}

func TestValidateRejectsMalformedSlugs(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.seedTaxonomy("inoksan", "700-series", "cooking")

	rows := []model.Row{
		{Number: 2, Slug: "Gazlı Ocak", NameTR: "Gazlı Ocak", SeriesSlug: "700-series", BrandSlug: "inoksan", CategorySlug: "cooking"},
	}

	validated, err := NewValidator(catalog).ValidateRows(context.Background(), model.KindProductsCSV, rows)
	require.NoError(t, err)

	require.False(t, validated[0].Valid())
	assert.Contains(t, validated[0].Errors[0], "not a valid slug")
}

func TestValidateTaxonomyRowsResolveInFileReferences(t *testing.T) {
	catalog := newFakeCatalog()

	rows := []model.Row{
		{Number: 2, EntityType: "brand", Slug: "oztiryakiler", NameTR: "Öztiryakiler"},
		{Number: 3, EntityType: "series", Slug: "900-series", NameTR: "900 Serisi", BrandSlug: "oztiryakiler"},
		{Number: 4, EntityType: "series", Slug: "lost-series", NameTR: "Kayıp", BrandSlug: "no-such-brand"},
		{Number: 5, EntityType: "category", Slug: "ovens", NameTR: "Fırınlar", SortOrder: "2"},
		{Number: 6, EntityType: "category", Slug: "combi-ovens", NameTR: "Kombi Fırınlar", ParentSlug: "ovens"},
		{Number: 7, EntityType: "gadget", Slug: "x", NameTR: "X"},
	}

	validated, err := NewValidator(catalog).ValidateRows(context.Background(), model.KindTaxonomyCSV, rows)
	require.NoError(t, err)

	assert.True(t, validated[0].Valid())
	assert.Equal(t, "brand:oztiryakiler", validated[0].Key)

	assert.True(t, validated[1].Valid(), "brand created earlier in the file satisfies the reference")

	require.False(t, validated[2].Valid())
	assert.Contains(t, validated[2].Errors[0], "brand_slug")

	assert.True(t, validated[3].Valid())
	assert.True(t, validated[4].Valid(), "parent category from an earlier row resolves")

	require.False(t, validated[5].Valid())
	assert.Contains(t, validated[5].Errors[0], "entity_type")
}

func TestValidateIsPureReadOnly(t *testing.T) {
	catalog := newFakeCatalog()
	_, series, category := catalog.seedTaxonomy("inoksan", "700-series", "cooking")
	catalog.seedProduct("gas-range", series, category)

	rows := []model.Row{
		{Number: 2, ModelCode: "INO-1", ProductSlug: "gas-range", NameTR: "A", Dimensions: "1x1x1", ListPrice: "10", WeightKG: "1"},
	}

	first, err := NewValidator(catalog).ValidateRows(context.Background(), model.KindVariantsCSV, rows)
	require.NoError(t, err)

	assert.Empty(t, catalog.data.variants, "validation must not write")

	again := []model.Row{
		{Number: 2, ModelCode: "INO-1", ProductSlug: "gas-range", NameTR: "A", Dimensions: "1x1x1", ListPrice: "10", WeightKG: "1"},
	}
	second, err := NewValidator(catalog).ValidateRows(context.Background(), model.KindVariantsCSV, again)
	require.NoError(t, err)
	assert.Equal(t, first[0].Action, second[0].Action)
}
