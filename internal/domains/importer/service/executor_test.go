package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chvvasss/gastrotech-website-sub001/internal/domains/importer/model"
)

func variantRow(number int, modelCode, productSlug string) model.Row {
	return model.Row{
		Number:      number,
		Key:         modelCode,
		Action:      model.ActionCreate,
		ModelCode:   modelCode,
		ProductSlug: productSlug,
		NameTR:      modelCode,
		Dimensions:  "800x700x850",
		ListPrice:   "1500",
		WeightKG:    "40",
	}
}

func TestCommitAppliesRowsInOrder(t *testing.T) {
	catalog := newFakeCatalog()
	_, series, category := catalog.seedTaxonomy("inoksan", "700-series", "cooking")
	product := catalog.seedProduct("gas-range", series, category)
	existing := catalog.seedVariant("INO-OLD", product)

	update := variantRow(2, "INO-OLD", "gas-range")
	update.Action = model.ActionUpdate
	update.ListPrice = "9999"
	rows := []model.Row{
		update,
		variantRow(3, "INO-NEW", "gas-range"),
	}

	result, err := NewExecutor(catalog).Commit(context.Background(), model.KindVariantsCSV, rows, false)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Empty(t, result.ExecutionErrors)
	assert.ElementsMatch(t, []string{"INO-OLD", "INO-NEW"}, result.Keys[model.EntityVariants])

	updated := catalog.data.variants["INO-OLD"]
	assert.Equal(t, existing.ID, updated.ID, "update keeps the original id")
	assert.Equal(t, "9999", updated.ListPrice.String())
	assert.Contains(t, catalog.data.variants, "INO-NEW")
}

func TestCommitStrictModeRollsBackEverything(t *testing.T) {
	catalog := newFakeCatalog()
	_, series, category := catalog.seedTaxonomy("inoksan", "700-series", "cooking")
	catalog.seedProduct("gas-range", series, category)
	catalog.seedVariant("INO-TAKEN", catalog.data.products["gas-range"])

	// Second row collides: validated create, but the key already exists.
	rows := []model.Row{
		variantRow(2, "INO-A", "gas-range"),
		variantRow(3, "INO-TAKEN", "gas-range"),
	}

	result, err := NewExecutor(catalog).Commit(context.Background(), model.KindVariantsCSV, rows, false)
	require.Error(t, err)

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 0, result.Updated)
	require.Len(t, result.ExecutionErrors, 1)
	assert.Equal(t, 3, result.ExecutionErrors[0].Row)

	assert.NotContains(t, catalog.data.variants, "INO-A", "rollback removes the earlier row too")
}

func TestCommitAllowPartialSkipsFailingRows(t *testing.T) {
	catalog := newFakeCatalog()
	_, series, category := catalog.seedTaxonomy("inoksan", "700-series", "cooking")
	catalog.seedProduct("gas-range", series, category)
	catalog.seedVariant("INO-TAKEN", catalog.data.products["gas-range"])

	invalid := variantRow(4, "INO-BAD", "gas-range")
	invalid.Errors = []string{"list_price must be greater than 0"}

	rows := []model.Row{
		variantRow(2, "INO-A", "gas-range"),
		variantRow(3, "INO-TAKEN", "gas-range"), // create collision
		invalid,
		variantRow(5, "INO-B", "gas-range"),
	}

	result, err := NewExecutor(catalog).Commit(context.Background(), model.KindVariantsCSV, rows, true)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Updated)
	require.Len(t, result.ExecutionErrors, 2)
	assert.Equal(t, 3, result.ExecutionErrors[0].Row)
	assert.Contains(t, result.ExecutionErrors[0].Message, "already exists")
	assert.Equal(t, 4, result.ExecutionErrors[1].Row)
	assert.Contains(t, result.ExecutionErrors[1].Message, "skipped")

	assert.Contains(t, catalog.data.variants, "INO-A")
	assert.Contains(t, catalog.data.variants, "INO-B")
	assert.NotContains(t, catalog.data.variants, "INO-BAD")
}

func TestCommitUpdateTargetVanished(t *testing.T) {
	catalog := newFakeCatalog()
	_, series, category := catalog.seedTaxonomy("inoksan", "700-series", "cooking")
	catalog.seedProduct("gas-range", series, category)

	row := variantRow(2, "INO-GONE", "gas-range")
	row.Action = model.ActionUpdate

	result, err := NewExecutor(catalog).Commit(context.Background(), model.KindVariantsCSV, []model.Row{row}, true)
	require.NoError(t, err)

	assert.Zero(t, result.Created+result.Updated)
	require.Len(t, result.ExecutionErrors, 1)
	assert.Contains(t, result.ExecutionErrors[0].Message, "no longer exists")
}

func TestCommitTaxonomyResolvesEarlierRows(t *testing.T) {
	catalog := newFakeCatalog()

	rows := []model.Row{
		{Number: 2, Key: "brand:oztiryakiler", Action: model.ActionCreate, EntityType: "brand", Slug: "oztiryakiler", NameTR: "Öztiryakiler"},
		{Number: 3, Key: "series:900-series", Action: model.ActionCreate, EntityType: "series", Slug: "900-series", NameTR: "900 Serisi", BrandSlug: "oztiryakiler"},
		{Number: 4, Key: "category:ovens", Action: model.ActionCreate, EntityType: "category", Slug: "ovens", NameTR: "Fırınlar", SortOrder: "1"},
		{Number: 5, Key: "category:combi-ovens", Action: model.ActionCreate, EntityType: "category", Slug: "combi-ovens", NameTR: "Kombi", ParentSlug: "ovens"},
	}

	result, err := NewExecutor(catalog).Commit(context.Background(), model.KindTaxonomyCSV, rows, false)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Created)
	assert.Equal(t, []string{"oztiryakiler"}, result.Keys[model.EntityBrands])
	assert.Equal(t, []string{"900-series"}, result.Keys[model.EntitySeries])
	assert.Equal(t, []string{"ovens", "combi-ovens"}, result.Keys[model.EntityCategories])

	series := catalog.data.series["900-series"]
	assert.Equal(t, catalog.data.brands["oztiryakiler"].ID, series.BrandID)

	child := catalog.data.categories["combi-ovens"]
	require.NotNil(t, child.ParentID)
	assert.Equal(t, catalog.data.categories["ovens"].ID, *child.ParentID)
}
