package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/chvvasss/gastrotech-website-sub001/internal/domains/importer/model"
)

func TestParseCSV(t *testing.T) {
	data := []byte("Model_Code,product_slug,NAME_TR,dimensions,list_price,weight_kg,power_kw\n" +
		"INO-1, gas-range ,Gazlı Ocak,400x730x850,1250.50,42,\n" +
		",,,,,,\n" +
		"INO-2,gas-range,Gazlı Ocak XL,800x730x850,2100,61.5,12.4\n")

	result, err := Parse("catalog.csv", data, model.KindVariantsCSV)
	require.NoError(t, err)

	assert.Contains(t, result.ColumnsFound, "model_code", "header is normalized to lower case")
	require.Len(t, result.Rows, 2, "blank lines are skipped")

	first := result.Rows[0]
	assert.Equal(t, 2, first.Number, "data starts at file line 2")
	assert.Equal(t, "INO-1", first.ModelCode)
	assert.Equal(t, "gas-range", first.ProductSlug, "cells are trimmed")
	assert.Equal(t, "1250.50", first.ListPrice)
	assert.Empty(t, first.PowerKW)

	second := result.Rows[1]
	assert.Equal(t, 4, second.Number)
	assert.Equal(t, "12.4", second.PowerKW)
}

func TestParseRowNumbersSurviveMultilineCells(t *testing.T) {
	data := []byte("entity_type,slug,name_tr\n" +
		"brand,inoksan,\"İnoksan\nSanayi\"\n" +
		"brand,ozti,Öztiryakiler\n")

	result, err := Parse("taxonomy.csv", data, model.KindTaxonomyCSV)
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)

	assert.Equal(t, 2, result.Rows[0].Number)
	assert.Equal(t, "İnoksan\nSanayi", result.Rows[0].NameTR)
	// The quoted cell spans lines 2-3; the next record starts on line 4
	// and must be reported there, not at its record index.
	assert.Equal(t, 4, result.Rows[1].Number)
}

func TestParseReportsMissingColumnsSorted(t *testing.T) {
	data := []byte("model_code,name_tr\nINO-1,Gazlı Ocak\n")

	_, err := Parse("catalog.csv", data, model.KindVariantsCSV)

	var colErr *ColumnError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, []string{"dimensions", "list_price", "product_slug", "weight_kg"}, colErr.Missing)
}

func TestParseEmptyFile(t *testing.T) {
	_, err := Parse("empty.csv", []byte(""), model.KindVariantsCSV)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "empty")
}

func TestParseMalformedCSV(t *testing.T) {
	data := []byte("model_code,product_slug\n\"unterminated,x\n")

	_, err := Parse("bad.csv", data, model.KindVariantsCSV)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParseXLSX(t *testing.T) {
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	require.NoError(t, wb.SetSheetRow(sheet, "A1", &[]string{"entity_type", "slug", "name_tr", "sort_order"}))
	require.NoError(t, wb.SetSheetRow(sheet, "A2", &[]string{"brand", "inoksan", "İnoksan", ""}))
	require.NoError(t, wb.SetSheetRow(sheet, "A3", &[]string{"category", "cooking", "Pişirme", "1"}))

	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)

	result, err := Parse("taxonomy.xlsx", buf.Bytes(), model.KindTaxonomyCSV)
	require.NoError(t, err)

	require.Len(t, result.Rows, 2)
	assert.Equal(t, "brand", result.Rows[0].EntityType)
	assert.Equal(t, "inoksan", result.Rows[0].Slug)
	assert.Equal(t, "1", result.Rows[1].SortOrder)
}

func TestParseXLSXRejectsGarbage(t *testing.T) {
	_, err := Parse("fake.xlsx", []byte("this is not a workbook"), model.KindTaxonomyCSV)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestRequiredColumnsReturnsACopy(t *testing.T) {
	cols := RequiredColumns(model.KindProductsCSV)
	require.NotEmpty(t, cols)
	cols[0] = "tampered"
	assert.NotEqual(t, "tampered", RequiredColumns(model.KindProductsCSV)[0])
}
