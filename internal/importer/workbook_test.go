package importer_test

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/stockpile/internal/core/domain"
	"github.com/ammerola/stockpile/internal/importer"
)

func buildWorkbook(t *testing.T, rows [][]string) []byte {
	t.Helper()

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Sheet1")
	require.NoError(t, err)
	for _, values := range rows {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().SetString(v)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))
	return buf.Bytes()
}

func TestParseWorkbook(t *testing.T) {
	data := buildWorkbook(t, [][]string{
		{"Qty", "Name", "Notes", "Price", "Category"},
		{"12", "Gala Apples", "organic", "$1,250.50", "Produce"},
		{"-4", "Milk", "", "2.99", "Dairy"},
		{"", "", "", "", ""},
		{"3", "", "", "1", "Bakery"},
		{"two", "Bread", "", "junk", ""},
	})

	res, err := importer.ParseWorkbook(data)
	require.NoError(t, err)

	require.Len(t, res.Drafts, 3)
	assert.Equal(t, "Gala Apples", res.Drafts[0].Name)
	assert.Equal(t, "Produce", res.Drafts[0].Category)
	assert.Equal(t, 12, res.Drafts[0].Quantity)
	assert.True(t, decimal.RequireFromString("1250.50").Equal(res.Drafts[0].Price))
	assert.Equal(t, domain.PlaceholderImage, res.Drafts[0].Image)

	assert.Equal(t, 0, res.Drafts[1].Quantity, "negative quantities clamp to zero")
	assert.Equal(t, 0, res.Drafts[2].Quantity)
	assert.True(t, res.Drafts[2].Price.IsZero())

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 5, res.Skipped[0].Row)
	assert.Equal(t, domain.ErrNameRequired.Error(), res.Skipped[0].Reason)
}

func TestParseWorkbook_Errors(t *testing.T) {
	t.Run("missing_name_column", func(t *testing.T) {
		data := buildWorkbook(t, [][]string{{"Category", "Price"}, {"Dairy", "1"}})
		_, err := importer.ParseWorkbook(data)
		assert.ErrorIs(t, err, importer.ErrNoNameColumn)
	})

	t.Run("not_a_workbook", func(t *testing.T) {
		_, err := importer.ParseWorkbook([]byte("name,price\nmilk,1"))
		assert.ErrorContains(t, err, "failed to open workbook")
	})

	t.Run("empty_sheet", func(t *testing.T) {
		res, err := importer.ParseWorkbook(buildWorkbook(t, nil))
		require.NoError(t, err)
		assert.Empty(t, res.Drafts)
	})
}

func TestWorkbook_RoundTrip(t *testing.T) {
	snap := domain.NewSnapshot(
		domain.Item{ID: "a", Name: "Apples", Category: "Produce", Quantity: 2, Price: decimal.NewFromInt(3), Image: domain.PlaceholderImage},
		domain.Item{ID: "b", Name: "Milk", Category: "Dairy", Quantity: 60, Price: decimal.RequireFromString("1.25"), Image: "https://img.example/milk.png"},
	)

	data, err := importer.EncodeWorkbook(snap)
	require.NoError(t, err)

	file, err := xlsx.OpenBinary(data)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	assert.Equal(t, importer.SheetName, file.Sheets[0].Name)

	res, err := importer.ParseWorkbook(data)
	require.NoError(t, err)
	require.Len(t, res.Drafts, 2)

	for i, item := range snap.Items() {
		got := res.Drafts[i]
		assert.Equal(t, item.Name, got.Name)
		assert.Equal(t, item.Category, got.Category)
		assert.Equal(t, item.Quantity, got.Quantity)
		assert.True(t, item.Price.Equal(got.Price), "price %s != %s", item.Price, got.Price)
		assert.Equal(t, item.Image, got.Image)
	}
}
