// internal/importer/workbook.go
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/stockpile/internal/core/domain"
)

// SheetName is the worksheet written by WriteWorkbook.
const SheetName = "Inventory"

// ErrNoNameColumn is returned when the header row has no Name column.
var ErrNoNameColumn = errors.New("header row has no Name column")

// ExportHeaders are the columns written by WriteWorkbook. ParseWorkbook
// accepts the same headers back and ignores ID and Stock Status.
var ExportHeaders = []string{"ID", "Name", "Category", "Quantity", "Price", "Value", "Stock Status", "Image"}

type column int

const (
	colName column = iota
	colCategory
	colQuantity
	colPrice
	colImage
)

var headerAliases = map[string]column{
	"name":       colName,
	"item":       colName,
	"item name":  colName,
	"product":    colName,
	"category":   colCategory,
	"quantity":   colQuantity,
	"qty":        colQuantity,
	"stock":      colQuantity,
	"price":      colPrice,
	"unit price": colPrice,
	"image":      colImage,
	"image url":  colImage,
}

// RowError describes a data row that was skipped.
type RowError struct {
	Row    int    `json:"row"` // 1-based, as shown by spreadsheet tools
	Reason string `json:"reason"`
}

// Result is the outcome of parsing a workbook.
type Result struct {
	Drafts  []domain.Draft `json:"-"`
	Skipped []RowError     `json:"skipped,omitempty"`
}

// ParseWorkbook reads the first sheet of an xlsx file. The first row is the
// header; column order is free and unknown columns are ignored. Numeric
// cells go through the same coercion as JSON input.
func ParseWorkbook(data []byte) (Result, error) {
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	if len(file.Sheets) == 0 {
		return Result{}, nil
	}
	sheet := file.Sheets[0]
	defer sheet.Close()

	var (
		res   Result
		index map[column]int
	)

	err = sheet.ForEachRow(func(r *xlsx.Row) error {
		rowNum := r.GetCoordinate() + 1
		cells := rowValues(r)

		if index == nil {
			var err error
			index, err = mapHeaders(cells)
			return err
		}
		if isBlank(cells) {
			return nil
		}

		get := func(c column) string {
			i, ok := index[c]
			if !ok || i >= len(cells) {
				return ""
			}
			return cells[i]
		}

		draft := domain.Draft{
			Name:     get(colName),
			Category: get(colCategory),
			Quantity: domain.CoerceQuantity(get(colQuantity)),
			Price:    domain.CoercePrice(cleanMoney(get(colPrice))),
			Image:    get(colImage),
		}
		if err := draft.Validate(); err != nil {
			res.Skipped = append(res.Skipped, RowError{Row: rowNum, Reason: err.Error()})
			return nil
		}

		res.Drafts = append(res.Drafts, draft.Normalize())
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to read rows: %w", err)
	}
	if index == nil {
		return Result{}, nil
	}

	return res, nil
}

// ParseReader is ParseWorkbook for a stream.
func ParseReader(r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read workbook: %w", err)
	}
	return ParseWorkbook(data)
}

// WriteWorkbook writes snap as a single-sheet xlsx file.
func WriteWorkbook(w io.Writer, snap domain.Snapshot) error {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet(SheetName)
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range ExportHeaders {
		cell := header.AddCell()
		cell.Value = h
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for _, item := range snap.All() {
		row := sheet.AddRow()
		row.AddCell().SetString(item.ID)
		row.AddCell().SetString(item.Name)
		row.AddCell().SetString(item.Category)
		row.AddCell().SetInt(item.Quantity)
		row.AddCell().SetString(item.Price.StringFixed(2))
		row.AddCell().SetString(item.Value().StringFixed(2))
		row.AddCell().SetString(item.StockStatus().Label())
		row.AddCell().SetString(item.Image)
	}

	for i := range ExportHeaders {
		sheet.SetColWidth(i+1, i+1, 15)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// EncodeWorkbook returns the xlsx bytes for snap.
func EncodeWorkbook(snap domain.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func rowValues(r *xlsx.Row) []string {
	out := make([]string, 0, r.Sheet.MaxCol)
	for i := 0; i < r.Sheet.MaxCol; i++ {
		out = append(out, strings.TrimSpace(r.GetCell(i).String()))
	}
	return out
}

func mapHeaders(cells []string) (map[column]int, error) {
	index := make(map[column]int)
	for i, h := range cells {
		col, ok := headerAliases[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			continue
		}
		if _, dup := index[col]; !dup {
			index[col] = i
		}
	}
	if _, ok := index[colName]; !ok {
		return nil, ErrNoNameColumn
	}
	return index, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

func cleanMoney(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	return strings.ReplaceAll(s, ",", "")
}
