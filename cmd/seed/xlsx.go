package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ikkim/motoparts-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
)

// Recognized header names, matched case-insensitively.
const (
	colName                = "name"
	colDescription         = "description"
	colPrice               = "price"
	colStock               = "stock"
	colImageURL            = "image_url"
	colDiscount            = "discount"
	colOffer               = "offer"
	colCategory            = "category"
	colBrand               = "brand"
	colCompatibleBikes     = "compatible_bikes"
	colIsFeatured          = "is_featured"
	colWarrantyPeriod      = "warranty_period"
	colManufacturerDetails = "manufacturer_details"
)

var requiredColumns = []string{colName, colDescription, colPrice}

type skippedRow struct {
	Row    int
	Reason string
}

type importResult struct {
	TotalRows int
	Products  []model.Product
	Skipped   []skippedRow
}

func readProductsFromXLSX(filePath string) (*importResult, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	return parseProductRows(rows)
}

// parseProductRows treats rows[0] as the header. Rows that fail to parse are
// reported in Skipped with their 1-based sheet row number.
func parseProductRows(rows [][]string) (*importResult, error) {
	columns := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	result := &importResult{TotalRows: len(rows) - 1}
	for i, row := range rows[1:] {
		cell := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		product, err := parseProduct(cell)
		if err != nil {
			result.Skipped = append(result.Skipped, skippedRow{Row: i + 2, Reason: err.Error()})
			continue
		}
		result.Products = append(result.Products, *product)
	}
	return result, nil
}

func parseProduct(cell func(string) string) (*model.Product, error) {
	name := cell(colName)
	description := cell(colDescription)
	if name == "" || description == "" {
		return nil, fmt.Errorf("name and description are required")
	}

	price, err := strconv.ParseFloat(cell(colPrice), 64)
	if err != nil || price < 0 {
		return nil, fmt.Errorf("invalid price %q", cell(colPrice))
	}

	product := &model.Product{
		Name:                name,
		Description:         description,
		Price:               price,
		ImageURL:            cell(colImageURL),
		Category:            strings.ToLower(cell(colCategory)),
		Brand:               cell(colBrand),
		WarrantyPeriod:      cell(colWarrantyPeriod),
		ManufacturerDetails: cell(colManufacturerDetails),
		CompatibleBikes:     splitList(cell(colCompatibleBikes)),
	}

	if v := cell(colStock); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil || stock < 0 {
			return nil, fmt.Errorf("invalid stock %q", v)
		}
		product.Stock = stock
	}

	if v := cell(colDiscount); v != "" {
		discount, err := strconv.ParseFloat(v, 64)
		if err != nil || discount < 0 || discount > 100 {
			return nil, fmt.Errorf("invalid discount %q", v)
		}
		product.Discount = discount
	}

	if v := cell(colOffer); v != "" {
		product.Offer = &v
	}

	if v := cell(colIsFeatured); v != "" {
		featured, err := strconv.ParseBool(strings.ToLower(v))
		if err != nil {
			return nil, fmt.Errorf("invalid is_featured %q", v)
		}
		product.IsFeatured = featured
	}

	return product, nil
}

// splitList accepts comma or semicolon separated values.
func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
