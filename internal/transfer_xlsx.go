package internal

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Subscriptions"

var xlsxHeader = []string{
	"ID", "Name", "Category", "Cost", "Billing Cycle", "Custom Months",
	"Start Date", "End Date", "Status", "Monthly Cost", "Yearly Cost",
}

// ExportXLSX writes subscriptions to a spreadsheet with one row per subscription.
// The Monthly Cost and Yearly Cost columns are informational and ignored on import.
func ExportXLSX(path string, subs []Subscription) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]interface{}, len(xlsxHeader))
	for i, h := range xlsxHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, sub := range subs {
		rec := toRecord(sub)
		var months interface{}
		if rec.CustomMonths > 0 {
			months = rec.CustomMonths
		}
		row := []interface{}{
			rec.ID,
			rec.Name,
			rec.Category,
			sub.Cost.InexactFloat64(),
			rec.BillingCycle,
			months,
			rec.StartDate,
			rec.EndDate,
			rec.Status,
			MonthlyCost(sub).Round(2).InexactFloat64(),
			YearlyCost(sub).Round(2).InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("addressing row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}
	return nil
}

// ImportXLSX reads subscriptions from the first sheet of a spreadsheet. Columns are
// located by header name, so their order does not matter. Rows without a name are
// skipped; every other row must pass validation.
func ImportXLSX(path string) ([]Subscription, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in file")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols := make(map[string]int)
	for j, cell := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(cell))] = j
	}
	for _, required := range []string{"name", "cost", "start date"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("could not find required columns (Name, Cost, Start Date)")
		}
	}

	cell := func(row []string, name string) string {
		j, ok := cols[name]
		if !ok || j >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[j])
	}

	var records []subscriptionRecord
	for i, row := range rows[1:] {
		if cell(row, "name") == "" {
			continue
		}
		rec := subscriptionRecord{
			ID:           cell(row, "id"),
			Name:         cell(row, "name"),
			Category:     cell(row, "category"),
			Cost:         json.Number(strings.ReplaceAll(cell(row, "cost"), ",", ".")),
			BillingCycle: cell(row, "billing cycle"),
			StartDate:    cell(row, "start date"),
			EndDate:      cell(row, "end date"),
			Status:       cell(row, "status"),
		}
		if m := cell(row, "custom months"); m != "" {
			months, err := strconv.Atoi(m)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid custom months %q", i+2, m)
			}
			rec.CustomMonths = months
		}
		records = append(records, rec)
	}

	return fromRecords(records)
}

func init() {
	RegisterFormat(Format{
		Name:       "xlsx",
		Extensions: []string{".xlsx"},
		Import:     ImportXLSX,
		Export:     ExportXLSX,
	})
}
