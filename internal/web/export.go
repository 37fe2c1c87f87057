package web

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/sstent/podsync-go/internal/models"
)

var summaryHeader = []string{"Metric", "Unit", "Average", "Max", "Min", "Standard Deviation", "Count"}

func summaryRows(r *models.AnalysisResult) [][]interface{} {
	rows := make([][]interface{}, 0, len(models.Metrics))
	for _, m := range models.Metrics {
		s := r.Stats(m)
		rows = append(rows, []interface{}{m.Label(), m.Unit(), s.Average, s.Max, s.Min, s.StdDev, len(s.Series)})
	}
	return rows
}

// GenerateSummaryCSV writes one row per metric plus the entry count and suggestions.
func GenerateSummaryCSV(r *models.AnalysisResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(summaryHeader); err != nil {
		return nil, err
	}
	for _, row := range summaryRows(r) {
		record := make([]string, len(row))
		for i, v := range row {
			switch val := v.(type) {
			case float64:
				record[i] = strconv.FormatFloat(val, 'f', -1, 64)
			default:
				record[i] = fmt.Sprint(val)
			}
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	if err := w.Write([]string{"Total Entries", strconv.Itoa(r.TotalEntries)}); err != nil {
		return nil, err
	}
	for _, s := range r.HealthSuggestions {
		if err := w.Write([]string{"Suggestion", s}); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateSummaryXLSX builds a workbook with a Summary sheet and a Series sheet
// holding the raw values per metric.
func GenerateSummaryXLSX(r *models.AnalysisResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summarySheet, seriesSheet = "Summary", "Series"

	for _, name := range []string{summarySheet, seriesSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet: %w", err)
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	if index, err := f.GetSheetIndex(summarySheet); err == nil {
		f.SetActiveSheet(index)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	rows := [][]interface{}{toInterfaces(summaryHeader)}
	rows = append(rows, summaryRows(r)...)
	rows = append(rows, []interface{}{"Total Entries", r.TotalEntries})
	for _, s := range r.HealthSuggestions {
		rows = append(rows, []interface{}{"Suggestion", s})
	}
	if err := writeRows(f, summarySheet, rows); err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(summarySheet, 1, 1, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	for col, m := range models.Metrics {
		column := []interface{}{m.Label()}
		for _, v := range r.Stats(m).Series {
			column = append(column, v)
		}
		for row, v := range column {
			if err := setCellValue(f, seriesSheet, col+1, row+1, v); err != nil {
				return nil, err
			}
		}
	}
	if err := f.SetRowStyle(seriesSheet, 1, 1, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for r, row := range rows {
		for c, v := range row {
			if err := setCellValue(f, sheet, c+1, r+1, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func setCellValue(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
