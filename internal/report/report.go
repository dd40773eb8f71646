// Package report renders the daily list of active reservations for export.
package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrNothingToExport = errors.New("nothing to export")
	ErrUnknownFormat   = errors.New("unknown export format")
)

// Row is one active reservation as it appears in a report.
type Row struct {
	Room     string `json:"room"`
	Customer string `json:"customer"`
	Event    string `json:"event"`
	Shift    string `json:"shift"`
}

// Format selects the export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// SheetName is the worksheet that holds the rows of a spreadsheet export.
const SheetName = "Reservations"

// ParseFormat accepts "csv", "json" or "xlsx" in any case; empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatCSV, FormatJSON, FormatXLSX:
		return f, nil
	}
	return "", ErrUnknownFormat
}

// ContentType is the MIME type of the rendered output.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/json; charset=utf-8"
}

// Extension is the file extension used for downloads.
func (f Format) Extension() string { return "." + string(f) }

var header = []string{"Room", "Customer", "Event", "Shift"}

// Render writes rows to w.  An empty report is refused with
// ErrNothingToExport so no empty file is ever produced.
func Render(w io.Writer, f Format, rows []Row) error {
	if len(rows) == 0 {
		return ErrNothingToExport
	}
	switch f {
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(header); err != nil {
			return err
		}
		for _, r := range rows {
			if err := cw.Write([]string{r.Room, r.Customer, r.Event, r.Shift}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case FormatXLSX:
		return renderXLSX(w, rows)
	}
	return ErrUnknownFormat
}

func renderXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &[]string{r.Room, r.Customer, r.Event, r.Shift}); err != nil {
			return err
		}
	}
	return f.Write(w)
}
