// Package export renders dashboard data as downloadable CSV and JSON files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"time"
)

// WriteCSV writes comma-delimited rows, quoting fields containing commas,
// quotes, or newlines. The header row is optional.
func WriteCSV(w io.Writer, header []string, rows [][]string, includeHeader bool) error {
	cw := csv.NewWriter(w)
	if includeHeader && len(header) > 0 {
		if err := cw.Write(header); err != nil {
			return err
		}
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// Envelope is the wrapper every JSON export ships in.
type Envelope struct {
	ExportDate   time.Time      `json:"exportDate"`
	TotalRecords int            `json:"totalRecords"`
	Filters      map[string]any `json:"filters,omitempty"`
	DateRange    *DateRange     `json:"dateRange,omitempty"`
	Data         any            `json:"data"`
}

func NewEnvelope(data any, totalRecords int, filters map[string]any, dateRange *DateRange) Envelope {
	return Envelope{
		ExportDate:   time.Now().UTC(),
		TotalRecords: totalRecords,
		Filters:      filters,
		DateRange:    dateRange,
		Data:         data,
	}
}

func WriteJSON(w io.Writer, env Envelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}
