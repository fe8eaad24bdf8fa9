package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestWriteCSV(t *testing.T) {
	header := []string{"id", "name", "note"}
	rows := [][]string{
		{"1", "plain", "ok"},
		{"2", "with, comma", "ok"},
		{"3", `with "quotes"`, "ok"},
		{"4", "with\nnewline", "ok"},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, header, rows, true); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "id,name,note\n") {
		t.Errorf("missing header: %q", out)
	}
	if !strings.Contains(out, `"with, comma"`) {
		t.Error("comma field should be quoted")
	}
	if !strings.Contains(out, `"with ""quotes"""`) {
		t.Error("quotes should be escaped by doubling")
	}
	if !strings.Contains(out, "\"with\nnewline\"") {
		t.Error("newline field should be quoted")
	}
}

func TestWriteCSVWithoutHeader(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []string{"a", "b"}, [][]string{{"1", "2"}}, false)
	if err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	if got := buf.String(); got != "1,2\n" {
		t.Errorf("output = %q, want %q", got, "1,2\n")
	}
}

func TestEnvelopeShape(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	env := NewEnvelope([]string{"x"}, 1, map[string]any{"realm": "kazzak"}, &DateRange{From: &from})

	var buf bytes.Buffer
	if err := WriteJSON(&buf, env); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	for _, key := range []string{"exportDate", "totalRecords", "filters", "dateRange", "data"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("envelope missing %q key", key)
		}
	}
	if decoded["totalRecords"].(float64) != 1 {
		t.Errorf("totalRecords = %v, want 1", decoded["totalRecords"])
	}
}

func TestEnvelopeOmitsEmptyFilters(t *testing.T) {
	env := NewEnvelope(nil, 0, nil, nil)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, env); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "filters") {
		t.Error("empty filters should be omitted")
	}
	if strings.Contains(out, "dateRange") {
		t.Error("nil dateRange should be omitted")
	}
	if !strings.Contains(out, `"data"`) {
		t.Error("data key must always be present")
	}
}
