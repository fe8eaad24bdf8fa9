package realmstatus

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"1.2K", 1200},
		{"1.5M", 1500000},
		{"123", 123},
		{"12,345", 12345},
		{"1 234", 1234},
		{"5.6K players", 5600},
		{"42k", 42000},
		{"0", 0},
		{"", 0},
		{"no number", 0},
		{"Population: 8,412", 8412},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseCount(tt.input); got != tt.expected {
				t.Errorf("parseCount(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseOnlineFlag(t *testing.T) {
	tests := []struct {
		input    string
		expected *bool
	}{
		{"Online", boolPtr(true)},
		{"Server is UP", boolPtr(true)},
		{"Offline", boolPtr(false)},
		{"Down for maintenance", boolPtr(false)},
		{"Maintenance", boolPtr(false)},
		{"Unknown state", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseOnlineFlag(tt.input)
			switch {
			case tt.expected == nil && got != nil:
				t.Errorf("parseOnlineFlag(%q) = %v, want nil", tt.input, *got)
			case tt.expected != nil && got == nil:
				t.Errorf("parseOnlineFlag(%q) = nil, want %v", tt.input, *tt.expected)
			case tt.expected != nil && got != nil && *got != *tt.expected:
				t.Errorf("parseOnlineFlag(%q) = %v, want %v", tt.input, *got, *tt.expected)
			}
		})
	}
}

func TestParseDocument(t *testing.T) {
	html := `
	<html><body>
		<div class="realm-status">Online</div>
		<span class="realm-population">4,521</span>
		<span class="realm-queue">120</span>
	</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse html: %v", err)
	}

	status := parseDocument(doc)
	if status.Online == nil || !*status.Online {
		t.Error("expected online = true")
	}
	if status.Population == nil || *status.Population != 4521 {
		t.Errorf("population = %v, want 4521", status.Population)
	}
	if status.Queue == nil || *status.Queue != 120 {
		t.Errorf("queue = %v, want 120", status.Queue)
	}
}

func TestParseDocumentFallbackScan(t *testing.T) {
	html := `<html><body><p>There are 1.2K players online right now</p></body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse html: %v", err)
	}

	status := parseDocument(doc)
	if status.Population == nil || *status.Population != 1200 {
		t.Errorf("population = %v, want 1200 from fallback scan", status.Population)
	}
}

func TestParseDocumentEmpty(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body></body></html>`))
	if err != nil {
		t.Fatalf("failed to parse html: %v", err)
	}

	status := parseDocument(doc)
	if status.Population != nil || status.Online != nil || status.Queue != nil {
		t.Errorf("empty page should yield no readings: %+v", status)
	}
}

func boolPtr(b bool) *bool { return &b }
