// Package realmstatus scrapes public realm status pages for population and
// availability readings. Pages vary between games, so parsing is selector
// based with text-scan fallbacks and every field is optional.
package realmstatus

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

type RealmStatus struct {
	Population *int      `json:"population,omitempty"`
	Online     *bool     `json:"online,omitempty"`
	Queue      *int      `json:"queue,omitempty"`
	FetchedAt  time.Time `json:"fetched_at"`
}

type Parser struct {
	httpClient *http.Client
	log        *zap.Logger
	maxRetries int
}

func NewParser(timeoutMS, maxRetries int, log *zap.Logger) *Parser {
	return &Parser{
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutMS) * time.Millisecond,
		},
		log:        log,
		maxRetries: maxRetries,
	}
}

func (p *Parser) FetchAndParse(ctx context.Context, url string) (*RealmStatus, error) {
	var doc *goquery.Document
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")

		resp, err := p.httpClient.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
			time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
			continue
		}

		doc, err = goquery.NewDocumentFromReader(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		lastErr = nil
		break
	}

	if lastErr != nil {
		return nil, lastErr
	}

	return parseDocument(doc), nil
}

func parseDocument(doc *goquery.Document) *RealmStatus {
	status := &RealmStatus{FetchedAt: time.Now()}

	doc.Find(".realm-status, .server-status, [data-realm-status]").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if status.Online == nil {
			if flag := parseOnlineFlag(text); flag != nil {
				status.Online = flag
			}
		}
	})

	doc.Find(".realm-population, .server-population, .population").Each(func(i int, s *goquery.Selection) {
		if status.Population != nil {
			return
		}
		if n := parseCount(strings.TrimSpace(s.Text())); n > 0 {
			status.Population = &n
		}
	})

	doc.Find(".realm-queue, .queue").Each(func(i int, s *goquery.Selection) {
		if status.Queue != nil {
			return
		}
		text := strings.TrimSpace(s.Text())
		if n := parseCount(text); n > 0 {
			status.Queue = &n
		}
	})

	// Fallback: scan labelled counters anywhere on the page.
	if status.Population == nil {
		doc.Find("*").EachWithBreak(func(i int, s *goquery.Selection) bool {
			text := strings.ToLower(strings.TrimSpace(s.Text()))
			if len(text) > 80 {
				return true
			}
			if strings.Contains(text, "players online") || strings.Contains(text, "population") {
				if n := parseCount(text); n > 0 {
					status.Population = &n
					return false
				}
			}
			return true
		})
	}

	return status
}

var countPattern = regexp.MustCompile(`(\d[\d ,.]*)\s*([kKmM])?`)

// parseCount extracts the first numeric token from a counter string,
// honoring K/M suffixes and comma/space grouping: "1.2K" -> 1200,
// "12,345 players" -> 12345.
func parseCount(s string) int {
	m := countPattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	num := strings.NewReplacer(",", "", " ", "").Replace(strings.TrimSpace(m[1]))
	suffix := strings.ToLower(m[2])

	mult := 1.0
	switch suffix {
	case "k":
		mult = 1_000
	case "m":
		mult = 1_000_000
	}

	v, err := strconv.ParseFloat(strings.TrimRight(num, "."), 64)
	if err != nil {
		return 0
	}
	return int(v * mult)
}

// parseOnlineFlag maps status words to an up/down reading; nil when the text
// says neither.
func parseOnlineFlag(s string) *bool {
	t := strings.ToLower(s)
	up := true
	down := false
	switch {
	case strings.Contains(t, "offline"), strings.Contains(t, "down"), strings.Contains(t, "maintenance"):
		return &down
	case strings.Contains(t, "online"), strings.Contains(t, "up"):
		return &up
	}
	return nil
}
