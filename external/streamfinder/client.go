package streamfinder

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/AleksandarPetrovv/NinetyPlus/internal/platform/logging"
)

const (
	defaultTimeout   = 15 * time.Second
	maxResponseBytes = 8 << 20
)

type ClientConfig struct {
	HTTPClient  *http.Client
	ScheduleURL string
	Logger      *logging.Logger
}

// Client scrapes a third-party schedule page for embeddable stream links.
// The page lists fixtures in table rows as "HH:MM  Home Team - Away Team"
// with a link to the stream page. Matching is fuzzy on purpose: the site
// spells team names differently from the football data provider, so rows
// are matched on kickoff time plus the leading letters of both names.
type Client struct {
	httpClient  *http.Client
	scheduleURL string
	logger      *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	return &Client{
		httpClient:  httpClient,
		scheduleURL: strings.TrimSpace(cfg.ScheduleURL),
		logger:      logger,
	}
}

// FindStreamURL returns an absolute stream-page URL for the fixture, or an
// error when no row on the schedule page matches.
func (c *Client) FindStreamURL(ctx context.Context, homeTeam, awayTeam string, kickoff time.Time) (string, error) {
	if c.scheduleURL == "" {
		return "", fmt.Errorf("schedule url is not configured")
	}

	doc, err := c.fetchSchedule(ctx)
	if err != nil {
		return "", err
	}

	wantTime := kickoff.UTC().Format("15:04")
	homeKey := matchKey(homeTeam)
	awayKey := matchKey(awayTeam)
	if homeKey == "" || awayKey == "" {
		return "", fmt.Errorf("team names are required")
	}

	var found string
	doc.Find("table tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		text := normalizeSpace(row.Text())
		if text == "" || !strings.Contains(text, wantTime) {
			return true
		}
		if !rowMatchesTeams(text, homeKey, awayKey) {
			return true
		}

		href, ok := streamHref(row)
		if !ok {
			return true
		}
		found = c.absoluteURL(href)
		return false
	})

	if found == "" {
		return "", fmt.Errorf("no schedule row for %s vs %s at %s", homeTeam, awayTeam, wantTime)
	}
	return found, nil
}

func (c *Client) fetchSchedule(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.scheduleURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ninetyplus/1.0)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("schedule page status=%d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("parse schedule page: %w", err)
	}
	return doc, nil
}

func (c *Client) absoluteURL(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if parsed.IsAbs() {
		return href
	}
	base, err := url.Parse(c.scheduleURL)
	if err != nil {
		return href
	}
	return base.ResolveReference(parsed).String()
}

// streamHref picks the row's first link that points at a stream page.
// Those paths all start with "/s" on the site.
func streamHref(row *goquery.Selection) (string, bool) {
	var href string
	row.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		candidate, _ := link.Attr("href")
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			return true
		}
		if strings.HasPrefix(candidate, "/s") || strings.Contains(candidate, "/s/") {
			href = candidate
			return false
		}
		return true
	})
	return href, href != ""
}

// rowMatchesTeams checks that both team keys appear in the row text in
// order, with the home side before the away side.
func rowMatchesTeams(text, homeKey, awayKey string) bool {
	normalized := strings.ToLower(text)
	homeIdx := strings.Index(normalized, homeKey)
	if homeIdx < 0 {
		return false
	}
	awayIdx := strings.LastIndex(normalized, awayKey)
	return awayIdx > homeIdx
}

// matchKey reduces a name to its first significant letters, lowercased,
// so "Man United" still matches "Manchester United FC".
func matchKey(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}

	fields := strings.Fields(value)
	if len(fields) == 0 {
		return ""
	}

	first := fields[0]
	if len(first) > 4 {
		first = first[:4]
	}
	return first
}

func normalizeSpace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
