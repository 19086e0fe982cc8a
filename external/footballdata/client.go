package footballdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/AleksandarPetrovv/NinetyPlus/internal/platform/logging"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/platform/resilience"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/usecase"
)

const (
	defaultBaseURL     = "https://api.football-data.org/v4"
	defaultTimeout     = 10 * time.Second
	maxResponseBytes   = 4 << 20
	authTokenHeader    = "X-Auth-Token"
	upcomingWindowDays = 30
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	AuthToken      string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the football-data.org v4 API. Enrichment fetches
// (FetchMatch) are a single attempt with no breaker in front: the caller
// degrades to a placeholder on any failure, so protecting the path would
// only add latency. The pass-through endpoints that fan out to every
// connected client do sit behind the circuit breaker.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.AuthToken),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchMatch loads a single match. One request, no retries.
func (c *Client) FetchMatch(ctx context.Context, matchID string) (usecase.ExternalMatch, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return usecase.ExternalMatch{}, fmt.Errorf("match id is required")
	}

	raw, err := c.executeRequest(ctx, c.baseURL+"/matches/"+url.PathEscape(matchID))
	if err != nil {
		return usecase.ExternalMatch{}, fmt.Errorf("fetch match %s: %w", matchID, err)
	}

	var payload usecase.ExternalMatch
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return usecase.ExternalMatch{}, fmt.Errorf("decode match %s: %w", matchID, err)
	}

	return payload, nil
}

// LiveMatches returns today's matches as the provider sent them.
func (c *Client) LiveMatches(ctx context.Context) ([]byte, error) {
	today := time.Now().UTC().Format("2006-01-02")
	query := url.Values{}
	query.Set("dateFrom", today)
	query.Set("dateTo", today)

	raw, err := c.guardedRequest(ctx, c.baseURL+"/matches?"+query.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch live matches: %w", err)
	}
	return raw, nil
}

// Standings returns the raw league table for a competition.
func (c *Client) Standings(ctx context.Context, competitionID string) ([]byte, error) {
	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return nil, fmt.Errorf("competition id is required")
	}

	raw, err := c.guardedRequest(ctx, c.baseURL+"/competitions/"+url.PathEscape(competitionID)+"/standings")
	if err != nil {
		return nil, fmt.Errorf("fetch standings competition_id=%s: %w", competitionID, err)
	}
	return raw, nil
}

// TeamUpcomingMatches returns a team's fixtures scheduled within the next
// thirty days.
func (c *Client) TeamUpcomingMatches(ctx context.Context, teamID string) ([]byte, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("team id is required")
	}

	now := time.Now().UTC()
	query := url.Values{}
	query.Set("dateFrom", now.Format("2006-01-02"))
	query.Set("dateTo", now.AddDate(0, 0, upcomingWindowDays).Format("2006-01-02"))
	query.Set("status", "SCHEDULED,TIMED")

	raw, err := c.guardedRequest(ctx, c.baseURL+"/teams/"+url.PathEscape(teamID)+"/matches?"+query.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch team matches team_id=%s: %w", teamID, err)
	}
	return raw, nil
}

// guardedRequest is executeRequest behind the circuit breaker.
func (c *Client) guardedRequest(ctx context.Context, fullURL string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "football-data circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: football data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	raw, err := c.executeRequest(ctx, fullURL)
	if c.circuitEnabled {
		if err != nil {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		// Proxy endpoints have no placeholder tier, so upstream failures
		// surface as dependency unavailability.
		return nil, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set(authTokenHeader, c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %s", c.sanitize(err.Error()))
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WarnContext(ctx, "football-data request failed",
			"url", fullURL,
			"status", resp.StatusCode,
		)
		return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}

	return raw, nil
}

func (c *Client) sanitize(value string) string {
	if c.token == "" {
		return value
	}
	return strings.ReplaceAll(value, c.token, "REDACTED")
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) <= limit {
		return body
	}
	return body[:limit] + "..."
}
