package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc"

	"github.com/AleksandarPetrovv/NinetyPlus/internal/domain/match"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/platform/cache"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/platform/logging"
)

const (
	defaultLiveTTL        = time.Minute
	defaultStandingsTTL   = 5 * time.Minute
	defaultTeamMatchesTTL = 5 * time.Minute
)

// MatchProxy fetches raw upstream payloads that are passed through to
// clients without reshaping.
type MatchProxy interface {
	LiveMatches(ctx context.Context) ([]byte, error)
	Standings(ctx context.Context, competitionID string) ([]byte, error)
	TeamUpcomingMatches(ctx context.Context, teamID string) ([]byte, error)
}

// StreamFinder locates an embeddable stream page for a fixture.
type StreamFinder interface {
	FindStreamURL(ctx context.Context, homeTeam, awayTeam string, kickoff time.Time) (string, error)
}

type MatchProxyConfig struct {
	LiveTTL        time.Duration
	StandingsTTL   time.Duration
	TeamMatchesTTL time.Duration
}

func (c MatchProxyConfig) normalized() MatchProxyConfig {
	if c.LiveTTL <= 0 {
		c.LiveTTL = defaultLiveTTL
	}
	if c.StandingsTTL <= 0 {
		c.StandingsTTL = defaultStandingsTTL
	}
	if c.TeamMatchesTTL <= 0 {
		c.TeamMatchesTTL = defaultTeamMatchesTTL
	}
	return c
}

// MatchService serves the read-only football endpoints: live scores,
// standings, a team's upcoming fixtures, single-match details and stream
// lookup. Upstream payloads are cached per endpoint so a burst of clients
// costs one upstream call.
type MatchService struct {
	proxy      MatchProxy
	enrichment *EnrichmentService
	streams    StreamFinder
	cache      *cache.Store
	cfg        MatchProxyConfig
	logger     *logging.Logger
}

func NewMatchService(
	proxy MatchProxy,
	enrichment *EnrichmentService,
	streams StreamFinder,
	store *cache.Store,
	cfg MatchProxyConfig,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		proxy:      proxy,
		enrichment: enrichment,
		streams:    streams,
		cache:      store,
		cfg:        cfg.normalized(),
		logger:     logger,
	}
}

// LiveMatches returns the raw upstream payload of matches in play today.
func (s *MatchService) LiveMatches(ctx context.Context) ([]byte, error) {
	return s.cachedProxy(ctx, "live-matches", s.cfg.LiveTTL, func(ctx context.Context) ([]byte, error) {
		return s.proxy.LiveMatches(ctx)
	})
}

// Standings returns the raw league table for a competition.
func (s *MatchService) Standings(ctx context.Context, competitionID string) ([]byte, error) {
	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return nil, errors.Wrap(ErrInvalidInput, "competition id is required")
	}
	return s.cachedProxy(ctx, "standings:"+competitionID, s.cfg.StandingsTTL, func(ctx context.Context) ([]byte, error) {
		return s.proxy.Standings(ctx, competitionID)
	})
}

// TeamUpcomingMatches returns the raw list of a team's scheduled fixtures.
func (s *MatchService) TeamUpcomingMatches(ctx context.Context, teamID string) ([]byte, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, errors.Wrap(ErrInvalidInput, "team id is required")
	}
	return s.cachedProxy(ctx, "team-matches:"+teamID, s.cfg.TeamMatchesTTL, func(ctx context.Context) ([]byte, error) {
		return s.proxy.TeamUpcomingMatches(ctx, teamID)
	})
}

// MatchDetails resolves normalized details for one match. The result is
// always usable; a dead upstream yields the placeholder.
func (s *MatchService) MatchDetails(ctx context.Context, matchID string) (match.Details, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Details{}, errors.Wrap(ErrInvalidInput, "match id is required")
	}
	return s.enrichment.ResolveMatch(ctx, matchID), nil
}

// StreamURL finds an embeddable stream for a match, keyed by its teams
// and kickoff time.
func (s *MatchService) StreamURL(ctx context.Context, matchID string) (string, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return "", errors.Wrap(ErrInvalidInput, "match id is required")
	}
	if s.streams == nil {
		return "", errors.Wrap(ErrNotFound, "stream lookup is not configured")
	}

	details := s.enrichment.ResolveMatch(ctx, matchID)
	if !details.HasData() || details.UTCDate == nil {
		return "", errors.Wrapf(ErrNotFound, "no stream for match %s", matchID)
	}

	url, err := s.streams.FindStreamURL(ctx, details.HomeTeam.Name, details.AwayTeam.Name, *details.UTCDate)
	if err != nil {
		s.logger.WarnContext(ctx, "stream lookup failed", "match_id", matchID, "error", err)
		return "", errors.Wrapf(ErrNotFound, "no stream for match %s", matchID)
	}
	return url, nil
}

// WarmStandings pre-loads standings for the configured competitions so
// first requests after boot hit the cache. Failures are logged and
// ignored.
func (s *MatchService) WarmStandings(ctx context.Context, competitionIDs []string) {
	var wg conc.WaitGroup
	for _, id := range competitionIDs {
		id := strings.TrimSpace(id)
		if id == "" {
			continue
		}
		wg.Go(func() {
			if _, err := s.Standings(ctx, id); err != nil {
				s.logger.WarnContext(ctx, "standings warmup failed", "competition_id", id, "error", err)
			}
		})
	}
	wg.Wait()
}

func (s *MatchService) cachedProxy(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if s.cache == nil {
		return load(ctx)
	}

	value, err := s.cache.GetOrLoad(ctx, key, ttl, func(ctx context.Context) (any, error) {
		payload, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return payload, nil
	})
	if err != nil {
		return nil, err
	}

	payload, ok := value.([]byte)
	if !ok {
		return nil, errors.Newf("unexpected cache entry type for %s", key)
	}
	return payload, nil
}
