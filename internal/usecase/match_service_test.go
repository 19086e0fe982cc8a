package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/AleksandarPetrovv/NinetyPlus/internal/domain/match"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/platform/cache"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/platform/logging"
)

type countingProxy struct {
	mu        sync.Mutex
	liveCalls int
	standings map[string]int
	err       error
}

func newCountingProxy() *countingProxy {
	return &countingProxy{standings: make(map[string]int)}
}

func (p *countingProxy) LiveMatches(context.Context) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.liveCalls++
	if p.err != nil {
		return nil, p.err
	}
	return []byte(`{"matches":[]}`), nil
}

func (p *countingProxy) Standings(_ context.Context, competitionID string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.standings[competitionID]++
	if p.err != nil {
		return nil, p.err
	}
	return []byte(`{"standings":[]}`), nil
}

func (p *countingProxy) TeamUpcomingMatches(context.Context, string) ([]byte, error) {
	return []byte(`{"matches":[]}`), nil
}

type fixedStreamFinder struct {
	url string
	err error
}

func (f fixedStreamFinder) FindStreamURL(context.Context, string, string, time.Time) (string, error) {
	return f.url, f.err
}

func newTestMatchService(proxy MatchProxy, fetcher MatchFetcher, streams StreamFinder) (*MatchService, *EnrichmentService) {
	enrichment := newTestEnrichment(fetcher, newRecordingSnapshotStore())
	service := NewMatchService(proxy, enrichment, streams, cache.NewStore(time.Minute), MatchProxyConfig{}, logging.NewNop())
	return service, enrichment
}

func TestMatchService_LiveMatches_Cached(t *testing.T) {
	t.Parallel()

	proxy := newCountingProxy()
	service, enrichment := newTestMatchService(proxy, &scriptedFetcher{}, nil)
	defer enrichment.Close()

	for i := 0; i < 3; i++ {
		payload, err := service.LiveMatches(t.Context())
		if err != nil {
			t.Fatalf("live matches: %v", err)
		}
		if string(payload) != `{"matches":[]}` {
			t.Fatalf("unexpected payload: %s", payload)
		}
	}

	if proxy.liveCalls != 1 {
		t.Fatalf("expected one upstream call, got %d", proxy.liveCalls)
	}
}

func TestMatchService_Standings_CachedPerCompetition(t *testing.T) {
	t.Parallel()

	proxy := newCountingProxy()
	service, enrichment := newTestMatchService(proxy, &scriptedFetcher{}, nil)
	defer enrichment.Close()

	for _, id := range []string{"2021", "2021", "2014"} {
		if _, err := service.Standings(t.Context(), id); err != nil {
			t.Fatalf("standings %s: %v", id, err)
		}
	}

	if proxy.standings["2021"] != 1 || proxy.standings["2014"] != 1 {
		t.Fatalf("expected one call per competition, got %+v", proxy.standings)
	}

	if _, err := service.Standings(t.Context(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank id, got %v", err)
	}
}

func TestMatchService_Standings_UpstreamErrorNotCached(t *testing.T) {
	t.Parallel()

	proxy := newCountingProxy()
	proxy.err = errors.New("503")
	service, enrichment := newTestMatchService(proxy, &scriptedFetcher{}, nil)
	defer enrichment.Close()

	if _, err := service.Standings(t.Context(), "2021"); err == nil {
		t.Fatal("expected error from upstream")
	}

	proxy.mu.Lock()
	proxy.err = nil
	proxy.mu.Unlock()

	if _, err := service.Standings(t.Context(), "2021"); err != nil {
		t.Fatalf("recovered upstream should serve: %v", err)
	}
	if proxy.standings["2021"] != 2 {
		t.Fatalf("failed responses must not be cached, calls=%d", proxy.standings["2021"])
	}
}

func TestMatchService_MatchDetails_TotalEvenWhenUpstreamDies(t *testing.T) {
	t.Parallel()

	proxy := newCountingProxy()
	service, enrichment := newTestMatchService(proxy, &scriptedFetcher{err: errors.New("down")}, nil)
	defer enrichment.Close()

	details, err := service.MatchDetails(t.Context(), "17")
	if err != nil {
		t.Fatalf("match details must not fail: %v", err)
	}
	if details.HomeTeam.Name != match.UnknownTeamName {
		t.Fatalf("expected placeholder, got %+v", details)
	}
}

func TestMatchService_StreamURL(t *testing.T) {
	t.Parallel()

	proxy := newCountingProxy()
	fetcher := &scriptedFetcher{payload: arsenalChelseaPayload()}
	service, enrichment := newTestMatchService(proxy, fetcher, fixedStreamFinder{url: "https://streams.example/s/arsenal-chelsea"})
	defer enrichment.Close()

	url, err := service.StreamURL(t.Context(), "427345")
	if err != nil {
		t.Fatalf("stream url: %v", err)
	}
	if url != "https://streams.example/s/arsenal-chelsea" {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestMatchService_StreamURL_NotFoundWhenNoData(t *testing.T) {
	t.Parallel()

	proxy := newCountingProxy()
	service, enrichment := newTestMatchService(proxy, &scriptedFetcher{err: errors.New("down")}, fixedStreamFinder{url: "x"})
	defer enrichment.Close()

	if _, err := service.StreamURL(t.Context(), "17"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for placeholder match, got %v", err)
	}

	unconfigured, enrichment2 := newTestMatchService(proxy, &scriptedFetcher{payload: arsenalChelseaPayload()}, nil)
	defer enrichment2.Close()
	if _, err := unconfigured.StreamURL(t.Context(), "427345"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound when finder unconfigured, got %v", err)
	}
}

func TestMatchService_WarmStandings(t *testing.T) {
	t.Parallel()

	proxy := newCountingProxy()
	service, enrichment := newTestMatchService(proxy, &scriptedFetcher{}, nil)
	defer enrichment.Close()

	service.WarmStandings(t.Context(), []string{"2021", "2014", " ", ""})

	if proxy.standings["2021"] != 1 || proxy.standings["2014"] != 1 {
		t.Fatalf("warmup should load each competition once, got %+v", proxy.standings)
	}

	// A follow-up request is served from the warmed cache.
	if _, err := service.Standings(t.Context(), "2021"); err != nil {
		t.Fatalf("standings after warmup: %v", err)
	}
	if proxy.standings["2021"] != 1 {
		t.Fatalf("warmed standings should not refetch, calls=%d", proxy.standings["2021"])
	}
}
