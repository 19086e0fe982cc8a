package usecase

import (
	"context"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/AleksandarPetrovv/NinetyPlus/internal/domain/comment"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/domain/match"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/platform/cache"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/platform/logging"
)

const (
	defaultMatchCacheTTL    = time.Hour
	defaultWriteBackWorkers = 4
	writeBackTimeout        = 10 * time.Second
)

// CommentSnapshotStore is the slice of the comment repository the
// orchestrator needs for write-back.
type CommentSnapshotStore interface {
	UpdateMatchSnapshot(ctx context.Context, commentID int64, details match.Details) error
}

type EnrichmentConfig struct {
	CacheTTL         time.Duration
	WriteBackWorkers int
}

// EnrichmentService resolves match details for comments and bare match ids
// through the tiered read path: persisted snapshot, ephemeral cache,
// upstream fetch. Every resolve is total; when all tiers fail the caller
// gets the fixed placeholder, never an error.
//
// Two modes exist deliberately. The per-comment mode (used when a comment
// is created) skips the cache read and persists the snapshot before
// returning. The listing mode consults the cache and persists
// asynchronously so a page of comments is never blocked on durability.
// Persisted snapshots are trusted indefinitely: once a comment is enriched
// its snapshot is frozen and upstream is never asked again.
type EnrichmentService struct {
	fetcher   MatchFetcher
	snapshots CommentSnapshotStore
	cache     *cache.Store
	cacheTTL  time.Duration
	pool      *ants.Pool
	logger    *logging.Logger
}

func NewEnrichmentService(
	fetcher MatchFetcher,
	snapshots CommentSnapshotStore,
	store *cache.Store,
	cfg EnrichmentConfig,
	logger *logging.Logger,
) *EnrichmentService {
	if logger == nil {
		logger = logging.Default()
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultMatchCacheTTL
	}
	workers := cfg.WriteBackWorkers
	if workers <= 0 {
		workers = defaultWriteBackWorkers
	}

	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		logger.Warn("create write-back pool failed, snapshot writes run inline", "error", err)
		pool = nil
	}

	return &EnrichmentService{
		fetcher:   fetcher,
		snapshots: snapshots,
		cache:     store,
		cacheTTL:  cacheTTL,
		pool:      pool,
		logger:    logger,
	}
}

// Close releases the write-back worker pool. Tasks already submitted keep
// running to completion.
func (s *EnrichmentService) Close() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// ResolveForComment resolves match details for a freshly created comment
// and durably attaches the snapshot before returning.
func (s *EnrichmentService) ResolveForComment(ctx context.Context, c comment.Comment) match.Details {
	if c.HasSnapshot() {
		return *c.Snapshot
	}

	details, ok := s.fetchAndNormalize(ctx, c.MatchID)
	if !ok {
		return match.Placeholder(c.MatchID)
	}

	s.writeCache(ctx, c.MatchID, details)
	if err := s.snapshots.UpdateMatchSnapshot(ctx, c.ID, details); err != nil {
		s.logger.WarnContext(ctx, "persist match snapshot failed",
			"comment_id", c.ID,
			"match_id", c.MatchID,
			"error", err,
		)
	}

	return details
}

// ResolveForListing resolves match details for a comment inside a listing.
// Snapshot persistence happens off the request path.
func (s *EnrichmentService) ResolveForListing(ctx context.Context, c comment.Comment) match.Details {
	if c.HasSnapshot() {
		return *c.Snapshot
	}

	if cached, ok := s.readCache(ctx, c.MatchID); ok {
		s.persistAsync(ctx, c.ID, cached)
		return cached
	}

	details, ok := s.fetchAndNormalize(ctx, c.MatchID)
	if !ok {
		return match.Placeholder(c.MatchID)
	}

	s.writeCache(ctx, c.MatchID, details)
	s.persistAsync(ctx, c.ID, details)

	return details
}

// ResolveMatch resolves details for a bare match id with no comment to
// persist onto.
func (s *EnrichmentService) ResolveMatch(ctx context.Context, matchID string) match.Details {
	if cached, ok := s.readCache(ctx, matchID); ok {
		return cached
	}

	details, ok := s.fetchAndNormalize(ctx, matchID)
	if !ok {
		return match.Placeholder(matchID)
	}

	s.writeCache(ctx, matchID, details)

	return details
}

func (s *EnrichmentService) fetchAndNormalize(ctx context.Context, matchID string) (match.Details, bool) {
	raw, err := s.fetcher.FetchMatch(ctx, matchID)
	if err != nil {
		s.logger.WarnContext(ctx, "upstream match fetch failed, serving placeholder",
			"match_id", matchID,
			"error", err,
		)
		return match.Details{}, false
	}

	return NormalizeMatchDetails(matchID, raw), true
}

func (s *EnrichmentService) readCache(ctx context.Context, matchID string) (match.Details, bool) {
	if s.cache == nil {
		return match.Details{}, false
	}
	value, ok := s.cache.Get(ctx, matchCacheKey(matchID))
	if !ok {
		return match.Details{}, false
	}
	details, ok := value.(match.Details)
	return details, ok
}

func (s *EnrichmentService) writeCache(ctx context.Context, matchID string, details match.Details) {
	if s.cache == nil {
		return
	}
	s.cache.SetWithTTL(ctx, matchCacheKey(matchID), details, s.cacheTTL)
}

// persistAsync writes the snapshot back on the worker pool. The write is
// best-effort: a full pool or a failed update only costs a future upstream
// fetch, it never fails the listing.
func (s *EnrichmentService) persistAsync(ctx context.Context, commentID int64, details match.Details) {
	if s.snapshots == nil || commentID <= 0 {
		return
	}

	persist := func() {
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeBackTimeout)
		defer cancel()

		if err := s.snapshots.UpdateMatchSnapshot(writeCtx, commentID, details); err != nil {
			s.logger.Warn("async snapshot write-back failed",
				"comment_id", commentID,
				"match_id", details.ID,
				"error", err,
			)
		}
	}

	if s.pool == nil {
		persist()
		return
	}
	if err := s.pool.Submit(persist); err != nil {
		s.logger.Warn("submit snapshot write-back failed, running inline",
			"comment_id", commentID,
			"error", err,
		)
		persist()
	}
}

func matchCacheKey(matchID string) string {
	return "match-details:" + matchID
}
