package usecase

import (
	"errors"
	"strings"
	"testing"

	"github.com/AleksandarPetrovv/NinetyPlus/internal/domain/match"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/infrastructure/repository/memory"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/platform/logging"
)

func newTestCommentService(fetcher MatchFetcher) (*CommentService, *memory.CommentRepository, *EnrichmentService) {
	repo := memory.NewCommentRepository(func(int64) string { return "aleks" })
	enrichment := newTestEnrichment(fetcher, repo)
	return NewCommentService(repo, enrichment, logging.NewNop()), repo, enrichment
}

func TestCommentService_Create_AttachesSnapshot(t *testing.T) {
	t.Parallel()

	fetcher := &scriptedFetcher{payload: arsenalChelseaPayload()}
	service, repo, enrichment := newTestCommentService(fetcher)
	defer enrichment.Close()

	view, err := service.Create(t.Context(), 1, "427345", "what a goal")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if view.Comment.Username != "aleks" {
		t.Fatalf("expected username resolved, got %q", view.Comment.Username)
	}
	if view.Match.HomeTeam.Name != "Arsenal FC" {
		t.Fatalf("unexpected match details: %+v", view.Match)
	}

	stored, found, err := repo.GetByID(t.Context(), view.Comment.ID)
	if err != nil || !found {
		t.Fatalf("stored comment missing: found=%t err=%v", found, err)
	}
	if !stored.HasSnapshot() {
		t.Fatal("expected snapshot persisted on create")
	}
}

func TestCommentService_Create_ValidatesInput(t *testing.T) {
	t.Parallel()

	fetcher := &scriptedFetcher{payload: arsenalChelseaPayload()}
	service, _, enrichment := newTestCommentService(fetcher)
	defer enrichment.Close()

	cases := []struct {
		name    string
		matchID string
		content string
	}{
		{name: "empty match id", matchID: "", content: "hi"},
		{name: "blank content", matchID: "1", content: "   "},
		{name: "oversized content", matchID: "1", content: strings.Repeat("x", maxContentLen+1)},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := service.Create(t.Context(), 1, tc.matchID, tc.content)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCommentService_Delete_OwnerOnly(t *testing.T) {
	t.Parallel()

	fetcher := &scriptedFetcher{payload: arsenalChelseaPayload()}
	service, repo, enrichment := newTestCommentService(fetcher)
	defer enrichment.Close()

	view, err := service.Create(t.Context(), 1, "427345", "mine")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = service.Delete(t.Context(), 2, view.Comment.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	if _, found, _ := repo.GetByID(t.Context(), view.Comment.ID); !found {
		t.Fatal("failed delete must leave the comment in place")
	}

	if err := service.Delete(t.Context(), 1, view.Comment.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, found, _ := repo.GetByID(t.Context(), view.Comment.ID); found {
		t.Fatal("comment should be gone after owner delete")
	}
}

func TestCommentService_Delete_NotFound(t *testing.T) {
	t.Parallel()

	fetcher := &scriptedFetcher{payload: arsenalChelseaPayload()}
	service, _, enrichment := newTestCommentService(fetcher)
	defer enrichment.Close()

	err := service.Delete(t.Context(), 1, 404)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCommentService_ListAll_PaginationDefaultsAndClamps(t *testing.T) {
	t.Parallel()

	fetcher := &scriptedFetcher{payload: arsenalChelseaPayload()}
	service, _, enrichment := newTestCommentService(fetcher)
	defer enrichment.Close()

	for i := 0; i < 15; i++ {
		if _, err := service.Create(t.Context(), 1, "427345", "c"); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	page, err := service.ListAll(t.Context(), 0, 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if page.Page != 1 || page.PageSize != defaultPageSize {
		t.Fatalf("expected defaults page=1 size=%d, got page=%d size=%d", defaultPageSize, page.Page, page.PageSize)
	}
	if len(page.Comments) != defaultPageSize || page.Total != 15 {
		t.Fatalf("expected %d of 15 comments, got %d of %d", defaultPageSize, len(page.Comments), page.Total)
	}

	second, err := service.ListAll(t.Context(), 2, 10)
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(second.Comments) != 5 {
		t.Fatalf("expected 5 comments on page 2, got %d", len(second.Comments))
	}

	clamped, err := service.ListAll(t.Context(), 1, 500)
	if err != nil {
		t.Fatalf("list clamped: %v", err)
	}
	if clamped.PageSize != maxPageSize {
		t.Fatalf("expected page size clamped to %d, got %d", maxPageSize, clamped.PageSize)
	}
}

func TestCommentService_ListByMatch_EnrichesEachComment(t *testing.T) {
	t.Parallel()

	fetcher := &scriptedFetcher{payload: arsenalChelseaPayload()}
	service, repo, enrichment := newTestCommentService(fetcher)
	defer enrichment.Close()

	// Seeded straight into the repository, so no snapshot exists yet and
	// the listing has to resolve the details itself.
	if _, err := repo.Create(t.Context(), 1, "427345", "hello"); err != nil {
		t.Fatalf("seed comment: %v", err)
	}

	list, err := service.ListByMatch(t.Context(), "427345")
	if err != nil {
		t.Fatalf("list by match: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one comment, got %d", len(list))
	}
	if list[0].Match.HomeTeam.Name != "Arsenal FC" {
		t.Fatalf("expected enriched match details, got %+v", list[0].Match)
	}
	if got := fetcher.callCount(); got != 1 {
		t.Fatalf("expected one upstream fetch, got %d", got)
	}

	again, err := service.ListByMatch(t.Context(), "427345")
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if again[0].Match.HomeTeam.Name != "Arsenal FC" {
		t.Fatalf("expected details on the second listing, got %+v", again[0].Match)
	}
	if got := fetcher.callCount(); got != 1 {
		t.Fatalf("second listing must reuse the cached details, got %d fetches", got)
	}
}

func TestCommentService_ListByMatch_PlaceholderOnUpstreamFailure(t *testing.T) {
	t.Parallel()

	fetcher := &scriptedFetcher{err: errors.New("upstream down")}
	service, repo, enrichment := newTestCommentService(fetcher)
	defer enrichment.Close()

	if _, err := repo.Create(t.Context(), 1, "427345", "hello"); err != nil {
		t.Fatalf("seed comment: %v", err)
	}

	list, err := service.ListByMatch(t.Context(), "427345")
	if err != nil {
		t.Fatalf("list by match: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one comment, got %d", len(list))
	}
	if list[0].Match.HomeTeam.Name != match.UnknownTeamName || list[0].Match.Status != match.StatusUnknown {
		t.Fatalf("expected placeholder details, got %+v", list[0].Match)
	}
}
