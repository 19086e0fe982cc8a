package memory

import (
	"reflect"
	"testing"
	"time"

	"github.com/AleksandarPetrovv/NinetyPlus/internal/domain/match"
)

func arsenalDetails() match.Details {
	kickoff := time.Date(2026, 9, 1, 19, 45, 0, 0, time.UTC)
	return match.Details{
		ID:          "427345",
		HomeTeam:    match.Team{Name: "Arsenal FC", ShortName: "Arsenal", Crest: "https://crests.example/57.png"},
		AwayTeam:    match.Team{Name: "Chelsea FC", ShortName: "Chelsea", Crest: "https://crests.example/61.png"},
		Competition: match.Competition{ID: 2021, Name: "Premier League"},
		UTCDate:     &kickoff,
		Status:      "FINISHED",
		Score:       map[string]any{"fullTime": map[string]any{"home": 2, "away": 1}},
	}
}

func TestCommentRepository_UpdateMatchSnapshot_Idempotent(t *testing.T) {
	t.Parallel()

	repo := NewCommentRepository(func(int64) string { return "aleks" })
	created, err := repo.Create(t.Context(), 1, "427345", "what a goal")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	details := arsenalDetails()
	if err := repo.UpdateMatchSnapshot(t.Context(), created.ID, details); err != nil {
		t.Fatalf("first snapshot write: %v", err)
	}
	first, found, err := repo.GetByID(t.Context(), created.ID)
	if err != nil || !found {
		t.Fatalf("load after first write: found=%t err=%v", found, err)
	}
	if !first.HasSnapshot() {
		t.Fatal("expected snapshot after first write")
	}

	if err := repo.UpdateMatchSnapshot(t.Context(), created.ID, details); err != nil {
		t.Fatalf("second snapshot write: %v", err)
	}
	second, found, err := repo.GetByID(t.Context(), created.ID)
	if err != nil || !found {
		t.Fatalf("load after second write: found=%t err=%v", found, err)
	}

	if !reflect.DeepEqual(*first.Snapshot, *second.Snapshot) {
		t.Fatalf("repeated write changed the snapshot:\nfirst:  %+v\nsecond: %+v", *first.Snapshot, *second.Snapshot)
	}
	if !reflect.DeepEqual(*second.Snapshot, details) {
		t.Fatalf("stored snapshot drifted from the written details: %+v", *second.Snapshot)
	}
}

func TestCommentRepository_UpdateMatchSnapshot_MissingCommentIsNoop(t *testing.T) {
	t.Parallel()

	repo := NewCommentRepository(nil)
	if err := repo.UpdateMatchSnapshot(t.Context(), 99, arsenalDetails()); err != nil {
		t.Fatalf("snapshot write for a deleted comment must not fail: %v", err)
	}
}
