package streamfinder

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AleksandarPetrovv/NinetyPlus/internal/platform/logging"
)

const schedulePage = `<html><body>
<table>
  <tr><td>18:00</td><td>Liverpool - Everton</td><td><a href="/contact">contact</a></td></tr>
  <tr><td>19:45</td><td>Arsenal - Chelsea</td><td><a href="/s/arsenal-chelsea-123">watch</a></td></tr>
  <tr><td>19:45</td><td>Barcelona - Real Madrid</td><td><a href="/s/clasico-456">watch</a></td></tr>
</table>
</body></html>`

func newTestFinder(t *testing.T, page string) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(server.Close)
	return NewClient(ClientConfig{ScheduleURL: server.URL + "/schedule", Logger: logging.NewNop()})
}

func TestFindStreamURL(t *testing.T) {
	t.Parallel()

	finder := newTestFinder(t, schedulePage)
	kickoff := time.Date(2026, 9, 1, 19, 45, 0, 0, time.UTC)

	url, err := finder.FindStreamURL(t.Context(), "Arsenal FC", "Chelsea FC", kickoff)
	if err != nil {
		t.Fatalf("find stream: %v", err)
	}
	if !strings.HasSuffix(url, "/s/arsenal-chelsea-123") {
		t.Fatalf("unexpected stream url %q", url)
	}
	if !strings.HasPrefix(url, "http://") {
		t.Fatalf("relative href must be resolved against the schedule page, got %q", url)
	}
}

func TestFindStreamURL_MatchesDespiteNameVariants(t *testing.T) {
	t.Parallel()

	finder := newTestFinder(t, schedulePage)
	kickoff := time.Date(2026, 9, 1, 19, 45, 0, 0, time.UTC)

	// The provider says "FC Barcelona", the schedule page says "Barcelona".
	url, err := finder.FindStreamURL(t.Context(), "Barcelona", "Real Madrid CF", kickoff)
	if err != nil {
		t.Fatalf("find stream: %v", err)
	}
	if !strings.HasSuffix(url, "/s/clasico-456") {
		t.Fatalf("unexpected stream url %q", url)
	}
}

func TestFindStreamURL_NoMatchingRow(t *testing.T) {
	t.Parallel()

	finder := newTestFinder(t, schedulePage)

	// Right teams, wrong kickoff time.
	kickoff := time.Date(2026, 9, 1, 21, 0, 0, 0, time.UTC)
	if _, err := finder.FindStreamURL(t.Context(), "Arsenal FC", "Chelsea FC", kickoff); err == nil {
		t.Fatal("expected error for unmatched kickoff time")
	}

	// Right time, teams not on the page.
	kickoff = time.Date(2026, 9, 1, 19, 45, 0, 0, time.UTC)
	if _, err := finder.FindStreamURL(t.Context(), "Levski Sofia", "CSKA Sofia", kickoff); err == nil {
		t.Fatal("expected error for unknown teams")
	}
}

func TestFindStreamURL_SkipsRowsWithoutStreamLink(t *testing.T) {
	t.Parallel()

	finder := newTestFinder(t, schedulePage)

	kickoff := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	if _, err := finder.FindStreamURL(t.Context(), "Liverpool FC", "Everton FC", kickoff); err == nil {
		t.Fatal("expected error when the row carries no stream link")
	}
}

func TestFindStreamURL_Unconfigured(t *testing.T) {
	t.Parallel()

	finder := NewClient(ClientConfig{Logger: logging.NewNop()})
	if _, err := finder.FindStreamURL(t.Context(), "A", "B", time.Now()); err == nil {
		t.Fatal("expected error without a schedule url")
	}
}

func TestFindStreamURL_UpstreamError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	finder := NewClient(ClientConfig{ScheduleURL: server.URL, Logger: logging.NewNop()})
	if _, err := finder.FindStreamURL(t.Context(), "Arsenal FC", "Chelsea FC", time.Now()); err == nil {
		t.Fatal("expected error for bad gateway")
	}
}
