package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/contentadmin/internal/model"
)

func TestExport_Subscribers_ReturnsCSVAttachment(t *testing.T) {
	repos := newTestRepos()
	repos.subscribers.listFn = func(ctx context.Context) ([]model.Subscriber, error) {
		return []model.Subscriber{
			{ID: "1", Email: "old@example.com", SignupDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
			{ID: "2", Email: "new@example.com", SignupDate: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), Tags: []string{"vip", "beta"}},
			{ID: "3", Email: "x@other.org", SignupDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		}, nil
	}
	s := newTestStore(repos, nil)
	s.FetchSubscribers(context.Background())
	h := NewContentHandler(s)
	h.now = func() time.Time { return fixedNow }

	rec := serve(t, newContentRouter(h), httptest.NewRequest(http.MethodGet, "/api/subscribers/export?q=example.com", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	wantDisp := `attachment; filename="newsletter-subscribers-2024-03-15.csv"`
	if got := rec.Header().Get("Content-Disposition"); got != wantDisp {
		t.Errorf("Content-Disposition = %q, want %q", got, wantDisp)
	}

	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows:\n%s", len(lines), rec.Body.String())
	}
	if lines[0] != "Email,Signup Date,Tags" {
		t.Errorf("header = %q", lines[0])
	}
	// signup_date降順
	if !strings.Contains(lines[1], "new@example.com") || !strings.Contains(lines[2], "old@example.com") {
		t.Errorf("rows not in signup_date desc order:\n%s", rec.Body.String())
	}
}

func TestExport_EventSignups_FetchesRequestedEvent(t *testing.T) {
	repos := newTestRepos()
	var fetched string
	repos.signups.listByEventFn = func(ctx context.Context, id string) ([]model.EventSignup, error) {
		fetched = id
		return []model.EventSignup{{ID: "s1", EventID: id, UserEmail: "alice@example.com"}}, nil
	}
	h := NewContentHandler(newTestStore(repos, nil))
	h.now = func() time.Time { return fixedNow }

	rec := serve(t, newContentRouter(h), httptest.NewRequest(http.MethodGet, "/api/events/"+eventID+"/signups/export", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if fetched != eventID {
		t.Errorf("fetched = %q, want %q", fetched, eventID)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "community-signups-2024-03-15.csv") {
		t.Errorf("Content-Disposition = %q", got)
	}
	if !strings.Contains(rec.Body.String(), "alice@example.com") {
		t.Errorf("body missing signup row:\n%s", rec.Body.String())
	}
}

func TestExport_EmptyCache_EmptyBody(t *testing.T) {
	h := NewContentHandler(newTestStore(newTestRepos(), nil))

	rec := serve(t, newContentRouter(h), httptest.NewRequest(http.MethodGet, "/api/subscribers/export", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got:\n%s", rec.Body.String())
	}
}
