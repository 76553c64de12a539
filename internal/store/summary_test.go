package store

import (
	"context"
	"testing"
	"time"

	"github.com/hitoshi/contentadmin/internal/model"
)

func TestDateRange_Contains(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name string
		r    DateRange
		t    time.Time
		want bool
	}{
		{"範囲内", DateRange{From: from, To: to}, from.Add(24 * time.Hour), true},
		{"開始境界を含む", DateRange{From: from, To: to}, from, true},
		{"終了境界を含む", DateRange{From: from, To: to}, to, true},
		{"開始前", DateRange{From: from, To: to}, from.Add(-time.Second), false},
		{"終了後", DateRange{From: from, To: to}, to.Add(time.Second), false},
		{"上限なし", DateRange{From: from}, to.AddDate(1, 0, 0), true},
		{"全期間", DateRange{}, time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Contains(tt.t); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestSummary_CountsWithinRange(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	old := now.AddDate(0, -3, 0)
	recent := now.AddDate(0, 0, -3)

	repos := Repositories{
		Subscribers: &mockSubscriberRepo{listFn: func(ctx context.Context) ([]model.Subscriber, error) {
			return []model.Subscriber{
				{ID: "s1", SignupDate: recent, CreatedAt: old},
				{ID: "s2", SignupDate: old, CreatedAt: recent},
			}, nil
		}},
		Articles: &mockArticleRepo{listFn: func(ctx context.Context) ([]model.Article, error) {
			return []model.Article{
				{ID: "a1", IsActive: true, CreatedAt: recent},
				{ID: "a2", IsActive: false, CreatedAt: recent},
				{ID: "a3", IsActive: true, CreatedAt: old},
			}, nil
		}},
		Events: &mockEventRepo{listFn: func(ctx context.Context) ([]model.Event, error) {
			return []model.Event{{ID: "e1", IsActive: true, CreatedAt: old}}, nil
		}},
		Banners: newMemoryBannerRepo(),
	}
	s := New(repos, nil, nil, nil)
	if err := s.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}

	sum := s.Summary(LastDays(now, DefaultSummaryWindow))

	if sum.Subscribers.Total != 1 {
		t.Errorf("subscribers = %d, want 1 (filtered by signup_date)", sum.Subscribers.Total)
	}
	if sum.Articles.Total != 2 || sum.Articles.Active != 1 {
		t.Errorf("articles = %+v, want {2 1}", sum.Articles)
	}
	if sum.Events.Total != 0 {
		t.Errorf("events = %+v, want 0", sum.Events)
	}
}
