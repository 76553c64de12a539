package store

import (
	"time"

	"github.com/hitoshi/contentadmin/internal/model"
)

// DefaultSummaryWindow はダッシュボードの既定の集計期間。
const DefaultSummaryWindow = 30 * 24 * time.Hour

// DateRange は集計期間。Fromがゼロ値の場合は全期間、Toがゼロ値の場合は上限なし。
// 境界は両端を含む。
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// LastDays はnowから遡ったd日分の期間を返す。
func LastDays(now time.Time, d time.Duration) DateRange {
	return DateRange{From: now.Add(-d), To: now}
}

// Contains はtが期間内かを返す。
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// KindCount は種別ごとの件数。
type KindCount struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

// Summary はダッシュボードに表示する集計値。
type Summary struct {
	Range       DateRange `json:"range"`
	Subscribers KindCount `json:"subscribers"`
	Articles    KindCount `json:"articles"`
	Events      KindCount `json:"events"`
	Banners     KindCount `json:"banners"`
}

// FilterSubscribers はsignup_dateが期間内の購読者を返す。
func FilterSubscribers(items []model.Subscriber, r DateRange) []model.Subscriber {
	out := make([]model.Subscriber, 0, len(items))
	for _, s := range items {
		if r.Contains(s.SignupDate) {
			out = append(out, s)
		}
	}
	return out
}

// Summary はキャッシュ中のスナップショットを期間で絞り込んで集計する。
// 購読者はsignup_date、それ以外はcreated_atで判定する。
func (s *Store) Summary(r DateRange) Summary {
	sum := Summary{Range: r}

	subs := FilterSubscribers(s.Subscribers().Items, r)
	sum.Subscribers = KindCount{Total: len(subs), Active: len(subs)}

	for _, a := range s.Articles().Items {
		if r.Contains(a.CreatedAt) {
			sum.Articles.add(a.IsActive)
		}
	}
	for _, e := range s.Events().Items {
		if r.Contains(e.CreatedAt) {
			sum.Events.add(e.IsActive)
		}
	}
	for _, b := range s.Banners().Items {
		if r.Contains(b.CreatedAt) {
			sum.Banners.add(b.IsActive)
		}
	}
	return sum
}

func (c *KindCount) add(active bool) {
	c.Total++
	if active {
		c.Active++
	}
}
