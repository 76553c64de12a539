package store

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/hitoshi/contentadmin/internal/model"
)

func ids[T interface{ EntityID() string }](items []T) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.EntityID()
	}
	return out
}

func TestSearchArticles(t *testing.T) {
	items := []model.Article{
		{ID: "1", Title: "Spring Festival"},
		{ID: "2", Title: "x", Category: "Spring"},
		{ID: "3", Title: "x", Layout: model.ArticleLayout{Layout: model.ClassicLayout{HighlightQuote: "in SPRING we"}}},
		{ID: "4", Title: "Winter"},
	}

	tests := []struct {
		name string
		q    string
		want []string
	}{
		{name: "空のクエリは全件", q: "", want: []string{"1", "2", "3", "4"}},
		{name: "大文字小文字を区別しない", q: "spring", want: []string{"1", "2", "3"}},
		{name: "前後の空白は無視", q: "  winter ", want: []string{"4"}},
		{name: "一致なし", q: "summer", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(SearchArticles(items, tt.q))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSearchEventSignups_MatchesNameAndEmail(t *testing.T) {
	name := "Hanako"
	items := []model.EventSignup{
		{ID: "1", UserEmail: "taro@example.com"},
		{ID: "2", UserEmail: "x@example.com", UserName: &name},
	}

	if got := ids(SearchEventSignups(items, "hana")); !cmp.Equal(got, []string{"2"}) {
		t.Errorf("name search = %v", got)
	}
	if got := ids(SearchEventSignups(items, "TARO")); !cmp.Equal(got, []string{"1"}) {
		t.Errorf("email search = %v", got)
	}
}

func TestSearchSubscribersAndBanners(t *testing.T) {
	subs := []model.Subscriber{
		{ID: "1", Email: "a@example.com", Tags: []string{"vip"}},
		{ID: "2", Email: "b@example.com"},
	}
	if got := ids(SearchSubscribers(subs, "VIP")); !cmp.Equal(got, []string{"1"}) {
		t.Errorf("tag search = %v", got)
	}

	banners := []model.Banner{{ID: "1", Title: "Hello"}, {ID: "2", Subtitle: "hello world"}}
	if got := ids(SearchBanners(banners, "hello")); !cmp.Equal(got, []string{"1", "2"}) {
		t.Errorf("banner search = %v", got)
	}

	events := []model.Event{{ID: "1", EventLocation: "Tokyo"}, {ID: "2", Title: "Osaka"}}
	if got := ids(SearchEvents(events, "tokyo")); !cmp.Equal(got, []string{"1"}) {
		t.Errorf("event search = %v", got)
	}
}

func TestSortSubscribers(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []model.Subscriber{
		{ID: "1", Email: "b@example.com", SignupDate: base.Add(2 * time.Hour)},
		{ID: "2", Email: "a@example.com", SignupDate: base},
		{ID: "3", Email: "c@example.com", SignupDate: base.Add(time.Hour)},
	}

	tests := []struct {
		by    SubscriberSort
		order SortOrder
		want  []string
	}{
		{SortBySignupDate, Desc, []string{"1", "3", "2"}},
		{SortBySignupDate, Asc, []string{"2", "3", "1"}},
		{SortByEmail, Asc, []string{"2", "1", "3"}},
		{SortByEmail, Desc, []string{"3", "1", "2"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.by)+"_"+string(tt.order), func(t *testing.T) {
			got := ids(SortSubscribers(items, tt.by, tt.order))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if items[0].ID != "1" {
		t.Error("SortSubscribers must not reorder its input")
	}
}

func TestParseSortParams(t *testing.T) {
	if ParseSubscriberSort("email") != SortByEmail {
		t.Error("email should parse")
	}
	if ParseSubscriberSort("bogus") != SortBySignupDate {
		t.Error("unknown sort should default to signup_date")
	}
	if ParseSortOrder("ASC") != Asc {
		t.Error("ASC should parse case-insensitively")
	}
	if ParseSortOrder("") != Desc {
		t.Error("empty order should default to desc")
	}
}
