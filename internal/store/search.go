package store

import (
	"cmp"
	"slices"
	"strings"

	"github.com/hitoshi/contentadmin/internal/model"
)

// matchAny はqがfieldsのいずれかに大文字小文字を区別せず含まれるかを返す。
func matchAny(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func search[T any](items []T, q string, fields func(T) []string) []T {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if matchAny(q, fields(item)...) {
			out = append(out, item)
		}
	}
	return out
}

// SearchSubscribers はメールアドレスとタグで購読者を絞り込む。
func SearchSubscribers(items []model.Subscriber, q string) []model.Subscriber {
	return search(items, q, func(s model.Subscriber) []string {
		return append([]string{s.Email}, s.Tags...)
	})
}

// SearchArticles はタイトル、カテゴリ、概要、クレジット、引用で記事を絞り込む。
func SearchArticles(items []model.Article, q string) []model.Article {
	return search(items, q, func(a model.Article) []string {
		fields := []string{a.Title, a.Category, a.ShortOverview, a.Credits, a.EventOverview}
		if c, ok := a.Layout.Variant().(model.ClassicLayout); ok {
			fields = append(fields, c.HighlightQuote)
		}
		return fields
	})
}

// SearchEvents はタイトル、カテゴリ、開催場所でイベントを絞り込む。
func SearchEvents(items []model.Event, q string) []model.Event {
	return search(items, q, func(e model.Event) []string {
		return []string{e.Title, e.Category, e.EventLocation}
	})
}

// SearchEventSignups はメールアドレスと氏名で参加申込を絞り込む。
func SearchEventSignups(items []model.EventSignup, q string) []model.EventSignup {
	return search(items, q, func(s model.EventSignup) []string {
		fields := []string{s.UserEmail}
		if s.UserName != nil {
			fields = append(fields, *s.UserName)
		}
		return fields
	})
}

// SearchBanners はタイトルとサブタイトルでバナーを絞り込む。
func SearchBanners(items []model.Banner, q string) []model.Banner {
	return search(items, q, func(b model.Banner) []string {
		return []string{b.Title, b.Subtitle}
	})
}

// SubscriberSort は購読者一覧の並び替えキー。
type SubscriberSort string

const (
	SortByEmail      SubscriberSort = "email"
	SortBySignupDate SubscriberSort = "signup_date"
)

// SortOrder は並び順。
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// ParseSubscriberSort は文字列から並び替えキーを取得する。未知の値はsignup_dateになる。
func ParseSubscriberSort(s string) SubscriberSort {
	if SubscriberSort(s) == SortByEmail {
		return SortByEmail
	}
	return SortBySignupDate
}

// ParseSortOrder は文字列から並び順を取得する。未知の値はdescになる。
func ParseSortOrder(s string) SortOrder {
	if SortOrder(strings.ToLower(s)) == Asc {
		return Asc
	}
	return Desc
}

// SortSubscribers は購読者を並び替えた新しいスライスを返す。同値の要素は元の順序を保つ。
func SortSubscribers(items []model.Subscriber, by SubscriberSort, order SortOrder) []model.Subscriber {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b model.Subscriber) int {
		var c int
		if by == SortByEmail {
			c = cmp.Compare(a.Email, b.Email)
		} else {
			c = a.SignupDate.Compare(b.SignupDate)
		}
		if order == Desc {
			return -c
		}
		return c
	})
	return out
}
