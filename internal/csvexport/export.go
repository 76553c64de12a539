package csvexport

import (
	"fmt"

	"github.com/hitoshi/contentadmin/internal/model"
	"github.com/hitoshi/contentadmin/internal/store"
)

// Source はCSV出力の元になるスナップショットを提供する。*store.Storeが実装する。
type Source interface {
	Subscribers() store.Snapshot[model.Subscriber]
	Articles() store.Snapshot[model.Article]
	Events() store.Snapshot[model.Event]
	EventSignups() store.SignupSnapshot
	Banners() store.Snapshot[model.Banner]
}

var _ Source = (*store.Store)(nil)

// Export はストアのキャッシュ中の一覧を、qで絞り込んだうえでCSVに変換する。
// 購読者は一覧画面の既定の並び（signup_date降順）で出力する。
func Export(s Source, kind model.Kind, q string) (string, error) {
	switch kind {
	case model.KindSubscribers:
		items := store.SortSubscribers(store.SearchSubscribers(s.Subscribers().Items, q), store.SortBySignupDate, store.Desc)
		return Encode(SubscriberRows(items), SubscriberColumns), nil
	case model.KindArticles:
		return Encode(ArticleRows(store.SearchArticles(s.Articles().Items, q)), ArticleColumns), nil
	case model.KindEvents:
		return Encode(EventRows(store.SearchEvents(s.Events().Items, q)), EventColumns), nil
	case model.KindEventSignups:
		return ExportSignups(s.EventSignups().Items, q), nil
	case model.KindBanners:
		return Encode(BannerRows(store.SearchBanners(s.Banners().Items, q)), BannerColumns), nil
	default:
		return "", fmt.Errorf("unsupported export kind: %s", kind)
	}
}

// ExportSignups は指定された参加申込一覧をqで絞り込んでCSVに変換する。
// キャッシュではなく特定イベントの取得結果を出力する場合に使う。
func ExportSignups(items []model.EventSignup, q string) string {
	return Encode(EventSignupRows(store.SearchEventSignups(items, q)), EventSignupColumns)
}
