// Package store はエンティティストアを提供する。
//
// Storeはコンテンツエンティティのプロセス内キャッシュと、種別ごとの
// loading/errorフラグを保持し、管理画面とデータベースの間の読み書きを仲介する。
// 変更系の操作はデータベースが確定した行を受け取ってからキャッシュに反映する。
package store

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hitoshi/contentadmin/internal/model"
	"github.com/hitoshi/contentadmin/internal/repository"
)

// Repositories はStoreが利用するリポジトリ群。
type Repositories struct {
	Subscribers  repository.SubscriberRepository
	Articles     repository.ArticleRepository
	Events       repository.EventRepository
	EventSignups repository.EventSignupRepository
	Banners      repository.BannerRepository
}

// Sanitizer はリッチテキストフィールドを保存前に無害化する。
type Sanitizer interface {
	Sanitize(rawHTML string) string
}

// MetricsRecorder はストア操作のメトリクスを記録する。
type MetricsRecorder interface {
	RecordStoreOperation(kind, op string, ok bool, duration time.Duration)
	RecordCachedEntities(kind string, count int)
}

// Store はエンティティストア。
type Store struct {
	repos     Repositories
	notifier  Notifier
	sanitizer Sanitizer
	metrics   MetricsRecorder
	now       func() time.Time

	subscribers collection[model.Subscriber]
	articles    collection[model.Article]
	events      collection[model.Event]
	signups     collection[model.EventSignup]
	banners     collection[model.Banner]
}

// New はStoreを生成する。notifier、sanitizer、recorderはnilでもよい。
func New(repos Repositories, notifier Notifier, sanitizer Sanitizer, recorder MetricsRecorder) *Store {
	if notifier == nil {
		notifier = discardNotifier{}
	}
	if sanitizer == nil {
		sanitizer = passthrough{}
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Store{
		repos:       repos,
		notifier:    notifier,
		sanitizer:   sanitizer,
		metrics:     recorder,
		now:         time.Now,
		subscribers: collection[model.Subscriber]{items: []model.Subscriber{}},
		articles:    collection[model.Article]{items: []model.Article{}},
		events:      collection[model.Event]{items: []model.Event{}},
		signups:     collection[model.EventSignup]{items: []model.EventSignup{}},
		banners:     collection[model.Banner]{items: []model.Banner{}},
	}
}

// --- 購読者 ---

// FetchSubscribers は購読者一覧を取得してキャッシュを置き換える。
func (s *Store) FetchSubscribers(ctx context.Context) Result[[]model.Subscriber] {
	return fetchInto(ctx, s, model.KindSubscribers, &s.subscribers, "",
		func(ctx context.Context) ([]model.Subscriber, error) { return s.repos.Subscribers.List(ctx) },
	)
}

// Subscribers はキャッシュ中の購読者のスナップショットを返す。
func (s *Store) Subscribers() Snapshot[model.Subscriber] {
	snap, _ := s.subscribers.snapshot()
	return snap
}

// --- 記事 ---

// FetchArticles は記事一覧を取得してキャッシュを置き換える。
func (s *Store) FetchArticles(ctx context.Context) Result[[]model.Article] {
	return fetchInto(ctx, s, model.KindArticles, &s.articles, "",
		func(ctx context.Context) ([]model.Article, error) { return s.repos.Articles.List(ctx) },
	)
}

// Articles はキャッシュ中の記事のスナップショットを返す。
func (s *Store) Articles() Snapshot[model.Article] {
	snap, _ := s.articles.snapshot()
	return snap
}

// CreateArticle は記事を作成し、サーバーが返した行を先頭に追加する。
func (s *Store) CreateArticle(ctx context.Context, in model.ArticleInput) Result[model.Article] {
	in.EventDate = model.NormalizeDate(in.EventDate)
	in.Credits = s.sanitizer.Sanitize(in.Credits)
	in.EventOverview = s.sanitizer.Sanitize(in.EventOverview)
	in.Layout = sanitizeLayout(s.sanitizer, in.Layout)

	return createIn(ctx, s, model.KindArticles, &s.articles, func(ctx context.Context) (*model.Article, error) {
		return s.repos.Articles.Create(ctx, in)
	})
}

// UpdateArticle は記事を部分更新し、同じIDのキャッシュ行を上書きする。
// 空の日付はNULLとして書き込む。
func (s *Store) UpdateArticle(ctx context.Context, id string, patch model.ArticlePatch) Result[model.Article] {
	patch.EventDate = model.NormalizeDateUpdate(patch.EventDate)
	patch.Credits = sanitizePtr(s.sanitizer, patch.Credits)
	patch.EventOverview = sanitizePtr(s.sanitizer, patch.EventOverview)
	if patch.Layout != nil {
		l := sanitizeLayout(s.sanitizer, *patch.Layout)
		patch.Layout = &l
	}

	return updateIn(ctx, s, model.KindArticles, &s.articles, id, func(ctx context.Context) (*model.Article, error) {
		return s.repos.Articles.Update(ctx, id, patch)
	})
}

// ToggleArticleStatus は記事のis_activeのみを更新する。
func (s *Store) ToggleArticleStatus(ctx context.Context, id string, active bool) Result[bool] {
	return toggleIn(ctx, s, model.KindArticles, &s.articles, id, active,
		func(ctx context.Context) error { return s.repos.Articles.SetActive(ctx, id, active) },
		func(a *model.Article) { a.IsActive = active },
	)
}

// --- イベント ---

// FetchEvents はイベント一覧を取得してキャッシュを置き換える。
func (s *Store) FetchEvents(ctx context.Context) Result[[]model.Event] {
	return fetchInto(ctx, s, model.KindEvents, &s.events, "",
		func(ctx context.Context) ([]model.Event, error) { return s.repos.Events.List(ctx) },
	)
}

// Events はキャッシュ中のイベントのスナップショットを返す。
func (s *Store) Events() Snapshot[model.Event] {
	snap, _ := s.events.snapshot()
	return snap
}

// CreateEvent はイベントを作成し、サーバーが返した行を先頭に追加する。
func (s *Store) CreateEvent(ctx context.Context, in model.EventInput) Result[model.Event] {
	in.EventDate = model.NormalizeDate(in.EventDate)
	in.EventOverview = s.sanitizer.Sanitize(in.EventOverview)
	in.EventTnc = s.sanitizer.Sanitize(in.EventTnc)
	in.TimePlace = s.sanitizer.Sanitize(in.TimePlace)

	return createIn(ctx, s, model.KindEvents, &s.events, func(ctx context.Context) (*model.Event, error) {
		return s.repos.Events.Create(ctx, in)
	})
}

// UpdateEvent はイベントを部分更新し、同じIDのキャッシュ行を上書きする。
func (s *Store) UpdateEvent(ctx context.Context, id string, patch model.EventPatch) Result[model.Event] {
	patch.EventDate = model.NormalizeDateUpdate(patch.EventDate)
	patch.EventOverview = sanitizePtr(s.sanitizer, patch.EventOverview)
	patch.EventTnc = sanitizePtr(s.sanitizer, patch.EventTnc)
	patch.TimePlace = sanitizePtr(s.sanitizer, patch.TimePlace)

	return updateIn(ctx, s, model.KindEvents, &s.events, id, func(ctx context.Context) (*model.Event, error) {
		return s.repos.Events.Update(ctx, id, patch)
	})
}

// ToggleEventStatus はイベントのis_activeのみを更新する。
func (s *Store) ToggleEventStatus(ctx context.Context, id string, active bool) Result[bool] {
	return toggleIn(ctx, s, model.KindEvents, &s.events, id, active,
		func(ctx context.Context) error { return s.repos.Events.SetActive(ctx, id, active) },
		func(e *model.Event) { e.IsActive = active },
	)
}

// --- 参加申込 ---

// ErrEventIDRequired は参加申込の取得に親イベントIDが指定されなかったことを表す。
var ErrEventIDRequired = errors.New("event id is required")

// SignupSnapshot は参加申込のスナップショットと、その取得対象のイベントID。
type SignupSnapshot struct {
	Snapshot[model.EventSignup]
	EventID string `json:"event_id"`
}

// FetchEventSignups は指定イベントの参加申込を取得してキャッシュを置き換える。
// キャッシュは最後に完了した取得のイベントIDとその申込一覧を保持する。
func (s *Store) FetchEventSignups(ctx context.Context, eventID string) Result[[]model.EventSignup] {
	return fetchInto(ctx, s, model.KindEventSignups, &s.signups, eventID,
		func(ctx context.Context) ([]model.EventSignup, error) {
			if eventID == "" {
				return nil, ErrEventIDRequired
			}
			return s.repos.EventSignups.ListByEvent(ctx, eventID)
		},
	)
}

// EventSignups はキャッシュ中の参加申込のスナップショットを返す。
func (s *Store) EventSignups() SignupSnapshot {
	snap, eventID := s.signups.snapshot()
	return SignupSnapshot{Snapshot: snap, EventID: eventID}
}

// --- バナー ---

// FetchBanners はバナー一覧を取得してキャッシュを置き換える。
func (s *Store) FetchBanners(ctx context.Context) Result[[]model.Banner] {
	return fetchInto(ctx, s, model.KindBanners, &s.banners, "",
		func(ctx context.Context) ([]model.Banner, error) { return s.repos.Banners.List(ctx) },
	)
}

// Banners はキャッシュ中のバナーのスナップショットを返す。
func (s *Store) Banners() Snapshot[model.Banner] {
	snap, _ := s.banners.snapshot()
	return snap
}

// CreateBanner はバナーを作成し、サーバーが返した行を先頭に追加する。
func (s *Store) CreateBanner(ctx context.Context, in model.BannerInput) Result[model.Banner] {
	in.Title = s.sanitizer.Sanitize(in.Title)

	return createIn(ctx, s, model.KindBanners, &s.banners, func(ctx context.Context) (*model.Banner, error) {
		return s.repos.Banners.Create(ctx, in)
	})
}

// UpdateBanner はバナーを部分更新し、同じIDのキャッシュ行を上書きする。
func (s *Store) UpdateBanner(ctx context.Context, id string, patch model.BannerPatch) Result[model.Banner] {
	patch.Title = sanitizePtr(s.sanitizer, patch.Title)

	return updateIn(ctx, s, model.KindBanners, &s.banners, id, func(ctx context.Context) (*model.Banner, error) {
		return s.repos.Banners.Update(ctx, id, patch)
	})
}

// ToggleBannerStatus はバナーのis_activeのみを更新する。
func (s *Store) ToggleBannerStatus(ctx context.Context, id string, active bool) Result[bool] {
	return toggleIn(ctx, s, model.KindBanners, &s.banners, id, active,
		func(ctx context.Context) error { return s.repos.Banners.SetActive(ctx, id, active) },
		func(b *model.Banner) { b.IsActive = active },
	)
}

// DeleteBanner はバナーを削除し、確認後にキャッシュから取り除く。
func (s *Store) DeleteBanner(ctx context.Context, id string) Result[string] {
	return deleteIn(ctx, s, model.KindBanners, &s.banners, id, func(ctx context.Context) error {
		return s.repos.Banners.Delete(ctx, id)
	})
}

// RefreshAll は参加申込以外の全コレクションを並行して取得する。
// 個々の失敗は各コレクションのerrorと通知に記録され、最初の失敗メッセージをエラーとして返す。
func (s *Store) RefreshAll(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return resultErr(s.FetchSubscribers(ctx)) })
	g.Go(func() error { return resultErr(s.FetchArticles(ctx)) })
	g.Go(func() error { return resultErr(s.FetchEvents(ctx)) })
	g.Go(func() error { return resultErr(s.FetchBanners(ctx)) })
	return g.Wait()
}

func resultErr[T any](r Result[T]) error {
	if r.OK() {
		return nil
	}
	return errors.New(r.Error)
}

type passthrough struct{}

func (passthrough) Sanitize(rawHTML string) string { return rawHTML }

type nopRecorder struct{}

func (nopRecorder) RecordStoreOperation(string, string, bool, time.Duration) {}
func (nopRecorder) RecordCachedEntities(string, int)                         {}
