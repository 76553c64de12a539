package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/contentadmin/internal/model"
	"github.com/hitoshi/contentadmin/internal/repository"
	"github.com/hitoshi/contentadmin/internal/store"
)

// --- モック定義 ---
// 関数フィールドが未設定の場合は空の結果を返す。

type mockSubscriberRepo struct {
	listFn func(ctx context.Context) ([]model.Subscriber, error)
}

func (m *mockSubscriberRepo) List(ctx context.Context) ([]model.Subscriber, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

type mockArticleRepo struct {
	listFn      func(ctx context.Context) ([]model.Article, error)
	createFn    func(ctx context.Context, in model.ArticleInput) (*model.Article, error)
	updateFn    func(ctx context.Context, id string, patch model.ArticlePatch) (*model.Article, error)
	setActiveFn func(ctx context.Context, id string, active bool) error
}

func (m *mockArticleRepo) List(ctx context.Context) ([]model.Article, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockArticleRepo) Create(ctx context.Context, in model.ArticleInput) (*model.Article, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return nil, errors.New("not implemented")
}

func (m *mockArticleRepo) Update(ctx context.Context, id string, patch model.ArticlePatch) (*model.Article, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, patch)
	}
	return nil, errors.New("not implemented")
}

func (m *mockArticleRepo) SetActive(ctx context.Context, id string, active bool) error {
	if m.setActiveFn != nil {
		return m.setActiveFn(ctx, id, active)
	}
	return nil
}

type mockEventRepo struct {
	listFn      func(ctx context.Context) ([]model.Event, error)
	createFn    func(ctx context.Context, in model.EventInput) (*model.Event, error)
	updateFn    func(ctx context.Context, id string, patch model.EventPatch) (*model.Event, error)
	setActiveFn func(ctx context.Context, id string, active bool) error
}

func (m *mockEventRepo) List(ctx context.Context) ([]model.Event, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockEventRepo) Create(ctx context.Context, in model.EventInput) (*model.Event, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return nil, errors.New("not implemented")
}

func (m *mockEventRepo) Update(ctx context.Context, id string, patch model.EventPatch) (*model.Event, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, patch)
	}
	return nil, errors.New("not implemented")
}

func (m *mockEventRepo) SetActive(ctx context.Context, id string, active bool) error {
	if m.setActiveFn != nil {
		return m.setActiveFn(ctx, id, active)
	}
	return nil
}

type mockSignupRepo struct {
	listByEventFn func(ctx context.Context, eventID string) ([]model.EventSignup, error)
}

func (m *mockSignupRepo) ListByEvent(ctx context.Context, eventID string) ([]model.EventSignup, error) {
	if m.listByEventFn != nil {
		return m.listByEventFn(ctx, eventID)
	}
	return nil, nil
}

type mockBannerRepo struct {
	listFn      func(ctx context.Context) ([]model.Banner, error)
	createFn    func(ctx context.Context, in model.BannerInput) (*model.Banner, error)
	updateFn    func(ctx context.Context, id string, patch model.BannerPatch) (*model.Banner, error)
	setActiveFn func(ctx context.Context, id string, active bool) error
	deleteFn    func(ctx context.Context, id string) error
}

func (m *mockBannerRepo) List(ctx context.Context) ([]model.Banner, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockBannerRepo) Create(ctx context.Context, in model.BannerInput) (*model.Banner, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return nil, errors.New("not implemented")
}

func (m *mockBannerRepo) Update(ctx context.Context, id string, patch model.BannerPatch) (*model.Banner, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, patch)
	}
	return nil, errors.New("not implemented")
}

func (m *mockBannerRepo) SetActive(ctx context.Context, id string, active bool) error {
	if m.setActiveFn != nil {
		return m.setActiveFn(ctx, id, active)
	}
	return nil
}

func (m *mockBannerRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- compile-time interface checks ---
var (
	_ repository.SubscriberRepository  = (*mockSubscriberRepo)(nil)
	_ repository.ArticleRepository     = (*mockArticleRepo)(nil)
	_ repository.EventRepository       = (*mockEventRepo)(nil)
	_ repository.EventSignupRepository = (*mockSignupRepo)(nil)
	_ repository.BannerRepository      = (*mockBannerRepo)(nil)
)

// testRepos はテスト用のリポジトリ群。
type testRepos struct {
	subscribers *mockSubscriberRepo
	articles    *mockArticleRepo
	events      *mockEventRepo
	signups     *mockSignupRepo
	banners     *mockBannerRepo
}

func newTestRepos() *testRepos {
	return &testRepos{
		subscribers: &mockSubscriberRepo{},
		articles:    &mockArticleRepo{},
		events:      &mockEventRepo{},
		signups:     &mockSignupRepo{},
		banners:     &mockBannerRepo{},
	}
}

// newTestStore は実際のStoreをモックリポジトリで組み立てる。
func newTestStore(repos *testRepos, board *store.NoticeBoard) *store.Store {
	var notifier store.Notifier
	if board != nil {
		notifier = board
	}
	return store.New(store.Repositories{
		Subscribers:  repos.subscribers,
		Articles:     repos.articles,
		Events:       repos.events,
		EventSignups: repos.signups,
		Banners:      repos.banners,
	}, notifier, nil, nil)
}

// newContentRouter はContentHandlerのルートのみを持つルーターを返す。
// ミドルウェアを通さずにハンドラーを検証するために使う。
func newContentRouter(h *ContentHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/dashboard", h.Dashboard)
	r.Get("/api/subscribers", h.ListSubscribers)
	r.Post("/api/subscribers/refresh", h.RefreshSubscribers)
	r.Get("/api/subscribers/export", h.Export(model.KindSubscribers))
	r.Get("/api/articles", h.ListArticles)
	r.Post("/api/articles", h.CreateArticle)
	r.Post("/api/articles/refresh", h.RefreshArticles)
	r.Patch("/api/articles/{id}", h.UpdateArticle)
	r.Put("/api/articles/{id}/status", h.SetArticleStatus)
	r.Get("/api/events", h.ListEvents)
	r.Post("/api/events", h.CreateEvent)
	r.Patch("/api/events/{id}", h.UpdateEvent)
	r.Get("/api/events/{id}/signups", h.ListEventSignups)
	r.Get("/api/events/{id}/signups/export", h.ExportEventSignups)
	r.Post("/api/banners/refresh", h.RefreshBanners)
	r.Delete("/api/banners/{id}", h.DeleteBanner)
	return r
}

// fixedNow はテストで使う固定時刻。
var fixedNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
