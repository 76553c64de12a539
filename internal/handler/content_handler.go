package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/contentadmin/internal/csvexport"
	"github.com/hitoshi/contentadmin/internal/model"
	"github.com/hitoshi/contentadmin/internal/store"
)

// ContentStore はコンテンツハンドラーが必要とするエンティティストアのインターフェース。
// *store.Storeが実装する。
type ContentStore interface {
	csvexport.Source

	FetchSubscribers(ctx context.Context) store.Result[[]model.Subscriber]

	FetchArticles(ctx context.Context) store.Result[[]model.Article]
	CreateArticle(ctx context.Context, in model.ArticleInput) store.Result[model.Article]
	UpdateArticle(ctx context.Context, id string, patch model.ArticlePatch) store.Result[model.Article]
	ToggleArticleStatus(ctx context.Context, id string, active bool) store.Result[bool]

	FetchEvents(ctx context.Context) store.Result[[]model.Event]
	CreateEvent(ctx context.Context, in model.EventInput) store.Result[model.Event]
	UpdateEvent(ctx context.Context, id string, patch model.EventPatch) store.Result[model.Event]
	ToggleEventStatus(ctx context.Context, id string, active bool) store.Result[bool]

	FetchEventSignups(ctx context.Context, eventID string) store.Result[[]model.EventSignup]

	FetchBanners(ctx context.Context) store.Result[[]model.Banner]
	CreateBanner(ctx context.Context, in model.BannerInput) store.Result[model.Banner]
	UpdateBanner(ctx context.Context, id string, patch model.BannerPatch) store.Result[model.Banner]
	ToggleBannerStatus(ctx context.Context, id string, active bool) store.Result[bool]
	DeleteBanner(ctx context.Context, id string) store.Result[string]

	RefreshAll(ctx context.Context) error
	Summary(r store.DateRange) store.Summary
}

var _ ContentStore = (*store.Store)(nil)

// ContentHandler はコンテンツ管理のHTTPハンドラー。
type ContentHandler struct {
	store ContentStore
	now   func() time.Time
}

// NewContentHandler はContentHandlerを生成する。
func NewContentHandler(s ContentStore) *ContentHandler {
	return &ContentHandler{store: s, now: time.Now}
}

// statusRequest はステータス切り替えリクエストのボディ。
type statusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// statusResponse はステータス切り替えのレスポンス。
type statusResponse struct {
	ID       string `json:"id"`
	IsActive bool   `json:"is_active"`
}

// --- 購読者 ---

// ListSubscribers はキャッシュ中の購読者を検索・期間・並び順を適用して返す。
// GET /api/subscribers?q&sort&order&from&to
func (h *ContentHandler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	rng, ok := parseRange(w, r, store.DateRange{})
	if !ok {
		return
	}

	q := r.URL.Query()
	snap := h.store.Subscribers()
	items := store.SearchSubscribers(snap.Items, q.Get("q"))
	items = store.FilterSubscribers(items, rng)
	snap.Items = store.SortSubscribers(items, store.ParseSubscriberSort(q.Get("sort")), store.ParseSortOrder(q.Get("order")))

	writeJSON(w, http.StatusOK, snap)
}

// RefreshSubscribers は購読者を再取得する。
// POST /api/subscribers/refresh
func (h *ContentHandler) RefreshSubscribers(w http.ResponseWriter, r *http.Request) {
	writeRefresh(w, h.store.FetchSubscribers(r.Context()), h.store.Subscribers)
}

// --- 記事 ---

// ListArticles はキャッシュ中の記事を返す。
// GET /api/articles?q
func (h *ContentHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Articles()
	snap.Items = store.SearchArticles(snap.Items, r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, snap)
}

// RefreshArticles は記事を再取得する。
// POST /api/articles/refresh
func (h *ContentHandler) RefreshArticles(w http.ResponseWriter, r *http.Request) {
	writeRefresh(w, h.store.FetchArticles(r.Context()), h.store.Articles)
}

// CreateArticle は記事を作成する。
// POST /api/articles
func (h *ContentHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var in model.ArticleInput
	if !decodeBody(w, r, &in) {
		return
	}
	writeResult(w, http.StatusCreated, h.store.CreateArticle(r.Context(), in))
}

// UpdateArticle は記事を部分更新する。
// PATCH /api/articles/{id}
func (h *ContentHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := entityID(w, model.KindArticles, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	var patch model.ArticlePatch
	if !decodeBody(w, r, &patch) {
		return
	}
	writeResult(w, http.StatusOK, h.store.UpdateArticle(r.Context(), id, patch))
}

// SetArticleStatus は記事の公開状態を切り替える。
// PUT /api/articles/{id}/status
func (h *ContentHandler) SetArticleStatus(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, model.KindArticles, h.store.ToggleArticleStatus)
}

// --- イベント ---

// ListEvents はキャッシュ中のイベントを返す。
// GET /api/events?q
func (h *ContentHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Events()
	snap.Items = store.SearchEvents(snap.Items, r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, snap)
}

// RefreshEvents はイベントを再取得する。
// POST /api/events/refresh
func (h *ContentHandler) RefreshEvents(w http.ResponseWriter, r *http.Request) {
	writeRefresh(w, h.store.FetchEvents(r.Context()), h.store.Events)
}

// CreateEvent はイベントを作成する。リンク系フィールドはスキームを補完してから検証する。
// POST /api/events
func (h *ContentHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var in model.EventInput
	if !decodeBody(w, r, &in) {
		return
	}
	writeResult(w, http.StatusCreated, h.store.CreateEvent(r.Context(), in))
}

// UpdateEvent はイベントを部分更新する。
// PATCH /api/events/{id}
func (h *ContentHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := entityID(w, model.KindEvents, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	var patch model.EventPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	writeResult(w, http.StatusOK, h.store.UpdateEvent(r.Context(), id, patch))
}

// SetEventStatus はイベントの公開状態を切り替える。
// PUT /api/events/{id}/status
func (h *ContentHandler) SetEventStatus(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, model.KindEvents, h.store.ToggleEventStatus)
}

// --- 参加申込 ---

// ListEventSignups は指定イベントの参加申込を返す。
// キャッシュが別のイベントのものであれば先に取得する。
// GET /api/events/{id}/signups?q
func (h *ContentHandler) ListEventSignups(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.signupsFor(w, r)
	if !ok {
		return
	}
	snap.Items = store.SearchEventSignups(snap.Items, r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, snap)
}

// RefreshEventSignups は指定イベントの参加申込を再取得する。
// POST /api/events/{id}/signups/refresh
func (h *ContentHandler) RefreshEventSignups(w http.ResponseWriter, r *http.Request) {
	id, ok := entityID(w, model.KindEvents, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	res := h.store.FetchEventSignups(r.Context(), id)
	writeRefresh(w, res, h.store.EventSignups)
}

// signupsFor はURLのイベントの参加申込を返す。
// キャッシュが別のイベントのものであれば取得し、その結果を使う。
// 取得後に他のリクエストがキャッシュを別イベントで置き換えても、このイベントの行だけを返す。
func (h *ContentHandler) signupsFor(w http.ResponseWriter, r *http.Request) (store.SignupSnapshot, bool) {
	id, ok := entityID(w, model.KindEvents, chi.URLParam(r, "id"))
	if !ok {
		return store.SignupSnapshot{}, false
	}
	if snap := h.store.EventSignups(); snap.EventID == id {
		return snap, true
	}
	res := h.store.FetchEventSignups(r.Context(), id)
	if !res.OK() {
		writeAPIErrorResponse(w, http.StatusUnprocessableEntity, model.NewOperationFailedError(res.Error))
		return store.SignupSnapshot{}, false
	}
	return store.SignupSnapshot{
		Snapshot: store.Snapshot[model.EventSignup]{Items: res.Value},
		EventID:  id,
	}, true
}

// --- バナー ---

// ListBanners はキャッシュ中のバナーを返す。
// GET /api/banners?q
func (h *ContentHandler) ListBanners(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Banners()
	snap.Items = store.SearchBanners(snap.Items, r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, snap)
}

// RefreshBanners はバナーを再取得する。
// POST /api/banners/refresh
func (h *ContentHandler) RefreshBanners(w http.ResponseWriter, r *http.Request) {
	writeRefresh(w, h.store.FetchBanners(r.Context()), h.store.Banners)
}

// CreateBanner はバナーを作成する。
// POST /api/banners
func (h *ContentHandler) CreateBanner(w http.ResponseWriter, r *http.Request) {
	var in model.BannerInput
	if !decodeBody(w, r, &in) {
		return
	}
	writeResult(w, http.StatusCreated, h.store.CreateBanner(r.Context(), in))
}

// UpdateBanner はバナーを部分更新する。
// PATCH /api/banners/{id}
func (h *ContentHandler) UpdateBanner(w http.ResponseWriter, r *http.Request) {
	id, ok := entityID(w, model.KindBanners, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	var patch model.BannerPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	writeResult(w, http.StatusOK, h.store.UpdateBanner(r.Context(), id, patch))
}

// SetBannerStatus はバナーの公開状態を切り替える。
// PUT /api/banners/{id}/status
func (h *ContentHandler) SetBannerStatus(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, model.KindBanners, h.store.ToggleBannerStatus)
}

// DeleteBanner はバナーを削除する。
// DELETE /api/banners/{id}
func (h *ContentHandler) DeleteBanner(w http.ResponseWriter, r *http.Request) {
	id, ok := entityID(w, model.KindBanners, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	res := h.store.DeleteBanner(r.Context(), id)
	if !res.OK() {
		writeAPIErrorResponse(w, http.StatusUnprocessableEntity, model.NewOperationFailedError(res.Error))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- 共通 ---

func (h *ContentHandler) setStatus(w http.ResponseWriter, r *http.Request, kind model.Kind,
	toggle func(ctx context.Context, id string, active bool) store.Result[bool]) {
	id, ok := entityID(w, kind, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	var req statusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res := toggle(r.Context(), id, *req.IsActive)
	if !res.OK() {
		writeAPIErrorResponse(w, http.StatusUnprocessableEntity, model.NewOperationFailedError(res.Error))
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{ID: id, IsActive: res.Value})
}

// writeRefresh は取得結果に応じて最新のスナップショットまたは422を書き込む。
func writeRefresh[T, S any](w http.ResponseWriter, res store.Result[T], snapshot func() S) {
	if !res.OK() {
		writeAPIErrorResponse(w, http.StatusUnprocessableEntity, model.NewOperationFailedError(res.Error))
		return
	}
	writeJSON(w, http.StatusOK, snapshot())
}

// parseRange はfrom/toクエリ（YYYY-MM-DD）を期間に変換する。toはその日の終わりまでを含む。
// どちらも未指定の場合はdefを返す。
func parseRange(w http.ResponseWriter, r *http.Request, def store.DateRange) (store.DateRange, bool) {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from == "" && to == "" {
		return def, true
	}

	var rng store.DateRange
	if from != "" {
		t, err := time.Parse(model.DateLayout, from)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("from:datetime"))
			return rng, false
		}
		rng.From = t
	}
	if to != "" {
		t, err := time.Parse(model.DateLayout, to)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("to:datetime"))
			return rng, false
		}
		rng.To = t.Add(24*time.Hour - time.Nanosecond)
	}
	return rng, true
}
