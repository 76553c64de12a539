package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hitoshi/contentadmin/internal/model"
	"github.com/hitoshi/contentadmin/internal/store"
)

// NoticeSource は溜まった通知を一度だけ取り出すインターフェース。
type NoticeSource interface {
	Drain() []store.Notice
}

var _ NoticeSource = (*store.NoticeBoard)(nil)

// dashboardResponse はダッシュボードのレスポンス。
// Errorsは直近の取得に失敗した種別のエラー文字列。
type dashboardResponse struct {
	Summary store.Summary         `json:"summary"`
	Errors  map[model.Kind]string `json:"errors,omitempty"`
}

// Dashboard は期間内の集計値を返す。期間未指定の場合は直近30日。
// refresh=true の場合は全種別を再取得してから集計する。
// GET /api/dashboard?from&to&refresh
func (h *ContentHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	rng, ok := parseRange(w, r, store.LastDays(h.now(), store.DefaultSummaryWindow))
	if !ok {
		return
	}

	if refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh")); refresh {
		// 取得失敗は種別ごとのエラーとして残るため、集計は続行する
		if err := h.store.RefreshAll(r.Context()); err != nil {
			slog.Warn("dashboard refresh incomplete", slog.String("error", err.Error()))
		}
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Summary: h.store.Summary(rng),
		Errors:  h.fetchErrors(),
	})
}

func (h *ContentHandler) fetchErrors() map[model.Kind]string {
	errs := map[model.Kind]string{}
	add := func(kind model.Kind, msg string) {
		if msg != "" {
			errs[kind] = msg
		}
	}
	add(model.KindSubscribers, h.store.Subscribers().Error)
	add(model.KindArticles, h.store.Articles().Error)
	add(model.KindEvents, h.store.Events().Error)
	add(model.KindBanners, h.store.Banners().Error)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// NoticeHandler は通知取得のHTTPハンドラー。
type NoticeHandler struct {
	notices NoticeSource
}

// NewNoticeHandler はNoticeHandlerを生成する。
func NewNoticeHandler(notices NoticeSource) *NoticeHandler {
	return &NoticeHandler{notices: notices}
}

type noticesResponse struct {
	Notices []store.Notice `json:"notices"`
	At      time.Time      `json:"at"`
}

// Drain は溜まっている通知を返し、取り出した通知は破棄する。
// GET /api/notices
func (h *NoticeHandler) Drain(w http.ResponseWriter, r *http.Request) {
	notices := h.notices.Drain()
	if notices == nil {
		notices = []store.Notice{}
	}
	writeJSON(w, http.StatusOK, noticesResponse{Notices: notices, At: time.Now()})
}
