package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hitoshi/contentadmin/internal/csvexport"
	"github.com/hitoshi/contentadmin/internal/model"
)

// Export はキャッシュ中の一覧をCSVとしてダウンロードさせるハンドラーを返す。
// GET /api/{kind}/export?q
func (h *ContentHandler) Export(kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.writeCSV(w, r, kind)
	}
}

// ExportEventSignups は指定イベントの参加申込をCSVで返す。
// GET /api/events/{id}/signups/export?q
func (h *ContentHandler) ExportEventSignups(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.signupsFor(w, r)
	if !ok {
		return
	}
	h.writeCSVBody(w, model.KindEventSignups, csvexport.ExportSignups(snap.Items, r.URL.Query().Get("q")))
}

func (h *ContentHandler) writeCSV(w http.ResponseWriter, r *http.Request, kind model.Kind) {
	body, err := csvexport.Export(h.store, kind, r.URL.Query().Get("q"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	h.writeCSVBody(w, kind, body)
}

func (h *ContentHandler) writeCSVBody(w http.ResponseWriter, kind model.Kind, body string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+csvexport.FileName(kind, h.now())+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, body); err != nil {
		slog.Warn("failed to write csv", slog.String("kind", string(kind)), slog.String("error", err.Error()))
	}
}
