package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/contentadmin/internal/middleware"
	"github.com/hitoshi/contentadmin/internal/model"
	"github.com/hitoshi/contentadmin/internal/upload"
)

// multipartMemory はマルチパートフォームをメモリに保持する上限。超えた分は一時ファイルに書き出される。
const multipartMemory = 8 << 20

// multipartOverhead はファイル本体以外のフォーム部分に許容するバイト数。
const multipartOverhead = 1 << 20

// Uploader はアップロードハンドラーが必要とする画像保存のインターフェース。
type Uploader interface {
	Upload(ctx context.Context, f upload.File, folder string) (string, error)
	Delete(ctx context.Context, publicURL string) error
}

var _ Uploader = (*upload.Uploader)(nil)

// UploadHandler は画像アップロードのHTTPハンドラー。
type UploadHandler struct {
	uploader Uploader
	maxSize  int64
}

// NewUploadHandler はUploadHandlerを生成する。maxSizeが0以下の場合はupload.MaxSizeを使う。
func NewUploadHandler(uploader Uploader, maxSize int64) *UploadHandler {
	if maxSize <= 0 {
		maxSize = upload.MaxSize
	}
	return &UploadHandler{uploader: uploader, maxSize: maxSize}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload は画像を保存して公開URLを返す。
// POST /api/uploads (multipart: file, folder)
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeAPIErrorResponse(w, http.StatusRequestEntityTooLarge, model.NewImageTooLargeError())
			return
		}
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("file:required"))
		return
	}
	defer file.Close()

	publicURL, err := h.uploader.Upload(r.Context(), upload.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, r.FormValue("folder"))
	if err != nil {
		writeUploadError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{URL: publicURL})
}

// Delete は公開URLが指す画像を削除する。
// DELETE /api/uploads?url=
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	publicURL := r.URL.Query().Get("url")
	if publicURL == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("url:required"))
		return
	}

	if err := h.uploader.Delete(r.Context(), publicURL); err != nil {
		if errors.Is(err, upload.ErrInvalidKey) {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("url:invalid"))
			return
		}
		slog.Error("failed to delete upload",
			slog.String("url", publicURL),
			slog.String("error", err.Error()),
		)
		writeAPIErrorResponse(w, http.StatusBadGateway, model.NewUploadFailedError(err.Error()))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeUploadError はアップロード失敗の種別をAPIErrorに変換して書き込む。
func writeUploadError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	switch upload.ReasonOf(err) {
	case upload.ReasonInvalidType:
		apiErr = model.NewInvalidImageTypeError()
	case upload.ReasonTooLarge:
		apiErr = model.NewImageTooLargeError()
	default:
		slog.Error("upload failed", slog.String("error", err.Error()))
		apiErr = model.NewUploadFailedError(err.Error())
	}
	middleware.WriteAPIError(w, apiErr)
}
