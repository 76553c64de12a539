package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/contentadmin/internal/model"
)

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponseBody {
	t.Helper()
	var body ErrorResponseBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

func TestWriteErrorResponse_WritesUnifiedFormat(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.Header().Set("Content-Disposition", `attachment; filename="carousels-2024-03-15.csv"`)

	WriteErrorResponse(rec, http.StatusUnprocessableEntity, model.NewOperationFailedError("duplicate key value"))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", cc)
	}
	// エラー時にCSVの添付ヘッダーを残さない
	if cd := rec.Header().Get("Content-Disposition"); cd != "" {
		t.Errorf("Content-Disposition = %q, want removed", cd)
	}

	body := decodeErrorBody(t, rec)
	if body.Code != model.ErrCodeOperationFailed {
		t.Errorf("code = %q", body.Code)
	}
	if body.Message != "duplicate key value" {
		t.Errorf("message = %q, want database message", body.Message)
	}
	if body.Category != "content" || body.Action == "" {
		t.Errorf("category/action = %q/%q", body.Category, body.Action)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  *model.APIError
		want int
	}{
		{model.NewUnauthorizedError(), http.StatusUnauthorized},
		{model.NewInvalidCredentialsError(), http.StatusUnauthorized},
		{model.NewCSRFError(), http.StatusForbidden},
		{model.NewInvalidRequestError(), http.StatusBadRequest},
		{model.NewValidationError("title:required"), http.StatusBadRequest},
		{model.NewEntityNotFoundError(model.KindBanners, "x"), http.StatusNotFound},
		{model.NewOperationFailedError("boom"), http.StatusUnprocessableEntity},
		{model.NewInvalidImageTypeError(), http.StatusUnsupportedMediaType},
		{model.NewImageTooLargeError(), http.StatusRequestEntityTooLarge},
		{model.NewUploadFailedError("disk full"), http.StatusBadGateway},
		{model.NewRateLimitError(), http.StatusTooManyRequests},
		{model.NewInternalError(), http.StatusInternalServerError},
		{&model.APIError{Code: "SOMETHING_ELSE"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			if got := StatusFor(tt.err); got != tt.want {
				t.Errorf("StatusFor(%s) = %d, want %d", tt.err.Code, got, tt.want)
			}
		})
	}
}

func TestWriteAPIError_UsesMappedStatus(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteAPIError(rec, model.NewImageTooLargeError())

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusRequestEntityTooLarge)
	}
	if body := decodeErrorBody(t, rec); body.Message != "Image size must be less than 20MB" {
		t.Errorf("message = %q", body.Message)
	}
}

func TestInternalServerError_ReturnsSystemError(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteInternalServerError(rec)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	body := decodeErrorBody(t, rec)
	if body.Code != model.ErrCodeInternal || body.Category != "system" {
		t.Errorf("body = %+v", body)
	}
}

func TestErrorResponseBody_AllFieldsPresent(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteAPIError(rec, &model.APIError{Code: "CODE"})

	var raw map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	// 空文字列でも省略しない
	for _, field := range []string{"code", "message", "category", "action"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("missing required field: %s", field)
		}
	}
}
