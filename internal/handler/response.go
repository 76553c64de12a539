package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/hitoshi/contentadmin/internal/middleware"
	"github.com/hitoshi/contentadmin/internal/model"
	"github.com/hitoshi/contentadmin/internal/store"
)

// validate はリクエストボディの検証に使う。validator.Validateは並行利用できる。
var validate = validator.New(validator.WithRequiredStructEnabled())

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	middleware.WriteErrorResponse(w, statusCode, apiErr)
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteAPIError(w, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// normalizer は検証前に入力を正規化できるリクエストボディ。
type normalizer interface {
	Normalize()
}

// decodeBody はJSONボディをvに読み込み、正規化してからvalidateタグで検証する。
// 失敗した場合はエラーレスポンスを書き込んでfalseを返す。
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if !decodeJSON(w, r, v) {
		return false
	}
	if n, ok := v.(normalizer); ok {
		n.Normalize()
	}
	return validateBody(w, v)
}

// decodeJSON はJSONボディをvに読み込む。
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return false
	}
	return true
}

// validateBody はvをvalidateタグで検証する。
func validateBody(w http.ResponseWriter, v any) bool {
	if err := validate.Struct(v); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError(validationReason(err)))
		return false
	}
	return true
}

// validationReason は検証エラーを "field:tag" のカンマ区切りに整形する。
func validationReason(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Field()+":"+fe.Tag())
	}
	return strings.Join(parts, ", ")
}

// entityID はURLパラメータのIDを検証する。UUIDとして解釈できない場合は404を書き込む。
func entityID(w http.ResponseWriter, kind model.Kind, raw string) (string, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewEntityNotFoundError(kind, raw))
		return "", false
	}
	return id.String(), true
}

// writeResult はストア操作の結果を書き込む。失敗時は422 OPERATION_FAILEDを返す。
func writeResult[T any](w http.ResponseWriter, statusCode int, res store.Result[T]) {
	if !res.OK() {
		writeAPIErrorResponse(w, http.StatusUnprocessableEntity, model.NewOperationFailedError(res.Error))
		return
	}
	writeJSON(w, statusCode, res.Value)
}
