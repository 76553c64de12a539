// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, content, upload, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeCSRFInvalid        = "CSRF_TOKEN_INVALID"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeEntityNotFound     = "ENTITY_NOT_FOUND"
	ErrCodeOperationFailed    = "OPERATION_FAILED"
	ErrCodeInvalidImageType   = "INVALID_IMAGE_TYPE"
	ErrCodeImageTooLarge      = "IMAGE_TOO_LARGE"
	ErrCodeUploadFailed       = "UPLOAD_FAILED"
	ErrCodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewInvalidCredentialsError はログイン失敗エラーを生成する。
// メールアドレスとパスワードのどちらが誤っているかは区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewCSRFError はCSRFトークン検証失敗エラーを生成する。
func NewCSRFError() *APIError {
	return &APIError{
		Code:     ErrCodeCSRFInvalid,
		Message:  "CSRFトークンの検証に失敗しました。",
		Category: "auth",
		Action:   "ページを再読み込みしてから再度お試しください。",
	}
}

// NewInvalidRequestError はリクエストボディの解析失敗エラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}

// NewValidationError は入力値の検証失敗エラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  fmt.Sprintf("入力値が不正です: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}

// NewEntityNotFoundError はエンティティ未検出エラーを生成する。
func NewEntityNotFoundError(kind Kind, id string) *APIError {
	return &APIError{
		Code:     ErrCodeEntityNotFound,
		Message:  fmt.Sprintf("指定された%sが見つかりません: %s", kind.Singular(), id),
		Category: "content",
		Action:   "IDを確認してください。",
	}
}

// NewOperationFailedError はストア操作の失敗エラーを生成する。
// messageにはデータベースから返されたメッセージをそのまま含める。
func NewOperationFailedError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeOperationFailed,
		Message:  message,
		Category: "content",
		Action:   "内容を確認し、しばらく待ってから再度お試しください。",
	}
}

// NewInvalidImageTypeError は画像以外のファイルがアップロードされた場合のエラーを生成する。
func NewInvalidImageTypeError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidImageType,
		Message:  "Please select a valid image file",
		Category: "upload",
		Action:   "画像ファイル（image/*）を選択してください。",
	}
}

// NewImageTooLargeError は画像サイズ超過エラーを生成する。
func NewImageTooLargeError() *APIError {
	return &APIError{
		Code:     ErrCodeImageTooLarge,
		Message:  "Image size must be less than 20MB",
		Category: "upload",
		Action:   "20MB未満の画像を選択してください。",
	}
}

// NewUploadFailedError はストレージへの書き込み失敗エラーを生成する。
func NewUploadFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeUploadFailed,
		Message:  fmt.Sprintf("画像のアップロードに失敗しました: %s", reason),
		Category: "upload",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewRateLimitError はレート制限超過エラーを生成する。
func NewRateLimitError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimitExceeded,
		Message:  "Too many requests. Please try again later.",
		Category: "system",
		Action:   "Retry-Afterの秒数だけ待ってから再度お試しください。",
	}
}

// NewInternalError は内部エラーを生成する。詳細はログのみに記録する。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
