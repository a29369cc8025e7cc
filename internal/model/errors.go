package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, food, order, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeForbidden      = "FORBIDDEN"
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeFoodNotFound   = "FOOD_NOT_FOUND"
	ErrCodeOrderNotFound  = "ORDER_NOT_FOUND"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// NewUnauthorizedError は認証エラーを生成する。
// トークンの欠落・期限切れ・署名不正を区別しない汎用メッセージを返す
// （失敗モードの詳細はトークン偽造の手がかりになるため応答に含めない）。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewForbiddenError は認可エラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "この操作を行う権限がありません。",
		Category: "auth",
		Action:   "自分のアカウントのデータのみ参照できます。",
	}
}

// NewInvalidRequestError はリクエスト不正エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	}
}

// NewFoodNotFoundError はフード未検出エラーを生成する。
func NewFoodNotFoundError(foodID string) *APIError {
	return &APIError{
		Code:     ErrCodeFoodNotFound,
		Message:  fmt.Sprintf("指定されたフードが見つかりません: %s", foodID),
		Category: "food",
		Action:   "フードIDを確認してください。",
	}
}

// NewOrderNotFoundError は注文未検出エラーを生成する。
func NewOrderNotFoundError(orderID string) *APIError {
	return &APIError{
		Code:     ErrCodeOrderNotFound,
		Message:  fmt.Sprintf("指定された注文が見つかりません: %s", orderID),
		Category: "order",
		Action:   "注文IDを確認してください。",
	}
}
