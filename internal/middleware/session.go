// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hitoshi/savorspot/internal/model"
)

// sessionCookieName はセッショントークンを保持するCookie名。
const sessionCookieName = "token"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// identityContextKey はリクエストコンテキストに認証済みidentity（メールアドレス）を
// 格納するためのキー。
var identityContextKey = contextKey("identity")

// TokenVerifier はセッショントークンの検証に必要なインターフェース。
// token.Codecの部分集合として定義する。
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// NewSessionMiddleware はHTTP Only Cookieからセッショントークンを読み取り、
// 署名と有効期限を検証するミドルウェアを返す。
// 検証済みidentityをリクエストコンテキストに注入し、後続へ処理を渡す。
// 未認証リクエストには401を返す。Cookieの欠落・空値・署名不正・期限切れは
// レスポンス上では区別しない（失敗種別はログにのみ残す）。
func NewSessionMiddleware(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Cookieからトークンを取得
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			// 2. トークンの署名と有効期限を検証
			identity, err := verifier.Verify(cookie.Value)
			if err != nil {
				slog.Warn("token verification failed",
					slog.String("error", err.Error()),
				)
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			// 3. 検証済みidentityをコンテキストに注入
			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext はリクエストコンテキストから認証済みidentityを取得する。
// セッションミドルウェアを通過したリクエストでのみ有効。
func IdentityFromContext(ctx context.Context) (string, error) {
	identity, ok := ctx.Value(identityContextKey).(string)
	if !ok || identity == "" {
		return "", fmt.Errorf("identity not found in context")
	}
	return identity, nil
}

// ContextWithIdentity はコンテキストにidentityを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}
