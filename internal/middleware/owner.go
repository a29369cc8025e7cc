package middleware

import (
	"log/slog"
	"net/http"

	"github.com/hitoshi/savorspot/internal/model"
)

// NewOwnershipGuard は呼び出し側が宣言した対象identity（emailクエリパラメータ）と
// セッションのidentityの一致を検証するミドルウェアを返す。
// 不一致の場合は403を返す。
//
// このガードは宣言された対象とセッションの一致のみを検査する。リソース自体の
// 所有者とセッションの一致は検査しない（IDを直接指定するルートには効かない）。
// 必ずセッションミドルウェアの後段に配置すること。identityが未設定の場合は
// ルーティングの構成誤りであり、エラーログとともに401を返す。
func NewOwnershipGuard() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := IdentityFromContext(r.Context())
			if err != nil {
				slog.Error("ownership guard invoked without session identity",
					slog.String("path", r.URL.Path),
				)
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			declared := r.URL.Query().Get("email")
			if declared != identity {
				WriteErrorResponse(w, http.StatusForbidden, model.NewForbiddenError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
