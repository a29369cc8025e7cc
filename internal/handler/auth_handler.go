// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/savorspot/internal/model"
)

// sessionCookieName はセッショントークンを保持するCookie名。
const sessionCookieName = "token"

// TokenIssuer はセッショントークンの発行に必要なインターフェース。
// token.Codecの部分集合として定義する。
type TokenIssuer interface {
	Issue(identity string) (string, error)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain string
	CookieSecure bool
	TokenMaxAge  int // トークンCookieの有効期間（秒）
}

// AuthHandler はトークン発行・破棄のHTTPハンドラー。
type AuthHandler struct {
	issuer TokenIssuer
	config AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(issuer TokenIssuer, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		issuer: issuer,
		config: config,
	}
}

// issueTokenRequest はトークン発行リクエストのボディ。
type issueTokenRequest struct {
	Email string `json:"email"`
}

// IssueToken はメールアドレスに対する署名付きトークンを発行し、
// HTTP Only Cookieとして設定する。
// POST /jwt
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req issueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	if req.Email == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("email is required"))
		return
	}

	tokenStr, err := h.issuer.Issue(req.Email)
	if err != nil {
		slog.Error("failed to issue token", slog.String("error", err.Error()))
		writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
			Code:     model.ErrCodeInternal,
			Message:  "内部エラーが発生しました。",
			Category: "system",
			Action:   "しばらく待ってから再度お試しください。",
		})
		return
	}

	// トークンCookieを設定（HTTP Only）
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    tokenStr,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.TokenMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// Logout はトークンCookieをクリアする。
// トークン自体はステートレスなため、サーバー側に破棄する状態はない。
// GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
